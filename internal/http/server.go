package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	gocache "github.com/patrickmn/go-cache"

	"tvde/internal/log"
	"tvde/internal/services"
	"tvde/internal/store"
)

const (
	summaryCacheTTL     = 30 * time.Second
	summaryCacheCleanup = 5 * time.Minute
)

// Server serves the JSON API. Summaries are cached briefly and the cache is
// flushed on every mutation.
type Server struct {
	ledger  *services.Ledger
	backups *services.BackupService
	store   *store.Store
	logger  *log.Logger

	summaryCache *gocache.Cache
	limiter      *ipRateLimiter
	srv          *http.Server
}

func NewServer(port string, ledger *services.Ledger, backups *services.BackupService, st *store.Store, logger *log.Logger) *Server {
	s := &Server{
		ledger:       ledger,
		backups:      backups,
		store:        st,
		logger:       logger.WithComponent(log.ComponentHTTP),
		summaryCache: gocache.New(summaryCacheTTL, summaryCacheCleanup),
		limiter:      newIPRateLimiter(),
	}

	s.srv = &http.Server{
		Addr:         ":" + port,
		Handler:      s.routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(securityHeaders)
	r.Use(s.rateLimit)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", s.handleListTransactions)
			r.Post("/", s.handleSaveTransaction)
			r.Put("/{id}", s.handleUpdateTransaction)
			r.Delete("/{id}", s.handleDeleteTransaction)
		})

		r.Route("/platforms", func(r chi.Router) {
			r.Get("/", s.handleListPlatforms)
			r.Post("/", s.handleAddPlatform)
			r.Put("/{id}", s.handleUpdatePlatform)
			r.Delete("/{id}", s.handleDeletePlatform)
		})

		r.Route("/drivers", func(r chi.Router) {
			r.Get("/", s.handleListDrivers)
			r.Post("/", s.handleAddDriver)
			r.Put("/{id}", s.handleUpdateDriver)
			r.Delete("/{id}", s.handleDeleteDriver)
		})

		r.Route("/vehicles", func(r chi.Router) {
			r.Get("/", s.handleListVehicles)
			r.Post("/", s.handleAddVehicle)
			r.Put("/{id}", s.handleUpdateVehicle)
			r.Delete("/{id}", s.handleDeleteVehicle)
		})

		r.Get("/summary", s.handleSummary)
		r.Get("/reports/{period}", s.handlePeriodReport)

		r.Route("/backups", func(r chi.Router) {
			r.Get("/", s.handleListBackups)
			r.Post("/", s.handleCreateBackup)
			r.Post("/{id}/restore", s.handleRestoreBackup)
			r.Delete("/{id}", s.handleDeleteBackup)
		})
	})

	return r
}

// Start blocks until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", "addr", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.stop()
	return s.srv.Shutdown(ctx)
}

// Handler exposes the routed handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// invalidateSummaries drops all cached summaries after a mutation.
func (s *Server) invalidateSummaries() {
	s.summaryCache.Flush()
}

// requestLogger logs one line per request with status and latency.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.InfoContext(r.Context(), "Request handled",
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatusCode, ww.Status(),
			log.FieldDuration, time.Since(start).Milliseconds(),
			log.FieldClientIP, extractClientIP(r),
		)
	})
}
