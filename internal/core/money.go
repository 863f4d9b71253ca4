// Package core holds the TVDE ledger domain: entities, tax tables, the
// income derivation rules and the aggregation engine.
//
// This file contains helpers for parsing and formatting euro amounts.
// Amounts are stored as float64 euros; rounding to 2 decimals happens only
// at presentation time.
package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ParseAmount converts a decimal string into a euro amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. Only
// positive values are accepted. Returns ErrInvalidAmount for anything else.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '.' {
			return 0, ErrInvalidAmount
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 || math.IsInf(v, 0) {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// Round2 rounds to 2 decimal places, half away from zero. Presentation
// only; derivation and aggregation keep full precision.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatEuros renders an amount as "€1234,56" with a comma decimal
// separator, the pt-PT convention.
func FormatEuros(v float64) string {
	neg := v < 0
	cents := int64(math.Round(math.Abs(v) * 100))
	s := fmt.Sprintf("€%d,%02d", cents/100, cents%100)
	if neg {
		return "-" + s
	}
	return s
}
