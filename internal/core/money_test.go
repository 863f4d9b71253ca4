package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out float64
		ok  bool
	}{
		{"1", 1, true},
		{"1.23", 1.23, true},
		{"1,23", 1.23, true},
		{" 2.50 ", 2.5, true},
		{"0.01", 0.01, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"0", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q: got %v (err=%v), want %v", tc.in, got, err, tc.out)
			}
		} else if err == nil {
			t.Fatalf("%q: expected error", tc.in)
		}
	}
}

func TestFormatEuros(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "€0,00"},
		{1234.5, "€1234,50"},
		{5.666, "€5,67"},
		{-20, "-€20,00"},
	}
	for _, tc := range cases {
		if got := FormatEuros(tc.in); got != tc.want {
			t.Fatalf("%v: got %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2025, 3, 9)
	b, err := d.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `"2025-03-09"` {
		t.Fatalf("got %s", b)
	}

	var back Date
	if err := back.UnmarshalJSON(b); err != nil {
		t.Fatal(err)
	}
	if !back.Equal(d.Time) {
		t.Fatalf("round trip mismatch: %s vs %s", back, d)
	}
}

func TestDateWithin(t *testing.T) {
	d := NewDate(2025, 3, 10)
	if !d.Within(NewDate(2025, 3, 10), NewDate(2025, 3, 10)) {
		t.Fatal("bounds must be inclusive")
	}
	if !d.Within(Date{}, Date{}) {
		t.Fatal("open bounds must match")
	}
	if d.Within(NewDate(2025, 3, 11), Date{}) {
		t.Fatal("date before start must not match")
	}
	if d.Within(Date{}, NewDate(2025, 3, 9)) {
		t.Fatal("date after end must not match")
	}
}
