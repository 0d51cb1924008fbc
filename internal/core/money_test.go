package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out float64
		ok  bool
	}{
		{"1", 1, true},
		{"1.0", 1, true},
		{"1.23", 1.23, true},
		{"1,23", 1.23, true},
		{"0.01", 0.01, true},
		{"1.005", 1.01, true}, // half-up rounding
		{" 2.50 ", 2.50, true},
		{"-1", 0, false},
		{"0", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %v, got %v (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		in  float64
		out string
	}{
		{0, "$0.00"},
		{5, "$5.00"},
		{1234.5, "$1,234.50"},
		{1234567.89, "$1,234,567.89"},
		{-123.45, "-$123.45"},
		{999.999, "$1,000.00"},
	}
	for _, tc := range cases {
		if got := FormatCurrency(tc.in); got != tc.out {
			t.Fatalf("FormatCurrency(%v) = %q, want %q", tc.in, got, tc.out)
		}
	}
}

func TestFormatPercentage(t *testing.T) {
	cases := []struct {
		in  float64
		out string
	}{
		{0, "0.0%"},
		{50, "50.0%"},
		{33.333, "33.3%"},
		{-12.5, "-12.5%"},
	}
	for _, tc := range cases {
		if got := FormatPercentage(tc.in); got != tc.out {
			t.Fatalf("FormatPercentage(%v) = %q, want %q", tc.in, got, tc.out)
		}
	}
}

func TestPercentOf(t *testing.T) {
	if got := PercentOf(50, 200); got != 25 {
		t.Fatalf("expected 25, got %v", got)
	}
	if got := PercentOf(50, 0); got != 0 {
		t.Fatalf("zero total should yield 0, got %v", got)
	}
}
