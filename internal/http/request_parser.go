// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating request
// data shared across the record handlers.

package http

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"farmbook/internal/core"
)

// DateRange holds a validated report range. Filtering only applies
// when both bounds are set; a missing bound means no filtering.
type DateRange struct {
	Start string
	End   string
}

// ParseDateRange extracts start/end from form or query values. A bound
// that is present but does not parse as yyyy-MM-dd is rejected.
func ParseDateRange(values url.Values) (DateRange, error) {
	dr := DateRange{
		Start: strings.TrimSpace(values.Get("start")),
		End:   strings.TrimSpace(values.Get("end")),
	}
	if dr.Start != "" {
		if _, err := core.ParseDay(dr.Start); err != nil {
			return DateRange{}, err
		}
	}
	if dr.End != "" {
		if _, err := core.ParseDay(dr.End); err != nil {
			return DateRange{}, err
		}
	}
	return dr, nil
}

// ParseID extracts a positive record id from a form field.
func ParseID(values url.Values, field string) (int64, bool) {
	raw := strings.TrimSpace(values.Get(field))
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ParseOptionalID extracts an id that may legitimately be absent,
// such as a task's crop link.
func ParseOptionalID(values url.Values, field string) *int64 {
	if id, ok := ParseID(values, field); ok {
		return &id
	}
	return nil
}

// ParseFloat extracts a float form field, returning 0 and false when
// missing or malformed.
func ParseFloat(values url.Values, field string) (float64, bool) {
	raw := strings.TrimSpace(values.Get(field))
	if raw == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// RequireMethod checks if the request method matches the expected method(s).
// Returns an error response builder if the method doesn't match.
func RequireMethod(r *http.Request, methods ...string) *HTMXResponseBuilder {
	for _, m := range methods {
		if r.Method == m {
			return nil
		}
	}
	return MethodNotAllowedError(strings.Join(methods, ", "))
}

// RequirePOST is a convenience function for POST-only handlers.
func RequirePOST(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodPost)
}

// RequireDeleteOrPOST is a convenience function for DELETE/POST handlers.
func RequireDeleteOrPOST(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodDelete, http.MethodPost)
}

// ParseFormOrFail parses the request form and returns an error response
// on failure. Returns nil on success.
func ParseFormOrFail(r *http.Request) *HTMXResponseBuilder {
	if err := r.ParseForm(); err != nil {
		return BadRequestError("Invalid request format")
	}
	return nil
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
