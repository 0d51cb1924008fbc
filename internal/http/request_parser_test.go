package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestParseDateRange(t *testing.T) {
	cases := []struct {
		name    string
		values  url.Values
		want    DateRange
		wantErr bool
	}{
		{"both bounds", url.Values{"start": {"2026-01-01"}, "end": {"2026-06-30"}}, DateRange{"2026-01-01", "2026-06-30"}, false},
		{"empty bounds allowed", url.Values{}, DateRange{}, false},
		{"start only", url.Values{"start": {"2026-01-01"}}, DateRange{Start: "2026-01-01"}, false},
		{"whitespace trimmed", url.Values{"start": {" 2026-01-01 "}}, DateRange{Start: "2026-01-01"}, false},
		{"bad start", url.Values{"start": {"01/01/2026"}}, DateRange{}, true},
		{"bad end", url.Values{"end": {"not-a-date"}}, DateRange{}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseDateRange(tc.values)
			if (err != nil) != tc.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("range = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestParseID(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want int64
		ok   bool
	}{
		{"valid", "42", 42, true},
		{"missing", "", 0, false},
		{"zero", "0", 0, false},
		{"negative", "-3", 0, false},
		{"not a number", "abc", 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseID(url.Values{"id": {tc.raw}}, "id")
			if ok != tc.ok || got != tc.want {
				t.Errorf("ParseID(%q) = (%d, %v), want (%d, %v)", tc.raw, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestParseOptionalID(t *testing.T) {
	if got := ParseOptionalID(url.Values{}, "crop_id"); got != nil {
		t.Errorf("missing field = %v, want nil", *got)
	}
	got := ParseOptionalID(url.Values{"crop_id": {"7"}}, "crop_id")
	if got == nil || *got != 7 {
		t.Errorf("valid field = %v, want 7", got)
	}
}

func TestRequireMethod(t *testing.T) {
	post := httptest.NewRequest(http.MethodPost, "/farms", nil)
	if resp := RequirePOST(post); resp != nil {
		t.Error("POST rejected by RequirePOST")
	}

	get := httptest.NewRequest(http.MethodGet, "/farms", nil)
	resp := RequirePOST(get)
	if resp == nil {
		t.Fatal("GET accepted by RequirePOST")
	}
	rec := httptest.NewRecorder()
	resp.Write(rec)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}

	del := httptest.NewRequest(http.MethodDelete, "/farms/delete", nil)
	if resp := RequireDeleteOrPOST(del); resp != nil {
		t.Error("DELETE rejected by RequireDeleteOrPOST")
	}
}

func TestSanitizeInput(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  hello  ", "hello"},
		{"line1\nline2", "line1\nline2"},
		{"null\x00byte", "nullbyte"},
		{"bell\x07char", "bellchar"},
	}
	for _, tc := range cases {
		if got := sanitizeInput(tc.in); got != tc.want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
