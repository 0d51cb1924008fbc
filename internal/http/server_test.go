package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	memstore "farmbook/internal/store/memory"
	"farmbook/internal/weather"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	forecast := weather.NewStaticProvider(weather.DefaultForecast())
	srv := NewServer(":0", memstore.New(), nil, forecast, nil)
	t.Cleanup(func() {
		srv.cacheMgr.Stop()
		srv.rateLimiter.Stop()
	})
	return srv
}

func get(srv *Server, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func postForm(srv *Server, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	if rec := get(srv, "/healthz"); rec.Code != http.StatusOK {
		t.Fatalf("healthz status = %d, want 200", rec.Code)
	}
	if rec := get(srv, "/readyz"); rec.Code != http.StatusOK {
		t.Fatalf("readyz status = %d, want 200", rec.Code)
	}
}

func TestIndexPage(t *testing.T) {
	srv := newTestServer(t)

	rec := get(srv, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("index status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Farmbook") {
		t.Error("index page missing title")
	}

	if rec := get(srv, "/nonexistent"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown path status = %d, want 404", rec.Code)
	}
}

func TestCreateFarmAndList(t *testing.T) {
	srv := newTestServer(t)

	rec := postForm(srv, "/farms", url.Values{
		"name":     {"North Ridge"},
		"location": {"Cedar Valley"},
		"size":     {"120.5"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create farm status = %d, body %q", rec.Code, rec.Body.String())
	}
	trigger := rec.Header().Get("HX-Trigger")
	if !strings.Contains(trigger, "records:changed") {
		t.Errorf("HX-Trigger = %q, want records:changed", trigger)
	}

	rec = get(srv, "/ui/farms")
	if rec.Code != http.StatusOK {
		t.Fatalf("farm list status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "North Ridge") {
		t.Errorf("farm list missing created farm: %q", rec.Body.String())
	}
}

func TestCreateFarmValidation(t *testing.T) {
	srv := newTestServer(t)

	rec := postForm(srv, "/farms", url.Values{
		"name": {"Bad Farm"},
		"size": {"0"},
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid farm status = %d, want 422", rec.Code)
	}
}

func TestMutationRequiresPOST(t *testing.T) {
	srv := newTestServer(t)

	rec := get(srv, "/farms")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET /farms status = %d, want 405", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow != http.MethodPost {
		t.Errorf("Allow header = %q, want POST", allow)
	}
}

func TestDeleteFarmNotFound(t *testing.T) {
	srv := newTestServer(t)

	rec := postForm(srv, "/farms/delete", url.Values{"id": {"42"}})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("delete missing farm status = %d, want 404", rec.Code)
	}
}

func TestFinancialReportFlow(t *testing.T) {
	srv := newTestServer(t)

	rec := postForm(srv, "/farms", url.Values{
		"name": {"Test Farm"},
		"size": {"10"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create farm status = %d", rec.Code)
	}

	rec = postForm(srv, "/expenses", url.Values{
		"farm_id":     {"1"},
		"amount":      {"250.00"},
		"category":    {"Seeds"},
		"date":        {"2026-03-10"},
		"description": {"Corn seed"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create expense status = %d, body %q", rec.Code, rec.Body.String())
	}
	if trigger := rec.Header().Get("HX-Trigger"); !strings.Contains(trigger, "report:refresh") {
		t.Errorf("expense HX-Trigger = %q, want report:refresh", trigger)
	}

	rec = postForm(srv, "/income", url.Values{
		"amount": {"1000"},
		"source": {"Crop Sales"},
		"date":   {"2026-03-15"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create income status = %d, body %q", rec.Code, rec.Body.String())
	}

	rec = get(srv, "/ui/report?start=2026-01-01&end=2026-12-31")
	if rec.Code != http.StatusOK {
		t.Fatalf("report status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "$250.00") {
		t.Errorf("report missing expense total: %q", body)
	}
	if !strings.Contains(body, "$1,000.00") {
		t.Errorf("report missing income total: %q", body)
	}
	if !strings.Contains(body, "$750.00") {
		t.Errorf("report missing net profit: %q", body)
	}
}

func TestReportRangeChangeBumpsSequence(t *testing.T) {
	srv := newTestServer(t)

	rec := postForm(srv, "/reports/range", url.Values{
		"start": {"2026-01-01"},
		"end":   {"2026-06-30"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("range change status = %d", rec.Code)
	}
	if trigger := rec.Header().Get("HX-Trigger"); !strings.Contains(trigger, "report:refresh") {
		t.Fatalf("HX-Trigger = %q, want report:refresh", trigger)
	}

	// A partial request carrying the pre-change sequence number is stale.
	rec = get(srv, "/ui/report?start=2026-01-01&end=2026-06-30&seq=0")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("stale report request status = %d, want 204", rec.Code)
	}

	// The current sequence number still renders.
	rec = get(srv, "/ui/report?start=2026-01-01&end=2026-06-30&seq=1")
	if rec.Code != http.StatusOK {
		t.Fatalf("current report request status = %d, want 200", rec.Code)
	}
}

func TestReportRangeRejectsBadDates(t *testing.T) {
	srv := newTestServer(t)

	rec := postForm(srv, "/reports/range", url.Values{
		"start": {"03/10/2026"},
		"end":   {"2026-06-30"},
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad date status = %d, want 422", rec.Code)
	}
}

func TestCropLifecycle(t *testing.T) {
	srv := newTestServer(t)

	postForm(srv, "/farms", url.Values{"name": {"Crop Farm"}, "size": {"50"}})

	rec := postForm(srv, "/crops", url.Values{
		"farm_id":       {"1"},
		"crop_type":     {"Corn"},
		"area":          {"20"},
		"planting_date": {"2026-04-15"},
		"harvest_date":  {"2026-09-20"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create crop status = %d, body %q", rec.Code, rec.Body.String())
	}

	// Planted -> Growing -> Ready to Harvest -> Harvested, then stop.
	for i := 0; i < 3; i++ {
		rec = postForm(srv, "/crops/advance", url.Values{"id": {"2"}})
		if rec.Code != http.StatusOK {
			t.Fatalf("advance %d status = %d, body %q", i, rec.Code, rec.Body.String())
		}
	}
	rec = postForm(srv, "/crops/advance", url.Values{"id": {"2"}})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("advance past Harvested status = %d, want 422", rec.Code)
	}

	rec = get(srv, "/ui/crops")
	if !strings.Contains(rec.Body.String(), "Harvested") {
		t.Errorf("crop list missing final status: %q", rec.Body.String())
	}
}

func TestTaskToggle(t *testing.T) {
	srv := newTestServer(t)

	postForm(srv, "/farms", url.Values{"name": {"Task Farm"}, "size": {"5"}})

	rec := postForm(srv, "/tasks", url.Values{
		"farm_id":  {"1"},
		"title":    {"Fix fence"},
		"priority": {"High"},
		"due_date": {"2026-09-05"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create task status = %d, body %q", rec.Code, rec.Body.String())
	}

	rec = postForm(srv, "/tasks/toggle", url.Values{"id": {"2"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle status = %d", rec.Code)
	}

	rec = get(srv, "/ui/tasks")
	if !strings.Contains(rec.Body.String(), "Done") {
		t.Errorf("task list missing completed state: %q", rec.Body.String())
	}
}

func TestUpdateFarmPartial(t *testing.T) {
	srv := newTestServer(t)

	postForm(srv, "/farms", url.Values{
		"name":     {"Old Name"},
		"location": {"Cedar Valley"},
		"size":     {"120.5"},
	})

	// Only the name travels; location and size keep their stored values.
	rec := postForm(srv, "/farms/update", url.Values{
		"id":   {"1"},
		"name": {"New Name"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update farm status = %d, body %q", rec.Code, rec.Body.String())
	}
	if trigger := rec.Header().Get("HX-Trigger"); !strings.Contains(trigger, "records:changed") {
		t.Errorf("HX-Trigger = %q, want records:changed", trigger)
	}

	body := get(srv, "/ui/farms").Body.String()
	if !strings.Contains(body, "New Name") {
		t.Errorf("farm list missing new name: %q", body)
	}
	if !strings.Contains(body, "Cedar Valley") || !strings.Contains(body, "120.5 acres") {
		t.Errorf("untouched fields changed: %q", body)
	}
}

func TestUpdateFarmErrors(t *testing.T) {
	srv := newTestServer(t)

	postForm(srv, "/farms", url.Values{"name": {"A Farm"}, "size": {"10"}})

	rec := postForm(srv, "/farms/update", url.Values{"id": {"1"}, "name": {""}})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("empty name status = %d, want 422", rec.Code)
	}

	rec = postForm(srv, "/farms/update", url.Values{"id": {"42"}, "name": {"Ghost"}})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing farm status = %d, want 404", rec.Code)
	}
}

func TestUpdateExpenseRefreshesReport(t *testing.T) {
	srv := newTestServer(t)

	postForm(srv, "/farms", url.Values{"name": {"Ledger Farm"}, "size": {"10"}})
	postForm(srv, "/expenses", url.Values{
		"farm_id":  {"1"},
		"amount":   {"100"},
		"category": {"Seeds"},
		"date":     {"2026-03-10"},
	})

	rec := postForm(srv, "/expenses/update", url.Values{
		"id":     {"2"},
		"amount": {"175.50"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update expense status = %d, body %q", rec.Code, rec.Body.String())
	}
	if trigger := rec.Header().Get("HX-Trigger"); !strings.Contains(trigger, "report:refresh") {
		t.Errorf("HX-Trigger = %q, want report:refresh", trigger)
	}

	body := get(srv, "/ui/report?start=2026-01-01&end=2026-12-31").Body.String()
	if !strings.Contains(body, "$175.50") {
		t.Errorf("report missing updated amount: %q", body)
	}
	if strings.Contains(body, "$100.00") {
		t.Errorf("report still shows stale amount: %q", body)
	}

	rec = postForm(srv, "/expenses/update", url.Values{"id": {"2"}, "amount": {"nope"}})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad amount status = %d, want 422", rec.Code)
	}
}

func TestUpdateTaskAndCrop(t *testing.T) {
	srv := newTestServer(t)

	postForm(srv, "/farms", url.Values{"name": {"Edit Farm"}, "size": {"30"}})
	postForm(srv, "/tasks", url.Values{
		"farm_id":  {"1"},
		"title":    {"Old title"},
		"due_date": {"2026-09-05"},
	})
	postForm(srv, "/crops", url.Values{
		"farm_id":       {"1"},
		"crop_type":     {"Wheat"},
		"area":          {"12"},
		"planting_date": {"2026-04-01"},
		"harvest_date":  {"2026-08-15"},
	})

	rec := postForm(srv, "/tasks/update", url.Values{"id": {"2"}, "title": {"Clear ditch"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("update task status = %d, body %q", rec.Code, rec.Body.String())
	}
	if body := get(srv, "/ui/tasks").Body.String(); !strings.Contains(body, "Clear ditch") {
		t.Errorf("task list missing new title: %q", body)
	}

	rec = postForm(srv, "/crops/update", url.Values{"id": {"3"}, "harvest_date": {"2026-09-01"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("update crop status = %d, body %q", rec.Code, rec.Body.String())
	}
	if body := get(srv, "/ui/crops").Body.String(); !strings.Contains(body, "2026-09-01") {
		t.Errorf("crop list missing new harvest date: %q", body)
	}

	rec = postForm(srv, "/crops/update", url.Values{"id": {"3"}, "status": {"Wilted"}})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad status code = %d, want 422", rec.Code)
	}
}

func TestSecurityHeadersApplied(t *testing.T) {
	srv := newTestServer(t)

	rec := get(srv, "/healthz")
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if got := rec.Header().Get("Content-Security-Policy"); got == "" {
		t.Error("missing Content-Security-Policy header")
	}
}
