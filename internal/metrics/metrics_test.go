package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func scrape(t *testing.T) string {
	t.Helper()
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	return rec.Body.String()
}

func TestHandler(t *testing.T) {
	ObserveFetch("calendar", "ok")
	ObserveFetch("json-api", "fetch_error")
	ObserveDelivery("photo", true)
	ObserveDelivery("text", false)
	ObserveRequest("/health", 200)
	ObservePipeline("render", 120*time.Millisecond)
	SetPosterEvents(3)
	MarkSuccess("poster")

	body := scrape(t)
	for _, want := range []string{
		`bwf_poster_fetch_attempts_total{outcome="ok",source="calendar"}`,
		`bwf_poster_fetch_attempts_total{outcome="fetch_error",source="json-api"}`,
		`bwf_poster_deliveries_total{kind="photo",outcome="ok"}`,
		`bwf_poster_deliveries_total{kind="text",outcome="error"}`,
		`bwf_poster_http_requests_total{code="200",route="/health"}`,
		"bwf_poster_pipeline_duration_seconds_bucket",
		"bwf_poster_poster_events 3",
		`bwf_poster_last_success_timestamp_seconds{operation="poster"}`,
		"go_goroutines",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestHandler_NotDefaultRegistry(t *testing.T) {
	if Registry() == nil {
		t.Fatal("Registry() returned nil")
	}
	// Building the handler twice must not re-register anything
	_ = Handler()
	_ = Handler()
}
