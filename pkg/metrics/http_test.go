package metrics

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	dto "github.com/prometheus/client_model/go"
)

func TestHTTPMetricsCountsRequestsByRoutePattern(t *testing.T) {
	m := NewHTTPMetrics()

	router := chi.NewRouter()
	router.Use(m.Middleware)
	router.Get("/receipts/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Get("/missing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, path := range []string{"/receipts/abc", "/receipts/def", "/missing"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	mfs, err := m.registry.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	got, err := fetchCounterValue(mfs, "http_requests_total", map[string]string{
		"method": "GET", "route": "/receipts/{id}", "status": "200",
	})
	if err != nil {
		t.Fatalf("fetch receipts counter: %v", err)
	}
	if got != 2 {
		t.Fatalf("expected 2 requests for /receipts/{id}, got %f", got)
	}

	got, err = fetchCounterValue(mfs, "http_requests_total", map[string]string{
		"method": "GET", "route": "/missing", "status": "404",
	})
	if err != nil {
		t.Fatalf("fetch missing counter: %v", err)
	}
	if got != 1 {
		t.Fatalf("expected 1 request for /missing, got %f", got)
	}
}

func TestHTTPMetricsHandlerServesExposition(t *testing.T) {
	m := NewHTTPMetrics()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from metrics handler, got %d", rec.Code)
	}
	if rec.Body.Len() == 0 {
		t.Fatalf("expected non-empty exposition body")
	}
}

func fetchCounterValue(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			if matchesLabels(metric.GetLabel(), labels) {
				return metric.GetCounter().GetValue(), nil
			}
		}
		return 0, fmt.Errorf("metric %q missing labels %v", name, labels)
	}
	return 0, fmt.Errorf("metric %q not found", name)
}

func matchesLabels(pairs []*dto.LabelPair, want map[string]string) bool {
	seen := map[string]string{}
	for _, pair := range pairs {
		seen[pair.GetName()] = pair.GetValue()
	}
	for name, value := range want {
		if seen[name] != value {
			return false
		}
	}
	return true
}
