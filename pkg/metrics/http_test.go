package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestObserveAndScrape(t *testing.T) {
	m := NewHTTPMetrics()
	m.Observe("GET", "/api/v1/products", 200, 42*time.Millisecond)
	m.Observe("POST", "", 404, time.Millisecond)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, `http_requests_total{method="GET",route="/api/v1/products",status="200"} 1`) {
		t.Errorf("missing request counter in scrape:\n%s", body)
	}
	if !strings.Contains(body, `route="unmatched"`) {
		t.Error("empty route not normalized")
	}
}

func TestNilReceiverSafe(t *testing.T) {
	var m *HTTPMetrics
	m.Observe("GET", "/x", 200, time.Second)
	m.IncInFlight(1)
	if m.Handler() == nil {
		t.Fatal("Handler() returned nil")
	}
}
