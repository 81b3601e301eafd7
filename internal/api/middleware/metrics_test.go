package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/99minutos/backend-boilerplate/internal/api/metrics"
)

func TestMetrics_RecordsRenderedStatus(t *testing.T) {
	e := echo.New()
	e.Use(Metrics())
	e.GET("/v1/things/:id", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "nope")
	})

	counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/v1/things/:id", "404")
	before := testutil.ToFloat64(counter)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/things/42", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Fatalf("expected one request recorded under the route template, got %v", got)
	}
}
