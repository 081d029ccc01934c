package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	io_prometheus_client "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mw "github.com/donaldgifford/ecofinder/internal/api/middleware"
	"github.com/donaldgifford/ecofinder/internal/metrics"
)

func TestMetricsMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		handler    echo.HandlerFunc
		wantStatus int
	}{
		{
			name:   "records 200 response",
			method: http.MethodGet,
			path:   "/eco-tips",
			handler: func(c echo.Context) error {
				return c.HTML(http.StatusOK, "<p>tips</p>")
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "records 404 response",
			method: http.MethodGet,
			path:   "/notfound",
			handler: func(c echo.Context) error {
				return c.NoContent(http.StatusNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:   "records search request",
			method: http.MethodGet,
			path:   "/api/v1/search",
			handler: func(c echo.Context) error {
				return c.JSON(http.StatusOK, map[string]bool{"ok": true})
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			e.Use(mw.Metrics())
			e.Add(tt.method, tt.path, tt.handler)

			req := httptest.NewRequest(tt.method, tt.path, http.NoBody)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			statusStr := strconv.Itoa(tt.wantStatus)

			// Verify the counter was incremented.
			counter, err := metrics.HTTPRequestsTotal.GetMetricWithLabelValues(
				tt.method, tt.path, statusStr,
			)
			require.NoError(t, err)

			m := &io_prometheus_client.Metric{}
			require.NoError(t, counter.Write(m))
			assert.Greater(t, m.GetCounter().GetValue(), float64(0))

			// Verify histogram was observed.
			observer, err := metrics.HTTPRequestDuration.GetMetricWithLabelValues(
				tt.method, tt.path, statusStr,
			)
			require.NoError(t, err)

			hm := &io_prometheus_client.Metric{}
			require.NoError(t, observer.(prometheus.Metric).Write(hm))
			assert.Positive(t, hm.GetHistogram().GetSampleCount())
		})
	}
}

func TestMetricsMiddleware_ErrorStatusRecorded(t *testing.T) {
	e := echo.New()
	e.Use(mw.Metrics())
	e.GET("/api/v1/ml/health", func(_ echo.Context) error {
		return echo.NewHTTPError(http.StatusBadGateway, "upstream down")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ml/health", http.NoBody)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)

	counter, err := metrics.HTTPRequestsTotal.GetMetricWithLabelValues(
		http.MethodGet, "/api/v1/ml/health", "502",
	)
	require.NoError(t, err)

	m := &io_prometheus_client.Metric{}
	require.NoError(t, counter.Write(m))
	assert.Greater(t, m.GetCounter().GetValue(), float64(0))
}

func TestMetricsMiddleware_HealthGauges(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   float64
	}{
		{name: "ready sets gauge up", status: http.StatusOK, want: 1},
		{name: "unavailable sets gauge down", status: http.StatusServiceUnavailable, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			e.Use(mw.Metrics())
			e.GET("/readyz", func(c echo.Context) error {
				return c.NoContent(tt.status)
			})

			req := httptest.NewRequest(http.MethodGet, "/readyz", http.NoBody)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			m := &io_prometheus_client.Metric{}
			require.NoError(t, metrics.ReadyzUp.Write(m))
			assert.InDelta(t, tt.want, m.GetGauge().GetValue(), 0)
		})
	}
}
