package handlers

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsHandler serves the Prometheus registry the OpenTelemetry exporter
// writes to.
type MetricsHandler struct {
	logger  *slog.Logger
	handler http.Handler
}

func NewMetricsHandler(log *slog.Logger) *MetricsHandler {
	if log == nil {
		log = slog.Default()
	}
	return &MetricsHandler{
		logger:  log.With(slog.String("handler", "metrics")),
		handler: promhttp.Handler(),
	}
}

func (h *MetricsHandler) Register(e *echo.Echo) {
	e.GET("/metrics", echo.WrapHandler(h.handler))
}
