package adminserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yndnr/telemesh-go/internal/infra/buildinfo"
	"github.com/yndnr/telemesh-go/internal/telemetry/logger"
	"github.com/yndnr/telemesh-go/pkg/metric"
	"github.com/yndnr/telemesh-go/pkg/promexport"
)

// HandlerConfig configures the admin HTTP handler.
type HandlerConfig struct {
	// Registry is the metric registry the handler exposes.
	Registry *metric.Registry

	// Logger receives access and error logs. Defaults to slog.Default().
	Logger *slog.Logger

	// NamePrefix overrides the series name prefix on the Prometheus
	// exposition endpoint. Empty keeps the promexport default.
	NamePrefix string
}

// Handler routes admin API requests.
type Handler struct {
	registry *metric.Registry
	logger   *slog.Logger
	chain    http.Handler
}

// NewHandler creates the admin handler. The Prometheus exposition
// endpoint gets its own prometheus registry so only this handler's
// collector is scraped, never process-global collectors.
func NewHandler(cfg HandlerConfig) *Handler {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	h := &Handler{
		registry: cfg.Registry,
		logger:   log,
	}

	promOpts := []promexport.Option{promexport.WithLogger(log)}
	if cfg.NamePrefix != "" {
		promOpts = append(promOpts, promexport.WithNamePrefix(cfg.NamePrefix))
	}
	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(promexport.New(cfg.Registry, promOpts...))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", h.handleHealthz)
	mux.Handle("GET /metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /v1/metrics", h.handleListMetrics)
	mux.HandleFunc("DELETE /v1/metrics/{name...}", h.handleDeleteMetric)

	h.chain = Chain(mux, RequestID(), AccessLog(log), Recover(log))
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.chain.ServeHTTP(w, r)
}

// labelInfo describes one label of a listed metric.
type labelInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// metricInfo describes one registered metric.
type metricInfo struct {
	Name             string           `json:"name"`
	Kind             metric.Kind      `json:"kind"`
	ValueType        metric.ValueType `json:"value_type"`
	Description      string           `json:"description"`
	ValueDisplayName string           `json:"value_display_name,omitempty"`
	Labels           []labelInfo      `json:"labels"`
	Cardinality      int              `json:"cardinality"`
}

// listMetricsResponse is the body of GET /v1/metrics.
type listMetricsResponse struct {
	Metrics []metricInfo `json:"metrics"`
	Count   int          `json:"count"`
}

// handleHealthz handles GET /healthz.
func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Get().Version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// handleListMetrics handles GET /v1/metrics.
func (h *Handler) handleListMetrics(w http.ResponseWriter, r *http.Request) {
	metrics := h.registry.Metrics()

	infos := make([]metricInfo, 0, len(metrics))
	for _, m := range metrics {
		s := m.Schema()

		labels := s.Labels()
		labelInfos := make([]labelInfo, 0, len(labels))
		for _, l := range labels {
			labelInfos = append(labelInfos, labelInfo{
				Name:        l.Name(),
				Description: l.Description(),
			})
		}

		infos = append(infos, metricInfo{
			Name:             s.Name(),
			Kind:             s.Kind(),
			ValueType:        m.ValueType(),
			Description:      s.Description(),
			ValueDisplayName: s.ValueDisplayName(),
			Labels:           labelInfos,
			Cardinality:      m.Cardinality(),
		})
	}

	h.writeJSON(w, http.StatusOK, listMetricsResponse{
		Metrics: infos,
		Count:   len(infos),
	})
}

// handleDeleteMetric handles DELETE /v1/metrics/{name...}.
//
// Metric names start with a slash, so the route wildcard captures the
// rest of the path and the leading slash is restored here.
func (h *Handler) handleDeleteMetric(w http.ResponseWriter, r *http.Request) {
	name := "/" + r.PathValue("name")

	if _, ok := h.registry.Get(name); !ok {
		h.writeError(w, http.StatusNotFound, "metric not found")
		return
	}

	h.registry.Unregister(name)
	h.logger.Info("metric removed via admin api",
		"request_id", logger.RequestIDFromContext(r.Context()),
		"name", name,
	)
	w.WriteHeader(http.StatusNoContent)
}

// writeJSON writes a JSON response.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

// writeError writes a JSON error response.
func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
