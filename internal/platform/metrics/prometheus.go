package metrics

import (
	"net/http"
	"strings"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// MetricsManager holds the service's Prometheus collectors.
type MetricsManager struct {
	Registry *prometheus.Registry

	UsersRegisteredTotal prometheus.Counter
	ProductsCreatedTotal prometheus.Counter
	FollowTogglesTotal   *prometheus.CounterVec
	LikeTogglesTotal     *prometheus.CounterVec
	NotificationsCreated *prometheus.CounterVec
	PushDispatchFailures prometheus.Counter
	APIErrorsTotal       *prometheus.CounterVec
	APIRequestLatency    *prometheus.HistogramVec
}

// NewMetricsManager registers all collectors on a private registry.
func NewMetricsManager(serviceName string) *MetricsManager {
	namespace := strings.ReplaceAll(serviceName, "-", "_")
	registry := prometheus.NewRegistry()

	m := &MetricsManager{
		Registry: registry,
		UsersRegisteredTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "users_registered_total",
			Help:      "Total number of accounts created, including social sign-ups.",
		}),
		ProductsCreatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "products_created_total",
			Help:      "Total number of products created.",
		}),
		FollowTogglesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "follow_toggles_total",
			Help:      "Follow toggles by resulting state.",
		}, []string{"state"}),
		LikeTogglesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "like_toggles_total",
			Help:      "Like toggles by resulting state.",
		}, []string{"state"}),
		NotificationsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_created_total",
			Help:      "Notifications persisted, by type.",
		}, []string{"type"}),
		PushDispatchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "push_dispatch_failures_total",
			Help:      "Push notifications that could not be handed to the queue.",
		}),
		APIErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_errors_total",
			Help:      "Total number of API errors by route and status class.",
		}, []string{"route", "error_type"}),
		APIRequestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_latency_seconds",
			Help:      "Latency of API requests by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}

	registry.MustRegister(
		m.UsersRegisteredTotal,
		m.ProductsCreatedTotal,
		m.FollowTogglesTotal,
		m.LikeTogglesTotal,
		m.NotificationsCreated,
		m.PushDispatchFailures,
		m.APIErrorsTotal,
		m.APIRequestLatency,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	return m
}

// ToggleState turns a toggle outcome into a label value.
func ToggleState(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

func (m *MetricsManager) UserRegistered() { m.UsersRegisteredTotal.Inc() }

func (m *MetricsManager) ProductCreated() { m.ProductsCreatedTotal.Inc() }

func (m *MetricsManager) FollowToggled(on bool) {
	m.FollowTogglesTotal.WithLabelValues(ToggleState(on)).Inc()
}

func (m *MetricsManager) LikeToggled(on bool) {
	m.LikeTogglesTotal.WithLabelValues(ToggleState(on)).Inc()
}

func (m *MetricsManager) NotificationCreated(t domain.NotificationType) {
	m.NotificationsCreated.WithLabelValues(string(t)).Inc()
}

func (m *MetricsManager) PushFailed() { m.PushDispatchFailures.Inc() }

// ObserveRequest records one API request. Status codes from 400 up are
// counted as errors by class.
func (m *MetricsManager) ObserveRequest(route, method string, status int, seconds float64) {
	m.APIRequestLatency.WithLabelValues(route, method).Observe(seconds)
	switch {
	case status >= 500:
		m.APIErrorsTotal.WithLabelValues(route, "5xx").Inc()
	case status >= 400:
		m.APIErrorsTotal.WithLabelValues(route, "4xx").Inc()
	}
}

// StartMetricsServer exposes /metrics on the given port. It blocks.
func StartMetricsServer(port string, appLogger *logger.Logger, registry *prometheus.Registry) error {
	if port == "" {
		appLogger.Info("Prometheus metrics server port not configured, server will not start.")
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	appLogger.Info("Prometheus metrics server starting", zap.String("port", port), zap.String("path", "/metrics"))

	server := &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}
	return server.ListenAndServe()
}
