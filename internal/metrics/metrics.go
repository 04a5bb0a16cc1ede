// Package metrics собирает метрики Prometheus сервиса заказов.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "eggmarket"

// Metrics хранит счётчики сервиса. Методы безопасны для nil-получателя.
type Metrics struct {
	registry *prometheus.Registry

	OrdersSubmitted prometheus.Counter
	OrdersRejected  *prometheus.CounterVec
	StatusUpdates   *prometheus.CounterVec
	Notifications   *prometheus.CounterVec
	Requests        *prometheus.CounterVec
	LatencyMS       *prometheus.HistogramVec
}

// New создаёт набор метрик в собственном реестре.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		OrdersSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_submitted_total",
			Help:      "Total number of accepted orders.",
		}),
		OrdersRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_rejected_total",
			Help:      "Total number of rejected order submissions.",
		}, []string{"reason"}),
		StatusUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_status_updates_total",
			Help:      "Total number of order status updates.",
		}, []string{"status"}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Total number of notification dispatches.",
		}, []string{"event", "result"}),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"handler", "status"}),
		LatencyMS: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"handler"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.OrdersSubmitted,
		m.OrdersRejected,
		m.StatusUpdates,
		m.Notifications,
		m.Requests,
		m.LatencyMS,
	)

	return m
}

// Handler отдаёт метрики в формате Prometheus.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// OrderSubmitted учитывает принятый заказ.
func (m *Metrics) OrderSubmitted() {
	if m == nil {
		return
	}
	m.OrdersSubmitted.Inc()
}

// OrderRejected учитывает отклонённый заказ.
func (m *Metrics) OrderRejected(reason string) {
	if m == nil {
		return
	}
	m.OrdersRejected.WithLabelValues(reason).Inc()
}

// StatusUpdated учитывает смену статуса заказа.
func (m *Metrics) StatusUpdated(status string) {
	if m == nil {
		return
	}
	m.StatusUpdates.WithLabelValues(status).Inc()
}

// NotificationSent учитывает результат отправки уведомления.
func (m *Metrics) NotificationSent(event string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Notifications.WithLabelValues(event, result).Inc()
}

// ObserveRequest учитывает обработанный HTTP-запрос.
func (m *Metrics) ObserveRequest(handler, status string, ms float64) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(handler, status).Inc()
	m.LatencyMS.WithLabelValues(handler).Observe(ms)
}
