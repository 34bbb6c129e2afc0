// Package metrics описывает метрики Prometheus магазина.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор счётчиков и гистограмм. Методы безопасны для nil.
type Metrics struct {
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	ordersCreated prometheus.Counter
	orderRevenue  prometheus.Counter
	cartOps       *prometheus.CounterVec
	reports       *prometheus.CounterVec
}

// New создаёт метрики и регистрирует их в reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "junimo_http_requests_total",
			Help: "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "junimo_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		ordersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "junimo_orders_created_total",
			Help: "Orders created at checkout.",
		}),
		orderRevenue: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "junimo_order_revenue_clp_total",
			Help: "Sum of created order totals in CLP.",
		}),
		cartOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "junimo_cart_operations_total",
			Help: "Cart operations by kind.",
		}, []string{"op"}),
		reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "junimo_reports_generated_total",
			Help: "Generated reports by kind and format.",
		}, []string{"kind", "format"}),
	}
	reg.MustRegister(m.httpRequests, m.httpDuration, m.ordersCreated, m.orderRevenue, m.cartOps, m.reports)
	return m
}

// ObserveHTTP учитывает обработанный HTTP-запрос.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// OrderCreated учитывает оформленный заказ на сумму total.
func (m *Metrics) OrderCreated(total int64) {
	if m == nil {
		return
	}
	m.ordersCreated.Inc()
	m.orderRevenue.Add(float64(total))
}

// CartOperation учитывает операцию с корзиной: add, update, remove, clear.
func (m *Metrics) CartOperation(op string) {
	if m == nil {
		return
	}
	m.cartOps.WithLabelValues(op).Inc()
}

// ReportGenerated учитывает сформированный отчёт.
func (m *Metrics) ReportGenerated(kind, format string) {
	if m == nil {
		return
	}
	m.reports.WithLabelValues(kind, format).Inc()
}
