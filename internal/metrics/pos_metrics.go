package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// POSMetrics содержит метрики операций точки продаж.
type POSMetrics struct {
	// Счётчики операций
	ordersPlaced   prometheus.Counter
	ordersCanceled prometheus.Counter
	orderFailures  *prometheus.CounterVec

	// Гистограмма времени выполнения по операциям
	opDuration *prometheus.HistogramVec

	// Gauge последнего успешного сидирования каталога
	menuItemsSeeded prometheus.Gauge
}

// NewPOSMetrics создаёт и регистрирует метрики в реестре по умолчанию.
func NewPOSMetrics() *POSMetrics {
	return newPOSMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newPOSMetricsWithRegisterer(registerer prometheus.Registerer) *POSMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &POSMetrics{
		ordersPlaced: registerCounter(registerer, prometheus.CounterOpts{
			Name: "pos_orders_placed_total",
			Help: "Total number of orders persisted successfully",
		}),
		ordersCanceled: registerCounter(registerer, prometheus.CounterOpts{
			Name: "pos_orders_canceled_total",
			Help: "Total number of orders deleted",
		}),
		orderFailures: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "pos_order_failures_total",
			Help: "Total number of failed order operations by reason",
		}, []string{"reason"}),
		opDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "pos_operation_duration_seconds",
			Help:    "Duration of POS operations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		}, []string{"operation"}),
		menuItemsSeeded: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "pos_menu_items_seeded",
			Help: "Number of catalog items present after the last seed run",
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

// RecordOrderPlaced увеличивает счётчик сохранённых заказов.
func (m *POSMetrics) RecordOrderPlaced() {
	m.ordersPlaced.Inc()
}

// RecordOrderCanceled увеличивает счётчик удалённых заказов.
func (m *POSMetrics) RecordOrderCanceled() {
	m.ordersCanceled.Inc()
}

// RecordOrderFailure увеличивает счётчик сбоев с меткой причины.
func (m *POSMetrics) RecordOrderFailure(reason string) {
	m.orderFailures.WithLabelValues(reason).Inc()
}

// RecordOperationDuration записывает время выполнения операции.
func (m *POSMetrics) RecordOperationDuration(operation string, duration time.Duration) {
	m.opDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordMenuItemsSeeded фиксирует размер каталога после сидирования.
func (m *POSMetrics) RecordMenuItemsSeeded(count int) {
	m.menuItemsSeeded.Set(float64(count))
}
