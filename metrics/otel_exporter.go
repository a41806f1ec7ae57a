package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// OTelExporter provides OpenTelemetry metrics export following OTel standards
type OTelExporter struct {
	meterProvider *sdkmetric.MeterProvider
	collector     Collector

	// OTel meters and instruments
	meter            metric.Meter
	queueCountGauge  metric.Int64ObservableGauge
	logCountGauge    metric.Int64ObservableGauge
	successRateGauge metric.Float64ObservableGauge
	throughputGauge  metric.Int64ObservableGauge
}

// NewOTelExporter creates a new OpenTelemetry metrics exporter with Prometheus format
func NewOTelExporter(collector Collector) (*OTelExporter, error) {
	// Create Prometheus exporter
	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("creating prometheus exporter: %w", err)
	}

	// Create meter provider
	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(meterProvider)

	// Create meter with service info
	meter := meterProvider.Meter(
		"webhook-relay",
		metric.WithInstrumentationVersion("1.0.0"),
	)

	oe := &OTelExporter{
		meterProvider: meterProvider,
		collector:     collector,
		meter:         meter,
	}

	// Register metrics instruments
	if err := oe.registerInstruments(); err != nil {
		return nil, fmt.Errorf("registering instruments: %w", err)
	}

	return oe, nil
}

// registerInstruments creates and registers all OpenTelemetry metric instruments
func (oe *OTelExporter) registerInstruments() error {
	var err error

	// Live queue gauge (per status)
	oe.queueCountGauge, err = oe.meter.Int64ObservableGauge(
		"relay.queue.count",
		metric.WithDescription("Number of live queue events by status"),
		metric.WithUnit("{events}"),
		metric.WithInt64Callback(oe.observeQueueCounts),
	)
	if err != nil {
		return fmt.Errorf("creating queue count gauge: %w", err)
	}

	// Retained log gauge (per outcome)
	oe.logCountGauge, err = oe.meter.Int64ObservableGauge(
		"relay.log.count",
		metric.WithDescription("Number of retained transmission log entries by outcome"),
		metric.WithUnit("{entries}"),
		metric.WithInt64Callback(oe.observeLogCounts),
	)
	if err != nil {
		return fmt.Errorf("creating log count gauge: %w", err)
	}

	// Success rate gauge over the retained log
	oe.successRateGauge, err = oe.meter.Float64ObservableGauge(
		"relay.success.rate",
		metric.WithDescription("Percentage of retained transmissions delivered successfully"),
		metric.WithUnit("%"),
		metric.WithFloat64Callback(oe.observeSuccessRate),
	)
	if err != nil {
		return fmt.Errorf("creating success rate gauge: %w", err)
	}

	// Throughput gauge (delivered transmissions over time windows)
	oe.throughputGauge, err = oe.meter.Int64ObservableGauge(
		"relay.throughput",
		metric.WithDescription("Number of transmissions delivered over time window"),
		metric.WithUnit("{transmissions}"),
		metric.WithInt64Callback(oe.observeThroughput),
	)
	if err != nil {
		return fmt.Errorf("creating throughput gauge: %w", err)
	}

	return nil
}

// observeQueueCounts is a callback that reports live queue counts
func (oe *OTelExporter) observeQueueCounts(ctx context.Context, observer metric.Int64Observer) error {
	queueCounts, err := oe.collector.GetQueueCounts(ctx)
	if err != nil {
		return err
	}

	for status, count := range queueCounts {
		observer.Observe(count, metric.WithAttributes(
			attribute.String("event.status", status),
		))
	}

	return nil
}

// observeLogCounts is a callback that reports retained log counts
func (oe *OTelExporter) observeLogCounts(ctx context.Context, observer metric.Int64Observer) error {
	logCounts, err := oe.collector.GetLogCounts(ctx)
	if err != nil {
		return err
	}

	for status, count := range logCounts {
		observer.Observe(count, metric.WithAttributes(
			attribute.String("transmission.status", status),
		))
	}

	return nil
}

// observeSuccessRate is a callback that reports the retained-log success rate
func (oe *OTelExporter) observeSuccessRate(ctx context.Context, observer metric.Float64Observer) error {
	rate, err := oe.collector.GetSuccessRate(ctx)
	if err != nil {
		return err
	}

	observer.Observe(rate)
	return nil
}

// observeThroughput is a callback that reports throughput metrics
func (oe *OTelExporter) observeThroughput(ctx context.Context, observer metric.Int64Observer) error {
	throughput, err := oe.collector.GetThroughput(ctx)
	if err != nil {
		return err
	}

	observer.Observe(throughput.LastMinute, metric.WithAttributes(
		attribute.String("time.window", "1m"),
	))
	observer.Observe(throughput.LastFiveMinutes, metric.WithAttributes(
		attribute.String("time.window", "5m"),
	))
	observer.Observe(throughput.LastFifteenMinutes, metric.WithAttributes(
		attribute.String("time.window", "15m"),
	))

	return nil
}

// ServeHTTP serves Prometheus-formatted metrics on the given HTTP handler
func (oe *OTelExporter) ServeHTTP() http.Handler {
	return promhttp.Handler()
}

// Shutdown gracefully shuts down the meter provider
func (oe *OTelExporter) Shutdown(ctx context.Context) error {
	if oe.meterProvider != nil {
		return oe.meterProvider.Shutdown(ctx)
	}
	return nil
}
