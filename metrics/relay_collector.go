package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/marcelsud/webhook-relay/relay"
)

// Engine is the slice of the delivery engine the collector reads from
type Engine interface {
	QueueStatus() relay.QueueStatus
	TransmissionStats() relay.Stats
	TransmissionLogs(limit int) []relay.TransmissionLog
}

// RelayCollector implements the Collector interface over a running engine
type RelayCollector struct {
	engine Engine
}

// NewRelayCollector creates a collector reading from the given engine
func NewRelayCollector(engine Engine) *RelayCollector {
	return &RelayCollector{
		engine: engine,
	}
}

// Collect gathers all metrics from the engine
func (c *RelayCollector) Collect(ctx context.Context) (Metrics, error) {
	queueCounts, err := c.GetQueueCounts(ctx)
	if err != nil {
		return Metrics{}, fmt.Errorf("getting queue counts: %w", err)
	}

	logCounts, err := c.GetLogCounts(ctx)
	if err != nil {
		return Metrics{}, fmt.Errorf("getting log counts: %w", err)
	}

	successRate, err := c.GetSuccessRate(ctx)
	if err != nil {
		return Metrics{}, fmt.Errorf("getting success rate: %w", err)
	}

	throughput, err := c.GetThroughput(ctx)
	if err != nil {
		return Metrics{}, fmt.Errorf("getting throughput: %w", err)
	}

	return Metrics{
		QueueCounts: queueCounts,
		LogCounts:   logCounts,
		SuccessRate: successRate,
		Throughput:  throughput,
		Timestamp:   time.Now(),
	}, nil
}

// GetQueueCounts returns live queue members grouped by status
func (c *RelayCollector) GetQueueCounts(ctx context.Context) (map[string]int64, error) {
	status := c.engine.QueueStatus()
	return map[string]int64{
		relay.Pending.String(): int64(status.Pending),
		relay.Sent.String():    int64(status.Sent),
		relay.Failed.String():  int64(status.Failed),
	}, nil
}

// GetLogCounts returns retained log entries grouped by outcome
func (c *RelayCollector) GetLogCounts(ctx context.Context) (map[string]int64, error) {
	stats := c.engine.TransmissionStats()
	return map[string]int64{
		relay.Sent.String():   int64(stats.Sent),
		relay.Failed.String(): int64(stats.Failed),
	}, nil
}

// GetSuccessRate returns the success percentage over the retained log
func (c *RelayCollector) GetSuccessRate(ctx context.Context) (float64, error) {
	return c.engine.TransmissionStats().SuccessRate, nil
}

/* GetThroughput counts sent transmissions inside each window
 * The retained log is bounded, so windows saturate at the retention
 * limit under sustained load; good enough for a dashboard indicator
 */
func (c *RelayCollector) GetThroughput(ctx context.Context) (ThroughputMetrics, error) {
	now := time.Now()
	var throughput ThroughputMetrics

	for _, entry := range c.engine.TransmissionLogs(relay.MaxLogSize) {
		if entry.Status != relay.Sent {
			continue
		}
		age := now.Sub(entry.Timestamp)
		if age <= time.Minute {
			throughput.LastMinute++
		}
		if age <= 5*time.Minute {
			throughput.LastFiveMinutes++
		}
		if age <= 15*time.Minute {
			throughput.LastFifteenMinutes++
		}
	}

	return throughput, nil
}
