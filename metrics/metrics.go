package metrics

import (
	"context"
	"time"
)

// Metrics represents the current state of the delivery engine.
type Metrics struct {
	// QueueCounts maps event status to the number of live queue members in that status
	QueueCounts map[string]int64 `json:"queue_counts"`

	// LogCounts maps outcome status to count of retained transmission log entries
	LogCounts map[string]int64 `json:"log_counts"`

	// SuccessRate is the percentage of retained transmissions that were sent
	SuccessRate float64 `json:"success_rate"`

	// Throughput represents transmissions delivered per time window
	Throughput ThroughputMetrics `json:"throughput"`

	// Timestamp when metrics were collected
	Timestamp time.Time `json:"timestamp"`
}

// ThroughputMetrics represents deliveries over different time windows.
type ThroughputMetrics struct {
	// LastMinute is transmissions delivered in the last 1 minute
	LastMinute int64 `json:"last_minute"`

	// LastFiveMinutes is transmissions delivered in the last 5 minutes
	LastFiveMinutes int64 `json:"last_five_minutes"`

	// LastFifteenMinutes is transmissions delivered in the last 15 minutes
	LastFifteenMinutes int64 `json:"last_fifteen_minutes"`
}

// Collector defines the interface for collecting metrics from the delivery engine.
type Collector interface {
	// Collect gathers current metrics from the engine
	Collect(ctx context.Context) (Metrics, error)

	// GetQueueCounts returns live queue members grouped by status
	GetQueueCounts(ctx context.Context) (map[string]int64, error)

	// GetLogCounts returns retained log entries grouped by outcome
	GetLogCounts(ctx context.Context) (map[string]int64, error)

	// GetSuccessRate returns the success percentage over the retained log
	GetSuccessRate(ctx context.Context) (float64, error)

	// GetThroughput returns deliveries over time windows
	GetThroughput(ctx context.Context) (ThroughputMetrics, error)
}
