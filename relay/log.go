package relay

import "time"

// MaxLogSize bounds the persisted transmission log; insertion evicts the oldest entries
const MaxLogSize = 100

/* TransmissionLog is an immutable record of one delivery outcome
 * Resolved is the only field that may change after creation: it is the
 * operator's acknowledgement flag for failed transmissions
 */
type TransmissionLog struct {
	ID           string         `json:"id"`
	EventType    string         `json:"eventType"`
	Status       Status         `json:"status"`
	Timestamp    time.Time      `json:"timestamp"`
	ResponseTime int64          `json:"responseTime,omitempty"` // milliseconds
	StatusCode   int            `json:"statusCode,omitempty"`
	Error        string         `json:"error,omitempty"`
	Payload      map[string]any `json:"payload,omitempty"`
	RetryCount   int            `json:"retryCount"`
	Resolved     bool           `json:"resolved,omitempty"`
}

// Stats aggregates transmission outcomes over the whole retained log
type Stats struct {
	Total       int     `json:"total"`
	Sent        int     `json:"sent"`
	Failed      int     `json:"failed"`
	SuccessRate float64 `json:"successRate"`
}

/* LogBook holds the bounded, newest-first transmission history
 * Not safe for concurrent use: the owning Service serializes access
 */
type LogBook struct {
	entries []TransmissionLog
}

// NewLogBook creates a log book seeded with previously persisted entries
func NewLogBook(entries []TransmissionLog) *LogBook {
	if len(entries) > MaxLogSize {
		entries = entries[:MaxLogSize]
	}
	return &LogBook{entries: entries}
}

// Add prepends a record, evicting the oldest entries beyond MaxLogSize
func (b *LogBook) Add(entry TransmissionLog) {
	b.entries = append([]TransmissionLog{entry}, b.entries...)
	if len(b.entries) > MaxLogSize {
		b.entries = b.entries[:MaxLogSize]
	}
}

// Recent returns up to limit entries, newest first
func (b *LogBook) Recent(limit int) []TransmissionLog {
	if limit <= 0 || limit > len(b.entries) {
		limit = len(b.entries)
	}
	out := make([]TransmissionLog, limit)
	copy(out, b.entries[:limit])
	return out
}

// Errors returns up to limit failed entries, newest first
func (b *LogBook) Errors(limit int) []TransmissionLog {
	out := make([]TransmissionLog, 0, limit)
	for _, entry := range b.entries {
		if entry.Status != Failed {
			continue
		}
		out = append(out, entry)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

/* Stats computes aggregate counts and the success rate
 * An empty log reports a 100% success rate: nothing has failed yet
 */
func (b *LogBook) Stats() Stats {
	stats := Stats{Total: len(b.entries), SuccessRate: 100}
	for _, entry := range b.entries {
		switch entry.Status {
		case Sent:
			stats.Sent++
		case Failed:
			stats.Failed++
		}
	}
	if stats.Total > 0 {
		stats.SuccessRate = float64(stats.Sent) / float64(stats.Total) * 100
	}
	return stats
}

/* MarkResolved flips the resolved flag on the entry with the given id
 * Idempotent: resolving an already-resolved entry is a no-op success
 * Returns false only when no entry carries the id
 */
func (b *LogBook) MarkResolved(id string) bool {
	for i := range b.entries {
		if b.entries[i].ID == id {
			b.entries[i].Resolved = true
			return true
		}
	}
	return false
}

// Snapshot returns a copy of all retained entries, newest first
func (b *LogBook) Snapshot() []TransmissionLog {
	out := make([]TransmissionLog, len(b.entries))
	copy(out, b.entries)
	return out
}

// Len returns the number of retained entries
func (b *LogBook) Len() int {
	return len(b.entries)
}
