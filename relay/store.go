package relay

import "context"

/* Small, focused interface following "The Go Way"
 * The engine only needs to load the retained history once at construction
 * and overwrite it wholesale on every change; adapters decide where the
 * blob lives (Redis key, local file, memory)
 */

// LogStore persists the bounded transmission log between restarts
type LogStore interface {
	/* Context is always the first parameter in functions that do I/O
	 * This allows for cancellation, timeouts, and shared values
	 */
	Load(ctx context.Context) ([]TransmissionLog, error)
	Save(ctx context.Context, entries []TransmissionLog) error
}

/* MemoryStore is an in-process LogStore for tests and ephemeral runs
 * Not safe for concurrent use beyond the single engine writer
 */
type MemoryStore struct {
	entries []TransmissionLog
	saves   int
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns the last saved entries
func (m *MemoryStore) Load(ctx context.Context) ([]TransmissionLog, error) {
	out := make([]TransmissionLog, len(m.entries))
	copy(out, m.entries)
	return out, nil
}

// Save overwrites the stored entries
func (m *MemoryStore) Save(ctx context.Context, entries []TransmissionLog) error {
	m.entries = make([]TransmissionLog, len(entries))
	copy(m.entries, entries)
	m.saves++
	return nil
}

// Saves reports how many times Save was called, for test assertions
func (m *MemoryStore) Saves() int {
	return m.saves
}
