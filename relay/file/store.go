package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/marcelsud/webhook-relay/relay"
)

/* Local-file implementation of relay.LogStore
 * Used when no Redis address is configured: the history becomes a JSON
 * blob on disk next to the process, the single-writer equivalent of a
 * browser's local storage
 */

// envelope mirrors the Redis store layout so the two blobs are interchangeable
type envelope struct {
	Version int                     `json:"version"`
	Logs    []relay.TransmissionLog `json:"logs"`
}

const envelopeVersion = 1

type Store struct {
	path string
}

// NewStore creates a file-backed log store at the given path
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the persisted history; a missing file yields an empty history
func (s *Store) Load(ctx context.Context) ([]relay.TransmissionLog, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading transmission logs: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err == nil && env.Version > 0 {
		return env.Logs, nil
	}

	var entries []relay.TransmissionLog
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decoding transmission logs: %w", err)
	}
	return entries, nil
}

/* Save overwrites the persisted history
 * Writes go through a temp file and rename so a crash mid-write cannot
 * leave a half-written blob behind
 */
func (s *Store) Save(ctx context.Context, entries []relay.TransmissionLog) error {
	data, err := json.Marshal(envelope{
		Version: envelopeVersion,
		Logs:    entries,
	})
	if err != nil {
		return fmt.Errorf("encoding transmission logs: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".transmission_logs-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing transmission logs: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing transmission logs: %w", err)
	}
	return nil
}
