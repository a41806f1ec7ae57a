package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/marcelsud/webhook-relay/relay"
	"github.com/redis/go-redis/v9"
)

/* Redis implementation of relay.LogStore
 * The whole bounded history lives under one key as a JSON blob: the log
 * is at most 100 entries and always rewritten wholesale, so a single
 * SET/GET pair beats per-entry structures here
 */

// logKey holds the serialized transmission history
const logKey = "relay:transmission_logs"

// envelopeVersion tags the persisted layout for future migrations
const envelopeVersion = 1

/* envelope wraps the entries with a schema version
 * Loads also accept a bare entry array, the layout written before
 * versioning existed
 */
type envelope struct {
	Version int                     `json:"version"`
	Logs    []relay.TransmissionLog `json:"logs"`
}

type Store struct {
	client *redis.Client
}

// NewStore creates a Redis-backed log store
func NewStore(addr, password string, db int) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to Redis: %w", err)
	}

	return &Store{
		client: client,
	}, nil
}

// Load reads the persisted history; a missing key yields an empty history
func (s *Store) Load(ctx context.Context) ([]relay.TransmissionLog, error) {
	data, err := s.client.Get(ctx, logKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading transmission logs: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err == nil && env.Version > 0 {
		return env.Logs, nil
	}

	// Pre-versioning layout: a bare array of entries
	var entries []relay.TransmissionLog
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decoding transmission logs: %w", err)
	}
	return entries, nil
}

// Save overwrites the persisted history
func (s *Store) Save(ctx context.Context, entries []relay.TransmissionLog) error {
	data, err := json.Marshal(envelope{
		Version: envelopeVersion,
		Logs:    entries,
	})
	if err != nil {
		return fmt.Errorf("encoding transmission logs: %w", err)
	}

	if err := s.client.Set(ctx, logKey, data, 0).Err(); err != nil {
		return fmt.Errorf("writing transmission logs: %w", err)
	}
	return nil
}

// Close releases the Redis connection
func (s *Store) Close(ctx context.Context) error {
	return s.client.Close()
}
