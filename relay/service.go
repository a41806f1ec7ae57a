package relay

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

/* Service is the outbound delivery engine: it owns the in-memory event
 * queue, the bounded transmission history and the notification hub.
 * Uses pointer semantics as it's an API, not data.
 *
 * The engine is constructed explicitly and injected into producers and
 * the HTTP layer; there is no package-level singleton, so tests can run
 * isolated instances and drive drain ticks manually.
 */

// UseCase defines the operations the engine exposes to producers and operators
type UseCase interface {
	Send(eventType string, payload map[string]any) bool
	LogError(context string, err error, metadata map[string]any) bool
	QueueStatus() QueueStatus
	TransmissionLogs(limit int) []TransmissionLog
	TransmissionStats() Stats
	ErrorLogs(limit int) []TransmissionLog
	MarkErrorResolved(ctx context.Context, id string) bool
	RetryAllFailed() int
	TestConnection(ctx context.Context) ProbeResult
	SyncStructure(ctx context.Context) ProbeResult
}

// QueueStatus summarizes the live queue for health indicators
type QueueStatus struct {
	Pending   int  `json:"pending"`
	Failed    int  `json:"failed"`
	Sent      int  `json:"sent"`
	Total     int  `json:"total"`
	IsHealthy bool `json:"isHealthy"`
}

// Options tunes the engine; zero values fall back to the defaults below
type Options struct {
	DrainInterval   time.Duration
	PersistInterval time.Duration
	BatchSize       int
	MaxAttempts     int
	Logger          *zerolog.Logger
}

const (
	DefaultDrainInterval   = 4 * time.Second
	DefaultPersistInterval = 15 * time.Second
	DefaultBatchSize       = 3
	DefaultMaxAttempts     = 3
)

type Service struct {
	sender Sender // nil when no endpoint is configured
	store  LogStore
	hub    *Hub
	opts   Options
	logger zerolog.Logger

	mu    sync.Mutex
	queue []*Event
	logs  *LogBook

	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

/* NewService creates an engine with dependency injection
 * A nil sender means no endpoint is configured: enqueue short-circuits
 * to false and probes report failure, but nothing ever panics.
 * Loading the persisted history is best effort: a corrupt or missing
 * store yields an empty log book, never a construction failure
 */
func NewService(ctx context.Context, sender Sender, store LogStore, opts Options) *Service {
	if opts.DrainInterval <= 0 {
		opts.DrainInterval = DefaultDrainInterval
	}
	if opts.PersistInterval <= 0 {
		opts.PersistInterval = DefaultPersistInterval
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	s := &Service{
		sender: sender,
		store:  store,
		hub:    NewHub(),
		opts:   opts,
		logger: logger,
		done:   make(chan struct{}),
	}

	entries, err := store.Load(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("loading transmission logs, starting empty")
		entries = nil
	}
	s.logs = NewLogBook(entries)

	return s
}

/* Send enqueues a business event for at-least-once delivery
 * Fire-and-forget: it never blocks on network I/O and never returns an
 * error. The only false case is a missing endpoint configuration;
 * delivery failures surface through the log and the hub instead
 */
func (s *Service) Send(eventType string, payload map[string]any) bool {
	if s.sender == nil {
		return false
	}

	event := &Event{
		ID:        fmt.Sprintf("evt_%s", uuid.NewString()),
		EventType: eventType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
		Status:    Pending,
		Attempts:  0,
	}

	s.mu.Lock()
	s.queue = append(s.queue, event)
	s.mu.Unlock()

	return true
}

// LogError enqueues a diagnostic event; it is sugar over Send, not a direct log write
func (s *Service) LogError(context string, err error, metadata map[string]any) bool {
	message := ""
	if err != nil {
		message = err.Error()
	}
	payload := make(map[string]any, len(metadata)+2)
	for k, v := range metadata {
		payload[k] = v
	}
	payload["context"] = context
	payload["error"] = message
	return s.Send("neural_error_log", payload)
}

// Start launches the drain and persistence loops; Stop shuts them down
func (s *Service) Start(ctx context.Context) {
	s.wg.Add(2)
	go s.drainLoop(ctx)
	go s.persistLoop(ctx)
}

// Stop terminates the background loops and waits for them to exit
func (s *Service) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
	})
	s.wg.Wait()
}

func (s *Service) drainLoop(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.opts.DrainInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.Tick(ctx)
		case <-ctx.Done():
			return
		case <-s.done:
			return
		}
	}
}

func (s *Service) persistLoop(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.opts.PersistInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			snapshot := s.logs.Snapshot()
			s.mu.Unlock()
			s.persist(ctx, snapshot)
		case <-ctx.Done():
			return
		case <-s.done:
			return
		}
	}
}

/* Tick runs one drain pass: up to BatchSize pending events, attempted
 * strictly sequentially. Exported so tests and operators can drive the
 * queue without waiting on the wall clock.
 * Selection is queue order, so a retried event keeps its slot ahead of
 * younger arrivals and cannot be starved by a busy producer
 */
func (s *Service) Tick(ctx context.Context) {
	for _, event := range s.nextBatch() {
		s.attempt(ctx, event)
	}
}

func (s *Service) nextBatch() []*Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	batch := make([]*Event, 0, s.opts.BatchSize)
	for _, event := range s.queue {
		if event.Status != Pending {
			continue
		}
		batch = append(batch, event)
		if len(batch) == s.opts.BatchSize {
			break
		}
	}
	return batch
}

/* attempt performs one delivery and records the outcome
 * Retries below the attempt ceiling leave the event Pending for a later
 * tick; only the terminal outcome produces a log entry and a signal, so
 * one event lineage yields exactly one record
 */
func (s *Service) attempt(ctx context.Context, event *Event) {
	s.mu.Lock()
	snapshot := *event
	s.mu.Unlock()

	delivery, err := s.sender.Deliver(ctx, snapshot)
	now := time.Now().UTC()

	if err == nil {
		s.mu.Lock()
		event.Attempts++
		event.Status = Sent
		s.logs.Add(TransmissionLog{
			ID:           fmt.Sprintf("log_%s", uuid.NewString()),
			EventType:    event.EventType,
			Status:       Sent,
			Timestamp:    now,
			ResponseTime: delivery.ResponseTime.Milliseconds(),
			StatusCode:   delivery.StatusCode,
			Payload:      event.Payload,
			RetryCount:   event.Attempts,
		})
		logs := s.logs.Snapshot()
		s.mu.Unlock()

		s.persist(ctx, logs)
		s.hub.Emit(SignalTransmissionSuccess, SuccessSignal{
			EventType:    event.EventType,
			ResponseTime: delivery.ResponseTime.Milliseconds(),
		})
		return
	}

	s.mu.Lock()
	event.Attempts++
	exhausted := event.Attempts >= s.opts.MaxAttempts
	var logs []TransmissionLog
	if exhausted {
		event.Status = Failed
		s.logs.Add(TransmissionLog{
			ID:         fmt.Sprintf("log_%s", uuid.NewString()),
			EventType:  event.EventType,
			Status:     Failed,
			Timestamp:  now,
			Error:      err.Error(),
			Payload:    event.Payload,
			RetryCount: event.Attempts,
		})
		logs = s.logs.Snapshot()
	}
	s.mu.Unlock()

	if exhausted {
		s.logger.Warn().
			Str("event_type", event.EventType).
			Str("event_id", event.ID).
			Err(err).
			Msg("delivery attempts exhausted")
		s.persist(ctx, logs)
		s.hub.Emit(SignalErrorLogged, ErrorSignal{
			Context: event.EventType,
			Message: err.Error(),
		})
	}
}

// persist writes the history blob and notifies log observers; write failures are logged, never fatal
func (s *Service) persist(ctx context.Context, logs []TransmissionLog) {
	if err := s.store.Save(ctx, logs); err != nil {
		s.logger.Warn().Err(err).Msg("persisting transmission logs")
	}
	s.hub.Emit(SignalLogsUpdated, logs)
}

/* RetryAllFailed moves every failed queued event back to Pending with a
 * fresh attempt budget and reports how many were reset. This is the only
 * transition out of the failed terminal state, and it touches the live
 * queue only, never the persisted history
 */
func (s *Service) RetryAllFailed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, event := range s.queue {
		if event.Status != Failed {
			continue
		}
		event.Status = Pending
		event.Attempts = 0
		count++
	}
	return count
}

// QueueStatus counts live queue members by state
func (s *Service) QueueStatus() QueueStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	status := QueueStatus{Total: len(s.queue)}
	for _, event := range s.queue {
		switch event.Status {
		case Pending:
			status.Pending++
		case Sent:
			status.Sent++
		case Failed:
			status.Failed++
		}
	}
	status.IsHealthy = status.Failed == 0
	return status
}

// TransmissionLogs returns up to limit history entries, newest first (default 50)
func (s *Service) TransmissionLogs(limit int) []TransmissionLog {
	if limit <= 0 {
		limit = 50
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logs.Recent(limit)
}

// TransmissionStats aggregates the retained history
func (s *Service) TransmissionStats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logs.Stats()
}

// ErrorLogs returns up to limit failed entries, newest first (default 5)
func (s *Service) ErrorLogs(limit int) []TransmissionLog {
	if limit <= 0 {
		limit = 5
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logs.Errors(limit)
}

// MarkErrorResolved acknowledges a failed entry and persists the change; idempotent
func (s *Service) MarkErrorResolved(ctx context.Context, id string) bool {
	s.mu.Lock()
	found := s.logs.MarkResolved(id)
	var logs []TransmissionLog
	if found {
		logs = s.logs.Snapshot()
	}
	s.mu.Unlock()

	if found {
		s.persist(ctx, logs)
	}
	return found
}

// TestConnection performs the handshake probe outside the queue
func (s *Service) TestConnection(ctx context.Context) ProbeResult {
	if s.sender == nil {
		return ProbeResult{Success: false, Message: "missing endpoint URL"}
	}
	return s.sender.Probe(ctx)
}

// SyncStructure performs the one-off field-mapping sync outside the queue
func (s *Service) SyncStructure(ctx context.Context) ProbeResult {
	if s.sender == nil {
		return ProbeResult{Success: false, Message: "missing endpoint URL"}
	}
	return s.sender.SyncStructure(ctx)
}

// On registers a hub listener for an engine signal
func (s *Service) On(signal Signal, cb Callback) {
	s.hub.On(signal, cb)
}

// RemoveListener unregisters a hub listener
func (s *Service) RemoveListener(signal Signal, cb Callback) {
	s.hub.RemoveListener(signal, cb)
}
