package relay

import (
	"reflect"
	"sync"
)

/* Signal names the internal lifecycle notifications emitted by the engine
 * This is a separate namespace from business event types: signals describe
 * the engine itself, not the payloads it carries
 */
type Signal string

const (
	SignalTransmissionSuccess Signal = "transmission_success"
	SignalErrorLogged         Signal = "error_logged"
	SignalLogsUpdated         Signal = "logs_updated"
)

// Callback receives the signal payload when a signal fires
type Callback func(data any)

// SuccessSignal is the payload carried by transmission_success
type SuccessSignal struct {
	EventType    string `json:"eventType"`
	ResponseTime int64  `json:"responseTime"` // milliseconds
}

// ErrorSignal is the payload carried by error_logged
type ErrorSignal struct {
	Context string `json:"context"`
	Message string `json:"message"`
}

/* Hub is a minimal synchronous pub/sub for engine observers
 * Listeners run in registration order; a panicking listener must not
 * prevent the remaining listeners from running
 */
type Hub struct {
	mu        sync.Mutex
	listeners map[Signal][]Callback
}

// NewHub creates an empty notification hub
func NewHub() *Hub {
	return &Hub{
		listeners: make(map[Signal][]Callback),
	}
}

// On registers a callback for a signal
func (h *Hub) On(signal Signal, cb Callback) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners[signal] = append(h.listeners[signal], cb)
}

/* RemoveListener unregisters a callback by function identity
 * Go functions are not comparable with ==, so identity is established
 * through the function pointer, mirroring removal-by-reference semantics
 */
func (h *Hub) RemoveListener(signal Signal, cb Callback) {
	h.mu.Lock()
	defer h.mu.Unlock()
	target := reflect.ValueOf(cb).Pointer()
	kept := h.listeners[signal][:0]
	for _, registered := range h.listeners[signal] {
		if reflect.ValueOf(registered).Pointer() != target {
			kept = append(kept, registered)
		}
	}
	h.listeners[signal] = kept
}

// Emit delivers data to every listener of the signal, synchronously and in order
func (h *Hub) Emit(signal Signal, data any) {
	h.mu.Lock()
	callbacks := make([]Callback, len(h.listeners[signal]))
	copy(callbacks, h.listeners[signal])
	h.mu.Unlock()

	for _, cb := range callbacks {
		runCallback(cb, data)
	}
}

// runCallback isolates one listener so its panic cannot starve the others
func runCallback(cb Callback, data any) {
	defer func() {
		_ = recover()
	}()
	cb(data)
}
