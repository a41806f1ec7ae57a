package relay

import "time"

/* Event represents a unit of outbound work queued for delivery
 * Uses value semantics as it represents data, not behavior
 * The payload is an opaque JSON-value map: the engine never assumes
 * its shape, producers keep typed structs at their own edge
 */
type Event struct {
	ID        string
	EventType string
	Payload   map[string]any
	Timestamp time.Time
	Status    Status
	Attempts  int
}
