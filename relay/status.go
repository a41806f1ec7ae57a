package relay

import (
	"encoding/json"
	"fmt"
)

/* Status represents the current state of an outbound event
 * Follows the lifecycle: Pending -> Sent/Failed
 * Pending events that fail below the attempt ceiling stay Pending
 */
type Status int

const (
	Pending Status = iota + 1
	Sent
	Failed
)

// String returns the string representation of the status
func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Sent:
		return "sent"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// NewStatus creates a Status from a string
func NewStatus(str string) Status {
	switch str {
	case "pending":
		return Pending
	case "sent":
		return Sent
	case "failed":
		return Failed
	default:
		return Pending
	}
}

// Validate checks if the status is valid
func (s Status) Validate() error {
	if s < Pending || s > Failed {
		return fmt.Errorf("invalid status: %d", s)
	}
	return nil
}

// IsFinal returns true if the status is a terminal state
func (s Status) IsFinal() bool {
	return s == Sent || s == Failed
}

/* The persisted log layout stores statuses as strings, so the enum
 * serializes through its string form rather than the numeric value
 */

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("unmarshaling status: %w", err)
	}
	*s = NewStatus(str)
	return nil
}
