package events

import "github.com/marcelsud/webhook-relay/catalog"

/* Typed producer edge for the delivery engine
 * The engine transports opaque payload maps; each producer keeps a
 * concrete struct for its own event and flattens it here, so shape
 * mistakes are caught at compile time without constraining the wire
 */

// Emitter is satisfied by *relay.Service
type Emitter interface {
	Send(eventType string, payload map[string]any) bool
}

// Event is any typed business event that can flatten itself for transport
type Event interface {
	Type() string
	Body() map[string]any
}

// Emit flattens a typed event and enqueues it
func Emit(em Emitter, ev Event) bool {
	return em.Send(ev.Type(), ev.Body())
}

// LinkCreated fires when a trackable link is created
type LinkCreated struct {
	ID       string
	URL      string
	ShortURL string
	Platform string
	Network  string
}

func (e LinkCreated) Type() string { return catalog.EventLinkCreated }

func (e LinkCreated) Body() map[string]any {
	return map[string]any{
		"id":        e.ID,
		"url":       e.URL,
		"short_url": e.ShortURL,
		"platform":  e.Platform,
		"network":   e.Network,
	}
}

// TaskCompleted fires when a scheduled task finishes
type TaskCompleted struct {
	TaskID string
	Title  string
	Reward float64
}

func (e TaskCompleted) Type() string { return catalog.EventTaskCompleted }

func (e TaskCompleted) Body() map[string]any {
	return map[string]any{
		"task_id": e.TaskID,
		"title":   e.Title,
		"reward":  e.Reward,
	}
}

// PayoutReceived fires when an affiliate payout arrives
type PayoutReceived struct {
	Network  string
	Amount   float64
	Currency string
}

func (e PayoutReceived) Type() string { return catalog.EventPayoutReceived }

func (e PayoutReceived) Body() map[string]any {
	return map[string]any{
		"network":  e.Network,
		"amount":   e.Amount,
		"currency": e.Currency,
	}
}

// AccountCreated fires when a managed profile is added
type AccountCreated struct {
	ProfileName string
	Email       string
	Platform    string
}

func (e AccountCreated) Type() string { return catalog.EventAccountCreated }

func (e AccountCreated) Body() map[string]any {
	return map[string]any{
		"profileName": e.ProfileName,
		"email":       e.Email,
		"platform":    e.Platform,
	}
}

// ContentPosted fires when scheduled content goes live
type ContentPosted struct {
	PostID   string
	Platform string
	Product  string
	Revenue  float64
}

func (e ContentPosted) Type() string { return catalog.EventContentPosted }

func (e ContentPosted) Body() map[string]any {
	return map[string]any{
		"post_id":  e.PostID,
		"platform": e.Platform,
		"product":  e.Product,
		"revenue":  e.Revenue,
	}
}
