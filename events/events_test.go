package events_test

import (
	"testing"

	"github.com/marcelsud/webhook-relay/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// emitterSpy records what producers hand to the engine
type emitterSpy struct {
	eventType string
	payload   map[string]any
	result    bool
}

func (e *emitterSpy) Send(eventType string, payload map[string]any) bool {
	e.eventType = eventType
	e.payload = payload
	return e.result
}

func TestEmit(t *testing.T) {
	t.Run("flattens a typed event into the transport payload", func(t *testing.T) {
		spy := &emitterSpy{result: true}

		ok := events.Emit(spy, events.LinkCreated{
			ID:       "1",
			URL:      "https://original-link.com",
			ShortURL: "https://short-link.io/abc",
			Platform: "instagram",
			Network:  "AdFly",
		})

		require.True(t, ok)
		assert.Equal(t, "link_created", spy.eventType)
		assert.Equal(t, "https://original-link.com", spy.payload["url"])
		assert.Equal(t, "https://short-link.io/abc", spy.payload["short_url"])
		assert.Equal(t, "AdFly", spy.payload["network"])
	})

	t.Run("propagates the engine refusal", func(t *testing.T) {
		spy := &emitterSpy{result: false}
		assert.False(t, events.Emit(spy, events.PayoutReceived{Network: "Amazon", Amount: 10, Currency: "USD"}))
	})
}

func TestEventTypes(t *testing.T) {
	cases := []struct {
		event events.Event
		want  string
	}{
		{events.LinkCreated{}, "link_created"},
		{events.TaskCompleted{}, "task_completed"},
		{events.PayoutReceived{}, "payout_received"},
		{events.AccountCreated{}, "account_created"},
		{events.ContentPosted{}, "content_posted"},
	}

	for _, tc := range cases {
		t.Run(tc.want, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.event.Type())
			assert.NotEmpty(t, tc.event.Body())
		})
	}
}
