package relay_test

import (
	"encoding/json"
	"testing"

	"github.com/marcelsud/webhook-relay/relay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus(t *testing.T) {
	t.Run("string round trip", func(t *testing.T) {
		for _, status := range []relay.Status{relay.Pending, relay.Sent, relay.Failed} {
			assert.Equal(t, status, relay.NewStatus(status.String()))
		}
	})

	t.Run("unknown strings default to pending", func(t *testing.T) {
		assert.Equal(t, relay.Pending, relay.NewStatus("bogus"))
	})

	t.Run("validate", func(t *testing.T) {
		assert.NoError(t, relay.Pending.Validate())
		assert.Error(t, relay.Status(0).Validate())
		assert.Error(t, relay.Status(99).Validate())
	})

	t.Run("terminal states", func(t *testing.T) {
		assert.False(t, relay.Pending.IsFinal())
		assert.True(t, relay.Sent.IsFinal())
		assert.True(t, relay.Failed.IsFinal())
	})

	t.Run("serializes as a string", func(t *testing.T) {
		data, err := json.Marshal(relay.Failed)
		require.NoError(t, err)
		assert.Equal(t, `"failed"`, string(data))

		var status relay.Status
		require.NoError(t, json.Unmarshal([]byte(`"sent"`), &status))
		assert.Equal(t, relay.Sent, status)
	})
}
