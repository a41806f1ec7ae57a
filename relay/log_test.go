package relay_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/marcelsud/webhook-relay/relay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(id string, status relay.Status) relay.TransmissionLog {
	return relay.TransmissionLog{
		ID:        id,
		EventType: "link_created",
		Status:    status,
		Timestamp: time.Now().UTC(),
	}
}

func TestLogBookBounds(t *testing.T) {
	t.Run("insertion evicts the oldest entries", func(t *testing.T) {
		book := relay.NewLogBook(nil)
		for i := 0; i < relay.MaxLogSize+50; i++ {
			book.Add(entry(fmt.Sprintf("log_%d", i), relay.Sent))
		}

		assert.Equal(t, relay.MaxLogSize, book.Len())

		// Newest first: the most recent insertion leads
		recent := book.Recent(1)
		require.Len(t, recent, 1)
		assert.Equal(t, fmt.Sprintf("log_%d", relay.MaxLogSize+49), recent[0].ID)

		// The earliest entries are gone
		for _, e := range book.Snapshot() {
			assert.NotEqual(t, "log_0", e.ID)
		}
	})

	t.Run("oversized seed is truncated", func(t *testing.T) {
		seed := make([]relay.TransmissionLog, relay.MaxLogSize+10)
		for i := range seed {
			seed[i] = entry(fmt.Sprintf("log_%d", i), relay.Sent)
		}
		book := relay.NewLogBook(seed)
		assert.Equal(t, relay.MaxLogSize, book.Len())
	})
}

func TestLogBookStats(t *testing.T) {
	t.Run("empty log reports 100 percent", func(t *testing.T) {
		book := relay.NewLogBook(nil)
		stats := book.Stats()
		assert.Equal(t, 0, stats.Total)
		assert.Equal(t, float64(100), stats.SuccessRate)
	})

	t.Run("counts by outcome", func(t *testing.T) {
		book := relay.NewLogBook(nil)
		book.Add(entry("log_1", relay.Sent))
		book.Add(entry("log_2", relay.Sent))
		book.Add(entry("log_3", relay.Sent))
		book.Add(entry("log_4", relay.Failed))

		stats := book.Stats()
		assert.Equal(t, 4, stats.Total)
		assert.Equal(t, 3, stats.Sent)
		assert.Equal(t, 1, stats.Failed)
		assert.Equal(t, float64(75), stats.SuccessRate)
	})
}

func TestLogBookErrors(t *testing.T) {
	book := relay.NewLogBook(nil)
	book.Add(entry("log_1", relay.Sent))
	book.Add(entry("log_2", relay.Failed))
	book.Add(entry("log_3", relay.Sent))
	book.Add(entry("log_4", relay.Failed))

	errs := book.Errors(5)
	require.Len(t, errs, 2)
	assert.Equal(t, "log_4", errs[0].ID)
	assert.Equal(t, "log_2", errs[1].ID)

	assert.Len(t, book.Errors(1), 1)
}

func TestLogBookMarkResolved(t *testing.T) {
	book := relay.NewLogBook(nil)
	book.Add(entry("log_1", relay.Failed))

	require.True(t, book.MarkResolved("log_1"))
	assert.True(t, book.Snapshot()[0].Resolved)

	// Idempotent
	require.True(t, book.MarkResolved("log_1"))
	assert.True(t, book.Snapshot()[0].Resolved)
	assert.Equal(t, 1, book.Len())

	assert.False(t, book.MarkResolved("log_missing"))
}

func TestLogBookRecentCopies(t *testing.T) {
	book := relay.NewLogBook(nil)
	book.Add(entry("log_1", relay.Sent))

	recent := book.Recent(0)
	require.Len(t, recent, 1)
	recent[0].ID = "mutated"

	assert.Equal(t, "log_1", book.Snapshot()[0].ID)
}
