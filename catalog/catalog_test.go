package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/marcelsud/webhook-relay/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	cat := catalog.Default()

	for _, name := range []string{
		catalog.EventLinkCreated,
		catalog.EventTaskCompleted,
		catalog.EventPayoutReceived,
		catalog.EventAccountCreated,
		catalog.EventContentPosted,
		catalog.EventErrorOccurred,
		catalog.EventNeuralErrorLog,
	} {
		assert.True(t, cat.Exists(name), name)
	}

	def, err := cat.Get(catalog.EventLinkCreated)
	require.NoError(t, err)
	assert.Equal(t, "link_created", def.Name)
	assert.NotEmpty(t, def.Description)

	assert.False(t, cat.Exists("bogus_event"))
	_, err = cat.Get("bogus_event")
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	t.Run("merges definitions from a YAML file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.yaml")
		content := `events:
  - name: coupon_redeemed
    description: A coupon code was redeemed
    sample:
      code: SAVE10
      value: 10.0
  - name: link_created
    description: Overridden description
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		cat := catalog.Default()
		require.NoError(t, cat.Load(path))

		def, err := cat.Get("coupon_redeemed")
		require.NoError(t, err)
		assert.Equal(t, "SAVE10", def.Sample["code"])

		// Existing names are overridden, not duplicated
		def, err = cat.Get("link_created")
		require.NoError(t, err)
		assert.Equal(t, "Overridden description", def.Description)

		names := make(map[string]int)
		for _, d := range cat.List() {
			names[d.Name]++
		}
		assert.Equal(t, 1, names["link_created"])
	})

	t.Run("rejects invalid event names", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.yaml")
		require.NoError(t, os.WriteFile(path, []byte("events:\n  - name: Bad-Name\n"), 0o600))

		err := catalog.NewLoader().Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "validating event")
	})

	t.Run("missing file reports an error", func(t *testing.T) {
		err := catalog.NewLoader().Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})
}

func TestEventDefValidate(t *testing.T) {
	cases := []struct {
		name    string
		event   string
		wantErr bool
	}{
		{"simple", "link_created", false},
		{"digits", "payout_2x", false},
		{"empty", "", true},
		{"uppercase", "LinkCreated", true},
		{"hyphen", "link-created", true},
		{"trailing underscore", "link_", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := catalog.EventDef{Name: tc.event}.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
