package bulk

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"bulkdozer/core/tabular"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      any
		want    Mode
		wantErr bool
	}{
		{"", ModeAlways, false},
		{nil, ModeAlways, false},
		{"load", ModeLoad, false},
		{" PUSH ", ModePush, false},
		{"None", ModeNone, false},
		{"sometimes", "", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestModeDirections(t *testing.T) {
	assert.True(t, ModeAlways.Loads())
	assert.True(t, ModeAlways.Pushes())
	assert.True(t, ModeLoad.Loads())
	assert.False(t, ModeLoad.Pushes())
	assert.False(t, ModePush.Loads())
	assert.True(t, ModePush.Pushes())
	assert.False(t, ModeNone.Loads())
	assert.False(t, ModeNone.Pushes())
	assert.Equal(t, ModeAlways, EntityConfigs{}.Mode("Ads"))
}

func TestLoadProfile(t *testing.T) {
	dir := t.TempDir()

	t.Run("Valid", func(t *testing.T) {
		path := filepath.Join(dir, "profile.yaml")
		require.NoError(t, os.WriteFile(path, []byte("entities:\n  Campaigns: load\n  Ads: NONE\n"), 0o644))

		p, err := LoadProfile(path)
		require.NoError(t, err)
		assert.Equal(t, map[string]Mode{"Campaigns": ModeLoad, "Ads": ModeNone}, p.Entities)
	})

	t.Run("InvalidMode", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("entities:\n  Ads: often\n"), 0o644))

		_, err := LoadProfile(path)
		assert.ErrorContains(t, err, "Ads")
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := LoadProfile(filepath.Join(dir, "missing.yaml"))
		assert.Error(t, err)
	})
}

func TestEntityConfigsTable(t *testing.T) {
	ctx := context.Background()
	store := tabular.NewMemory()

	configs, err := ReadEntityConfigs(ctx, store)
	require.NoError(t, err)
	assert.Empty(t, configs)

	require.NoError(t, WriteEntityConfigs(ctx, store, EntityConfigs{"Ads": ModePush, "Campaigns": ModeLoad}))
	configs, err = ReadEntityConfigs(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, EntityConfigs{"Ads": ModePush, "Campaigns": ModeLoad}, configs)

	require.NoError(t, WriteEntityConfigs(ctx, store, EntityConfigs{"Ads": ModeNone}))
	configs, err = ReadEntityConfigs(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, EntityConfigs{"Ads": ModeNone}, configs)
}

func TestServiceSeedsEntityConfigsFromProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("entities:\n  Creatives: push\n"), 0o644))

	f := newFixture(t, nil, nil, func(d *Deps) { d.Sync.ProfilePath = path })
	configs, err := f.svc.EntityConfigs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, EntityConfigs{"Creatives": ModePush}, configs)

	rows := f.rows(t, ConfigsTable)
	require.Len(t, rows, 1)
	assert.Equal(t, "Creatives", rows[0]["Entity"])
}
