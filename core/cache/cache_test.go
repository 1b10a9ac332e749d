package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "Campaigns|123|4", Key("Campaigns", "123", "4"))
}

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, ok, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Put(ctx, "a", []byte("1"), time.Nanosecond))
	v, ok, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("1"), v)
	assert.Equal(t, 1, m.Len())
}

func TestShared(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	t.Run("Expiry", func(t *testing.T) {
		s := NewShared(WithClock(clock))
		require.NoError(t, s.Put(ctx, "k", []byte("v"), time.Hour))

		_, ok, _ := s.Get(ctx, "k")
		assert.True(t, ok)

		now = now.Add(time.Hour)
		_, ok, _ = s.Get(ctx, "k")
		assert.False(t, ok)
		assert.Equal(t, 0, s.Len())
	})

	t.Run("NoTTL", func(t *testing.T) {
		s := NewShared(WithClock(clock))
		require.NoError(t, s.Put(ctx, "k", []byte("v"), 0))
		now = now.Add(24 * 365 * time.Hour)
		_, ok, _ := s.Get(ctx, "k")
		assert.True(t, ok)
	})

	t.Run("EvictsSoonestExpiry", func(t *testing.T) {
		s := NewShared(WithClock(clock), WithMaxEntries(2))
		require.NoError(t, s.Put(ctx, "long", []byte("1"), 2*time.Hour))
		require.NoError(t, s.Put(ctx, "short", []byte("2"), time.Minute))
		require.NoError(t, s.Put(ctx, "new", []byte("3"), time.Hour))

		assert.Equal(t, 2, s.Len())
		_, ok, _ := s.Get(ctx, "short")
		assert.False(t, ok)
		_, ok, _ = s.Get(ctx, "long")
		assert.True(t, ok)
	})

	t.Run("RefreshDuringExpiryKeepsEntry", func(t *testing.T) {
		var refresh func()
		hooked := func() time.Time {
			if f := refresh; f != nil {
				refresh = nil
				f()
			}
			return now
		}
		s := NewShared(WithClock(hooked))
		require.NoError(t, s.Put(ctx, "k", []byte("stale"), time.Minute))
		now = now.Add(time.Minute)

		// Runs between the expiry check and the delete.
		refresh = func() { require.NoError(t, s.Put(ctx, "k", []byte("fresh"), time.Hour)) }

		v, ok, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []byte("fresh"), v)
		assert.Equal(t, 1, s.Len())
	})

	t.Run("OverwriteDoesNotEvict", func(t *testing.T) {
		s := NewShared(WithClock(clock), WithMaxEntries(1))
		require.NoError(t, s.Put(ctx, "k", []byte("1"), time.Hour))
		require.NoError(t, s.Put(ctx, "k", []byte("2"), time.Hour))
		v, ok, _ := s.Get(ctx, "k")
		assert.True(t, ok)
		assert.Equal(t, []byte("2"), v)
	})
}

func TestNewSharedFromConfig(t *testing.T) {
	c, err := NewSharedFromConfig(context.Background(), Config{SharedBackend: BackendMemory, MaxEntries: 10})
	require.NoError(t, err)
	assert.IsType(t, &Shared{}, c)

	_, err = NewSharedFromConfig(context.Background(), Config{SharedBackend: "redis"})
	assert.ErrorContains(t, err, "unknown shared cache backend")
}
