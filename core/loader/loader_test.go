package loader

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

type fakeFeature struct {
	name    string
	enabled bool
	loadErr error
	loaded  int
}

func (f *fakeFeature) Name() string    { return f.name }
func (f *fakeFeature) IsEnabled() bool { return f.enabled }
func (f *fakeFeature) Load(fiber.Router) error {
	f.loaded++
	return f.loadErr
}

func TestManager_LoadAll(t *testing.T) {
	t.Run("SkipsDisabled", func(t *testing.T) {
		on := &fakeFeature{name: "bulk", enabled: true}
		off := &fakeFeature{name: "integrity"}

		m := NewManager()
		m.Register(on)
		m.Register(off)

		assert.NoError(t, m.LoadAll(fiber.New()))
		assert.Equal(t, 1, on.loaded)
		assert.Equal(t, 0, off.loaded)
		assert.Len(t, m.Features(), 2)
	})

	t.Run("StopsOnError", func(t *testing.T) {
		bad := &fakeFeature{name: "bad", enabled: true, loadErr: errors.New("boom")}
		next := &fakeFeature{name: "next", enabled: true}

		m := NewManager()
		m.Register(bad)
		m.Register(next)

		err := m.LoadAll(fiber.New())
		assert.ErrorContains(t, err, "bad")
		assert.Equal(t, 0, next.loaded)
	})

	t.Run("DuplicateName", func(t *testing.T) {
		m := NewManager()
		m.Register(&fakeFeature{name: "bulk", enabled: true})
		m.Register(&fakeFeature{name: "bulk", enabled: true})

		assert.Error(t, m.LoadAll(fiber.New()))
	})
}
