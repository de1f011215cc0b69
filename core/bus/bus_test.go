package bus_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/odpf/meridian/core/bus"
)

func TestBus(t *testing.T) {
	t.Run("delivers posted events to a listener", func(t *testing.T) {
		b := bus.New()
		out := make(chan interface{}, 1)
		b.Listen("some.event", out)

		err := b.Post("some.event", "payload")

		assert.Nil(t, err)
		assert.Equal(t, "payload", <-out)
	})
	t.Run("returns error when nobody listens", func(t *testing.T) {
		b := bus.New()

		err := b.Post("some.event", "payload")

		assert.ErrorIs(t, err, bus.ErrNotFound)
	})
	t.Run("stopped listener no longer receives", func(t *testing.T) {
		b := bus.New()
		out := make(chan interface{}, 1)
		b.Listen("some.event", out)

		err := b.Stop("some.event", out)
		assert.Nil(t, err)

		_ = b.Post("some.event", "payload")
		assert.Empty(t, out)
	})
	t.Run("stop on unknown event returns error", func(t *testing.T) {
		b := bus.New()
		out := make(chan interface{}, 1)

		err := b.Stop("missing.event", out)

		assert.ErrorIs(t, err, bus.ErrNotFound)
	})
}
