package facile

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	captureReports(t)

	assert.Same(t, Default(), Default())

	t.Run("one-shot on the real clock", func(t *testing.T) {
		done := make(chan struct{})
		id := After(5*time.Millisecond, "boot", func() { close(done) })
		require.NotEqual(t, None, id)

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("timer never fired")
		}

		assert.Eventually(t, func() bool { return Default().Len() == 0 },
			time.Second, time.Millisecond)
		assert.False(t, Stop(id))
	})

	t.Run("repeating stopped by name", func(t *testing.T) {
		var fired atomic.Int32
		id := Every(5*time.Millisecond, "tick", func() { fired.Add(1) })
		require.NotEqual(t, None, id)

		assert.Eventually(t, func() bool { return fired.Load() >= 2 },
			time.Second, time.Millisecond)

		assert.True(t, StopName("tick"))
		assert.False(t, Stop(id), "already removed by name")
	})

	t.Run("stop all", func(t *testing.T) {
		Every(time.Minute, "a", func() {})
		Every(time.Minute, "b", func() {})
		StopAll()
		assert.Equal(t, 0, Default().Len())
	})
}
