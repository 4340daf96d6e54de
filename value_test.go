package facile

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValue(t *testing.T) {
	t.Run("holds and updates its value", func(t *testing.T) {
		count := NewValue(0)

		v, ok := count.Get()
		assert.True(t, ok)
		assert.Equal(t, 0, v)

		count.Set(10)
		v, _ = count.Get()
		assert.Equal(t, 10, v)
	})

	t.Run("empty until the first set", func(t *testing.T) {
		count := NewEmptyValue[int]()

		_, ok := count.Get()
		assert.False(t, ok)

		// the zero value is a real value, distinct from empty
		count.Set(0)
		v, ok := count.Get()
		assert.True(t, ok)
		assert.Equal(t, 0, v)
	})

	t.Run("equal write is a no-op", func(t *testing.T) {
		count := NewEmptyValue[int]()

		var got []string
		count.OnChange(func(next, prev int) {
			got = append(got, fmt.Sprintf("%d->%d", prev, next))
		})

		count.Set(5)
		count.Set(5)
		assert.Equal(t, []string{"0->5"}, got)

		count.Set(6)
		assert.Equal(t, []string{"0->5", "5->6"}, got)
	})

	t.Run("listeners run in registration order", func(t *testing.T) {
		count := NewValue(0)

		var got []string
		for _, name := range []string{"first", "second", "third"} {
			count.OnChange(func(next, prev int) {
				got = append(got, name)
			})
		}

		count.Set(1)
		count.Set(2)
		assert.Equal(t, []string{
			"first", "second", "third",
			"first", "second", "third",
		}, got)
	})

	t.Run("panicking listener does not stop the rest", func(t *testing.T) {
		log := captureReports(t)
		count := NewValue(0)

		var got []int
		count.OnChange(func(next, prev int) {
			panic("listener boom")
		})
		count.OnChange(func(next, prev int) {
			got = append(got, next)
		})

		count.Set(7)

		assert.Equal(t, []int{7}, got)
		assert.Equal(t, 1, log.count(ErrListenerPanic))

		v, _ := count.Get()
		assert.Equal(t, 7, v)
	})

	t.Run("listener writing back is delivered after the current round", func(t *testing.T) {
		count := NewValue(0)

		var got []string
		count.OnChange(func(next, prev int) {
			got = append(got, fmt.Sprintf("first %d->%d", prev, next))
			if next == 1 {
				count.Set(2)
			}
		})
		count.OnChange(func(next, prev int) {
			got = append(got, fmt.Sprintf("second %d->%d", prev, next))
		})

		count.Set(1)

		assert.Equal(t, []string{
			"first 0->1",
			"second 0->1",
			"first 1->2",
			"second 1->2",
		}, got)
	})

	t.Run("listener added mid-dispatch misses the in-flight change", func(t *testing.T) {
		count := NewValue(0)

		var got []string
		registered := false
		count.OnChange(func(next, prev int) {
			got = append(got, "outer")
			if !registered {
				registered = true
				count.OnChange(func(next, prev int) {
					got = append(got, "inner")
				})
			}
		})

		count.Set(1)
		assert.Equal(t, []string{"outer"}, got)

		count.Set(2)
		assert.Equal(t, []string{"outer", "outer", "inner"}, got)
	})

	t.Run("zero values", func(t *testing.T) {
		err := NewValue[error](nil)

		v, ok := err.Get()
		assert.True(t, ok)
		assert.Nil(t, v)

		err.Set(errors.New("oops"))
		v, _ = err.Get()
		assert.EqualError(t, v, "oops")
	})

	t.Run("concurrent read/write", func(t *testing.T) {
		var wg sync.WaitGroup
		count := NewValue(0)

		wg.Go(func() {
			v, _ := count.Get()
			count.Set(v + 1)
		})

		wg.Wait()
		v, _ := count.Get()
		assert.Equal(t, 1, v)
	})
}
