package facile

import (
	"fmt"

	"github.com/side-xp/facile/internal"
)

func as[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}

	return v.(T)
}

// Value is a single watched slot: every distinct write is broadcast
// synchronously to the registered listeners.
//
// T should be a comparable type: Set gates on == over the dynamic
// value, and comparing an uncomparable value (a slice, a map, a
// function) panics at runtime.
type Value[T any] struct {
	slot *internal.Slot
}

// NewValue creates a value holding initial.
func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{internal.NewSeededSlot(initial, reportListenerPanic)}
}

// NewEmptyValue creates a value with no current value. The empty state
// is distinct from holding T's zero value and lasts until the first Set.
func NewEmptyValue[T any]() *Value[T] {
	return &Value[T]{internal.NewSlot(reportListenerPanic)}
}

// Get returns the current value, and false while the value is still empty.
func (v *Value[T]) Get() (T, bool) {
	raw, ok := v.slot.Get()
	return as[T](raw), ok
}

// Set assigns next and invokes every listener, in registration order,
// before returning. Writing a value equal (==, on the dynamic value) to
// the current one is a no-op: no listener runs. A panicking listener is
// reported through the Reporter and does not stop the remaining
// listeners or corrupt the value.
func (v *Value[T]) Set(next T) {
	v.slot.Set(next)
}

// OnChange registers fn to run on every distinct write, with the new and
// previous values. When the first write fills an empty value, prev is
// T's zero value. Listeners cannot be removed: they fire for the life of
// the value.
func (v *Value[T]) OnChange(fn func(next, prev T)) {
	v.slot.Listen(func(next, prev any) {
		fn(as[T](next), as[T](prev))
	})
}

func reportListenerPanic(recovered any) {
	report(fmt.Errorf("%w: %v", ErrListenerPanic, recovered))
}
