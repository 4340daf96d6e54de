package internal

import (
	"slices"
	"sync"

	"github.com/petermattis/goid"
)

// Listener receives the new and previous value of a slot. prev is nil
// when the slot was empty before the write.
type Listener func(next, prev any)

// Slot is the untyped core of a watched value: one mutable cell plus an
// ordered listener list. The public API recovers the concrete type at
// the boundary, so in here everything is any.
type Slot struct {
	mu sync.Mutex

	value any
	has   bool

	listeners []Listener

	// dispatch serializes delivery so listeners never interleave across
	// goroutines. dispatchGID marks the goroutine currently draining the
	// queue: a re-entrant write from one of its listeners enqueues and
	// returns instead of deadlocking on dispatch.
	dispatch    sync.Mutex
	dispatchGID int64
	queue       []change

	onPanic func(recovered any)
}

type change struct {
	next, prev any

	// snapshot of the listener list at write time, so a listener
	// registered mid-dispatch never sees the change that was already
	// in flight
	listeners []Listener
}

// NewSlot creates an empty slot. onPanic receives values recovered from
// panicking listeners; it may be nil.
func NewSlot(onPanic func(recovered any)) *Slot {
	return &Slot{onPanic: onPanic}
}

// NewSeededSlot creates a slot already holding initial.
func NewSeededSlot(initial any, onPanic func(recovered any)) *Slot {
	s := NewSlot(onPanic)
	s.value = initial
	s.has = true
	return s
}

// Get returns the current value and whether one has ever been set.
func (s *Slot) Get() (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.has
}

// Listen appends fn to the notification list. There is no removal:
// listeners fire for the life of the slot.
func (s *Slot) Listen(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Set assigns v and notifies every listener in registration order before
// returning. Writing a value equal (==) to the current one is a no-op.
// When called from inside a listener of this same slot, the write is
// queued and delivered by the outer Set once the current round of
// listeners has finished.
func (s *Slot) Set(v any) {
	gid := goid.Get()

	s.mu.Lock()
	if s.has && isEqual(s.value, v) {
		s.mu.Unlock()
		return
	}

	c := change{next: v, listeners: slices.Clone(s.listeners)}
	if s.has {
		c.prev = s.value
	}
	s.value, s.has = v, true
	s.queue = append(s.queue, c)

	if s.dispatchGID == gid {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	s.dispatch.Lock()
	defer s.dispatch.Unlock()

	s.mu.Lock()
	s.dispatchGID = gid
	for len(s.queue) > 0 {
		c := s.queue[0]
		s.queue = s.queue[1:]

		s.mu.Unlock()
		for _, fn := range c.listeners {
			s.invoke(fn, c)
		}
		s.mu.Lock()
	}
	s.dispatchGID = 0
	s.mu.Unlock()
}

// invoke isolates a single listener: a panic is handed to onPanic and
// the remaining listeners still run.
func (s *Slot) invoke(fn Listener, c change) {
	defer func() {
		if r := recover(); r != nil && s.onPanic != nil {
			s.onPanic(r)
		}
	}()

	fn(c.next, c.prev)
}

func isEqual(a, b any) bool {
	return a == b
}
