package facile

import (
	"sync"
	"time"
)

// Scheduler supplies the four host timing capabilities a Registry
// consumes: schedule a repeating or one-shot callback and get back a
// cancellable handle, plus the kind-matched cancellations.
// Implementations must never hand out the same handle twice.
type Scheduler interface {
	// Repeat runs fn approximately every interval until cancelled.
	Repeat(interval time.Duration, fn func()) ID

	// Once runs fn a single time, no earlier than delay from now.
	Once(delay time.Duration, fn func()) ID

	// CancelRepeat stops a repeating schedule. Unknown handles are
	// ignored.
	CancelRepeat(id ID)

	// CancelOnce stops a pending one-shot. Unknown handles are ignored.
	CancelOnce(id ID)
}

// clock is the real-time Scheduler. Repeating schedules use fixed
// intervals: the next run is armed as soon as the previous one fires.
type clock struct {
	mu     sync.Mutex
	timers map[ID]*clockTimer
	nextID ID
}

type clockTimer struct {
	interval time.Duration // 0 = one-shot
	stop     func() bool   // time.Timer.Stop
}

// NewClock returns the Scheduler a zero Config selects, backed by
// time.AfterFunc.
func NewClock() Scheduler {
	return &clock{timers: make(map[ID]*clockTimer)}
}

func (c *clock) Repeat(interval time.Duration, fn func()) ID {
	return c.schedule(interval, interval, fn)
}

func (c *clock) Once(delay time.Duration, fn func()) ID {
	return c.schedule(delay, 0, fn)
}

func (c *clock) schedule(d, interval time.Duration, fn func()) ID {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID

	t := time.AfterFunc(d, func() { c.fire(id, fn) })
	c.timers[id] = &clockTimer{interval: interval, stop: t.Stop}

	return id
}

func (c *clock) fire(id ID, fn func()) {
	c.mu.Lock()
	t, ok := c.timers[id]
	if !ok {
		c.mu.Unlock()
		return // cancelled before firing
	}

	if t.interval > 0 {
		next := time.AfterFunc(t.interval, func() { c.fire(id, fn) })
		t.stop = next.Stop
	} else {
		delete(c.timers, id)
	}
	c.mu.Unlock()

	fn()
}

func (c *clock) CancelRepeat(id ID) { c.cancel(id) }

// CancelOnce collapses to the same operation as CancelRepeat here:
// time.Timer.Stop covers both kinds.
func (c *clock) CancelOnce(id ID) { c.cancel(id) }

func (c *clock) cancel(id ID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t, ok := c.timers[id]; ok {
		t.stop()
		delete(c.timers, id)
	}
}
