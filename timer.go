package facile

import (
	"fmt"
	"slices"
	"sync"
	"time"
)

// ID identifies a live timer. IDs are assigned by the Scheduler and
// never reused for the life of the process.
type ID int

// None is the sentinel returned when no timer could be created. It never
// collides with a valid ID.
const None ID = -1

// Kind distinguishes repeating timers from one-shot timers.
type Kind int

const (
	Repeating Kind = iota
	OneShot
)

type timerEntry struct {
	id   ID
	name string
	kind Kind
}

// Config carries the collaborators of a Registry. The zero value selects
// the real-time scheduler and the process-wide reporter.
type Config struct {
	// Scheduler supplies the host timing primitives. Nil selects
	// NewClock().
	Scheduler Scheduler

	// Report receives the registry's warnings and recovered callback
	// panics. Nil selects the reporter installed with SetReporter.
	Report Reporter
}

// Registry tracks every live timer it created, addressable by ID or by
// an optional caller-chosen name. Names need not be unique: lookups
// resolve to the oldest entry with that name.
type Registry struct {
	mu       sync.Mutex
	sched    Scheduler
	reportFn Reporter
	entries  []timerEntry
}

// NewRegistry creates an empty registry.
func NewRegistry(cfg Config) *Registry {
	if cfg.Scheduler == nil {
		cfg.Scheduler = NewClock()
	}

	return &Registry{sched: cfg.Scheduler, reportFn: cfg.Report}
}

// Every schedules fn to run repeatedly, approximately every interval,
// until stopped. name is optional: "" registers the timer unnamed.
//
// The interval is floored to whole milliseconds and its sign then
// dropped; if nothing remains the call reports ErrInvalidInterval and
// returns None without creating a timer.
func (r *Registry) Every(interval time.Duration, name string, fn func()) ID {
	d, ok := normalize(interval)
	if !ok {
		r.warn(fmt.Errorf("%w: %v", ErrInvalidInterval, interval))
		return None
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var id ID
	id = r.sched.Repeat(d, func() { r.fireRepeating(&id, fn) })
	r.entries = append(r.entries, timerEntry{id: id, name: name, kind: Repeating})

	return id
}

// After schedules fn to run once, no earlier than delay from now, and
// returns the timer's ID before fn can fire. The entry removes itself
// exactly once when fn runs, whether fn returns or panics; a panic is
// recovered and reported. Validation and naming follow Every.
func (r *Registry) After(delay time.Duration, name string, fn func()) ID {
	d, ok := normalize(delay)
	if !ok {
		r.warn(fmt.Errorf("%w: %v", ErrInvalidInterval, delay))
		return None
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var id ID
	id = r.sched.Once(d, func() { r.fireOnce(&id, fn) })
	r.entries = append(r.entries, timerEntry{id: id, name: name, kind: OneShot})

	return id
}

// Stop cancels the timer with the given id and reports whether a live
// timer was found. A one-shot that already fired has removed itself, so
// stopping it behaves exactly like stopping an unknown id: an
// ErrTimerNotFound report and false.
func (r *Registry) Stop(id ID) bool {
	r.mu.Lock()
	i := r.index(id)
	if i < 0 {
		r.mu.Unlock()
		r.warn(fmt.Errorf("%w: id %d", ErrTimerNotFound, id))
		return false
	}

	e := r.entries[i]
	r.entries = slices.Delete(r.entries, i, i+1)
	r.mu.Unlock()

	r.cancel(e)
	return true
}

// StopName cancels the first timer registered under name, in insertion
// order, and reports whether one was found. When two timers share a name
// the oldest one is stopped. "" never matches: unnamed timers can only
// be stopped by ID.
func (r *Registry) StopName(name string) bool {
	r.mu.Lock()
	i := -1
	if name != "" {
		i = slices.IndexFunc(r.entries, func(e timerEntry) bool { return e.name == name })
	}
	if i < 0 {
		r.mu.Unlock()
		r.warn(fmt.Errorf("%w: name %q", ErrTimerNotFound, name))
		return false
	}

	e := r.entries[i]
	r.entries = slices.Delete(r.entries, i, i+1)
	r.mu.Unlock()

	r.cancel(e)
	return true
}

// StopAll cancels every live timer and empties the registry.
func (r *Registry) StopAll() {
	r.mu.Lock()
	entries := r.entries
	r.entries = nil
	r.mu.Unlock()

	for _, e := range entries {
		r.cancel(e)
	}
}

// Len reports the number of live timers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// fireRepeating runs a repeating timer's callback if the timer is still
// registered. The host may fire one last time after a cancellation.
func (r *Registry) fireRepeating(id *ID, fn func()) {
	r.mu.Lock()
	live := r.index(*id) >= 0
	r.mu.Unlock()
	if !live {
		return
	}

	defer r.recoverTimer()
	fn()
}

// fireOnce runs a one-shot callback and removes its entry exactly once,
// as its final action, on both the normal and the panicking exit path.
func (r *Registry) fireOnce(id *ID, fn func()) {
	r.mu.Lock()
	h := *id
	live := r.index(h) >= 0
	r.mu.Unlock()
	if !live {
		return
	}

	defer func() {
		r.remove(h)
		if p := recover(); p != nil {
			r.warn(fmt.Errorf("%w: %v", ErrTimerPanic, p))
		}
	}()
	fn()
}

func (r *Registry) recoverTimer() {
	if p := recover(); p != nil {
		r.warn(fmt.Errorf("%w: %v", ErrTimerPanic, p))
	}
}

func (r *Registry) remove(id ID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i := r.index(id); i >= 0 {
		r.entries = slices.Delete(r.entries, i, i+1)
	}
}

// index must be called with r.mu held.
func (r *Registry) index(id ID) int {
	return slices.IndexFunc(r.entries, func(e timerEntry) bool { return e.id == id })
}

func (r *Registry) cancel(e timerEntry) {
	switch e.kind {
	case Repeating:
		r.sched.CancelRepeat(e.id)
	case OneShot:
		r.sched.CancelOnce(e.id)
	}
}

func (r *Registry) warn(err error) {
	if r.reportFn != nil {
		r.reportFn(err)
		return
	}

	report(err)
}

// normalize floors the duration to whole milliseconds and then drops
// the sign: -5ms comes back as a valid 5ms, and -500µs floors to -1ms
// and comes back as 1ms, while +500µs floors to zero and is rejected.
func normalize(d time.Duration) (time.Duration, bool) {
	ms := d / time.Millisecond
	if d < 0 && d%time.Millisecond != 0 {
		ms-- // floor toward negative infinity, not toward zero
	}
	if ms < 0 {
		ms = -ms
	}
	if ms <= 0 {
		return 0, false
	}

	return ms * time.Millisecond, true
}
