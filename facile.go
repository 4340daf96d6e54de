// Package facile holds the stateful core of the facile toolkit: a
// watched value primitive ([Value]) that broadcasts every distinct write
// to its listeners, and a registry of named repeating and one-shot
// timers ([Registry]).
//
// Misuse never raises: operations return booleans or the [None] sentinel
// and the detail goes to the [Reporter] side channel.
package facile

import (
	"sync"
	"time"
)

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the process-wide Registry backing the package-level
// timer functions. Code that needs an isolated lifecycle, tests in
// particular, should construct its own with NewRegistry.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultReg = NewRegistry(Config{})
	})

	return defaultReg
}

// Every schedules a repeating timer on the default registry.
func Every(interval time.Duration, name string, fn func()) ID {
	return Default().Every(interval, name, fn)
}

// After schedules a one-shot timer on the default registry.
func After(delay time.Duration, name string, fn func()) ID {
	return Default().After(delay, name, fn)
}

// Stop cancels a timer on the default registry by ID.
func Stop(id ID) bool {
	return Default().Stop(id)
}

// StopName cancels the oldest timer with the given name on the default
// registry.
func StopName(name string) bool {
	return Default().StopName(name)
}

// StopAll cancels every timer on the default registry.
func StopAll() {
	Default().StopAll()
}
