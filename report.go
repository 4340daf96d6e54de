package facile

import (
	"errors"
	"log/slog"
	"sync/atomic"
)

// Conditions surfaced through the reporting channel. The package never
// returns or panics with these itself: operations signal failure with
// boolean or sentinel returns and the report carries the detail.
var (
	// ErrInvalidInterval marks an interval or delay that is not positive
	// after normalization. No timer is created.
	ErrInvalidInterval = errors.New("facile: invalid timer interval")

	// ErrTimerNotFound marks a Stop call with no live matching timer.
	ErrTimerNotFound = errors.New("facile: timer not found")

	// ErrListenerPanic marks a change listener that panicked during
	// notification.
	ErrListenerPanic = errors.New("facile: listener panicked")

	// ErrTimerPanic marks a timer callback that panicked when fired.
	ErrTimerPanic = errors.New("facile: timer callback panicked")
)

// Reporter receives every warning and recovered panic the package would
// otherwise have to raise. Reports wrap one of the Err sentinels, so
// errors.Is distinguishes them.
type Reporter func(error)

var reporter atomic.Value // Reporter

func init() {
	reporter.Store(Reporter(slogReporter))
}

// SetReporter replaces the process-wide reporter. Passing nil restores
// the default, which logs at Warn level through slog.
func SetReporter(r Reporter) {
	if r == nil {
		r = slogReporter
	}
	reporter.Store(r)
}

func slogReporter(err error) {
	slog.Warn(err.Error())
}

func report(err error) {
	reporter.Load().(Reporter)(err)
}
