package facile

import (
	"errors"
	"sync"
	"testing"
)

// reportLog captures everything sent to the reporting channel so tests
// can assert on warning conditions.
type reportLog struct {
	mu   sync.Mutex
	errs []error
}

func (l *reportLog) add(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errs = append(l.errs, err)
}

func (l *reportLog) count(sentinel error) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for _, err := range l.errs {
		if errors.Is(err, sentinel) {
			n++
		}
	}
	return n
}

// captureReports swaps the process-wide reporter for the duration of a
// test and returns the log it writes to.
func captureReports(t *testing.T) *reportLog {
	t.Helper()

	log := &reportLog{}
	SetReporter(log.add)
	t.Cleanup(func() { SetReporter(nil) })

	return log
}
