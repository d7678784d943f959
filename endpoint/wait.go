package endpoint

import (
	"sync"
	"time"
)

// waitGroup fans out a broadcast-style wakeup to every goroutine
// blocked in WaitURIs, without requiring them to poll. It is a thin
// channel-based stand-in for a condition variable: wake replaces the
// channel so every prior waiter observes a close.
type waitGroup struct {
	mu   sync.Mutex
	wake chan struct{}
}

func (w *waitGroup) init() { w.wake = make(chan struct{}) }

func (w *waitGroup) current() chan struct{} {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.wake
}

func (w *waitGroup) wakeUp() {
	w.mu.Lock()
	close(w.wake)
	w.wake = make(chan struct{})
	w.mu.Unlock()
}

func (w *waitGroup) cancelAll() { w.wakeUp() }

// InfiniteTimeout is the sentinel value meaning "no timeout":
// WaitURIs blocks until every uri resolves, with no deadline.
const InfiniteTimeout = time.Duration(-1)

// WaitURIs blocks the caller until every uri in uris resolves to an id
// in the Registry, or timeout elapses (ErrTimeout), or the Endpoint is
// destroyed (ErrTimeout as well, since destruction cancels pending
// waits.)
func (e *Endpoint) WaitURIs(uris []string, timeout time.Duration) error {
	var deadline <-chan time.Time
	if timeout >= 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	for {
		if e.allURIsResolved(uris) {
			return nil
		}
		woken := e.wait.current()
		select {
		case <-woken:
			continue
		case <-deadline:
			return ErrTimeout
		case <-e.stopCh:
			return ErrTimeout
		}
	}
}

func (e *Endpoint) allURIsResolved(uris []string) bool {
	for _, u := range uris {
		if _, ok := e.registry.FindByURI(u); !ok {
			return false
		}
	}
	return true
}
