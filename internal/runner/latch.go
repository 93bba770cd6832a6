package runner

import (
	"sync"
	"sync/atomic"
)

// Latch is a one-way cancellation flag shared by every worker of a run.
// Once set it stays set. A nil *Latch is never set.
type Latch struct {
	set  atomic.Bool
	once sync.Once
	done chan struct{}
}

func NewLatch() *Latch {
	return &Latch{done: make(chan struct{})}
}

// Set latches the flag and wakes every goroutine waiting on Done.
// It is safe to call from a signal handler goroutine and more than once.
func (l *Latch) Set() {
	if l == nil {
		return
	}
	l.once.Do(func() {
		l.set.Store(true)
		close(l.done)
	})
}

func (l *Latch) IsSet() bool {
	return l != nil && l.set.Load()
}

// Done returns a channel closed when the latch is set. For a nil latch it
// returns nil, which blocks forever in a select.
func (l *Latch) Done() <-chan struct{} {
	if l == nil {
		return nil
	}
	return l.done
}
