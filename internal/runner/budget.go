package runner

import (
	"time"

	"github.com/torosent/goku/internal/config"
)

// budget hands out iteration numbers until the worker's workload is spent.
type budget interface {
	next() (iteration int, ok bool)
}

type iterationBudget struct {
	issued int
	limit  int
}

func (b *iterationBudget) next() (int, bool) {
	if b.issued >= b.limit {
		return 0, false
	}
	i := b.issued
	b.issued++
	return i, true
}

type deadlineBudget struct {
	issued   int
	deadline time.Time
	now      func() time.Time
}

func (b *deadlineBudget) next() (int, bool) {
	if !b.now().Before(b.deadline) {
		return 0, false
	}
	i := b.issued
	b.issued++
	return i, true
}

// newBudget starts a worker's budget. Deadlines are measured from this call,
// so each worker gets the full duration from its own start.
func newBudget(s *config.Settings) budget {
	term := s.Termination()
	if term.Mode == config.ByDuration {
		return &deadlineBudget{deadline: time.Now().Add(term.Duration), now: time.Now}
	}
	return &iterationBudget{limit: s.RequestsPerClient()}
}
