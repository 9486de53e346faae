package system

import (
	"time"

	"github.com/uogo/server/internal/core/sched"
	coresys "github.com/uogo/server/internal/core/system"
)

// TimerSystem drains due one-shot timers (cast delays, challenge
// timeouts, duel countdowns) onto the game loop. Phase 1 (PreUpdate),
// registered after event dispatch so callbacks see last tick's events
// already delivered.
type TimerSystem struct {
	q *sched.Queue
}

func NewTimerSystem(q *sched.Queue) *TimerSystem {
	return &TimerSystem{q: q}
}

func (s *TimerSystem) Phase() coresys.Phase { return coresys.PhasePreUpdate }

func (s *TimerSystem) Update(_ time.Duration) {
	s.q.RunDue(time.Now())
}
