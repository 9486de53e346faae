package system

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"
)

// Loop drives all registered systems at a fixed tick rate on a single
// goroutine. Every piece of mutable game state is touched only from this
// goroutine; timers and event subscribers run here too.
//
// Lifecycle: NewLoop → Register… → Run. Run blocks until the context is
// cancelled or Stop is called. A Loop is single-use.
type Loop struct {
	tick    time.Duration
	log     *zap.Logger
	systems []System
	stop    chan struct{}
	started bool
}

func NewLoop(tick time.Duration, log *zap.Logger) *Loop {
	return &Loop{
		tick: tick,
		log:  log,
		stop: make(chan struct{}),
	}
}

// Register adds a system. Must be called before Run; systems execute in
// phase order, insertion order within a phase.
func (l *Loop) Register(s System) {
	l.systems = append(l.systems, s)
}

// Run executes ticks until ctx is done or Stop is called.
// Each tick uses wall-clock now; slow ticks are never "caught up" by
// running extra ticks, so a stall cannot produce an unbounded backlog.
func (l *Loop) Run(ctx context.Context) {
	l.started = true
	// Stable sort keeps insertion order within each phase.
	sort.SliceStable(l.systems, func(i, j int) bool {
		return l.systems[i].Phase() < l.systems[j].Phase()
	})

	ticker := time.NewTicker(l.tick)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case <-l.stop:
			return
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			l.RunTick(dt)
		}
	}
}

// RunTick executes one full tick. Exposed so tests can advance the
// simulation deterministically without a live ticker.
func (l *Loop) RunTick(dt time.Duration) {
	for _, s := range l.systems {
		s.Update(dt)
	}
}

// Stop terminates Run. Safe to call once from any goroutine.
func (l *Loop) Stop() {
	close(l.stop)
}
