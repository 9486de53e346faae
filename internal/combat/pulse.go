package combat

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/uogo/server/internal/core/event"
	"github.com/uogo/server/internal/core/sched"
	"github.com/uogo/server/internal/world"
)

// Resolver applies a ready swing to the attacker's combatant. The pulse
// owns timing only; hit/miss, damage and death all belong here.
type Resolver interface {
	ResolveSwing(attacker *world.Mobile, now time.Time)
}

// Pulse is the global swing scheduler: one shared clock advancing the
// swing timer of every registered combatant, replacing a timer object
// per actor. Explicit Start/Stop lifecycle; tests build isolated
// instances.
//
// Tick is called from the game loop only. Each tick uses wall-clock now
// and ticks are never replayed to catch up after a stall.
type Pulse struct {
	log      *zap.Logger
	bus      *event.Bus
	q        *sched.Queue
	timing   TimingProvider
	policy   Policy
	resolver Resolver

	tick        time.Duration
	idleTimeout time.Duration

	roster  map[int32]*TimingState
	stats   *tickStats
	running bool
	stopped bool
}

func NewPulse(log *zap.Logger, bus *event.Bus, q *sched.Queue, timing TimingProvider, policy Policy, tick, idleTimeout time.Duration, statWindow int) *Pulse {
	return &Pulse{
		log:         log,
		bus:         bus,
		q:           q,
		timing:      timing,
		policy:      policy,
		tick:        tick,
		idleTimeout: idleTimeout,
		roster:      make(map[int32]*TimingState),
		stats:       newTickStats(statWindow),
	}
}

// SetResolver wires the combat resolver. Filled after construction
// because the resolver needs the pulse to look up timing state.
func (p *Pulse) SetResolver(r Resolver) {
	p.resolver = r
}

// Start moves the scheduler to Running. Starting twice or restarting a
// stopped pulse is an error; the lifecycle is single-use.
func (p *Pulse) Start() error {
	if p.stopped {
		return fmt.Errorf("pulse: restart after stop")
	}
	if p.running {
		return fmt.Errorf("pulse: already running")
	}
	p.running = true
	return nil
}

// Stop halts processing and drops the roster.
func (p *Pulse) Stop(now time.Time) {
	if !p.running {
		return
	}
	p.running = false
	p.stopped = true
	for id, st := range p.roster {
		st.CancelAll(now)
		delete(p.roster, id)
	}
}

// RegisterCombatant adds an actor to the roster, creating its timing
// state lazily. Re-registering returns the existing state untouched.
func (p *Pulse) RegisterCombatant(m *world.Mobile, now time.Time) (*TimingState, error) {
	if !p.running {
		return nil, ErrNotRunning
	}
	if st, ok := p.roster[m.ID]; ok {
		return st, nil
	}
	st := &TimingState{
		Mob:        m,
		policy:     p.policy,
		timing:     p.timing,
		q:          p.q,
		bus:        p.bus,
		lastAction: now,
	}
	p.roster[m.ID] = st
	return st, nil
}

// UnregisterCombatant drops an actor, cancelling all of its timers.
// Unknown IDs are a no-op.
func (p *Pulse) UnregisterCombatant(id int32, now time.Time) {
	st, ok := p.roster[id]
	if !ok {
		return
	}
	st.CancelAll(now)
	delete(p.roster, id)
}

// Combatant returns the timing state for a registered actor, nil when
// not on the roster.
func (p *Pulse) Combatant(id int32) *TimingState {
	return p.roster[id]
}

// Tick advances every registered combatant once. A fault while
// resolving one actor's swing is recovered and logged; the remaining
// actors still process this tick. Iteration order is map order and must
// not be relied on.
func (p *Pulse) Tick(now time.Time) {
	if !p.running {
		return
	}
	started := time.Now()

	var evict []int32
	for id, st := range p.roster {
		p.tickOne(id, st, now)
		if p.idleTimeout > 0 && now.Sub(st.LastAction()) > p.idleTimeout {
			evict = append(evict, id)
		}
	}
	for _, id := range evict {
		st := p.roster[id]
		idle := now.Sub(st.LastAction())
		p.UnregisterCombatant(id, now)
		p.bus.Publish(event.CombatantEvicted{ActorID: id, Idle: idle})
	}

	elapsed := time.Since(started)
	p.stats.record(elapsed)
	if elapsed > p.tick {
		p.stats.throttles++
		p.bus.Publish(event.PulseThrottle{Elapsed: elapsed, Budget: p.tick})
	}
}

// tickOne processes a single combatant with fault isolation: a panic in
// swing resolution is logged as a scheduler fault and the loop goes on.
func (p *Pulse) tickOne(id int32, st *TimingState, now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			p.stats.faults++
			p.log.Error("pulse: combatant tick fault",
				zap.Int32("actor", id),
				zap.Any("panic", r),
			)
		}
	}()

	if !st.Mob.Alive() {
		return
	}
	if !st.IsReady(ActionSwing, now) {
		return
	}
	if st.Mob.Combatant == 0 {
		return
	}
	if p.resolver != nil {
		p.resolver.ResolveSwing(st.Mob, now)
	}
	st.rearmSwing(now)
}

// Metrics returns a point-in-time snapshot of tick statistics.
func (p *Pulse) Metrics() Metrics {
	return p.stats.snapshot(len(p.roster))
}
