package combat

import (
	"time"

	"go.uber.org/zap"

	"github.com/uogo/server/internal/core/event"
	"github.com/uogo/server/internal/core/sched"
	"github.com/uogo/server/internal/data"
	"github.com/uogo/server/internal/world"
)

// Effects is the spell-effect collaborator: the pipeline owns timing,
// resource commitment and validation; what the spell actually does is
// delegated here.
type Effects interface {
	ApplyEffect(caster, target *world.Mobile, spell *data.SpellInfo)
	HasReflection(target *world.Mobile) bool
}

// CastState tracks one cast through the pipeline.
type CastState int

const (
	CastAwaitingTarget CastState = iota
	CastResourceCommit
	CastDelaying
	CastResolving
	CastApplied
	CastFizzled
	CastInterrupted
)

func (s CastState) String() string {
	switch s {
	case CastAwaitingTarget:
		return "awaiting_target"
	case CastResourceCommit:
		return "resource_commit"
	case CastDelaying:
		return "delaying"
	case CastResolving:
		return "resolving"
	case CastApplied:
		return "applied"
	case CastFizzled:
		return "fizzled"
	case CastInterrupted:
		return "interrupted"
	}
	return "unknown"
}

// Cast is one in-flight spell cast, exclusively owned by the caster's
// TimingState. The target is held as an ID, never a pointer: the target
// may be deleted mid-delay and is re-validated at resolution.
type Cast struct {
	pipeline *Pipeline
	owner    *TimingState
	spell    *data.SpellInfo

	state     CastState
	committed bool
	targetID  int32
	timer     *sched.Timer
	resolveAt time.Time
}

// State returns the cast's current pipeline state.
func (c *Cast) State() CastState { return c.state }

// Spell returns the spell being cast.
func (c *Cast) Spell() *data.SpellInfo { return c.spell }

// Terminal reports whether the cast has finished, for any value of
// finished.
func (c *Cast) Terminal() bool {
	return c.state == CastApplied || c.state == CastFizzled || c.state == CastInterrupted
}

// Interrupt cancels the cast: damage, a competing action, death or
// removal. Idempotent — interrupting a terminal cast is a no-op.
// Committed resources are not refunded beyond the partial-mana policy.
func (c *Cast) Interrupt(now time.Time) {
	if c == nil || c.Terminal() {
		return
	}
	if c.timer != nil {
		c.timer.Cancel()
		c.timer = nil
	}
	c.state = CastInterrupted
	c.publishInterrupted("concentration broken")
}

// refundPartialMana returns the policy's share of committed mana.
// With the default PartialManaPct of 0, everything spent stays spent.
func (c *Cast) refundPartialMana() {
	if !c.committed || c.pipeline.policy.PartialManaPct <= 0 {
		return
	}
	back := c.spell.ManaCost * c.pipeline.policy.PartialManaPct / 100
	c.owner.Mob.Mana += int16(back)
	if c.owner.Mob.Mana > c.owner.Mob.MaxMana {
		c.owner.Mob.Mana = c.owner.Mob.MaxMana
	}
}

// Pipeline orchestrates spell casts: target confirmation, resource
// commitment, delay, re-validation and effect application. One instance
// serves all casters; per-cast state lives in Cast descriptors.
type Pipeline struct {
	log     *zap.Logger
	bus     *event.Bus
	ws      *world.State
	q       *sched.Queue
	effects Effects
	policy  Policy
}

func NewPipeline(log *zap.Logger, bus *event.Bus, ws *world.State, q *sched.Queue, effects Effects, policy Policy) *Pipeline {
	return &Pipeline{
		log:     log,
		bus:     bus,
		ws:      ws,
		q:       q,
		effects: effects,
		policy:  policy,
	}
}

// Begin starts a cast in AwaitingTarget. A pending swing either blocks
// the cast or is cancelled, per policy; a previous in-flight cast is
// always interrupted first — casts are strictly sequential per caster.
func (p *Pipeline) Begin(st *TimingState, spell *data.SpellInfo, now time.Time) (*Cast, error) {
	if spell == nil {
		return nil, ErrUnknownSpell
	}
	if !st.Mob.Alive() {
		return nil, ErrActionBlocked
	}
	if st.swingSet && !st.policy.IndependentTimers && !st.policy.SpellCancelSwing {
		p.bus.Publish(event.ActionBlocked{
			ActorID: st.Mob.ID,
			Action:  ActionCast.String(),
			Reason:  "swing pending",
		})
		return nil, ErrActionBlocked
	}
	if prev := st.ActiveCast(); prev != nil {
		prev.Interrupt(now)
	}
	if st.policy.SpellCancelSwing {
		st.Cancel(ActionSwing, now)
	}
	if st.policy.ActionsBreakBandage {
		st.Cancel(ActionBandage, now)
	}

	c := &Cast{
		pipeline: p,
		owner:    st,
		spell:    spell,
		state:    CastAwaitingTarget,
	}
	st.activeCast = c
	st.lastAction = now
	return c, nil
}

// ConfirmTarget moves the cast through resource commit into its delay.
// Mana and reagents are validated together and deducted exactly once,
// here — insufficient either way fizzles with no partial consumption
// and no delay timer ever scheduled.
func (p *Pipeline) ConfirmTarget(c *Cast, targetID int32, now time.Time) error {
	if c == nil || c.state != CastAwaitingTarget {
		return ErrActionBlocked
	}
	caster := c.owner.Mob
	if !caster.Alive() {
		c.Interrupt(now)
		return ErrActionBlocked
	}

	c.state = CastResourceCommit
	c.targetID = targetID

	reqs := make(map[int32]int, len(c.spell.Reagents))
	for _, r := range c.spell.Reagents {
		reqs[r.ItemID] = r.Count
	}
	if int(caster.Mana) < c.spell.ManaCost {
		p.fizzle(c, "insufficient mana")
		return ErrInsufficientMana
	}
	if !caster.HasReagents(reqs) {
		p.fizzle(c, "insufficient reagents")
		return ErrInsufficientReagents
	}
	caster.ConsumeMana(c.spell.ManaCost)
	caster.ConsumeReagents(reqs)
	c.committed = true

	delay := time.Duration(c.spell.CastDelay()) * time.Millisecond
	c.state = CastDelaying
	c.resolveAt = now.Add(delay)
	c.owner.lastAction = now
	p.bus.Publish(event.CastBegun{
		CasterID: caster.ID,
		SpellID:  c.spell.SpellID,
		Delay:    delay,
	})
	if delay <= 0 {
		p.resolve(c, now)
		return nil
	}
	c.timer = p.q.After(now, delay, func(fireNow time.Time) {
		p.resolve(c, fireNow)
	})
	return nil
}

// resolve runs on delay expiry: re-validate liveness, reach and line of
// sight, consult reflection, then apply the effect.
func (p *Pipeline) resolve(c *Cast, now time.Time) {
	if c.state != CastDelaying {
		return
	}
	c.state = CastResolving
	c.timer = nil

	caster := c.owner.Mob
	if !caster.Alive() {
		c.state = CastInterrupted
		c.publishInterrupted("caster dead")
		return
	}
	target := p.ws.Get(c.targetID)
	if target == nil || !target.Alive() {
		c.state = CastInterrupted
		c.publishInterrupted(ErrTargetInvalid.Error())
		return
	}
	if !p.ws.InRange(caster, target, c.spell.Range) || !p.ws.LineOfSight(caster, target) {
		c.state = CastInterrupted
		c.publishInterrupted("target unreachable")
		return
	}

	if c.spell.Harmful && c.spell.Reflectable && p.effects.HasReflection(target) {
		p.bus.Publish(event.SpellReflected{
			CasterID: caster.ID,
			TargetID: target.ID,
			SpellID:  c.spell.SpellID,
		})
		target = caster
	}
	wasAlive := target.Alive()
	p.effects.ApplyEffect(caster, target, c.spell)
	if wasAlive && target.Dead {
		p.bus.Publish(event.MobileDied{VictimID: target.ID, KillerID: caster.ID})
	}
	c.state = CastApplied
}

// publishInterrupted applies the partial-mana policy and reports the
// interruption. The state transition is the caller's.
func (c *Cast) publishInterrupted(reason string) {
	c.refundPartialMana()
	c.pipeline.bus.Publish(event.CastInterrupted{
		CasterID: c.owner.Mob.ID,
		SpellID:  c.spell.SpellID,
		Reason:   reason,
	})
}

// fizzle terminates a cast before commitment completed.
func (p *Pipeline) fizzle(c *Cast, reason string) {
	c.state = CastFizzled
	p.bus.Publish(event.CastFizzled{
		CasterID: c.owner.Mob.ID,
		SpellID:  c.spell.SpellID,
		Reason:   reason,
	})
}

// InterruptOnDamage breaks an active cast when its owner takes damage.
// No-op when the actor is not casting.
func (p *Pipeline) InterruptOnDamage(st *TimingState, now time.Time) {
	if st == nil {
		return
	}
	if c := st.ActiveCast(); c != nil {
		c.Interrupt(now)
	}
}
