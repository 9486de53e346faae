package combat

import (
	"time"

	"github.com/uogo/server/internal/core/event"
	"github.com/uogo/server/internal/core/sched"
	"github.com/uogo/server/internal/world"
)

// ActionKind identifies one of the three independent combat timers.
type ActionKind int

const (
	ActionSwing ActionKind = iota
	ActionCast
	ActionBandage
)

func (k ActionKind) String() string {
	switch k {
	case ActionSwing:
		return "swing"
	case ActionCast:
		return "cast"
	case ActionBandage:
		return "bandage"
	}
	return "unknown"
}

// TimingState is the per-combatant timing state machine: independent
// swing, cast and bandage timers plus the cancellation policy between
// them. One instance per registered actor, created lazily by the pulse
// and dropped on unregister or idle eviction.
//
// Mutated only from the game loop goroutine.
type TimingState struct {
	Mob *world.Mobile

	policy Policy
	timing TimingProvider
	q      *sched.Queue
	bus    *event.Bus

	nextSwingAt   time.Time
	swingSet      bool
	nextBandageAt time.Time
	bandageTimer  *sched.Timer
	activeCast    *Cast
	lastAction    time.Time
}

// BeginSwing arms the swing timer against the equipped implement.
// Rejected with ErrActionBlocked when a cast is active and the policy
// disables swings during casting. When SwingCancelSpell is set the
// active cast is interrupted instead (resource loss stands).
func (st *TimingState) BeginSwing(now time.Time) error {
	if st.castInFlight() {
		if st.policy.DisableSwingDuringCast {
			st.bus.Publish(event.ActionBlocked{
				ActorID: st.Mob.ID,
				Action:  ActionSwing.String(),
				Reason:  "casting",
			})
			return ErrActionBlocked
		}
		if st.policy.SwingCancelSpell {
			st.activeCast.Interrupt(now)
		}
	}
	interval := st.timing.AttackInterval(st.Mob, st.Mob.Weapon)
	st.nextSwingAt = now.Add(interval)
	st.swingSet = true
	st.lastAction = now
	if st.policy.ActionsBreakBandage {
		st.cancelBandage()
	}
	return nil
}

// rearmSwing recomputes the next swing after one resolves. The interval
// is re-derived so weapon or stat changes between swings take effect.
func (st *TimingState) rearmSwing(now time.Time) {
	interval := st.timing.AttackInterval(st.Mob, st.Mob.Weapon)
	st.nextSwingAt = now.Add(interval)
	st.lastAction = now
}

// BeginBandage starts a bandage. Bandaging is independent of swing and
// cast timers: it is only ever blocked by nothing, and only ever broken
// by them when ActionsBreakBandage is set. Restarting while one is in
// progress abandons the first without effect.
func (st *TimingState) BeginBandage(now time.Time) time.Duration {
	st.cancelBandage()
	delay := st.bandageDelay()
	st.nextBandageAt = now.Add(delay)
	st.lastAction = now
	mobID := st.Mob.ID
	st.bandageTimer = st.q.After(now, delay, func(time.Time) {
		st.bandageTimer = nil
		if !st.Mob.Alive() {
			return
		}
		healed := st.Mob.Heal(st.bandageHeal())
		st.bus.Publish(event.BandageApplied{ActorID: mobID, Healed: healed})
	})
	return delay
}

// bandageDelay scales the base duration down with dexterity, floored at
// a quarter of the base so high-dex actors still take meaningful time.
func (st *TimingState) bandageDelay() time.Duration {
	ms := st.policy.BandageBaseMs - 30*st.Mob.Dex
	if min := st.policy.BandageBaseMs / 4; ms < min {
		ms = min
	}
	return time.Duration(ms) * time.Millisecond
}

func (st *TimingState) bandageHeal() int {
	return 1 + st.Mob.Skill("healing")/50
}

// Cancel cancels one action kind. Idempotent: cancelling an action with
// no matching active instance is a no-op, never an error. Safe from any
// timer callback, from eviction and from death handling.
func (st *TimingState) Cancel(kind ActionKind, now time.Time) {
	if st == nil {
		return
	}
	switch kind {
	case ActionSwing:
		st.swingSet = false
	case ActionCast:
		if st.castInFlight() {
			st.activeCast.Interrupt(now)
		}
	case ActionBandage:
		st.cancelBandage()
	}
}

// CancelAll tears down every pending timer. Called on unregister, idle
// eviction and actor removal.
func (st *TimingState) CancelAll(now time.Time) {
	if st == nil {
		return
	}
	st.Cancel(ActionSwing, now)
	st.Cancel(ActionCast, now)
	st.Cancel(ActionBandage, now)
}

func (st *TimingState) cancelBandage() {
	if st.bandageTimer != nil {
		st.bandageTimer.Cancel()
		st.bandageTimer = nil
	}
	st.nextBandageAt = time.Time{}
}

// IsReady is a pure timing check; it never mutates state.
//   - swing: armed and its deadline has passed
//   - cast: no cast in flight
//   - bandage: no bandage in progress, or its completion time passed
func (st *TimingState) IsReady(kind ActionKind, now time.Time) bool {
	switch kind {
	case ActionSwing:
		return st.swingSet && !st.nextSwingAt.After(now)
	case ActionCast:
		return !st.castInFlight()
	case ActionBandage:
		return st.bandageTimer == nil || !st.nextBandageAt.After(now)
	}
	return false
}

// ActiveCast returns the in-flight cast descriptor, nil when idle or
// the last cast reached a terminal state.
func (st *TimingState) ActiveCast() *Cast {
	if st.castInFlight() {
		return st.activeCast
	}
	return nil
}

func (st *TimingState) castInFlight() bool {
	return st.activeCast != nil && !st.activeCast.Terminal()
}

// LastAction returns the timestamp of the most recent action begin,
// used by the pulse for idle eviction.
func (st *TimingState) LastAction() time.Time {
	return st.lastAction
}

// Touch refreshes the idle clock without starting an action.
func (st *TimingState) Touch(now time.Time) {
	st.lastAction = now
}
