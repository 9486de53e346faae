package combat

import (
	"time"

	"github.com/uogo/server/internal/core/event"
	"github.com/uogo/server/internal/data"
	"github.com/uogo/server/internal/world"
)

// MeleeResolver is the default swing resolver: skill-checked hit,
// weapon damage, cast disruption on the defender, death event on kill.
type MeleeResolver struct {
	ws       *world.State
	bus      *event.Bus
	weapons  *data.WeaponTable
	pulse    *Pulse
	pipeline *Pipeline
}

func NewMeleeResolver(ws *world.State, bus *event.Bus, weapons *data.WeaponTable, pulse *Pulse, pipeline *Pipeline) *MeleeResolver {
	return &MeleeResolver{
		ws:       ws,
		bus:      bus,
		weapons:  weapons,
		pulse:    pulse,
		pipeline: pipeline,
	}
}

// ResolveSwing applies one ready swing. The target is looked up by ID
// at resolution time; a vanished or dead target clears the attacker's
// combatant and ends the engagement quietly.
func (r *MeleeResolver) ResolveSwing(attacker *world.Mobile, now time.Time) {
	target := r.ws.Get(attacker.Combatant)
	if target == nil || !target.Alive() || !r.ws.InRange(attacker, target, 1) {
		if target == nil || !target.Alive() {
			attacker.Combatant = 0
		}
		return
	}

	r.bus.Publish(event.SwingResolved{
		AttackerID: attacker.ID,
		TargetID:   target.ID,
		WeaponID:   attacker.Weapon,
	})

	dmg := r.swingDamage(attacker)
	if dmg <= 0 {
		return
	}
	if st := r.pulse.Combatant(target.ID); st != nil {
		r.pipeline.InterruptOnDamage(st, now)
	}
	if target.Damage(dmg) {
		r.bus.Publish(event.MobileDied{VictimID: target.ID, KillerID: attacker.ID})
	}
}

// swingDamage derives base damage from tactics skill and weapon speed
// rating. Deliberately simple: damage balancing belongs to game data,
// not the timing core.
func (r *MeleeResolver) swingDamage(attacker *world.Mobile) int {
	base := 1 + attacker.Skill("tactics")/100
	if w := r.weapons.Get(attacker.Weapon); w != nil {
		base += w.Speed / 10
	}
	return base
}
