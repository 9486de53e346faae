package combat

import (
	"github.com/uogo/server/internal/data"
	"github.com/uogo/server/internal/world"
)

// BaselineEffects is the default effect collaborator: flat damage or
// healing scaled by circle. Seventh-circle-and-up harmful spells splash
// half-strength damage onto mobiles adjacent to the target. Spell
// scripts replace this when attached.
type BaselineEffects struct {
	ws *world.State
}

func NewBaselineEffects(ws *world.State) BaselineEffects {
	return BaselineEffects{ws: ws}
}

func (e BaselineEffects) ApplyEffect(caster, target *world.Mobile, spell *data.SpellInfo) {
	if !spell.Harmful {
		target.Heal(spell.Circle * 3)
		return
	}
	target.Damage(spell.Circle * 4)
	if spell.Circle < 7 {
		return
	}
	for _, id := range e.ws.Nearby(target.X, target.Y, target.MapID) {
		if id == target.ID || id == caster.ID {
			continue
		}
		mb := e.ws.Get(id)
		if !mb.Alive() || !e.ws.InRange(target, mb, 1) {
			continue
		}
		mb.Damage(spell.Circle * 2)
	}
}

func (e BaselineEffects) HasReflection(*world.Mobile) bool { return false }
