package system

import (
	"time"

	"github.com/uogo/server/internal/combat"
	"github.com/uogo/server/internal/core/event"
	"github.com/uogo/server/internal/world"
)

// RemoveActor is the one removal path for a mobile leaving the world
// (disconnect, logout, despawn): pulse roster first so no further swing
// resolves, then the world itself, then the announcement every
// lifecycle subscriber reacts to.
func RemoveActor(ws *world.State, pulse *combat.Pulse, bus *event.Bus, id int32, now time.Time) {
	if st := pulse.Combatant(id); st != nil {
		st.CancelAll(now)
	}
	pulse.UnregisterCombatant(id, now)
	ws.Remove(id)
	bus.Publish(event.MobileRemoved{ActorID: id})
}
