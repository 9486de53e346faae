package system

import (
	"time"

	"github.com/uogo/server/internal/core/event"
	"github.com/uogo/server/internal/duel"
)

// WireDuelLifecycle subscribes the duel manager to the death and
// removal events it reacts to. Events dispatch on the game loop, one
// tick after emission, so the manager always observes settled state.
func WireDuelLifecycle(bus *event.Bus, mgr *duel.Manager) {
	event.Subscribe(bus, func(ev event.MobileDied) {
		mgr.OnDeath(ev.VictimID, ev.KillerID, time.Now())
	})
	event.Subscribe(bus, func(ev event.MobileRemoved) {
		mgr.OnRemoved(ev.ActorID, time.Now())
	})
}
