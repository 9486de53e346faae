package system

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/uogo/server/internal/core/event"
)

// Notifier is the presentation collaborator: it renders structured
// lifecycle events to actors. The core emits data only; formatting and
// delivery (client packets, chat, UI) live behind this interface.
type Notifier interface {
	Tell(actorID int32, msg string)
	Broadcast(actorIDs []int32, msg string)
}

// ZapNotifier logs notifications instead of delivering them. Used when
// no client transport is attached (tools, soak tests).
type ZapNotifier struct {
	Log *zap.Logger
}

func (n ZapNotifier) Tell(actorID int32, msg string) {
	n.Log.Info("notify", zap.Int32("actor", actorID), zap.String("msg", msg))
}

func (n ZapNotifier) Broadcast(actorIDs []int32, msg string) {
	for _, id := range actorIDs {
		n.Tell(id, msg)
	}
}

// WireNotifications routes user-visible combat and duel events to the
// notifier. Blocked actions and fizzles reach the initiating actor
// immediately on the next dispatch; operator telemetry stays in logs.
func WireNotifications(bus *event.Bus, n Notifier) {
	event.Subscribe(bus, func(ev event.ActionBlocked) {
		n.Tell(ev.ActorID, fmt.Sprintf("You cannot %s right now: %s.", ev.Action, ev.Reason))
	})
	event.Subscribe(bus, func(ev event.CastFizzled) {
		n.Tell(ev.CasterID, fmt.Sprintf("The spell fizzles: %s.", ev.Reason))
	})
	event.Subscribe(bus, func(ev event.CastInterrupted) {
		n.Tell(ev.CasterID, "Your concentration is broken.")
	})
	event.Subscribe(bus, func(ev event.SpellReflected) {
		n.Tell(ev.CasterID, "Your spell is reflected back at you!")
	})
	event.Subscribe(bus, func(ev event.BandageApplied) {
		n.Tell(ev.ActorID, fmt.Sprintf("You finish applying the bandages (+%d).", ev.Healed))
	})
	event.Subscribe(bus, func(ev event.ChallengeIssued) {
		n.Tell(ev.TargetID, fmt.Sprintf("You have been challenged to a duel (wager %d).", ev.Wager))
	})
	event.Subscribe(bus, func(ev event.ChallengeExpired) {
		n.Tell(ev.InitiatorID, "Your duel challenge went unanswered.")
	})
	event.Subscribe(bus, func(ev event.DuelCountdownTick) {
		n.Broadcast(ev.ParticipantIDs, fmt.Sprintf("%d...", ev.Remaining))
	})
	event.Subscribe(bus, func(ev event.DuelEnded) {
		if ev.WinnerTeam < 0 {
			n.Broadcast(ev.ParticipantIDs, "The duel ends in a draw.")
			return
		}
		n.Broadcast(ev.WinnerIDs, "You are victorious!")
	})
}
