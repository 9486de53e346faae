package event

import (
	"time"

	"github.com/google/uuid"
)

// --- Combat timing events (emitted by the pulse and cast pipeline) ---

// SwingResolved is emitted when a combatant's swing timer expires and the
// hit is handed to the combat resolver.
type SwingResolved struct {
	AttackerID int32
	TargetID   int32
	WeaponID   int32
}

// ActionBlocked is emitted when an action request was rejected by the
// cross-cancellation policy. Presentation tells the actor; nothing else
// subscribes.
type ActionBlocked struct {
	ActorID int32
	Action  string // "swing", "cast", "bandage"
	Reason  string
}

// CastBegun is emitted when a cast enters its delay.
type CastBegun struct {
	CasterID int32
	SpellID  int32
	Delay    time.Duration
}

// CastFizzled is emitted when a cast fails after start: insufficient
// resources at commit, or validation failure at resolution.
type CastFizzled struct {
	CasterID int32
	SpellID  int32
	Reason   string
}

// CastInterrupted is emitted when an in-flight cast is cancelled:
// damage, a competing action, caster or target loss, or the target
// moving out of reach. Committed resources are not refunded.
type CastInterrupted struct {
	CasterID int32
	SpellID  int32
	Reason   string
}

// SpellReflected is emitted when the target's reflection redirected the
// effect back onto the caster. Telemetry, not an error.
type SpellReflected struct {
	CasterID int32
	TargetID int32
	SpellID  int32
}

// BandageApplied is emitted when a bandage completes and heals.
type BandageApplied struct {
	ActorID int32
	Healed  int
}

// PulseThrottle is emitted when a single pulse tick exceeded the tick
// period. Ticks are never skipped to catch up; this is operator telemetry.
type PulseThrottle struct {
	Elapsed time.Duration
	Budget  time.Duration
}

// CombatantEvicted is emitted when the pulse drops an idle combatant
// from the roster.
type CombatantEvicted struct {
	ActorID int32
	Idle    time.Duration
}

// --- Death events (consumed by the duel lifecycle) ---

// MobileDied is emitted when any registered actor dies.
type MobileDied struct {
	VictimID int32
	KillerID int32 // 0 when unattributed
}

// MobileRemoved is emitted when an actor is deleted from the world
// (disconnect, logout). Cancels casts, challenges and duel membership.
type MobileRemoved struct {
	ActorID int32
}

// --- Duel lifecycle events ---

// ChallengeIssued is emitted when a duel challenge reaches its target.
type ChallengeIssued struct {
	InitiatorID int32
	TargetID    int32
	Wager       int64
	LootOnly    bool
}

// ChallengeExpired is emitted when a challenge times out unanswered.
// The initiator's escrow has already been refunded when this fires.
type ChallengeExpired struct {
	InitiatorID int32
	TargetID    int32
}

// DuelStateChanged is emitted on every lifecycle transition.
type DuelStateChanged struct {
	DuelID uuid.UUID
	State  string
}

// DuelCountdownTick is emitted once per countdown second (3..2..1).
type DuelCountdownTick struct {
	DuelID         uuid.UUID
	Remaining      int
	ParticipantIDs []int32
}

// DuelEnded is emitted exactly once per duel, on settlement.
// WinnerTeam is -1 for a draw.
type DuelEnded struct {
	DuelID         uuid.UUID
	WinnerTeam     int
	WinnerIDs      []int32
	ParticipantIDs []int32
	Wager          int64
	Duration       time.Duration
}
