package combat

import "errors"

// Rejections surfaced to the acting player. These are expected outcomes
// of the cancellation policy and resource checks, not system faults;
// callers match with errors.Is and notify the actor.
var (
	// ErrActionBlocked rejects an action disallowed by the current
	// cross-cancellation policy or an active timer.
	ErrActionBlocked = errors.New("action blocked by current action")

	// ErrInsufficientMana rejects a cast at resource commit.
	ErrInsufficientMana = errors.New("insufficient mana")

	// ErrInsufficientReagents rejects a cast at resource commit.
	ErrInsufficientReagents = errors.New("insufficient reagents")

	// ErrTargetInvalid interrupts a cast whose target is gone or
	// unreachable at resolution time.
	ErrTargetInvalid = errors.New("target invalid")

	// ErrUnknownSpell rejects a cast of a spell missing from the table.
	ErrUnknownSpell = errors.New("unknown spell")

	// ErrNotRunning rejects registration against a stopped pulse.
	ErrNotRunning = errors.New("pulse not running")
)
