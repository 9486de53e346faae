package combat

import "github.com/uogo/server/internal/config"

// Policy is the immutable cross-cancellation matrix, snapshotted from
// config at construction. The timing state machines read it and never
// consult config directly, so a policy change requires building a new
// engine — there are no runtime-checked globals.
type Policy struct {
	// IndependentTimers lets swing, cast and bandage timers decay
	// independently. When false, a pending swing blocks a new cast
	// unless SpellCancelSwing converts the block into a cancellation.
	IndependentTimers bool

	// SpellCancelSwing makes starting a cast cancel a pending swing.
	SpellCancelSwing bool

	// SwingCancelSpell makes starting a swing interrupt an active cast.
	SwingCancelSpell bool

	// DisableSwingDuringCast rejects BeginSwing while a cast is active.
	DisableSwingDuringCast bool

	// ActionsBreakBandage makes swing and cast cancel an active bandage.
	// Bandaging itself never blocks other actions.
	ActionsBreakBandage bool

	// PartialManaPct is the percentage of the committed mana cost
	// refunded when a cast is interrupted or fizzles after commit.
	// 0 (default) means committed resources are lost outright.
	PartialManaPct int

	// DefaultAttackIntervalMs is the swing interval for implements
	// missing from the weapon table.
	DefaultAttackIntervalMs int

	// BandageBaseMs is the bandage duration before dexterity scaling.
	BandageBaseMs int
}

// PolicyFromConfig snapshots the combat section of the configuration.
func PolicyFromConfig(cfg config.CombatConfig) Policy {
	return Policy{
		IndependentTimers:       cfg.IndependentTimers,
		SpellCancelSwing:        cfg.SpellCancelSwing,
		SwingCancelSpell:        cfg.SwingCancelSpell,
		DisableSwingDuringCast:  cfg.DisableSwingDuringCast,
		ActionsBreakBandage:     cfg.ActionsBreakBandage,
		PartialManaPct:          cfg.PartialManaPct,
		DefaultAttackIntervalMs: cfg.DefaultAttackIntervalMs,
		BandageBaseMs:           cfg.BandageBaseMs,
	}
}
