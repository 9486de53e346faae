package duel

import "github.com/uogo/server/internal/world"

// Ruleset is the pluggable behavior set applied to a duel context.
// Alternate mechanics are composed in, not inherited: a context holds
// exactly one ruleset chosen at creation.
type Ruleset interface {
	Name() string
	// AllowPotions reports whether drinking during the fight is legal.
	AllowPotions() bool
	// AllowBandages reports whether bandaging during the fight is legal.
	AllowBandages() bool
	// Prepare readies one participant when the countdown expires.
	Prepare(m *world.Mobile)
}

// StandardRules is the default duel ruleset: full restore on entry, no
// potions, bandages allowed.
type StandardRules struct{}

func (StandardRules) Name() string        { return "standard" }
func (StandardRules) AllowPotions() bool  { return false }
func (StandardRules) AllowBandages() bool { return true }

func (StandardRules) Prepare(m *world.Mobile) {
	if m == nil {
		return
	}
	m.HP = m.MaxHP
	m.Mana = m.MaxMana
}

// SphereRules reproduces Sphere-style duelling: potions legal, no
// bandaging, fighters enter with whatever HP and mana they brought.
type SphereRules struct{}

func (SphereRules) Name() string        { return "sphere" }
func (SphereRules) AllowPotions() bool  { return true }
func (SphereRules) AllowBandages() bool { return false }

func (SphereRules) Prepare(m *world.Mobile) {}
