package combat

import (
	"time"

	"github.com/uogo/server/internal/data"
	"github.com/uogo/server/internal/world"
)

// TimingProvider maps an actor plus an equipped implement to its timing
// values. Implementations are pure and deterministic given their inputs,
// never fail (unknown implements resolve to defaults), and are selected
// once at startup.
type TimingProvider interface {
	AttackInterval(m *world.Mobile, weaponID int32) time.Duration
	AnimationHitOffset(weaponID int32) time.Duration
	AnimationDuration(weaponID int32) time.Duration
}

// TimingSnapshot is the full set of timing values for one (actor,
// implement) pair. Immutable once computed; recomputed on demand rather
// than cached, since equipment can change between swings.
type TimingSnapshot struct {
	AttackInterval     time.Duration
	AnimationHitOffset time.Duration
	AnimationDuration  time.Duration
}

// Snapshot computes all timing values for one actor and implement.
func Snapshot(p TimingProvider, m *world.Mobile, weaponID int32) TimingSnapshot {
	return TimingSnapshot{
		AttackInterval:     p.AttackInterval(m, weaponID),
		AnimationHitOffset: p.AnimationHitOffset(weaponID),
		AnimationDuration:  p.AnimationDuration(weaponID),
	}
}

// TableTiming derives intervals from the weapon table, scaled by the
// attacker's dexterity: interval = base * 100 / (100 + dex), so 100 dex
// halves the listed base delay.
type TableTiming struct {
	weapons    *data.WeaponTable
	defaultMs  int
}

func NewTableTiming(weapons *data.WeaponTable, defaultMs int) *TableTiming {
	return &TableTiming{weapons: weapons, defaultMs: defaultMs}
}

func (t *TableTiming) AttackInterval(m *world.Mobile, weaponID int32) time.Duration {
	base := t.defaultMs
	if w := t.weapons.Get(weaponID); w != nil {
		base = w.BaseDelayMs
	}
	dex := 0
	if m != nil {
		dex = m.Dex
	}
	if dex < 0 {
		dex = 0
	}
	ms := base * 100 / (100 + dex)
	return time.Duration(ms) * time.Millisecond
}

func (t *TableTiming) AnimationHitOffset(weaponID int32) time.Duration {
	if w := t.weapons.Get(weaponID); w != nil {
		return time.Duration(w.HitOffsetMs) * time.Millisecond
	}
	return time.Duration(t.defaultMs/4) * time.Millisecond
}

func (t *TableTiming) AnimationDuration(weaponID int32) time.Duration {
	if w := t.weapons.Get(weaponID); w != nil {
		return time.Duration(w.DurationMs) * time.Millisecond
	}
	return time.Duration(t.defaultMs/2) * time.Millisecond
}

// LegacyTiming reproduces the classic speed formula: the interval in
// seconds is 15000 / ((dex + 100) * speed), where speed is the weapon's
// speed rating. It ignores the table's base delay on purpose; servers
// that ran the old formula keep identical swing rates by selecting this
// provider in config.
type LegacyTiming struct {
	weapons   *data.WeaponTable
	defaultMs int
}

func NewLegacyTiming(weapons *data.WeaponTable, defaultMs int) *LegacyTiming {
	return &LegacyTiming{weapons: weapons, defaultMs: defaultMs}
}

func (t *LegacyTiming) AttackInterval(m *world.Mobile, weaponID int32) time.Duration {
	w := t.weapons.Get(weaponID)
	if w == nil || w.Speed <= 0 {
		return time.Duration(t.defaultMs) * time.Millisecond
	}
	dex := 0
	if m != nil && m.Dex > 0 {
		dex = m.Dex
	}
	ms := 15000 * 1000 / ((dex + 100) * w.Speed)
	if ms < 250 {
		ms = 250 // swing rate floor, matches the original cap
	}
	return time.Duration(ms) * time.Millisecond
}

func (t *LegacyTiming) AnimationHitOffset(weaponID int32) time.Duration {
	if w := t.weapons.Get(weaponID); w != nil {
		return time.Duration(w.HitOffsetMs) * time.Millisecond
	}
	return time.Duration(t.defaultMs/4) * time.Millisecond
}

func (t *LegacyTiming) AnimationDuration(weaponID int32) time.Duration {
	if w := t.weapons.Get(weaponID); w != nil {
		return time.Duration(w.DurationMs) * time.Millisecond
	}
	return time.Duration(t.defaultMs/2) * time.Millisecond
}
