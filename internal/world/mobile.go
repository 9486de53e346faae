package world

// Mobile is one combat-capable actor: a player or NPC the timing engine
// can schedule. Fields are mutated only from the game loop goroutine.
type Mobile struct {
	ID   int32
	Name string

	Dead    bool
	Deleted bool // removed from the world; references may still be held by timers

	HP    int16
	MaxHP int16
	Mana  int16
	MaxMana int16

	Dex  int
	Gold int64

	Fame  int
	Karma int

	Weapon    int32 // equipped weapon item_id, 0 = wrestling
	Combatant int32 // current swing target, 0 = none

	Reagents map[int32]int

	Skills map[string]int // skill name → value (0-1000)

	X, Y  int32
	MapID int16
}

// Alive reports whether the mobile can act. Nil-safe: timer callbacks
// hold IDs, resolve late, and must tolerate deletion.
func (m *Mobile) Alive() bool {
	return m != nil && !m.Dead && !m.Deleted
}

// Skill returns the named skill value, 0 when untrained.
func (m *Mobile) Skill(name string) int {
	if m == nil {
		return 0
	}
	return m.Skills[name]
}

// ConsumeMana deducts cost if available and reports success. Never
// deducts partially.
func (m *Mobile) ConsumeMana(cost int) bool {
	if int(m.Mana) < cost {
		return false
	}
	m.Mana -= int16(cost)
	return true
}

// HasReagents reports whether every requirement can be met.
func (m *Mobile) HasReagents(reqs map[int32]int) bool {
	for id, n := range reqs {
		if m.Reagents[id] < n {
			return false
		}
	}
	return true
}

// ConsumeReagents deducts all requirements, or nothing at all when any
// is short. Reports success.
func (m *Mobile) ConsumeReagents(reqs map[int32]int) bool {
	if !m.HasReagents(reqs) {
		return false
	}
	for id, n := range reqs {
		m.Reagents[id] -= n
	}
	return true
}

// Damage applies damage and reports whether the mobile died from it.
func (m *Mobile) Damage(amount int) bool {
	if !m.Alive() || amount <= 0 {
		return false
	}
	m.HP -= int16(amount)
	if m.HP <= 0 {
		m.HP = 0
		m.Dead = true
		return true
	}
	return false
}

// Heal restores HP up to MaxHP and returns the amount actually healed.
func (m *Mobile) Heal(amount int) int {
	if !m.Alive() || amount <= 0 {
		return 0
	}
	healed := amount
	if int(m.HP)+healed > int(m.MaxHP) {
		healed = int(m.MaxHP) - int(m.HP)
	}
	m.HP += int16(healed)
	return healed
}
