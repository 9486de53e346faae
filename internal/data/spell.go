package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ReagentReq is one reagent requirement of a spell.
type ReagentReq struct {
	ItemID int32
	Count  int
}

// SpellInfo holds casting parameters for one spell.
type SpellInfo struct {
	SpellID     int32
	Name        string
	Circle      int          // 1-8, drives default delay when cast_delay_ms is 0
	ManaCost    int
	CastDelayMs int          // 0 = derive from circle
	Range       int32        // max target distance in tiles
	Reagents    []ReagentReq
	Reflectable bool         // effect can be bounced by target reflection
	Harmful     bool
}

// CastDelay returns the effective cast delay in milliseconds.
// Spells with an explicit delay use it; otherwise 250ms + 250ms per circle,
// so a circle-1 spell delays 500ms and a circle-8 spell 2250ms.
func (s *SpellInfo) CastDelay() int {
	if s.CastDelayMs > 0 {
		return s.CastDelayMs
	}
	return 250 + s.Circle*250
}

// SpellTable is the spell lookup table, key = spell_id.
type SpellTable struct {
	spells map[int32]*SpellInfo
}

// Get returns the spell for spell_id, or nil when unknown.
func (t *SpellTable) Get(spellID int32) *SpellInfo {
	if t == nil {
		return nil
	}
	return t.spells[spellID]
}

func (t *SpellTable) Count() int {
	if t == nil {
		return 0
	}
	return len(t.spells)
}

type reagentEntry struct {
	ItemID int32 `yaml:"item_id"`
	Count  int   `yaml:"count"`
}

type spellEntry struct {
	SpellID     int32          `yaml:"spell_id"`
	Name        string         `yaml:"name"`
	Circle      int            `yaml:"circle"`
	ManaCost    int            `yaml:"mana_cost"`
	CastDelayMs int            `yaml:"cast_delay_ms"`
	Range       int32          `yaml:"range"`
	Reagents    []reagentEntry `yaml:"reagents"`
	Reflectable bool           `yaml:"reflectable"`
	Harmful     bool           `yaml:"harmful"`
}

type spellFile struct {
	Spells []spellEntry `yaml:"spells"`
}

// LoadSpellTable loads spell data from a YAML file.
func LoadSpellTable(path string) (*SpellTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spell table: %w", err)
	}

	var f spellFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse spell table: %w", err)
	}

	t := &SpellTable{spells: make(map[int32]*SpellInfo, len(f.Spells))}
	for i := range f.Spells {
		e := &f.Spells[i]
		if e.Circle < 1 || e.Circle > 8 {
			return nil, fmt.Errorf("spell %d (%s): circle must be 1-8, got %d", e.SpellID, e.Name, e.Circle)
		}
		if e.ManaCost < 0 {
			return nil, fmt.Errorf("spell %d (%s): mana_cost must not be negative", e.SpellID, e.Name)
		}
		info := &SpellInfo{
			SpellID:     e.SpellID,
			Name:        e.Name,
			Circle:      e.Circle,
			ManaCost:    e.ManaCost,
			CastDelayMs: e.CastDelayMs,
			Range:       e.Range,
			Reflectable: e.Reflectable,
			Harmful:     e.Harmful,
		}
		for _, r := range e.Reagents {
			info.Reagents = append(info.Reagents, ReagentReq{ItemID: r.ItemID, Count: r.Count})
		}
		t.spells[e.SpellID] = info
	}
	return t, nil
}

// NewSpellTable builds a table from entries directly. Test helper.
func NewSpellTable(infos ...*SpellInfo) *SpellTable {
	t := &SpellTable{spells: make(map[int32]*SpellInfo, len(infos))}
	for _, s := range infos {
		t.spells[s.SpellID] = s
	}
	return t
}
