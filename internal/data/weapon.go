package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// WeaponInfo holds the timing values for one weapon type.
type WeaponInfo struct {
	ItemID       int32  // weapon item_id (primary key)
	Name         string
	Speed        int    // attack speed rating, higher = faster
	BaseDelayMs  int    // base swing interval before dexterity scaling
	HitOffsetMs  int    // animation offset at which the hit lands
	DurationMs   int    // full swing animation length
	TwoHanded    bool
}

// WeaponTable is the weapon timing lookup table, key = item_id.
type WeaponTable struct {
	weapons map[int32]*WeaponInfo
}

// Get returns the weapon for item_id, or nil when unknown. Callers fall
// back to the configured default interval for unknown weapons; lookups
// never fail.
func (t *WeaponTable) Get(itemID int32) *WeaponInfo {
	if t == nil {
		return nil
	}
	return t.weapons[itemID]
}

func (t *WeaponTable) Count() int {
	if t == nil {
		return 0
	}
	return len(t.weapons)
}

type weaponEntry struct {
	ItemID      int32  `yaml:"item_id"`
	Name        string `yaml:"name"`
	Speed       int    `yaml:"speed"`
	BaseDelayMs int    `yaml:"base_delay_ms"`
	HitOffsetMs int    `yaml:"hit_offset_ms"`
	DurationMs  int    `yaml:"duration_ms"`
	TwoHanded   bool   `yaml:"two_handed"`
}

type weaponFile struct {
	Weapons []weaponEntry `yaml:"weapons"`
}

// LoadWeaponTable loads weapon timing data from a YAML file.
func LoadWeaponTable(path string) (*WeaponTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read weapon table: %w", err)
	}

	var f weaponFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse weapon table: %w", err)
	}

	t := &WeaponTable{weapons: make(map[int32]*WeaponInfo, len(f.Weapons))}
	for i := range f.Weapons {
		e := &f.Weapons[i]
		if e.BaseDelayMs <= 0 {
			return nil, fmt.Errorf("weapon %d (%s): base_delay_ms must be positive", e.ItemID, e.Name)
		}
		t.weapons[e.ItemID] = &WeaponInfo{
			ItemID:      e.ItemID,
			Name:        e.Name,
			Speed:       e.Speed,
			BaseDelayMs: e.BaseDelayMs,
			HitOffsetMs: e.HitOffsetMs,
			DurationMs:  e.DurationMs,
			TwoHanded:   e.TwoHanded,
		}
	}
	return t, nil
}

// NewWeaponTable builds a table from entries directly. Test helper.
func NewWeaponTable(infos ...*WeaponInfo) *WeaponTable {
	t := &WeaponTable{weapons: make(map[int32]*WeaponInfo, len(infos))}
	for _, w := range infos {
		t.weapons[w.ItemID] = w
	}
	return t
}
