package data

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadWeaponTable(t *testing.T) {
	tbl, err := LoadWeaponTable("testdata/weapons.yaml")
	if err != nil {
		t.Fatalf("LoadWeaponTable: %v", err)
	}
	if tbl.Count() != 2 {
		t.Fatalf("Count = %d, want 2", tbl.Count())
	}

	dagger := tbl.Get(5040)
	if dagger == nil {
		t.Fatal("dagger missing")
	}
	if dagger.Name != "dagger" || dagger.Speed != 55 || dagger.BaseDelayMs != 2000 {
		t.Fatalf("dagger = %+v", dagger)
	}
	if dagger.TwoHanded {
		t.Fatal("dagger marked two-handed")
	}

	halberd := tbl.Get(5115)
	if halberd == nil || !halberd.TwoHanded || halberd.HitOffsetMs != 1100 {
		t.Fatalf("halberd = %+v", halberd)
	}
	if tbl.Get(9999) != nil {
		t.Fatal("unknown item_id returned an entry")
	}
}

func TestLoadWeaponTableRejectsZeroDelay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "w.yaml")
	body := "weapons:\n  - item_id: 1\n    name: broken\n    base_delay_ms: 0\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadWeaponTable(path); err == nil {
		t.Fatal("zero base_delay_ms accepted")
	}
}

func TestLoadWeaponTableMissingFile(t *testing.T) {
	if _, err := LoadWeaponTable(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("missing file accepted")
	}
}

func TestLoadSpellTable(t *testing.T) {
	tbl, err := LoadSpellTable("testdata/spells.yaml")
	if err != nil {
		t.Fatalf("LoadSpellTable: %v", err)
	}
	if tbl.Count() != 2 {
		t.Fatalf("Count = %d, want 2", tbl.Count())
	}

	fb := tbl.Get(18)
	if fb == nil {
		t.Fatal("fireball missing")
	}
	if fb.Circle != 3 || fb.ManaCost != 9 || !fb.Harmful || !fb.Reflectable {
		t.Fatalf("fireball = %+v", fb)
	}
	if len(fb.Reagents) != 1 || fb.Reagents[0].ItemID != 103 {
		t.Fatalf("fireball reagents = %+v", fb.Reagents)
	}
	// no explicit delay: 250 + 3*250
	if fb.CastDelay() != 1000 {
		t.Fatalf("fireball CastDelay = %d, want 1000", fb.CastDelay())
	}

	fs := tbl.Get(51)
	if fs == nil || fs.CastDelay() != 2000 {
		t.Fatalf("flamestrike = %+v, want explicit 2000ms delay", fs)
	}
	if len(fs.Reagents) != 2 {
		t.Fatalf("flamestrike reagents = %+v", fs.Reagents)
	}
}

func TestLoadSpellTableRejectsBadCircle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	for _, circle := range []string{"0", "9"} {
		body := "spells:\n  - spell_id: 1\n    name: bad\n    circle: " + circle + "\n    mana_cost: 4\n"
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadSpellTable(path); err == nil {
			t.Fatalf("circle %s accepted", circle)
		}
	}
}

func TestLoadSpellTableRejectsNegativeMana(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	body := "spells:\n  - spell_id: 1\n    name: bad\n    circle: 1\n    mana_cost: -1\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSpellTable(path); err == nil {
		t.Fatal("negative mana_cost accepted")
	}
}

func TestNilTablesAreSafe(t *testing.T) {
	var wt *WeaponTable
	if wt.Get(1) != nil || wt.Count() != 0 {
		t.Fatal("nil weapon table not inert")
	}
	var st *SpellTable
	if st.Get(1) != nil || st.Count() != 0 {
		t.Fatal("nil spell table not inert")
	}
}
