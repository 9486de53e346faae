package duel

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/uogo/server/internal/world"
)

func TestGoldEscrowDebit(t *testing.T) {
	ledger := &fakeLedger{}
	e := NewGoldEscrow(ledger)
	m := &world.Mobile{ID: 1, Gold: 100}
	ref := uuid.New()

	if err := e.Debit(m, 60, ref); err != nil {
		t.Fatalf("Debit: %v", err)
	}
	if m.Gold != 40 {
		t.Fatalf("gold = %d, want 40", m.Gold)
	}
	if err := e.Debit(m, 60, ref); !errors.Is(err, ErrInsufficientGold) {
		t.Fatalf("overdraft Debit = %v, want ErrInsufficientGold", err)
	}
	if m.Gold != 40 {
		t.Fatal("failed debit still moved gold")
	}
	if err := e.Debit(nil, 60, ref); !errors.Is(err, ErrInsufficientGold) {
		t.Fatalf("Debit(nil) = %v, want ErrInsufficientGold", err)
	}

	// zero and negative amounts are no-ops, not errors
	if err := e.Debit(m, 0, ref); err != nil {
		t.Fatalf("Debit(0) = %v", err)
	}
	if len(ledger.entries) != 1 {
		t.Fatalf("ledger entries = %d, want 1 (only the successful debit)", len(ledger.entries))
	}
}

func TestGoldEscrowLedgerWrittenBeforeGoldMoves(t *testing.T) {
	ledger := &fakeLedger{}
	e := NewGoldEscrow(ledger)
	m := &world.Mobile{ID: 7, Gold: 100}
	ref := uuid.New()

	e.Debit(m, 30, ref)
	e.Refund(m, 30, ref)
	e.Payout(m, 60, ref)

	want := []ledgerEntry{
		{op: "escrow", charID: 7, amount: 30},
		{op: "refund", charID: 7, amount: 30},
		{op: "payout", charID: 7, amount: 60},
	}
	if len(ledger.entries) != len(want) {
		t.Fatalf("ledger = %+v, want %d entries", ledger.entries, len(want))
	}
	for i, e := range want {
		if ledger.entries[i] != e {
			t.Fatalf("ledger[%d] = %+v, want %+v", i, ledger.entries[i], e)
		}
	}
	if m.Gold != 160 {
		t.Fatalf("gold = %d, want 160", m.Gold)
	}
}

func TestGoldEscrowNilSafe(t *testing.T) {
	e := NewGoldEscrow(nil) // no ledger
	m := &world.Mobile{ID: 1, Gold: 100}
	if err := e.Debit(m, 10, uuid.Nil); err != nil {
		t.Fatalf("Debit without ledger: %v", err)
	}
	e.Refund(nil, 10, uuid.Nil)
	e.Payout(nil, 10, uuid.Nil)
	e.Refund(m, -5, uuid.Nil)
	if m.Gold != 90 {
		t.Fatalf("gold = %d, want 90", m.Gold)
	}
}

func TestRulesets(t *testing.T) {
	std := StandardRules{}
	if std.AllowPotions() || !std.AllowBandages() {
		t.Fatal("standard rules: no potions, bandages allowed")
	}
	m := &world.Mobile{HP: 10, MaxHP: 100, Mana: 5, MaxMana: 50}
	std.Prepare(m)
	if m.HP != 100 || m.Mana != 50 {
		t.Fatalf("standard Prepare left %d HP / %d mana", m.HP, m.Mana)
	}
	std.Prepare(nil)

	sph := SphereRules{}
	if !sph.AllowPotions() || sph.AllowBandages() {
		t.Fatal("sphere rules: potions allowed, no bandages")
	}
	m2 := &world.Mobile{HP: 10, MaxHP: 100}
	sph.Prepare(m2)
	if m2.HP != 10 {
		t.Fatal("sphere Prepare must not restore")
	}
}
