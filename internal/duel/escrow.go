package duel

import (
	"errors"

	"github.com/google/uuid"

	"github.com/uogo/server/internal/world"
)

// ErrInsufficientGold rejects an escrow debit the actor cannot cover.
var ErrInsufficientGold = errors.New("insufficient gold for wager")

// Escrow holds wagered gold between challenge and settlement.
type Escrow interface {
	// Debit takes the wager out of an actor's gold into escrow.
	Debit(m *world.Mobile, amount int64, ref uuid.UUID) error
	// Refund returns a previously debited wager.
	Refund(m *world.Mobile, amount int64, ref uuid.UUID)
	// Payout pays a settlement share to a winner.
	Payout(m *world.Mobile, amount int64, ref uuid.UUID)
}

// Ledger records every escrow movement before it is applied, so a crash
// between settlement steps can be reconciled from the log.
type Ledger interface {
	Record(op string, ref uuid.UUID, charID int32, amount int64)
}

// GoldEscrow is the world-backed escrow: gold moves directly on the
// mobile, with every movement written to the ledger first.
type GoldEscrow struct {
	ledger Ledger
}

func NewGoldEscrow(ledger Ledger) *GoldEscrow {
	return &GoldEscrow{ledger: ledger}
}

func (e *GoldEscrow) Debit(m *world.Mobile, amount int64, ref uuid.UUID) error {
	if amount <= 0 {
		return nil
	}
	if m == nil || m.Gold < amount {
		return ErrInsufficientGold
	}
	if e.ledger != nil {
		e.ledger.Record("escrow", ref, m.ID, amount)
	}
	m.Gold -= amount
	return nil
}

func (e *GoldEscrow) Refund(m *world.Mobile, amount int64, ref uuid.UUID) {
	if amount <= 0 || m == nil {
		return
	}
	if e.ledger != nil {
		e.ledger.Record("refund", ref, m.ID, amount)
	}
	m.Gold += amount
}

func (e *GoldEscrow) Payout(m *world.Mobile, amount int64, ref uuid.UUID) {
	if amount <= 0 || m == nil {
		return
	}
	if e.ledger != nil {
		e.ledger.Record("payout", ref, m.ID, amount)
	}
	m.Gold += amount
}
