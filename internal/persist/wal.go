package persist

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WALEntry is one wager write-ahead log entry. Every escrow movement
// (debit on challenge, refund on decline/timeout, payout on settlement)
// is logged before the gold moves, so a crash between settlement steps
// can be reconciled at startup.
type WALEntry struct {
	Op     string // "escrow", "refund", "payout"
	DuelID uuid.UUID
	CharID int32
	Amount int64
}

type WagerWAL struct {
	db  *DB
	log *zap.Logger
}

func NewWagerWAL(db *DB, log *zap.Logger) *WagerWAL {
	return &WagerWAL{db: db, log: log}
}

// Record implements duel.Ledger. The write happens on the game loop; a
// failed write is logged and the gold movement proceeds regardless —
// losing a ledger line is recoverable, stalling the simulation is not.
func (w *WagerWAL) Record(op string, ref uuid.UUID, charID int32, amount int64) {
	if err := w.Write(context.Background(), WALEntry{
		Op:     op,
		DuelID: ref,
		CharID: charID,
		Amount: amount,
	}); err != nil {
		w.log.Error("wager wal write failed",
			zap.String("op", op),
			zap.Int32("char", charID),
			zap.Error(err),
		)
	}
}

// Write appends one entry.
func (w *WagerWAL) Write(ctx context.Context, e WALEntry) error {
	var duelID any
	if e.DuelID != uuid.Nil {
		duelID = e.DuelID.String()
	}
	if _, err := w.db.Pool.Exec(ctx,
		`INSERT INTO wager_wal (op, duel_id, char_id, amount)
		 VALUES ($1, $2, $3, $4)`,
		e.Op, duelID, e.CharID, e.Amount,
	); err != nil {
		return fmt.Errorf("wager wal insert: %w", err)
	}
	return nil
}

// Unreconciled returns entries whose gold movement may not have landed
// before a crash: escrow debits with neither a matching refund nor a
// settled duel. Called once at startup, before the game loop begins.
func (w *WagerWAL) Unreconciled(ctx context.Context) ([]WALEntry, error) {
	rows, err := w.db.Pool.Query(ctx,
		`SELECT e.op, COALESCE(e.duel_id::text, ''), e.char_id, e.amount
		 FROM wager_wal e
		 WHERE e.op = 'escrow'
		   AND NOT EXISTS (
		     SELECT 1 FROM wager_wal r
		     WHERE r.char_id = e.char_id
		       AND r.op IN ('refund', 'payout')
		       AND r.id > e.id)`)
	if err != nil {
		return nil, fmt.Errorf("wager wal query: %w", err)
	}
	defer rows.Close()

	var out []WALEntry
	for rows.Next() {
		var e WALEntry
		var duelID string
		if err := rows.Scan(&e.Op, &duelID, &e.CharID, &e.Amount); err != nil {
			return nil, fmt.Errorf("wager wal scan: %w", err)
		}
		if duelID != "" {
			if id, perr := uuid.Parse(duelID); perr == nil {
				e.DuelID = id
			}
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("wager wal rows: %w", err)
	}
	return out, nil
}
