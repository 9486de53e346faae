package persist

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/uogo/server/internal/duel"
)

// DuelRepo archives completed duels and their participant statistics.
type DuelRepo struct {
	db  *DB
	log *zap.Logger
}

func NewDuelRepo(db *DB, log *zap.Logger) *DuelRepo {
	return &DuelRepo{db: db, log: log}
}

// ArchiveDuel implements duel.Archiver. Runs on the game loop when a
// duel settles; a failed insert is logged, never propagated — losing an
// archive row must not disturb the simulation.
func (r *DuelRepo) ArchiveDuel(rec duel.Record) {
	if err := r.insert(context.Background(), rec); err != nil {
		r.log.Error("duel archive failed",
			zap.String("duel", rec.DuelID.String()),
			zap.Error(err),
		)
	}
}

func (r *DuelRepo) insert(ctx context.Context, rec duel.Record) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("duel archive begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO duels (id, arena, duel_type, ruleset, wager, loot_only, winner_team, duration_ms)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.DuelID.String(), rec.Arena, rec.Type, rec.Ruleset,
		rec.Wager, rec.LootOnly, rec.WinnerTeam, rec.Duration.Milliseconds(),
	); err != nil {
		return fmt.Errorf("duel insert: %w", err)
	}
	for _, p := range rec.Players {
		if _, err := tx.Exec(ctx,
			`INSERT INTO duel_participants (duel_id, char_id, team, kills, deaths, winner)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			rec.DuelID.String(), p.MobileID, p.Team, p.Kills, p.Deaths, p.Winner,
		); err != nil {
			return fmt.Errorf("duel participant insert: %w", err)
		}
	}
	return tx.Commit(ctx)
}
