package repository

import (
	"context"
	"database/sql"

	"github.com/gfmeireles/sportsbook-core/pkg/contracts/events"
)

// PostgresRepo persiste a trilha de auditoria das liquidações
type PostgresRepo struct {
	DB *sql.DB
}

// NewPostgresRepo retorna uma instância de repositório Postgres
func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{DB: db}
}

// InsertAudit grava uma linha de auditoria por evento bet_settled
// ON CONFLICT ignora reentrega do mesmo evento (consumo at-least-once)
func (r *PostgresRepo) InsertAudit(ctx context.Context, e events.BetSettled) error {
	const q = `
		INSERT INTO bet_audit
		  (bet_id, user_id, match_label, selection, stake_cents, odds, win, profit_cents, balance_cents, settled_at_ms)
		VALUES
		  ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (bet_id) DO NOTHING
	`
	_, err := r.DB.ExecContext(ctx, q,
		e.BetID, e.UserID, e.MatchLabel, e.Selection,
		e.StakeCents, e.Odds, e.Win, e.ProfitCents, e.BalanceCents, e.TsUnixMs,
	)
	return err
}
