package repo

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/gfmeireles/sportsbook-core/internal/ledger"
)

// Postgres implementa o store de contas, apostas e journal em banco Postgres
type Postgres struct{ db *sql.DB }

// NewPostgres retorna uma instância do repositório
func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// CreateAccount insere uma conta nova com o saldo inicial configurado
// Retorna ErrAlreadyExists se o userId já estiver em uso
func (p *Postgres) CreateAccount(ctx context.Context, userID, credentialHash string, initialCents int64) error {
	res, err := p.db.ExecContext(ctx, `
		INSERT INTO accounts (user_id, credential_hash, balance_cents)
		VALUES ($1,$2,$3)
		ON CONFLICT (user_id) DO NOTHING`,
		userID, credentialHash, initialCents,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ledger.ErrAlreadyExists
	}
	return nil
}

// GetAccount retorna a conta pelo userId
func (p *Postgres) GetAccount(ctx context.Context, userID string) (*ledger.Account, error) {
	var a ledger.Account
	err := p.db.QueryRowContext(ctx,
		`SELECT user_id, credential_hash, balance_cents, created_at FROM accounts WHERE user_id=$1`,
		userID,
	).Scan(&a.UserID, &a.CredentialHash, &a.BalanceCents, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ledger.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Adjust aplica um crédito ou débito no saldo e registra a operação no journal
// Garante lock pessimista na linha da conta; débito nunca deixa saldo negativo
func (p *Postgres) Adjust(ctx context.Context, userID string, amountCents int64, dir ledger.Direction) (newBalance int64, err error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var balance int64
	err = tx.QueryRowContext(ctx, `SELECT balance_cents FROM accounts WHERE user_id=$1 FOR UPDATE`, userID).Scan(&balance)
	if err == sql.ErrNoRows {
		return 0, ledger.ErrNotFound
	}
	if err != nil {
		return 0, err
	}

	delta := amountCents
	if dir == ledger.Debit {
		if amountCents > balance {
			return 0, ledger.ErrInsufficientFunds
		}
		delta = -amountCents
	}

	if err = tx.QueryRowContext(ctx,
		`UPDATE accounts SET balance_cents = balance_cents + $1 WHERE user_id=$2 RETURNING balance_cents`,
		delta, userID,
	).Scan(&newBalance); err != nil {
		return 0, err
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO account_journal(id, user_id, operation_type, amount_cents, description) VALUES($1,$2,$3,$4,$5)`,
		uuid.NewString(), userID, string(dir), amountCents, "admin:"+string(dir),
	); err != nil {
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return newBalance, nil
}

// SettleBet aplica o resultado de uma aposta como unidade atômica:
// atualiza o saldo e insere a linha de aposta + journal na mesma transação.
// A checagem stake <= saldo acontece dentro do lock pra serializar por conta.
func (p *Postgres) SettleBet(ctx context.Context, b *ledger.Bet) (betID int64, newBalance int64, err error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, err
	}
	defer tx.Rollback()

	var balance int64
	err = tx.QueryRowContext(ctx, `SELECT balance_cents FROM accounts WHERE user_id=$1 FOR UPDATE`, b.UserID).Scan(&balance)
	if err == sql.ErrNoRows {
		return 0, 0, ledger.ErrNotFound
	}
	if err != nil {
		return 0, 0, err
	}

	if b.StakeCents > balance {
		return 0, 0, ledger.ErrInsufficientFunds
	}

	if err = tx.QueryRowContext(ctx,
		`UPDATE accounts SET balance_cents = balance_cents + $1 WHERE user_id=$2 RETURNING balance_cents`,
		b.ProfitCents, b.UserID,
	).Scan(&newBalance); err != nil {
		return 0, 0, err
	}

	if err = tx.QueryRowContext(ctx, `
		INSERT INTO bets (user_id, match_label, selection, stake_cents, odds, win, profit_cents)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id`,
		b.UserID, b.MatchLabel, b.Selection, b.StakeCents, b.Odds, b.Win, b.ProfitCents,
	).Scan(&betID); err != nil {
		return 0, 0, err
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO account_journal(id, user_id, operation_type, amount_cents, description, related_bet_id)
		 VALUES($1,$2,'BET_SETTLE',$3,$4,$5)`,
		uuid.NewString(), b.UserID, b.ProfitCents, "settle:"+b.MatchLabel, betID,
	); err != nil {
		return 0, 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, 0, err
	}
	return betID, newBalance, nil
}

// ListBets retorna o histórico de apostas do usuário, mais recentes primeiro
func (p *Postgres) ListBets(ctx context.Context, userID string) ([]ledger.Bet, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, user_id, match_label, selection, stake_cents, odds, win, profit_cents, created_at
		FROM bets WHERE user_id=$1 ORDER BY id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.Bet
	for rows.Next() {
		var b ledger.Bet
		if err := rows.Scan(&b.ID, &b.UserID, &b.MatchLabel, &b.Selection, &b.StakeCents, &b.Odds, &b.Win, &b.ProfitCents, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
