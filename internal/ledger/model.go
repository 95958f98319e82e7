package ledger

import "time"

// Account é a conta persistida no store.
// O saldo nunca fica negativo; toda mutação passa por transação serializada por conta.
type Account struct {
	UserID         string
	CredentialHash string
	BalanceCents   int64
	CreatedAt      time.Time
}

// Bet é o registro imutável de uma aposta liquidada (append-only).
type Bet struct {
	ID          int64 // BIGSERIAL, monotônico
	UserID      string
	MatchLabel  string
	Selection   string
	StakeCents  int64
	Odds        float64
	Win         bool
	ProfitCents int64 // +stake*(odds-1) na vitória, -stake na derrota
	CreatedAt   time.Time
}

// Direction indica o sentido de um ajuste manual de saldo.
type Direction string

const (
	Credit Direction = "CREDIT"
	Debit  Direction = "DEBIT"
)
