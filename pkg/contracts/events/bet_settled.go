package events

// Evento publicado no tópico "bet_settled" após o commit da liquidação.
type BetSettled struct {
	BetID        int64   `json:"bet_id"`
	UserID       string  `json:"user_id"`
	MatchLabel   string  `json:"match_label"`
	Selection    string  `json:"selection"`
	StakeCents   int64   `json:"stake_cents"`
	Odds         float64 `json:"odds"`
	Win          bool    `json:"win"`
	ProfitCents  int64   `json:"profit_cents"`
	BalanceCents int64   `json:"balance_cents"` // saldo após a liquidação
	TsUnixMs     int64   `json:"ts_unix_ms"`
}
