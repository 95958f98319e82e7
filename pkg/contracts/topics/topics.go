package topics

const (
	// Bets
	BetSettled = "bet_settled"

	// DLQs
	BetSettledDLQ = "bet_settled_dlq"
)
