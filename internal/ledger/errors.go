package ledger

import "errors"

// Taxonomia de falhas do ledger e da liquidação de apostas.
// Sempre retornadas como valores tipados, nunca como panic.
var (
	ErrNotFound          = errors.New("account not found")
	ErrAlreadyExists     = errors.New("account already exists")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidStake      = errors.New("invalid stake")
	ErrStorage           = errors.New("storage failure")
)
