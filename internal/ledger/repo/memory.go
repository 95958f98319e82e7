package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gfmeireles/sportsbook-core/internal/ledger"
)

// Memory é um store em memória com a mesma semântica do Postgres,
// usado em testes e em execução local sem banco.
// O mutex serializa o read-modify-write por store, o que cobre a
// exigência de serialização por conta.
type Memory struct {
	mu       sync.Mutex
	accounts map[string]*ledger.Account
	bets     []ledger.Bet
	nextBet  int64
}

// NewMemory retorna um store em memória vazio
func NewMemory() *Memory {
	return &Memory{
		accounts: make(map[string]*ledger.Account),
		nextBet:  1,
	}
}

func (m *Memory) CreateAccount(_ context.Context, userID, credentialHash string, initialCents int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[userID]; ok {
		return ledger.ErrAlreadyExists
	}
	m.accounts[userID] = &ledger.Account{
		UserID:         userID,
		CredentialHash: credentialHash,
		BalanceCents:   initialCents,
		CreatedAt:      time.Now().UTC(),
	}
	return nil
}

func (m *Memory) GetAccount(_ context.Context, userID string) (*ledger.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[userID]
	if !ok {
		return nil, ledger.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *Memory) Adjust(_ context.Context, userID string, amountCents int64, dir ledger.Direction) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[userID]
	if !ok {
		return 0, ledger.ErrNotFound
	}
	if dir == ledger.Debit {
		if amountCents > a.BalanceCents {
			return 0, ledger.ErrInsufficientFunds
		}
		a.BalanceCents -= amountCents
	} else {
		a.BalanceCents += amountCents
	}
	return a.BalanceCents, nil
}

func (m *Memory) SettleBet(_ context.Context, b *ledger.Bet) (int64, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[b.UserID]
	if !ok {
		return 0, 0, ledger.ErrNotFound
	}
	if b.StakeCents > a.BalanceCents {
		return 0, 0, ledger.ErrInsufficientFunds
	}

	a.BalanceCents += b.ProfitCents

	rec := *b
	rec.ID = m.nextBet
	rec.CreatedAt = time.Now().UTC()
	m.nextBet++
	m.bets = append(m.bets, rec)

	return rec.ID, a.BalanceCents, nil
}

func (m *Memory) ListBets(_ context.Context, userID string) ([]ledger.Bet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ledger.Bet
	for _, b := range m.bets {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}
