package settlement

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/gfmeireles/sportsbook-core/internal/ledger"
	"github.com/gfmeireles/sportsbook-core/pkg/contracts/events"
)

// Store define as operações de persistência usadas pela liquidação.
// SettleBet precisa ser atômico: saldo novo + linha de aposta numa única transação.
type Store interface {
	GetAccount(ctx context.Context, userID string) (*ledger.Account, error)
	SettleBet(ctx context.Context, b *ledger.Bet) (betID int64, newBalance int64, err error)
	ListBets(ctx context.Context, userID string) ([]ledger.Bet, error)
}

// Publisher publica o evento bet_settled após o commit
type Publisher interface {
	PublishBetSettled(ctx context.Context, e events.BetSettled) error
}

// PlaceRequest é o pedido de aposta já normalizado (valores em centavos)
type PlaceRequest struct {
	UserID     string
	MatchLabel string
	Selection  string
	StakeCents int64
	Odds       float64
}

// Result é o relatório devolvido ao caller após a liquidação
type Result struct {
	BetID           int64
	Win             bool
	ProfitCents     int64
	NewBalanceCents int64
}

// Engine executa a máquina de estados de liquidação:
// valida -> sorteia desfecho -> calcula lucro -> commita -> reporta
type Engine struct {
	log     *zap.Logger
	store   Store
	outcome OutcomeSource
	publ    Publisher // opcional

	OnSettled func(win bool)      // métricas (counter++)
	OnFailure func(reason string) // métricas por motivo
}

// NewEngine instancia a liquidação de apostas
func NewEngine(log *zap.Logger, store Store, outcome OutcomeSource, publ Publisher) *Engine {
	return &Engine{log: log, store: store, outcome: outcome, publ: publ}
}

const commitRetries = 3

// Teto de odds aceito; acima disso o payout deixa de caber em int64 com folga
const maxOdds = 1000.0

// Place liquida uma aposta. Falhas de validação retornam sem nenhum efeito;
// falha de storage reexecuta a sequência inteira (nunca parcial) até 3 vezes.
func (e *Engine) Place(ctx context.Context, req PlaceRequest) (*Result, error) {
	if req.StakeCents <= 0 {
		e.fail("invalid_stake")
		return nil, fmt.Errorf("%w: stake must be positive", ledger.ErrInvalidStake)
	}
	if req.Odds < 1.0 || req.Odds > maxOdds {
		e.fail("invalid_odds")
		return nil, fmt.Errorf("%w: odds must be between 1.0 and %.0f", ledger.ErrInvalidStake, maxOdds)
	}
	if float64(req.StakeCents)*req.Odds >= float64(math.MaxInt64) {
		e.fail("invalid_stake")
		return nil, fmt.Errorf("%w: stake too large for odds", ledger.ErrInvalidStake)
	}

	var lastErr error
	for attempt := 0; attempt < commitRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(300*attempt) * time.Millisecond)
		}

		res, err := e.settleOnce(ctx, req)
		if err == nil {
			return res, nil
		}
		if isValidation(err) {
			e.fail(failureReason(err))
			return nil, err
		}
		lastErr = err
		e.log.Warn("settlement commit failed, retrying",
			zap.String("userId", req.UserID), zap.Int("attempt", attempt+1), zap.Error(err))
	}

	e.fail("storage")
	return nil, fmt.Errorf("%w: %v", ledger.ErrStorage, lastErr)
}

// settleOnce roda uma passada completa validate -> resolve -> compute -> commit
func (e *Engine) settleOnce(ctx context.Context, req PlaceRequest) (*Result, error) {
	win, err := e.outcome.Draw(ctx)
	if err != nil {
		return nil, err
	}

	profit := profitCents(req.StakeCents, req.Odds, win)

	bet := &ledger.Bet{
		UserID:      req.UserID,
		MatchLabel:  req.MatchLabel,
		Selection:   req.Selection,
		StakeCents:  req.StakeCents,
		Odds:        req.Odds,
		Win:         win,
		ProfitCents: profit,
	}

	betID, newBalance, err := e.store.SettleBet(ctx, bet)
	if err != nil {
		return nil, err
	}

	if e.OnSettled != nil {
		e.OnSettled(win)
	}

	// Publicação é best effort: a transação já foi commitada e não volta atrás
	if e.publ != nil {
		ev := events.BetSettled{
			BetID:        betID,
			UserID:       req.UserID,
			MatchLabel:   req.MatchLabel,
			Selection:    req.Selection,
			StakeCents:   req.StakeCents,
			Odds:         req.Odds,
			Win:          win,
			ProfitCents:  profit,
			BalanceCents: newBalance,
		}
		if perr := e.publ.PublishBetSettled(ctx, ev); perr != nil {
			e.log.Warn("publish bet_settled failed", zap.Int64("betId", betID), zap.Error(perr))
		}
	}

	return &Result{BetID: betID, Win: win, ProfitCents: profit, NewBalanceCents: newBalance}, nil
}

// History retorna as apostas já liquidadas do usuário, mais recentes primeiro
func (e *Engine) History(ctx context.Context, userID string) ([]ledger.Bet, error) {
	if _, err := e.store.GetAccount(ctx, userID); err != nil {
		return nil, err
	}
	return e.store.ListBets(ctx, userID)
}

// profitCents calcula o lucro em centavos: payout - stake na vitória, -stake na derrota
func profitCents(stakeCents int64, odds float64, win bool) int64 {
	if !win {
		return -stakeCents
	}
	payout := int64(math.Round(float64(stakeCents) * odds))
	return payout - stakeCents
}

func (e *Engine) fail(reason string) {
	if e.OnFailure != nil {
		e.OnFailure(reason)
	}
}

// isValidation separa falhas tipadas (sem retry) de falhas de storage (com retry)
func isValidation(err error) bool {
	return errors.Is(err, ledger.ErrNotFound) ||
		errors.Is(err, ledger.ErrInsufficientFunds) ||
		errors.Is(err, ledger.ErrInvalidStake)
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		return "not_found"
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ledger.ErrInvalidStake):
		return "invalid_stake"
	default:
		return "storage"
	}
}
