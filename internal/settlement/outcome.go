package settlement

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// OutcomeSource decide o desfecho de uma aposta.
// É o único ponto não determinístico da liquidação, então fica atrás de
// interface pra permitir fontes determinísticas em teste. Num sistema real
// a fonte seria o resultado oficial da partida.
type OutcomeSource interface {
	Draw(ctx context.Context) (win bool, err error)
}

// CoinFlip sorteia vitória/derrota com probabilidade uniforme 50/50
type CoinFlip struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewCoinFlip cria a fonte de sorteio com seed do relógio
func NewCoinFlip() *CoinFlip {
	return &CoinFlip{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (c *CoinFlip) Draw(_ context.Context) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rng.Intn(2) == 1, nil
}

// FixedOutcome retorna sempre o mesmo desfecho; usada em teste
type FixedOutcome bool

func (f FixedOutcome) Draw(_ context.Context) (bool, error) { return bool(f), nil }
