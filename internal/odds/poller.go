package odds

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/gfmeireles/sportsbook-core/internal/odds/cache"
	"github.com/gfmeireles/sportsbook-core/internal/odds/dto"
	"github.com/gfmeireles/sportsbook-core/internal/odds/provider"
	"github.com/gfmeireles/sportsbook-core/internal/odds/ws"
)

// Poller atualiza periodicamente o cache de odds a partir do provider
// e repassa as cotações novas para os clientes WebSocket inscritos.
// Somente leitura: falha do provider é logada e nada mais.
type Poller struct {
	Log      *zap.Logger
	Client   *provider.Client
	Cache    *cache.Cache
	Hub      *ws.Hub
	SportID  string
	CompID   string
	Interval time.Duration
	CacheTTL time.Duration
}

// Run inicia o loop de polling; encerra quando o contexto for cancelado
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.Log.Info("odds poller stopping")
			return
		case <-ticker.C:
			p.refresh(ctx)
		}
	}
}

// refresh busca as cotações atuais, atualiza o cache e faz o broadcast
func (p *Poller) refresh(ctx context.Context) {
	cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	markets, err := p.Client.FetchMarkets(cctx, p.SportID, p.CompID)
	if err != nil {
		p.Log.Warn("provider fetch failed", zap.Error(err))
		return
	}
	if len(markets) == 0 {
		return
	}

	if err := p.Cache.SetMarkets(cctx, p.SportID, p.CompID, markets, p.CacheTTL); err != nil {
		p.Log.Warn("odds cache set failed", zap.Error(err))
	}

	// agrupa por evento antes do broadcast
	byEvent := make(map[string][]dto.MarketOdds)
	for _, m := range markets {
		byEvent[m.EventID] = append(byEvent[m.EventID], m)
	}
	for eventID, list := range byEvent {
		p.Hub.Broadcast(ws.OddsUpdate{EventID: eventID, Payload: list})
	}
}
