package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gfmeireles/sportsbook-core/internal/odds/dto"
)

// Client consome a API de mercados do provider de odds (estilo Sportbex/Betfair).
// A chamada é somente leitura e limitada por timeout; falha aqui nunca
// toca o estado do ledger.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func New(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: 2 * time.Second},
	}
}

// market espelha o payload bruto do provider; específico dessa integração
type market struct {
	MarketID string `json:"marketId"`
	Event    struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"event"`
	Runners []struct {
		RunnerName      string  `json:"runnerName"`
		LastPriceTraded float64 `json:"lastPriceTraded"`
	} `json:"runners"`
}

// FetchMarkets busca os mercados de um esporte/competição e normaliza
// o payload em MarketOdds. Odds fora de faixa (< 1.0) são descartadas.
func (c *Client) FetchMarkets(ctx context.Context, sportID, competitionID string) ([]dto.MarketOdds, error) {
	url := fmt.Sprintf("%s/api/betfair/markets/%s/%s", c.BaseURL, sportID, competitionID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("sportbex-api-key", c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return nil, fmt.Errorf("odds provider http %d", res.StatusCode)
	}

	var raw []market
	if err := json.NewDecoder(res.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode provider payload: %w", err)
	}

	var out []dto.MarketOdds
	for _, m := range raw {
		for _, r := range m.Runners {
			if r.LastPriceTraded < 1.0 {
				continue
			}
			out = append(out, dto.MarketOdds{
				EventID:    m.Event.ID,
				MatchLabel: m.Event.Name,
				Selection:  r.RunnerName,
				Odd:        r.LastPriceTraded,
			})
		}
	}
	return out, nil
}
