package dto

import (
	odds "github.com/gfmeireles/sportsbook-core/internal/odds/dto"
)

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type UserSummary struct {
	UserID  string  `json:"userId"`
	Balance float64 `json:"balance"`
}

type LoginResponse struct {
	Success bool        `json:"success"`
	User    UserSummary `json:"user"`
}

type BalanceResponse struct {
	Success bool    `json:"success"`
	Balance float64 `json:"balance"`
}

type AdminBalanceResponse struct {
	Success    bool    `json:"success"`
	NewBalance float64 `json:"newBalance"`
}

type BetResponse struct {
	Success    bool    `json:"success"`
	Win        bool    `json:"win"`
	Profit     float64 `json:"profit"`
	NewBalance float64 `json:"newBalance"`
	BetID      int64   `json:"betId"`
}

type BetRecord struct {
	ID        int64   `json:"id"`
	Match     string  `json:"match"`
	Team      string  `json:"team"`
	Stake     float64 `json:"stake"`
	Odds      float64 `json:"odds"`
	Win       bool    `json:"win"`
	Profit    float64 `json:"profit"`
	CreatedAt string  `json:"createdAt"`
}

type HistoryResponse struct {
	Success bool        `json:"success"`
	History []BetRecord `json:"history"`
}

type OddsResponse struct {
	Success       bool              `json:"success"`
	SportID       string            `json:"sportId"`
	CompetitionID string            `json:"competitionId"`
	Markets       []odds.MarketOdds `json:"markets"`
}
