package dto

type RegisterRequest struct {
	UserID   string `json:"userId"`
	Password string `json:"password"`
}

type LoginRequest struct {
	UserID   string `json:"userId"`
	Password string `json:"password"`
}

type AdminBalanceRequest struct {
	UserID string  `json:"userId"`
	Amount float64 `json:"amount"` // unidades decimais, convertidas pra centavos na borda
	Type   string  `json:"type"`   // "credit" | "debit"
}

type PlaceBetRequest struct {
	UserID string  `json:"userId"`
	Match  string  `json:"match"` // rótulo livre do evento, ex: "India v Australia"
	Team   string  `json:"team"`  // seleção apostada
	Stake  float64 `json:"stake"`
	Odds   float64 `json:"odds"` // multiplicador decimal que o cliente viu
}
