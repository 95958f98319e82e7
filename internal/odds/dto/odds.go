package dto

// MarketOdds é a forma normalizada de uma cotação vinda do provider externo.
// O payload bruto do provider varia por integração e nunca vaza pra fora daqui.
type MarketOdds struct {
	EventID    string  `json:"eventId"`
	MatchLabel string  `json:"matchLabel"` // ex: "India v Australia"
	Selection  string  `json:"selection"`  // ex: "India"
	Odd        float64 `json:"odd"`        // multiplicador decimal >= 1.0
}
