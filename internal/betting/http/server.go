package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/gfmeireles/sportsbook-core/internal/betting/dto"
	"github.com/gfmeireles/sportsbook-core/internal/ledger"
	"github.com/gfmeireles/sportsbook-core/internal/ledger/money"
	odcache "github.com/gfmeireles/sportsbook-core/internal/odds/cache"
	oddto "github.com/gfmeireles/sportsbook-core/internal/odds/dto"
	"github.com/gfmeireles/sportsbook-core/internal/odds/provider"
	"github.com/gfmeireles/sportsbook-core/internal/odds/ws"
	"github.com/gfmeireles/sportsbook-core/internal/settlement"
)

// Server expõe a API pública: contas, apostas, histórico e proxy de odds
type Server struct {
	log      *zap.Logger
	accounts *ledger.Service
	engine   *settlement.Engine
	provider *provider.Client
	odds     *odcache.Cache
	hub      *ws.Hub
}

// NewServer instancia o servidor HTTP do betting-service
func NewServer(log *zap.Logger, accounts *ledger.Service, engine *settlement.Engine, prov *provider.Client, odds *odcache.Cache, hub *ws.Hub) *Server {
	return &Server{log: log, accounts: accounts, engine: engine, provider: prov, odds: odds, hub: hub}
}

// Router retorna o roteador chi com as rotas da API
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(withCORS)

	r.Post("/register", s.register)
	r.Post("/login", s.login)
	r.Get("/balance/{userId}", s.balance)
	r.Post("/admin/balance", s.adminBalance)
	r.Post("/bet", s.placeBet)
	r.Get("/history/{userId}", s.history)
	r.Get("/odds", s.listOdds)
	if s.hub != nil {
		r.Get("/ws", s.hub.HandleWS)
	}

	return r
}

// register cria uma conta nova; a senha nunca é armazenada em claro
func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.MessageResponse{Message: "bad json"})
		return
	}
	if req.UserID == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, dto.MessageResponse{Message: "userId and password required"})
		return
	}

	if err := s.accounts.Register(r.Context(), req.UserID, req.Password); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.MessageResponse{Success: true, Message: "user created"})
}

// login autentica e devolve o resumo da conta com saldo corrente
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.MessageResponse{Message: "bad json"})
		return
	}

	acc, err := s.accounts.Authenticate(r.Context(), req.UserID, req.Password)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.LoginResponse{
		Success: true,
		User:    dto.UserSummary{UserID: acc.UserID, Balance: money.FromCents(acc.BalanceCents)},
	})
}

// balance retorna o saldo atual do usuário
func (s *Server) balance(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	bal, err := s.accounts.Balance(r.Context(), userID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.BalanceResponse{Success: true, Balance: money.FromCents(bal)})
}

// adminBalance aplica crédito ou débito manual no saldo
func (s *Server) adminBalance(w http.ResponseWriter, r *http.Request) {
	var req dto.AdminBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.MessageResponse{Message: "bad json"})
		return
	}
	if req.UserID == "" || req.Amount <= 0 {
		writeJSON(w, http.StatusBadRequest, dto.MessageResponse{Message: "invalid payload"})
		return
	}

	var dir ledger.Direction
	switch req.Type {
	case "credit":
		dir = ledger.Credit
	case "debit":
		dir = ledger.Debit
	default:
		writeJSON(w, http.StatusBadRequest, dto.MessageResponse{Message: "type must be credit or debit"})
		return
	}

	newBal, err := s.accounts.Adjust(r.Context(), req.UserID, money.ToCents(req.Amount), dir)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.AdminBalanceResponse{Success: true, NewBalance: money.FromCents(newBal)})
}

// placeBet roda a liquidação completa e reporta {win, profit, newBalance}
func (s *Server) placeBet(w http.ResponseWriter, r *http.Request) {
	var req dto.PlaceBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.MessageResponse{Message: "bad json"})
		return
	}
	if req.UserID == "" || req.Match == "" || req.Team == "" {
		writeJSON(w, http.StatusBadRequest, dto.MessageResponse{Message: "invalid payload"})
		return
	}

	res, err := s.engine.Place(r.Context(), settlement.PlaceRequest{
		UserID:     req.UserID,
		MatchLabel: req.Match,
		Selection:  req.Team,
		StakeCents: money.ToCents(req.Stake),
		Odds:       req.Odds,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BetResponse{
		Success:    true,
		Win:        res.Win,
		Profit:     money.FromCents(res.ProfitCents),
		NewBalance: money.FromCents(res.NewBalanceCents),
		BetID:      res.BetID,
	})
}

// history retorna as apostas liquidadas do usuário, mais recentes primeiro
func (s *Server) history(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	bets, err := s.engine.History(r.Context(), userID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	out := make([]dto.BetRecord, 0, len(bets))
	for _, b := range bets {
		out = append(out, dto.BetRecord{
			ID:        b.ID,
			Match:     b.MatchLabel,
			Team:      b.Selection,
			Stake:     money.FromCents(b.StakeCents),
			Odds:      b.Odds,
			Win:       b.Win,
			Profit:    money.FromCents(b.ProfitCents),
			CreatedAt: b.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, dto.HistoryResponse{Success: true, History: out})
}

// listOdds retorna as cotações normalizadas do provider, preferencialmente do cache
func (s *Server) listOdds(w http.ResponseWriter, r *http.Request) {
	sportID := r.URL.Query().Get("sportId")
	if sportID == "" {
		sportID = "4"
	}
	compID := r.URL.Query().Get("competitionId")
	if compID == "" {
		compID = "1"
	}

	var markets []oddto.MarketOdds
	if s.odds != nil {
		if ok, _ := s.odds.GetMarkets(r.Context(), sportID, compID, &markets); ok {
			writeJSON(w, http.StatusOK, dto.OddsResponse{Success: true, SportID: sportID, CompetitionID: compID, Markets: markets})
			return
		}
	}

	markets, err := s.provider.FetchMarkets(r.Context(), sportID, compID)
	if err != nil {
		s.log.Warn("provider fetch failed", zap.Error(err))
		writeJSON(w, http.StatusBadGateway, dto.MessageResponse{Message: "odds provider unavailable"})
		return
	}

	if s.odds != nil {
		_ = s.odds.SetMarkets(r.Context(), sportID, compID, markets, 30*time.Second) // salva no cache por 30s
	}
	writeJSON(w, http.StatusOK, dto.OddsResponse{Success: true, SportID: sportID, CompetitionID: compID, Markets: markets})
}

// writeError traduz a taxonomia de falhas em status HTTP + envelope {success:false}
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		writeJSON(w, http.StatusNotFound, dto.MessageResponse{Message: "user not found"})
	case errors.Is(err, ledger.ErrAlreadyExists):
		writeJSON(w, http.StatusConflict, dto.MessageResponse{Message: "user already exists"})
	case errors.Is(err, ledger.ErrInvalidCredential):
		writeJSON(w, http.StatusUnauthorized, dto.MessageResponse{Message: "invalid credentials"})
	case errors.Is(err, ledger.ErrInsufficientFunds):
		writeJSON(w, http.StatusConflict, dto.MessageResponse{Message: "insufficient balance"})
	case errors.Is(err, ledger.ErrInvalidStake):
		writeJSON(w, http.StatusBadRequest, dto.MessageResponse{Message: err.Error()})
	default:
		s.log.Error("internal error", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, dto.MessageResponse{Message: "internal error"})
	}
}

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// withCORS libera origem cruzada pro frontend de demonstração
func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.ServeHTTP(w, r)
	})
}
