package ledger

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Store define as operações de persistência de contas usadas pelo serviço.
// A implementação Postgres vive em ledger/repo; testes usam o fake em memória.
type Store interface {
	CreateAccount(ctx context.Context, userID, credentialHash string, initialCents int64) error
	GetAccount(ctx context.Context, userID string) (*Account, error)
	Adjust(ctx context.Context, userID string, amountCents int64, dir Direction) (newBalance int64, err error)
}

// Service implementa o ledger de contas: registro, autenticação e ajustes de saldo
type Service struct {
	store               Store
	defaultBalanceCents int64
}

// NewService instancia o serviço com o saldo inicial de contas novas
func NewService(store Store, defaultBalanceCents int64) *Service {
	return &Service{store: store, defaultBalanceCents: defaultBalanceCents}
}

// Register cria uma conta nova guardando apenas o hash bcrypt da senha
func (s *Service) Register(ctx context.Context, userID, password string) error {
	if userID == "" || password == "" {
		return fmt.Errorf("%w: userId and password required", ErrInvalidCredential)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.store.CreateAccount(ctx, userID, string(hash), s.defaultBalanceCents)
}

// Authenticate valida as credenciais e retorna a conta
// Distingue usuário inexistente de senha errada (contrato da API ilustrativa)
func (s *Service) Authenticate(ctx context.Context, userID, password string) (*Account, error) {
	a, err := s.store.GetAccount(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(a.CredentialHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredential
	}

	return a, nil
}

// Balance retorna o saldo atual em centavos
func (s *Service) Balance(ctx context.Context, userID string) (int64, error) {
	a, err := s.store.GetAccount(ctx, userID)
	if err != nil {
		return 0, err
	}
	return a.BalanceCents, nil
}

// Adjust aplica crédito ou débito manual (endpoint administrativo)
func (s *Service) Adjust(ctx context.Context, userID string, amountCents int64, dir Direction) (int64, error) {
	if amountCents <= 0 {
		return 0, fmt.Errorf("%w: amount must be positive", ErrInvalidStake)
	}
	return s.store.Adjust(ctx, userID, amountCents, dir)
}
