package ledger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gfmeireles/sportsbook-core/internal/ledger"
	"github.com/gfmeireles/sportsbook-core/internal/ledger/repo"
)

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("new account gets configured starting balance", func(t *testing.T) {
		svc := ledger.NewService(repo.NewMemory(), 10000)
		if err := svc.Register(ctx, "alice", "s3cret"); err != nil {
			t.Fatalf("register: %v", err)
		}
		bal, err := svc.Balance(ctx, "alice")
		if err != nil {
			t.Fatalf("balance: %v", err)
		}
		if bal != 10000 {
			t.Errorf("expected starting balance 10000, got %d", bal)
		}
	})

	t.Run("duplicate userId fails and keeps the original untouched", func(t *testing.T) {
		svc := ledger.NewService(repo.NewMemory(), 500)
		if err := svc.Register(ctx, "alice", "first"); err != nil {
			t.Fatalf("register: %v", err)
		}
		err := svc.Register(ctx, "alice", "second")
		if !errors.Is(err, ledger.ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
		// credencial original continua válida
		if _, err := svc.Authenticate(ctx, "alice", "first"); err != nil {
			t.Errorf("original credential broken: %v", err)
		}
		bal, _ := svc.Balance(ctx, "alice")
		if bal != 500 {
			t.Errorf("original balance changed: %d", bal)
		}
	})

	t.Run("empty credentials rejected", func(t *testing.T) {
		svc := ledger.NewService(repo.NewMemory(), 0)
		if err := svc.Register(ctx, "", "pw"); err == nil {
			t.Error("expected error for empty userId")
		}
		if err := svc.Register(ctx, "bob", ""); err == nil {
			t.Error("expected error for empty password")
		}
	})

	t.Run("plaintext password is never stored", func(t *testing.T) {
		store := repo.NewMemory()
		svc := ledger.NewService(store, 0)
		if err := svc.Register(ctx, "alice", "s3cret"); err != nil {
			t.Fatalf("register: %v", err)
		}
		acc, err := store.GetAccount(ctx, "alice")
		if err != nil {
			t.Fatalf("get account: %v", err)
		}
		if acc.CredentialHash == "s3cret" || acc.CredentialHash == "" {
			t.Errorf("credential stored in plaintext or empty: %q", acc.CredentialHash)
		}
	})
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc := ledger.NewService(repo.NewMemory(), 2500)
	if err := svc.Register(ctx, "alice", "s3cret"); err != nil {
		t.Fatalf("register: %v", err)
	}

	t.Run("valid credentials return the account", func(t *testing.T) {
		acc, err := svc.Authenticate(ctx, "alice", "s3cret")
		if err != nil {
			t.Fatalf("authenticate: %v", err)
		}
		if acc.UserID != "alice" || acc.BalanceCents != 2500 {
			t.Errorf("unexpected account: %+v", acc)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "alice", "nope")
		if !errors.Is(err, ledger.ErrInvalidCredential) {
			t.Errorf("expected ErrInvalidCredential, got %v", err)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "ghost", "s3cret")
		if !errors.Is(err, ledger.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestAdjust(t *testing.T) {
	ctx := context.Background()

	newSvc := func(t *testing.T, initial int64) *ledger.Service {
		t.Helper()
		svc := ledger.NewService(repo.NewMemory(), initial)
		if err := svc.Register(ctx, "alice", "pw"); err != nil {
			t.Fatalf("register: %v", err)
		}
		return svc
	}

	t.Run("credit increases balance", func(t *testing.T) {
		svc := newSvc(t, 0)
		bal, err := svc.Adjust(ctx, "alice", 5000, ledger.Credit)
		if err != nil {
			t.Fatalf("credit: %v", err)
		}
		if bal != 5000 {
			t.Errorf("expected 5000, got %d", bal)
		}
	})

	t.Run("debit within balance", func(t *testing.T) {
		svc := newSvc(t, 5000)
		bal, err := svc.Adjust(ctx, "alice", 2000, ledger.Debit)
		if err != nil {
			t.Fatalf("debit: %v", err)
		}
		if bal != 3000 {
			t.Errorf("expected 3000, got %d", bal)
		}
	})

	t.Run("debit above balance fails with no partial debit", func(t *testing.T) {
		svc := newSvc(t, 1000)
		_, err := svc.Adjust(ctx, "alice", 1001, ledger.Debit)
		if !errors.Is(err, ledger.ErrInsufficientFunds) {
			t.Fatalf("expected ErrInsufficientFunds, got %v", err)
		}
		bal, _ := svc.Balance(ctx, "alice")
		if bal != 1000 {
			t.Errorf("balance changed on failed debit: %d", bal)
		}
	})

	t.Run("debit of exactly the balance succeeds", func(t *testing.T) {
		svc := newSvc(t, 1000)
		bal, err := svc.Adjust(ctx, "alice", 1000, ledger.Debit)
		if err != nil {
			t.Fatalf("debit: %v", err)
		}
		if bal != 0 {
			t.Errorf("expected 0, got %d", bal)
		}
	})

	t.Run("non positive amount rejected", func(t *testing.T) {
		svc := newSvc(t, 1000)
		if _, err := svc.Adjust(ctx, "alice", 0, ledger.Credit); err == nil {
			t.Error("expected error for zero amount")
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		svc := newSvc(t, 1000)
		_, err := svc.Adjust(ctx, "ghost", 100, ledger.Credit)
		if !errors.Is(err, ledger.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}
