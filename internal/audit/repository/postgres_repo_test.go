package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/gfmeireles/sportsbook-core/pkg/contracts/events"
)

func TestInsertAudit(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	ev := events.BetSettled{
		BetID: 7, UserID: "alice", MatchLabel: "India v Australia", Selection: "India",
		StakeCents: 2000, Odds: 2.0, Win: true, ProfitCents: 2000, BalanceCents: 12000,
		TsUnixMs: 1700000000000,
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO bet_audit")).
		WithArgs(ev.BetID, ev.UserID, ev.MatchLabel, ev.Selection,
			ev.StakeCents, ev.Odds, ev.Win, ev.ProfitCents, ev.BalanceCents, ev.TsUnixMs).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := NewPostgresRepo(db).InsertAudit(context.Background(), ev); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
