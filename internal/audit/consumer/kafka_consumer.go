package consumer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/gfmeireles/sportsbook-core/internal/audit/repository"
	skafka "github.com/gfmeireles/sportsbook-core/internal/shared/kafka"
	"github.com/gfmeireles/sportsbook-core/pkg/contracts/events"
)

// Auditor consome eventos bet_settled e grava a trilha de auditoria
// Callbacks de métricas podem ser usadas para monitoramento de cada etapa
type Auditor struct {
	Log    *zap.Logger
	Reader *kafka.Reader
	Repo   *repository.PostgresRepo
	DLQ    *kafka.Writer // opcional

	OnConsumed func()       // métricas (counter++)
	OnPersist  func()       // métricas
	OnError    func(string) // métricas por fase
}

// Run inicia o loop principal de consumo e persistência
func (a *Auditor) Run(ctx context.Context) error {
	for {
		m, err := a.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err() // encerra se o contexto for cancelado
			}
			a.Log.Warn("kafka read failed", zap.Error(err))
			if a.OnError != nil {
				a.OnError("read")
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}

		if a.OnConsumed != nil {
			a.OnConsumed()
		}

		var ev events.BetSettled
		if err := json.Unmarshal(m.Value, &ev); err != nil {
			a.Log.Warn("invalid message", zap.Error(err))
			if a.OnError != nil {
				a.OnError("decode")
			}
			continue
		}

		if err := a.persistWithRetry(ctx, ev); err != nil {
			a.Log.Error("audit insert failed", zap.Int64("betId", ev.BetID), zap.Error(err))
			if a.OnError != nil {
				a.OnError("db_insert")
			}
			if a.DLQ != nil {
				_ = skafka.WriteJSON(ctx, a.DLQ, ev.UserID, m.Value)
			}
			continue
		}
		if a.OnPersist != nil {
			a.OnPersist()
		}
	}
}

// persistWithRetry tenta gravar a linha de auditoria até 3 vezes com backoff
func (a *Auditor) persistWithRetry(ctx context.Context, ev events.BetSettled) error {
	var err error
	for i := 0; i < 3; i++ {
		if err = a.Repo.InsertAudit(ctx, ev); err == nil {
			return nil
		}
		time.Sleep(time.Duration(300*(i+1)) * time.Millisecond)
	}
	return err
}
