package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/gfmeireles/sportsbook-core/internal/audit/consumer"
	"github.com/gfmeireles/sportsbook-core/internal/audit/repository"
	"github.com/gfmeireles/sportsbook-core/internal/shared/config"
	"github.com/gfmeireles/sportsbook-core/internal/shared/db"
	skafka "github.com/gfmeireles/sportsbook-core/internal/shared/kafka"
	"github.com/gfmeireles/sportsbook-core/internal/shared/logger"
	"github.com/gfmeireles/sportsbook-core/internal/shared/metrics"
)

// Métricas Prometheus do worker de auditoria
var (
	auditConsumed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "audit_events_consumed_total",
		Help: "Eventos bet_settled consumidos",
	})
	auditPersisted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "audit_rows_persisted_total",
		Help: "Linhas de auditoria gravadas",
	})
	auditErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "audit_errors_total",
		Help: "Erros do worker por fase",
	}, []string{"phase"})
)

func main() {
	cfg := config.Load()
	log, err := logger.New("bet-audit-worker", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	prometheus.MustRegister(auditConsumed, auditPersisted, auditErrors)

	// Postgres: tabela bet_audit
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg connect", zap.Error(err))
	}
	defer pg.Close()

	// Kafka consumer: eventos bet_settled
	reader := skafka.NewReader(cfg.KafkaBrokers, cfg.TopicBetSettled, "bet-audit")
	defer reader.Close()

	var dlqWriter *skafka.Writer
	if cfg.TopicBetSettledDLQ != "" {
		dlqWriter = skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetSettledDLQ)
		defer dlqWriter.Close()
	}

	// Servidor de métricas e healthcheck
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return pg.PingContext(ctx)
	})

	aud := &consumer.Auditor{
		Log:    log,
		Reader: reader,
		Repo:   repository.NewPostgresRepo(pg),
		DLQ:    dlqWriter,

		OnConsumed: func() { auditConsumed.Inc() },
		OnPersist:  func() { auditPersisted.Inc() },
		OnError:    func(phase string) { auditErrors.WithLabelValues(phase).Inc() },
	}

	log.Info("bet-audit-worker started",
		zap.String("consume", cfg.TopicBetSettled),
		zap.String("dlq", cfg.TopicBetSettledDLQ),
	)

	if err := aud.Run(context.Background()); err != nil && err != context.Canceled {
		log.Fatal("auditor stopped", zap.Error(err))
	}
}
