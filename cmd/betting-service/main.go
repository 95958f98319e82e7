package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	bhttp "github.com/gfmeireles/sportsbook-core/internal/betting/http"
	"github.com/gfmeireles/sportsbook-core/internal/ledger"
	lrepo "github.com/gfmeireles/sportsbook-core/internal/ledger/repo"
	"github.com/gfmeireles/sportsbook-core/internal/odds"
	odcache "github.com/gfmeireles/sportsbook-core/internal/odds/cache"
	"github.com/gfmeireles/sportsbook-core/internal/odds/provider"
	"github.com/gfmeireles/sportsbook-core/internal/odds/ws"
	"github.com/gfmeireles/sportsbook-core/internal/settlement"
	sproducer "github.com/gfmeireles/sportsbook-core/internal/settlement/producer"
	"github.com/gfmeireles/sportsbook-core/internal/shared/cache"
	"github.com/gfmeireles/sportsbook-core/internal/shared/config"
	"github.com/gfmeireles/sportsbook-core/internal/shared/db"
	skafka "github.com/gfmeireles/sportsbook-core/internal/shared/kafka"
	"github.com/gfmeireles/sportsbook-core/internal/shared/logger"
)

// Métricas Prometheus da liquidação de apostas
var (
	betsSettled = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bets_settled_total",
		Help: "Apostas liquidadas por resultado",
	}, []string{"result"})
	settlementFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "settlement_failures_total",
		Help: "Falhas de liquidação por motivo",
	}, []string{"reason"})
)

func main() {
	cfg := config.Load()
	log, err := logger.New("betting-service", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Info("starting service", zap.String("env", cfg.Env))

	prometheus.MustRegister(betsSettled, settlementFailures)

	// Postgres: contas, apostas e journal
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	// Redis: cache de odds do provider
	rdb, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}

	// Kafka writer (topic bet_settled)
	writer := skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetSettled)
	defer writer.Close()

	// deps
	store := lrepo.NewPostgres(pg)
	accounts := ledger.NewService(store, cfg.DefaultBalanceCents)
	publ := sproducer.NewKafkaPublisher(writer, cfg.TopicBetSettled)

	engine := settlement.NewEngine(log, store, settlement.NewCoinFlip(), publ)
	engine.OnSettled = func(win bool) {
		result := "loss"
		if win {
			result = "win"
		}
		betsSettled.WithLabelValues(result).Inc()
	}
	engine.OnFailure = func(reason string) {
		settlementFailures.WithLabelValues(reason).Inc()
	}

	// Proxy de odds: provider externo + cache + broadcast WS
	prov := provider.New(cfg.OddsProviderBaseURL, cfg.OddsProviderKey)
	oddsCache := odcache.New(rdb)
	hub := ws.NewHub(func(*http.Request) bool { return true })

	pollCtx, pollCancel := context.WithCancel(context.Background())
	defer pollCancel()
	poller := &odds.Poller{
		Log:      log,
		Client:   prov,
		Cache:    oddsCache,
		Hub:      hub,
		SportID:  "4",
		CompID:   "1",
		Interval: time.Duration(cfg.OddsPollSeconds) * time.Second,
		CacheTTL: 30 * time.Second,
	}
	go poller.Run(pollCtx)

	// HTTP público
	api := bhttp.NewServer(log, accounts, engine, prov, oddsCache, hub)
	apiSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: api.Router(),
	}

	// metrics/health
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsMux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := pg.PingContext(ctx); err != nil {
			http.Error(w, "pg", http.StatusServiceUnavailable)
			return
		}
		if err := rdb.Ping(ctx).Err(); err != nil {
			http.Error(w, "redis", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	go func() {
		addr := fmt.Sprintf(":%s", cfg.MetricsPort)
		log.Info("metrics/health", zap.String("addr", addr))
		_ = http.ListenAndServe(addr, metricsMux)
	}()

	log.Info("betting-service listening", zap.String("addr", apiSrv.Addr))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
