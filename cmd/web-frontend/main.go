package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/sports-bet-web/internal/shared/cache"
	"github.com/radieske/sports-bet-web/internal/shared/config"
	"github.com/radieske/sports-bet-web/internal/shared/db"
	"github.com/radieske/sports-bet-web/internal/shared/kafka"
	"github.com/radieske/sports-bet-web/internal/shared/logger"
	"github.com/radieske/sports-bet-web/internal/shared/metrics"
	"github.com/radieske/sports-bet-web/internal/web-frontend/backend"
	"github.com/radieske/sports-bet-web/internal/web-frontend/betslip"
	"github.com/radieske/sports-bet-web/internal/web-frontend/fixtures"
	httpapi "github.com/radieske/sports-bet-web/internal/web-frontend/http"
	"github.com/radieske/sports-bet-web/internal/web-frontend/notify"
	"github.com/radieske/sports-bet-web/internal/web-frontend/oauth"
	"github.com/radieske/sports-bet-web/internal/web-frontend/producer"
	"github.com/radieske/sports-bet-web/internal/web-frontend/repo"
	"github.com/radieske/sports-bet-web/internal/web-frontend/session"
	"github.com/radieske/sports-bet-web/pkg/contracts/events"
)

func main() {
	// carrega config
	cfg := config.Load()

	// inicia logger
	log, err := logger.New(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	log.Info("starting service", zap.String("service", cfg.ServiceName), zap.String("env", cfg.Env))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Redis guarda sessão, state OAuth, bet slip, flash e cache de fixtures.
	// REDIS_ADDR vazio usa o store em memória (dev, uma instância só).
	var store cache.Store
	var redisStore *cache.RedisStore
	if cfg.RedisAddr != "" {
		redisClient, err := cache.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatal("failed to connect redis", zap.Error(err))
		}
		defer redisClient.Close()
		redisStore = cache.NewRedisStore(redisClient)
		store = redisStore
		log.Info("redis connected")
	} else {
		store = cache.NewMemory()
		log.Warn("REDIS_ADDR empty, using in-memory store")
	}

	var recorders []betslip.Recorder

	// auditoria em Postgres é opcional
	var pg *repo.Postgres
	if cfg.PostgresDSN != "" {
		sqlDB, err := db.ConnectPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer sqlDB.Close()
		pg = repo.NewPostgres(sqlDB)
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Fatal("failed to ensure schema", zap.Error(err))
		}
		recorders = append(recorders, pg)
		log.Info("postgres connected")
	}

	// eventos em Kafka também
	var publisher *producer.KafkaPublisher
	if cfg.KafkaBrokers != "" {
		slipWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetSlipSubmitted)
		defer slipWriter.Close()
		sessWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicSessionEvents)
		defer sessWriter.Close()
		publisher = producer.NewKafkaPublisher(slipWriter, sessWriter)
		recorders = append(recorders, publisher)
		log.Info("kafka writers ready",
			zap.String("bet_slip_topic", cfg.TopicBetSlipSubmitted),
			zap.String("session_topic", cfg.TopicSessionEvents),
		)
	}

	api := backend.New(backend.Endpoints{
		Auth:     cfg.AuthURL,
		Wallet:   cfg.WalletURL,
		Bets:     cfg.BetsURL,
		Gateway:  cfg.GatewayURL,
		Fixtures: cfg.FixturesURL,
	}, cfg.UpstreamTimeout)

	sessions := session.NewClient(log, api, session.NewTokenStore(store, cfg.SessionTTL), cfg.AdminEmail, sessionHooks(log, publisher))
	states := oauth.NewStateStore(store, cfg.OAuthStateTTL)
	feed := fixtures.NewFeed(log, api, store, cfg.FixturesCacheTTL)
	hub := fixtures.NewHub(log, feed, api, cfg.PollInterval, nil)

	srv := httpapi.NewServer(log, httpapi.Options{
		CookieName:   cfg.SessionCookieName,
		CookieTTL:    cfg.SessionTTL,
		SecureCookie: cfg.Env != "local",
		StaticDir:    cfg.StaticDir,
	}, httpapi.Deps{
		Sessions:  sessions,
		Tracker:   session.NewTracker(log, sessions, cfg.MaxStaleness),
		Starter:   oauth.NewStarter(cfg.GoogleClientID, cfg.OAuthRedirectURL, states),
		Callbacks: oauth.NewHandler(log, states, api, sessions),
		Flash:     notify.NewFlash(store, cfg.SessionTTL),
		BetSlip:   betslip.NewService(log, store, cfg.SessionTTL, sessions, recorders...),
		Feed:      feed,
		Health:    api,
		Hub:       hub,
	})

	apiSrv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// metrics/health
	metricsSrv := metrics.NewMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if redisStore != nil {
			if err := redisStore.Ping(ctx); err != nil {
				return fmt.Errorf("redis: %w", err)
			}
		}
		if pg != nil {
			if err := pg.Ping(ctx); err != nil {
				return fmt.Errorf("postgres: %w", err)
			}
		}
		return nil
	})
	go func() {
		log.Info("metrics/health", zap.String("addr", metricsSrv.Addr))
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("metrics server failed", zap.Error(err))
		}
	}()

	go func() {
		log.Info("web-frontend listening", zap.String("addr", apiSrv.Addr))
		if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("api", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")

	shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
	defer done()
	hub.Shutdown()
	_ = apiSrv.Shutdown(shutdownCtx)
	_ = metricsSrv.Shutdown(shutdownCtx)
	log.Info("web-frontend stopped")
}

// sessionHooks registra login/logout no log e, com Kafka ativo, publica o evento
func sessionHooks(log *zap.Logger, pub *producer.KafkaPublisher) session.Hooks {
	publish := func(ctx context.Context, typ, sid, userID, reason string) {
		if pub == nil {
			return
		}
		pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		if err := pub.PublishSessionEvent(pctx, typ, sid, userID, reason); err != nil {
			log.Warn("publish session event", zap.String("type", typ), zap.Error(err))
		}
	}
	return session.Hooks{
		OnLogin: func(ctx context.Context, sid string, user *session.User, method string) {
			log.Info("user logged in", zap.String("sid", sid), zap.String("user_id", user.ID), zap.String("method", method))
			publish(ctx, events.SessionLogin, sid, user.ID, method)
		},
		OnLogout: func(ctx context.Context, sid string, reason string) {
			log.Info("session ended", zap.String("sid", sid), zap.String("reason", reason))
			typ := events.SessionLogout
			if reason != session.ReasonLogout {
				typ = events.SessionExpired
			}
			publish(ctx, typ, sid, "", reason)
		},
	}
}
