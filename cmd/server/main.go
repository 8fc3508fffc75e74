package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	jwt_token "datahub/internal/jwt_token"
	mphandler "datahub/internal/meteringpoint/handler"
	mpmetrics "datahub/internal/meteringpoint/metrics"
	"datahub/internal/meteringpoint/outbox"
	"datahub/internal/meteringpoint/ports"
	"datahub/internal/meteringpoint/service"
	"datahub/internal/meteringpoint/store"
	"datahub/internal/platform/config"
	"datahub/internal/platform/httpserver"
	"datahub/internal/platform/logger"
	"datahub/internal/platform/metrics"
	"datahub/internal/platform/postgres"
	"datahub/internal/platform/ratelimit"
	"datahub/internal/platform/redis"
	id "datahub/pkg/domain"
	"datahub/pkg/platform/circuit"
)

const (
	tokenIssuer   = "datahub"
	tokenAudience = "datahub-api"
)

// main wires the registry and keeps the process lifecycle small. Business
// logic lives in internal/meteringpoint.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("datahub stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	if cfg.UsesDevSigningKey() {
		if cfg.IsProduction() {
			return errors.New("JWT_SIGNING_KEY must be set in production")
		}
		log.Warn("using the development JWT signing key")
	}

	infra, err := buildInfra(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer infra.close()

	mpMetrics := mpmetrics.New()
	httpMetrics := metrics.New()

	svc := service.New(infra.tx,
		service.WithLogger(log),
		service.WithMetrics(mpMetrics),
	)

	jwtService := jwt_token.NewJWTService(cfg.Server.JWTSigningKey, tokenIssuer, tokenAudience)
	h := mphandler.New(svc, log, httpMetrics, jwt_token.NewJWTServiceAdapter(jwtService),
		mphandler.WithWriterRoles(cfg.Server.WriterRoles...),
		mphandler.WithRateLimit(infra.limiter, cfg.RateLimit.Requests, cfg.RateLimit.Window),
	)

	router := chi.NewRouter()
	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", httpMetrics.Handler())
	h.Register(router)

	publisher, closePublisher, err := buildPublisher(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closePublisher()

	worker := outbox.NewWorker(infra.source, publisher,
		outbox.WithInterval(cfg.Outbox.PollInterval),
		outbox.WithBatchSize(cfg.Outbox.BatchSize),
		outbox.WithLogger(log),
		outbox.WithMetrics(mpMetrics),
	)

	srv := httpserver.New(cfg.Server.Addr, router)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting datahub", "addr", cfg.Server.Addr, "store", infra.kind)
		return httpserver.Run(gctx, srv, cfg.Server.ShutdownTimeout)
	})
	g.Go(func() error {
		return worker.Run(gctx)
	})
	return g.Wait()
}

type infra struct {
	kind    string
	tx      ports.TxRunner
	source  outbox.Source
	limiter ratelimit.Store
	close   func()
}

// buildInfra selects Postgres when DATABASE_URL is set and in-memory stores
// otherwise.
func buildInfra(ctx context.Context, cfg config.Config, log *slog.Logger) (*infra, error) {
	if cfg.Database.URL == "" {
		dir := store.NewGridAreaDirectory()
		for _, code := range cfg.GridAreas {
			dir.Register(gridArea(code))
		}
		ob := outbox.NewMemory()
		return &infra{
			kind:    "memory",
			tx:      store.NewInMemory(dir, ob),
			source:  ob,
			limiter: ratelimit.NewInMemoryWindow(),
			close:   func() {},
		}, nil
	}

	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := seedGridAreas(ctx, db, cfg.GridAreas); err != nil {
		_ = db.Close()
		return nil, err
	}

	closers := []func(){func() { _ = db.Close() }}
	opts := []store.PostgresOption{store.WithTxTimeout(cfg.Database.TxTimeout)}
	var limiter ratelimit.Store = ratelimit.NewInMemoryWindow()

	rdb, err := redis.New(cfg.Redis)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if rdb != nil {
		if err := rdb.Health(ctx); err != nil {
			log.Warn("redis unavailable, gsrn index disabled", "error", err)
			_ = rdb.Close()
		} else {
			index := store.NewGuardedIndex(
				store.NewRedisIndex(rdb, cfg.Redis.IndexTTL),
				circuit.New("gsrn-index"),
				log,
			)
			opts = append(opts, store.WithGsrnIndex(index))
			limiter = ratelimit.NewRedisWindow(rdb)
			closers = append(closers, func() { _ = rdb.Close() })
		}
	}

	ob := outbox.NewPostgres(db)
	return &infra{
		kind:    "postgres",
		tx:      store.NewPostgres(db, ob, opts...),
		source:  ob,
		limiter: limiter,
		close: func() {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		},
	}, nil
}

func seedGridAreas(ctx context.Context, db *sql.DB, codes []string) error {
	areas := store.NewPostgresGridAreas(db)
	for _, code := range codes {
		if err := areas.Upsert(ctx, gridArea(code)); err != nil {
			return err
		}
	}
	return nil
}

func gridArea(code string) ports.GridArea {
	return ports.GridArea{
		LinkID: id.GridAreaLinkID(uuid.New()),
		Code:   code,
		Name:   fmt.Sprintf("Grid area %s", code),
	}
}

// buildPublisher returns a Kafka publisher when brokers are configured and a
// log-only publisher otherwise.
func buildPublisher(ctx context.Context, cfg config.Config, log *slog.Logger) (outbox.Publisher, func(), error) {
	if len(cfg.Kafka.Brokers) == 0 {
		log.Info("no kafka brokers configured, outbox events are logged")
		return outbox.LogPublisher{Log: log.InfoContext}, func() {}, nil
	}
	kp, err := outbox.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	if err != nil {
		return nil, nil, err
	}
	if err := kp.EnsureTopic(ctx, cfg.Kafka.Partitions, cfg.Kafka.ReplicationFactor); err != nil {
		kp.Close()
		return nil, nil, err
	}
	return kp, kp.Close, nil
}
