package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	authflowservice "securevote/internal/authflow/service"
	authflowstore "securevote/internal/authflow/store"
	"securevote/internal/biometric"
	"securevote/internal/credential"
	"securevote/internal/document"
	electionservice "securevote/internal/election/service"
	electionstore "securevote/internal/election/store"
	identityservice "securevote/internal/identity/service"
	identitystore "securevote/internal/identity/store"
	ledgerservice "securevote/internal/ledger/service"
	ledgerstore "securevote/internal/ledger/store"
	"securevote/internal/lockout"
	"securevote/internal/notify"
	"securevote/internal/platform/audit"
	"securevote/internal/platform/config"
	"securevote/internal/platform/httpserver"
	"securevote/internal/platform/logger"
	"securevote/internal/platform/metrics"
	"securevote/internal/platform/redis"
	"securevote/internal/platform/storage"
	rollservice "securevote/internal/roll/service"
	rollstore "securevote/internal/roll/store"
	httptransport "securevote/internal/transport/http"
	"securevote/internal/voting"
)

// challengeSessionTTL bounds a whole authentication attempt in Redis. Longer
// than the passcode TTL so the biometric-verified fallback survives an
// expired code.
const challengeSessionTTL = 15 * time.Minute

func main() {
	log := logger.New()
	if err := run(log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	cfg := config.FromEnv()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := storage.Open(cfg.PostgresDSN)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		if err := storage.EnsureSchema(ctx, db); err != nil {
			return err
		}
		log.Info("postgres connected")
	} else {
		log.Warn("postgres not configured, using in-memory stores")
	}

	redisClient, err := redis.New(cfg.RedisURL)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		log.Info("redis connected")
	}

	var auditor audit.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher, err := audit.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaAuditTopic, log)
		if err != nil {
			return err
		}
		auditor = kafkaPublisher
		log.Info("kafka audit pipeline connected", "topic", cfg.KafkaAuditTopic)
	} else {
		auditor = audit.NewLogPublisher(log)
	}
	defer auditor.Close()

	m := metrics.New()

	var matcher biometric.Matcher = biometric.NewLocalMatcher(cfg.BiometricTolerance)
	if cfg.BiometricServiceURL != "" {
		matcher = biometric.NewHTTPMatcher(cfg.BiometricServiceURL, cfg.BiometricTolerance)
	}
	var deliverer notify.CodeDeliverer = notify.NewConsoleDeliverer(log)
	if cfg.CodeDeliveryURL != "" {
		deliverer = notify.NewHTTPDeliverer(cfg.CodeDeliveryURL)
	}
	var extractor document.TextExtractor = document.NewLocalExtractor()
	if cfg.OCRServiceURL != "" {
		extractor = document.NewHTTPExtractor(cfg.OCRServiceURL)
	}

	var identityStore identityservice.Store = identitystore.NewInMemory()
	var electionStore electionstore.Store = electionstore.NewInMemory()
	var rollStore rollstore.Store
	var ledgerStore ledgerstore.Store
	var runner voting.Runner
	if db != nil {
		identityStore = identitystore.NewPostgres(db)
		electionStore = electionstore.NewPostgres(db)
		rollStore = rollstore.NewPostgres(db)
		ledgerStore = ledgerstore.NewPostgres(db)
		runner = voting.NewPostgresRunner(db)
	} else {
		rollMem := rollstore.NewInMemory()
		ledgerMem := ledgerstore.NewInMemory()
		rollStore = rollMem
		ledgerStore = ledgerMem
		runner = voting.NewMemoryRunner(rollMem, ledgerMem)
	}

	var challengeStore authflowstore.Store = authflowstore.NewInMemory()
	var lockoutStore lockout.Store = lockout.NewInMemory()
	if redisClient != nil {
		challengeStore = authflowstore.NewRedis(redisClient, challengeSessionTTL)
		lockoutStore = lockout.NewRedis(redisClient)
	}

	credentials := credential.NewService(cfg.JWTSigningKey)
	lockoutSvc := lockout.New(lockoutStore, cfg)
	identitySvc := identityservice.New(identityStore, matcher, cfg,
		identityservice.WithLogger(log),
		identityservice.WithAuditPublisher(auditor),
		identityservice.WithMetrics(m))
	authflowSvc := authflowservice.New(identitySvc, challengeStore, deliverer, credentials, lockoutSvc, cfg,
		authflowservice.WithLogger(log),
		authflowservice.WithAuditPublisher(auditor),
		authflowservice.WithMetrics(m))
	electionSvc := electionservice.New(electionStore,
		electionservice.WithLogger(log),
		electionservice.WithAuditPublisher(auditor))
	rollSvc := rollservice.New(rollStore,
		rollservice.WithLogger(log),
		rollservice.WithAuditPublisher(auditor))
	ledgerSvc := ledgerservice.New(ledgerStore,
		ledgerservice.WithLogger(log),
		ledgerservice.WithAuditPublisher(auditor),
		ledgerservice.WithMetrics(m))
	votingSvc := voting.New(electionSvc, ledgerSvc, runner,
		voting.WithLogger(log),
		voting.WithMetrics(m))
	documentSvc := document.NewService(extractor)

	handlerOpts := []httptransport.Option{httptransport.WithMetrics(m)}
	if db != nil {
		handlerOpts = append(handlerOpts, httptransport.WithHealthCheck("postgres", db.PingContext))
	}
	if redisClient != nil {
		handlerOpts = append(handlerOpts, httptransport.WithHealthCheck("redis", redisClient.Health))
	}

	handlers := httptransport.NewHandlers(
		identitySvc, documentSvc, authflowSvc, electionSvc, rollSvc, ledgerSvc,
		votingSvc, credentials, cfg, log, handlerOpts...,
	)

	server := httpserver.New(cfg.Addr, handlers.Router())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http server listening", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
