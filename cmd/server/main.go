package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"docmint/internal/audit"
	dochandler "docmint/internal/documents/handler"
	docmetrics "docmint/internal/documents/metrics"
	"docmint/internal/documents/service"
	docstore "docmint/internal/documents/store"
	"docmint/internal/ipfs"
	jwttoken "docmint/internal/jwt_token"
	"docmint/internal/ledger"
	"docmint/internal/mfa"
	"docmint/internal/platform/config"
	"docmint/internal/platform/httpserver"
	"docmint/internal/platform/logger"
	platformmetrics "docmint/internal/platform/metrics"
	"docmint/internal/platform/postgres"
	"docmint/internal/platform/redis"
	"docmint/internal/records"
	"docmint/internal/render"
)

func main() {
	log := logger.New()
	if err := run(log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.FromEnv()

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info("connected to postgres")

	cache, err := redis.New(cfg.Redis)
	if err != nil {
		return err
	}
	if cache != nil {
		defer cache.Close()
		log.Info("connected to redis")
	}

	var sink audit.Sink
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaSink, err := audit.NewKafkaSink(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			return err
		}
		defer kafkaSink.Close()
		sink = kafkaSink
		log.Info("publishing lifecycle events to kafka", "topic", cfg.Kafka.Topic)
	} else {
		sink = audit.NewMemorySink()
		log.Warn("kafka not configured, lifecycle events stay in memory")
	}
	publisher := audit.NewPublisher(sink, 256, log)
	defer publisher.Close()

	chain, err := ledger.New(ctx, cfg.Ledger.RPCURL, cfg.Ledger.IssuanceContractAddress,
		cfg.Ledger.NFTContractAddress, cfg.Ledger.AdminPrivateKey)
	if err != nil {
		return err
	}
	defer chain.Close()
	log.Info("connected to blockchain", "rpc_url", cfg.Ledger.RPCURL)

	refs := records.NewPostgres(db)

	svc := service.New(service.Deps{
		Docs:     docstore.NewPostgres(db),
		Users:    refs,
		Wallets:  refs,
		Types:    refs,
		Certs:    refs,
		Scores:   refs,
		Verifier: mfa.NewClient(cfg.MFA.URL, cfg.MFA.Timeout),
		Content:  ipfs.NewClient(cfg.IPFS.PinataJWT, cfg.IPFS.Gateway, cfg.IPFS.UseMock, cfg.ExternalCallTimeout),
		Ledger:   chain,
		Renderer: render.NewPDFRenderer(),

		Events:  publisher,
		Metrics: docmetrics.New(prometheus.DefaultRegisterer),
		Cache:   cache,
		Logger:  log,

		ContractAddress: cfg.Ledger.NFTContractAddress,
		CallTimeout:     cfg.ExternalCallTimeout,
		VerifyTTL:       cfg.Redis.VerifyTTL,
	})

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, "docmint")

	router := chi.NewRouter()
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/metrics", promhttp.Handler())
	dochandler.New(svc, log, platformmetrics.New(), jwtService).Register(router)

	server := httpserver.New(cfg.Addr, router, cfg.ReadHeaderTimeout)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("http server listening", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return group.Wait()
}
