package main

import (
	"context"
	"errors"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vncsmyrnk/tutorialvote/internal/adapters/handler/http"
	"github.com/vncsmyrnk/tutorialvote/internal/adapters/ledger/jsonrpc"
	"github.com/vncsmyrnk/tutorialvote/internal/adapters/metrics"
	"github.com/vncsmyrnk/tutorialvote/internal/app"
	"github.com/vncsmyrnk/tutorialvote/internal/config"
	"github.com/vncsmyrnk/tutorialvote/internal/core/services"
	"github.com/vncsmyrnk/tutorialvote/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err == nil {
		err = cfg.ValidateServer()
	}
	if err != nil {
		bootLog := logger.New("info")
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ledger, closeLedger, err := app.OpenLedger(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Ledger.Driver).Msg("failed to open ledger")
	}
	defer closeLedger()

	index, err := app.NewIndex(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure search index")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	submissionMetrics, err := metrics.NewSubmissionMetrics(reg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to register metrics")
	}

	tracker := services.NewStatusTracker()
	voteService := services.NewVoteSubmissionService(ledger, index, log, tracker, submissionMetrics)

	rpcHandler, err := jsonrpc.NewHandler(ledger, http.AuthorizeLedgerCast, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build rpc handler")
	}

	voteHandler := http.NewVoteHandler(voteService, ledger, tracker, log)
	handler := http.NewHandler(
		voteHandler,
		http.NewAuthMiddleware([]byte(cfg.JWTSecret)),
		rpcHandler,
		promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		cfg.AllowedOrigins,
	)
	server := &stdhttp.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Str("ledger", cfg.Ledger.Driver).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info().Msg("gracefully shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}
