package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/voicememo/recsync/internal/config"
	"github.com/voicememo/recsync/internal/logger"
	"github.com/voicememo/recsync/internal/metrics"
	"github.com/voicememo/recsync/internal/receiver"
	"github.com/voicememo/recsync/internal/store"
	"github.com/voicememo/recsync/internal/transport"
	"github.com/voicememo/recsync/internal/workers"
)

const shutdownTimeout = 5 * time.Second

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.New("store")
	cfg, err := config.GetStoreConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registrar, err := store.NewPostgresRegistrar(ctx, cfg.Storage.DB.DSN, log.Component("registrar"))
	if err != nil {
		log.Fatal().Err(err).Msg("error opening recording registry")
	}

	fileStorage, err := store.NewRecordingFileStorage(cfg.Storage.RecordingsDir)
	if err != nil {
		log.Fatal().Err(err).Msg("error preparing recordings directory")
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	// server events feed the verification protocol; proto is assigned before
	// the listener starts serving requests
	var proto *receiver.Protocol
	srv, err := transport.NewServer(
		transport.ServerConfig{
			InboxDir:        cfg.Storage.InboxDir,
			ReachableWindow: cfg.Transport.ReachableWindow,
		},
		transport.Events{
			FileReceived: func(path, fileName string, metadata map[string]any) {
				proto.HandleIncomingFile(ctx, path, fileName, metadata)
			},
			MessageReceived: func(payload map[string]any) { proto.HandleIncomingMessage(ctx, payload) },
		},
		log.Component("transport"),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating transport endpoint")
	}

	proto = receiver.New(fileStorage, registrar, srv, m, log.Component("receiver"))

	srv.Router().Handle("/metrics", promhttp.Handler())

	httpServer := &http.Server{
		Addr:    cfg.Transport.HTTPAddress,
		Handler: srv.Router(),
	}

	workers.New(
		workers.WorkerFunc(func() {
			go func() {
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal().Err(err).Msg("http server error")
				}
			}()
		}),
	).Run()

	log.Info().Str("address", cfg.Transport.HTTPAddress).Msg("store sync daemon started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Err(err).Msg("http server shutdown error")
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
