package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/voicememo/recsync/internal/config"
	"github.com/voicememo/recsync/internal/logger"
	"github.com/voicememo/recsync/internal/metrics"
	"github.com/voicememo/recsync/internal/store"
	"github.com/voicememo/recsync/internal/syncer"
	"github.com/voicememo/recsync/internal/syncstate"
	"github.com/voicememo/recsync/internal/transport"
	"github.com/voicememo/recsync/internal/workers"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.New("edge")
	cfg, err := config.GetEdgeConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	catalog, err := store.NewSQLiteCatalog(cfg.Storage.CatalogPath, cfg.Storage.RecordingsDir, log.Component("catalog"))
	if err != nil {
		log.Fatal().Err(err).Msg("error opening recording catalog")
	}

	checksums := store.NewFileChecksumStore(cfg.Storage.ChecksumsPath)
	m := metrics.New(prometheus.DefaultRegisterer)

	// transport events feed the agent; the agent is assigned before Start
	// fires any of them
	var agent *syncer.Agent
	tr := transport.NewHTTPTransport(
		transport.HTTPConfig{
			BaseURL:        cfg.Transport.PeerURL,
			RequestTimeout: cfg.Transport.RequestTimeout,
			PollInterval:   cfg.Transport.PollInterval,
		},
		transport.Events{
			SessionActivated:    func() { agent.SessionActivated() },
			ReachabilityChanged: func(reachable bool) { agent.ReachabilityChanged(reachable) },
			MessageReceived:     func(payload map[string]any) { agent.HandleIncomingMessage(payload) },
		},
		log.Component("transport"),
	)

	agent = syncer.New(
		syncstate.NewTracker(),
		catalog,
		checksums,
		tr,
		m,
		log.Component("syncer"),
		syncer.Options{
			DebounceWindow:   cfg.Sync.DebounceWindow,
			FallbackInterval: cfg.Sync.FallbackInterval,
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	workers.New(
		workers.WorkerFunc(func() { tr.Start(ctx) }),
	).Run()

	log.Info().Str("peer", cfg.Transport.PeerURL).Msg("edge sync daemon started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	tr.Close()
	agent.Close()
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
