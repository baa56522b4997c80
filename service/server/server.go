package server

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/VictoriaMetrics/metrics"

	"hotelier/lib/persist"
	"hotelier/lib/store"
	"hotelier/service/common"
	"hotelier/service/notify"
	"hotelier/service/ranking"
	"hotelier/service/transport"

	_ "net/http/pprof"
)

var logger = common.GetLogger("server")

// Run wires the whole server together and blocks until SIGINT or SIGTERM
// triggers the shutdown sequence. Every component gets its dependencies
// handed in here; no package-level state is shared.
func Run(config common.ServerConfig) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logger.Info().Msg(config.String())

	// Entity store, loaded from the JSON snapshots.
	s := store.New()
	if err := persist.LoadAll(config.DataDir, s); err != nil {
		return fmt.Errorf("failed to load data from %s: %w", config.DataDir, err)
	}

	// Notification fan-out: UDP multicast broadcast plus the targeted
	// subscriber registry.
	sink, err := notify.NewMulticastSink(config.MulticastAddr, config.UDPPort)
	if err != nil {
		return fmt.Errorf("failed to open multicast sink: %w", err)
	}
	defer sink.Close()
	registry := notify.NewRegistry()

	// Periodic tasks.
	updater := ranking.NewUpdater(s, sink, registry)
	updater.Start(config.RankingPeriod)

	snapshots := persist.NewTask(config.DataDir, s)
	snapshots.Start(config.PersistencePeriod)

	// Metrics and pprof endpoint.
	if config.MetricsAddr != "" {
		go serveMetrics(config.MetricsAddr)
	}

	// Session endpoint.
	dispatcher := transport.NewDispatcher(config, s, registry)
	serveErr := make(chan error, 1)
	go func() { serveErr <- dispatcher.Serve() }()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		return fmt.Errorf("session endpoint failed: %w", err)
	case received := <-sig:
		logger.Info().Str("signal", received.String()).Msg("shutting down")
	}

	// Shutdown order: stop accepting and drain sessions, stop the
	// schedulers, then take one final snapshot so nothing is lost.
	if err := dispatcher.Shutdown(); err != nil {
		logger.Warn().Err(err).Msg("shutdown incomplete")
	}
	updater.Stop()
	snapshots.Stop()
	snapshots.RunOnce()

	logger.Info().Msg("server stopped")
	return nil
}

// serveMetrics exposes Prometheus metrics next to the pprof handlers.
func serveMetrics(addr string) {
	http.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		metrics.WritePrometheus(w, true)
	})
	logger.Info().Str("addr", addr).Msg("metrics endpoint up")
	if err := http.ListenAndServe(addr, nil); err != nil {
		logger.Error().Err(err).Msg("metrics endpoint failed")
	}
}
