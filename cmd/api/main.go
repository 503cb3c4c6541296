package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/denisok6893-rgb/property-call-search/internal/callsink"
	"github.com/denisok6893-rgb/property-call-search/internal/config"
	httpapi "github.com/denisok6893-rgb/property-call-search/internal/http"
	"github.com/denisok6893-rgb/property-call-search/internal/logging"
	"github.com/denisok6893-rgb/property-call-search/internal/matching"
	"github.com/denisok6893-rgb/property-call-search/internal/metrics"
	"github.com/denisok6893-rgb/property-call-search/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(logging.Config{
		Level:       cfg.Log.Level,
		Pretty:      cfg.Log.Pretty,
		ServiceName: cfg.AppName,
	})

	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("service stopped")
	}
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	vocab := matching.DefaultVocabulary()
	if cfg.VocabularyPath != "" {
		v, err := matching.LoadVocabularyFromFile(cfg.VocabularyPath)
		if err != nil {
			logger.Warn().Err(err).Msg("use default vocabulary")
		} else {
			vocab = v
		}
	}
	engine := matching.NewEngine(vocab)

	st, callStore, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	sinks, closeSinks, err := buildSinks(cfg, callStore, logger, m)
	if err != nil {
		return err
	}
	defer closeSinks()

	srv := httpapi.NewServer(engine, st)
	srv.Calls = sinks
	srv.Metrics = m
	srv.Gatherer = reg
	srv.Logger = logger
	srv.InventoryTimeout = cfg.InventoryTimeout
	srv.CORSOrigins = cfg.CORSOrigins

	httpServer := &http.Server{
		Addr:              cfg.Address,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("address", cfg.Address).Str("storage", cfg.Storage.Driver).Msg("API listening")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// openStore returns the inventory for the configured driver and, when the
// driver has a calls table, the store that persists call updates.
func openStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (httpapi.PropertyStore, httpapi.CallUpdater, func(), error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		pg, err := storage.OpenPostgres(ctx, cfg.Storage.DatabaseURL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		logger.Info().Msg("connected to postgres")
		return pg, pg, pg.Close, nil

	case config.DriverSQLite:
		sq, err := storage.OpenSQLite(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, nil, err
		}
		closeFn := func() { _ = sq.Close() }
		if err := sq.EnsureSchema(ctx); err != nil {
			closeFn()
			return nil, nil, nil, err
		}
		if err := seedSQLite(ctx, sq, cfg.Storage.PropertiesPath, logger); err != nil {
			closeFn()
			return nil, nil, nil, err
		}
		return sq, sq, closeFn, nil

	default:
		props, err := storage.LoadPropertiesFromFile(cfg.Storage.PropertiesPath)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("load properties: %w", err)
		}
		logger.Info().Int("properties", len(props)).Str("path", cfg.Storage.PropertiesPath).Msg("inventory loaded")
		return storage.NewMemoryInventory(props), nil, func() {}, nil
	}
}

func seedSQLite(ctx context.Context, sq *storage.SQLiteStore, path string, logger zerolog.Logger) error {
	n, err := sq.CountProperties(ctx)
	if err != nil {
		return fmt.Errorf("count properties: %w", err)
	}
	if n > 0 || path == "" {
		return nil
	}
	props, err := storage.LoadPropertiesFromFile(path)
	if err != nil {
		return fmt.Errorf("load seed properties: %w", err)
	}
	if err := sq.UpsertMany(ctx, props); err != nil {
		return fmt.Errorf("seed properties: %w", err)
	}
	logger.Info().Int("properties", len(props)).Msg("sqlite inventory seeded")
	return nil
}

func buildSinks(cfg *config.Config, callStore httpapi.CallUpdater, logger zerolog.Logger, m *metrics.Metrics) (*callsink.Multi, func(), error) {
	var (
		named   []callsink.Named
		closers []func()
	)
	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	for _, name := range cfg.CallSinks {
		switch name {
		case config.SinkLog:
			named = append(named, callsink.Named{Name: name, Sink: callsink.NewLogSink(logger)})
		case config.SinkStore:
			if callStore == nil {
				logger.Warn().Str("storage", cfg.Storage.Driver).Msg("storage driver keeps no call records, store sink disabled")
				continue
			}
			named = append(named, callsink.Named{Name: name, Sink: callStore})
		case config.SinkAMQP:
			pub, err := callsink.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
			if err != nil {
				closeAll()
				return nil, nil, err
			}
			closers = append(closers, func() { _ = pub.Close() })
			named = append(named, callsink.Named{Name: name, Sink: pub})
		}
	}

	multi := callsink.NewMulti(named...)
	multi.OnError = func(name string, _ error) {
		m.CallSinkFailures.WithLabelValues(name).Inc()
	}
	return multi, closeAll, nil
}
