// Package main runs the voice bank API: users, accounts and voice-authorized transfers.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/honeycombio/honeycomb-opentelemetry-go"
	"github.com/honeycombio/otel-config-go/otelconfig"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/go-petr/voice-bank/cmd/httpserver"
	"github.com/go-petr/voice-bank/internal/ledger"
	"github.com/go-petr/voice-bank/internal/memledger"
	"github.com/go-petr/voice-bank/internal/middleware"
	"github.com/go-petr/voice-bank/internal/pgsledger"
	"github.com/go-petr/voice-bank/internal/transferevents"
	"github.com/go-petr/voice-bank/pkg/configpkg"
	"github.com/go-petr/voice-bank/pkg/dbpkg"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
)

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.CreateLogger(config)
	ctx := logger.WithContext(context.Background())

	l, closeLedger, err := openLedger(config)
	if err != nil {
		logger.Fatal().Err(err).Str("backend", config.LedgerBackend).Msg("cannot open ledger")
	}
	defer closeLedger()

	if config.SeedDemoData {
		if err := ledger.SeedDemo(ctx, l); err != nil {
			logger.Fatal().Err(err).Msg("cannot seed demo data")
		}
	}

	var opts []httpserver.Option

	if brokers := config.Brokers(); len(brokers) > 0 {
		publisher := transferevents.NewKafkaPublisher(brokers, config.KafkaTransferTopic, logger)
		defer publisher.Close()

		opts = append(opts, httpserver.WithPublisher(publisher))
	}

	server, err := httpserver.New(l, logger, config, opts...)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create server")
	}

	var handler http.Handler = server

	if config.OTelEnabled {
		otelShutdown, err := otelconfig.ConfigureOpenTelemetry(
			otelconfig.WithSpanProcessor(honeycomb.NewBaggageSpanProcessor()),
		)
		if err != nil {
			logger.Fatal().Err(err).Msg("cannot configure opentelemetry")
		}
		defer otelShutdown()

		handler = otelhttp.NewHandler(handler, "voice-bank")
	}

	run(logger, &http.Server{
		Addr:              config.ServerAddress,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}, config.ShutdownTimeout)

	server.Wait()
}

func openLedger(config configpkg.Config) (ledger.Ledger, func(), error) {
	switch config.LedgerBackend {
	case configpkg.LedgerMemory, "":
		return memledger.New(), func() {}, nil
	case configpkg.LedgerPostgres:
		if err := dbpkg.Migrate(config.MigrationURL, config.DBSource); err != nil {
			return nil, nil, err
		}

		db, err := dbpkg.Setup(config.DBDriver, config.DBSource)
		if err != nil {
			return nil, nil, err
		}

		return pgsledger.New(db), func() { _ = db.Close() }, nil
	}

	return nil, nil, errors.New("unknown ledger backend")
}

// run serves until SIGINT or SIGTERM and then drains in-flight requests.
func run(logger zerolog.Logger, srv *http.Server, shutdownTimeout time.Duration) {
	go func() {
		logger.Info().Str("address", srv.Addr).Msg("VOICE BANK API SERVER HAS STARTED")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("cannot start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}
}
