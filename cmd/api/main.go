// Command api serves the Habitat society management REST API.
//
//	@title                      Habitat API
//	@version                    1.0
//	@description                Role-based housing society management: residents, bills, bookings, issues, visitors and notices.
//	@BasePath                   /api
//	@securityDefinitions.apikey BearerAuth
//	@in                         header
//	@name                       Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/habitat-society/habitat-api/internal/api"
	"github.com/habitat-society/habitat-api/internal/core/service"
	mongorepo "github.com/habitat-society/habitat-api/internal/infrastructure/db/mongo"
	redisstore "github.com/habitat-society/habitat-api/internal/infrastructure/db/redis"
	"github.com/habitat-society/habitat-api/internal/infrastructure/queue"
	"github.com/habitat-society/habitat-api/internal/pkg/config"
	"github.com/habitat-society/habitat-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "habitat-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, db, err := mongorepo.Connect(ctx, mongorepo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("connect mongodb")
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = client.Disconnect(dctx)
	}()

	if err := mongorepo.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("ensure indexes")
	}

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect redis")
	}
	defer rdb.Close()

	payments := service.NewPaymentService(mongorepo.NewPaymentRepository(db), log)
	ledger := queue.NewDispatcher(cfg.Ledger.Workers, payments, logger.Component("ledger"))
	ledgerCtx, stopLedger := context.WithCancel(context.Background())
	ledger.Start(ledgerCtx)

	e := api.NewRouter(api.Deps{
		Config:   cfg,
		Log:      log,
		DB:       db,
		Redis:    rdb,
		Payments: payments,
		Ledger:   ledger,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("api listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	// no requests are in flight anymore, so the ledger can drain
	stopLedger()
	ledger.Wait()
}
