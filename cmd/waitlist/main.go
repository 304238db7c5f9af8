// Waitlist server: Phantom wallet connect and whitelist signup.
// Usage: go run ./cmd/waitlist
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

	_ "github.com/AlexZinkM/phantom-waitlist/docs"
	"github.com/AlexZinkM/phantom-waitlist/internal/api"
	"github.com/AlexZinkM/phantom-waitlist/internal/client"
	"github.com/AlexZinkM/phantom-waitlist/internal/config"
	"github.com/AlexZinkM/phantom-waitlist/internal/handler"
	"github.com/AlexZinkM/phantom-waitlist/internal/logger"
	"github.com/AlexZinkM/phantom-waitlist/internal/notify"
	"github.com/AlexZinkM/phantom-waitlist/internal/session"
	"github.com/AlexZinkM/phantom-waitlist/internal/store"
	"github.com/AlexZinkM/phantom-waitlist/internal/wallet"
	"github.com/AlexZinkM/phantom-waitlist/internal/whitelist"

	"github.com/rs/zerolog"
)

const purgeInterval = 5 * time.Minute

// @title        Phantom Waitlist API
// @version      1.0
// @description  Connect a Phantom wallet and join the waiting list.
// @BasePath     /
func main() {
	if err := config.Init(); err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	cfg := config.Get()
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	records, flows, closeStore, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	negotiator, err := wallet.NewNegotiator(flows, wallet.Options{
		AppURL:  config.GetPublicURL(),
		Cluster: cfg.SolanaCluster,
		FlowTTL: config.GetFlowTTL(),
		Logger:  log.With().Str("component", "wallet").Logger(),
	})
	if err != nil {
		return err
	}

	opts := []whitelist.Option{whitelist.WithLogger(log.With().Str("component", "whitelist").Logger())}
	if cfg.MinSOLBalance != "" {
		rule, err := whitelist.NewBalanceRule(client.NewSolanaClient(config.GetSolanaRPCURL()), cfg.MinSOLBalance)
		if err != nil {
			return err
		}
		opts = append(opts, whitelist.WithEligibility(rule))
	}
	if cfg.AMQPURL != "" {
		pub, err := notify.NewRabbitPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey)
		if err != nil {
			return err
		}
		defer pub.Close()
		opts = append(opts, whitelist.WithPublisher(pub))
	} else {
		opts = append(opts, whitelist.WithPublisher(notify.Nop{}))
	}

	controller := whitelist.NewController(records, whitelist.Rules{
		RequireDisplayName:   cfg.RequireDisplayName,
		EnforceHandlePattern: cfg.EnforceHandlePattern,
		CheckHandleTaken:     cfg.CheckHandleTaken,
	}, opts...)

	sessions := session.NewManager(config.GetSessionTTL(), cfg.CookieSecure)

	h, err := handler.NewWaitlistHandler(negotiator, controller, sessions, config.GetPublicURL(), cfg.AppRef)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + config.GetPort(),
		Handler:           logger.Middleware(log, api.SetupRouter(h)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("public_url", config.GetPublicURL()).
			Str("store", cfg.StoreDriver).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openStores builds the record store and the flow key-value store for cfg.StoreDriver.
func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (whitelist.RecordStore, wallet.KeyValueStore, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreSQLite, config.StorePostgres:
		db, err := store.OpenGorm(cfg.StoreDriver, cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, nil, err
		}
		kv := store.NewGormKV(db)
		go purgeFlows(ctx, kv, log)
		closeFn := func() {
			if sqlDB, err := db.DB(); err == nil {
				sqlDB.Close()
			}
		}
		return store.NewGormRecords(db), kv, closeFn, nil

	case config.StoreMongo:
		mc, err := store.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, nil, err
		}
		coll := mc.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection)
		records, err := store.NewMongoRecords(ctx, coll)
		if err != nil {
			mc.Disconnect(context.Background())
			return nil, nil, nil, err
		}
		closeFn := func() {
			if err := mc.Disconnect(context.Background()); err != nil {
				log.Warn().Err(err).Msg("mongo disconnect failed")
			}
		}
		return records, store.NewMemoryKV(), closeFn, nil

	default:
		log.Warn().Msg("using in-memory store; records are lost on restart")
		return store.NewMemoryRecords(), store.NewMemoryKV(), func() {}, nil
	}
}

func purgeFlows(ctx context.Context, kv *store.GormKV, log zerolog.Logger) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := kv.PurgeExpired(ctx)
			if err != nil {
				log.Warn().Err(err).Msg("failed to purge expired flows")
				continue
			}
			if n > 0 {
				log.Debug().Int64("purged", n).Msg("expired flows purged")
			}
		}
	}
}
