// Command merkel runs the single-market trading venue simulator: a seeded
// order book advanced step by step from an interactive menu, with matched
// trades settled against the participant's wallet and journaled for the
// web dashboard.
//
// Usage:
//
//	merkel --config config.yaml
//	merkel (uses CLI arguments)
package main

import (
	"context"
	"log"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/merkel/config"
	"github.com/vadiminshakov/merkel/internal/book"
	"github.com/vadiminshakov/merkel/internal/driver"
	"github.com/vadiminshakov/merkel/internal/ledger"
	"github.com/vadiminshakov/merkel/internal/seed"
	"github.com/vadiminshakov/merkel/internal/storage/tradelog"
	"github.com/vadiminshakov/merkel/internal/web"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Get()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	orders := seed.Orders()
	if cfg.SeedFile != "" {
		orders, err = seed.Load(cfg.SeedFile)
		if err != nil {
			logger.Fatal("failed to load seed orders", zap.Error(err))
		}
	}

	b, err := book.New(orders, cfg.Owner)
	if err != nil {
		logger.Fatal("failed to build order book", zap.Error(err))
	}

	wallet, err := ledger.New(cfg.Balances)
	if err != nil {
		logger.Fatal("failed to seed wallet", zap.Error(err))
	}

	journal, err := tradelog.NewWALStore(cfg.TradeLogDir)
	if err != nil {
		logger.Fatal("failed to open trade journal", zap.Error(err))
	}
	defer journal.Close()

	session, err := driver.NewSession(b, wallet, journal, cfg.Owner, logger)
	if err != nil {
		logger.Fatal("failed to create session", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	if cfg.DashboardAddr != "" {
		server := web.NewServer(cfg.DashboardAddr, journal, wallet)
		g.Go(func() error {
			return server.Start(ctx)
		})
		logger.Info("dashboard started", zap.String("addr", cfg.DashboardAddr))
	}

	g.Go(func() error {
		defer cancel()
		return session.Run(ctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error(err.Error())
	}
}
