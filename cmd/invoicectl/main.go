package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"diamondtrade/internal/cache"
	"diamondtrade/internal/cli"
	"diamondtrade/internal/config"
	"diamondtrade/internal/database"
	"diamondtrade/internal/logger"
	"diamondtrade/internal/printing"
	"diamondtrade/internal/repository"
	"diamondtrade/internal/service"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// stdout carries command output, so logs go to stderr.
	log, err := logger.New(&logger.Config{Level: cfg.Log.Level, Format: "console", Output: "stderr"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCommand(opener(cfg, log), log)
	if err := root.ExecuteContext(ctx); err != nil {
		log.Debug("Command execution failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func opener(cfg *config.Config, log *zap.Logger) cli.Opener {
	return func(ctx context.Context) (*cli.Backend, error) {
		db, err := database.NewConnection(cfg.DSN(), log, true)
		if err != nil {
			return nil, err
		}

		clientRepo := repository.NewClientRepository(db)
		diamondRepo := repository.NewDiamondRepository(db)
		invoiceRepo := repository.NewInvoiceRepository(db)
		stats := service.NewStatisticsService(clientRepo, invoiceRepo, diamondRepo,
			repository.NewStatisticsRepository(db), cache.NewMemoryCache(), cfg.Stats.CacheTTL, log)

		invoices := service.NewInvoiceService(invoiceRepo, diamondRepo, clientRepo,
			repository.NewCompanyRepository(db), repository.NewAuditRepository(db),
			repository.NewTransactionManager(db), stats, nil, log)

		templates, err := printing.NewTemplateEngine()
		if err != nil {
			return nil, err
		}

		b := &cli.Backend{Invoices: invoices, Templates: templates}
		var renderer *printing.ChromedpRenderer
		if cfg.PDF.Enabled {
			renderer = printing.NewChromedpRenderer(printing.ChromedpConfig{
				RemoteURL: cfg.PDF.RemoteURL,
				Timeout:   cfg.PDF.Timeout,
			}, log)
			b.PDF = renderer
		}

		b.Close = func() error {
			if renderer != nil {
				_ = renderer.Close()
			}
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		}
		return b, nil
	}
}
