package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "diamondtrade/api/swagger" // swagger docs
	"diamondtrade/internal/cache"
	"diamondtrade/internal/config"
	"diamondtrade/internal/database"
	"diamondtrade/internal/handler"
	"diamondtrade/internal/logger"
	"diamondtrade/internal/printing"
	"diamondtrade/internal/repository"
	"diamondtrade/internal/service"
	"diamondtrade/internal/websocket"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// @title           Diamond Trade API
// @version         1.0
// @description     Clients, diamond lots, invoices and dashboard statistics for a diamond trading business.
// @host            localhost:8080
// @BasePath        /
func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback, _ := logger.New(nil)
		fallback.Fatal("Failed to load configuration", zap.Error(err))
	}

	logCfg := &logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output}
	if logCfg.Format == "" && cfg.IsProduction() {
		logCfg.Format = "json"
	}
	log, err := logger.New(logCfg)
	if err != nil {
		fallback, _ := logger.New(nil)
		fallback.Fatal("Failed to create logger", zap.Error(err))
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("Server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gin.SetMode(cfg.App.GinMode)

	db, err := database.NewConnection(cfg.DSN(), log, cfg.IsProduction())
	if err != nil {
		return err
	}
	log.Info("Connected to PostgreSQL successfully")

	statsCache := cache.New(cfg.Redis, log)
	defer statsCache.Close()

	// Set up WebSocket Hub
	wsHub := websocket.NewHub(log)
	go wsHub.Run(ctx)

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	clientRepo := repository.NewClientRepository(db)
	diamondRepo := repository.NewDiamondRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	statsRepo := repository.NewStatisticsRepository(db)

	statisticsService := service.NewStatisticsService(clientRepo, invoiceRepo, diamondRepo, statsRepo, statsCache, cfg.Stats.CacheTTL, log)
	clientService := service.NewClientService(clientRepo, invoiceRepo, auditRepo, txManager, log)
	diamondService := service.NewDiamondService(diamondRepo, clientRepo, auditRepo, txManager, statisticsService, wsHub, log)
	invoiceService := service.NewInvoiceService(invoiceRepo, diamondRepo, clientRepo, companyRepo, auditRepo, txManager, statisticsService, wsHub, log)
	companyService := service.NewCompanyService(companyRepo, auditRepo, txManager, log)
	auditService := service.NewAuditService(auditRepo)

	templates, err := printing.NewTemplateEngine()
	if err != nil {
		return err
	}

	var pdf printing.PDFRenderer
	if cfg.PDF.Enabled {
		renderer := printing.NewChromedpRenderer(printing.ChromedpConfig{
			RemoteURL: cfg.PDF.RemoteURL,
			Timeout:   cfg.PDF.Timeout,
			NoSandbox: true,
		}, log)
		defer renderer.Close()
		pdf = renderer
	} else {
		log.Info("PDF export disabled")
	}

	router := handler.NewRouter(handler.RouterConfig{
		Logger:      log,
		CORSOrigins: cfg.HTTP.CORSOrigins,
		Hub:         wsHub,
		Swagger:     !cfg.IsProduction(),
		Handlers: []handler.Routes{
			handler.NewClientHandler(clientService),
			handler.NewDiamondHandler(diamondService),
			handler.NewInvoiceHandler(invoiceService, templates, pdf),
			handler.NewCompanyHandler(companyService),
			handler.NewStatisticsHandler(statisticsService),
			handler.NewAuditHandler(auditService),
		},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
