package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"portfolio-backend/config"
	_ "portfolio-backend/docs" // Important for Swagger
	v1 "portfolio-backend/internal/delivery/http/v1"
	"portfolio-backend/internal/usecase"
	"portfolio-backend/pkg/audit"
	"portfolio-backend/pkg/email"
	"portfolio-backend/pkg/logger"
	"portfolio-backend/pkg/mailer"
)

// @title           Portfolio Contact API
// @version         1.0
// @description     Contact form intake and email dispatch for the portfolio site.
// @host            localhost:8080
// @BasePath        /
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init(cfg.IsProduction(), cfg.LogLevel)
	logger.Log.Info("Starting portfolio backend", "port", cfg.Port, "env", cfg.AppEnv, "mail_driver", cfg.MailDriver)

	auditLog := audit.New("portfolio-backend", cfg.AppEnv)
	defer func() { _ = auditLog.Sync() }()

	// 3. Setup Mail Transport
	transport, err := mailer.New(mailer.Config{
		Driver: cfg.MailDriver,
		SMTP: mailer.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.EmailUser,
			Password: cfg.EmailAppPassword,
			TLSMode:  cfg.SMTPTLSMode,
			Timeout:  cfg.SMTPTimeout,
		},
		Postmark: mailer.PostmarkConfig{
			ServerToken:  cfg.PostmarkServerToken,
			AccountToken: cfg.PostmarkAccountToken,
		},
		DumpDir: cfg.MailDumpDir,
	})
	if err != nil {
		logger.Log.Error("Failed to set up mail transport", "error", err)
		os.Exit(1)
	}

	// 4. Setup Renderer
	profile := email.DefaultProfile()
	profile.OwnerName = cfg.OwnerName
	profile.OwnerTitle = cfg.OwnerTitle
	renderer := email.NewRenderer(profile)

	// 5. Setup UseCases
	contactUC := usecase.NewContactUsecase(transport, renderer, usecase.ContactConfig{
		From:             cfg.EmailFrom,
		To:               cfg.EmailTo,
		SendAutoReply:    cfg.SendAutoReply,
		AckFailurePolicy: cfg.AckFailurePolicy,
	}, time.Now, auditLog)
	healthUC := usecase.NewHealthUsecase(transport, cfg.MailDriver)

	// 6. Setup Router
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	router := v1.NewRouter(v1.RouterDeps{
		ContactUC:         contactUC,
		HealthUC:          healthUC,
		Audit:             auditLog,
		ExposeErrorDetail: !cfg.IsProduction(),
		MaxBodyBytes:      cfg.MaxBodyBytes,
	})

	// 7. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
