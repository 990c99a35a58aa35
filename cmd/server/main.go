package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nekogravitycat/studio-booking-backend/internal/app"
	"github.com/nekogravitycat/studio-booking-backend/internal/config"
	"github.com/nekogravitycat/studio-booking-backend/internal/db"
	"github.com/nekogravitycat/studio-booking-backend/internal/notify"
	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/storage"
)

func main() {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Connect DB
	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}
	defer pool.Close()

	if cfg.MigrateOnStart {
		if err := db.Migrate(ctx, pool); err != nil {
			log.Fatalf("failed to migrate db: %v", err)
		}
	}

	store, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		log.Fatalf("failed to init storage: %v", err)
	}

	notifier, err := newNotifier(cfg)
	if err != nil {
		log.Fatalf("failed to init notifier: %v", err)
	}

	container := app.NewContainer(app.Config{
		IsProduction:             cfg.IsProduction,
		ProdOrigins:              cfg.ProdOrigins,
		DBPool:                   pool,
		JWTSecret:                cfg.JWTSecret,
		JWTTTL:                   cfg.JWTAccessTokenTTL,
		BcryptCost:               cfg.BcryptCost,
		Location:                 cfg.Location,
		RequireEmailVerification: cfg.RequireEmailVerification,
		CodeLength:               cfg.CodeLength,
		CodeMaxAttempts:          cfg.CodeMaxAttempts,
		MaxRangeDays:             cfg.MaxRangeDays,
		PublicBaseURL:            cfg.PublicBaseURL,
		Notifier:                 notifier,
		Storage:                  store,
		PhotoMaxBytes:            cfg.PhotoMaxBytes,
	})

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := container.StaffService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.Fatalf("failed to seed admin account: %v", err)
		}
	}

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           container.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Run server in separate goroutine
	go func() {
		log.Printf("server running on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Wait for Ctrl+C
	<-ctx.Done()
	log.Println("shutdown signal received")

	// Create a shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("server forced to shutdown: %v", err)
	}

	log.Println("server exited gracefully")
}

// newNotifier routes e-mail and phone recipients to the configured channels and logs the rest.
func newNotifier(cfg *config.Config) (notify.Notifier, error) {
	router := &notify.Router{Fallback: notify.LogNotifier{}}
	if cfg.SMTP.Host != "" {
		email, err := notify.NewSMTPNotifier(notify.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			Timeout:  cfg.SMTP.Timeout,
		})
		if err != nil {
			return nil, err
		}
		router.Email = email
	}
	if cfg.Twilio.AccountSID != "" {
		router.Phone = notify.NewTwilioNotifier(notify.TwilioConfig{
			AccountSID:   cfg.Twilio.AccountSID,
			AuthToken:    cfg.Twilio.AuthToken,
			From:         cfg.Twilio.From,
			WhatsAppFrom: cfg.Twilio.WhatsAppFrom,
		})
	}
	return router, nil
}
