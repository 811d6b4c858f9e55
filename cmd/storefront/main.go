package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/config"
	"storefront/internal/mail"
	"storefront/internal/observability/logging"
	"storefront/internal/observability/metrics"
	impl "storefront/internal/service/impl"
	"storefront/internal/storage"
	"storefront/internal/store"
	transport "storefront/internal/transport/http"
	"storefront/pkg/db"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(logging.Config{
		ServiceName: "storefront",
		Environment: cfg.Environment,
		Level:       cfg.LogLevel,
	})
	slog.SetDefault(logger)
	logger.Info("starting service")

	metrics.MustRegister(prometheus.DefaultRegisterer, "storefront")

	ctx := context.Background()

	// 1) DB + schema
	gdb, err := db.OpenGorm(ctx, db.Config{DSN: cfg.DatabaseURL, LogSQL: cfg.LogSQL})
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}
	if err := store.Migrate(ctx, gdb); err != nil {
		logger.Error("migrate", "error", err)
		os.Exit(1)
	}
	st := store.New(gdb)

	// 2) Collaborators
	images, uploads, err := openImageStores(ctx, cfg)
	if err != nil {
		logger.Error("image storage", "driver", cfg.StorageDriver, "error", err)
		os.Exit(1)
	}
	notifier, err := mail.NewNotifier(mailSender(cfg), cfg.MailFrom)
	if err != nil {
		logger.Error("mail templates", "error", err)
		os.Exit(1)
	}

	// 3) Services
	pw := impl.NewPasswordServiceBcrypt(cfg.BcryptCost)
	ts, err := impl.NewTokenServiceHS256(impl.TokenConfig{
		Issuer:     cfg.Issuer,
		AccessTTL:  cfg.AccessTTL,
		SigningKey: []byte(cfg.SigningKey),
	})
	if err != nil {
		logger.Error("token service", "error", err)
		os.Exit(1)
	}
	as, err := impl.NewAuthServiceImpl(st, pw, ts, notifier, impl.AuthConfig{
		AppDomain:    cfg.AppDomain,
		ClientDomain: cfg.ClientDomain,
	})
	if err != nil {
		logger.Error("auth service", "error", err)
		os.Exit(1)
	}

	// 4) HTTP
	router := transport.NewRouter(transport.Deps{
		Auth:               as,
		Users:              impl.NewUserServiceImpl(st, pw, images),
		Products:           impl.NewProductServiceImpl(st),
		Reviews:            impl.NewReviewServiceImpl(st),
		Tokens:             ts,
		Uploads:            uploads,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		CORSOrigins:        cfg.CORSOrigins,
		Ready:              st.Ping,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	serverErr := make(chan error, 1)
	go func() {
		slog.Info("storefront listening", "addr", srv.Addr, "issuer", cfg.Issuer, "storage", cfg.StorageDriver, "mail", cfg.MailDriver)
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	case sig := <-shutdown:
		logger.Info("shutting down", "signal", sig.String())
		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
			_ = srv.Close()
		}
	}
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info("stopped")
}

func mailSender(cfg config.Config) mail.Sender {
	if cfg.MailDriver == "smtp" {
		return mail.NewSMTPSender(mail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			Timeout:  10 * time.Second,
		})
	}
	return mail.NewLogSender()
}

// openImageStores returns the profile image store and the generic uploads store.
func openImageStores(ctx context.Context, cfg config.Config) (storage.ImageStore, storage.ImageStore, error) {
	if cfg.StorageDriver == "s3" {
		s3cfg := storage.S3Config{
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3Endpoint,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			Bucket:       cfg.S3Bucket,
		}
		s3cfg.Prefix = "users"
		images, err := storage.NewS3Store(ctx, s3cfg)
		if err != nil {
			return nil, nil, err
		}
		s3cfg.Prefix = "uploads"
		uploads, err := storage.NewS3Store(ctx, s3cfg)
		if err != nil {
			return nil, nil, err
		}
		return images, uploads, nil
	}
	images, err := storage.NewLocalStore(cfg.ImagesDir)
	if err != nil {
		return nil, nil, err
	}
	uploads, err := storage.NewLocalStore(cfg.UploadsDir)
	if err != nil {
		return nil, nil, err
	}
	return images, uploads, nil
}
