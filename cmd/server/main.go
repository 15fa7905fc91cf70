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

	"go.uber.org/zap"

	"bazaarwale-backend/internal/api"
	"bazaarwale-backend/internal/config"
	"bazaarwale-backend/internal/logger"
	"bazaarwale-backend/internal/mail"
	"bazaarwale-backend/internal/payment"
	"bazaarwale-backend/internal/service"
	"bazaarwale-backend/internal/store"
	"bazaarwale-backend/internal/upload"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(cfg.App.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync() //nolint:errcheck

	if err := run(cfg, zl); err != nil {
		zl.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	db, err := store.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.DB)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		if err := db.Close(closeCtx); err != nil {
			zl.Warn("mongo disconnect", zap.Error(err))
		}
	}()
	zl.Info("connected to mongodb", zap.String("db", cfg.Mongo.DB))

	if err := db.EnsureIndexes(ctx, zl); err != nil {
		return err
	}

	var mailer mail.Mailer
	if cfg.Mail.Host != "" && cfg.Mail.User != "" {
		mailer = mail.NewSMTPMailer(cfg.Mail)
	} else {
		zl.Warn("smtp not configured, outgoing mail disabled")
		mailer = mail.NoopMailer{}
	}

	gateway := payment.NewClient(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret)
	uploads := upload.NewStore(cfg.Upload.Dir, cfg.Upload.MaxSizeBytes)

	authSvc := service.NewAuthService(db, cfg, zl, mailer)
	settingsSvc := service.NewSettingsService(db)
	productSvc := service.NewProductService(db, zl)
	categorySvc := service.NewCategoryService(db)
	cartSvc := service.NewCartService(db)
	orderSvc := service.NewOrderService(db, cfg, zl, gateway, mailer, productSvc, settingsSvc)
	reviewSvc := service.NewReviewService(db, zl)
	payoutSvc := service.NewPayoutService(db, settingsSvc)
	blogSvc := service.NewBlogService(db, zl)
	vendorSvc := service.NewVendorService(db, authSvc)
	contactSvc := service.NewContactService(db, mailer, zl)
	addressSvc := service.NewAddressService(db)

	app := api.New(api.Deps{
		Config:     cfg,
		Log:        zl,
		Auth:       authSvc,
		Products:   productSvc,
		Categories: categorySvc,
		Carts:      cartSvc,
		Orders:     orderSvc,
		Reviews:    reviewSvc,
		Payouts:    payoutSvc,
		Settings:   settingsSvc,
		Blogs:      blogSvc,
		Vendors:    vendorSvc,
		Contacts:   contactSvc,
		Addresses:  addressSvc,
		Uploads:    uploads,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           app.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zl.Info("listening", zap.String("addr", srv.Addr), zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		zl.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	return srv.Shutdown(shutdownCtx)
}
