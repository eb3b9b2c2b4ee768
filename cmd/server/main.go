package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gsarma/folio/internal/api"
	"github.com/gsarma/folio/internal/auth"
	"github.com/gsarma/folio/internal/config"
	"github.com/gsarma/folio/internal/email"
	"github.com/gsarma/folio/internal/logging"
	"github.com/gsarma/folio/internal/metrics"
	"github.com/gsarma/folio/internal/newsletter"
	"github.com/gsarma/folio/internal/oauth"
	"github.com/gsarma/folio/internal/ratelimit"
	"github.com/gsarma/folio/internal/store"
	"github.com/gsarma/folio/internal/upload"
	"github.com/gsarma/folio/internal/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	if err := store.Migrate(ctx, pool); err != nil {
		return err
	}
	queries := store.New(pool)

	tokens, err := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL)
	if err != nil {
		return err
	}
	authSvc := auth.NewService(queries, tokens)
	seeded, err := authSvc.SeedAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword, cfg.Auth.AdminName)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if seeded {
		logging.Info().Str("email", cfg.Auth.AdminEmail).Msg("created admin account")
	}

	mailer, err := email.NewFromConfig(cfg.Mail)
	if err != nil {
		return err
	}
	dispatcher := newsletter.New(mailer, newsletter.Config{
		From:        cfg.Mail.From(),
		BaseURL:     cfg.Server.BaseURL,
		SiteName:    cfg.Server.SiteName,
		Concurrency: cfg.Newsletter.Concurrency,
		SendTimeout: cfg.Newsletter.SendTimeout,
		SendRate:    cfg.Newsletter.SendRate,
	}, logging.WithComponent("newsletter"))

	checks := []api.HealthCheck{{Name: "database", Ping: pool.Ping}}

	var limiter ratelimit.Limiter
	if cfg.RateLimit.RedisURL != "" {
		rl, err := ratelimit.NewRedis(ctx, cfg.RateLimit.RedisURL, cfg.RateLimit.PerMinute)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer rl.Close()
		limiter = rl
		checks = append(checks, api.HealthCheck{Name: "redis", Ping: rl.Ping})
	} else {
		mem := ratelimit.NewMemory(cfg.RateLimit.PerMinute)
		mem.StartCleanup(ctx, 5*time.Minute)
		limiter = mem
	}

	var google oauth.Provider
	if cfg.Auth.GoogleEnabled() {
		google = oauth.NewGoogleProvider(oauth.GoogleConfig{
			ClientID:     cfg.Auth.GoogleClientID,
			ClientSecret: cfg.Auth.GoogleClientSecret,
			RedirectURL:  cfg.Server.BaseURL + "/api/auth/google/callback",
		})
	}

	if err := validation.RegisterGinValidators(); err != nil {
		return err
	}
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), logging.Middleware(), metrics.Middleware())

	h := api.NewHandler(api.Deps{
		Queries:    queries,
		Newsletter: dispatcher,
		Mailer:     mailer,
		Uploads:    upload.NewRelay(upload.Config{APIKey: cfg.Upload.ImgBBAPIKey}),
		Auth:       authSvc,
		Google:     google,
		Checks:     checks,
		Options: api.Options{
			BaseURL:             cfg.Server.BaseURL,
			SiteName:            cfg.Server.SiteName,
			MailFrom:            cfg.Mail.From(),
			ContactInbox:        cfg.Mail.FromAddress,
			SecureCookies:       cfg.SecureCookies(),
			UploadMaxBytes:      cfg.Upload.MaxBytes,
			ContactConfirmation: cfg.Mail.ContactConfirmation,
		},
	})
	api.RegisterRoutes(router, h, limiter)

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", srv.Addr).Msg("listening")
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

	logging.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
