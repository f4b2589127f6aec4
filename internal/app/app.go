package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/authkit-go/authkit/internal/config"
	"github.com/authkit-go/authkit/internal/database"
	"github.com/authkit-go/authkit/internal/http/router"
	"github.com/authkit-go/authkit/internal/i18n"
	"github.com/authkit-go/authkit/internal/mail"
	"github.com/authkit-go/authkit/internal/repository"
	"github.com/authkit-go/authkit/internal/security"
	"github.com/authkit-go/authkit/internal/service"
)

// App wires configuration, storage, services and the HTTP server together.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
	server *http.Server
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	keys, err := security.LoadOrCreateKeys(cfg.RSAKeysPath, cfg.PrivateKeyFilename, cfg.PublicKeyFilename)
	if err != nil {
		return nil, fmt.Errorf("load signing keys: %w", err)
	}
	jwtMgr := security.NewJWTManager(keys, cfg.JWTIssuer, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	bundle, err := i18n.New(cfg.LocalesDir, cfg.DefaultLocale)
	if err != nil {
		return nil, fmt.Errorf("load locales: %w", err)
	}

	var notifier service.Notifier
	if cfg.SMTPEnabled() {
		notifier = mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom)
	} else {
		logger.Warn("smtp not configured, mails are logged instead of sent")
		notifier = mail.NewLogMailer(logger)
	}

	users := repository.NewUserRepository(db)
	codes := repository.NewVerificationCodeRepository(db)

	tokens := service.NewTokenService(jwtMgr, users)
	verification := service.NewVerificationService(codes, cfg.ResendCooldown, cfg.VerificationCodeTTL)
	auth := service.NewAuthService(tokens, verification, users, notifier, bundle, logger, cfg.AppName)

	handler := router.New(cfg, auth, bundle, logger)

	return &App{
		cfg:    cfg,
		logger: logger,
		server: &http.Server{
			Addr:              ":" + cfg.HTTPPort,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("http server listening", "addr", a.server.Addr, "env", a.cfg.Env)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down http server")
		return a.server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
