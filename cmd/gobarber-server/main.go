package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gobarber/gobarber/internal/config"
	"github.com/gobarber/gobarber/internal/domain/account"
	"github.com/gobarber/gobarber/internal/domain/booking"
	"github.com/gobarber/gobarber/internal/domain/notification"
	"github.com/gobarber/gobarber/internal/platform/auth"
	"github.com/gobarber/gobarber/internal/platform/db"
	"github.com/gobarber/gobarber/internal/platform/mail"
	"github.com/gobarber/gobarber/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gobarber-server",
		Short: "GoBarber appointment booking API",
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}
	migrateUpCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrations("up")
		},
	}
	migrateStatusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrations("status")
		},
	}
	migrateCmd.AddCommand(migrateUpCmd, migrateStatusCmd)

	rootCmd.AddCommand(serveCmd, migrateCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	if cfg.IsDev() {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := newLogger(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()
	logger.Info().Msg("database connected")

	// Repositories
	accountRepo := account.NewPgRepository(pool)
	bookingRepo := booking.NewPgRepository(pool)
	notificationRepo := notification.NewPgRepository(pool)

	// Services
	accountSvc := account.NewService(accountRepo, logger)
	notificationSvc := notification.NewService(notificationRepo, &providerCheckerAdapter{accounts: accountSvc}, logger)

	mailSender := mail.NewSMTPSender(cfg.SMTPAddr, cfg.SMTPFrom)
	bookingSvc := booking.NewService(
		bookingRepo,
		&accountDirectoryAdapter{accounts: accountSvc},
		&notifierAdapter{notifications: notificationSvc},
		mailSender,
		logger,
	)

	// Handlers
	accountHandler := account.NewHandler(accountSvc, logger)
	bookingHandler := booking.NewHandler(bookingSvc, logger)
	notificationHandler := notification.NewHandler(notificationSvc, logger)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType},
	}))
	e.Use(middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	public := e.Group("")
	accountHandler.RegisterPublicRoutes(public)

	authed := e.Group("", auth.JWTMiddleware([]byte(cfg.JWTSecret)))
	accountHandler.RegisterRoutes(authed)
	bookingHandler.RegisterRoutes(authed)
	notificationHandler.RegisterRoutes(authed)

	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("server listening")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

func runMigrations(action string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := newLogger(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	migrator := db.NewMigrator(pool, "migrations")
	switch action {
	case "up":
		applied, err := migrator.Up(ctx)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		logger.Info().Int("applied", applied).Msg("migrations complete")
	case "status":
		statuses, err := migrator.Status(ctx)
		if err != nil {
			return fmt.Errorf("failed to read migration status: %w", err)
		}
		for _, s := range statuses {
			state := "pending"
			if s.Applied {
				state = "applied"
			}
			fmt.Printf("%3d  %-40s %s\n", s.Version, s.Name, state)
		}
	}
	return nil
}

// accountDirectoryAdapter exposes account lookups to the booking engine.
type accountDirectoryAdapter struct {
	accounts *account.Service
}

func (a *accountDirectoryAdapter) GetParticipant(ctx context.Context, id uuid.UUID) (*booking.Participant, error) {
	acct, err := a.accounts.GetByID(ctx, id)
	if err == account.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &booking.Participant{
		ID:       acct.ID,
		Name:     acct.Name,
		Email:    acct.Email,
		Provider: acct.Provider,
	}, nil
}

// notifierAdapter records booking notifications through the
// notification service.
type notifierAdapter struct {
	notifications *notification.Service
}

func (n *notifierAdapter) Notify(ctx context.Context, recipientID uuid.UUID, content string) error {
	_, err := n.notifications.Append(ctx, recipientID, content)
	return err
}

// providerCheckerAdapter answers provider checks for the notification
// inbox.
type providerCheckerAdapter struct {
	accounts *account.Service
}

func (p *providerCheckerAdapter) IsProvider(ctx context.Context, id uuid.UUID) (bool, error) {
	acct, err := p.accounts.GetByID(ctx, id)
	if err == account.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return acct.Provider, nil
}
