package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	database "github.com/sebuszqo/FinanceLedger/db"
	"github.com/sebuszqo/FinanceLedger/internal/auth"
	"github.com/sebuszqo/FinanceLedger/internal/config"
	"github.com/sebuszqo/FinanceLedger/internal/finance/application"
	"github.com/sebuszqo/FinanceLedger/internal/finance/infrastructure"
	"github.com/sebuszqo/FinanceLedger/internal/finance/interfaces"
	"github.com/sebuszqo/FinanceLedger/internal/logger"
	"github.com/sebuszqo/FinanceLedger/internal/middleware"
	"github.com/sebuszqo/FinanceLedger/internal/user"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.MigrationsEnabled {
		if err := database.RunMigrations(cfg.DBConnectionString, log); err != nil {
			return fmt.Errorf("could not run migrations: %w", err)
		}
	}

	dbService, err := database.NewDBService(ctx, cfg.DBConnectionString, log)
	if err != nil {
		return fmt.Errorf("could not initialize database: %w", err)
	}
	defer dbService.Close()

	userRepo := user.NewUserRepository(dbService.DB)
	userService := user.NewUserService(userRepo)
	userHandler := user.NewHandler(userService, auth.UserIDFromContext)

	sessionManager := auth.NewSessionManager()
	sessionManager.StartSessionTokenCleanup(ctx, time.Minute)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)
	authService := auth.NewAuthService(
		auth.NewTwoFactorRepository(dbService.DB),
		userService,
		sessionManager,
		jwtManager,
		auth.NewAuthenticator(cfg.TwoFactorIssuer),
	)
	authHandler := auth.NewHandler(authService)

	categoryService := application.NewCategoryService(infrastructure.NewCategoryRepository(dbService.DB))
	transactionService := application.NewTransactionService(infrastructure.NewTransactionRepository(dbService.DB), categoryService)
	savingsService := application.NewSavingsService(infrastructure.NewSavingsGoalRepository(dbService.DB))
	reminderService := application.NewReminderService(infrastructure.NewReminderRepository(dbService.DB))

	server := &Server{
		authHandler:        authHandler,
		userHandler:        userHandler,
		authService:        authService,
		transactionHandler: interfaces.NewTransactionHandler(transactionService, interfaces.RespondJSON, interfaces.RespondError),
		categoryHandler:    interfaces.NewCategoryHandler(categoryService, interfaces.RespondJSON, interfaces.RespondError),
		savingsHandler:     interfaces.NewSavingsHandler(savingsService, interfaces.RespondJSON, interfaces.RespondError),
		reminderHandler:    interfaces.NewReminderHandler(reminderService, interfaces.RespondJSON, interfaces.RespondError),
		internalHandler:    interfaces.NewInternalHandler(savingsService, interfaces.RespondJSON, interfaces.RespondError),
		cronSecret:         cfg.CronSecret,
		health:             dbService.Health,
	}
	server.RegisterRoutes()

	if cfg.SchedulerEnabled {
		scheduler, err := StartAutoSavingsScheduler(cfg.AutoSavingsSchedule, savingsService, log)
		if err != nil {
			return fmt.Errorf("scheduler didn't start: %w", err)
		}
		defer func() { <-scheduler.Stop().Done() }()
	} else {
		log.Info().Msg("scheduler disabled, auto savings run only through the internal endpoint")
	}

	httpServer := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: middleware.Chain(server,
			middleware.RequestID(log),
			middleware.Logger(log),
			middleware.Recovery(log),
		),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
