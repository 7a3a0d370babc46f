package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"sokoni/cmd"
	"sokoni/internal/data/repository"
	"sokoni/internal/docstore"
	"sokoni/internal/jobs"
	"sokoni/internal/payments"
	"sokoni/internal/usecase"
	"sokoni/internal/wire"
	"sokoni/pkg/database"
	"sokoni/pkg/utils"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Change notifications over redis pub/sub
	notifier, err := docstore.NewNotifier(config.Redis, logger)
	if err != nil {
		logger.Fatal("Failed to connect to redis", zap.Error(err))
	}
	defer notifier.Close()

	store := docstore.NewPostgresStore(db, notifier, logger)

	// Initialize all repositories
	repos := repository.NewRepository(store, logger)

	// Mobile-money aggregator client
	provider := payments.NewClient(config.Payment, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, provider, config, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Ticket issuance coordinator follows the payments collection
	issuer := usecase.NewIssuer(repos, app.Service.Ticket, logger)
	go func() {
		if err := issuer.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("Ticket issuer stopped", zap.Error(err))
		}
	}()

	// Scheduled read-repair sweeps
	reconciler := jobs.NewReconciler(repos, logger)
	if err := reconciler.Start(); err != nil {
		logger.Fatal("Failed to start reconciler", zap.Error(err))
	}
	defer reconciler.Stop()

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port)
}
