package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"padel-backend/internal/api/router"
	"padel-backend/internal/config"
	"padel-backend/internal/infrastructure/database"
	"padel-backend/pkg/logger"

	"github.com/spf13/cobra"
)

var (
	port string
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the Padel Registration HTTP server",
	Long: `Start the HTTP server for padel tournament registrations.
This includes:
- Registration CRUD endpoints with pair uniqueness enforcement
- Payment amount reconciliation against category prices
- Weekly unavailability slot validation and replacement
- Redis caching for collaborator lookups`,
	Run: func(cmd *cobra.Command, args []string) {
		startServer()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.Flags().StringVarP(&port, "port", "p", "8080", "Port for the server to listen on")
}

func startServer() {
	cfg := config.Get()
	if port != "8080" {
		cfg.Server.Port = port
	}

	dbConfig := database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.Username,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.Name,
		SSLMode:  cfg.Database.SSLMode,
	}

	db, err := database.NewConnection(dbConfig)
	if err != nil {
		logger.Error("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	if err := database.RunMigrations(db); err != nil {
		logger.Error("Failed to run database migrations: %v", err)
		os.Exit(1)
	}

	if err := database.HealthCheck(db); err != nil {
		logger.Error("Database health check failed: %v", err)
		os.Exit(1)
	}

	r := router.NewRouter(db)
	srv := &http.Server{
		Addr:           ":" + cfg.Server.Port,
		Handler:        r,
		ReadTimeout:    time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.Server.WriteTimeout) * time.Second,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		logger.Info("Starting Padel Registration Server on port %s", cfg.Server.Port)
		logger.Info("Available endpoints:")
		logger.Info("  GET    /api/v1/registrations - List registrations")
		logger.Info("  POST   /api/v1/registrations - Create a registration")
		logger.Info("  GET    /api/v1/registrations/{id} - Get a registration")
		logger.Info("  PATCH  /api/v1/registrations/{id} - Update a registration")
		logger.Info("  DELETE /api/v1/registrations/{id} - Delete a registration")
		logger.Info("  GET    /health - Health check")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}
