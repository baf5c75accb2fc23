package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/VinniZP/lingx/core/config"
	"github.com/VinniZP/lingx/core/database"
	"github.com/VinniZP/lingx/core/loader"
	"github.com/VinniZP/lingx/core/logger"
	"github.com/VinniZP/lingx/core/middleware/auth"
	"github.com/VinniZP/lingx/core/middleware/rayid"
	"github.com/VinniZP/lingx/core/storage"

	"github.com/VinniZP/lingx/feature/branches"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// @title Lingx API
// @version 1.0
// @description API for branched translation catalog management.
// @host localhost:8080
// @BasePath /api

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the translation server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Connect to Database
		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Failed to connect to database", zap.Error(err))
		}
		if err := branches.Migrate(db); err != nil {
			logg.Fatal("Failed to migrate catalog tables", zap.Error(err))
		}

		// 4. Initialize Storage (only needed for snapshot archiving)
		var store storage.Client
		if cfg.Storage.ArchiveEnabled {
			store, err = storage.NewClient(cfg.Storage)
			if err != nil {
				logg.Fatal("Failed to create storage client", zap.Error(err))
			}
			if err := storage.EnsureBucket(cmd.Context(), store, cfg.Storage.Bucket); err != nil {
				logg.Fatal("Failed to prepare archive bucket", zap.Error(err))
			}
		}

		// 5. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// 6. Initialize Feature Loader
		mgr := loader.NewManager()
		mgr.Register(branches.NewFeature(db, store, cfg.Storage, cfg.Reconcile, logg))

		// Middleware Registration
		// RayID first so every log line of a request can be correlated.
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// Swagger Documentation (Public). Serves the spec generated by
		// `swag init` when present.
		app.Get("/swagger/*", swagger.HandlerDefault)

		// Auth protects the API surface.
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 7. Load Features
		api := app.Group("/api")
		if err := mgr.LoadAll(api); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 8. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(cfg.Server.Addr()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 9. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
