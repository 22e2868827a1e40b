package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"patch-tracker/core/config"
	"patch-tracker/core/database"
	"patch-tracker/core/fetch"
	"patch-tracker/core/loader"
	"patch-tracker/core/logger"
	"patch-tracker/core/middleware/auth"
	"patch-tracker/core/middleware/rayid"
	"patch-tracker/core/notify"
	"patch-tracker/core/storage"

	"patch-tracker/feature/patch"
	"patch-tracker/feature/patch/models"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the patch tracker server",
	Long:  `Starts the HTTP server exposing the crawl API.`,
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

		// 3. Connect to Database (Required)
		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Failed to connect to database", zap.Error(err))
		}
		if err := db.AutoMigrate(models.All()...); err != nil {
			logg.Fatal("Failed to migrate schema", zap.Error(err))
		}
		if err := patch.SeedDefaultGames(db); err != nil {
			logg.Fatal("Failed to seed games", zap.Error(err))
		}
		logg.Info("Connected to patch database")

		// 4. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// 5. Initialize Archive Storage (Optional)
		var archive *patch.Archive
		if cfg.Storage.Enabled {
			store, err := storage.NewClient(cfg.Storage)
			if err != nil {
				logg.Fatal("Failed to create storage client", zap.Error(err))
			}
			archive = patch.NewArchive(store, cfg.Storage.Bucket)
			if err := archive.EnsureBucket(cmd.Context()); err != nil {
				logg.Fatal("Failed to prepare archive bucket", zap.Error(err))
			}
			logg.Info("Raw document archive enabled", zap.String("bucket", cfg.Storage.Bucket))
		}

		// 6. Initialize Invalidation Publisher (Optional)
		var publisher notify.Publisher
		if cfg.Notify.Enabled() {
			publisher, err = notify.NewPublisher(cfg.Notify)
			if err != nil {
				logg.Fatal("Failed to connect to redis", zap.Error(err))
			}
			logg.Info("Cache invalidation enabled", zap.String("channel", cfg.Notify.Channel))
		}

		// 7. Initialize Feature Loader
		mgr := loader.NewManager()
		fetcher := fetch.NewClient(30 * time.Second)
		mgr.Register(patch.NewFeature(db, fetcher, archive, publisher, logg))

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Custom to use Zap + RayID)
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

		// 3. Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 8. Load Features
		if err := mgr.LoadAll(app.Group("/api")); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 9. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 10. Graceful Shutdown
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
