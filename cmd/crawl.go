package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"patch-tracker/core/config"
	"patch-tracker/core/database"
	"patch-tracker/core/fetch"
	"patch-tracker/core/logger"
	"patch-tracker/core/notify"
	"patch-tracker/core/storage"
	"patch-tracker/feature/patch"
	"patch-tracker/feature/patch/discover"
	"patch-tracker/feature/patch/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	initFlag   bool
	clicksFlag int
	gameFlag   string
)

// crawlCmd represents the crawl command
var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Crawl patch notes once and exit",
	Long: `Discovers patch note documents on the news index and persists the ones
not seen before. With --init the index is expanded in a headless browser
first, pulling older patches for an initial backfill.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		startTime := time.Now()

		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer logg.Sync()

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return fmt.Errorf("database connection required: %w", err)
		}
		if err := db.AutoMigrate(models.All()...); err != nil {
			return fmt.Errorf("failed to migrate schema: %w", err)
		}
		if err := patch.SeedDefaultGames(db); err != nil {
			return fmt.Errorf("failed to seed games: %w", err)
		}

		var archive *patch.Archive
		if cfg.Storage.Enabled {
			client, err := storage.NewClient(cfg.Storage)
			if err != nil {
				return fmt.Errorf("failed to create storage client: %w", err)
			}
			archive = patch.NewArchive(client, cfg.Storage.Bucket)
			if err := archive.EnsureBucket(ctx); err != nil {
				return fmt.Errorf("failed to prepare archive bucket: %w", err)
			}
		}

		var publisher notify.Publisher
		if cfg.Notify.Enabled() {
			publisher, err = notify.NewPublisher(cfg.Notify)
			if err != nil {
				return fmt.Errorf("failed to connect to redis: %w", err)
			}
		}

		fetcher := fetch.NewClient(30 * time.Second)
		svc := patch.NewService(patch.NewStore(db), fetcher, archive, publisher, logg)

		var summaries []patch.RunSummary
		switch {
		case initFlag:
			logg.Info("Starting initial backfill crawl", zap.Int("clicks", clicksFlag))
			summaries, err = svc.RunInit(ctx, clicksFlag)
		case gameFlag != "":
			logg.Info("Starting crawl", zap.String("game", gameFlag))
			var summary patch.RunSummary
			summary, err = svc.RunGame(ctx, gameFlag)
			summaries = []patch.RunSummary{summary}
		default:
			logg.Info("Starting incremental crawl")
			summaries, err = svc.RunAppend(ctx)
		}
		if err != nil {
			return fmt.Errorf("crawl failed: %w", err)
		}

		data, err := json.MarshalIndent(summaries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal summary: %w", err)
		}
		fmt.Println(string(data))

		for _, summary := range summaries {
			logg.Info("Crawl run completed",
				zap.String("game", summary.Game),
				zap.Int("found", summary.Found),
				zap.Int("new_patches", summary.NewPatches),
				zap.Int("failures", len(summary.Failures)),
			)
		}
		logg.Info("Crawl finished", zap.Duration("execution_time", time.Since(startTime)))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(crawlCmd)

	crawlCmd.Flags().BoolVar(&initFlag, "init", false, "Expand the index in a headless browser for an initial backfill")
	crawlCmd.Flags().IntVar(&clicksFlag, "clicks", discover.DefaultLoadMoreClicks, "How many times to click the index's load-more button with --init")
	crawlCmd.Flags().StringVar(&gameFlag, "game", "", "Crawl a single game (league-of-legends, teamfight-tactics, aram-mayhem)")
}
