package patch

import (
	"context"
	"fmt"
	"time"

	"patch-tracker/core/fetch"
	"patch-tracker/core/notify"
	"patch-tracker/feature/patch/discover"

	"go.uber.org/zap"
)

// browserFetchFunc renders a page in a headless browser, expanding the index
// clicks times before reading the markup. Injected so tests run without a
// browser.
type browserFetchFunc func(ctx context.Context, url string, clicks int) (string, error)

// Service ties discovery, sync and notification together. One invocation runs
// each game fully before the next; nothing is interleaved.
type Service struct {
	store        Store
	syncer       *Syncer
	fetcher      fetch.Fetcher
	browserFetch browserFetchFunc
	publisher    notify.Publisher
	logger       *zap.Logger
}

// NewService creates the crawl service. archive and publisher may be nil when
// the respective backends are disabled.
func NewService(store Store, fetcher fetch.Fetcher, archive *Archive, publisher notify.Publisher, log *zap.Logger) *Service {
	return &Service{
		store:        store,
		syncer:       NewSyncer(store, fetcher, archive, log),
		fetcher:      fetcher,
		browserFetch: discover.FetchWithLoadMore,
		publisher:    publisher,
		logger:       log,
	}
}

// RunAppend performs the routine incremental pull: a single static read of
// the index, then one sync run per game.
func (s *Service) RunAppend(ctx context.Context) ([]RunSummary, error) {
	links, err := s.discoverStatic(ctx)
	if err != nil {
		return nil, err
	}
	return s.runAll(ctx, links)
}

// RunInit performs the deep historical pull: the index is expanded in a
// headless browser before discovery so older patch links become visible.
func (s *Service) RunInit(ctx context.Context, clicks int) ([]RunSummary, error) {
	html, err := s.browserFetch(ctx, discover.GameUpdatesURL, clicks)
	if err != nil {
		return nil, fmt.Errorf("expand index: %w", err)
	}
	links, err := discover.ParsePatchLinks(html)
	if err != nil {
		return nil, err
	}
	return s.runAll(ctx, links)
}

// RunGame syncs a single game from a static index read. The short aliases
// lol and tft are accepted alongside the full slugs. The Mayhem game has no
// documents of its own, so requesting it runs the LoL sync that carries its
// embedded section.
func (s *Service) RunGame(ctx context.Context, slug string) (RunSummary, error) {
	links, err := s.discoverStatic(ctx)
	if err != nil {
		return RunSummary{}, err
	}

	var summary RunSummary
	switch slug {
	case "lol", SlugLol, SlugMayhem:
		summary, err = s.syncer.SyncLol(ctx, links.Lol)
	case "tft", SlugTft:
		summary, err = s.syncer.SyncTft(ctx, links.Tft)
	default:
		return RunSummary{}, fmt.Errorf("unknown game %q", slug)
	}
	if err != nil {
		return summary, err
	}

	s.publish(ctx, summary)
	return summary, nil
}

// GameStatus is one game's sync position relative to the live index.
type GameStatus struct {
	Game          string     `json:"game"`
	LastCrawledAt *time.Time `json:"last_crawled_at"`
	Persisted     int        `json:"persisted"`
	Missing       []string   `json:"missing,omitempty"`
}

// Status compares persisted versions against the currently visible index and
// reports, per game, what a run would pick up.
func (s *Service) Status(ctx context.Context) ([]GameStatus, error) {
	links, err := s.discoverStatic(ctx)
	if err != nil {
		return nil, err
	}

	statuses := make([]GameStatus, 0, 3)
	for _, entry := range []struct {
		slug  string
		links []discover.PatchLink
	}{
		{SlugLol, links.Lol},
		{SlugTft, links.Tft},
		// Mayhem versions ride inside LoL documents; its gap set is not
		// meaningful since not every patch carries the section.
		{SlugMayhem, nil},
	} {
		status, err := s.gameStatus(ctx, entry.slug, entry.links)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func (s *Service) gameStatus(ctx context.Context, slug string, links []discover.PatchLink) (GameStatus, error) {
	game, err := s.store.GameBySlug(ctx, slug)
	if err != nil {
		return GameStatus{}, err
	}
	versions, err := s.store.Versions(ctx, game.ID)
	if err != nil {
		return GameStatus{}, err
	}
	lastRun, err := s.store.LastRun(ctx, game.ID)
	if err != nil {
		return GameStatus{}, err
	}

	status := GameStatus{
		Game:          slug,
		LastCrawledAt: lastRun,
		Persisted:     len(versions),
	}
	for _, link := range links {
		if _, ok := versions[link.Version]; !ok {
			status.Missing = append(status.Missing, link.Version)
		}
	}
	return status, nil
}

func (s *Service) discoverStatic(ctx context.Context) (discover.PatchLinks, error) {
	html, err := s.fetcher.Fetch(ctx, discover.GameUpdatesURL)
	if err != nil {
		return discover.PatchLinks{}, fmt.Errorf("fetch index: %w", err)
	}
	return discover.ParsePatchLinks(html)
}

// runAll syncs every game sequentially. A fatal error in one game's run stops
// the invocation; summaries of completed runs are still returned.
func (s *Service) runAll(ctx context.Context, links discover.PatchLinks) ([]RunSummary, error) {
	var summaries []RunSummary

	lolSummary, err := s.syncer.SyncLol(ctx, links.Lol)
	if err != nil {
		return summaries, err
	}
	summaries = append(summaries, lolSummary)
	s.publish(ctx, lolSummary)

	tftSummary, err := s.syncer.SyncTft(ctx, links.Tft)
	if err != nil {
		return summaries, err
	}
	summaries = append(summaries, tftSummary)
	s.publish(ctx, tftSummary)

	return summaries, nil
}

// publish emits cache-invalidation events for games a run actually changed.
func (s *Service) publish(ctx context.Context, summary RunSummary) {
	if s.publisher == nil {
		return
	}

	events := make([]notify.Event, 0, 2)
	if summary.NewPatches > 0 {
		events = append(events, notify.Event{
			Game:       summary.Game,
			NewPatches: summary.NewPatches,
			At:         summary.FinishedAt,
		})
	}
	if summary.Embedded > 0 {
		events = append(events, notify.Event{
			Game:       SlugMayhem,
			NewPatches: summary.Embedded,
			At:         summary.FinishedAt,
		})
	}

	for _, event := range events {
		if err := s.publisher.Invalidate(ctx, event); err != nil {
			s.logger.Warn("invalidation publish failed",
				zap.String("game", event.Game),
				zap.Error(err))
		}
	}
}
