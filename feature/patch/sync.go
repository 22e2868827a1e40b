package patch

import (
	"context"
	"time"

	"patch-tracker/core/fetch"
	"patch-tracker/core/logger"
	"patch-tracker/feature/patch/discover"
	"patch-tracker/feature/patch/models"
	"patch-tracker/feature/patch/parse"

	"go.uber.org/zap"
)

// mayhemTitleSuffix builds the synthesized title of the embedded Mayhem
// section, which has no document title of its own.
const mayhemTitleSuffix = " 증바람"

// Failure is one non-fatal problem recorded during a run.
type Failure struct {
	Version string `json:"version"`
	URL     string `json:"url"`
	Reason  string `json:"reason"`
}

// RunSummary reports what one game's sync run did. A run always completes
// with a summary; partial failure shows up in Failures, never as an abort.
type RunSummary struct {
	Game       string    `json:"game"`
	Found      int       `json:"found"`
	NewPatches int       `json:"new_patches"`
	Embedded   int       `json:"embedded,omitempty"`
	Failures   []Failure `json:"failures,omitempty"`
	FinishedAt time.Time `json:"finished_at"`
}

// documentParser parses one patch document into entities.
type documentParser func(html string) ([]models.ParsedItem, error)

// Syncer walks discovered references for one game and persists the ones not
// seen before. References are processed strictly in order, one document fully
// written before the next begins, so an interrupted run leaves a contiguous
// prefix of missing versions instead of scattered gaps.
type Syncer struct {
	store   Store
	fetcher fetch.Fetcher
	archive *Archive
	logger  *zap.Logger

	lol    *parse.LolParser
	tft    *parse.TftParser
	mayhem *parse.MayhemParser
}

// NewSyncer wires a syncer. archive may be nil when raw-document archival is
// disabled.
func NewSyncer(store Store, fetcher fetch.Fetcher, archive *Archive, log *zap.Logger) *Syncer {
	return &Syncer{
		store:   store,
		fetcher: fetcher,
		archive: archive,
		logger:  log,
		lol:     parse.NewLolParser(),
		tft:     parse.NewTftParser(),
		mayhem:  parse.NewMayhemParser(),
	}
}

// SyncLol persists new LoL patches. Each LoL document is additionally checked
// for the embedded Mayhem section, which is persisted under its own game.
func (s *Syncer) SyncLol(ctx context.Context, links []discover.PatchLink) (RunSummary, error) {
	return s.syncGame(ctx, SlugLol, links, s.lol.Parse, s.persistMayhem)
}

// SyncTft persists new TFT patches.
func (s *Syncer) SyncTft(ctx context.Context, links []discover.PatchLink) (RunSummary, error) {
	return s.syncGame(ctx, SlugTft, links, s.tft.Parse, nil)
}

// syncGame runs the incremental sync for one game. Only the initial game
// lookup is fatal; fetch, parse and write problems are recorded per reference
// or per entity and the run continues.
func (s *Syncer) syncGame(
	ctx context.Context,
	slug string,
	links []discover.PatchLink,
	parseDoc documentParser,
	embedded func(ctx context.Context, link discover.PatchLink, html string, summary *RunSummary),
) (RunSummary, error) {
	summary := RunSummary{Game: slug, Found: len(links)}
	log := logger.WithGame(s.logger, slug)

	game, err := s.store.GameBySlug(ctx, slug)
	if err != nil {
		return summary, err
	}

	// The snapshot is read once and deliberately not refreshed per reference.
	persisted, err := s.store.Versions(ctx, game.ID)
	if err != nil {
		return summary, err
	}

	for _, link := range links {
		if _, ok := persisted[link.Version]; ok {
			log.Debug("patch already persisted", zap.String("version", link.Version))
			continue
		}

		html, err := s.fetcher.Fetch(ctx, link.URL)
		if err != nil {
			log.Warn("fetch failed",
				zap.String("version", link.Version),
				zap.String("url", link.URL),
				zap.Error(err))
			summary.Failures = append(summary.Failures, Failure{
				Version: link.Version, URL: link.URL, Reason: err.Error(),
			})
			continue
		}

		items, err := parseDoc(html)
		if err != nil {
			log.Warn("parse failed", zap.String("version", link.Version), zap.Error(err))
			summary.Failures = append(summary.Failures, Failure{
				Version: link.Version, URL: link.URL, Reason: err.Error(),
			})
			continue
		}

		if err := s.persistDocument(ctx, log, game.ID, link, items, &summary); err != nil {
			continue
		}
		summary.NewPatches++
		log.Info("patch persisted",
			zap.String("version", link.Version),
			zap.Int("items", len(items)))

		if s.archive != nil {
			// Best effort, after the patch is safely persisted; a failed
			// upload never rolls anything back.
			if err := s.archive.SavePatchHTML(ctx, slug, link.Version, html); err != nil {
				log.Warn("archive failed", zap.String("version", link.Version), zap.Error(err))
			}
		}

		if embedded != nil {
			embedded(ctx, link, html, &summary)
		}
	}

	// Run metadata is recorded even when nothing new was found.
	summary.FinishedAt = time.Now().UTC()
	if err := s.store.TouchRun(ctx, game.ID, summary.FinishedAt); err != nil {
		log.Warn("record run failed", zap.Error(err))
	}

	return summary, nil
}

// persistDocument writes one patch row and its entities. An entity-level
// write failure skips that entity only; entities already written stay.
func (s *Syncer) persistDocument(
	ctx context.Context,
	log *zap.Logger,
	gameID uint,
	link discover.PatchLink,
	items []models.ParsedItem,
	summary *RunSummary,
) error {
	patch := &models.Patch{
		GameID:      gameID,
		Version:     link.Version,
		Title:       link.Title,
		ReleaseDate: link.Date,
	}
	if err := s.store.CreatePatch(ctx, patch); err != nil {
		log.Error("insert patch failed", zap.String("version", link.Version), zap.Error(err))
		summary.Failures = append(summary.Failures, Failure{
			Version: link.Version, URL: link.URL, Reason: err.Error(),
		})
		return err
	}

	for _, parsed := range items {
		item := &models.PatchItem{
			PatchID:    patch.ID,
			Name:       parsed.Name,
			Category:   parsed.Category,
			ChangeType: parsed.ChangeType,
		}
		if err := s.store.CreateItem(ctx, item); err != nil {
			log.Warn("insert item failed",
				zap.String("version", link.Version),
				zap.String("item", parsed.Name),
				zap.Error(err))
			summary.Failures = append(summary.Failures, Failure{
				Version: link.Version, URL: link.URL, Reason: err.Error(),
			})
			continue
		}

		changes := make([]models.PatchChange, 0, len(parsed.Attributes))
		for _, attr := range parsed.Attributes {
			changes = append(changes, models.PatchChange{
				PatchItemID: item.ID,
				Attribute:   attr.Name,
				ChangeType:  attr.ChangeType,
				BeforeValue: attr.Before,
				AfterValue:  attr.After,
				Description: attr.Description(),
			})
		}
		if err := s.store.CreateChanges(ctx, changes); err != nil {
			log.Warn("insert changes failed",
				zap.String("version", link.Version),
				zap.String("item", parsed.Name),
				zap.Error(err))
			summary.Failures = append(summary.Failures, Failure{
				Version: link.Version, URL: link.URL, Reason: err.Error(),
			})
		}
	}
	return nil
}

// persistMayhem extracts the embedded Mayhem section of a LoL document and
// persists it under the aram-mayhem game, once per version.
func (s *Syncer) persistMayhem(ctx context.Context, link discover.PatchLink, html string, summary *RunSummary) {
	log := logger.WithGame(s.logger, SlugMayhem)

	items, found, err := s.mayhem.Parse(html)
	if err != nil {
		log.Warn("mayhem parse failed", zap.String("version", link.Version), zap.Error(err))
		return
	}
	if !found {
		return
	}
	if len(items) == 0 {
		// The heading is present but nothing was extracted. That usually
		// means the source markup changed shape.
		log.Warn("mayhem section found but empty", zap.String("version", link.Version))
		return
	}

	game, err := s.store.GameBySlug(ctx, SlugMayhem)
	if err != nil {
		log.Error("mayhem game not registered", zap.Error(err))
		return
	}

	exists, err := s.store.HasPatch(ctx, game.ID, link.Version)
	if err != nil {
		log.Warn("mayhem lookup failed", zap.String("version", link.Version), zap.Error(err))
		return
	}
	if exists {
		return
	}

	mayhemLink := discover.PatchLink{
		Version: link.Version,
		URL:     link.URL,
		Title:   link.Version + mayhemTitleSuffix,
		Date:    link.Date,
	}
	if err := s.persistDocument(ctx, log, game.ID, mayhemLink, items, summary); err != nil {
		return
	}
	summary.Embedded++
	log.Info("mayhem section persisted",
		zap.String("version", link.Version),
		zap.Int("items", len(items)))
}
