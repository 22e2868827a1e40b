package patch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"patch-tracker/feature/patch/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Game slugs registered by the seed. The crawler resolves games by slug and
// treats a missing row as a configuration error.
const (
	SlugLol    = "league-of-legends"
	SlugTft    = "teamfight-tactics"
	SlugMayhem = "aram-mayhem"
)

// Store is the persistence surface the crawler writes through. The pipeline
// is insert-only; nothing here mutates or deletes existing rows.
type Store interface {
	// GameBySlug resolves a registered game. Missing rows are an error.
	GameBySlug(ctx context.Context, slug string) (*models.Game, error)
	// Versions returns the set of persisted patch versions for a game.
	Versions(ctx context.Context, gameID uint) (map[string]struct{}, error)
	// HasPatch reports whether one (game, version) pair is persisted.
	HasPatch(ctx context.Context, gameID uint, version string) (bool, error)
	CreatePatch(ctx context.Context, patch *models.Patch) error
	CreateItem(ctx context.Context, item *models.PatchItem) error
	CreateChanges(ctx context.Context, changes []models.PatchChange) error
	// TouchRun upserts the game's last-crawled timestamp.
	TouchRun(ctx context.Context, gameID uint, at time.Time) error
	// LastRun returns the game's last recorded crawl time, nil when the game
	// has never been crawled.
	LastRun(ctx context.Context, gameID uint) (*time.Time, error)
}

// GormStore implements Store on the relational schema.
type GormStore struct {
	db *gorm.DB
}

// NewStore creates a store bound to an open database handle.
func NewStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) GameBySlug(ctx context.Context, slug string) (*models.Game, error) {
	var game models.Game
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&game).Error; err != nil {
		return nil, fmt.Errorf("resolve game %q: %w", slug, err)
	}
	return &game, nil
}

func (s *GormStore) Versions(ctx context.Context, gameID uint) (map[string]struct{}, error) {
	var versions []string
	err := s.db.WithContext(ctx).
		Model(&models.Patch{}).
		Where("game_id = ?", gameID).
		Pluck("version", &versions).Error
	if err != nil {
		return nil, fmt.Errorf("load persisted versions: %w", err)
	}

	set := make(map[string]struct{}, len(versions))
	for _, v := range versions {
		set[v] = struct{}{}
	}
	return set, nil
}

func (s *GormStore) HasPatch(ctx context.Context, gameID uint, version string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Patch{}).
		Where("game_id = ? AND version = ?", gameID, version).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check patch %s: %w", version, err)
	}
	return count > 0, nil
}

func (s *GormStore) CreatePatch(ctx context.Context, patch *models.Patch) error {
	if err := s.db.WithContext(ctx).Create(patch).Error; err != nil {
		return fmt.Errorf("insert patch %s: %w", patch.Version, err)
	}
	return nil
}

func (s *GormStore) CreateItem(ctx context.Context, item *models.PatchItem) error {
	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("insert item %q: %w", item.Name, err)
	}
	return nil
}

func (s *GormStore) CreateChanges(ctx context.Context, changes []models.PatchChange) error {
	if len(changes) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Create(&changes).Error; err != nil {
		return fmt.Errorf("insert changes: %w", err)
	}
	return nil
}

func (s *GormStore) TouchRun(ctx context.Context, gameID uint, at time.Time) error {
	run := models.CrawlerRun{GameID: gameID, LastCrawledAt: at}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "game_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"last_crawled_at"}),
		}).
		Create(&run).Error
	if err != nil {
		return fmt.Errorf("record crawler run: %w", err)
	}
	return nil
}

func (s *GormStore) LastRun(ctx context.Context, gameID uint) (*time.Time, error) {
	var run models.CrawlerRun
	err := s.db.WithContext(ctx).Where("game_id = ?", gameID).First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load crawler run: %w", err)
	}
	return &run.LastCrawledAt, nil
}

// SeedDefaultGames registers the crawled game modes if they are not present
// yet. Safe to call on every startup.
func SeedDefaultGames(db *gorm.DB) error {
	games := []models.Game{
		{Slug: SlugLol, Name: "리그 오브 레전드"},
		{Slug: SlugTft, Name: "전략적 팀 전투"},
		{Slug: SlugMayhem, Name: "무작위 총력전: 아수라장"},
	}
	for _, game := range games {
		var existing models.Game
		err := db.Where(models.Game{Slug: game.Slug}).
			Attrs(game).
			FirstOrCreate(&existing).Error
		if err != nil {
			return fmt.Errorf("seed game %s: %w", game.Slug, err)
		}
	}
	return nil
}
