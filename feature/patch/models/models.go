package models

import (
	"fmt"
	"strings"
	"time"
)

// ChangeType labels the favorability of a balance change.
type ChangeType string

const (
	// ChangeBuff means every compared value moved in the favorable direction.
	ChangeBuff ChangeType = "BUFF"
	// ChangeNerf means every compared value moved in the unfavorable direction.
	ChangeNerf ChangeType = "NERF"
	// ChangeAdjust is the deliberate "don't know": non-numeric, structural or
	// mixed-direction changes are never claimed as a clean buff or nerf.
	ChangeAdjust ChangeType = "ADJUST"
)

// Categories a parsed entity can belong to. LoL documents produce the first
// three, TFT documents the middle group, and the embedded Mayhem section the
// rest.
const (
	CategoryChampion      = "champion"
	CategoryItem          = "item"
	CategorySystem        = "system"
	CategoryTrait         = "trait"
	CategoryUnit          = "unit"
	CategoryAugment       = "augment"
	CategoryAugmentSet    = "augment_set"
	CategoryProgressTrack = "progress_track"
	CategoryBugfix        = "bugfix"
)

// Game is a registered game mode (league-of-legends, teamfight-tactics,
// aram-mayhem). Rows are seeded once; the crawler only reads them.
type Game struct {
	ID        uint   `gorm:"primaryKey"`
	Slug      string `gorm:"size:64;uniqueIndex"`
	Name      string `gorm:"size:128"`
	CreatedAt time.Time

	Patches []Patch `gorm:"constraint:OnDelete:CASCADE"`
}

// Patch is one persisted update document. (GameID, Version) is unique and is
// the sole deduplication key driving incremental sync.
type Patch struct {
	ID          uint   `gorm:"primaryKey"`
	GameID      uint   `gorm:"uniqueIndex:idx_game_version"`
	Version     string `gorm:"size:16;uniqueIndex:idx_game_version"`
	Title       string `gorm:"size:255"`
	ReleaseDate *time.Time
	CreatedAt   time.Time

	Items []PatchItem `gorm:"constraint:OnDelete:CASCADE"`
}

// PatchItem is one affected entity (champion, item, trait, ...) within a patch.
type PatchItem struct {
	ID         uint   `gorm:"primaryKey"`
	PatchID    uint   `gorm:"index"`
	Name       string `gorm:"size:255"`
	Category   string `gorm:"size:32"`
	ChangeType ChangeType `gorm:"size:8"`

	Changes []PatchChange `gorm:"foreignKey:PatchItemID;constraint:OnDelete:CASCADE"`
}

// PatchChange is one before/after attribute change of a patch item.
type PatchChange struct {
	ID          uint   `gorm:"primaryKey"`
	PatchItemID uint   `gorm:"index"`
	Attribute   string `gorm:"size:255"`
	ChangeType  ChangeType `gorm:"size:8"`
	BeforeValue string `gorm:"type:text"`
	AfterValue  string `gorm:"type:text"`
	Description string `gorm:"type:text"`
}

// CrawlerRun records when a game was last crawled. One row per game, upserted
// unconditionally at the end of every run.
type CrawlerRun struct {
	GameID        uint `gorm:"primaryKey"`
	LastCrawledAt time.Time
}

// All returns every persisted model for schema migration.
func All() []any {
	return []any{&Game{}, &Patch{}, &PatchItem{}, &PatchChange{}, &CrawlerRun{}}
}

// ParsedAttribute is one extracted attribute change, not yet persisted.
type ParsedAttribute struct {
	Name       string
	ChangeType ChangeType
	Before     string
	After      string
}

// Description renders the attribute the way it is stored alongside the raw
// values. Fallback lines carry no before value and are rendered bare.
func (a ParsedAttribute) Description() string {
	if a.Before == "" && a.After == "" {
		return a.Name
	}
	return fmt.Sprintf("%s: %s -> %s", a.Name, a.Before, a.After)
}

// ParsedItem is one entity extracted from a document together with its
// attribute changes. Parsers never emit items with zero attributes.
type ParsedItem struct {
	Name       string
	Category   string
	ChangeType ChangeType
	Attributes []ParsedAttribute
}

// Summary joins the attribute descriptions, one per line.
func (p ParsedItem) Summary() string {
	lines := make([]string, 0, len(p.Attributes))
	for _, a := range p.Attributes {
		lines = append(lines, a.Description())
	}
	return strings.Join(lines, "\n")
}
