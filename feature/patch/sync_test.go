package patch

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"patch-tracker/feature/patch/discover"
	"patch-tracker/feature/patch/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeStore struct {
	games    map[string]*models.Game
	versions map[uint]map[string]struct{}

	patches []*models.Patch
	items   []*models.PatchItem
	changes []models.PatchChange
	runs    map[uint]time.Time

	failItemNamed string

	nextPatchID uint
	nextItemID  uint
}

func newFakeStore(slugs ...string) *fakeStore {
	s := &fakeStore{
		games:    make(map[string]*models.Game),
		versions: make(map[uint]map[string]struct{}),
		runs:     make(map[uint]time.Time),
	}
	for i, slug := range slugs {
		id := uint(i + 1)
		s.games[slug] = &models.Game{ID: id, Slug: slug}
		s.versions[id] = make(map[string]struct{})
	}
	return s
}

func (s *fakeStore) GameBySlug(_ context.Context, slug string) (*models.Game, error) {
	game, ok := s.games[slug]
	if !ok {
		return nil, fmt.Errorf("resolve game %q: not registered", slug)
	}
	return game, nil
}

func (s *fakeStore) Versions(_ context.Context, gameID uint) (map[string]struct{}, error) {
	snapshot := make(map[string]struct{}, len(s.versions[gameID]))
	for v := range s.versions[gameID] {
		snapshot[v] = struct{}{}
	}
	return snapshot, nil
}

func (s *fakeStore) HasPatch(_ context.Context, gameID uint, version string) (bool, error) {
	_, ok := s.versions[gameID][version]
	return ok, nil
}

func (s *fakeStore) CreatePatch(_ context.Context, patch *models.Patch) error {
	s.nextPatchID++
	patch.ID = s.nextPatchID
	s.patches = append(s.patches, patch)
	s.versions[patch.GameID][patch.Version] = struct{}{}
	return nil
}

func (s *fakeStore) CreateItem(_ context.Context, item *models.PatchItem) error {
	if s.failItemNamed != "" && item.Name == s.failItemNamed {
		return errors.New("insert item: deadlock")
	}
	s.nextItemID++
	item.ID = s.nextItemID
	s.items = append(s.items, item)
	return nil
}

func (s *fakeStore) CreateChanges(_ context.Context, changes []models.PatchChange) error {
	s.changes = append(s.changes, changes...)
	return nil
}

func (s *fakeStore) TouchRun(_ context.Context, gameID uint, at time.Time) error {
	s.runs[gameID] = at
	return nil
}

func (s *fakeStore) LastRun(_ context.Context, gameID uint) (*time.Time, error) {
	at, ok := s.runs[gameID]
	if !ok {
		return nil, nil
	}
	return &at, nil
}

type fakeFetcher struct {
	pages map[string]string
	calls []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (string, error) {
	f.calls = append(f.calls, url)
	html, ok := f.pages[url]
	if !ok {
		return "", errors.New("unexpected status 404")
	}
	return html, nil
}

const lolDoc = `
<div id="patch-notes-container">
	<h2>챔피언</h2>
	<h3 class="change-title">가렌</h3>
	<ul><li>피해량: 60 -> 65</li></ul>
	<h2>아이템</h2>
	<h4 class="change-detail-title">장화</h4>
	<ul><li>이동속도: 25 -> 30</li></ul>
</div>`

const lolDocWithMayhem = lolDoc + `
<h2 id="patch-aram-mayhem">무작위 총력전: 아수라장</h2>
<h4 class="change-detail-title">증강 밸런스 조정</h4>
<ul><li>실명 사격 피해량: 20 -> 25</li></ul>`

func lolLink(version string) discover.PatchLink {
	return discover.PatchLink{
		Version: version,
		URL:     "https://example.test/patch-" + version,
		Title:   version + " 패치 노트",
	}
}

func TestSyncer_PersistsNewPatches(t *testing.T) {
	store := newFakeStore(SlugLol, SlugMayhem)
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://example.test/patch-25.14": lolDoc,
	}}
	syncer := NewSyncer(store, fetcher, nil, zap.NewNop())

	summary, err := syncer.SyncLol(context.Background(), []discover.PatchLink{lolLink("25.14")})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Found)
	assert.Equal(t, 1, summary.NewPatches)
	assert.Empty(t, summary.Failures)

	require.Len(t, store.patches, 1)
	assert.Equal(t, "25.14", store.patches[0].Version)
	require.Len(t, store.items, 2)
	assert.Equal(t, "가렌", store.items[0].Name)
	assert.Equal(t, "장화", store.items[1].Name)
	require.Len(t, store.changes, 2)
	assert.Equal(t, "이동속도: 25 -> 30", store.changes[1].Description)

	// Run metadata is written for the game that ran.
	_, touched := store.runs[store.games[SlugLol].ID]
	assert.True(t, touched)
}

func TestSyncer_SecondRunIsIdempotent(t *testing.T) {
	store := newFakeStore(SlugLol, SlugMayhem)
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://example.test/patch-25.14": lolDoc,
	}}
	syncer := NewSyncer(store, fetcher, nil, zap.NewNop())
	links := []discover.PatchLink{lolLink("25.14")}

	first, err := syncer.SyncLol(context.Background(), links)
	require.NoError(t, err)
	require.Equal(t, 1, first.NewPatches)

	second, err := syncer.SyncLol(context.Background(), links)
	require.NoError(t, err)
	assert.Equal(t, 0, second.NewPatches)
	assert.Empty(t, second.Failures)
	assert.Len(t, store.patches, 1)
	// The document is not even fetched again.
	assert.Len(t, fetcher.calls, 1)
}

func TestSyncer_FetchFailureIsIsolated(t *testing.T) {
	store := newFakeStore(SlugLol, SlugMayhem)
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://example.test/patch-25.13": lolDoc,
	}}
	syncer := NewSyncer(store, fetcher, nil, zap.NewNop())

	summary, err := syncer.SyncLol(context.Background(), []discover.PatchLink{
		lolLink("25.14"),
		lolLink("25.13"),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.NewPatches)
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, "25.14", summary.Failures[0].Version)

	// The run still records its metadata.
	_, touched := store.runs[store.games[SlugLol].ID]
	assert.True(t, touched)
}

func TestSyncer_ItemWriteFailureSkipsEntityOnly(t *testing.T) {
	store := newFakeStore(SlugLol, SlugMayhem)
	store.failItemNamed = "가렌"
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://example.test/patch-25.14": lolDoc,
	}}
	syncer := NewSyncer(store, fetcher, nil, zap.NewNop())

	summary, err := syncer.SyncLol(context.Background(), []discover.PatchLink{lolLink("25.14")})
	require.NoError(t, err)

	// The patch is written and the other entity survives.
	assert.Equal(t, 1, summary.NewPatches)
	require.Len(t, summary.Failures, 1)
	require.Len(t, store.items, 1)
	assert.Equal(t, "장화", store.items[0].Name)
}

func TestSyncer_UnregisteredGameIsFatal(t *testing.T) {
	store := newFakeStore(SlugMayhem)
	syncer := NewSyncer(store, &fakeFetcher{}, nil, zap.NewNop())

	_, err := syncer.SyncLol(context.Background(), []discover.PatchLink{lolLink("25.14")})
	require.Error(t, err)
	assert.Empty(t, store.patches)
}

func TestSyncer_MayhemPersistedUnderOwnGame(t *testing.T) {
	store := newFakeStore(SlugLol, SlugMayhem)
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://example.test/patch-25.14": lolDocWithMayhem,
	}}
	syncer := NewSyncer(store, fetcher, nil, zap.NewNop())

	summary, err := syncer.SyncLol(context.Background(), []discover.PatchLink{lolLink("25.14")})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.NewPatches)
	assert.Equal(t, 1, summary.Embedded)

	require.Len(t, store.patches, 2)
	mayhem := store.patches[1]
	assert.Equal(t, store.games[SlugMayhem].ID, mayhem.GameID)
	assert.Equal(t, "25.14", mayhem.Version)
	assert.Equal(t, "25.14 증바람", mayhem.Title)
}

func TestSyncer_MayhemNotDuplicatedOnReplay(t *testing.T) {
	store := newFakeStore(SlugLol, SlugMayhem)
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://example.test/patch-25.14": lolDocWithMayhem,
	}}
	syncer := NewSyncer(store, fetcher, nil, zap.NewNop())

	// Pre-seed the mayhem row as if a prior run already extracted it, then
	// force the LoL document to be reprocessed.
	mayhemID := store.games[SlugMayhem].ID
	store.versions[mayhemID]["25.14"] = struct{}{}

	_, err := syncer.SyncLol(context.Background(), []discover.PatchLink{lolLink("25.14")})
	require.NoError(t, err)

	for _, p := range store.patches {
		assert.NotEqual(t, mayhemID, p.GameID)
	}
}

func TestSyncer_TftDocument(t *testing.T) {
	store := newFakeStore(SlugTft)
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://example.test/tft-14.7": `
		<h2>체계 변경 사항</h2>
		<h4 class="change-detail-title">유닛</h4>
		<ul><li>가렌 체력: 650 -> 700</li></ul>`,
	}}
	syncer := NewSyncer(store, fetcher, nil, zap.NewNop())

	summary, err := syncer.SyncTft(context.Background(), []discover.PatchLink{{
		Version: "14.7",
		URL:     "https://example.test/tft-14.7",
		Title:   "14.7 패치 노트",
	}})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.NewPatches)
	require.Len(t, store.items, 1)
	assert.Equal(t, "가렌", store.items[0].Name)
	assert.Equal(t, models.CategoryUnit, store.items[0].Category)
}
