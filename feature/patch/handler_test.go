package patch

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(pages map[string]string) (*fiber.App, *fakeStore) {
	app := fiber.New()
	store := newFakeStore(SlugLol, SlugTft, SlugMayhem)
	svc := NewService(store, &fakeFetcher{pages: pages}, nil, nil, zap.NewNop())
	handler := NewHandler(svc)
	handler.RegisterRoutes(app)
	return app, store
}

func TestHandleCrawl(t *testing.T) {
	app, store := setupTestApp(map[string]string{
		"https://www.leagueoflegends.com/ko-kr/news/game-updates/":                    indexDoc,
		"https://www.leagueoflegends.com/ko-kr/news/game-updates/patch-25-14-notes/": lolDoc,
	})

	req := httptest.NewRequest("POST", "/crawl", nil)
	resp, err := app.Test(req, 5000)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var summaries []RunSummary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summaries))
	require.Len(t, summaries, 2)
	assert.Equal(t, SlugLol, summaries[0].Game)
	assert.Equal(t, 1, summaries[0].NewPatches)
	// The TFT document was not served; its failure is in the summary, not a 500.
	assert.Equal(t, SlugTft, summaries[1].Game)
	assert.Len(t, summaries[1].Failures, 1)

	assert.Len(t, store.patches, 1)
}

func TestHandleCrawl_SingleGame(t *testing.T) {
	app, store := setupTestApp(map[string]string{
		"https://www.leagueoflegends.com/ko-kr/news/game-updates/": indexDoc,
		"https://teamfighttactics.leagueoflegends.com/ko-kr/news/game-updates/teamfight-tactics-patch-14-7-notes/": `
			<h4 class="change-detail-title">유닛</h4>
			<ul><li>가렌 체력: 650 -> 700</li></ul>`,
	})

	req := httptest.NewRequest("POST", "/crawl?game=teamfight-tactics", nil)
	resp, err := app.Test(req, 5000)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var summaries []RunSummary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, SlugTft, summaries[0].Game)
	assert.Len(t, store.patches, 1)
}

func TestHandleCrawl_UnknownGame(t *testing.T) {
	app, _ := setupTestApp(map[string]string{
		"https://www.leagueoflegends.com/ko-kr/news/game-updates/": indexDoc,
	})

	req := httptest.NewRequest("POST", "/crawl?game=valorant", nil)
	resp, err := app.Test(req, 5000)

	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
}

func TestHandleCrawl_IndexUnreachable(t *testing.T) {
	app, _ := setupTestApp(nil)

	req := httptest.NewRequest("POST", "/crawl", nil)
	resp, err := app.Test(req, 5000)

	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
}

func TestHandleStatus(t *testing.T) {
	app, store := setupTestApp(map[string]string{
		"https://www.leagueoflegends.com/ko-kr/news/game-updates/": indexDoc,
	})
	store.versions[store.games[SlugLol].ID]["25.14"] = struct{}{}

	req := httptest.NewRequest("GET", "/crawl/status", nil)
	resp, err := app.Test(req, 5000)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var statuses []GameStatus
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&statuses))
	require.Len(t, statuses, 3)
	assert.Equal(t, SlugLol, statuses[0].Game)
	assert.Equal(t, 1, statuses[0].Persisted)
	assert.Empty(t, statuses[0].Missing)
	assert.Equal(t, []string{"14.7"}, statuses[1].Missing)
}

func TestHandleStatus_GameFilter(t *testing.T) {
	app, _ := setupTestApp(map[string]string{
		"https://www.leagueoflegends.com/ko-kr/news/game-updates/": indexDoc,
	})

	req := httptest.NewRequest("GET", "/crawl/status?game=teamfight-tactics", nil)
	resp, err := app.Test(req, 5000)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var statuses []GameStatus
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&statuses))
	require.Len(t, statuses, 1)
	assert.Equal(t, SlugTft, statuses[0].Game)

	req = httptest.NewRequest("GET", "/crawl/status?game=valorant", nil)
	resp, err = app.Test(req, 5000)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}
