package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonahkingcs/game-api-with-clerk/internal/models"
	"github.com/jonahkingcs/game-api-with-clerk/internal/service"
)

type stubGameStore struct {
	games []models.Game
	err   error
}

func (s *stubGameStore) FindAll(ctx context.Context) ([]models.Game, error) {
	return s.games, s.err
}

func newGameApp(store *stubGameStore) *fiber.App {
	app := fiber.New()
	NewGameHandler(service.NewCatalogService(store, nil)).RegisterRoutes(app)
	return app
}

func decodeGames(t *testing.T, resp *http.Response) []models.Game {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload struct {
		Games []models.Game `json:"Games"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))
	return payload.Games
}

func sampleGames() []models.Game {
	return []models.Game{
		{Title: "Link's Adventure", Genre: "RPG", Franchise: "Zelda", Console: "NES"},
		{Title: "Super Mario World", Genre: "Platformer", Franchise: "Mario", Console: "SNES"},
		{Title: "F-Zero", Genre: "Racing", Console: "SNES"},
	}
}

func TestListGamesReturnsWholeCatalog(t *testing.T) {
	app := newGameApp(&stubGameStore{games: sampleGames()})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/games", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	games := decodeGames(t, resp)
	require.Len(t, games, 3)
	assert.Equal(t, "Link's Adventure", games[0].Title)
}

func TestListGamesStoreFailure(t *testing.T) {
	app := newGameApp(&stubGameStore{err: errors.New("down")})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/games", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestGetFacets(t *testing.T) {
	app := newGameApp(&stubGameStore{games: sampleGames()})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/games/facets", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var facets models.Facets
	require.NoError(t, json.Unmarshal(body, &facets))

	assert.Equal(t, []string{"Platformer", "RPG", "Racing"}, facets.Genres)
	assert.Equal(t, []string{"Mario", "Zelda"}, facets.Franchises)
	assert.Equal(t, []string{"NES", "SNES"}, facets.Consoles)
}

func TestSearchGamesAppliesFacetAndQuery(t *testing.T) {
	app := newGameApp(&stubGameStore{games: sampleGames()})

	req := httptest.NewRequest(http.MethodGet, "/api/games/search?console=snes&q=mario", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	games := decodeGames(t, resp)
	require.Len(t, games, 1)
	assert.Equal(t, "Super Mario World", games[0].Title)
}

func TestSearchGamesNoConstraints(t *testing.T) {
	app := newGameApp(&stubGameStore{games: sampleGames()})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/games/search", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	games := decodeGames(t, resp)
	assert.Len(t, games, 3)
}

func TestHealthCheck(t *testing.T) {
	app := newGameApp(&stubGameStore{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
