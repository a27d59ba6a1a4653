package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonahkingcs/game-api-with-clerk/internal/models"
)

func testCatalog() []models.Game {
	return []models.Game{
		{
			Title:       "Link's Adventure",
			Genre:       "RPG",
			Franchise:   "Zelda",
			Console:     "NES",
			Description: "A side-scrolling adventure",
			Characters:  models.StringList{"Link", "Zelda"},
		},
		{
			Title:     "Super Mario World",
			Genre:     "Platformer",
			Franchise: "Mario",
			Console:   "SNES",
			Characters: models.StringList{
				"Mario", "Luigi", "Yoshi",
			},
		},
		{
			Title:     "Mario Kart 64",
			Genre:     "Racing",
			Franchise: "Mario",
			Console:   "N64",
		},
		{
			Title: "Tetris",
			Genre: "Puzzle",
		},
		{
			Title:     "Chrono Trigger",
			Genre:     "RPG",
			Franchise: "",
			Console:   "SNES",
		},
	}
}

func TestBuildFacets(t *testing.T) {
	facets := BuildFacets(testCatalog())

	assert.Equal(t, []string{"Platformer", "Puzzle", "RPG", "Racing"}, facets.Genres)
	assert.Equal(t, []string{"Mario", "Zelda"}, facets.Franchises)
	assert.Equal(t, []string{"N64", "NES", "SNES"}, facets.Consoles)
}

func TestBuildFacetsEmptyCatalog(t *testing.T) {
	facets := BuildFacets(nil)

	assert.Empty(t, facets.Genres)
	assert.Empty(t, facets.Franchises)
	assert.Empty(t, facets.Consoles)
}

func TestFilterGamesNoConstraintsKeepsOrder(t *testing.T) {
	games := testCatalog()
	result := FilterGames(games, Filter{})

	require.Len(t, result, len(games))
	for i := range games {
		assert.Equal(t, games[i].Title, result[i].Title)
	}
}

func TestFilterGamesByGenre(t *testing.T) {
	result := FilterGames(testCatalog(), Filter{Genre: "rpg"})

	require.Len(t, result, 2)
	assert.Equal(t, "Link's Adventure", result[0].Title)
	assert.Equal(t, "Chrono Trigger", result[1].Title)
}

func TestFilterGamesByConsoleCaseInsensitive(t *testing.T) {
	result := FilterGames(testCatalog(), Filter{Console: "snes"})

	require.Len(t, result, 2)
	assert.Equal(t, "Super Mario World", result[0].Title)
	assert.Equal(t, "Chrono Trigger", result[1].Title)
}

func TestFilterGamesSearchMatchesFranchise(t *testing.T) {
	// "zelda" appears only in the franchise and characters of the
	// first game, not its title.
	result := FilterGames(testCatalog(), Filter{Search: "zelda"})

	require.Len(t, result, 1)
	assert.Equal(t, "Link's Adventure", result[0].Title)
}

func TestFilterGamesSearchMatchesCharacters(t *testing.T) {
	result := FilterGames(testCatalog(), Filter{Search: "yoshi"})

	require.Len(t, result, 1)
	assert.Equal(t, "Super Mario World", result[0].Title)
}

func TestFilterGamesSearchIsTrimmedAndCaseInsensitive(t *testing.T) {
	result := FilterGames(testCatalog(), Filter{Search: "  TETRIS  "})

	require.Len(t, result, 1)
	assert.Equal(t, "Tetris", result[0].Title)
}

func TestFilterGamesWhitespaceSearchMatchesAll(t *testing.T) {
	result := FilterGames(testCatalog(), Filter{Search: "   "})
	assert.Len(t, result, len(testCatalog()))
}

func TestFilterGamesConjunctive(t *testing.T) {
	// "mario" matches two games by search, but only one survives the
	// console filter.
	result := FilterGames(testCatalog(), Filter{Console: "N64", Search: "mario"})

	require.Len(t, result, 1)
	assert.Equal(t, "Mario Kart 64", result[0].Title)
}

func TestFilterGamesNoMatches(t *testing.T) {
	result := FilterGames(testCatalog(), Filter{Genre: "Strategy"})
	assert.Empty(t, result)
}

func TestFilterGamesToleratesMissingAttributes(t *testing.T) {
	games := []models.Game{{Title: "Bare Minimum"}}

	assert.Len(t, FilterGames(games, Filter{Search: "bare"}), 1)
	assert.Empty(t, FilterGames(games, Filter{Genre: "RPG"}))
}

type fakeGameStore struct {
	games []models.Game
	err   error
	calls int
}

func (f *fakeGameStore) FindAll(ctx context.Context) ([]models.Game, error) {
	f.calls++
	return f.games, f.err
}

type fakeCatalogCache struct {
	games []models.Game
	hit   bool
	sets  int
}

func (f *fakeCatalogCache) GetGames(ctx context.Context) ([]models.Game, bool) {
	return f.games, f.hit
}

func (f *fakeCatalogCache) SetGames(ctx context.Context, games []models.Game) {
	f.games = games
	f.sets++
}

func TestListGamesPopulatesCacheOnMiss(t *testing.T) {
	store := &fakeGameStore{games: testCatalog()}
	cache := &fakeCatalogCache{}
	svc := NewCatalogService(store, cache)

	games, err := svc.ListGames(context.Background())
	require.NoError(t, err)

	assert.Len(t, games, len(testCatalog()))
	assert.Equal(t, 1, store.calls)
	assert.Equal(t, 1, cache.sets)
}

func TestListGamesServedFromCache(t *testing.T) {
	store := &fakeGameStore{games: testCatalog()}
	cache := &fakeCatalogCache{games: testCatalog()[:2], hit: true}
	svc := NewCatalogService(store, cache)

	games, err := svc.ListGames(context.Background())
	require.NoError(t, err)

	assert.Len(t, games, 2)
	assert.Zero(t, store.calls)
}

func TestListGamesWithoutCache(t *testing.T) {
	store := &fakeGameStore{games: testCatalog()}
	svc := NewCatalogService(store, nil)

	games, err := svc.ListGames(context.Background())
	require.NoError(t, err)
	assert.Len(t, games, len(testCatalog()))
}

func TestListGamesPropagatesStoreError(t *testing.T) {
	store := &fakeGameStore{err: errors.New("connection reset")}
	svc := NewCatalogService(store, nil)

	_, err := svc.ListGames(context.Background())
	assert.Error(t, err)
}

func TestSearchAppliesFilter(t *testing.T) {
	store := &fakeGameStore{games: testCatalog()}
	svc := NewCatalogService(store, nil)

	games, err := svc.Search(context.Background(), Filter{Genre: "RPG"})
	require.NoError(t, err)
	assert.Len(t, games, 2)
}

func TestFacetsFromStore(t *testing.T) {
	store := &fakeGameStore{games: testCatalog()}
	svc := NewCatalogService(store, nil)

	facets, err := svc.Facets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Mario", "Zelda"}, facets.Franchises)
}
