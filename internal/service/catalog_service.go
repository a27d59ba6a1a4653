package service

import (
	"context"
	"slices"
	"strings"

	"github.com/jonahkingcs/game-api-with-clerk/internal/models"
)

// GameStore is the read-only seam to the catalog. Any persistence
// technology may sit behind it.
type GameStore interface {
	FindAll(ctx context.Context) ([]models.Game, error)
}

// CatalogCache holds a short-lived snapshot of the catalog. A nil cache
// disables caching entirely.
type CatalogCache interface {
	GetGames(ctx context.Context) ([]models.Game, bool)
	SetGames(ctx context.Context, games []models.Game)
}

// Filter is the set of constraints a catalog query may carry. Empty
// fields match everything.
type Filter struct {
	Genre     string
	Franchise string
	Console   string
	Search    string
}

type CatalogService struct {
	games GameStore
	cache CatalogCache
}

func NewCatalogService(games GameStore, cache CatalogCache) *CatalogService {
	return &CatalogService{
		games: games,
		cache: cache,
	}
}

// ListGames returns the current catalog snapshot, preferring the cache.
func (s *CatalogService) ListGames(ctx context.Context) ([]models.Game, error) {
	if s.cache != nil {
		if games, ok := s.cache.GetGames(ctx); ok {
			return games, nil
		}
	}

	games, err := s.games.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.SetGames(ctx, games)
	}
	return games, nil
}

func (s *CatalogService) Facets(ctx context.Context) (models.Facets, error) {
	games, err := s.ListGames(ctx)
	if err != nil {
		return models.Facets{}, err
	}
	return BuildFacets(games), nil
}

func (s *CatalogService) Search(ctx context.Context, filter Filter) ([]models.Game, error) {
	games, err := s.ListGames(ctx)
	if err != nil {
		return nil, err
	}
	return FilterGames(games, filter), nil
}

// BuildFacets derives the distinct option set for each filterable
// attribute: non-empty values only, deduplicated, sorted ascending.
// The sort is plain byte-wise lexical order, which is fine for a small
// hand-entered catalog; no locale-aware collation is promised.
func BuildFacets(games []models.Game) models.Facets {
	return models.Facets{
		Genres:     distinct(games, func(g models.Game) string { return g.Genre }),
		Franchises: distinct(games, func(g models.Game) string { return g.Franchise }),
		Consoles:   distinct(games, func(g models.Game) string { return g.Console }),
	}
}

func distinct(games []models.Game, value func(models.Game) string) []string {
	seen := make(map[string]struct{})
	values := make([]string, 0)
	for _, g := range games {
		v := value(g)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	slices.Sort(values)
	return values
}

// FilterGames applies the facet constraints and the free-text search
// conjunctively, keeping surviving games in their original order. Facet
// matching is case-insensitive exact equality; the search matches when
// the trimmed, lower-cased query is a substring of the game's search
// blob. All predicates are pure, so evaluation order only affects
// speed, not the result.
func FilterGames(games []models.Game, filter Filter) []models.Game {
	query := strings.ToLower(strings.TrimSpace(filter.Search))

	matched := make([]models.Game, 0)
	for _, g := range games {
		if !facetMatch(g.Genre, filter.Genre) {
			continue
		}
		if !facetMatch(g.Franchise, filter.Franchise) {
			continue
		}
		if !facetMatch(g.Console, filter.Console) {
			continue
		}
		if query != "" && !strings.Contains(searchBlob(g), query) {
			continue
		}
		matched = append(matched, g)
	}
	return matched
}

func facetMatch(value, want string) bool {
	if want == "" {
		return true
	}
	return strings.EqualFold(value, want)
}

// searchBlob concatenates the searchable fields of a game, skipping
// absent ones, lower-cased for substring matching.
func searchBlob(g models.Game) string {
	fields := []string{
		g.Title,
		g.Description,
		strings.Join(g.Characters, " "),
		g.Franchise,
		g.Console,
		g.Genre,
	}

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			parts = append(parts, f)
		}
	}
	return strings.ToLower(strings.Join(parts, " "))
}
