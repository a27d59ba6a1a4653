package handlers

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonahkingcs/game-api-with-clerk/internal/service"
)

var catalogRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "catalog_requests_total",
		Help: "Total number of catalog read requests",
	},
	[]string{"endpoint", "status"},
)

type GameHandler struct {
	catalogService *service.CatalogService
}

func NewGameHandler(catalogService *service.CatalogService) *GameHandler {
	return &GameHandler{
		catalogService: catalogService,
	}
}

func (h *GameHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/health", h.HealthCheck)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	gamesGroup := app.Group("/api/games")
	gamesGroup.Get("/", h.ListGames)
	gamesGroup.Get("/facets", h.GetFacets)
	gamesGroup.Get("/search", h.SearchGames)
}

func (h *GameHandler) HealthCheck(c fiber.Ctx) error {
	return c.Status(fiber.StatusOK).SendString("Game API is healthy")
}

// ListGames returns the whole catalog. The response keeps the "Games"
// key of the original API so existing clients keep working.
func (h *GameHandler) ListGames(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	games, err := h.catalogService.ListGames(ctx)
	if err != nil {
		log.Printf("Failed to list games: %v", err)
		catalogRequests.WithLabelValues("list", "error").Inc()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list games",
		})
	}

	catalogRequests.WithLabelValues("list", "ok").Inc()
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"Games": games,
	})
}

func (h *GameHandler) GetFacets(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	facets, err := h.catalogService.Facets(ctx)
	if err != nil {
		log.Printf("Failed to build facets: %v", err)
		catalogRequests.WithLabelValues("facets", "error").Inc()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build facets",
		})
	}

	catalogRequests.WithLabelValues("facets", "ok").Inc()
	return c.Status(fiber.StatusOK).JSON(facets)
}

func (h *GameHandler) SearchGames(c fiber.Ctx) error {
	filter := service.Filter{
		Genre:     c.Query("genre"),
		Franchise: c.Query("franchise"),
		Console:   c.Query("console"),
		Search:    c.Query("q"),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	games, err := h.catalogService.Search(ctx, filter)
	if err != nil {
		log.Printf("Failed to search games: %v", err)
		catalogRequests.WithLabelValues("search", "error").Inc()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to search games",
		})
	}

	catalogRequests.WithLabelValues("search", "ok").Inc()
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"Games": games,
		"count": len(games),
	})
}
