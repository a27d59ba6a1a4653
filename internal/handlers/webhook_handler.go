package handlers

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jonahkingcs/game-api-with-clerk/internal/service"
	"github.com/jonahkingcs/game-api-with-clerk/internal/webhook"
)

var (
	webhookEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "identity_webhook_events_total",
			Help: "Total number of identity webhook deliveries by outcome",
		},
		[]string{"outcome"}, // provisioned/already_provisioned/skipped/rejected/storage_error
	)

	provisionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "identity_provision_duration_seconds",
			Help:    "Time spent verifying and provisioning identity events",
			Buckets: prometheus.DefBuckets,
		},
	)
)

type WebhookHandler struct {
	verifier    *webhook.Verifier
	userService *service.UserService
}

func NewWebhookHandler(verifier *webhook.Verifier, userService *service.UserService) *WebhookHandler {
	return &WebhookHandler{
		verifier:    verifier,
		userService: userService,
	}
}

func (h *WebhookHandler) RegisterRoutes(app *fiber.App) {
	app.Post("/api/webhooks", h.HandleIdentityEvent)
}

// HandleIdentityEvent verifies a signed identity webhook and applies it
// to the user store. A 4xx tells the provider the delivery is a lost
// cause; a 5xx makes it redeliver later.
func (h *WebhookHandler) HandleIdentityEvent(c fiber.Ctx) error {
	start := time.Now()
	defer func() {
		provisionDuration.Observe(time.Since(start).Seconds())
	}()

	evt, err := h.verifier.Verify(
		c.Get("svix-id"),
		c.Get("svix-timestamp"),
		c.Get("svix-signature"),
		c.Body(),
	)
	if err != nil {
		log.Printf("Rejected identity webhook: %v", err)
		webhookEvents.WithLabelValues("rejected").Inc()
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "webhook verification failed",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := h.userService.Provision(ctx, evt)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPayload) {
			log.Printf("Rejected identity event %s: %v", evt.ID, err)
			webhookEvents.WithLabelValues("rejected").Inc()
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid event payload",
			})
		}

		log.Printf("Failed to provision from event %s: %v", evt.ID, err)
		webhookEvents.WithLabelValues("storage_error").Inc()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to process event",
		})
	}

	webhookEvents.WithLabelValues(string(result.Status)).Inc()
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": result.Status,
		"userId": result.UserID,
	})
}
