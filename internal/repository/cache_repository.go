package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	redis_v9 "github.com/redis/go-redis/v9"

	"github.com/jonahkingcs/game-api-with-clerk/internal/models"
)

const (
	gamesSnapshotKey = "catalog:games"
	webhookSeenKey   = "webhook:seen:"

	gamesSnapshotTTL = 60 * time.Second
	webhookSeenTTL   = 24 * time.Hour
)

// CacheRepository fronts Redis for two concerns: the catalog snapshot
// cache and the processed-webhook marker keys. Every miss or Redis
// failure degrades to the Mongo path; nothing here is fatal.
type CacheRepository struct {
	client *redis_v9.Client
}

func NewCacheRepository(client *redis_v9.Client) *CacheRepository {
	return &CacheRepository{client: client}
}

func (r *CacheRepository) GetGames(ctx context.Context) ([]models.Game, bool) {
	raw, err := r.client.Get(ctx, gamesSnapshotKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis_v9.Nil) {
			log.Printf("Error reading games snapshot from cache: %v", err)
		}
		return nil, false
	}

	var games []models.Game
	if err := json.Unmarshal(raw, &games); err != nil {
		log.Printf("Error decoding cached games snapshot: %v", err)
		return nil, false
	}
	return games, true
}

func (r *CacheRepository) SetGames(ctx context.Context, games []models.Game) {
	raw, err := json.Marshal(games)
	if err != nil {
		log.Printf("Error encoding games snapshot for cache: %v", err)
		return
	}
	if err := r.client.Set(ctx, gamesSnapshotKey, raw, gamesSnapshotTTL).Err(); err != nil {
		log.Printf("Error writing games snapshot to cache: %v", err)
	}
}

func (r *CacheRepository) InvalidateGames(ctx context.Context) {
	if err := r.client.Del(ctx, gamesSnapshotKey).Err(); err != nil {
		log.Printf("Error invalidating games snapshot: %v", err)
	}
}

// IsEventProcessed is a fast-path check only; the user store lookup and
// the unique externalId index remain the authoritative idempotency
// guards.
func (r *CacheRepository) IsEventProcessed(ctx context.Context, eventID string) bool {
	n, err := r.client.Exists(ctx, webhookSeenKey+eventID).Result()
	if err != nil {
		if !errors.Is(err, redis_v9.Nil) {
			log.Printf("Error checking processed event %s: %v", eventID, err)
		}
		return false
	}
	return n > 0
}

func (r *CacheRepository) MarkEventProcessed(ctx context.Context, eventID string) error {
	if err := r.client.Set(ctx, webhookSeenKey+eventID, 1, webhookSeenTTL).Err(); err != nil {
		return fmt.Errorf("failed to mark event %s processed: %w", eventID, err)
	}
	return nil
}
