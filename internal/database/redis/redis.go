package redis

import (
	"context"
	"log"
	"time"

	redis_v9 "github.com/redis/go-redis/v9"

	"github.com/jonahkingcs/game-api-with-clerk/internal/config"
)

// Connect returns a Redis client, or nil when no address is configured.
// The service treats Redis as optional: without it every read goes
// straight to MongoDB.
func Connect(cfg config.RedisConfig) *redis_v9.Client {
	if cfg.Address == "" {
		log.Println("Warning: Redis address is empty, caching is disabled")
		return nil
	}

	client := redis_v9.NewClient(&redis_v9.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Warning: Could not verify Redis connection: %s", err)
	} else {
		log.Println("Successfully connected to Redis")
	}

	return client
}
