package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/jonahkingcs/game-api-with-clerk/internal/models"
)

// GameRepository is a read-only projection of the games catalog. The
// collection is written by the catalog management tooling, never by
// this service.
type GameRepository struct {
	collection *mongo.Collection
}

func NewGameRepository(db *mongo.Database) *GameRepository {
	return &GameRepository{
		collection: db.Collection("Game"),
	}
}

// FindAll returns the full catalog in natural store order. Facet
// derivation and filtering happen over this snapshot in memory; the
// catalog is small enough that a full read per request is cheap.
func (r *GameRepository) FindAll(ctx context.Context) ([]models.Game, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer cursor.Close(ctx)

	var games []models.Game
	if err = cursor.All(ctx, &games); err != nil {
		return nil, fmt.Errorf("failed to decode games: %w", err)
	}

	return games, nil
}

func (r *GameRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "genre", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "franchise", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "console", Value: 1}},
		},
	}

	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create game indexes: %w", err)
	}

	return nil
}
