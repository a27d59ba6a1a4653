package models

type EventType string

const (
	EventTypeUserProvisioned EventType = "user.provisioned"
	EventTypeGameCreated     EventType = "game.created"
	EventTypeGameUpdated     EventType = "game.updated"
	EventTypeGameDeleted     EventType = "game.deleted"
)

type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp int64     `json:"timestamp"`
	Version   string    `json:"version"`
}

// UserProvisionedEvent is published after a new user record is created
// from an identity webhook.
type UserProvisionedEvent struct {
	BaseEvent
	UserID     string `json:"user_id"`
	ExternalID string `json:"external_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
}

// GameEvent announces a catalog change made by the catalog management
// tooling. The service only consumes these to drop its cached snapshot.
type GameEvent struct {
	BaseEvent
	GameID string `json:"game_id"`
}
