package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/jonahkingcs/game-api-with-clerk/internal/event"
	"github.com/jonahkingcs/game-api-with-clerk/internal/models"
)

// ErrInvalidPayload means a user-creation event arrived without the
// fields provisioning needs. The event is rejected, not retried.
var ErrInvalidPayload = errors.New("invalid identity event payload")

// StorageError marks a persistence failure during provisioning. The
// handler converts it into a retryable failure status so the event
// source redelivers.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("user store unavailable: %v", e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

type ProvisionStatus string

const (
	StatusProvisioned        ProvisionStatus = "provisioned"
	StatusAlreadyProvisioned ProvisionStatus = "already_provisioned"
	StatusSkipped            ProvisionStatus = "skipped"
)

type ProvisionResult struct {
	Status ProvisionStatus
	UserID string
}

// UserStore is the persistence seam for provisioned users.
// FindByExternalID returns nil, nil when no record exists.
type UserStore interface {
	FindByExternalID(ctx context.Context, externalID string) (*models.User, error)
	Insert(ctx context.Context, user *models.User) (*models.User, error)
}

// EventCache remembers processed webhook event IDs so an identical
// redelivery can be short-circuited without touching the user store.
type EventCache interface {
	IsEventProcessed(ctx context.Context, eventID string) bool
	MarkEventProcessed(ctx context.Context, eventID string) error
}

type UserService struct {
	users     UserStore
	cache     EventCache
	publisher event.Publisher
}

func NewUserService(users UserStore, cache EventCache, publisher event.Publisher) *UserService {
	return &UserService{
		users:     users,
		cache:     cache,
		publisher: publisher,
	}
}

// Provision turns a verified identity event into at most one user
// record. Redelivery of the same event, or of any event carrying an
// already-known externalId, performs zero writes.
func (s *UserService) Provision(ctx context.Context, evt *models.WebhookEvent) (*ProvisionResult, error) {
	if evt.Type != models.WebhookEventUserCreated {
		log.Printf("Ignoring identity event %s of type %s", evt.ID, evt.Type)
		return &ProvisionResult{Status: StatusSkipped}, nil
	}

	if evt.Data.ExternalID == "" {
		return nil, fmt.Errorf("%w: missing external id", ErrInvalidPayload)
	}
	if len(evt.Data.EmailAddresses) == 0 {
		return nil, fmt.Errorf("%w: no email addresses", ErrInvalidPayload)
	}

	if s.cache != nil && evt.ID != "" && s.cache.IsEventProcessed(ctx, evt.ID) {
		log.Printf("Identity event %s already processed, skipping store lookup", evt.ID)
		return &ProvisionResult{Status: StatusAlreadyProvisioned}, nil
	}

	existing, err := s.users.FindByExternalID(ctx, evt.Data.ExternalID)
	if err != nil {
		return nil, &StorageError{Err: err}
	}
	if existing != nil {
		s.markProcessed(ctx, evt.ID)
		return &ProvisionResult{
			Status: StatusAlreadyProvisioned,
			UserID: existing.ID.Hex(),
		}, nil
	}

	user := &models.User{
		ExternalID: evt.Data.ExternalID,
		Name:       displayName(evt.Data.FirstName, evt.Data.LastName),
		Email:      evt.Data.EmailAddresses[0].EmailAddress,
	}

	created, err := s.users.Insert(ctx, user)
	if err != nil {
		// A concurrent delivery of the same event can win the race
		// between our lookup and insert; the unique externalId index
		// turns that into a duplicate-key error, not a second record.
		if mongo.IsDuplicateKeyError(err) {
			log.Printf("User %s already provisioned by a concurrent delivery", evt.Data.ExternalID)
			s.markProcessed(ctx, evt.ID)
			return &ProvisionResult{Status: StatusAlreadyProvisioned}, nil
		}
		return nil, &StorageError{Err: err}
	}

	s.markProcessed(ctx, evt.ID)
	s.publishProvisioned(created)

	return &ProvisionResult{
		Status: StatusProvisioned,
		UserID: created.ID.Hex(),
	}, nil
}

func (s *UserService) markProcessed(ctx context.Context, eventID string) {
	if s.cache == nil || eventID == "" {
		return
	}
	if err := s.cache.MarkEventProcessed(ctx, eventID); err != nil {
		log.Printf("Failed to mark event %s processed: %v", eventID, err)
	}
}

func (s *UserService) publishProvisioned(user *models.User) {
	if s.publisher == nil {
		return
	}
	evt := event.NewUserProvisionedEvent(user.ID.Hex(), user.ExternalID, user.Name, user.Email)
	if err := s.publisher.PublishUserEvent(evt); err != nil {
		log.Printf("Failed to publish user provisioned event: %v", err)
	}
}

// displayName joins the optional name parts and collapses any leftover
// whitespace, so a missing first or last name never produces stray
// spaces.
func displayName(firstName, lastName string) string {
	return strings.Join(strings.Fields(firstName+" "+lastName), " ")
}
