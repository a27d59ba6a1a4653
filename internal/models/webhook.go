package models

const (
	// WebhookEventUserCreated is the only identity event type the
	// provisioning pipeline acts on. Everything else is acknowledged
	// and skipped.
	WebhookEventUserCreated = "user.created"
	WebhookEventUserUpdated = "user.updated"
	WebhookEventUserDeleted = "user.deleted"
)

// WebhookEvent is an identity event that already passed signature and
// structural validation. ID is the provider-assigned message ID taken
// from the svix-id header.
type WebhookEvent struct {
	ID   string
	Type string
	Data UserEventData
}

// UserEventData mirrors the Clerk user object fields the service cares
// about.
type UserEventData struct {
	ExternalID     string         `json:"id"`
	FirstName      string         `json:"first_name"`
	LastName       string         `json:"last_name"`
	EmailAddresses []EmailAddress `json:"email_addresses"`
}

type EmailAddress struct {
	EmailAddress string `json:"email_address"`
}
