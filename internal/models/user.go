package models

import (
	"go.mongodb.org/mongo-driver/v2/bson"
)

// User is the locally provisioned record for an identity-provider
// account. ExternalID is the provider's user identifier and is unique
// across the collection.
type User struct {
	ID         bson.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ExternalID string        `json:"externalId" bson:"externalId"`
	Name       string        `json:"name" bson:"name"`
	Email      string        `json:"email" bson:"email"`
	CreatedAt  int           `json:"createdAt" bson:"createdAt"`
	UpdatedAt  int           `json:"updatedAt" bson:"updatedAt"`
}
