package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Base is the base document for all collections.
// IDs are MongoDB ObjectIDs; ownership checks compare them directly,
// never their string form.
type Base struct {
	ID        primitive.ObjectID `json:"id"        bson:"_id,omitempty"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// EnsureID assigns a fresh ObjectID and creation timestamp on first
// persist, and bumps UpdatedAt on every call.
func (b *Base) EnsureID(now time.Time) {
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}
