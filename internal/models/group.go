package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemberCount is denormalized for list views; join/leave mutate it in the
// same update as Members so the two cannot drift.
type Group struct {
	ID          primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	CreatorID   primitive.ObjectID   `json:"creator_id" bson:"creator_id"`
	Name        string               `json:"name" bson:"name"`
	Description string               `json:"description" bson:"description"`
	Members     []primitive.ObjectID `json:"members" bson:"members"`
	MemberCount int                  `json:"member_count" bson:"member_count"`
	CreatedAt   time.Time            `json:"created_at" bson:"created_at"`
}
