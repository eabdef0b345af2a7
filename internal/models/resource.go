package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Upvoters/Bookmarkers make the counters per-user idempotent: the guarded
// update increments only when the caller is not yet in the set.
type Resource struct {
	ID          primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	SharedBy    primitive.ObjectID   `json:"shared_by" bson:"shared_by"`
	Title       string               `json:"title" bson:"title"`
	Description string               `json:"description" bson:"description"`
	URL         string               `json:"url" bson:"url"`
	Upvotes     int                  `json:"upvotes" bson:"upvotes"`
	Bookmarks   int                  `json:"bookmarks" bson:"bookmarks"`
	Upvoters    []primitive.ObjectID `json:"-" bson:"upvoters"`
	Bookmarkers []primitive.ObjectID `json:"-" bson:"bookmarkers"`
	CreatedAt   time.Time            `json:"created_at" bson:"created_at"`
}
