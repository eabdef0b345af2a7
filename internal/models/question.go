package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Answer struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	AuthorID   primitive.ObjectID `json:"author_id" bson:"author_id"`
	Content    string             `json:"content" bson:"content"`
	IsAccepted bool               `json:"is_accepted" bson:"is_accepted"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
}

// At most one answer per question carries is_accepted; the accept handler
// clears the others in the same update.
type Question struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	AuthorID  primitive.ObjectID `json:"author_id" bson:"author_id"`
	Title     string             `json:"title" bson:"title"`
	Content   string             `json:"content" bson:"content"`
	Tags      []string           `json:"tags" bson:"tags"`
	Answers   []Answer           `json:"answers" bson:"answers"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}
