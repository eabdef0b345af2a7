package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Event struct {
	ID           primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	OrganizerID  primitive.ObjectID   `json:"organizer_id" bson:"organizer_id"`
	Title        string               `json:"title" bson:"title"`
	Description  string               `json:"description" bson:"description"`
	Location     string               `json:"location" bson:"location"`
	StartsAt     time.Time            `json:"starts_at" bson:"starts_at"`
	MaxAttendees int                  `json:"max_attendees" bson:"max_attendees"`
	Attendees    []primitive.ObjectID `json:"attendees" bson:"attendees"`
	CreatedAt    time.Time            `json:"created_at" bson:"created_at"`
}
