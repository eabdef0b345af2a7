package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SubmissionStatus string

const (
	StatusPending  SubmissionStatus = "pending"
	StatusGraded   SubmissionStatus = "graded"
	StatusReturned SubmissionStatus = "returned"
)

// Submission is a top-level collection keyed by (assignment_id,
// student_id); the unique index allows one per student per assignment.
type Submission struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	AssignmentID primitive.ObjectID `json:"assignment_id" bson:"assignment_id"`
	StudentID    primitive.ObjectID `json:"student_id" bson:"student_id"`
	Content      string             `json:"content,omitempty" bson:"content,omitempty"`
	FileURL      string             `json:"file_url,omitempty" bson:"file_url,omitempty"`
	Status       SubmissionStatus   `json:"status" bson:"status"`
	Grade        int                `json:"grade,omitempty" bson:"grade,omitempty"`
	Feedback     string             `json:"feedback,omitempty" bson:"feedback,omitempty"`
	GradedBy     primitive.ObjectID `json:"graded_by,omitempty" bson:"graded_by,omitempty"`
	GradedAt     time.Time          `json:"graded_at,omitempty" bson:"graded_at,omitempty"`
	SubmittedAt  time.Time          `json:"submitted_at" bson:"submitted_at"`
}
