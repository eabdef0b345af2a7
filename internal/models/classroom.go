package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Material is stored inline on its classroom. Exactly one of Content
// (base64), TextContent, or URL is set.
type Material struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title"`
	FileName    string             `json:"file_name,omitempty" bson:"file_name,omitempty"`
	ContentType string             `json:"content_type,omitempty" bson:"content_type,omitempty"`
	Content     string             `json:"content,omitempty" bson:"content,omitempty"`
	TextContent string             `json:"text_content,omitempty" bson:"text_content,omitempty"`
	URL         string             `json:"url,omitempty" bson:"url,omitempty"`
	Size        int64              `json:"size,omitempty" bson:"size,omitempty"`
	UploadedBy  primitive.ObjectID `json:"uploaded_by" bson:"uploaded_by"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}

type Classroom struct {
	ID          primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Name        string               `json:"name" bson:"name"`
	Subject     string               `json:"subject" bson:"subject"`
	Description string               `json:"description" bson:"description"`
	Code        string               `json:"code" bson:"code"`
	TeacherID   primitive.ObjectID   `json:"teacher_id" bson:"teacher_id"`
	Students    []primitive.ObjectID `json:"students" bson:"students"`
	Materials   []Material           `json:"materials" bson:"materials"`
	CreatedAt   time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at" bson:"updated_at"`
}
