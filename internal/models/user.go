package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleTeacher UserRole = "teacher"
	RoleStudent UserRole = "student"
)

type User struct {
	ID                  primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Email               string             `json:"email" bson:"email"`
	Name                string             `json:"name" bson:"name"`
	Password            string             `json:"-" bson:"password"`
	Role                UserRole           `json:"role" bson:"role"`
	Department          string             `json:"department,omitempty" bson:"department,omitempty"`
	Year                string             `json:"year,omitempty" bson:"year,omitempty"`
	Bio                 string             `json:"bio,omitempty" bson:"bio,omitempty"`
	IsVerified          bool               `json:"is_verified" bson:"is_verified"`
	VerificationToken   string             `json:"-" bson:"verification_token,omitempty"`
	VerificationExpires time.Time          `json:"-" bson:"verification_expires,omitempty"`
	ProfileCompleted    bool               `json:"profile_completed" bson:"profile_completed"`
	CreatedAt           time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at" bson:"updated_at"`
}
