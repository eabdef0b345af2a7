package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/nabin00012/codecommons/internal/middleware"
	"github.com/nabin00012/codecommons/internal/models"
)

type UserHandler struct {
	users       *mongo.Collection
	discussions *mongo.Collection
	groups      *mongo.Collection
	events      *mongo.Collection
	questions   *mongo.Collection
	resources   *mongo.Collection
	timeout     time.Duration
	log         *zap.Logger
}

func NewUserHandler(client *mongo.Client, dbName string, timeout time.Duration, log *zap.Logger) *UserHandler {
	db := client.Database(dbName)
	return &UserHandler{
		users:       db.Collection("users"),
		discussions: db.Collection("discussions"),
		groups:      db.Collection("groups"),
		events:      db.Collection("events"),
		questions:   db.Collection("questions"),
		resources:   db.Collection("resources"),
		timeout:     timeout,
		log:         log,
	}
}

// VerifyEmail marks a user verified. The token must match and must not be
// past verification_expires; an expired token is rejected even when the
// string matches.
func (h *UserHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		respondError(w, http.StatusBadRequest, "Verification token is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var user models.User
	err := h.users.FindOne(ctx, bson.M{"verification_token": req.Token}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respondError(w, http.StatusBadRequest, "Invalid or expired verification token")
		} else {
			h.log.Error("verification lookup failed", zap.Error(err))
			respondError(w, http.StatusInternalServerError, "Failed to verify email")
		}
		return
	}

	if time.Now().After(user.VerificationExpires) {
		respondError(w, http.StatusBadRequest, "Invalid or expired verification token")
		return
	}

	_, err = h.users.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{
		"$set": bson.M{
			"is_verified": true,
			"updated_at":  time.Now(),
		},
		"$unset": bson.M{
			"verification_token":   "",
			"verification_expires": "",
		},
	})
	if err != nil {
		h.log.Error("verification update failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to update verification status")
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// SkipProfile marks onboarding complete without requiring any profile
// fields to be set.
func (h *UserHandler) SkipProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := primitive.ObjectIDFromHex(middleware.UserID(r.Context()))
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var user models.User
	err = h.users.FindOneAndUpdate(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"profile_completed": true, "updated_at": time.Now()}},
		findOneAndUpdateReturnAfter(),
	).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respondError(w, http.StatusNotFound, "User not found")
		} else {
			h.log.Error("skip-profile update failed", zap.Error(err))
			respondError(w, http.StatusInternalServerError, "Failed to update profile")
		}
		return
	}

	respondJSON(w, http.StatusOK, user)
}

type completeProfileRequest struct {
	Department string `json:"department"`
	Year       string `json:"year"`
	Bio        string `json:"bio"`
	Role       string `json:"role"`
}

// CompleteProfile fills in onboarding fields. Role may be set to student
// or teacher only; admin is never self-assignable.
func (h *UserHandler) CompleteProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := primitive.ObjectIDFromHex(middleware.UserID(r.Context()))
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req completeProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	set := bson.M{"profile_completed": true, "updated_at": time.Now()}
	if req.Department != "" {
		set["department"] = req.Department
	}
	if req.Year != "" {
		set["year"] = req.Year
	}
	if req.Bio != "" {
		set["bio"] = req.Bio
	}
	if req.Role != "" {
		if req.Role != string(models.RoleStudent) && req.Role != string(models.RoleTeacher) {
			respondError(w, http.StatusBadRequest, "Role must be student or teacher")
			return
		}
		set["role"] = req.Role
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var user models.User
	err = h.users.FindOneAndUpdate(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": set},
		findOneAndUpdateReturnAfter(),
	).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respondError(w, http.StatusNotFound, "User not found")
		} else {
			h.log.Error("complete-profile update failed", zap.Error(err))
			respondError(w, http.StatusInternalServerError, "Failed to update profile")
		}
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// Stats aggregates per-user engagement counts across the collections.
func (h *UserHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	counts := []struct {
		name   string
		coll   *mongo.Collection
		filter bson.M
	}{
		{"discussions", h.discussions, bson.M{"author_id": userID}},
		{"comments", h.discussions, bson.M{"comments.author_id": userID}},
		{"groupsJoined", h.groups, bson.M{"members": userID}},
		{"eventsAttended", h.events, bson.M{"attendees": userID}},
		{"questions", h.questions, bson.M{"author_id": userID}},
		{"answers", h.questions, bson.M{"answers.author_id": userID}},
		{"resourcesShared", h.resources, bson.M{"shared_by": userID}},
	}

	stats := make(map[string]int64, len(counts))
	for _, c := range counts {
		n, err := c.coll.CountDocuments(ctx, c.filter)
		if err != nil {
			h.log.Error("stats count failed", zap.String("stat", c.name), zap.Error(err))
			respondError(w, http.StatusInternalServerError, "Failed to compute stats")
			return
		}
		stats[c.name] = n
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"stats": stats})
}
