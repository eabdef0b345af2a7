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

type GroupHandler struct {
	groups  *mongo.Collection
	timeout time.Duration
	log     *zap.Logger
}

func NewGroupHandler(client *mongo.Client, dbName string, timeout time.Duration, log *zap.Logger) *GroupHandler {
	return &GroupHandler{
		groups:  client.Database(dbName).Collection("groups"),
		timeout: timeout,
		log:     log,
	}
}

// ListGroups returns all groups.
func (h *GroupHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	cursor, err := h.groups.Find(ctx, bson.M{})
	if err != nil {
		h.log.Error("group list failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch groups")
		return
	}
	defer cursor.Close(ctx)

	groups := []models.Group{}
	if err = cursor.All(ctx, &groups); err != nil {
		respondError(w, http.StatusInternalServerError, "Error decoding groups")
		return
	}

	respondJSON(w, http.StatusOK, groups)
}

type createGroupRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// CreateGroup creates a group with the caller as its first member.
func (h *GroupHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	creatorID, err := primitive.ObjectIDFromHex(middleware.UserID(r.Context()))
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req createGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "Group name is required")
		return
	}

	group := models.Group{
		ID:          primitive.NewObjectID(),
		CreatorID:   creatorID,
		Name:        req.Name,
		Description: req.Description,
		Members:     []primitive.ObjectID{creatorID},
		MemberCount: 1,
		CreatedAt:   time.Now(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if _, err := h.groups.InsertOne(ctx, group); err != nil {
		h.log.Error("group insert failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to create group")
		return
	}

	respondJSON(w, http.StatusCreated, group)
}

// ToggleJoin adds or removes the caller as a member. member_count moves
// in the same update as members, so the two cannot drift.
func (h *GroupHandler) ToggleJoin(w http.ResponseWriter, r *http.Request) {
	groupID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid group ID")
		return
	}
	userID, err := primitive.ObjectIDFromHex(middleware.UserID(r.Context()))
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	result, err := toggleMembership(ctx, h.groups, groupID, userID, "members", "member_count", "")
	if err != nil {
		h.log.Error("group join toggle failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to toggle membership")
		return
	}
	if result == toggleNotFound {
		respondError(w, http.StatusNotFound, "Group not found")
		return
	}

	var group models.Group
	if err := h.groups.FindOne(ctx, bson.M{"_id": groupID}).Decode(&group); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch group")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"isMember":    result == toggleAdded,
		"memberCount": group.MemberCount,
	})
}
