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

type ResourceHandler struct {
	resources *mongo.Collection
	timeout   time.Duration
	log       *zap.Logger
}

func NewResourceHandler(client *mongo.Client, dbName string, timeout time.Duration, log *zap.Logger) *ResourceHandler {
	return &ResourceHandler{
		resources: client.Database(dbName).Collection("resources"),
		timeout:   timeout,
		log:       log,
	}
}

// ListResources returns all shared resources.
func (h *ResourceHandler) ListResources(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	cursor, err := h.resources.Find(ctx, bson.M{})
	if err != nil {
		h.log.Error("resource list failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch resources")
		return
	}
	defer cursor.Close(ctx)

	resources := []models.Resource{}
	if err = cursor.All(ctx, &resources); err != nil {
		respondError(w, http.StatusInternalServerError, "Error decoding resources")
		return
	}

	respondJSON(w, http.StatusOK, resources)
}

type createResourceRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	URL         string `json:"url" validate:"required,url"`
}

// CreateResource shares a resource link.
func (h *ResourceHandler) CreateResource(w http.ResponseWriter, r *http.Request) {
	sharedBy, err := primitive.ObjectIDFromHex(middleware.UserID(r.Context()))
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req createResourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "Resource title and a valid URL are required")
		return
	}

	resource := models.Resource{
		ID:          primitive.NewObjectID(),
		SharedBy:    sharedBy,
		Title:       req.Title,
		Description: req.Description,
		URL:         req.URL,
		Upvoters:    []primitive.ObjectID{},
		Bookmarkers: []primitive.ObjectID{},
		CreatedAt:   time.Now(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if _, err := h.resources.InsertOne(ctx, resource); err != nil {
		h.log.Error("resource insert failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to create resource")
		return
	}

	respondJSON(w, http.StatusCreated, resource)
}

// Upvote increments the upvote counter once per user. A repeat upvote is
// accepted but changes nothing; the guarded update makes the pair atomic.
func (h *ResourceHandler) Upvote(w http.ResponseWriter, r *http.Request) {
	h.increment(w, r, "upvoters", "upvotes")
}

// Bookmark increments the bookmark counter once per user.
func (h *ResourceHandler) Bookmark(w http.ResponseWriter, r *http.Request) {
	h.increment(w, r, "bookmarkers", "bookmarks")
}

func (h *ResourceHandler) increment(w http.ResponseWriter, r *http.Request, setField, counterField string) {
	resourceID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid resource ID")
		return
	}
	userID, err := primitive.ObjectIDFromHex(middleware.UserID(r.Context()))
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	res, err := h.resources.UpdateOne(ctx,
		addFilter(resourceID, userID, setField, ""),
		addUpdate(userID, setField, counterField),
	)
	if err != nil {
		h.log.Error("resource increment failed", zap.String("field", counterField), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to update resource")
		return
	}

	if res.ModifiedCount == 0 {
		// Either the user already counted themselves, or the resource
		// does not exist; only the latter is an error.
		err := h.resources.FindOne(ctx, bson.M{"_id": resourceID}).Err()
		if err == mongo.ErrNoDocuments {
			respondError(w, http.StatusNotFound, "Resource not found")
			return
		}
		if err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to fetch resource")
			return
		}
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
