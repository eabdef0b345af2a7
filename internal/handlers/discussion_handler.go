package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/nabin00012/codecommons/internal/middleware"
	"github.com/nabin00012/codecommons/internal/models"
)

type DiscussionHandler struct {
	discussions *mongo.Collection
	timeout     time.Duration
	log         *zap.Logger
}

func NewDiscussionHandler(client *mongo.Client, dbName string, timeout time.Duration, log *zap.Logger) *DiscussionHandler {
	return &DiscussionHandler{
		discussions: client.Database(dbName).Collection("discussions"),
		timeout:     timeout,
		log:         log,
	}
}

type listQuery struct {
	page   int64
	limit  int64
	filter bson.M
}

// parseListQuery reads page, limit, query, and tags. Page is 1-based;
// limit is capped at 50. query matches title or content
// case-insensitively; tags is comma-separated and matches any.
func parseListQuery(values url.Values) listQuery {
	q := listQuery{page: 1, limit: 10, filter: bson.M{}}

	if n, err := strconv.ParseInt(values.Get("page"), 10, 64); err == nil && n > 0 {
		q.page = n
	}
	if n, err := strconv.ParseInt(values.Get("limit"), 10, 64); err == nil && n > 0 {
		if n > 50 {
			n = 50
		}
		q.limit = n
	}
	if search := values.Get("query"); search != "" {
		regex := bson.M{"$regex": search, "$options": "i"}
		q.filter["$or"] = []bson.M{
			{"title": regex},
			{"content": regex},
		}
	}
	if tags := values.Get("tags"); tags != "" {
		parts := []string{}
		for _, t := range strings.Split(tags, ",") {
			if t = strings.TrimSpace(t); t != "" {
				parts = append(parts, t)
			}
		}
		if len(parts) > 0 {
			q.filter["tags"] = bson.M{"$in": parts}
		}
	}
	return q
}

// ListDiscussions returns a page of discussions, newest first.
func (h *DiscussionHandler) ListDiscussions(w http.ResponseWriter, r *http.Request) {
	q := parseListQuery(r.URL.Query())

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	total, err := h.discussions.CountDocuments(ctx, q.filter)
	if err != nil {
		h.log.Error("discussion count failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch discussions")
		return
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip((q.page - 1) * q.limit).
		SetLimit(q.limit)

	cursor, err := h.discussions.Find(ctx, q.filter, opts)
	if err != nil {
		h.log.Error("discussion list failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch discussions")
		return
	}
	defer cursor.Close(ctx)

	discussions := []models.Discussion{}
	if err = cursor.All(ctx, &discussions); err != nil {
		respondError(w, http.StatusInternalServerError, "Error decoding discussions")
		return
	}

	totalPages := (total + q.limit - 1) / q.limit
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"discussions": discussions,
		"total":       total,
		"page":        q.page,
		"totalPages":  totalPages,
	})
}

type createDiscussionRequest struct {
	Title   string   `json:"title" validate:"required"`
	Content string   `json:"content" validate:"required"`
	Tags    []string `json:"tags"`
}

// CreateDiscussion starts a discussion authored by the caller.
func (h *DiscussionHandler) CreateDiscussion(w http.ResponseWriter, r *http.Request) {
	authorID, err := primitive.ObjectIDFromHex(middleware.UserID(r.Context()))
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req createDiscussionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "Discussion title and content are required")
		return
	}

	now := time.Now()
	discussion := models.Discussion{
		ID:        primitive.NewObjectID(),
		AuthorID:  authorID,
		Title:     req.Title,
		Content:   req.Content,
		Tags:      req.Tags,
		Likes:     []primitive.ObjectID{},
		Comments:  []models.Comment{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if discussion.Tags == nil {
		discussion.Tags = []string{}
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if _, err := h.discussions.InsertOne(ctx, discussion); err != nil {
		h.log.Error("discussion insert failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to create discussion")
		return
	}

	respondJSON(w, http.StatusCreated, discussion)
}

// ToggleLike adds or removes the caller's like atomically.
func (h *DiscussionHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	discussionID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid discussion ID")
		return
	}
	userID, err := primitive.ObjectIDFromHex(middleware.UserID(r.Context()))
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	result, err := toggleMembership(ctx, h.discussions, discussionID, userID, "likes", "", "")
	if err != nil {
		h.log.Error("like toggle failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to toggle like")
		return
	}
	if result == toggleNotFound {
		respondError(w, http.StatusNotFound, "Discussion not found")
		return
	}

	var discussion models.Discussion
	if err := h.discussions.FindOne(ctx, bson.M{"_id": discussionID}).Decode(&discussion); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch discussion")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"hasLiked": result == toggleAdded,
		"likes":    len(discussion.Likes),
	})
}

// AddComment appends a comment and returns it.
func (h *DiscussionHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	discussionID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid discussion ID")
		return
	}
	authorID, err := primitive.ObjectIDFromHex(middleware.UserID(r.Context()))
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Content == "" {
		respondError(w, http.StatusBadRequest, "Comment content is required")
		return
	}

	comment := models.Comment{
		ID:        primitive.NewObjectID(),
		AuthorID:  authorID,
		Content:   req.Content,
		CreatedAt: time.Now(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	res, err := h.discussions.UpdateOne(ctx,
		bson.M{"_id": discussionID},
		bson.M{
			"$push": bson.M{"comments": comment},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		h.log.Error("comment append failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to add comment")
		return
	}
	if res.MatchedCount == 0 {
		respondError(w, http.StatusNotFound, "Discussion not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"comment": comment})
}
