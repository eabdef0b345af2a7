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

type EventHandler struct {
	events  *mongo.Collection
	timeout time.Duration
	log     *zap.Logger
}

func NewEventHandler(client *mongo.Client, dbName string, timeout time.Duration, log *zap.Logger) *EventHandler {
	return &EventHandler{
		events:  client.Database(dbName).Collection("events"),
		timeout: timeout,
		log:     log,
	}
}

// ListEvents returns all events.
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	cursor, err := h.events.Find(ctx, bson.M{})
	if err != nil {
		h.log.Error("event list failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch events")
		return
	}
	defer cursor.Close(ctx)

	events := []models.Event{}
	if err = cursor.All(ctx, &events); err != nil {
		respondError(w, http.StatusInternalServerError, "Error decoding events")
		return
	}

	respondJSON(w, http.StatusOK, events)
}

type createEventRequest struct {
	Title        string    `json:"title" validate:"required"`
	Description  string    `json:"description"`
	Location     string    `json:"location"`
	StartsAt     time.Time `json:"starts_at" validate:"required"`
	MaxAttendees int       `json:"max_attendees" validate:"required,min=1"`
}

// CreateEvent creates an event organized by the caller.
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	organizerID, err := primitive.ObjectIDFromHex(middleware.UserID(r.Context()))
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req createEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "Event title, start time, and a positive max_attendees are required")
		return
	}

	event := models.Event{
		ID:           primitive.NewObjectID(),
		OrganizerID:  organizerID,
		Title:        req.Title,
		Description:  req.Description,
		Location:     req.Location,
		StartsAt:     req.StartsAt,
		MaxAttendees: req.MaxAttendees,
		Attendees:    []primitive.ObjectID{},
		CreatedAt:    time.Now(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if _, err := h.events.InsertOne(ctx, event); err != nil {
		h.log.Error("event insert failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to create event")
		return
	}

	respondJSON(w, http.StatusCreated, event)
}

// ToggleAttend adds or removes the caller as an attendee. The join arm's
// filter requires attendees.length < max_attendees, so a full event
// rejects the join without mutating anything.
func (h *EventHandler) ToggleAttend(w http.ResponseWriter, r *http.Request) {
	eventID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid event ID")
		return
	}
	userID, err := primitive.ObjectIDFromHex(middleware.UserID(r.Context()))
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	result, err := toggleMembership(ctx, h.events, eventID, userID, "attendees", "", "max_attendees")
	if err != nil {
		h.log.Error("attend toggle failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to toggle attendance")
		return
	}
	switch result {
	case toggleNotFound:
		respondError(w, http.StatusNotFound, "Event not found")
		return
	case toggleFull:
		respondError(w, http.StatusBadRequest, "Event is full")
		return
	}

	var event models.Event
	if err := h.events.FindOne(ctx, bson.M{"_id": eventID}).Decode(&event); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch event")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"isAttending":   result == toggleAdded,
		"attendeeCount": len(event.Attendees),
	})
}
