package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"go.uber.org/zap"

	"github.com/nabin00012/codecommons/internal/auth"
	"github.com/nabin00012/codecommons/internal/middleware"
)

func attendRequest(t *testing.T, eventID, userID primitive.ObjectID) *http.Request {
	t.Helper()
	token, err := auth.GenerateJWT(userID.Hex(), "student", "s@example.com")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/events/"+eventID.Hex()+"/attend", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	return mux.SetURLVars(req, map[string]string{"id": eventID.Hex()})
}

func updateResponse(n, nModified int32) bson.D {
	return mtest.CreateSuccessResponse(
		bson.E{Key: "n", Value: n},
		bson.E{Key: "nModified", Value: nModified},
	)
}

func eventDoc(eventID primitive.ObjectID, maxAttendees int32, attendees ...primitive.ObjectID) bson.D {
	ids := bson.A{}
	for _, a := range attendees {
		ids = append(ids, a)
	}
	return bson.D{
		{Key: "_id", Value: eventID},
		{Key: "title", Value: "Go Meetup"},
		{Key: "max_attendees", Value: maxAttendees},
		{Key: "attendees", Value: ids},
	}
}

func TestToggleAttend(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	eventID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	mt.Run("join then state reflects attendance", func(mt *mtest.T) {
		h := &EventHandler{events: mt.Coll, timeout: time.Second, log: zap.NewNop()}
		// remove arm misses, add arm inserts, then the handler re-reads.
		mt.AddMockResponses(
			updateResponse(0, 0),
			updateResponse(1, 1),
			mtest.CreateCursorResponse(0, "codecommons.events", mtest.FirstBatch,
				eventDoc(eventID, 10, userID)),
		)

		rec := httptest.NewRecorder()
		middleware.RequireAuth(http.HandlerFunc(h.ToggleAttend)).ServeHTTP(rec, attendRequest(t, eventID, userID))

		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Success       bool `json:"success"`
			IsAttending   bool `json:"isAttending"`
			AttendeeCount int  `json:"attendeeCount"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.True(t, body.Success)
		assert.True(t, body.IsAttending)
		assert.Equal(t, 1, body.AttendeeCount)
	})

	mt.Run("second toggle removes attendance", func(mt *mtest.T) {
		h := &EventHandler{events: mt.Coll, timeout: time.Second, log: zap.NewNop()}
		// remove arm hits on the first update; the add arm never runs.
		mt.AddMockResponses(
			updateResponse(1, 1),
			mtest.CreateCursorResponse(0, "codecommons.events", mtest.FirstBatch,
				eventDoc(eventID, 10)),
		)

		rec := httptest.NewRecorder()
		middleware.RequireAuth(http.HandlerFunc(h.ToggleAttend)).ServeHTTP(rec, attendRequest(t, eventID, userID))

		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			IsAttending   bool `json:"isAttending"`
			AttendeeCount int  `json:"attendeeCount"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.False(t, body.IsAttending)
		assert.Equal(t, 0, body.AttendeeCount)
	})

	mt.Run("full event rejects join without mutating", func(mt *mtest.T) {
		h := &EventHandler{events: mt.Coll, timeout: time.Second, log: zap.NewNop()}
		other1 := primitive.NewObjectID()
		other2 := primitive.NewObjectID()
		// Both guarded arms miss: the caller is not an attendee and the
		// capacity filter blocks the add. The document exists and the
		// caller is not in the set, so the toggle reports full.
		mt.AddMockResponses(
			updateResponse(0, 0),
			updateResponse(0, 0),
			mtest.CreateCursorResponse(0, "codecommons.events", mtest.FirstBatch,
				eventDoc(eventID, 2, other1, other2)),
			mtest.CreateCursorResponse(0, "codecommons.events", mtest.FirstBatch),
		)

		rec := httptest.NewRecorder()
		middleware.RequireAuth(http.HandlerFunc(h.ToggleAttend)).ServeHTTP(rec, attendRequest(t, eventID, userID))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Event is full", body["error"])
	})

	mt.Run("missing event returns 404", func(mt *mtest.T) {
		h := &EventHandler{events: mt.Coll, timeout: time.Second, log: zap.NewNop()}
		mt.AddMockResponses(
			updateResponse(0, 0),
			updateResponse(0, 0),
			mtest.CreateCursorResponse(0, "codecommons.events", mtest.FirstBatch),
		)

		rec := httptest.NewRecorder()
		middleware.RequireAuth(http.HandlerFunc(h.ToggleAttend)).ServeHTTP(rec, attendRequest(t, eventID, userID))

		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	mt.Run("unauthenticated request never reaches the store", func(mt *mtest.T) {
		h := &EventHandler{events: mt.Coll, timeout: time.Second, log: zap.NewNop()}
		// No mock responses queued: any database call would fail the test.
		req := httptest.NewRequest(http.MethodPost, "/api/events/"+eventID.Hex()+"/attend", nil)
		req = mux.SetURLVars(req, map[string]string{"id": eventID.Hex()})

		rec := httptest.NewRecorder()
		middleware.RequireAuth(http.HandlerFunc(h.ToggleAttend)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
