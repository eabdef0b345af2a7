package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/nabin00012/codecommons/internal/auth"
	"github.com/nabin00012/codecommons/internal/config"
)

// testRouter builds the full route table against a lazily-connecting
// client. Every request below is rejected by the middleware before any
// database operation runs, so no server needs to be listening.
func testRouter(t *testing.T) *mux.Router {
	t.Helper()
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI("mongodb://localhost:27017"))
	require.NoError(t, err)
	t.Cleanup(func() { client.Disconnect(context.Background()) })

	cfg := config.Config{DatabaseName: "codecommons", Timeout: time.Second}
	return SetupRouter(client, cfg, zap.NewNop())
}

func roleToken(t *testing.T, role string) *http.Cookie {
	t.Helper()
	token, err := auth.GenerateJWT(primitive.NewObjectID().Hex(), role, role+"@example.com")
	require.NoError(t, err)
	return &http.Cookie{Name: "token", Value: token}
}

func TestSubmitRequiresStudent(t *testing.T) {
	router := testRouter(t)
	submitPath := "/api/assignments/" + primitive.NewObjectID().Hex() + "/submissions"

	t.Run("unauthenticated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, submitPath, strings.NewReader(`{"content":"x"}`))
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("teacher role rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, submitPath, strings.NewReader(`{"content":"x"}`))
		req.AddCookie(roleToken(t, "teacher"))
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestProtectedRoutesRejectAnonymous(t *testing.T) {
	router := testRouter(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/auth/session"},
		{http.MethodPost, "/api/classrooms"},
		{http.MethodPost, "/api/assignments/" + primitive.NewObjectID().Hex() + "/submissions"},
		{http.MethodPost, "/api/events/" + primitive.NewObjectID().Hex() + "/attend"},
	}
	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(p.method, p.path, nil))
			// /api/auth/session answers anonymous callers with a null
			// user rather than an error.
			if p.path == "/api/auth/session" {
				assert.Equal(t, http.StatusOK, rec.Code)
				assert.JSONEq(t, `{"user":null}`, rec.Body.String())
				return
			}
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}
