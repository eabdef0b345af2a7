package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()

	respondError(rec, http.StatusNotFound, "Material not found")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Material not found", body["error"])
}

func TestRespondJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	respondJSON(rec, http.StatusOK, map[string]bool{"success": true})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success": true}`, rec.Body.String())
}

func TestRegisterRequestValidation(t *testing.T) {
	cases := []struct {
		name    string
		req     registerRequest
		wantErr bool
	}{
		{"valid", registerRequest{Email: "a@b.edu", Name: "Alice", Password: "secret1"}, false},
		{"missing email", registerRequest{Name: "Alice", Password: "secret1"}, true},
		{"bad email", registerRequest{Email: "nope", Name: "Alice", Password: "secret1"}, true},
		{"short password", registerRequest{Email: "a@b.edu", Name: "Alice", Password: "abc"}, true},
		{"missing name", registerRequest{Email: "a@b.edu", Password: "secret1"}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validate.Struct(tc.req)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
