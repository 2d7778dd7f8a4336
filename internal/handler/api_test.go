package handler_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeEndpoint(t *testing.T) {
	srv := newTestServer(t)
	registered := srv.register(t, "ada@example.com", "engine1842")

	rec := srv.do(t, http.MethodGet, "/api/me", registered.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var me struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	decodeResponse(t, rec, &me)
	assert.Equal(t, registered.User.ID, me.ID)
	assert.Equal(t, "ada@example.com", me.Email)
}

func TestMeEndpoint_RequiresAuth(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/me", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func (s *testServer) createEvent(t *testing.T, token string, body map[string]any) string {
	t.Helper()

	if _, ok := body["eventDate"]; !ok {
		body["eventDate"] = time.Now().Add(72 * time.Hour).Format(time.RFC3339)
	}
	rec := s.do(t, http.MethodPost, "/api/events", token, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var event struct {
		ID string `json:"id"`
	}
	decodeResponse(t, rec, &event)
	return event.ID
}

func TestEventEndpoint_OwnershipGuardsMutation(t *testing.T) {
	srv := newTestServer(t)
	owner := srv.register(t, "ada@example.com", "engine1842")
	stranger := srv.register(t, "grace@example.com", "compiler1952")

	eventID := srv.createEvent(t, owner.Token, map[string]any{"name": "Game night"})

	patch := map[string]any{"name": "Renamed"}

	rec := srv.do(t, http.MethodPatch, "/api/events/"+eventID, stranger.Token, patch)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = srv.do(t, http.MethodDelete, "/api/events/"+eventID, stranger.Token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = srv.do(t, http.MethodPatch, "/api/events/"+eventID, owner.Token, patch)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated struct {
		Name string `json:"name"`
	}
	decodeResponse(t, rec, &updated)
	assert.Equal(t, "Renamed", updated.Name)
}

func TestEventEndpoint_AdminMayMutateAnyEvent(t *testing.T) {
	srv := newTestServer(t)
	owner := srv.register(t, "ada@example.com", "engine1842")
	admin := srv.register(t, "root@example.com", "sudoer1970")

	_, err := srv.conn.Exec(`UPDATE users SET is_admin = TRUE WHERE id = $1`, admin.User.ID)
	require.NoError(t, err)

	// Fresh credential so the admin flag is in the claims.
	rec := srv.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "root@example.com", "password": "sudoer1970",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var adminPayload authPayloadResponse
	decodeResponse(t, rec, &adminPayload)

	eventID := srv.createEvent(t, owner.Token, map[string]any{"name": "Game night"})

	rec = srv.do(t, http.MethodPatch, "/api/events/"+eventID, adminPayload.Token, map[string]any{"name": "Renamed"})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestEventEndpoint_PrivateEventIsHidden(t *testing.T) {
	srv := newTestServer(t)
	owner := srv.register(t, "ada@example.com", "engine1842")
	stranger := srv.register(t, "grace@example.com", "compiler1952")

	eventID := srv.createEvent(t, owner.Token, map[string]any{
		"name":     "Secret session",
		"isPublic": false,
	})

	rec := srv.do(t, http.MethodGet, "/api/events/"+eventID, stranger.Token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/events/"+eventID, owner.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Private events are absent from the public listing.
	rec = srv.do(t, http.MethodGet, "/api/events/public", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), eventID)
}

func TestEventEndpoint_JoinRespectsCapacity(t *testing.T) {
	srv := newTestServer(t)
	owner := srv.register(t, "ada@example.com", "engine1842")
	first := srv.register(t, "grace@example.com", "compiler1952")
	second := srv.register(t, "alan@example.com", "enigma1941")

	eventID := srv.createEvent(t, owner.Token, map[string]any{
		"name":            "Tiny table",
		"maxParticipants": 1,
	})

	rec := srv.do(t, http.MethodPost, fmt.Sprintf("/api/events/%s/join", eventID), first.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = srv.do(t, http.MethodPost, fmt.Sprintf("/api/events/%s/join", eventID), second.Token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// A seat frees up when someone leaves.
	rec = srv.do(t, http.MethodPost, fmt.Sprintf("/api/events/%s/leave", eventID), first.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodPost, fmt.Sprintf("/api/events/%s/join", eventID), second.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"OK"`)
}
