package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/meeplemeet/meeplemeet/internal/app"
	"github.com/meeplemeet/meeplemeet/internal/auth"
	"github.com/meeplemeet/meeplemeet/internal/db"
	"github.com/meeplemeet/meeplemeet/internal/repository"
	"github.com/meeplemeet/meeplemeet/internal/routes"
	"github.com/meeplemeet/meeplemeet/internal/service"
)

const testFrontendURL = "https://app.example.com"

// captureMailer records reset links instead of delivering them.
type captureMailer struct {
	mu   sync.Mutex
	urls []string
}

func (m *captureMailer) SendPasswordResetEmail(email, resetURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.urls = append(m.urls, resetURL)
	return nil
}

func (m *captureMailer) lastToken(t *testing.T) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.urls)
	return strings.TrimPrefix(m.urls[len(m.urls)-1], testFrontendURL+"/reset-password?token=")
}

type testServer struct {
	handler http.Handler
	mailer  *captureMailer
	conn    *sqlx.DB
}

// newTestServer wires the full route tree against an in-memory database.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	conn, err := sqlx.Connect("sqlite", ":memory:")
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)
	require.NoError(t, db.RunMigrations(conn.DB, "sqlite"))
	t.Cleanup(func() { _ = conn.Close() })

	users := repository.NewUserRepository(conn)
	resetTokens := repository.NewResetTokenRepository(conn)
	events := repository.NewEventRepository(conn)
	comments := repository.NewCommentRepository(conn)
	tags := repository.NewTagRepository(conn)

	hasher := auth.NewPasswordHasher()
	signer := auth.NewTokenSigner("test-secret", time.Hour)
	mailer := &captureMailer{}

	authService := service.NewAuthService(
		users,
		service.NewResetTokenService(resetTokens, time.Hour),
		mailer,
		hasher,
		signer,
		testFrontendURL,
		6,
	)

	a := &app.App{
		DB:                conn,
		Signer:            signer,
		UserRepository:    users,
		EventRepository:   events,
		CommentRepository: comments,
		TagRepository:     tags,
		AuthService:       authService,
	}

	return &testServer{handler: routes.SetupRoutes(a), mailer: mailer, conn: conn}
}

// do performs a request against the route tree. A non-empty token is sent as
// a bearer credential; a non-nil body is sent as JSON.
func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

type authPayloadResponse struct {
	Token string `json:"token"`
	User  struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		IsAdmin bool   `json:"isAdmin"`
	} `json:"user"`
}

// register creates an account through the endpoint and returns the payload.
func (s *testServer) register(t *testing.T, email, password string) authPayloadResponse {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"firstName": "Ada",
		"lastName":  "Lovelace",
		"email":     email,
		"password":  password,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var payload authPayloadResponse
	decodeResponse(t, rec, &payload)
	return payload
}
