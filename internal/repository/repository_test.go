package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/meeplemeet/meeplemeet/internal/db"
	"github.com/meeplemeet/meeplemeet/internal/model"
)

// newTestDB opens an in-memory sqlite database with the full schema applied.
// Max open connections is pinned to 1 so every query sees the same database.
func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	conn, err := sqlx.Connect("sqlite", ":memory:")
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)

	err = db.RunMigrations(conn.DB, "sqlite")
	require.NoError(t, err)

	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func createTestUser(t *testing.T, conn *sqlx.DB, email string) *model.User {
	t.Helper()

	now := time.Now()
	user := &model.User{
		ID:           uuid.New().String(),
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        email,
		PasswordHash: "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, NewUserRepository(conn).Create(user))
	return user
}
