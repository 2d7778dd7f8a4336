package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/meeplemeet/meeplemeet/internal/model"
)

var ErrTokenNotFound = errors.New("token not found")

type ResetTokenRepository interface {
	Create(token *model.ResetToken) error
	Consume(tokenHash string) (*model.ResetToken, error)
	ByUser(userID string) ([]model.ResetToken, error)
	DeleteExpired(olderThan time.Duration) (int64, error)
}

type resetTokenRepository struct {
	db *sqlx.DB
}

func NewResetTokenRepository(db *sqlx.DB) ResetTokenRepository {
	return &resetTokenRepository{db: db}
}

func (r *resetTokenRepository) Create(token *model.ResetToken) error {
	if token.ID == "" {
		token.ID = uuid.New().String()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO password_reset_tokens (id, user_id, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(query,
		token.ID,
		token.UserID,
		token.TokenHash,
		token.ExpiresAt,
		token.CreatedAt,
	)
	return err
}

// Consume atomically marks the token matching tokenHash as used and returns
// it. The conditional UPDATE is a single statement, so of two concurrent
// redemptions exactly one succeeds; the other gets ErrTokenNotFound. Expired
// and already-used rows never match.
func (r *resetTokenRepository) Consume(tokenHash string) (*model.ResetToken, error) {
	var t model.ResetToken
	now := time.Now()

	query := `
		UPDATE password_reset_tokens
		SET used_at = $1
		WHERE token_hash = $2
		AND used_at IS NULL
		AND expires_at > $3
		RETURNING *
	`

	err := r.db.Get(&t, query, now, tokenHash, now)
	if err == sql.ErrNoRows {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, err
	}

	return &t, nil
}

func (r *resetTokenRepository) ByUser(userID string) ([]model.ResetToken, error) {
	tokens := []model.ResetToken{}
	query := `SELECT * FROM password_reset_tokens WHERE user_id = $1 ORDER BY created_at DESC`

	err := r.db.Select(&tokens, query, userID)
	return tokens, err
}

// DeleteExpired removes used and expired rows older than the given duration.
// Rows are kept by default as an audit trail; this is an operator-invoked
// maintenance operation, nothing calls it automatically.
func (r *resetTokenRepository) DeleteExpired(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	query := `
		DELETE FROM password_reset_tokens
		WHERE (used_at IS NOT NULL AND used_at < $1)
		   OR (expires_at < $1)
	`
	result, err := r.db.Exec(query, cutoff)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
