package model

import (
	"time"
)

// ResetToken is one password-reset attempt. Only the sha256 of the random
// secret is stored; the raw secret exists solely in the emailed link.
// Rows are never deleted or reused once consumed.
type ResetToken struct {
	ID        string     `db:"id"`
	UserID    string     `db:"user_id"`
	TokenHash string     `db:"token_hash"`
	ExpiresAt time.Time  `db:"expires_at"`
	UsedAt    *time.Time `db:"used_at"`
	CreatedAt time.Time  `db:"created_at"`
}

func (t *ResetToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}

func (t *ResetToken) IsUsed() bool {
	return t.UsedAt != nil
}

func (t *ResetToken) IsValid() bool {
	return !t.IsExpired() && !t.IsUsed()
}
