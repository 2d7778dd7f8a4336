package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/meeplemeet/meeplemeet/internal/model"
	"github.com/meeplemeet/meeplemeet/internal/repository"
)

var ErrResetTokenInvalid = errors.New("invalid or expired reset token")

// ResetTokenService owns the lifecycle of single-use password-reset secrets.
// It hands the raw secret to the caller exactly once and persists only its
// sha256, so a database read alone cannot be turned into a working reset link.
type ResetTokenService struct {
	tokens repository.ResetTokenRepository
	expiry time.Duration
}

func NewResetTokenService(tokens repository.ResetTokenRepository, expiry time.Duration) *ResetTokenService {
	return &ResetTokenService{tokens: tokens, expiry: expiry}
}

// Create generates a fresh reset secret for userID and stores its hash with
// the configured expiry. Returns the raw secret for inclusion in the
// out-of-band link. Multiple live tokens per user may coexist.
func (s *ResetTokenService) Create(userID string) (string, error) {
	raw, err := generateSecret()
	if err != nil {
		return "", fmt.Errorf("failed to generate secret: %w", err)
	}

	token := &model.ResetToken{
		UserID:    userID,
		TokenHash: hashSecret(raw),
		ExpiresAt: time.Now().Add(s.expiry),
	}
	err = s.tokens.Create(token)
	if err != nil {
		return "", fmt.Errorf("failed to store reset token: %w", err)
	}

	return raw, nil
}

// Consume redeems a presented raw secret and returns the owning user id.
// Lookup and mark-used happen in one atomic statement, so a secret can be
// redeemed at most once even under concurrent requests. Unknown, expired,
// and already-used secrets all yield ErrResetTokenInvalid.
func (s *ResetTokenService) Consume(raw string) (string, error) {
	if raw == "" {
		return "", ErrResetTokenInvalid
	}

	token, err := s.tokens.Consume(hashSecret(raw))
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return "", ErrResetTokenInvalid
		}
		return "", fmt.Errorf("failed to consume reset token: %w", err)
	}

	return token.UserID, nil
}

// generateSecret returns 32 bytes of entropy, hex encoded.
func generateSecret() (string, error) {
	bytes := make([]byte, 32)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

func hashSecret(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
