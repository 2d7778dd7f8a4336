package service

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/meeplemeet/meeplemeet/internal/auth"
	"github.com/meeplemeet/meeplemeet/internal/model"
	"github.com/meeplemeet/meeplemeet/internal/repository"
	"github.com/meeplemeet/meeplemeet/internal/validation"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrInvalidInput       = errors.New("invalid input")
)

// dummyDigest is a well-formed bcrypt digest compared against when login
// hits an unknown email, so that "no such user" and "wrong password" cost
// roughly the same and return the identical error.
const dummyDigest = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AuthPayload is returned by every use case that logs the caller in.
type AuthPayload struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// AuthService orchestrates the credential use cases: register, login,
// request-password-reset and reset-password. It owns all writes to
// credential state.
type AuthService struct {
	users             repository.UserRepository
	resetTokens       *ResetTokenService
	mailer            ResetMailer
	hasher            *auth.PasswordHasher
	signer            *auth.TokenSigner
	frontendURL       string
	passwordMinLength int
}

func NewAuthService(
	users repository.UserRepository,
	resetTokens *ResetTokenService,
	mailer ResetMailer,
	hasher *auth.PasswordHasher,
	signer *auth.TokenSigner,
	frontendURL string,
	passwordMinLength int,
) *AuthService {
	return &AuthService{
		users:             users,
		resetTokens:       resetTokens,
		mailer:            mailer,
		hasher:            hasher,
		signer:            signer,
		frontendURL:       frontendURL,
		passwordMinLength: passwordMinLength,
	}
}

func (s *AuthService) Register(firstName, lastName, email, password string) (*AuthPayload, error) {
	if firstName == "" || lastName == "" {
		return nil, fmt.Errorf("first and last name are required: %w", ErrInvalidInput)
	}
	err := validation.ValidateEmail(email)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrInvalidInput)
	}
	err = validation.ValidatePassword(password, s.passwordMinLength)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrInvalidInput)
	}

	_, err = s.users.ByEmail(email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.New().String(),
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.users.Create(user)
	if err != nil {
		// Lost the race against a concurrent registration for the same email
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.signer.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue credential: %w", err)
	}

	slog.Info("user registered", "user_id", user.ID, "email", user.Email)
	return &AuthPayload{Token: token, User: user}, nil
}

func (s *AuthService) Login(email, password string) (*AuthPayload, error) {
	user, err := s.users.ByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Burn a comparison anyway so unknown emails cost the same as
			// wrong passwords.
			s.hasher.Verify(password, dummyDigest)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.signer.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue credential: %w", err)
	}

	return &AuthPayload{Token: token, User: user}, nil
}

// RequestPasswordReset starts the reset flow for email. It always reports
// generic success: whether the email is registered must not be observable
// from the response. Internal failures (store, send) are logged for
// operators and otherwise swallowed; a token row created before a failed
// send stays valid until it expires or is used.
func (s *AuthService) RequestPasswordReset(email string) bool {
	user, err := s.users.ByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			slog.Info("password reset requested for unknown email", "email", email)
		} else {
			slog.Error("password reset user lookup failed", "error", err, "email", email)
		}
		return true
	}

	raw, err := s.resetTokens.Create(user.ID)
	if err != nil {
		slog.Error("password reset token creation failed", "error", err, "user_id", user.ID)
		return true
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.frontendURL, raw)
	err = s.mailer.SendPasswordResetEmail(user.Email, resetURL)
	if err != nil {
		slog.Error("password reset email send failed", "error", err, "user_id", user.ID)
		return true
	}

	slog.Info("password reset link sent", "user_id", user.ID)
	return true
}

// ResetPassword redeems a reset secret, overwrites the user's password hash
// and logs the caller in with a fresh credential.
func (s *AuthService) ResetPassword(rawSecret, newPassword string) (*AuthPayload, error) {
	if rawSecret == "" {
		return nil, fmt.Errorf("reset token is required: %w", ErrInvalidInput)
	}
	err := validation.ValidatePassword(newPassword, s.passwordMinLength)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrInvalidInput)
	}

	userID, err := s.resetTokens.Consume(rawSecret)
	if err != nil {
		if errors.Is(err, ErrResetTokenInvalid) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to redeem reset token: %w", err)
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	err = s.users.UpdatePasswordHash(userID, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to update password: %w", err)
	}

	user, err := s.users.ByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	token, err := s.signer.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue credential: %w", err)
	}

	slog.Info("password reset completed", "user_id", user.ID)
	return &AuthPayload{Token: token, User: user}, nil
}
