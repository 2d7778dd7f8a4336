package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meeplemeet/meeplemeet/internal/auth"
)

const testFrontendURL = "https://app.example.com"

type authFixture struct {
	svc    *AuthService
	users  *fakeUserRepo
	resets *fakeResetRepo
	mailer *fakeMailer
	signer *auth.TokenSigner
	hasher *auth.PasswordHasher
}

func newAuthFixture(resetExpiry time.Duration) *authFixture {
	users := newFakeUserRepo()
	resets := newFakeResetRepo()
	mailer := &fakeMailer{}
	hasher := auth.NewPasswordHasher()
	signer := auth.NewTokenSigner("test-secret", time.Hour)

	svc := NewAuthService(
		users,
		NewResetTokenService(resets, resetExpiry),
		mailer,
		hasher,
		signer,
		testFrontendURL,
		6,
	)
	return &authFixture{svc: svc, users: users, resets: resets, mailer: mailer, signer: signer, hasher: hasher}
}

func (f *authFixture) register(t *testing.T, email, password string) *AuthPayload {
	t.Helper()
	payload, err := f.svc.Register("Ada", "Lovelace", email, password)
	require.NoError(t, err)
	return payload
}

func TestAuthService_Register(t *testing.T) {
	f := newAuthFixture(time.Hour)

	payload := f.register(t, "ada@example.com", "engine1842")

	require.NotNil(t, payload.User)
	assert.NotEmpty(t, payload.User.ID)
	assert.Equal(t, "ada@example.com", payload.User.Email)
	assert.False(t, payload.User.IsAdmin)

	// Password is stored hashed, never verbatim.
	assert.NotEqual(t, "engine1842", payload.User.PasswordHash)
	assert.True(t, f.hasher.Verify("engine1842", payload.User.PasswordHash))

	// The returned credential is immediately usable.
	claims, err := f.signer.Verify(payload.Token)
	require.NoError(t, err)
	assert.Equal(t, payload.User.ID, claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	f := newAuthFixture(time.Hour)

	f.register(t, "ada@example.com", "engine1842")

	_, err := f.svc.Register("Another", "Ada", "ada@example.com", "different1")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthService_RegisterRejectsInvalidInput(t *testing.T) {
	f := newAuthFixture(time.Hour)

	cases := []struct {
		name                                  string
		firstName, lastName, email, password string
	}{
		{"missing first name", "", "Lovelace", "ada@example.com", "engine1842"},
		{"missing last name", "Ada", "", "ada@example.com", "engine1842"},
		{"malformed email", "Ada", "Lovelace", "not-an-email", "engine1842"},
		{"short password", "Ada", "Lovelace", "ada@example.com", "abc"},
		{"overlong password", "Ada", "Lovelace", "ada@example.com", strings.Repeat("a", 73)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Register(tc.firstName, tc.lastName, tc.email, tc.password)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	f := newAuthFixture(time.Hour)
	registered := f.register(t, "ada@example.com", "engine1842")

	payload, err := f.svc.Login("ada@example.com", "engine1842")
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, payload.User.ID)

	claims, err := f.signer.Verify(payload.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, claims.UserID)
}

func TestAuthService_LoginFailuresAreIndistinguishable(t *testing.T) {
	f := newAuthFixture(time.Hour)
	f.register(t, "ada@example.com", "engine1842")

	_, wrongPassword := f.svc.Login("ada@example.com", "not the password")
	_, unknownEmail := f.svc.Login("nobody@example.com", "engine1842")

	// Both failure modes surface the identical sentinel.
	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestAuthService_RequestPasswordReset(t *testing.T) {
	f := newAuthFixture(time.Hour)
	registered := f.register(t, "ada@example.com", "engine1842")

	ok := f.svc.RequestPasswordReset("ada@example.com")
	assert.True(t, ok)

	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, "ada@example.com", f.mailer.sent[0].to)
	assert.True(t, strings.HasPrefix(f.mailer.sent[0].url, testFrontendURL+"/reset-password?token="))

	// A token row exists, and it stores the hash, not the mailed secret.
	raw := strings.TrimPrefix(f.mailer.sent[0].url, testFrontendURL+"/reset-password?token=")
	tokens, err := f.resets.ByUser(registered.User.ID)
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.NotEqual(t, raw, tokens[0].TokenHash)
}

func TestAuthService_RequestPasswordResetUnknownEmail(t *testing.T) {
	f := newAuthFixture(time.Hour)

	// Unknown emails get the same generic success and leave no trace.
	ok := f.svc.RequestPasswordReset("nobody@example.com")
	assert.True(t, ok)
	assert.Empty(t, f.mailer.sent)
}

func TestAuthService_RequestPasswordResetSwallowsSendFailure(t *testing.T) {
	f := newAuthFixture(time.Hour)
	registered := f.register(t, "ada@example.com", "engine1842")
	f.mailer.sendErr = assert.AnError

	ok := f.svc.RequestPasswordReset("ada@example.com")
	assert.True(t, ok)

	// The stored token outlives the failed send and stays redeemable.
	tokens, err := f.resets.ByUser(registered.User.ID)
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.True(t, tokens[0].IsValid())
}

func TestAuthService_ResetPasswordFlow(t *testing.T) {
	f := newAuthFixture(time.Hour)
	registered := f.register(t, "ada@example.com", "engine1842")

	require.True(t, f.svc.RequestPasswordReset("ada@example.com"))
	require.Len(t, f.mailer.sent, 1)
	raw := strings.TrimPrefix(f.mailer.sent[0].url, testFrontendURL+"/reset-password?token=")

	payload, err := f.svc.ResetPassword(raw, "newsecret9")
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, payload.User.ID)

	claims, err := f.signer.Verify(payload.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, claims.UserID)

	// New password works, the old one is dead.
	_, err = f.svc.Login("ada@example.com", "newsecret9")
	assert.NoError(t, err)
	_, err = f.svc.Login("ada@example.com", "engine1842")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// The secret is spent.
	_, err = f.svc.ResetPassword(raw, "anothersecret1")
	assert.ErrorIs(t, err, ErrResetTokenInvalid)
}

func TestAuthService_ResetPasswordRejectsInvalidInput(t *testing.T) {
	f := newAuthFixture(time.Hour)

	_, err := f.svc.ResetPassword("", "newsecret9")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.ResetPassword("some-secret", "abc")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAuthService_ResetPasswordRejectsExpiredToken(t *testing.T) {
	f := newAuthFixture(-time.Minute)
	f.register(t, "ada@example.com", "engine1842")

	require.True(t, f.svc.RequestPasswordReset("ada@example.com"))
	require.Len(t, f.mailer.sent, 1)
	raw := strings.TrimPrefix(f.mailer.sent[0].url, testFrontendURL+"/reset-password?token=")

	_, err := f.svc.ResetPassword(raw, "newsecret9")
	assert.ErrorIs(t, err, ErrResetTokenInvalid)
}

func TestAuthService_ResetPasswordUnknownSecret(t *testing.T) {
	f := newAuthFixture(time.Hour)

	_, err := f.svc.ResetPassword("deadbeef", "newsecret9")
	assert.ErrorIs(t, err, ErrResetTokenInvalid)
}
