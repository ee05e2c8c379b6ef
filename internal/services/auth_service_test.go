package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/review-site/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifier struct {
	tokens map[string]*auth.Token
}

func (f *fakeVerifier) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	if tok, ok := f.tokens[idToken]; ok {
		return tok, nil
	}
	return nil, errors.New("token rejected")
}

func TestSignupAndSignin(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := NewAuthService(env.repos, "test-secret", time.Hour, nil)

	token, user, err := svc.Signup(ctx, models.SignupRequest{Name: "Alice", Email: " Alice@Example.com ", Password: "longenough"})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "longenough", user.Password)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)

	_, _, err = svc.Signup(ctx, models.SignupRequest{Name: "Other", Email: "alice@example.com", Password: "longenough"})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "email", vErr.Field)

	_, signedIn, err := svc.Signin(ctx, "ALICE@example.com", "longenough")
	require.NoError(t, err)
	assert.Equal(t, user.ID, signedIn.ID)

	_, _, err = svc.Signin(ctx, "alice@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Signin(ctx, "nobody@example.com", "longenough")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestParseTokenRejectsForeignSecretAndExpiry(t *testing.T) {
	env := newTestEnv(t)
	user := env.user(t, "alice")

	other := NewAuthService(env.repos, "other-secret", time.Hour, nil)
	token, err := other.IssueToken(user)
	require.NoError(t, err)

	svc := NewAuthService(env.repos, "test-secret", time.Hour, nil)
	_, err = svc.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	expired := NewAuthService(env.repos, "test-secret", -time.Minute, nil)
	token, err = expired.IssueToken(user)
	require.NoError(t, err)
	_, err = svc.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestFirebaseLogin(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	existing := env.user(t, "bob")
	verifier := &fakeVerifier{tokens: map[string]*auth.Token{
		"new-user":   {UID: "fb-1", Claims: map[string]interface{}{"email": "carol@example.com", "name": "Carol"}},
		"linked":     {UID: "fb-2", Claims: map[string]interface{}{"email": existing.Email, "email_verified": true}},
		"unverified": {UID: "fb-3", Claims: map[string]interface{}{"email": existing.Email, "email_verified": false}},
	}}
	svc := NewAuthService(env.repos, "test-secret", time.Hour, verifier)

	_, carol, err := svc.FirebaseLogin(ctx, "new-user")
	require.NoError(t, err)
	assert.Equal(t, "Carol", carol.Name)
	require.NotNil(t, carol.FirebaseUID)

	_, again, err := svc.FirebaseLogin(ctx, "new-user")
	require.NoError(t, err)
	assert.Equal(t, carol.ID, again.ID)

	_, _, err = svc.FirebaseLogin(ctx, "unverified")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	reloaded, err := env.repos.Users.GetUserByID(ctx, existing.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.FirebaseUID)

	_, bob, err := svc.FirebaseLogin(ctx, "linked")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, bob.ID)

	claims, err := svc.ResolveToken(ctx, "linked")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, claims.UserID)

	_, _, err = svc.FirebaseLogin(ctx, "forged")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.ResolveToken(ctx, "forged")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	disabled := NewAuthService(env.repos, "test-secret", time.Hour, nil)
	_, _, err = disabled.FirebaseLogin(ctx, "new-user")
	assert.ErrorIs(t, err, ErrInvalidOperation)
}
