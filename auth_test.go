package main

import (
	"context"
	"testing"
	"time"

	"khaata/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokensRoundTrip(t *testing.T) {
	tk := newTokens("secret", time.Hour)

	raw, err := tk.issue("alice", "", 0)
	require.NoError(t, err)
	claims, err := tk.parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Empty(t, claims.Role)

	raw, err = tk.issue("admin", roleAdmin, time.Minute)
	require.NoError(t, err)
	claims, err = tk.parse(raw)
	require.NoError(t, err)
	assert.Equal(t, roleAdmin, claims.Role)
}

func TestTokensRejected(t *testing.T) {
	tk := newTokens("secret", time.Hour)

	other, err := newTokens("other", time.Hour).issue("alice", "", 0)
	require.NoError(t, err)
	_, err = tk.parse(other)
	assert.Error(t, err)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": "alice",
		"exp":      time.Now().Add(-time.Minute).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = tk.parse(expired)
	assert.Error(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"username": "alice"}).
		SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = tk.parse(noExp)
	assert.Error(t, err)

	_, err = tk.parse("not-a-token")
	assert.Error(t, err)
}

func TestRegisterAndAuthenticate(t *testing.T) {
	s := setupTestServer(t, nil)
	ctx := context.Background()

	u, err := registerUser(ctx, s.st, " dave ", "pw", "Dave", "")
	require.NoError(t, err)
	assert.Equal(t, "dave", u.Username)

	_, err = registerUser(ctx, s.st, "dave", "pw2", "", "")
	assert.ErrorIs(t, err, store.ErrUserExists)

	_, err = registerUser(ctx, s.st, "", "pw", "", "")
	assert.Error(t, err)

	got, err := authenticate(ctx, s.st, "dave", "pw")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = authenticate(ctx, s.st, "dave", "nope")
	assert.ErrorIs(t, err, errInvalidCredentials)
	_, err = authenticate(ctx, s.st, "erin", "pw")
	assert.ErrorIs(t, err, errInvalidCredentials)
}

func TestResetPassword(t *testing.T) {
	s := setupTestServer(t, nil)
	ctx := context.Background()
	_, err := registerUser(ctx, s.st, "dave", "old", "", "")
	require.NoError(t, err)

	require.NoError(t, resetPassword(ctx, s.st, "dave", "new"))
	_, err = authenticate(ctx, s.st, "dave", "old")
	assert.ErrorIs(t, err, errInvalidCredentials)
	_, err = authenticate(ctx, s.st, "dave", "new")
	assert.NoError(t, err)

	assert.ErrorIs(t, resetPassword(ctx, s.st, "nobody", "x"), store.ErrNotFound)
	assert.Error(t, resetPassword(ctx, s.st, "dave", ""))
}
