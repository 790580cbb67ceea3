package auth

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePrompter struct {
	answer string
	err    error
	calls  int
}

func (p *fakePrompter) ReadSecret(string) (string, error) {
	p.calls++
	return p.answer, p.err
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
		IssuedAt:  jwt.NewNumericDate(exp.Add(-time.Hour)),
	})
	s, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestCheckExpiry(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{name: "opaque token", token: "0123456789abcdef"},
		{name: "valid JWT", token: signedToken(t, now.Add(time.Hour))},
		{name: "expired JWT", token: signedToken(t, now.Add(-time.Minute)), wantErr: true},
		{name: "dotted garbage", token: "a.b.c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckExpiry(tt.token, now)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrExpiredToken)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTokenStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token")
	store := NewTokenStore(path)

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrMissingToken)

	require.NoError(t, store.Save("secret"))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	token, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "secret", token)
}

func TestSessionManager_AccessToken(t *testing.T) {
	t.Run("configured token wins", func(t *testing.T) {
		store := NewTokenStore(filepath.Join(t.TempDir(), "token"))
		require.NoError(t, store.Save("cached"))
		prompter := &fakePrompter{answer: "typed"}

		token, err := NewSessionManager(store, prompter).AccessToken(" configured ")
		require.NoError(t, err)
		assert.Equal(t, "configured", token)
		assert.Zero(t, prompter.calls)
	})

	t.Run("cached token", func(t *testing.T) {
		store := NewTokenStore(filepath.Join(t.TempDir(), "token"))
		require.NoError(t, store.Save("cached"))

		token, err := NewSessionManager(store, nil).AccessToken("")
		require.NoError(t, err)
		assert.Equal(t, "cached", token)
	})

	t.Run("prompted token is cached", func(t *testing.T) {
		store := NewTokenStore(filepath.Join(t.TempDir(), "token"))
		prompter := &fakePrompter{answer: "typed\n"}

		token, err := NewSessionManager(store, prompter).AccessToken("")
		require.NoError(t, err)
		assert.Equal(t, "typed", token)

		cached, err := store.Load()
		require.NoError(t, err)
		assert.Equal(t, "typed", cached)
	})

	t.Run("no token and no prompter", func(t *testing.T) {
		store := NewTokenStore(filepath.Join(t.TempDir(), "token"))
		_, err := NewSessionManager(store, nil).AccessToken("")
		assert.ErrorIs(t, err, ErrMissingToken)
	})

	t.Run("prompt fails", func(t *testing.T) {
		store := NewTokenStore(filepath.Join(t.TempDir(), "token"))
		prompter := &fakePrompter{err: errors.New("not a terminal")}
		_, err := NewSessionManager(store, prompter).AccessToken("")
		assert.ErrorContains(t, err, "not a terminal")
	})

	t.Run("empty answer", func(t *testing.T) {
		store := NewTokenStore(filepath.Join(t.TempDir(), "token"))
		_, err := NewSessionManager(store, &fakePrompter{answer: "  "}).AccessToken("")
		assert.ErrorIs(t, err, ErrMissingToken)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		store := NewTokenStore(filepath.Join(t.TempDir(), "token"))
		expired := signedToken(t, time.Now().Add(-time.Hour))
		_, err := NewSessionManager(store, nil).AccessToken(expired)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})
}
