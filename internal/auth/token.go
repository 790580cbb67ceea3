// Package auth resolves the access token used to talk to the payment service.
package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken = errors.New("access token required")
	ErrExpiredToken = errors.New("access token expired")
)

// Prompter asks the operator for a secret without echoing it.
type Prompter interface {
	ReadSecret(prompt string) (string, error)
}

// TokenStore caches an access token in a file readable only by its owner.
type TokenStore struct {
	path string
}

// NewTokenStore creates a store backed by the file at path.
func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path}
}

// Load returns the cached token, or ErrMissingToken if none is stored.
func (s *TokenStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrMissingToken
	}
	if err != nil {
		return "", fmt.Errorf("failed to read token file: %w", err)
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}

// Save writes token to the store, creating its directory if needed.
func (s *TokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token+"\n"), 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// CheckExpiry rejects JWT-shaped tokens whose exp claim is in the past.
// Opaque tokens and JWTs without exp are left for the service to judge.
func CheckExpiry(token string, now time.Time) error {
	if strings.Count(token, ".") != 2 {
		return nil
	}

	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}
	if claims.ExpiresAt != nil && !claims.ExpiresAt.After(now) {
		return fmt.Errorf("%w at %s", ErrExpiredToken, claims.ExpiresAt.Format(time.RFC3339))
	}
	return nil
}

// SessionManager finds a usable access token.
type SessionManager struct {
	store    *TokenStore
	prompter Prompter
	now      func() time.Time
}

// NewSessionManager creates a manager. prompter may be nil, in which case a
// missing token is an error instead of a prompt.
func NewSessionManager(store *TokenStore, prompter Prompter) *SessionManager {
	return &SessionManager{store: store, prompter: prompter, now: time.Now}
}

// AccessToken returns configured if set, else the cached token, else a token
// read from the prompter (which is then cached).
func (m *SessionManager) AccessToken(configured string) (string, error) {
	token := strings.TrimSpace(configured)

	if token == "" {
		cached, err := m.store.Load()
		switch {
		case err == nil:
			token = cached
		case !errors.Is(err, ErrMissingToken):
			return "", err
		}
	}

	if token == "" {
		if m.prompter == nil {
			return "", ErrMissingToken
		}
		entered, err := m.prompter.ReadSecret("Access token: ")
		if err != nil {
			return "", fmt.Errorf("failed to read access token: %w", err)
		}
		token = strings.TrimSpace(entered)
		if token == "" {
			return "", ErrMissingToken
		}
		if err := m.store.Save(token); err != nil {
			return "", err
		}
	}

	if err := CheckExpiry(token, m.now()); err != nil {
		return "", err
	}
	return token, nil
}
