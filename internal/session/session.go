// Package session manages the stored bearer credential. It is the only
// place the token is written; the gateway clears it through here when the
// server rejects it.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/larder-dev/larder/internal/common"
)

// Store loads, saves and clears the credential token on disk.
type Store struct {
	path string
}

// NewStore creates a credential store rooted at dataDir.
func NewStore(dataDir string) *Store {
	return &Store{path: filepath.Join(dataDir, "token")}
}

// Path returns the token file location.
func (s *Store) Path() string {
	return s.path
}

// Token returns the stored credential. ErrNotLoggedIn when none exists,
// ErrAuthExpired when the token's exp claim has already passed; an
// expired token is cleared on sight so every caller sees the same state.
func (s *Store) Token() (string, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", common.ErrNotLoggedIn
		}
		return "", fmt.Errorf("failed to read token: %w", err)
	}

	token := strings.TrimSpace(string(raw))
	if token == "" {
		return "", common.ErrNotLoggedIn
	}

	if expired(token) {
		slog.Debug("Stored token is expired, clearing it")
		if clearErr := s.Clear(); clearErr != nil {
			slog.Warn("Failed to clear expired token", "error", clearErr)
		}
		return "", common.ErrAuthExpired
	}

	return token, nil
}

// Save writes the credential with owner-only permissions.
func (s *Store) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("failed to write token: %w", err)
	}
	return nil
}

// Clear removes the credential. Clearing an absent token is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	return nil
}

// expired inspects the token's exp claim without verifying the signature.
// Verification belongs to the server; this only spares a doomed request.
func expired(token string) bool {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		// Not a JWT we can read; let the server judge it.
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}

	return exp.Before(time.Now())
}
