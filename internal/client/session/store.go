// Package session holds the client's authenticated identity and the
// credential pair, persisted to a single state file so a restarted
// process reconstructs the session without a network round trip.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/escrowdeck/internal/client/models"
	"github.com/dmitrijs2005/escrowdeck/internal/filex"
)

// AdminWalletAddress is the one fixed administrator address. Admin status
// is a case-insensitive comparison against it; no other privilege
// mechanism exists client-side.
const AdminWalletAddress = "0x2d7812b2000f995c01417e576dc123587e4b39e4"

// persistedState is the on-disk document. Exactly three keys survive a
// restart: the cached user and the credential pair.
type persistedState struct {
	User         *models.User `json:"user,omitempty"`
	AccessToken  string       `json:"accessToken,omitempty"`
	RefreshToken string       `json:"refreshToken,omitempty"`
}

// Store is the single writer of session state. IsAuthenticated and
// IsAdmin are derived from the current user, never set independently.
type Store struct {
	mu     sync.RWMutex
	path   string
	state  persistedState
	loaded bool
}

// New returns a store persisting to path. Call Initialize before first
// use.
func New(path string) *Store {
	return &Store{path: path}
}

// Initialize rehydrates state from the persisted file if no in-memory
// user exists yet. A missing file simply means a logged-out session.
func (s *Store) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded || s.state.User != nil {
		s.loaded = true
		return nil
	}
	s.loaded = true

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read session state: %w", err)
	}

	if err := json.Unmarshal(data, &s.state); err != nil {
		// Corrupt state file: start logged out rather than failing the app.
		s.state = persistedState{}
		return nil
	}
	return nil
}

// SetUser replaces the current user (nil clears it) and writes through.
func (s *Store) SetUser(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.User = user
	return s.persistLocked()
}

// Login stores the user together with the freshly issued credential
// pair.
func (s *Store) Login(user *models.User, accessToken, refreshToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = persistedState{User: user, AccessToken: accessToken, RefreshToken: refreshToken}
	return s.persistLocked()
}

// Logout clears the user and both tokens and removes the persisted file
// atomically. It does not contact the backend.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = persistedState{}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session state: %w", err)
	}
	return nil
}

// User returns a copy of the current user, or nil.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.User == nil {
		return nil
	}
	u := *s.state.User
	return &u
}

// IsAuthenticated reports whether a user is present.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.User != nil
}

// IsAdmin reports whether the current user's wallet address equals the
// administrator address, case-insensitively.
func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.User != nil &&
		s.state.User.WalletAddress != "" &&
		strings.EqualFold(s.state.User.WalletAddress, AdminWalletAddress)
}

// AccessToken implements api.CredentialSource.
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.AccessToken
}

// RefreshToken implements api.CredentialSource.
func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.RefreshToken
}

// StoreAccessToken replaces the access token in place (refresh flow) and
// writes through.
func (s *Store) StoreAccessToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.AccessToken = token
	return s.persistLocked()
}

// AccessTokenExpiry decodes the access token's exp claim without
// verifying the signature (the client holds no key; the backend is
// authoritative). Used only for status display.
func (s *Store) AccessTokenExpiry() (time.Time, bool) {
	token := s.AccessToken()
	if token == "" {
		return time.Time{}, false
	}

	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

func (s *Store) persistLocked() error {
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session state: %w", err)
	}
	if err := filex.WriteFileAtomic(s.path, data, 0o600); err != nil {
		return fmt.Errorf("persist session state: %w", err)
	}
	return nil
}
