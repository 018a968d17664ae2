package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ludorg/gamenight/internal/dependencies/clock"
	"github.com/ludorg/gamenight/internal/model"
	"github.com/ludorg/gamenight/internal/storage"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid or expired session")
	ErrUsernameExists     = errors.New("username already exists")
)

// MinPasswordLength is the minimum account password length
const MinPasswordLength = 6

// Session represents an authenticated session. It carries the principal id
// only; the principal itself is re-read from storage per request so admin
// role changes take effect without re-login.
type Session struct {
	Token       string
	PrincipalID model.PrincipalID
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// Service is the identity provider: registration, login, and session
// management. It hands managers a Principal per request and nothing more.
type Service struct {
	storage storage.Storage
	clock   clock.Clock

	mu       sync.RWMutex
	sessions map[string]*Session

	sessionDuration time.Duration
}

// Config holds configuration for the auth service
type Config struct {
	SessionDuration time.Duration
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 7 * 24 * time.Hour,
	}
}

// New creates a new auth service
func New(storage storage.Storage, clock clock.Clock, cfg Config) *Service {
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}
	return &Service{
		storage:         storage,
		clock:           clock,
		sessions:        make(map[string]*Session),
		sessionDuration: cfg.SessionDuration,
	}
}

// Register creates a new principal with the pending role and opens a session.
// Pending principals can look around but need an admin approval to create or
// join anything.
func (s *Service) Register(ctx context.Context, username, password, displayName string) (*Session, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || strings.TrimSpace(displayName) == "" {
		return nil, fmt.Errorf("%w: username and display name are required", model.ErrValidation)
	}
	if len(password) < MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", model.ErrValidation, MinPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	id := model.PrincipalID(s.generateID("u_"))
	now := s.clock.Now()

	credential := &model.Credential{
		PrincipalID:  id,
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// Claim the username first; the conditional insert is the uniqueness
	// guard, so a concurrent registration of the same name loses cleanly
	// before any principal is written
	if err := s.storage.SaveCredentialIfAbsent(ctx, credential); err != nil {
		if errors.Is(err, model.ErrUsernameTaken) {
			return nil, ErrUsernameExists
		}
		return nil, err
	}

	principal := &model.Principal{
		ID:          id,
		DisplayName: displayName,
		Role:        model.RolePending,
		Badges:      []string{},
		CreatedAt:   now,
	}
	if err := s.storage.SavePrincipal(ctx, principal); err != nil {
		return nil, err
	}

	return s.createSession(id), nil
}

// Login authenticates a registered principal and opens a session
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	username = strings.ToLower(strings.TrimSpace(username))

	credential, err := s.storage.GetCredentialByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrPrincipalNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(credential.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.createSession(credential.PrincipalID), nil
}

// ValidateSession checks a token and returns the session
func (s *Service) ValidateSession(token string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrInvalidSession
	}

	if s.clock.Now().After(session.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, ErrInvalidSession
	}

	return session, nil
}

// GetPrincipal resolves a session token to the current principal record
func (s *Service) GetPrincipal(ctx context.Context, token string) (*model.Principal, error) {
	session, err := s.ValidateSession(token)
	if err != nil {
		return nil, err
	}
	return s.storage.GetPrincipal(ctx, session.PrincipalID)
}

// InvalidateSession removes a session
func (s *Service) InvalidateSession(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// InvalidateSessionsFor removes every session belonging to a principal.
// Called when an admin deletes the account.
func (s *Service) InvalidateSessionsFor(id model.PrincipalID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, session := range s.sessions {
		if session.PrincipalID == id {
			delete(s.sessions, token)
		}
	}
}

// CleanExpiredSessions removes expired sessions (call periodically)
func (s *Service) CleanExpiredSessions() {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	for token, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, token)
		}
	}
}

// createSession opens a new session for a principal
func (s *Service) createSession(id model.PrincipalID) *Session {
	token := s.generateID("sess_")
	now := s.clock.Now()

	session := &Session{
		Token:       token,
		PrincipalID: id,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.sessionDuration),
	}

	s.mu.Lock()
	s.sessions[token] = session
	s.mu.Unlock()

	return session
}

// generateID generates a random ID with a prefix
func (s *Service) generateID(prefix string) string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return prefix + base64.RawURLEncoding.EncodeToString(b)
}
