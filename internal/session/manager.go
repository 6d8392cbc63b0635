package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"disasterprep/internal/apiclient"
	"disasterprep/internal/models"
	"disasterprep/internal/security"
	"disasterprep/internal/validation"
)

// Manager owns the authenticated session. It installs the bearer token on
// the API client and clears everything when the server rejects the token.
type Manager struct {
	client *apiclient.Client
	store  Store
	logger *log.Logger

	mu      sync.RWMutex
	current *models.Session
}

// NewManager creates a manager and registers it as the client's
// unauthorized handler
func NewManager(client *apiclient.Client, store Store, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.Default()
	}
	m := &Manager{client: client, store: store, logger: logger}
	client.OnUnauthorized(m.expire)
	return m
}

// Login authenticates and persists the session. Invalid credentials return an
// error matching apiclient.ErrAuthentication; nothing is retried.
func (m *Manager) Login(ctx context.Context, username, password string) (*models.User, error) {
	creds := models.Credentials{Username: username, Password: password}
	if err := validation.ValidateCredentials(creds); err != nil {
		return nil, err
	}

	resp, err := m.client.Login(ctx, creds)
	if err != nil {
		return nil, err
	}

	session := &models.Session{
		Token:     resp.AccessToken,
		User:      resp.User,
		CreatedAt: time.Now().UTC(),
	}
	if err := m.store.Save(session); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	m.install(session)
	m.logger.Printf("Logged in as %s (%s)", session.User.Username, session.User.Role)
	user := session.User
	return &user, nil
}

// Restore loads a persisted session without contacting the server. A revoked
// token is discovered on the next API call, which clears the session.
func (m *Manager) Restore() (*models.User, error) {
	session, err := m.store.Load()
	if err != nil {
		return nil, err
	}

	// Drop tokens whose exp claim has already passed
	if info, err := security.InspectToken(session.Token); err == nil && info.Expired(time.Now()) {
		m.logger.Printf("Saved session for %s expired at %s", session.User.Username, info.ExpiresAt.Format(time.RFC3339))
		if err := m.store.Clear(); err != nil {
			m.logger.Printf("Warning: failed to clear expired session: %v", err)
		}
		return nil, ErrNoSession
	}

	m.install(session)
	user := session.User
	return &user, nil
}

// Logout clears persisted and in-memory state unconditionally
func (m *Manager) Logout() error {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()
	m.client.ClearToken()

	if err := m.store.Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// CurrentUser returns the authenticated user, if any
func (m *Manager) CurrentUser() (*models.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return nil, false
	}
	user := m.current.User
	return &user, true
}

// Token returns the current bearer token and what can be read from its claims
func (m *Manager) Token() (string, *security.TokenInfo) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return "", nil
	}
	info, err := security.InspectToken(m.current.Token)
	if err != nil {
		return m.current.Token, nil
	}
	return m.current.Token, info
}

// Verify asks the server who the token belongs to
func (m *Manager) Verify(ctx context.Context) (*models.User, error) {
	if _, ok := m.CurrentUser(); !ok {
		return nil, ErrNoSession
	}
	user, err := m.client.Me(ctx)
	if err != nil {
		if errors.Is(err, apiclient.ErrAuthorization) {
			return nil, fmt.Errorf("session is no longer valid, please log in again: %w", err)
		}
		return nil, err
	}
	return user, nil
}

func (m *Manager) install(session *models.Session) {
	m.mu.Lock()
	m.current = session
	m.mu.Unlock()
	m.client.SetToken(session.Token)
}

// expire runs when the server rejects the token
func (m *Manager) expire() {
	m.mu.Lock()
	had := m.current != nil
	m.current = nil
	m.mu.Unlock()
	m.client.ClearToken()

	if err := m.store.Clear(); err != nil {
		m.logger.Printf("Warning: failed to clear rejected session: %v", err)
	}
	if had {
		m.logger.Printf("Session rejected by server; please log in again")
	}
}
