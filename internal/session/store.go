// Package session keeps the authenticated user and bearer token between runs.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"disasterprep/internal/models"
	"disasterprep/internal/repository"
	"disasterprep/internal/security"
)

// ErrNoSession is returned when no session has been persisted
var ErrNoSession = errors.New("no saved session")

// Store persists the token and user pair
type Store interface {
	// Load returns the saved session or ErrNoSession
	Load() (*models.Session, error)
	Save(session *models.Session) error
	// Clear removes any saved session; clearing an empty store is not an error
	Clear() error
}

// MemoryStore keeps the session in process memory
type MemoryStore struct {
	mu      sync.Mutex
	session *models.Session
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load() (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, ErrNoSession
	}
	copied := *s.session
	return &copied, nil
}

func (s *MemoryStore) Save(session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *session
	s.session = &copied
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	return nil
}

const sealedPrefix = "sealed:"

// tokenCodec seals tokens at rest when a passphrase is configured
type tokenCodec struct {
	passphrase string
}

func (c tokenCodec) encode(token string) (string, error) {
	if c.passphrase == "" {
		return token, nil
	}
	sealed, err := security.Seal(c.passphrase, []byte(token))
	if err != nil {
		return "", fmt.Errorf("failed to seal token: %w", err)
	}
	return sealedPrefix + sealed, nil
}

func (c tokenCodec) decode(stored string) (string, error) {
	sealed, ok := strings.CutPrefix(stored, sealedPrefix)
	if !ok {
		return stored, nil
	}
	if c.passphrase == "" {
		return "", errors.New("saved token is sealed but PREP_SESSION_KEY is not set")
	}
	token, err := security.Open(c.passphrase, sealed)
	if err != nil {
		return "", fmt.Errorf("failed to unseal token: %w", err)
	}
	return string(token), nil
}

// FileStore persists the session as a JSON file readable only by the owner
type FileStore struct {
	path  string
	codec tokenCodec
}

// NewFileStore creates a store at path. A non-empty passphrase seals the token.
func NewFileStore(path, passphrase string) *FileStore {
	return &FileStore{path: path, codec: tokenCodec{passphrase: passphrase}}
}

func (s *FileStore) Load() (*models.Session, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to parse session file %s: %w", s.path, err)
	}
	if session.Token == "" {
		return nil, ErrNoSession
	}

	session.Token, err = s.codec.decode(session.Token)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *FileStore) Save(session *models.Session) error {
	token, err := s.codec.encode(session.Token)
	if err != nil {
		return err
	}
	stored := *session
	stored.Token = token

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	// Atomic replace
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace session file: %w", err)
	}
	return nil
}

func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

// SQLStore persists the session in the sessions table, keyed by profile
type SQLStore struct {
	repo    *repository.SessionRepository
	profile string
	codec   tokenCodec
}

// NewSQLStore creates a store for profile backed by repo
func NewSQLStore(repo *repository.SessionRepository, profile, passphrase string) *SQLStore {
	return &SQLStore{repo: repo, profile: profile, codec: tokenCodec{passphrase: passphrase}}
}

func (s *SQLStore) Load() (*models.Session, error) {
	session, err := s.repo.Load(s.profile)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNoSession
	}
	session.Token, err = s.codec.decode(session.Token)
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (s *SQLStore) Save(session *models.Session) error {
	token, err := s.codec.encode(session.Token)
	if err != nil {
		return err
	}
	stored := *session
	stored.Token = token
	return s.repo.Save(s.profile, &stored)
}

func (s *SQLStore) Clear() error {
	return s.repo.Delete(s.profile)
}
