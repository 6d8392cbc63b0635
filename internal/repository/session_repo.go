package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"disasterprep/internal/database"
	"disasterprep/internal/models"
	"disasterprep/internal/security"
)

// SessionRepository persists one session per profile
type SessionRepository struct {
	db *database.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *database.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Save replaces the session stored under profile
func (r *SessionRepository) Save(profile string, session *models.Session) error {
	userJSON, err := json.Marshal(session.User)
	if err != nil {
		return fmt.Errorf("failed to encode session user: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM sessions WHERE profile = ?", profile); err != nil {
		return fmt.Errorf("failed to clear previous session: %w", err)
	}

	createdAt := session.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := "INSERT INTO sessions (id, profile, token, user_json, created_at) VALUES (?, ?, ?, ?, ?)"
	if _, err := tx.Exec(query, security.NewRecordID(), profile, session.Token, string(userJSON), createdAt.UTC()); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Load returns the session stored under profile, or nil if there is none
func (r *SessionRepository) Load(profile string) (*models.Session, error) {
	query := "SELECT token, user_json, created_at FROM sessions WHERE profile = ?"

	var (
		session  models.Session
		userJSON string
	)
	err := r.db.QueryRow(query, profile).Scan(&session.Token, &userJSON, &session.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if err := json.Unmarshal([]byte(userJSON), &session.User); err != nil {
		return nil, fmt.Errorf("failed to decode session user: %w", err)
	}
	return &session, nil
}

// Delete removes the session stored under profile
func (r *SessionRepository) Delete(profile string) error {
	if _, err := r.db.Exec("DELETE FROM sessions WHERE profile = ?", profile); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
