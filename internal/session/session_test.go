package session

import (
	"bytes"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"disasterprep/internal/apiclient"
	"disasterprep/internal/apitest"
	"disasterprep/internal/database"
	"disasterprep/internal/models"
	"disasterprep/internal/repository"
	"disasterprep/internal/validation"
)

func newManager(t *testing.T, srv *apitest.Server, store Store) (*Manager, *apiclient.Client) {
	t.Helper()
	client := apiclient.New(srv.APIURL(), 5*time.Second, apiclient.WithHTTPClient(srv.Client()))
	logger := log.New(&bytes.Buffer{}, "", 0)
	return NewManager(client, store, logger), client
}

func TestStores(t *testing.T) {
	tests := []struct {
		name  string
		store func(t *testing.T) Store
	}{
		{"memory", func(t *testing.T) Store { return NewMemoryStore() }},
		{"file", func(t *testing.T) Store {
			return NewFileStore(filepath.Join(t.TempDir(), "nested", "session.json"), "")
		}},
		{"sealed file", func(t *testing.T) Store {
			return NewFileStore(filepath.Join(t.TempDir(), "session.json"), "correct horse")
		}},
		{"sqlite", func(t *testing.T) Store {
			if testing.Short() {
				t.Skip("Skipping database test in short mode")
			}
			db, err := database.Initialize(filepath.Join(t.TempDir(), "prep.db"))
			if err != nil {
				t.Fatalf("Failed to initialize database: %v", err)
			}
			t.Cleanup(func() { db.Close() })
			if err := db.RunMigrations(); err != nil {
				t.Fatalf("Failed to run migrations: %v", err)
			}
			return NewSQLStore(repository.NewSessionRepository(db), "default", "correct horse")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := tt.store(t)

			if _, err := store.Load(); !errors.Is(err, ErrNoSession) {
				t.Fatalf("expected ErrNoSession from empty store, got %v", err)
			}

			saved := &models.Session{
				Token: "token-abc",
				User:  models.User{ID: "u-1", Username: "student1", Role: models.RoleStudent},
			}
			if err := store.Save(saved); err != nil {
				t.Fatalf("Save failed: %v", err)
			}

			loaded, err := store.Load()
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if loaded.Token != "token-abc" || loaded.User.Username != "student1" {
				t.Errorf("unexpected session %+v", loaded)
			}

			if err := store.Clear(); err != nil {
				t.Fatalf("Clear failed: %v", err)
			}
			if _, err := store.Load(); !errors.Is(err, ErrNoSession) {
				t.Errorf("expected ErrNoSession after Clear, got %v", err)
			}
			if err := store.Clear(); err != nil {
				t.Errorf("clearing an empty store should succeed, got %v", err)
			}
		})
	}
}

func TestFileStoreSealsToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewFileStore(path, "correct horse")

	if err := store.Save(&models.Session{Token: "plain-token"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read session file: %v", err)
	}
	if strings.Contains(string(data), "plain-token") {
		t.Error("token should not be stored in plaintext")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("session file permissions = %o, want 600", perm)
	}

	if _, err := NewFileStore(path, "").Load(); err == nil {
		t.Error("expected error loading sealed token without passphrase")
	}
	if _, err := NewFileStore(path, "wrong").Load(); err == nil {
		t.Error("expected error loading sealed token with wrong passphrase")
	}
}

func TestLoginAdminPersistsSession(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()

	store := NewMemoryStore()
	manager, client := newManager(t, srv, store)

	user, err := manager.Login(context.Background(), "admin", apitest.AdminPassword)
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if user.Role != models.RoleAdmin {
		t.Errorf("role = %q, want admin", user.Role)
	}
	if !client.HasToken() {
		t.Error("expected token to be installed on the client")
	}

	saved, err := store.Load()
	if err != nil {
		t.Fatalf("expected persisted session: %v", err)
	}
	if saved.User.Username != "admin" {
		t.Errorf("persisted user = %q, want admin", saved.User.Username)
	}

	_, info := manager.Token()
	if info == nil || info.Subject != "admin" {
		t.Errorf("expected token subject admin, got %+v", info)
	}
}

func TestLoginFailures(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()

	tests := []struct {
		name     string
		username string
		password string
		check    func(error) bool
	}{
		{"wrong password", "admin", "nope", func(err error) bool { return errors.Is(err, apiclient.ErrAuthentication) }},
		{"unknown user", "ghost", "pw", func(err error) bool { return errors.Is(err, apiclient.ErrAuthentication) }},
		{"blank username", "", "pw", func(err error) bool {
			var verr validation.ValidationError
			return errors.As(err, &verr)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMemoryStore()
			manager, client := newManager(t, srv, store)

			_, err := manager.Login(context.Background(), tt.username, tt.password)
			if !tt.check(err) {
				t.Fatalf("unexpected error %v", err)
			}
			if client.HasToken() {
				t.Error("failed login must not install a token")
			}
			if _, err := store.Load(); !errors.Is(err, ErrNoSession) {
				t.Error("failed login must not persist a session")
			}
		})
	}
	if srv.Hits("POST /auth/login") != 2 {
		t.Errorf("expected 2 login requests (blank username rejected locally), got %d", srv.Hits("POST /auth/login"))
	}
}

func TestLogoutThenRestoreYieldsNoUser(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()

	store := NewFileStore(filepath.Join(t.TempDir(), "session.json"), "")
	manager, _ := newManager(t, srv, store)

	if _, err := manager.Login(context.Background(), "student1", apitest.StudentPassword); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if err := manager.Logout(); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	restarted, client := newManager(t, srv, store)
	if _, err := restarted.Restore(); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	if _, ok := restarted.CurrentUser(); ok {
		t.Error("expected no current user after logout")
	}
	if client.HasToken() {
		t.Error("expected no token after logout")
	}
}

func TestRestoreIsOptimistic(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()

	store := NewMemoryStore()
	manager, _ := newManager(t, srv, store)
	if _, err := manager.Login(context.Background(), "teacher1", apitest.TeacherPassword); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	srv.RevokeTokens()

	restarted, client := newManager(t, srv, store)
	user, err := restarted.Restore()
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if user.Username != "teacher1" {
		t.Errorf("restored user = %q, want teacher1", user.Username)
	}
	if srv.Hits("GET /auth/me") != 0 {
		t.Error("Restore must not contact the server")
	}

	// The revoked token is discovered on the next call and clears the session
	_, err = client.ListAlerts(context.Background())
	if !errors.Is(err, apiclient.ErrAuthorization) {
		t.Fatalf("expected ErrAuthorization, got %v", err)
	}
	if _, ok := restarted.CurrentUser(); ok {
		t.Error("expected session to be cleared after 401")
	}
	if _, err := store.Load(); !errors.Is(err, ErrNoSession) {
		t.Error("expected persisted session to be cleared after 401")
	}
}

func TestPermissionDenialKeepsSession(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()

	store := NewMemoryStore()
	manager, client := newManager(t, srv, store)
	if _, err := manager.Login(context.Background(), "teacher1", apitest.TeacherPassword); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	input := models.QuizInput{
		Title: "Earthquake Quiz",
		Questions: []models.Question{
			{Question: "Drop, cover and?", Options: []string{"Hold on", "Run", "Shout", "Sit"}, Correct: 0},
		},
	}
	_, err := client.UpdateQuiz(context.Background(), "q-quake", input)
	var apiErr *apiclient.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 APIError, got %v", err)
	}
	if !errors.Is(err, apiclient.ErrAuthorization) {
		t.Errorf("expected ErrAuthorization, got %v", err)
	}

	if _, ok := manager.CurrentUser(); !ok {
		t.Error("ownership denial must not clear the session")
	}
	if _, err := store.Load(); err != nil {
		t.Errorf("expected persisted session to survive, got %v", err)
	}
	if !client.HasToken() {
		t.Error("expected client to keep its token")
	}
}

func TestRestoreDropsExpiredToken(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "student1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	store := NewMemoryStore()
	store.Save(&models.Session{Token: signed, User: models.User{Username: "student1"}})

	srv := apitest.NewServer()
	defer srv.Close()
	manager, _ := newManager(t, srv, store)

	if _, err := manager.Restore(); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession for expired token, got %v", err)
	}
	if _, err := store.Load(); !errors.Is(err, ErrNoSession) {
		t.Error("expected expired session to be cleared")
	}
}

func TestVerify(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()

	manager, _ := newManager(t, srv, NewMemoryStore())
	if _, err := manager.Verify(context.Background()); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession before login, got %v", err)
	}

	if _, err := manager.Login(context.Background(), "student1", apitest.StudentPassword); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	user, err := manager.Verify(context.Background())
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if user.Username != "student1" {
		t.Errorf("verified user = %q, want student1", user.Username)
	}

	srv.Fail("GET /auth/me", http.StatusUnauthorized)
	if _, err := manager.Verify(context.Background()); !errors.Is(err, apiclient.ErrAuthorization) {
		t.Errorf("expected ErrAuthorization, got %v", err)
	}
	if _, ok := manager.CurrentUser(); ok {
		t.Error("expected session cleared after rejected verification")
	}
}
