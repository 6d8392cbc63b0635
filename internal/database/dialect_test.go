package database

import (
	"strings"
	"testing"

	"disasterprep/internal/config"
)

func TestDialects(t *testing.T) {
	tests := []struct {
		name       string
		dialect    Dialect
		driver     string
		migrations string
	}{
		{"SQLite", NewSQLiteDialect(), "sqlite3", "sqlite"},
		{"PostgreSQL", NewPostgresDialect(), "postgres", "postgres"},
		{"MySQL", NewMySQLDialect(), "mysql", "mysql"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.DriverName(); got != tt.driver {
				t.Errorf("DriverName() = %v, want %v", got, tt.driver)
			}
			if got := tt.dialect.MigrationsSubdir(); got != tt.migrations {
				t.Errorf("MigrationsSubdir() = %v, want %v", got, tt.migrations)
			}
			if tt.dialect.CreateMigrationsTableQuery() == "" {
				t.Error("CreateMigrationsTableQuery() should not be empty")
			}
		})
	}
}

func TestDSN(t *testing.T) {
	cfg := DialectConfig{Path: "/tmp/prep.db", URL: "postgres://localhost/prep"}

	if got := NewSQLiteDialect().DSN(cfg); got != cfg.Path {
		t.Errorf("SQLite DSN = %v, want %v", got, cfg.Path)
	}
	if got := NewPostgresDialect().DSN(cfg); got != cfg.URL {
		t.Errorf("PostgreSQL DSN = %v, want %v", got, cfg.URL)
	}

	mysqlDSN := NewMySQLDialect().DSN(DialectConfig{URL: "prep:secret@tcp(localhost:3306)/prep"})
	if !strings.Contains(mysqlDSN, "parseTime=true") {
		t.Errorf("MySQL DSN = %v, expected parseTime=true", mysqlDSN)
	}
}

func TestRewriteQuery(t *testing.T) {
	tests := []struct {
		name     string
		dialect  Dialect
		query    string
		expected string
	}{
		{
			name:     "SQLite no change",
			dialect:  NewSQLiteDialect(),
			query:    "SELECT token FROM sessions WHERE profile = ?",
			expected: "SELECT token FROM sessions WHERE profile = ?",
		},
		{
			name:     "PostgreSQL single placeholder",
			dialect:  NewPostgresDialect(),
			query:    "DELETE FROM sessions WHERE profile = ?",
			expected: "DELETE FROM sessions WHERE profile = $1",
		},
		{
			name:     "PostgreSQL multiple placeholders",
			dialect:  NewPostgresDialect(),
			query:    "INSERT INTO sessions (id, profile, token) VALUES (?, ?, ?)",
			expected: "INSERT INTO sessions (id, profile, token) VALUES ($1, $2, $3)",
		},
		{
			name:     "MySQL no change",
			dialect:  NewMySQLDialect(),
			query:    "UPDATE sessions SET token = ? WHERE profile = ?",
			expected: "UPDATE sessions SET token = ? WHERE profile = ?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.dialect.RewriteQuery(tt.query)
			if result != tt.expected {
				t.Errorf("RewriteQuery() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestDialectForConfig(t *testing.T) {
	tests := []struct {
		dbType  string
		driver  string
		wantErr bool
	}{
		{"", "sqlite3", false},
		{"sqlite", "sqlite3", false},
		{"PostgreSQL", "postgres", false},
		{"mysql", "mysql", false},
		{"oracle", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.dbType, func(t *testing.T) {
			dialect, _, err := dialectFor(&config.Config{DatabaseType: tt.dbType})
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error for unsupported type")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if dialect.DriverName() != tt.driver {
				t.Errorf("DriverName() = %v, want %v", dialect.DriverName(), tt.driver)
			}
		})
	}
}

func TestEmbeddedMigrationsPresent(t *testing.T) {
	for _, dialect := range []Dialect{NewSQLiteDialect(), NewPostgresDialect(), NewMySQLDialect()} {
		name := "migrations/" + dialect.MigrationsSubdir() + "/001_sessions.sql"
		if _, err := migrationFiles.ReadFile(name); err != nil {
			t.Errorf("missing embedded migration %s: %v", name, err)
		}
	}
}
