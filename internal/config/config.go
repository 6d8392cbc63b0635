package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds client configuration
type Config struct {
	APIBaseURL       string
	HTTPTimeout      time.Duration
	FetchConcurrency int
	Debug            bool

	// Session persistence
	SessionStore string // file, memory, sqlite, postgres, mysql
	SessionFile  string
	SessionKey   string
	Profile      string

	// SQL session store
	DatabaseType string
	DatabasePath string
	DatabaseURL  string

	// Critical alert broadcast (Amazon SES)
	AWSRegion    string
	SESFromEmail string
	SESFromName  string
	BroadcastTo  []string
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is loaded first if present.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env file: %v", err)
	}

	return &Config{
		APIBaseURL:       strings.TrimRight(getEnv("PREP_API_URL", "http://localhost:8001/api"), "/"),
		HTTPTimeout:      getDuration("PREP_HTTP_TIMEOUT", 30*time.Second),
		FetchConcurrency: getInt("PREP_FETCH_CONCURRENCY", 4),
		Debug:            getBool("DEBUG", false),
		SessionStore:     strings.ToLower(getEnv("PREP_SESSION_STORE", "file")),
		SessionFile:      getEnv("PREP_SESSION_FILE", defaultSessionFile()),
		SessionKey:       os.Getenv("PREP_SESSION_KEY"),
		Profile:          getEnv("PREP_PROFILE", "default"),
		DatabaseType:     getEnv("DATABASE_TYPE", "sqlite"),
		DatabasePath:     getEnv("DB_PATH", "./prepctl.db"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		AWSRegion:        getEnv("AWS_REGION", "us-east-1"),
		SESFromEmail:     os.Getenv("SES_FROM_EMAIL"),
		SESFromName:      getEnv("SES_FROM_NAME", "School Safety Office"),
		BroadcastTo:      splitList(os.Getenv("ALERT_BROADCAST_TO")),
	}
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".prepctl-session.json"
	}
	return filepath.Join(home, ".prepctl", "session.json")
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		log.Printf("Warning: invalid %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}

// splitList splits a comma separated list, dropping empty entries
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
