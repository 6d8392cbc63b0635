package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"disasterprep/internal/apiclient"
	"disasterprep/internal/config"
	"disasterprep/internal/dashboard"
	"disasterprep/internal/database"
	"disasterprep/internal/models"
	"disasterprep/internal/notify"
	"disasterprep/internal/progress"
	"disasterprep/internal/repository"
	"disasterprep/internal/roles"
	"disasterprep/internal/service"
	"disasterprep/internal/session"
)

// app wires configuration, the API client and the saved session together
type app struct {
	cfg      *config.Config
	client   *apiclient.Client
	sessions *session.Manager
	notifier notify.Notifier
	tracker  *progress.Tracker
	db       *database.DB
	in       *bufio.Reader
	out      io.Writer
}

func newApp(cfg *config.Config, in io.Reader, out io.Writer) (*app, error) {
	client := apiclient.New(cfg.APIBaseURL, cfg.HTTPTimeout, apiclient.WithDebug(cfg.Debug))

	a := &app{
		cfg:      cfg,
		client:   client,
		notifier: notify.NewLogNotifier(log.New(os.Stderr, "", 0)),
		tracker:  progress.NewTracker(),
		in:       bufio.NewReader(in),
		out:      out,
	}

	store, err := a.openStore()
	if err != nil {
		return nil, err
	}
	logger := log.New(io.Discard, "", 0)
	if cfg.Debug {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	a.sessions = session.NewManager(client, store, logger)

	if cfg.Debug {
		log.Printf("[DEBUG] API: %s, session store: %s, profile: %s", cfg.APIBaseURL, cfg.SessionStore, cfg.Profile)
	}
	return a, nil
}

func (a *app) openStore() (session.Store, error) {
	switch a.cfg.SessionStore {
	case "memory":
		return session.NewMemoryStore(), nil
	case "file", "":
		return session.NewFileStore(a.cfg.SessionFile, a.cfg.SessionKey), nil
	case "sqlite", "postgres", "mysql":
		dbCfg := *a.cfg
		dbCfg.DatabaseType = a.cfg.SessionStore
		db, err := database.InitializeWithConfig(&dbCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open session database: %w", err)
		}
		if err := db.RunMigrations(); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		a.db = db
		return session.NewSQLStore(repository.NewSessionRepository(db), a.cfg.Profile, a.cfg.SessionKey), nil
	default:
		return nil, fmt.Errorf("unsupported session store: %s", a.cfg.SessionStore)
	}
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close()
	}
}

// currentUser restores the saved session
func (a *app) currentUser() (models.User, error) {
	user, err := a.sessions.Restore()
	if err != nil {
		return models.User{}, err
	}
	return *user, nil
}

// requireAction restores the session and checks the role table
func (a *app) requireAction(action roles.Action) (models.User, error) {
	user, err := a.currentUser()
	if err != nil {
		return models.User{}, err
	}
	if !roles.For(user.Role).Can(action) {
		return models.User{}, fmt.Errorf("%s accounts cannot %s", user.Role, action)
	}
	return user, nil
}

func (a *app) dashboard() *dashboard.Aggregator {
	return dashboard.New(a.client, a.tracker, a.notifier, a.cfg.FetchConcurrency)
}

func (a *app) broadcaster() *service.BroadcastService {
	b, err := service.NewBroadcastService(a.cfg.AWSRegion, a.cfg.SESFromEmail, a.cfg.SESFromName, a.cfg.BroadcastTo, a.cfg.Debug)
	if err != nil {
		log.Printf("Warning: alert broadcast unavailable: %v", err)
		return nil
	}
	return b
}

// prompt reads one line from the input
func (a *app) prompt(label string) (string, error) {
	fmt.Fprint(a.out, label)
	line, err := a.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (a *app) debugf(format string, args ...interface{}) {
	if a.cfg.Debug {
		log.Printf("[DEBUG] "+format, args...)
	}
}
