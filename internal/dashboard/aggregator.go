// Package dashboard loads the collections shown on a user's dashboard.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"disasterprep/internal/models"
	"disasterprep/internal/notify"
	"disasterprep/internal/progress"
)

// Collection names one independently fetched resource
type Collection string

const (
	Alerts           Collection = "alerts"
	Contacts         Collection = "emergency contacts"
	Predictions      Collection = "predictions"
	Leaderboard      Collection = "leaderboard"
	Stats            Collection = "user stats"
	Modules          Collection = "modules"
	Users            Collection = "users"
	StudentsProgress Collection = "student progress"
	TeachersProgress Collection = "teacher progress"
	TeacherQuizzes   Collection = "quizzes"
)

// API is the subset of the platform client the aggregator reads from
type API interface {
	ListAlerts(ctx context.Context) ([]models.Alert, error)
	EmergencyContacts(ctx context.Context) ([]models.EmergencyContact, error)
	ListPredictions(ctx context.Context) ([]models.DisasterPrediction, error)
	Leaderboard(ctx context.Context) (*models.Leaderboard, error)
	UserStats(ctx context.Context, userID string) (*models.UserStats, error)
	ListModules(ctx context.Context) ([]models.Module, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	StudentsProgress(ctx context.Context) (*models.StudentsProgressReport, error)
	TeachersProgress(ctx context.Context) (*models.TeachersProgressReport, error)
	TeacherQuizzes(ctx context.Context) ([]models.Quiz, error)
}

// Snapshot is the locally held copy of every collection. Each field is
// replaced wholesale by a successful fetch and left alone by a failed one.
type Snapshot struct {
	Alerts           []models.Alert
	Contacts         []models.EmergencyContact
	Predictions      []models.DisasterPrediction
	Leaderboard      *models.Leaderboard
	Stats            *models.UserStats
	Modules          []models.Module
	Users            []models.User
	StudentsProgress *models.StudentsProgressReport
	TeachersProgress *models.TeachersProgressReport
	TeacherQuizzes   []models.Quiz
	UpdatedAt        map[Collection]time.Time
}

// Result is the outcome of one fetch
type Result struct {
	Collection Collection
	Err        error
	// Stale is set when the fetch finished after a newer refresh or an
	// Invalidate, so its data was discarded
	Stale bool
}

// Report summarizes one refresh
type Report struct {
	Generation uint64
	Results    []Result
}

// Failed returns the fetches that returned an error
func (r Report) Failed() []Result {
	var failed []Result
	for _, res := range r.Results {
		if res.Err != nil {
			failed = append(failed, res)
		}
	}
	return failed
}

// Err joins every fetch error, or returns nil
func (r Report) Err() error {
	var errs []error
	for _, res := range r.Failed() {
		errs = append(errs, fmt.Errorf("%s: %w", res.Collection, res.Err))
	}
	return errors.Join(errs...)
}

// Plan returns the collections fetched for role
func Plan(role models.Role) []Collection {
	common := []Collection{Alerts, Contacts, Predictions, Leaderboard}
	switch role {
	case models.RoleStudent:
		return append(common, Stats, Modules)
	case models.RoleTeacher:
		return append(common, StudentsProgress, TeacherQuizzes)
	case models.RoleAdmin:
		return append(common, Users, StudentsProgress, TeachersProgress)
	default:
		return []Collection{Alerts}
	}
}

// Aggregator fetches the dashboard collections concurrently
type Aggregator struct {
	api         API
	tracker     *progress.Tracker
	notifier    notify.Notifier
	concurrency int

	mu         sync.RWMutex
	snapshot   Snapshot
	generation uint64
	inflight   int
}

// New creates an aggregator. Fetched user stats are also pushed into tracker.
func New(api API, tracker *progress.Tracker, notifier notify.Notifier, concurrency int) *Aggregator {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Aggregator{
		api:         api,
		tracker:     tracker,
		notifier:    notifier,
		concurrency: concurrency,
		snapshot:    Snapshot{UpdatedAt: make(map[Collection]time.Time)},
	}
}

type fetchFunc func(ctx context.Context) (apply func(*Snapshot), err error)

func (a *Aggregator) fetcher(c Collection, user models.User) fetchFunc {
	switch c {
	case Alerts:
		return func(ctx context.Context) (func(*Snapshot), error) {
			v, err := a.api.ListAlerts(ctx)
			return func(s *Snapshot) { s.Alerts = v }, err
		}
	case Contacts:
		return func(ctx context.Context) (func(*Snapshot), error) {
			v, err := a.api.EmergencyContacts(ctx)
			return func(s *Snapshot) { s.Contacts = v }, err
		}
	case Predictions:
		return func(ctx context.Context) (func(*Snapshot), error) {
			v, err := a.api.ListPredictions(ctx)
			return func(s *Snapshot) { s.Predictions = v }, err
		}
	case Leaderboard:
		return func(ctx context.Context) (func(*Snapshot), error) {
			v, err := a.api.Leaderboard(ctx)
			return func(s *Snapshot) { s.Leaderboard = v }, err
		}
	case Stats:
		return func(ctx context.Context) (func(*Snapshot), error) {
			v, err := a.api.UserStats(ctx, user.ID)
			return func(s *Snapshot) {
				s.Stats = v
				if a.tracker != nil {
					a.tracker.Replace(v)
				}
			}, err
		}
	case Modules:
		return func(ctx context.Context) (func(*Snapshot), error) {
			v, err := a.api.ListModules(ctx)
			return func(s *Snapshot) { s.Modules = v }, err
		}
	case Users:
		return func(ctx context.Context) (func(*Snapshot), error) {
			v, err := a.api.ListUsers(ctx)
			return func(s *Snapshot) { s.Users = v }, err
		}
	case StudentsProgress:
		return func(ctx context.Context) (func(*Snapshot), error) {
			v, err := a.api.StudentsProgress(ctx)
			return func(s *Snapshot) { s.StudentsProgress = v }, err
		}
	case TeachersProgress:
		return func(ctx context.Context) (func(*Snapshot), error) {
			v, err := a.api.TeachersProgress(ctx)
			return func(s *Snapshot) { s.TeachersProgress = v }, err
		}
	case TeacherQuizzes:
		return func(ctx context.Context) (func(*Snapshot), error) {
			v, err := a.api.TeacherQuizzes(ctx)
			return func(s *Snapshot) { s.TeacherQuizzes = v }, err
		}
	}
	return nil
}

// Refresh runs every fetch planned for user's role. Fetches are independent:
// a failure is reported and leaves its collection at the previous value,
// without affecting the others. Results from a superseded refresh are dropped.
func (a *Aggregator) Refresh(ctx context.Context, user models.User) Report {
	a.mu.Lock()
	a.generation++
	gen := a.generation
	a.inflight++
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.inflight--
		a.mu.Unlock()
	}()

	plan := Plan(user.Role)
	results := make([]Result, len(plan))

	var g errgroup.Group
	g.SetLimit(a.concurrency)
	for i, c := range plan {
		fetch := a.fetcher(c, user)
		g.Go(func() error {
			results[i] = a.run(ctx, gen, c, fetch)
			return nil
		})
	}
	g.Wait()

	for _, res := range results {
		if res.Err != nil && !res.Stale {
			log.Printf("Error loading %s: %v", res.Collection, res.Err)
			notify.Error(a.notifier, "Error loading %s", res.Collection)
		}
	}

	return Report{Generation: gen, Results: results}
}

func (a *Aggregator) run(ctx context.Context, gen uint64, c Collection, fetch fetchFunc) Result {
	apply, err := fetch(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()
	if gen != a.generation {
		return Result{Collection: c, Err: err, Stale: true}
	}
	if err != nil {
		return Result{Collection: c, Err: err}
	}
	apply(&a.snapshot)
	a.snapshot.UpdatedAt[c] = time.Now()
	return Result{Collection: c}
}

// Invalidate discards the results of any refresh still in flight
func (a *Aggregator) Invalidate() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.generation++
}

// Reset discards everything, e.g. on logout
func (a *Aggregator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.generation++
	a.snapshot = Snapshot{UpdatedAt: make(map[Collection]time.Time)}
	if a.tracker != nil {
		a.tracker.Reset()
	}
}

// Loading reports whether any refresh is in progress
func (a *Aggregator) Loading() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.inflight > 0
}

// Snapshot returns a copy of the current collections
func (a *Aggregator) Snapshot() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	s := a.snapshot
	s.UpdatedAt = make(map[Collection]time.Time, len(a.snapshot.UpdatedAt))
	for k, v := range a.snapshot.UpdatedAt {
		s.UpdatedAt[k] = v
	}
	return s
}

// PrependPrediction puts a freshly requested prediction at the head of the list
func (a *Aggregator) PrependPrediction(p models.DisasterPrediction) {
	a.mu.Lock()
	defer a.mu.Unlock()
	predictions := make([]models.DisasterPrediction, 0, len(a.snapshot.Predictions)+1)
	predictions = append(predictions, p)
	a.snapshot.Predictions = append(predictions, a.snapshot.Predictions...)
}
