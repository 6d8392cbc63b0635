// Package flow drives a student through a module: watch the video, unlock
// the quiz, answer it and submit the scored attempt.
package flow

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"disasterprep/internal/models"
	"disasterprep/internal/notify"
	"disasterprep/internal/progress"
)

var (
	// ErrQuizLocked is returned when the module's video has not been completed
	ErrQuizLocked = errors.New("quiz is locked until the video is completed")
	// ErrIncompleteAnswers is returned when submitting with unanswered questions
	ErrIncompleteAnswers = errors.New("every question must be answered before submitting")
	// ErrNoQuiz is returned when a module has no quiz attached
	ErrNoQuiz = errors.New("no quiz available for this module")
	// ErrInvalidState is returned when an operation does not apply to the current state
	ErrInvalidState = errors.New("operation not allowed in current state")
)

// State is the controller's position in the module flow
type State int

const (
	Browsing State = iota
	Watching
	QuizUnlocked
	TakingQuiz
)

func (s State) String() string {
	switch s {
	case Browsing:
		return "browsing"
	case Watching:
		return "watching"
	case QuizUnlocked:
		return "quiz_unlocked"
	case TakingQuiz:
		return "taking_quiz"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// API is the subset of the platform client the flow needs
type API interface {
	MarkVideoComplete(ctx context.Context, moduleID string, watchPercentage float64) error
	ModuleQuizzes(ctx context.Context, moduleID string) ([]models.Quiz, error)
	SubmitQuizAttempt(ctx context.Context, attempt models.QuizAttempt) error
	UserStats(ctx context.Context, userID string) (*models.UserStats, error)
}

// Controller is the module/quiz state machine for one user. Completion
// flags are only ever read from the progress tracker, never set locally.
type Controller struct {
	api      API
	tracker  *progress.Tracker
	notifier notify.Notifier
	userID   string

	mu       sync.Mutex
	state    State
	module   *models.Module
	reported bool
	quiz     *models.Quiz
	answers  map[int]int
}

// NewController creates a controller in the Browsing state
func NewController(api API, tracker *progress.Tracker, notifier notify.Notifier, userID string) *Controller {
	return &Controller{
		api:      api,
		tracker:  tracker,
		notifier: notifier,
		userID:   userID,
		state:    Browsing,
	}
}

// State returns the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Module returns the selected module, if any
func (c *Controller) Module() (*models.Module, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.module == nil {
		return nil, false
	}
	m := *c.module
	return &m, true
}

// Quiz returns the quiz being taken, if any
func (c *Controller) Quiz() (*models.Quiz, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.quiz == nil {
		return nil, false
	}
	q := *c.quiz
	return &q, true
}

// QuizAvailable reports whether the quiz control for moduleID is enabled
func (c *Controller) QuizAvailable(moduleID string) bool {
	return c.tracker.QuizUnlocked(moduleID)
}

// Refresh reloads the progress cache from the server
func (c *Controller) Refresh(ctx context.Context) error {
	stats, err := c.api.UserStats(ctx, c.userID)
	if err != nil {
		return fmt.Errorf("failed to refresh progress: %w", err)
	}
	c.tracker.Replace(stats)
	c.mu.Lock()
	c.syncUnlockLocked()
	c.mu.Unlock()
	return nil
}

// SelectModule opens a module and starts a new watch-through
func (c *Controller) SelectModule(module models.Module) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == TakingQuiz {
		return fmt.Errorf("%w: finish or cancel the quiz first", ErrInvalidState)
	}

	m := module
	c.module = &m
	c.reported = false
	c.quiz = nil
	c.answers = nil
	c.state = Watching
	c.syncUnlockLocked()
	return nil
}

// Back returns to browsing from a selected module
func (c *Controller) Back() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == TakingQuiz {
		return fmt.Errorf("%w: finish or cancel the quiz first", ErrInvalidState)
	}
	c.resetLocked()
	return nil
}

// ReportVideoWatched records a completed watch-through of moduleID. Only the
// first report per watch-through reaches the server. An error means the
// completion was not recorded.
func (c *Controller) ReportVideoWatched(ctx context.Context, moduleID string) error {
	c.mu.Lock()
	if c.module == nil || c.module.ID != moduleID || (c.state != Watching && c.state != QuizUnlocked) {
		c.mu.Unlock()
		return fmt.Errorf("%w: module %s is not being watched", ErrInvalidState, moduleID)
	}
	if c.reported {
		c.mu.Unlock()
		return nil
	}
	c.reported = true
	c.mu.Unlock()

	if err := c.api.MarkVideoComplete(ctx, moduleID, 100); err != nil {
		c.mu.Lock()
		c.reported = false
		c.mu.Unlock()
		log.Printf("Error recording video completion for %s: %v", moduleID, err)
		notify.Error(c.notifier, "Error recording video completion")
		return fmt.Errorf("failed to record video completion: %w", err)
	}

	// The completion is stored; a failed reload only leaves the cache stale
	// until the next Refresh.
	if err := c.Refresh(ctx); err != nil {
		log.Printf("Error refreshing progress: %v", err)
		notify.Error(c.notifier, "Error loading progress")
		return nil
	}

	if c.QuizAvailable(moduleID) {
		notify.Success(c.notifier, "Video completed! Quiz unlocked.")
	}
	return nil
}

// StartQuiz opens the selected module's quiz. It fails with ErrQuizLocked
// until the progress cache shows the video as completed.
func (c *Controller) StartQuiz(ctx context.Context) (*models.Quiz, error) {
	c.mu.Lock()
	if c.module == nil || c.state == Browsing || c.state == TakingQuiz {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: select a module first", ErrInvalidState)
	}
	moduleID := c.module.ID
	c.mu.Unlock()

	if !c.tracker.QuizUnlocked(moduleID) {
		return nil, ErrQuizLocked
	}

	quizzes, err := c.api.ModuleQuizzes(ctx, moduleID)
	if err != nil {
		log.Printf("Error loading quiz for module %s: %v", moduleID, err)
		notify.Error(c.notifier, "Error loading quiz")
		return nil, fmt.Errorf("failed to load quiz: %w", err)
	}
	if len(quizzes) == 0 {
		notify.Info(c.notifier, "No quiz available for this module yet")
		return nil, ErrNoQuiz
	}

	return c.begin(quizzes[0])
}

// StartStandaloneQuiz opens a quiz that is not attached to any module
func (c *Controller) StartStandaloneQuiz(quiz models.Quiz) (*models.Quiz, error) {
	if quiz.ModuleID != "" {
		return nil, fmt.Errorf("%w: quiz belongs to module %s", ErrInvalidState, quiz.ModuleID)
	}
	c.mu.Lock()
	if c.state != Browsing {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: standalone quizzes start from browsing", ErrInvalidState)
	}
	c.mu.Unlock()
	return c.begin(quiz)
}

func (c *Controller) begin(quiz models.Quiz) (*models.Quiz, error) {
	if len(quiz.Questions) == 0 {
		return nil, ErrNoQuiz
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	q := quiz
	c.quiz = &q
	c.answers = make(map[int]int)
	c.state = TakingQuiz
	out := q
	return &out, nil
}

// Answer records choice for question index; answering again overwrites
func (c *Controller) Answer(index, choice int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != TakingQuiz {
		return fmt.Errorf("%w: no quiz in progress", ErrInvalidState)
	}
	if index < 0 || index >= len(c.quiz.Questions) {
		return fmt.Errorf("question %d out of range (quiz has %d)", index+1, len(c.quiz.Questions))
	}
	if options := len(c.quiz.Questions[index].Options); choice < 0 || choice >= options {
		return fmt.Errorf("option %d out of range for question %d", choice+1, index+1)
	}
	c.answers[index] = choice
	return nil
}

// Answers returns a copy of the recorded answers
func (c *Controller) Answers() map[int]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[int]int, len(c.answers))
	for k, v := range c.answers {
		out[k] = v
	}
	return out
}

// CanSubmit reports whether the submit control is enabled
func (c *Controller) CanSubmit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == TakingQuiz && Complete(c.quiz.Questions, c.answers)
}

// Submit scores the quiz, reports the attempt and returns to browsing.
// On failure the answers are kept so the user can try again.
func (c *Controller) Submit(ctx context.Context) (*models.QuizAttempt, error) {
	c.mu.Lock()
	if c.state != TakingQuiz {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: no quiz in progress", ErrInvalidState)
	}
	if !Complete(c.quiz.Questions, c.answers) {
		c.mu.Unlock()
		return nil, ErrIncompleteAnswers
	}
	attempt := BuildAttempt(*c.quiz, c.answers)
	c.mu.Unlock()

	if err := c.api.SubmitQuizAttempt(ctx, attempt); err != nil {
		log.Printf("Error submitting quiz %s: %v", attempt.QuizID, err)
		notify.Error(c.notifier, "Error submitting quiz")
		return nil, fmt.Errorf("failed to submit quiz: %w", err)
	}

	notify.Success(c.notifier, "Quiz completed! You scored %d/%d points!", attempt.Score, attempt.TotalQuestions)

	c.mu.Lock()
	c.resetLocked()
	c.mu.Unlock()

	if err := c.Refresh(ctx); err != nil {
		log.Printf("Error refreshing progress: %v", err)
	}
	return &attempt, nil
}

// Cancel abandons the quiz without writing anything
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == TakingQuiz {
		c.resetLocked()
	}
}

func (c *Controller) resetLocked() {
	c.state = Browsing
	c.module = nil
	c.reported = false
	c.quiz = nil
	c.answers = nil
}

// syncUnlockLocked moves between Watching and QuizUnlocked to match the cache
func (c *Controller) syncUnlockLocked() {
	if c.module == nil {
		return
	}
	switch c.state {
	case Watching:
		if c.tracker.QuizUnlocked(c.module.ID) {
			c.state = QuizUnlocked
		}
	case QuizUnlocked:
		if !c.tracker.QuizUnlocked(c.module.ID) {
			c.state = Watching
		}
	}
}
