package service

import (
	"context"
	"fmt"
	"log"

	"disasterprep/internal/models"
	"disasterprep/internal/notify"
	"disasterprep/internal/validation"
)

// QuizAPI is the subset of the platform client used to manage quizzes
type QuizAPI interface {
	TeacherQuizzes(ctx context.Context) ([]models.Quiz, error)
	CreateQuiz(ctx context.Context, input models.QuizInput) (*models.Quiz, error)
	UpdateQuiz(ctx context.Context, id string, input models.QuizInput) (*models.Quiz, error)
	DeleteQuiz(ctx context.Context, id string) error
}

// QuizService lets teachers manage their quizzes
type QuizService struct {
	api       QuizAPI
	dashboard Dashboard
	notifier  notify.Notifier
	user      models.User
}

// NewQuizService creates a new quiz management service
func NewQuizService(api QuizAPI, dash Dashboard, notifier notify.Notifier, user models.User) *QuizService {
	return &QuizService{api: api, dashboard: dash, notifier: notifier, user: user}
}

// List returns the quizzes the user may manage
func (s *QuizService) List(ctx context.Context) ([]models.Quiz, error) {
	quizzes, err := s.api.TeacherQuizzes(ctx)
	if err != nil {
		log.Printf("Error loading quizzes: %v", err)
		notify.Error(s.notifier, "Error loading quizzes")
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}
	return quizzes, nil
}

// Create validates and stores a new quiz
func (s *QuizService) Create(ctx context.Context, input models.QuizInput) (*models.Quiz, error) {
	if err := validation.ValidateQuiz(input); err != nil {
		notify.Error(s.notifier, "%s", err.Error())
		return nil, err
	}

	quiz, err := s.api.CreateQuiz(ctx, input)
	if err != nil {
		log.Printf("Error creating quiz %q: %v", input.Title, err)
		notify.Error(s.notifier, "Error creating quiz")
		return nil, fmt.Errorf("failed to create quiz: %w", err)
	}

	notify.Success(s.notifier, "Quiz created successfully!")
	s.dashboard.Refresh(ctx, s.user)
	return quiz, nil
}

// Update validates and replaces an existing quiz
func (s *QuizService) Update(ctx context.Context, id string, input models.QuizInput) (*models.Quiz, error) {
	if err := validation.ValidateQuiz(input); err != nil {
		notify.Error(s.notifier, "%s", err.Error())
		return nil, err
	}

	quiz, err := s.api.UpdateQuiz(ctx, id, input)
	if err != nil {
		log.Printf("Error updating quiz %s: %v", id, err)
		notify.Error(s.notifier, "Error updating quiz")
		return nil, fmt.Errorf("failed to update quiz: %w", err)
	}

	notify.Success(s.notifier, "Quiz updated successfully!")
	s.dashboard.Refresh(ctx, s.user)
	return quiz, nil
}

// Delete removes a quiz
func (s *QuizService) Delete(ctx context.Context, id string) error {
	if err := s.api.DeleteQuiz(ctx, id); err != nil {
		log.Printf("Error deleting quiz %s: %v", id, err)
		notify.Error(s.notifier, "Error deleting quiz")
		return fmt.Errorf("failed to delete quiz: %w", err)
	}

	notify.Success(s.notifier, "Quiz deleted successfully!")
	s.dashboard.Refresh(ctx, s.user)
	return nil
}
