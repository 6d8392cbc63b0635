package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"disasterprep/internal/models"
)

// StudentsProgress returns the class progress report (teacher and admin)
func (c *Client) StudentsProgress(ctx context.Context) (*models.StudentsProgressReport, error) {
	var report models.StudentsProgressReport
	if err := c.get(ctx, "/teacher/students-progress", &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// TeachersProgress returns teacher authoring activity (admin)
func (c *Client) TeachersProgress(ctx context.Context) (*models.TeachersProgressReport, error) {
	var report models.TeachersProgressReport
	if err := c.get(ctx, "/admin/teachers-progress", &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// Leaderboard returns the top ranked students
func (c *Client) Leaderboard(ctx context.Context) (*models.Leaderboard, error) {
	var board models.Leaderboard
	if err := c.get(ctx, "/leaderboard", &board); err != nil {
		return nil, err
	}
	return &board, nil
}

// TeacherQuizzes returns the quizzes the caller may manage
func (c *Client) TeacherQuizzes(ctx context.Context) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	if err := c.get(ctx, "/teacher/quizzes", &quizzes); err != nil {
		return nil, err
	}
	return quizzes, nil
}

// CreateQuiz stores a new quiz
func (c *Client) CreateQuiz(ctx context.Context, input models.QuizInput) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := c.send(ctx, http.MethodPost, "/teacher/quizzes", input, &quiz); err != nil {
		return nil, err
	}
	return &quiz, nil
}

// UpdateQuiz replaces a quiz's title, module and questions
func (c *Client) UpdateQuiz(ctx context.Context, id string, input models.QuizInput) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := c.send(ctx, http.MethodPut, "/teacher/quizzes/"+url.PathEscape(id), input, &quiz); err != nil {
		return nil, err
	}
	return &quiz, nil
}

// DeleteQuiz removes a quiz
func (c *Client) DeleteQuiz(ctx context.Context, id string) error {
	return c.send(ctx, http.MethodDelete, "/teacher/quizzes/"+url.PathEscape(id), nil, nil)
}
