package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"disasterprep/internal/models"
)

// ListModules returns the learning modules in display order
func (c *Client) ListModules(ctx context.Context) ([]models.Module, error) {
	var modules []models.Module
	if err := c.get(ctx, "/modules", &modules); err != nil {
		return nil, err
	}
	return modules, nil
}

// ModuleQuizzes returns the quizzes attached to a module
func (c *Client) ModuleQuizzes(ctx context.Context, moduleID string) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	if err := c.get(ctx, "/quizzes/module/"+url.PathEscape(moduleID), &quizzes); err != nil {
		return nil, err
	}
	return quizzes, nil
}

// ListQuizzes returns every quiz, including standalone ones
func (c *Client) ListQuizzes(ctx context.Context) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	if err := c.get(ctx, "/quizzes", &quizzes); err != nil {
		return nil, err
	}
	return quizzes, nil
}

// MarkVideoComplete records that the module's video was watched
func (c *Client) MarkVideoComplete(ctx context.Context, moduleID string, watchPercentage float64) error {
	body := models.VideoCompletion{ModuleID: moduleID, WatchPercentage: watchPercentage}
	return c.send(ctx, http.MethodPost, "/video-completion", body, nil)
}

// SubmitQuizAttempt stores a scored attempt
func (c *Client) SubmitQuizAttempt(ctx context.Context, attempt models.QuizAttempt) error {
	return c.send(ctx, http.MethodPost, "/quiz-attempts", attempt, nil)
}

// UserStats returns points, drill counts and per-module progress for a user
func (c *Client) UserStats(ctx context.Context, userID string) (*models.UserStats, error) {
	var stats models.UserStats
	if err := c.get(ctx, "/user-stats/"+url.PathEscape(userID), &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
