// Package service implements the dashboard's write actions. Each action is a
// single request; on success the dashboard is refreshed, on failure the user
// is notified and nothing is retried.
package service

import (
	"context"

	"disasterprep/internal/dashboard"
	"disasterprep/internal/models"
)

// Dashboard is refreshed after every successful write
type Dashboard interface {
	Refresh(ctx context.Context, user models.User) dashboard.Report
	PrependPrediction(p models.DisasterPrediction)
}
