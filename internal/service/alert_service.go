package service

import (
	"context"
	"fmt"
	"log"

	"disasterprep/internal/models"
	"disasterprep/internal/notify"
	"disasterprep/internal/validation"
)

// AlertAPI is the subset of the platform client used to publish alerts
type AlertAPI interface {
	CreateAlert(ctx context.Context, input models.AlertInput) (*models.Alert, error)
}

// AlertService publishes school-wide alerts
type AlertService struct {
	api         AlertAPI
	dashboard   Dashboard
	notifier    notify.Notifier
	broadcaster *BroadcastService
	user        models.User
}

// NewAlertService creates a new alert service. broadcaster may be nil.
func NewAlertService(api AlertAPI, dash Dashboard, notifier notify.Notifier, broadcaster *BroadcastService, user models.User) *AlertService {
	return &AlertService{
		api:         api,
		dashboard:   dash,
		notifier:    notifier,
		broadcaster: broadcaster,
		user:        user,
	}
}

// Create validates and publishes an alert. Urgent alerts are also e-mailed
// when a broadcaster is configured; a failed broadcast does not fail the call.
func (s *AlertService) Create(ctx context.Context, input models.AlertInput) (*models.Alert, error) {
	if err := validation.ValidateAlert(input); err != nil {
		notify.Error(s.notifier, "%s", err.Error())
		return nil, err
	}

	alert, err := s.api.CreateAlert(ctx, input)
	if err != nil {
		log.Printf("Error creating alert %q: %v", input.Title, err)
		notify.Error(s.notifier, "Error creating alert")
		return nil, fmt.Errorf("failed to create alert: %w", err)
	}

	notify.Success(s.notifier, "Alert created successfully!")

	if s.broadcaster != nil && alert.Severity.Urgent() {
		if err := s.broadcaster.BroadcastAlert(ctx, *alert); err != nil {
			log.Printf("Error broadcasting alert %s: %v", alert.ID, err)
			notify.Error(s.notifier, "Alert created but e-mail broadcast failed")
		}
	}

	s.dashboard.Refresh(ctx, s.user)
	return alert, nil
}
