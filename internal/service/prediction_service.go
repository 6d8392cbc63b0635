package service

import (
	"context"
	"fmt"
	"log"

	"disasterprep/internal/models"
	"disasterprep/internal/notify"
	"disasterprep/internal/validation"
)

// PredictionAPI is the subset of the platform client used for risk assessments
type PredictionAPI interface {
	PredictDisaster(ctx context.Context, city string) (*models.DisasterPrediction, error)
}

// PredictionService requests risk assessments
type PredictionService struct {
	api       PredictionAPI
	dashboard Dashboard
	notifier  notify.Notifier
	user      models.User
}

// NewPredictionService creates a new prediction service
func NewPredictionService(api PredictionAPI, dash Dashboard, notifier notify.Notifier, user models.User) *PredictionService {
	return &PredictionService{api: api, dashboard: dash, notifier: notifier, user: user}
}

// Predict asks for a risk assessment of city. Blank cities are rejected
// without a request. The result is shown first in the predictions list.
func (s *PredictionService) Predict(ctx context.Context, city string) (*models.DisasterPrediction, error) {
	city, err := validation.NormalizeCity(city)
	if err != nil {
		return nil, err
	}

	prediction, err := s.api.PredictDisaster(ctx, city)
	if err != nil {
		log.Printf("Error predicting disaster risk for %q: %v", city, err)
		notify.Error(s.notifier, "Error predicting disaster risk")
		return nil, fmt.Errorf("failed to predict disaster risk: %w", err)
	}

	s.dashboard.PrependPrediction(*prediction)
	notify.Success(s.notifier, "Disaster risk assessment completed!")
	s.dashboard.Refresh(ctx, s.user)
	return prediction, nil
}
