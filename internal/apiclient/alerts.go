package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"disasterprep/internal/models"
)

// ListAlerts returns the active alerts
func (c *Client) ListAlerts(ctx context.Context) ([]models.Alert, error) {
	var alerts []models.Alert
	if err := c.get(ctx, "/alerts", &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

// CreateAlert publishes a new alert (admin and teacher)
func (c *Client) CreateAlert(ctx context.Context, input models.AlertInput) (*models.Alert, error) {
	var alert models.Alert
	if err := c.send(ctx, http.MethodPost, "/alerts", input, &alert); err != nil {
		return nil, err
	}
	return &alert, nil
}

// EmergencyContacts returns the reference list of emergency numbers
func (c *Client) EmergencyContacts(ctx context.Context) ([]models.EmergencyContact, error) {
	var contacts []models.EmergencyContact
	if err := c.get(ctx, "/emergency-contacts", &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

// RecordDrill records that the current user took part in a drill
func (c *Client) RecordDrill(ctx context.Context, input models.DrillInput) error {
	return c.send(ctx, http.MethodPost, "/drills", input, nil)
}

// PredictDisaster asks the server for a risk assessment of city
func (c *Client) PredictDisaster(ctx context.Context, city string) (*models.DisasterPrediction, error) {
	var prediction models.DisasterPrediction
	err := c.do(ctx, request{
		method:        http.MethodPost,
		path:          "/predict-disaster",
		query:         url.Values{"city": []string{city}},
		out:           &prediction,
		authenticated: true,
	})
	if err != nil {
		return nil, err
	}
	return &prediction, nil
}

// ListPredictions returns past risk assessments
func (c *Client) ListPredictions(ctx context.Context) ([]models.DisasterPrediction, error) {
	var predictions []models.DisasterPrediction
	if err := c.get(ctx, "/predictions", &predictions); err != nil {
		return nil, err
	}
	return predictions, nil
}
