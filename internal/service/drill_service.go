package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"disasterprep/internal/models"
	"disasterprep/internal/notify"
)

var errDrillTypeRequired = errors.New("drill type is required")

// DrillTypes lists the drills students can report
var DrillTypes = []string{"Fire Drill", "Earthquake Drill", "Flood Evacuation Drill", "Lockdown Drill"}

// DrillAPI is the subset of the platform client used to record drills
type DrillAPI interface {
	RecordDrill(ctx context.Context, input models.DrillInput) error
}

// DrillService records drill participation
type DrillService struct {
	api       DrillAPI
	dashboard Dashboard
	notifier  notify.Notifier
	user      models.User
}

// NewDrillService creates a new drill service
func NewDrillService(api DrillAPI, dash Dashboard, notifier notify.Notifier, user models.User) *DrillService {
	return &DrillService{api: api, dashboard: dash, notifier: notifier, user: user}
}

// Record reports participation in drillType. No idempotency key is sent, so
// calling Record twice stores two records.
func (s *DrillService) Record(ctx context.Context, drillType string) error {
	drillType = strings.TrimSpace(drillType)
	if drillType == "" {
		notify.Error(s.notifier, "%s", errDrillTypeRequired.Error())
		return errDrillTypeRequired
	}

	input := models.DrillInput{
		DrillType: drillType,
		Notes:     fmt.Sprintf("Participated in %s drill", drillType),
	}
	if err := s.api.RecordDrill(ctx, input); err != nil {
		log.Printf("Error recording drill %q: %v", drillType, err)
		notify.Error(s.notifier, "Error recording drill participation")
		return fmt.Errorf("failed to record drill: %w", err)
	}

	notify.Success(s.notifier, "%s drill participation recorded!", drillType)
	s.dashboard.Refresh(ctx, s.user)
	return nil
}
