package models

// AlertType classifies the hazard an alert is about
type AlertType string

const (
	AlertGeneral       AlertType = "general"
	AlertFire          AlertType = "fire"
	AlertEarthquake    AlertType = "earthquake"
	AlertFlood         AlertType = "flood"
	AlertSevereWeather AlertType = "severe_weather"
)

// AlertTypes lists every accepted alert type
var AlertTypes = []AlertType{AlertGeneral, AlertFire, AlertEarthquake, AlertFlood, AlertSevereWeather}

// Severity is the urgency of an alert
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Severities lists every accepted severity, least urgent first
var Severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

// Rank orders severities; unknown values rank below low
func (s Severity) Rank() int {
	for i, sev := range Severities {
		if sev == s {
			return i + 1
		}
	}
	return 0
}

// Urgent reports whether the severity warrants broadcasting
func (s Severity) Urgent() bool {
	return s.Rank() >= SeverityHigh.Rank()
}

// Alert is a school-wide notice created by staff
type Alert struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	AlertType AlertType `json:"alert_type"`
	Severity  Severity  `json:"severity"`
	Active    bool      `json:"active"`
	CreatedBy string    `json:"created_by,omitempty"`
	CreatedAt Timestamp `json:"created_at"`
}

// Badge is the label a renderer shows next to the alert
func (a Alert) Badge() string {
	return string(a.Severity)
}

// AlertInput is the body of POST /alerts
type AlertInput struct {
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	AlertType AlertType `json:"alert_type"`
	Severity  Severity  `json:"severity"`
}

// DefaultAlertInput mirrors a freshly reset alert form
func DefaultAlertInput() AlertInput {
	return AlertInput{AlertType: AlertGeneral, Severity: SeverityMedium}
}
