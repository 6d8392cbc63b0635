package models

// DisasterPrediction is an externally computed risk assessment for a city
type DisasterPrediction struct {
	ID             string    `json:"id"`
	City           string    `json:"city"`
	RiskPercentage float64   `json:"risk_percentage"`
	DisasterTypes  []string  `json:"disaster_types"`
	Factors        []string  `json:"factors"`
	PredictedAt    Timestamp `json:"predicted_at"`
	PredictedBy    string    `json:"predicted_by,omitempty"`
}

// RiskLevel buckets the risk percentage for display
func (p DisasterPrediction) RiskLevel() string {
	switch {
	case p.RiskPercentage >= 60:
		return "high"
	case p.RiskPercentage >= 30:
		return "medium"
	default:
		return "low"
	}
}
