package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recommendation backend-computed payment-timing guidance for a scenario.
// The client renders it as-is and never recomputes any of its fields.
type Recommendation struct {
	ScenarioID           string           `json:"scenario_id,omitempty"`
	RecommendedBTCAmount decimal.Decimal  `json:"recommended_btc_amount"`
	OptimalTiming        string           `json:"optimal_timing"`
	ConfidenceScore      decimal.Decimal  `json:"confidence_score"`
	Reasoning            string           `json:"reasoning"`
	RiskAssessment       RiskTolerance    `json:"risk_assessment"`
	VolatilityForecast   decimal.Decimal  `json:"volatility_forecast"`
	ProjectedSavings     *decimal.Decimal `json:"projected_savings,omitempty"`
}

// RecommendationEvent a received recommendation together with the
// submission context it answered, as written to the local journal.
type RecommendationEvent struct {
	// EventID unique id of the journal entry; re-analyzing the same
	// scenario produces a new event, never an overwrite.
	EventID        string         `json:"event_id"`
	ReceivedAt     time.Time      `json:"received_at"`
	ScenarioID     string         `json:"scenario_id"`
	ScenarioType   ScenarioType   `json:"scenario_type"`
	Recommendation Recommendation `json:"recommendation"`
}

// RecommendationEventRecord bundles a journaled event with its WAL index.
type RecommendationEventRecord struct {
	Index uint64
	Event RecommendationEvent
}
