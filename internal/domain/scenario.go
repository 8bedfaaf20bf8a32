package domain

import (
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ScenarioType kind of financial goal a scenario describes.
type ScenarioType string

const (
	// ScenarioRetirement long-horizon retirement savings.
	ScenarioRetirement ScenarioType = "retirement"
	// ScenarioHealth health care reserve.
	ScenarioHealth ScenarioType = "health"
	// ScenarioUniversity university fund.
	ScenarioUniversity ScenarioType = "university"
	// ScenarioDaily day-to-day spending; never carries a target date.
	ScenarioDaily ScenarioType = "daily"
)

// ScenarioTypes all valid scenario types in dashboard display order.
var ScenarioTypes = []ScenarioType{ScenarioRetirement, ScenarioHealth, ScenarioUniversity, ScenarioDaily}

// String returns the string representation.
func (t ScenarioType) String() string {
	return string(t)
}

// IsValid checks if the ScenarioType value is valid.
func (t ScenarioType) IsValid() bool {
	switch t {
	case ScenarioRetirement, ScenarioHealth, ScenarioUniversity, ScenarioDaily:
		return true
	}
	return false
}

// Title returns the human-facing name of the scenario.
func (t ScenarioType) Title() string {
	switch t {
	case ScenarioRetirement:
		return "Retirement Planning"
	case ScenarioHealth:
		return "Health Care"
	case ScenarioUniversity:
		return "University Fund"
	case ScenarioDaily:
		return "Daily Spending"
	}
	return "Unknown"
}

// RiskTolerance how much volatility the user accepts.
type RiskTolerance string

const (
	RiskLow    RiskTolerance = "low"
	RiskMedium RiskTolerance = "medium"
	RiskHigh   RiskTolerance = "high"
)

// String returns the string representation.
func (r RiskTolerance) String() string {
	return string(r)
}

// IsValid checks if the RiskTolerance value is valid.
func (r RiskTolerance) IsValid() bool {
	return r == RiskLow || r == RiskMedium || r == RiskHigh
}

// DefaultInflationRate matches the backend's default of 7%.
var DefaultInflationRate = decimal.NewFromFloat(0.07)

// ScenarioRequest a user-specified financial goal submitted for analysis.
// TargetDate travels as a YYYY-MM-DD string and is omitted when empty.
type ScenarioRequest struct {
	ScenarioType  ScenarioType    `json:"scenario_type" validate:"required,oneof=retirement health university daily"`
	AmountUSD     decimal.Decimal `json:"amount_usd"`
	TargetDate    string          `json:"target_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	RiskTolerance RiskTolerance   `json:"risk_tolerance" validate:"required,oneof=low medium high"`
	InflationRate decimal.Decimal `json:"inflation_rate"`
}

var validate = validator.New()

// Validate enforces structural and cross-field rules before submission.
// A request that fails here must never reach the backend.
func (r ScenarioRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return errors.Wrap(err, "invalid scenario request")
	}
	if !r.AmountUSD.IsPositive() {
		return errors.New("amount must be greater than zero")
	}
	if r.InflationRate.IsNegative() || r.InflationRate.GreaterThan(decimal.NewFromInt(1)) {
		return errors.New("inflation rate must be between 0 and 1")
	}
	if r.ScenarioType == ScenarioDaily && r.TargetDate != "" {
		return errors.New("daily scenarios do not take a target date")
	}
	return nil
}
