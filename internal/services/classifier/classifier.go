// Package classifier maps market snapshots to the categorical labels shown
// on the dashboard. Every function is pure and total: an absent snapshot or
// field yields an explicit neutral label, never a zero-value guess.
package classifier

import (
	"github.com/shopspring/decimal"

	"github.com/universiq/uvq/internal/domain"
)

// Comparisons against these thresholds are strict, so boundary readings
// matter: volatility of exactly 0.05 is Medium and exactly 0.02 is Low.
var (
	volatilityHigh   = decimal.NewFromFloat(0.05)
	volatilityMedium = decimal.NewFromFloat(0.02)
	significantDrop  = decimal.NewFromInt(-3)
)

// lowFeeCutoff sat/vByte below which the medium fee counts as low.
const lowFeeCutoff = int64(15)

// VolatilityLevel bucket for the current volatility reading.
type VolatilityLevel string

const (
	VolatilityUnknown VolatilityLevel = "Unknown"
	VolatilityLow     VolatilityLevel = "Low"
	VolatilityMedium  VolatilityLevel = "Medium"
	VolatilityHigh    VolatilityLevel = "High"
)

// Color terminal color slot paired with a volatility bucket.
type Color string

const (
	ColorNeutral Color = "gray"
	ColorGreen   Color = "green"
	ColorYellow  Color = "yellow"
	ColorRed     Color = "red"
)

// Labels shown on the dashboard and in the calculators.
const (
	TimingWait    = "Wait"
	TimingGood    = "Good Time"
	TimingNeutral = "Neutral"

	FeesLow  = "Low Fees"
	FeesHigh = "High Fees"

	StrategyDCA     = "DCA Strategy"
	StrategyLumpSum = "Lump Sum OK"
	StrategyUnknown = "Unknown"
)

// Volatility classifies the snapshot's volatility reading.
func Volatility(s *domain.MarketSnapshot) VolatilityLevel {
	if s == nil {
		return VolatilityUnknown
	}
	switch {
	case s.Volatility.GreaterThan(volatilityHigh):
		return VolatilityHigh
	case s.Volatility.GreaterThan(volatilityMedium):
		return VolatilityMedium
	default:
		return VolatilityLow
	}
}

// VolatilityColor mirrors Volatility's thresholds. Deriving the color from
// the level keeps the two in agreement on boundary readings.
func VolatilityColor(s *domain.MarketSnapshot) Color {
	switch Volatility(s) {
	case VolatilityHigh:
		return ColorRed
	case VolatilityMedium:
		return ColorYellow
	case VolatilityLow:
		return ColorGreen
	default:
		return ColorNeutral
	}
}

// FeeStatus labels the medium network fee. An absent fee reads as high:
// without data, claiming cheap transactions is the wrong side to err on.
func FeeStatus(s *domain.MarketSnapshot) string {
	if fee, ok := s.MediumFee(); ok && fee < lowFeeCutoff {
		return FeesLow
	}
	return FeesHigh
}

// Timing is the verdict for paying right now. Volatility dominates: a
// volatile market reads "Wait" even after a steep price drop.
func Timing(s *domain.MarketSnapshot) string {
	if s == nil {
		return TimingNeutral
	}
	if s.Volatility.GreaterThan(volatilityHigh) {
		return TimingWait
	}
	if s.PriceChange24h.LessThan(significantDrop) {
		return TimingGood
	}
	return TimingNeutral
}

// Strategy is the recommended purchase strategy under current volatility.
func Strategy(s *domain.MarketSnapshot) string {
	if s == nil {
		return StrategyUnknown
	}
	if s.Volatility.GreaterThan(volatilityHigh) {
		return StrategyDCA
	}
	return StrategyLumpSum
}
