// Package domain defines core data structures used throughout the client.
package domain

import "github.com/shopspring/decimal"

// NetworkFees fee estimates in sat/vByte for the three confirmation tiers.
type NetworkFees struct {
	Low    int64 `json:"low"`
	Medium int64 `json:"medium"`
	High   int64 `json:"high"`
}

// MarketSnapshot one complete, internally consistent read of live market
// data. A snapshot is replaced wholesale on every successful poll and never
// merged field by field; optional fields stay nil when the backend omits
// them.
type MarketSnapshot struct {
	// Price current USD price.
	Price decimal.Decimal `json:"price"`
	// PriceChange24h signed percent change over the last 24 hours.
	PriceChange24h decimal.Decimal `json:"price_change_24h"`
	// Volatility fractional volatility reading (0.03 means 3%).
	Volatility decimal.Decimal `json:"volatility"`
	// Volume24h USD trade volume, absent when the backend has no figure.
	Volume24h *decimal.Decimal `json:"volume_24h,omitempty"`
	// NetworkFees current fee estimates, absent when unknown.
	NetworkFees *NetworkFees `json:"network_fees,omitempty"`
}

// MediumFee returns the medium network fee, reporting absence explicitly
// instead of collapsing it to zero.
func (s *MarketSnapshot) MediumFee() (int64, bool) {
	if s == nil || s.NetworkFees == nil {
		return 0, false
	}
	return s.NetworkFees.Medium, true
}
