package format

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCurrency(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		expected string
	}{
		{name: "grouped thousands", amount: "1234.5", expected: "$1,234.50"},
		{name: "zero", amount: "0", expected: "$0.00"},
		{name: "no grouping below a thousand", amount: "999.99", expected: "$999.99"},
		{name: "rounds up across the grouping boundary", amount: "999.999", expected: "$1,000.00"},
		{name: "millions", amount: "1234567.891", expected: "$1,234,567.89"},
		{name: "negative", amount: "-1234.5", expected: "-$1,234.50"},
		{name: "small fraction", amount: "0.004", expected: "$0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Currency(decimal.RequireFromString(tt.amount)))
		})
	}
}

func TestBTC(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		expected string
	}{
		{name: "one satoshi", amount: "0.00000001", expected: "₿0.00000001"},
		{name: "whole coin padded", amount: "1.5", expected: "₿1.50000000"},
		{name: "zero", amount: "0", expected: "₿0.00000000"},
		{name: "sub-satoshi precision rounds", amount: "0.000000015", expected: "₿0.00000002"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BTC(decimal.RequireFromString(tt.amount)))
		})
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected string
	}{
		{name: "negative keeps its sign", value: "-3", expected: "-3.00%"},
		{name: "zero gets an explicit plus", value: "0", expected: "+0.00%"},
		{name: "positive gets an explicit plus", value: "2.345", expected: "+2.35%"},
		{name: "tiny negative rounds to signed zero as positive", value: "-0.001", expected: "+0.00%"},
		{name: "large drop", value: "-12.5", expected: "-12.50%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Percentage(decimal.RequireFromString(tt.value)))
		})
	}
}
