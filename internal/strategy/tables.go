package strategy

import (
	"strings"

	"github.com/shopspring/decimal"
)

// RiskProfile is the caller's declared risk tolerance.
type RiskProfile string

const (
	RiskLow    RiskProfile = "low"
	RiskMedium RiskProfile = "medium"
	RiskHigh   RiskProfile = "high"
)

// ParseRisk normalizes free-form input. Anything unrecognized is medium.
func ParseRisk(s string) RiskProfile {
	switch RiskProfile(strings.ToLower(strings.TrimSpace(s))) {
	case RiskLow:
		return RiskLow
	case RiskHigh:
		return RiskHigh
	default:
		return RiskMedium
	}
}

// ThresholdTable is the minimum probability of rise required to recommend BUY.
// Higher tolerance means a lower bar.
var ThresholdTable = map[RiskProfile]float64{
	RiskLow:    0.50,
	RiskMedium: 0.40,
	RiskHigh:   0.30,
}

// AllocationTable is the fraction of capital committed on BUY.
// Kept as decimals so capital x fraction is exact before truncation.
var AllocationTable = map[RiskProfile]decimal.Decimal{
	RiskLow:    decimal.RequireFromString("0.30"),
	RiskMedium: decimal.RequireFromString("0.60"),
	RiskHigh:   decimal.RequireFromString("0.90"),
}

// thresholdFor falls back to medium for any profile missing from the table.
func thresholdFor(r RiskProfile) float64 {
	if t, ok := ThresholdTable[r]; ok {
		return t
	}
	return ThresholdTable[RiskMedium]
}

func allocationFor(r RiskProfile) decimal.Decimal {
	if a, ok := AllocationTable[r]; ok {
		return a
	}
	return AllocationTable[RiskMedium]
}
