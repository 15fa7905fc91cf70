package models

import "github.com/shopspring/decimal"

// RoundMoney rounds an amount to whole currency units. All persisted money in
// the system is whole-rupee, matching the gateway's paise conversion.
func RoundMoney(amount float64) float64 {
	rounded, _ := decimal.NewFromFloat(amount).Round(0).Float64()
	return rounded
}

// PercentOf computes pct% of amount, rounded to whole currency units.
func PercentOf(amount, pct float64) float64 {
	result, _ := decimal.NewFromFloat(amount).
		Mul(decimal.NewFromFloat(pct)).
		Div(decimal.NewFromInt(100)).
		Round(0).
		Float64()
	return result
}

// ClampPercent bounds a commission percentage to [0, 100].
func ClampPercent(pct float64) float64 {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// ToPaise converts a whole-rupee amount to the gateway's smallest unit.
func ToPaise(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(decimal.NewFromInt(100)).IntPart()
}
