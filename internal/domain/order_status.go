package domain

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// OrderStatus is the persistent record kept per order hash.
// It is created on first interaction and never deleted.
type OrderStatus struct {
	IsValidated bool   `json:"is_validated"`
	IsCancelled bool   `json:"is_cancelled"`
	Numerator   uint64 `json:"numerator"`
	Denominator uint64 `json:"denominator"`
}

// FilledFraction returns Numerator/Denominator, or zero for an untouched order.
func (s OrderStatus) FilledFraction() decimal.Decimal {
	if s.Denominator == 0 {
		return decimal.Zero
	}
	num := decimal.NewFromBigInt(new(big.Int).SetUint64(s.Numerator), 0)
	den := decimal.NewFromBigInt(new(big.Int).SetUint64(s.Denominator), 0)
	return num.Div(den)
}

// IsFullyFilled checks whether the whole order has been consumed.
func (s OrderStatus) IsFullyFilled() bool {
	return s.Denominator != 0 && s.Numerator >= s.Denominator
}

// IsOpen checks if the order can still be fulfilled.
func (s OrderStatus) IsOpen() bool {
	return !s.IsCancelled && !s.IsFullyFilled()
}
