package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestOrderStatus_FilledFraction(t *testing.T) {
	tests := []struct {
		name   string
		status OrderStatus
		want   decimal.Decimal
		full   bool
		open   bool
	}{
		{"untouched", OrderStatus{}, decimal.Zero, false, true},
		{"half", OrderStatus{IsValidated: true, Numerator: 1, Denominator: 2}, decimal.RequireFromString("0.5"), false, true},
		{"full", OrderStatus{IsValidated: true, Numerator: 3, Denominator: 3}, decimal.NewFromInt(1), true, false},
		{"cancelled", OrderStatus{IsCancelled: true}, decimal.Zero, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.status.FilledFraction(); !got.Equal(tt.want) {
				t.Errorf("FilledFraction() = %s, want %s", got, tt.want)
			}
			if got := tt.status.IsFullyFilled(); got != tt.full {
				t.Errorf("IsFullyFilled() = %v, want %v", got, tt.full)
			}
			if got := tt.status.IsOpen(); got != tt.open {
				t.Errorf("IsOpen() = %v, want %v", got, tt.open)
			}
		})
	}
}
