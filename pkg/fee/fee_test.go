package fee

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSubtotal(t *testing.T) {
	items := []LineItem{
		{Quantity: 1, Price: decimal.NewFromInt(100000)},
		{Quantity: 3, Price: decimal.NewFromInt(10000)},
	}
	assert.True(t, Subtotal(items).Equal(decimal.NewFromInt(130000)))
}

func TestSubtotalRoundsOnceOnTheSum(t *testing.T) {
	// three items of 0.333 each: per-item rounding would give 0.99,
	// summing first gives 1.00
	items := []LineItem{
		{Quantity: 1, Price: decimal.NewFromFloat(0.333)},
		{Quantity: 1, Price: decimal.NewFromFloat(0.333)},
		{Quantity: 1, Price: decimal.NewFromFloat(0.334)},
	}
	assert.True(t, Subtotal(items).Equal(decimal.NewFromInt(1)))
}

func TestSubtotalEmpty(t *testing.T) {
	assert.True(t, Subtotal(nil).IsZero())
}

func TestAdminFee(t *testing.T) {
	tests := []struct {
		name   string
		amount decimal.Decimal
		want   decimal.Decimal
	}{
		{"below cap", decimal.NewFromInt(100000), decimal.NewFromInt(2000)},
		{"exactly at knee", decimal.NewFromInt(250000), decimal.NewFromInt(5000)},
		{"just below knee", decimal.NewFromInt(249999), decimal.NewFromFloat(4999.98)},
		{"above knee hits cap", decimal.NewFromInt(550000), decimal.NewFromInt(5000)},
		{"far above knee still cap", decimal.NewFromInt(10000000), decimal.NewFromInt(5000)},
		{"zero amount", decimal.Zero, decimal.Zero},
		{"negative amount", decimal.NewFromInt(-100), decimal.Zero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AdminFee(tt.amount)
			assert.True(t, got.Equal(tt.want), "got %s want %s", got, tt.want)
		})
	}
}

func TestTotal(t *testing.T) {
	total := Total(decimal.NewFromInt(550000), decimal.NewFromInt(5000))
	assert.True(t, total.Equal(decimal.NewFromInt(555000)))
}
