package valuation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestWeightedAverageCost(t *testing.T) {
	t.Run("sin stock previo toma el costo de entrada", func(t *testing.T) {
		got := WeightedAverageCost(decimal.Zero, decimal.Zero, d("2"), d("45.50"))
		assert.True(t, got.Equal(d("45.50")), got.String())
	})
	t.Run("promedia por cantidades", func(t *testing.T) {
		// (10*40 + 10*50) / 20 = 45
		got := WeightedAverageCost(d("10"), d("40"), d("10"), d("50"))
		assert.True(t, got.Equal(d("45")), got.String())
	})
	t.Run("suma no positiva devuelve cero", func(t *testing.T) {
		got := WeightedAverageCost(d("-3"), d("40"), d("1"), d("50"))
		assert.True(t, got.IsZero())
	})
}

func TestSummary_Accumulate(t *testing.T) {
	var s Summary
	for _, c := range []string{"30", "40", "50"} {
		s = s.Accumulate(d(c))
	}
	assert.Equal(t, 3, s.Units)
	assert.True(t, s.AverageCost.Equal(d("40")), s.AverageCost.String())
	assert.True(t, s.TotalValue.Equal(d("120")), s.TotalValue.String())
}
