package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatter_Format(t *testing.T) {
	f := NewFormatter("₹", "en")

	assert.Equal(t, "₹ 75,000.00", f.Format(decimal.NewFromInt(75000)))
	assert.Equal(t, "₹ 1,234.50", f.Format(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "₹ 0.00", f.Format(decimal.Zero))
}

func TestFormatter_FormatDeduction(t *testing.T) {
	f := NewFormatter("₹", "en")

	assert.Equal(t, "- ₹ 6,000.00", f.FormatDeduction(decimal.NewFromInt(6000)))
	assert.Equal(t, "- ₹ 200.00", f.FormatDeduction(decimal.NewFromInt(-200)))
}

func TestFormatter_FormatSigned(t *testing.T) {
	f := NewFormatter("₹", "en")

	assert.Equal(t, "₹ 1,500.00", f.FormatSigned(decimal.NewFromInt(1500)))
	assert.Equal(t, "- ₹ 1,500.00", f.FormatSigned(decimal.NewFromInt(-1500)))
	assert.Equal(t, "₹ 0.00", f.FormatSigned(decimal.Zero))
	assert.Equal(t, "₹ 0.00", f.FormatSigned(decimal.RequireFromString("-0.001")))
}

func TestNewFormatter_BadLocaleFallsBack(t *testing.T) {
	f := NewFormatter("$", "not a locale!!")

	assert.Equal(t, "$ 1,000.00", f.Format(decimal.NewFromInt(1000)))
	assert.Equal(t, "$", f.Symbol())
}
