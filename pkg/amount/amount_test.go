package amount

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"100", "100"},
		{" 42.5 ", "42.5"},
		{"1,234.50", "1234.5"},
		{"1.234,50", "1234.5"},
		{"10.000,00", "10000"},
		{"₹ 99", "99"},
		{"Rs. 1,23,456", "123456"},
		{"INR 250", "250"},
		{"12,5", "12.5"},
		{"1.234.567", "1234567"},
		{"-20", "-20"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestParseInvalid(t *testing.T) {
	for _, in := range []string{"", "   ", "abc", "₹", "lunch money"} {
		_, err := Parse(in)
		assert.ErrorIs(t, err, ErrInvalid, in)
	}
}

func TestSumSkipsNonNumeric(t *testing.T) {
	total, skipped := Sum([]string{"100", "abc", "20.50", ""})
	assert.True(t, total.Equal(decimal.RequireFromString("120.5")))
	assert.Equal(t, 2, skipped)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "₹120.50", Format(decimal.RequireFromString("120.5"), "INR"))
	assert.Equal(t, "$1,000.00", Format(decimal.NewFromInt(1000), "usd"))
	assert.Equal(t, "₹0.00", Format(decimal.Zero, "XXX-unknown"))
}

func TestFormatBeyondInt64(t *testing.T) {
	total, skipped := Sum([]string{"99999999999999999999", "1"})
	assert.Equal(t, 0, skipped)
	assert.Equal(t, "₹100000000000000000000.00", Format(total, "INR"))
	assert.Equal(t, "-$99999999999999999999.50", Format(decimal.RequireFromString("-99999999999999999999.5"), "USD"))
}
