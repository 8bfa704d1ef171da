package receipt

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractAmountPrefersTotalLine(t *testing.T) {
	text := `CHAI POINT
Date: 12/08/2025 14:32
Tea 2 x 20.00    40.00
Samosa           30.00
Total: Rs. 70.00
Phone 9876543210`

	amt, raw, ok := ExtractAmount(text)
	require.True(t, ok)
	assert.True(t, amt.Equal(decimal.NewFromInt(70)), "got %s", amt)
	assert.Contains(t, raw, "Total")
}

func TestExtractAmountGrandTotalBeatsSubtotal(t *testing.T) {
	text := "Subtotal 100.00\nGST 5.00\nGrand Total 105.00"
	amt, _, ok := ExtractAmount(text)
	require.True(t, ok)
	assert.True(t, amt.Equal(decimal.NewFromInt(105)), "got %s", amt)
}

func TestExtractAmountFallsBackToLargest(t *testing.T) {
	amt, _, ok := ExtractAmount("apples 12.50\nbread 40.00")
	require.True(t, ok)
	assert.True(t, amt.Equal(decimal.NewFromInt(40)), "got %s", amt)
}

func TestExtractAmountNone(t *testing.T) {
	_, _, ok := ExtractAmount("THANK YOU\nVISIT AGAIN")
	assert.False(t, ok)

	_, _, ok = ExtractAmount("call 9876543210")
	assert.False(t, ok)
}

func TestIsPlausible(t *testing.T) {
	assert.True(t, isPlausible("1,250.00"))
	assert.True(t, isPlausible("₹99"))
	assert.False(t, isPlausible("0123"))
	assert.False(t, isPlausible("123456789012"))
}
