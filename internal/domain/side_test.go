package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSide(t *testing.T) {
	tests := []struct {
		input    string
		expected Side
	}{
		{"bid", SideBid},
		{"ask", SideAsk},
		{"asksale", SideAskSale},
		{"bidsale", SideBidSale},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			side, err := ParseSide(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, side)
			assert.Equal(t, tt.input, side.String())
		})
	}
}

func TestParseSideUnknown(t *testing.T) {
	for _, input := range []string{"", "buy", "BID", "sale"} {
		_, err := ParseSide(input)
		assert.Error(t, err, input)
	}
}

func TestSideIsValid(t *testing.T) {
	assert.True(t, SideBid.IsValid())
	assert.True(t, SideBidSale.IsValid())
	assert.False(t, Side(42).IsValid())
	assert.Equal(t, "unknown", Side(42).String())
}

func TestSideIsResting(t *testing.T) {
	assert.True(t, SideBid.IsResting())
	assert.True(t, SideAsk.IsResting())
	assert.False(t, SideAskSale.IsResting())
	assert.False(t, SideBidSale.IsResting())
}
