package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"1234.56", 1234.56},
		{"$1,234.56", 1234.56},
		{"€70,000.00", 70000},
		{"£300000", 300000},
		{"USD 1,000,000", 1000000},
		{"-500.25", -500.25},
		{"($2,500.00)", -2500},
		{"¥12000", 12000},
		{"  100.5  ", 100.5},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := Parse(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseInvalid(t *testing.T) {
	for _, in := range []string{"", "   ", "$", "abc", "1.2.3"} {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			assert.Error(t, err)
		})
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		amount   float64
		currency string
		want     string
	}{
		{1234.56, "USD", "$1,234.56"},
		{70000, "USD", "$70,000.00"},
		{1000000, "EUR", "€1,000,000.00"},
		{0, "GBP", "£0.00"},
		{12000, "JPY", "¥12,000"},
		{-2500.5, "USD", "-$2,500.50"},
		{99.999, "USD", "$100.00"},
		{500, "SEK", "SEK 500.00"},
	}

	for _, tc := range cases {
		t.Run(tc.want, func(t *testing.T) {
			assert.Equal(t, tc.want, Format(tc.amount, tc.currency))
		})
	}
}

func TestRound(t *testing.T) {
	assert.Equal(t, 10.57, Round(10.566, "USD"))
	assert.Equal(t, 10.56, Round(10.564, "USD"))
	assert.Equal(t, 101.0, Round(100.5, "JPY"))
	assert.Equal(t, 0.3, Round(0.1+0.2, "USD"))
}
