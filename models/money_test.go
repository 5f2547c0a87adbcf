package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount_PlainNumber(t *testing.T) {
	a, err := ParseAmount("500")
	require.NoError(t, err)
	assert.Equal(t, Amount{Currency: "USD", Cents: 50000}, a)
}

func TestParseAmount_DollarSymbol(t *testing.T) {
	a, err := ParseAmount("$500")
	require.NoError(t, err)
	assert.Equal(t, "USD", a.Currency)
	assert.Equal(t, int64(50000), a.Cents)
}

func TestParseAmount_EuroSymbol(t *testing.T) {
	a, err := ParseAmount("€1200")
	require.NoError(t, err)
	assert.Equal(t, "EUR", a.Currency)
	assert.Equal(t, int64(120000), a.Cents)
}

func TestParseAmount_ThousandsSeparator(t *testing.T) {
	a, err := ParseAmount("1,200")
	require.NoError(t, err)
	assert.Equal(t, int64(120000), a.Cents)
}

func TestParseAmount_KMultiplier(t *testing.T) {
	a, err := ParseAmount("2k")
	require.NoError(t, err)
	assert.Equal(t, int64(200000), a.Cents)

	a, err = ParseAmount("$2.5K")
	require.NoError(t, err)
	assert.Equal(t, int64(250000), a.Cents)
}

func TestParseAmount_Decimal(t *testing.T) {
	a, err := ParseAmount("1250.50")
	require.NoError(t, err)
	assert.Equal(t, int64(125050), a.Cents)
	assert.Equal(t, "1250.50 USD", a.String())
}

func TestParseAmount_ZeroIsValid(t *testing.T) {
	// "0" is a real entry, distinct from an empty field.
	a, err := ParseAmount("0")
	require.NoError(t, err)
	assert.True(t, a.IsZero())
}

func TestParseAmount_Invalid(t *testing.T) {
	for _, text := range []string{"", "   ", "abc", "$", "-50", "1.2.3"} {
		_, err := ParseAmount(text)
		assert.ErrorIs(t, err, ErrInvalidAmount, "input %q", text)
	}
}

func TestAmount_String_WholeDollars(t *testing.T) {
	a := Amount{Currency: "USD", Cents: 50000}
	assert.Equal(t, "500 USD", a.String())
}
