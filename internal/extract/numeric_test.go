package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLocalizedNumber(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected float64
	}{
		{"european thousands and decimal", "1.234,56", 1234.56},
		{"english thousands and decimal", "1,234.56", 1234.56},
		{"lone comma is decimal", "19,99", 19.99},
		{"lone period is decimal", "19.99", 19.99},
		{"plain integer", "42", 42},
		{"currency symbol prefix", "€29,90", 29.90},
		{"currency symbol suffix", "12.50 £", 12.50},
		{"non-breaking space separator", "1 234,56", 1234.56},
		{"entity space separator", "1&nbsp;299,00", 1299.00},
		{"swiss apostrophe separator", "1'299.50", 1299.50},
		{"embedded in text", "now only 9,95 instead of", 9.95},
		{"negative", "-5.5", -5.5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := ParseLocalizedNumber(tc.input)
			if assert.NotNil(t, result) {
				assert.InDelta(t, tc.expected, *result, 0.0001)
			}
		})
	}
}

func TestParseLocalizedNumberInvalid(t *testing.T) {
	invalid := []string{
		"",
		"no digits here",
		"€",
		"--",
		"...",
		",",
	}

	for _, input := range invalid {
		assert.Nil(t, ParseLocalizedNumber(input), "input %q should not parse", input)
	}
}

func TestDetectCurrency(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"€19,99", "EUR"},
		{"£12.50", "GBP"},
		{"19.99 PLN", "PLN"},
		{"ab 24,90 eur", "EUR"},
		{"149 SEK", "SEK"},
		{"1.299,00 CZK", "CZK"},
		{"99,90 TRY", "TRY"},
		{"249 NOK inkl. mva", "NOK"},
		{"no currency here", ""},
		{"", ""},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, DetectCurrency(tc.input), "input %q", tc.input)
	}
}

func TestDetectCurrencySymbolBeatsCode(t *testing.T) {
	// The ordered table tries symbols first
	assert.Equal(t, "EUR", DetectCurrency("€ 10 GBP"))
}
