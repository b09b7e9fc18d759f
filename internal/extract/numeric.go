package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// separatorCleaner strips the whitespace variants and apostrophes some
// locales use as thousand separators (e.g. "1'299.00" in CH).
var separatorCleaner = strings.NewReplacer(
	" ", "",
	" ", "",
	"&nbsp;", "",
	" ", "",
	"'", "",
	"’", "",
)

// ParseLocalizedNumber parses a price string without knowing its locale.
// When both comma and period appear, the separator occurring last in the
// string is the decimal mark; a lone comma is always a decimal mark.
// Returns nil when no finite number can be read.
func ParseLocalizedNumber(text string) *float64 {
	cleaned := separatorCleaner.Replace(text)

	var b strings.Builder
	for _, r := range cleaned {
		if (r >= '0' && r <= '9') || r == ',' || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	s := b.String()
	if s == "" {
		return nil
	}

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			// "1.234,56": dots group thousands, the final comma is decimal
			s = strings.ReplaceAll(s, ".", "")
			i := strings.LastIndex(s, ",")
			s = strings.ReplaceAll(s[:i], ",", "") + "." + s[i+1:]
		} else {
			// "1,234.56": commas group thousands
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		s = strings.ReplaceAll(s, ",", ".")
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// currencyPatterns is checked in order; the first match wins. Symbols are
// tried before word codes so "€19,99 EUR" resolves through the symbol.
var currencyPatterns = []struct {
	re   *regexp.Regexp
	code string
}{
	{regexp.MustCompile(`€`), "EUR"},
	{regexp.MustCompile(`£`), "GBP"},
	{regexp.MustCompile(`(?i)\bEUR\b`), "EUR"},
	{regexp.MustCompile(`(?i)\bGBP\b`), "GBP"},
	{regexp.MustCompile(`(?i)\bPLN\b`), "PLN"},
	{regexp.MustCompile(`(?i)\bCHF\b`), "CHF"},
	{regexp.MustCompile(`(?i)\bCZK\b`), "CZK"},
	{regexp.MustCompile(`(?i)\bHUF\b`), "HUF"},
	{regexp.MustCompile(`(?i)\bRON\b`), "RON"},
	{regexp.MustCompile(`(?i)\bBGN\b`), "BGN"},
	{regexp.MustCompile(`(?i)\bDKK\b`), "DKK"},
	{regexp.MustCompile(`(?i)\bSEK\b`), "SEK"},
	{regexp.MustCompile(`(?i)\bNOK\b`), "NOK"},
	{regexp.MustCompile(`(?i)\bTRY\b`), "TRY"},
}

// DetectCurrency infers an ISO currency code from symbols or codes in the
// given text. Returns "" when nothing matches; callers need a fallback.
func DetectCurrency(text string) string {
	for _, p := range currencyPatterns {
		if p.re.MatchString(text) {
			return p.code
		}
	}
	return ""
}
