package extract

import (
	"net/url"
	"regexp"
	"strings"
)

// hostCountryOverrides pins storefronts whose top-level domain does not
// match the market they actually serve. Checked before any other rule.
var hostCountryOverrides = map[string]string{
	"gratis.com":            "TR",
	"www.gratis.com":        "TR",
	"lookfantastic.com":     "UK",
	"www.lookfantastic.com": "UK",
	"feelunique.com":        "UK",
	"www.feelunique.com":    "UK",
	"kikocosmetics.com":     "IT",
	"www.kikocosmetics.com": "IT",
}

// localePathPattern matches market paths like /es-es/ or /en-gb/ that
// multi-market storefronts put in front of every route.
var localePathPattern = regexp.MustCompile(`(?i)/([a-z]{2})-([a-z]{2})(?:/|$)`)

var tldCountries = map[string]string{
	"at": "AT", "be": "BE", "bg": "BG", "ch": "CH", "cz": "CZ", "de": "DE",
	"dk": "DK", "es": "ES", "fi": "FI", "fr": "FR", "gr": "GR", "hu": "HU",
	"ie": "IE", "it": "IT", "nl": "NL", "no": "NO", "pl": "PL", "pt": "PT",
	"ro": "RO", "se": "SE", "sk": "SK", "tr": "TR", "uk": "UK",
}

// defaultCurrencies backs the orchestrator's last-resort currency fill.
var defaultCurrencies = map[string]string{
	"AT": "EUR", "BE": "EUR", "DE": "EUR", "ES": "EUR", "FI": "EUR",
	"FR": "EUR", "GR": "EUR", "IE": "EUR", "IT": "EUR", "NL": "EUR",
	"PT": "EUR", "SK": "EUR",
	"BG": "BGN", "CH": "CHF", "CZ": "CZK", "DK": "DKK", "HU": "HUF",
	"NO": "NOK", "PL": "PLN", "RO": "RON", "SE": "SEK", "TR": "TRY",
	"UK": "GBP",
}

// ResolveCountry maps a hostname or full URL to a market code, applying
// the override table, then path locale hints, then the TLD map. Returns
// "UNK" when nothing matches.
func ResolveCountry(hostnameOrURL string) string {
	host, path := splitHostPath(hostnameOrURL)
	if host == "" {
		return "UNK"
	}
	if country, ok := hostCountryOverrides[host]; ok {
		return country
	}
	if m := localePathPattern.FindStringSubmatch(path); m != nil {
		if country := regionToCountry(m[2]); country != "" {
			return country
		}
	}
	if i := strings.LastIndex(host, "."); i >= 0 {
		if country, ok := tldCountries[host[i+1:]]; ok {
			return country
		}
	}
	return "UNK"
}

// DefaultCurrency returns the market's currency code, or "" for unknown
// countries. Used only when no extractor determined a currency.
func DefaultCurrency(country string) string {
	return defaultCurrencies[strings.ToUpper(country)]
}

func splitHostPath(raw string) (host, path string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ""
	}
	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", ""
		}
		return strings.ToLower(u.Hostname()), u.Path
	}
	host = raw
	if i := strings.IndexByte(raw, '/'); i >= 0 {
		host, path = raw[:i], raw[i:]
	}
	host = strings.ToLower(host)
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	return host, path
}

// regionToCountry validates the region subtag of a locale path against
// the known markets. ISO's GB folds into the UK code used everywhere else.
func regionToCountry(region string) string {
	region = strings.ToUpper(region)
	if region == "GB" {
		region = "UK"
	}
	if _, ok := defaultCurrencies[region]; ok {
		return region
	}
	return ""
}
