package extract

import (
	"strings"

	"github.com/mcgogo64-cell/beautydrop-bot/helpers"
)

// Source identifies the extraction strategy that produced a record.
type Source string

const (
	SourceLDJSON       Source = "ldjson"
	SourceOG           Source = "og"
	SourceDOMMicrodata Source = "dom-microdata"
	SourceDOMVisible   Source = "dom-visible"
	SourceDOMScript    Source = "dom-script"
)

// maxNameLen bounds product names so a malformed page cannot blow up the
// published payload.
const maxNameLen = 200

// ProductRecord is the normalized output unit for one priced product
// observation. The JSON field names form the interchange contract with
// downstream consumers and must not change.
type ProductRecord struct {
	Name          string   `json:"name"`
	Brand         string   `json:"brand,omitempty"`
	PriceCurrent  *float64 `json:"priceCurrent"`
	PriceOriginal *float64 `json:"priceOriginal"`
	DiscountPct   *float64 `json:"discountPct"`
	Currency      string   `json:"currency,omitempty"`
	Availability  string   `json:"availability,omitempty"`
	URL           string   `json:"url"`
	Image         string   `json:"image,omitempty"`
	Store         string   `json:"store,omitempty"`
	Country       string   `json:"country,omitempty"`
	Source        Source   `json:"source"`
}

// cleanName normalizes scraped product names before they enter a record.
func cleanName(s string) string {
	return helpers.Truncate(helpers.CompactSpaces(s), maxNameLen)
}

// normalizeCurrency uppercases declared 3-letter currency codes; anything
// else, including multibyte symbols like "€", is passed through untouched.
func normalizeCurrency(s string) string {
	s = strings.TrimSpace(s)
	if len(s) != 3 {
		return s
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return s
		}
	}
	return strings.ToUpper(s)
}
