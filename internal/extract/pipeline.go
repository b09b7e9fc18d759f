package extract

import (
	"github.com/PuerkitoBio/goquery"
)

// DefaultMaxRecords caps the records returned for one page.
const DefaultMaxRecords = 50

// Pipeline runs the extraction cascade for one page snapshot. It holds
// only immutable configuration, so a single value is safe for concurrent
// use across scraper goroutines.
type Pipeline struct {
	maxRecords int
}

// NewPipeline creates a pipeline with the given per-page record cap.
// A non-positive cap falls back to DefaultMaxRecords.
func NewPipeline(maxRecords int) *Pipeline {
	if maxRecords <= 0 {
		maxRecords = DefaultMaxRecords
	}
	return &Pipeline{maxRecords: maxRecords}
}

// Run extracts product records from a page. Structured markup is tried
// first; the DOM fallback runs only when no structured record carries a
// price. Surviving records are tagged with store and country, filled with
// the market's default currency when no extractor found one, deduplicated,
// filtered down to priced records with a name and URL, and capped.
// Returns the records and their count for reporting.
func (p *Pipeline) Run(doc *goquery.Document, finalURL, hostname string) ([]ProductRecord, int) {
	records := ExtractStructured(doc, finalURL)
	if !hasPricedRecord(records) {
		records = append(records, ExtractDOMFallback(doc, finalURL)...)
	}

	country := ResolveCountry(finalURL)
	if country == "UNK" {
		country = ResolveCountry(hostname)
	}
	fallbackCurrency := DefaultCurrency(country)

	for i := range records {
		records[i].Store = hostname
		records[i].Country = country
		if records[i].Currency == "" {
			records[i].Currency = fallbackCurrency
		}
	}

	records = Dedupe(records)

	// Priced-deals-only policy: unpriced records exist internally to steer
	// the fallback decision above but never leave the pipeline.
	kept := records[:0]
	for _, record := range records {
		if record.Name == "" || record.URL == "" || record.PriceCurrent == nil {
			continue
		}
		kept = append(kept, record)
	}
	if len(kept) > p.maxRecords {
		kept = kept[:p.maxRecords]
	}
	return kept, len(kept)
}

// hasPricedRecord reports whether any record carries a current price,
// the condition that keeps the DOM fallback from running.
func hasPricedRecord(records []ProductRecord) bool {
	for _, record := range records {
		if record.PriceCurrent != nil {
			return true
		}
	}
	return false
}
