package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// visiblePriceSelectors lists the class conventions storefront themes use
// for the current selling price, most specific first.
var visiblePriceSelectors = []string{
	"[data-price]",
	".price-now",
	".price__current",
	".current-price",
	".price--current",
	".price-sales",
	".sales-price",
	".product-price",
	".price",
}

// oldPriceSelectors matches the struck-through "was" price conventions:
// dedicated classes first, then the plain strike tags.
var oldPriceSelectors = []string{
	".price-old",
	".old-price",
	".was-price",
	".price--old",
	".price__strike",
	".strike-through",
	".price-was",
	"del",
	"s",
	"strike",
}

var (
	scriptPricePattern    = regexp.MustCompile(`"price"\s*:\s*"?([0-9][0-9.,]*)"?`)
	scriptCurrencyPattern = regexp.MustCompile(`"priceCurrency"\s*:\s*"([A-Za-z]{3})"`)
)

// ExtractDOMFallback runs the four heuristic scans against a rendered
// document: microdata attributes, visible price-like elements, embedded
// script JSON, and struck-through previous prices. It is invoked only
// when structured markup yielded no priced record. All four scans always
// run; their candidates are concatenated in scan order.
func ExtractDOMFallback(doc *goquery.Document, finalURL string) []ProductRecord {
	var records []ProductRecord
	records = append(records, scanMicrodata(doc, finalURL)...)
	records = append(records, scanVisiblePrices(doc, finalURL)...)
	records = append(records, scanScriptJSON(doc, finalURL)...)
	backfillPreviousPrice(doc, records)
	return records
}

// pageName supplies a product name for DOM-derived candidates, which have
// no structured name of their own: og:title first, then the page title.
func pageName(doc *goquery.Document) string {
	if title := metaContent(doc, "meta[property='og:title']"); title != "" {
		return cleanName(title)
	}
	return cleanName(doc.Find("title").First().Text())
}

// scanMicrodata reads itemprop price annotations. The content attribute
// wins over the element text; the currency comes from a priceCurrency
// sibling annotation or is inferred from the price text.
func scanMicrodata(doc *goquery.Document, finalURL string) []ProductRecord {
	name := pageName(doc)

	currency := ""
	doc.Find("[itemprop='priceCurrency']").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if content, ok := s.Attr("content"); ok && strings.TrimSpace(content) != "" {
			currency = normalizeCurrency(content)
		} else if text := strings.TrimSpace(s.Text()); text != "" {
			currency = normalizeCurrency(text)
		}
		return currency == ""
	})

	var records []ProductRecord
	doc.Find("[itemprop='price']").Each(func(_ int, s *goquery.Selection) {
		text, ok := s.Attr("content")
		if !ok || strings.TrimSpace(text) == "" {
			text = s.Text()
		}
		price := ParseLocalizedNumber(text)
		if price == nil {
			return
		}
		recordCurrency := currency
		if recordCurrency == "" {
			recordCurrency = DetectCurrency(text)
		}
		records = append(records, ProductRecord{
			Name:         name,
			PriceCurrent: price,
			Currency:     recordCurrency,
			URL:          finalURL,
			Source:       SourceDOMMicrodata,
		})
	})
	return records
}

// scanVisiblePrices walks the price-like class selectors in order and
// keeps the first element that parses, then falls back to the social meta
// amount tag. Currency is inferred from the matched text, else from the
// meta currency tag.
func scanVisiblePrices(doc *goquery.Document, finalURL string) []ProductRecord {
	name := pageName(doc)
	metaCurrency := normalizeCurrency(metaContent(doc,
		"meta[property='product:price:currency']",
		"meta[property='og:price:currency']",
	))

	for _, selector := range visiblePriceSelectors {
		var found *ProductRecord
		doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			text := s.Text()
			if attr, ok := s.Attr("data-price"); ok && strings.TrimSpace(attr) != "" {
				text = attr
			}
			price := ParseLocalizedNumber(text)
			if price == nil {
				return true
			}
			currency := DetectCurrency(s.Text())
			if currency == "" {
				currency = metaCurrency
			}
			found = &ProductRecord{
				Name:         name,
				PriceCurrent: price,
				Currency:     currency,
				URL:          finalURL,
				Source:       SourceDOMVisible,
			}
			return false
		})
		if found != nil {
			return []ProductRecord{*found}
		}
	}

	// Social meta amount as the last visible-scan resort.
	if amount := metaContent(doc, "meta[property='product:price:amount']", "meta[property='og:price:amount']"); amount != "" {
		if price := ParseLocalizedNumber(amount); price != nil {
			currency := metaCurrency
			if currency == "" {
				currency = DetectCurrency(amount)
			}
			return []ProductRecord{{
				Name:         name,
				PriceCurrent: price,
				Currency:     currency,
				URL:          finalURL,
				Source:       SourceDOMVisible,
			}}
		}
	}
	return nil
}

// scanScriptJSON pattern-matches inline script bodies for a "price" key
// with an adjacent "priceCurrency" key. The surrounding script is rarely
// valid standalone JSON, so this is a text search, not a parse.
func scanScriptJSON(doc *goquery.Document, finalURL string) []ProductRecord {
	name := pageName(doc)

	var records []ProductRecord
	doc.Find("script:not([src])").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if t, ok := s.Attr("type"); ok && strings.EqualFold(t, "application/ld+json") {
			return true // structured path owns these
		}
		body := s.Text()
		priceMatch := scriptPricePattern.FindStringSubmatch(body)
		if priceMatch == nil {
			return true
		}
		price := ParseLocalizedNumber(priceMatch[1])
		if price == nil {
			return true
		}
		currency := ""
		if m := scriptCurrencyPattern.FindStringSubmatch(body); m != nil {
			currency = normalizeCurrency(m[1])
		}
		records = append(records, ProductRecord{
			Name:         name,
			PriceCurrent: price,
			Currency:     currency,
			URL:          finalURL,
			Source:       SourceDOMScript,
		})
		return false
	})
	return records
}

// backfillPreviousPrice finds the page's struck-through "was" price and
// attaches it to every candidate that lacks its own, recomputing the
// discount. The first numeric value above zero is taken as the single
// page-wide previous price.
func backfillPreviousPrice(doc *goquery.Document, records []ProductRecord) {
	var previous *float64
	for _, selector := range oldPriceSelectors {
		doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if price := ParseLocalizedNumber(s.Text()); price != nil && *price > 0 {
				previous = price
				return false
			}
			return true
		})
		if previous != nil {
			break
		}
	}
	if previous == nil {
		return
	}

	for i := range records {
		record := &records[i]
		if record.PriceOriginal != nil || record.PriceCurrent == nil {
			continue
		}
		if *previous <= *record.PriceCurrent {
			continue
		}
		record.PriceOriginal = previous
		record.DiscountPct = ComputeDiscount(record.PriceCurrent, record.PriceOriginal)
	}
}
