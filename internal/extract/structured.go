package extract

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractStructured scans the document for embedded product markup:
// JSON-LD Product nodes first, then OpenGraph/product meta tags. Malformed
// blocks are skipped; an empty result is a normal outcome.
func ExtractStructured(doc *goquery.Document, finalURL string) []ProductRecord {
	records := extractJSONLD(doc, finalURL)
	records = append(records, extractMetaTags(doc, finalURL)...)
	return records
}

// extractJSONLD walks every application/ld+json block looking for
// schema.org Product nodes, at the top level, inside arrays, or under
// an @graph key.
func extractJSONLD(doc *goquery.Document, finalURL string) []ProductRecord {
	var records []ProductRecord

	doc.Find("script[type='application/ld+json']").Each(func(_ int, s *goquery.Selection) {
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return
		}
		for _, node := range decodeLDNodes(raw) {
			if !isProductNode(node) {
				continue
			}
			records = append(records, productFromLDNode(node, finalURL)...)
		}
	})

	return records
}

// decodeLDNodes parses a JSON-LD block into its candidate object nodes.
// A block may hold a single object, an array of objects, or a wrapper
// with an @graph list. Unparseable blocks yield nothing.
func decodeLDNodes(raw string) []map[string]interface{} {
	var nodes []map[string]interface{}

	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &obj); err == nil {
		nodes = append(nodes, obj)
		if graph, ok := obj["@graph"].([]interface{}); ok {
			for _, entry := range graph {
				if m, ok := entry.(map[string]interface{}); ok {
					nodes = append(nodes, m)
				}
			}
		}
		return nodes
	}

	var arr []interface{}
	if err := json.Unmarshal([]byte(raw), &arr); err == nil {
		for _, entry := range arr {
			if m, ok := entry.(map[string]interface{}); ok {
				nodes = append(nodes, m)
			}
		}
	}
	return nodes
}

// isProductNode reports whether a JSON-LD node is typed as a Product.
// The @type field may be a single string or a list of types.
func isProductNode(node map[string]interface{}) bool {
	switch t := node["@type"].(type) {
	case string:
		return strings.EqualFold(t, "Product")
	case []interface{}:
		for _, entry := range t {
			if s, ok := entry.(string); ok && strings.EqualFold(s, "Product") {
				return true
			}
		}
	}
	return false
}

// productFromLDNode builds records from one Product node, one per offer.
// A product with no offers still yields a single unpriced record so the
// orchestrator can tell "product found, no price" from "nothing found".
func productFromLDNode(node map[string]interface{}, finalURL string) []ProductRecord {
	base := ProductRecord{
		Name:   cleanName(ldString(node["name"])),
		Brand:  ldNestedString(node["brand"], "name"),
		Image:  ResolveURL(ldImage(node["image"]), finalURL),
		URL:    finalURL,
		Source: SourceLDJSON,
	}
	if u := ldString(node["url"]); u != "" {
		base.URL = ResolveURL(u, finalURL)
	}

	offers := ldOffers(node["offers"])
	if len(offers) == 0 {
		return []ProductRecord{base}
	}

	var records []ProductRecord
	for _, offer := range offers {
		record := base
		record.PriceCurrent = ldPrice(offer["price"])
		if record.PriceCurrent == nil {
			record.PriceCurrent = ldPrice(offer["lowPrice"])
		}
		record.Currency = normalizeCurrency(ldString(offer["priceCurrency"]))
		record.Availability = ldString(offer["availability"])

		// listPrice/highPrice count as a previous price only when the
		// offer is actually cheaper.
		for _, key := range []string{"listPrice", "highPrice"} {
			if original := ldPrice(offer[key]); original != nil &&
				record.PriceCurrent != nil && *original > *record.PriceCurrent {
				record.PriceOriginal = original
				break
			}
		}
		record.DiscountPct = ComputeDiscount(record.PriceCurrent, record.PriceOriginal)
		records = append(records, record)
	}
	return records
}

// ldOffers flattens the offers field, which may be a single Offer object
// or an array of them.
func ldOffers(v interface{}) []map[string]interface{} {
	switch offers := v.(type) {
	case map[string]interface{}:
		return []map[string]interface{}{offers}
	case []interface{}:
		var result []map[string]interface{}
		for _, entry := range offers {
			if m, ok := entry.(map[string]interface{}); ok {
				result = append(result, m)
			}
		}
		return result
	}
	return nil
}

// ldPrice reads a price that sites encode either as a JSON number or as a
// locale-formatted string.
func ldPrice(v interface{}) *float64 {
	switch price := v.(type) {
	case float64:
		p := price
		return &p
	case string:
		return ParseLocalizedNumber(price)
	}
	return nil
}

// ldString reads a field that should be a string but may be absent or a
// non-string value.
func ldString(v interface{}) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// ldNestedString reads a field that is either a plain string or an object
// carrying the value under the given key (e.g. brand vs {"name": ...}).
func ldNestedString(v interface{}, key string) string {
	switch value := v.(type) {
	case string:
		return strings.TrimSpace(value)
	case map[string]interface{}:
		return ldString(value[key])
	}
	return ""
}

// ldImage reads the image field: a URL string, a list of URL strings, or
// an ImageObject with a url key.
func ldImage(v interface{}) string {
	switch img := v.(type) {
	case string:
		return strings.TrimSpace(img)
	case []interface{}:
		for _, entry := range img {
			if s := ldImage(entry); s != "" {
				return s
			}
		}
	case map[string]interface{}:
		return ldString(img["url"])
	}
	return ""
}

// extractMetaTags reads the OpenGraph/product meta tags single-product
// pages carry. A price-amount tag is required; without one there is no
// record. Currency comes from the currency tag, else from the amount text.
func extractMetaTags(doc *goquery.Document, finalURL string) []ProductRecord {
	amountText := metaContent(doc,
		"meta[property='product:price:amount']",
		"meta[property='og:price:amount']",
	)
	if amountText == "" {
		return nil
	}
	price := ParseLocalizedNumber(amountText)
	if price == nil {
		return nil
	}

	currency := normalizeCurrency(metaContent(doc,
		"meta[property='product:price:currency']",
		"meta[property='og:price:currency']",
	))
	if currency == "" {
		currency = DetectCurrency(amountText)
	}

	record := ProductRecord{
		Name:         cleanName(metaContent(doc, "meta[property='og:title']")),
		PriceCurrent: price,
		Currency:     currency,
		Image:        ResolveURL(metaContent(doc, "meta[property='og:image']"), finalURL),
		URL:          finalURL,
		Availability: metaContent(doc, "meta[property='product:availability']"),
		Source:       SourceOG,
	}
	if u := metaContent(doc, "meta[property='og:url']"); u != "" {
		record.URL = ResolveURL(u, finalURL)
	}
	return []ProductRecord{record}
}

// metaContent returns the content attribute of the first selector that
// matches a non-empty tag.
func metaContent(doc *goquery.Document, selectors ...string) string {
	for _, selector := range selectors {
		if content, ok := doc.Find(selector).First().Attr("content"); ok {
			if c := strings.TrimSpace(content); c != "" {
				return c
			}
		}
	}
	return ""
}

// ResolveURL resolves a possibly relative reference against the page URL.
// Protocol-relative references inherit the page scheme. Unresolvable
// input is returned as given.
func ResolveURL(ref, pageURL string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}
