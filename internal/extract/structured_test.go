package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	assert.NoError(t, err)
	return doc
}

func TestExtractJSONLDProduct(t *testing.T) {
	html := `<html><head><script type="application/ld+json">
	{
		"@context": "https://schema.org",
		"@type": "Product",
		"name": "Moisture Cream",
		"brand": {"name": "DermaLab"},
		"image": "https://cdn.example.de/img/123.jpg",
		"url": "https://shop.example.de/p/123",
		"offers": {
			"@type": "Offer",
			"price": 29.90,
			"priceCurrency": "EUR",
			"listPrice": 39.90,
			"availability": "https://schema.org/InStock"
		}
	}
	</script></head><body></body></html>`

	records := ExtractStructured(mustDoc(t, html), "https://shop.example.de/p/123")

	if assert.Len(t, records, 1) {
		record := records[0]
		assert.Equal(t, "Moisture Cream", record.Name)
		assert.Equal(t, "DermaLab", record.Brand)
		assert.Equal(t, SourceLDJSON, record.Source)
		assert.Equal(t, "https://shop.example.de/p/123", record.URL)
		assert.Equal(t, "EUR", record.Currency)
		if assert.NotNil(t, record.PriceCurrent) {
			assert.InDelta(t, 29.90, *record.PriceCurrent, 0.001)
		}
		if assert.NotNil(t, record.PriceOriginal) {
			assert.InDelta(t, 39.90, *record.PriceOriginal, 0.001)
		}
		if assert.NotNil(t, record.DiscountPct) {
			assert.InDelta(t, 25.1, *record.DiscountPct, 0.001)
		}
		assert.Equal(t, "https://schema.org/InStock", record.Availability)
	}
}

func TestExtractJSONLDStringPriceAndTypeList(t *testing.T) {
	// Sites encode price as a locale string and @type as a list just as
	// often as the clean form.
	html := `<script type="application/ld+json">
	{
		"@type": ["Product", "Thing"],
		"name": "Lip Balm",
		"offers": [{"price": "4,99", "priceCurrency": "eur"}]
	}
	</script>`

	records := ExtractStructured(mustDoc(t, html), "https://shop.example.de/p/7")

	if assert.Len(t, records, 1) {
		assert.Equal(t, "EUR", records[0].Currency)
		if assert.NotNil(t, records[0].PriceCurrent) {
			assert.InDelta(t, 4.99, *records[0].PriceCurrent, 0.001)
		}
		assert.Nil(t, records[0].PriceOriginal)
	}
}

func TestExtractJSONLDGraphWrapper(t *testing.T) {
	html := `<script type="application/ld+json">
	{
		"@context": "https://schema.org",
		"@graph": [
			{"@type": "WebPage", "name": "ignored"},
			{"@type": "Product", "name": "Serum", "offers": {"price": 18.50, "priceCurrency": "EUR"}}
		]
	}
	</script>`

	records := ExtractStructured(mustDoc(t, html), "https://shop.example.de/p/9")

	if assert.Len(t, records, 1) {
		assert.Equal(t, "Serum", records[0].Name)
	}
}

func TestExtractJSONLDZeroOffersYieldsUnpricedRecord(t *testing.T) {
	html := `<script type="application/ld+json">
	{"@type": "Product", "name": "Mystery Box"}
	</script>`

	records := ExtractStructured(mustDoc(t, html), "https://shop.example.de/p/0")

	if assert.Len(t, records, 1) {
		assert.Equal(t, "Mystery Box", records[0].Name)
		assert.Nil(t, records[0].PriceCurrent)
		assert.Nil(t, records[0].PriceOriginal)
		assert.Nil(t, records[0].DiscountPct)
	}
}

func TestExtractJSONLDInvertedListPriceDropped(t *testing.T) {
	html := `<script type="application/ld+json">
	{"@type": "Product", "name": "Mask", "offers": {"price": 20, "listPrice": 20, "priceCurrency": "EUR"}}
	</script>`

	records := ExtractStructured(mustDoc(t, html), "https://shop.example.de/p/5")

	if assert.Len(t, records, 1) {
		assert.Nil(t, records[0].PriceOriginal)
		assert.Nil(t, records[0].DiscountPct)
	}
}

func TestExtractJSONLDMalformedBlockSkipped(t *testing.T) {
	html := `<script type="application/ld+json">{not json at all</script>
	<script type="application/ld+json">
	{"@type": "Product", "name": "Valid", "offers": {"price": 5, "priceCurrency": "EUR"}}
	</script>`

	records := ExtractStructured(mustDoc(t, html), "https://shop.example.de/p/1")

	if assert.Len(t, records, 1) {
		assert.Equal(t, "Valid", records[0].Name)
	}
}

func TestExtractMetaTags(t *testing.T) {
	html := `<html><head>
	<meta property="og:title" content="Nail Polish  Ruby " />
	<meta property="og:image" content="/img/ruby.jpg" />
	<meta property="product:price:amount" content="7,95" />
	<meta property="product:price:currency" content="EUR" />
	</head></html>`

	records := ExtractStructured(mustDoc(t, html), "https://shop.example.de/p/44")

	if assert.Len(t, records, 1) {
		record := records[0]
		assert.Equal(t, SourceOG, record.Source)
		assert.Equal(t, "Nail Polish Ruby", record.Name)
		assert.Equal(t, "EUR", record.Currency)
		assert.Equal(t, "https://shop.example.de/img/ruby.jpg", record.Image)
		if assert.NotNil(t, record.PriceCurrent) {
			assert.InDelta(t, 7.95, *record.PriceCurrent, 0.001)
		}
	}
}

func TestExtractMetaTagsCurrencyInferredFromAmount(t *testing.T) {
	html := `<meta property="og:price:amount" content="£12.50" />`

	records := ExtractStructured(mustDoc(t, html), "https://shop.example.co.uk/p/2")

	if assert.Len(t, records, 1) {
		assert.Equal(t, "GBP", records[0].Currency)
		if assert.NotNil(t, records[0].PriceCurrent) {
			assert.InDelta(t, 12.50, *records[0].PriceCurrent, 0.001)
		}
	}
}

func TestResolveURL(t *testing.T) {
	page := "https://shop.example.de/de/p/123"

	testCases := []struct {
		ref      string
		expected string
	}{
		{"https://cdn.example.de/a.jpg", "https://cdn.example.de/a.jpg"},
		{"/img/a.jpg", "https://shop.example.de/img/a.jpg"},
		{"//cdn.example.de/a.jpg", "https://cdn.example.de/a.jpg"},
		{"", ""},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, ResolveURL(tc.ref, page), "ref %q", tc.ref)
	}
}
