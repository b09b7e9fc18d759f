package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/mcgogo64-cell/beautydrop-bot/helpers"
	"github.com/mcgogo64-cell/beautydrop-bot/internal/extract"
	"github.com/mcgogo64-cell/beautydrop-bot/internal/scraper"
	"github.com/mcgogo64-cell/beautydrop-bot/services/cache"
	"github.com/mcgogo64-cell/beautydrop-bot/services/publisher"
	"github.com/mcgogo64-cell/beautydrop-bot/services/sink"
	"github.com/mcgogo64-cell/beautydrop-bot/services/worker"
)

// structuredHTML mimics a single-product page carrying JSON-LD markup.
const structuredHTML = `
<!DOCTYPE html>
<html>
<head>
    <title>Moisture Cream | Test Shop</title>
    <script type="application/ld+json">
    {
        "@context": "https://schema.org",
        "@type": "Product",
        "name": "Moisture Cream",
        "brand": {"@type": "Brand", "name": "DermaLab"},
        "image": "/img/cream.jpg",
        "offers": {
            "@type": "Offer",
            "price": 29.90,
            "priceCurrency": "EUR",
            "listPrice": 39.90,
            "availability": "https://schema.org/InStock"
        }
    }
    </script>
</head>
<body><h1>Moisture Cream</h1></body>
</html>
`

// fallbackHTML has no structured price data; only the DOM scans can read it.
const fallbackHTML = `
<!DOCTYPE html>
<html>
<head><title>Bath Oil | Test Shop</title></head>
<body>
    <div class="product">
        <div class="price-now">£12.50</div>
        <del>£15</del>
    </div>
</body>
</html>
`

// MockCacheService implements a simple in-memory cache for testing
type MockCacheService struct {
	cache map[string][]byte
}

var _ cache.CacheService = (*MockCacheService)(nil)

func NewMockCacheService() *MockCacheService {
	return &MockCacheService{cache: make(map[string][]byte)}
}

func (m *MockCacheService) Get(key string) ([]byte, error) {
	if val, ok := m.cache[key]; ok {
		return val, nil
	}
	return nil, errors.New("cache miss")
}

func (m *MockCacheService) Set(key string, value []byte, expiration time.Duration) error {
	m.cache[key] = value
	return nil
}

func (m *MockCacheService) Delete(key string) error {
	delete(m.cache, key)
	return nil
}

func newTestScraper(server *httptest.Server, path, name string) *scraper.StoreScraper {
	return scraper.NewStoreScraper(scraper.StoreConfig{
		Name:      name,
		URL:       server.URL + path,
		CacheKey:  name + "_rate_limited",
		BlockTime: 1,
	}, NewMockCacheService(), extract.NewPipeline(10))
}

func TestEndToEndStructuredExtraction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(structuredHTML))
	}))
	defer server.Close()

	s := newTestScraper(server, "/p/123", "TestShop")

	records, err := s.FetchProducts()
	assert.NoError(t, err)

	if assert.Len(t, records, 1) {
		record := records[0]
		assert.Equal(t, extract.SourceLDJSON, record.Source)
		assert.Equal(t, "Moisture Cream", record.Name)
		assert.Equal(t, "DermaLab", record.Brand)
		assert.Equal(t, "EUR", record.Currency)
		assert.Equal(t, server.URL+"/img/cream.jpg", record.Image)
		if assert.NotNil(t, record.PriceCurrent) {
			assert.InDelta(t, 29.90, *record.PriceCurrent, 0.001)
		}
		if assert.NotNil(t, record.PriceOriginal) {
			assert.InDelta(t, 39.90, *record.PriceOriginal, 0.001)
		}
		if assert.NotNil(t, record.DiscountPct) {
			assert.InDelta(t, 25.1, *record.DiscountPct, 0.001)
		}
	}
}

func TestEndToEndDOMFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(fallbackHTML))
	}))
	defer server.Close()

	s := newTestScraper(server, "/p/3", "TestShop")

	records, err := s.FetchProducts()
	assert.NoError(t, err)

	if assert.Len(t, records, 1) {
		record := records[0]
		assert.Equal(t, extract.SourceDOMVisible, record.Source)
		assert.Equal(t, "GBP", record.Currency)
		if assert.NotNil(t, record.PriceCurrent) {
			assert.InDelta(t, 12.50, *record.PriceCurrent, 0.001)
		}
		if assert.NotNil(t, record.PriceOriginal) {
			assert.InDelta(t, 15.0, *record.PriceOriginal, 0.001)
		}
		if assert.NotNil(t, record.DiscountPct) {
			assert.InDelta(t, 16.7, *record.DiscountPct, 0.001)
		}
	}
}

func TestEndToEndWorkerCycle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(structuredHTML))
	}))
	defer server.Close()

	mr := miniredis.RunT(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pub := publisher.NewRedisPublisher(ctx, mr.Addr(), 0, "test_deals", 1, 100)
	defer pub.Close()

	snapshotDir := t.TempDir()
	snapshotSink := sink.NewJSONSink(snapshotDir)

	scrapers := []scraper.Scraper{newTestScraper(server, "/p/123", "TestShop")}
	w := worker.NewWorker(ctx, scrapers, pub, snapshotSink,
		helpers.NewLogger(filepath.Join(snapshotDir, "errors.log")), time.Hour)

	done := make(chan struct{})
	go func() {
		w.Start()
		close(done)
	}()

	// The first cycle runs immediately; give it a moment, then stop.
	time.Sleep(300 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}

	// The record must have landed on the stream as base64 JSON.
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	messages, err := client.XRange(context.Background(), "test_deals:0", "-", "+").Result()
	assert.NoError(t, err)
	if assert.NotEmpty(t, messages) {
		var encoded string
		for _, value := range messages[0].Values {
			encoded = value.(string)
		}
		decoded, err := base64.StdEncoding.DecodeString(encoded)
		assert.NoError(t, err)

		var record map[string]interface{}
		assert.NoError(t, json.Unmarshal(decoded, &record))
		assert.Equal(t, "Moisture Cream", record["name"])
		assert.Equal(t, 29.90, record["priceCurrent"])
		assert.Equal(t, "ldjson", record["source"])
	}

	// And the snapshot files must exist with the same record.
	data, err := os.ReadFile(filepath.Join(snapshotDir, "latest.json"))
	assert.NoError(t, err)

	var snapshot []map[string]interface{}
	assert.NoError(t, json.Unmarshal(data, &snapshot))
	if assert.Len(t, snapshot, 1) {
		assert.Equal(t, "Moisture Cream", snapshot[0]["name"])
	}
}
