package scraper

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mcgogo64-cell/beautydrop-bot/helpers"
	"github.com/mcgogo64-cell/beautydrop-bot/pkg/errors"
	"github.com/mcgogo64-cell/beautydrop-bot/services/cache"
)

// BaseScraper provides common functionality for all storefront scrapers.
type BaseScraper struct {
	URL       string
	CacheKey  string
	CacheSvc  cache.CacheService
	BlockTime time.Duration
	Fetch     FetchFunc
}

// fetchWithCache fetches the configured URL with rate limiting. A cache
// hit on the block key means an earlier fetch was rate limited and the
// store must be left alone until the key expires.
func (s *BaseScraper) fetchWithCache(name string) (io.Reader, error) {
	if s.CacheSvc != nil && s.CacheKey != "" {
		if _, err := s.CacheSvc.Get(s.CacheKey); err == nil {
			return nil, errors.NewRateLimit(name, s.BlockTime)
		}
	}

	fetch := s.Fetch
	if fetch == nil {
		fetch = helpers.FetchWithRandomHeaders
	}

	body, err := fetch(s.URL)
	if err != nil {
		if s.CacheSvc != nil && s.CacheKey != "" && strings.HasPrefix(err.Error(), "rate limited") {
			s.CacheSvc.Set(s.CacheKey, []byte(fmt.Sprintf("%d", s.BlockTime/time.Second)), s.BlockTime)
		}
		return nil, errors.NewNetwork(name, "failed to fetch page", err)
	}

	return body, nil
}

// createDocument parses a page body into a goquery document.
func (s *BaseScraper) createDocument(name string, reader io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, errors.NewParsing(name, "failed to parse HTML", err)
	}
	return doc, nil
}
