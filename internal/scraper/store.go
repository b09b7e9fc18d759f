package scraper

import (
	"time"

	"github.com/mcgogo64-cell/beautydrop-bot/helpers"
	"github.com/mcgogo64-cell/beautydrop-bot/internal/extract"
	"github.com/mcgogo64-cell/beautydrop-bot/logger"
	"github.com/mcgogo64-cell/beautydrop-bot/services/cache"
)

// StoreScraper scrapes one storefront page and runs the extraction
// pipeline over it.
type StoreScraper struct {
	BaseScraper
	name     string
	store    string
	pipeline *extract.Pipeline
}

// NewStoreScraper creates a scraper for one storefront from its config.
func NewStoreScraper(config StoreConfig, cacheSvc cache.CacheService, pipeline *extract.Pipeline) *StoreScraper {
	return &StoreScraper{
		BaseScraper: BaseScraper{
			URL:       config.URL,
			CacheKey:  config.CacheKey,
			CacheSvc:  cacheSvc,
			BlockTime: time.Duration(config.BlockTime) * time.Second,
		},
		name:     config.Name,
		store:    helpers.Hostname(config.URL),
		pipeline: pipeline,
	}
}

// FetchProducts fetches the storefront page and extracts its deals.
func (s *StoreScraper) FetchProducts() ([]extract.ProductRecord, error) {
	body, err := s.fetchWithCache(s.name)
	if err != nil {
		return nil, err
	}

	doc, err := s.createDocument(s.name, body)
	if err != nil {
		return nil, err
	}

	records, count := s.pipeline.Run(doc, s.URL, s.store)
	logger.ForScraper(s.name).Debug().
		Int("records", count).
		Str("store", s.store).
		Msg("Extraction finished")

	return records, nil
}

// GetName returns the scraper's name.
func (s *StoreScraper) GetName() string {
	return s.name
}

// GetStore returns the storefront hostname.
func (s *StoreScraper) GetStore() string {
	return s.store
}
