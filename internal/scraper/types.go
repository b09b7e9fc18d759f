package scraper

import (
	"io"

	"github.com/mcgogo64-cell/beautydrop-bot/internal/extract"
)

// Scraper is the contract for all storefront scraper implementations.
type Scraper interface {
	// FetchProducts retrieves normalized product records from a storefront page
	FetchProducts() ([]extract.ProductRecord, error)

	// GetName returns the scraper's name for logging and identification
	GetName() string

	// GetStore returns the storefront hostname records are tagged with
	GetStore() string
}

// FetchFunc fetches a page body as a UTF-8 reader. Tests inject their own.
type FetchFunc func(url string) (io.Reader, error)

// StoreConfig contains configuration for one storefront scraper.
type StoreConfig struct {
	Name      string // scraper name for logging
	URL       string // deal/sale page to scrape
	CacheKey  string // rate-limit cache key
	BlockTime int    // rate-limit block time in seconds
}
