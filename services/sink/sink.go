package sink

import "github.com/mcgogo64-cell/beautydrop-bot/internal/extract"

// Sink represents a destination for per-cycle deal snapshots
type Sink interface {
	// WriteSnapshot persists one scrape cycle's records
	WriteSnapshot(records []extract.ProductRecord) error
}
