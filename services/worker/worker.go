package worker

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/mcgogo64-cell/beautydrop-bot/helpers"
	"github.com/mcgogo64-cell/beautydrop-bot/internal/extract"
	"github.com/mcgogo64-cell/beautydrop-bot/internal/scraper"
	"github.com/mcgogo64-cell/beautydrop-bot/services/publisher"
	"github.com/mcgogo64-cell/beautydrop-bot/services/sink"
)

// Worker handles the scraping, publishing and snapshot process
type Worker struct {
	ctx            context.Context
	scrapers       []scraper.Scraper
	publisher      publisher.Publisher
	sink           sink.Sink
	logger         helpers.LoggerInterface
	scrapeInterval time.Duration
}

// NewWorker creates a new worker
func NewWorker(
	ctx context.Context,
	scrapers []scraper.Scraper,
	pub publisher.Publisher,
	snapshotSink sink.Sink,
	logger helpers.LoggerInterface,
	scrapeInterval time.Duration,
) *Worker {
	return &Worker{
		ctx:            ctx,
		scrapers:       scrapers,
		publisher:      pub,
		sink:           snapshotSink,
		logger:         logger,
		scrapeInterval: scrapeInterval,
	}
}

// Start runs scrape cycles until the context is cancelled. The first
// cycle starts immediately.
func (w *Worker) Start() {
	ticker := time.NewTicker(w.scrapeInterval)
	defer ticker.Stop()

	for {
		start := time.Now()
		w.runCycle()
		if os.Getenv("BEAUTYDROP_ENVIRONMENT") != "production" {
			w.logger.LogInfo("scrape cycle took %s", time.Since(start))
		}

		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// runCycle runs all scrapers in parallel, writes the cycle snapshot and
// trims the deal streams.
func (w *Worker) runCycle() {
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		cycle []extract.ProductRecord
	)

	for _, s := range w.scrapers {
		wg.Add(1)
		go func(s scraper.Scraper) {
			defer wg.Done()
			records := w.scrapeAndPublish(s)
			if len(records) == 0 {
				return
			}
			mu.Lock()
			cycle = append(cycle, records...)
			mu.Unlock()
		}(s)
	}
	wg.Wait()

	if err := w.sink.WriteSnapshot(cycle); err != nil {
		w.logger.LogError("Snapshot", err)
	}

	if err := w.publisher.TrimStreams(); err != nil {
		w.logger.LogError("StreamTrimming", err)
	}
}

// scrapeAndPublish fetches one store's records and publishes each of them
func (w *Worker) scrapeAndPublish(s scraper.Scraper) []extract.ProductRecord {
	name := s.GetName()

	records, err := s.FetchProducts()
	if err != nil {
		w.logger.LogError(name, err)
		return nil
	}

	for i, record := range records {
		data, err := json.Marshal(record)
		if err != nil {
			w.logger.LogError(name, err)
			return records
		}

		if err := w.publisher.Publish(s.GetStore(), data); err != nil {
			w.logger.LogError(name, err)
		}

		// Log only the first record per store outside production
		if i == 0 && os.Getenv("BEAUTYDROP_ENVIRONMENT") != "production" {
			w.logger.LogInfo("scraped deal: %s", string(data))
		}
	}
	return records
}
