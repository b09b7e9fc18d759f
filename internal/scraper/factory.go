package scraper

import (
	"github.com/mcgogo64-cell/beautydrop-bot/config"
	"github.com/mcgogo64-cell/beautydrop-bot/internal/extract"
	"github.com/mcgogo64-cell/beautydrop-bot/logger"
	"github.com/mcgogo64-cell/beautydrop-bot/services/cache"
)

// CreateScrapers builds all storefront scrapers from the configuration.
// Every scraper shares one pipeline and one rate-limit cache.
func CreateScrapers(cfg *config.Config, cacheSvc cache.CacheService) []Scraper {
	pipeline := extract.NewPipeline(cfg.MaxRecordsPerStore)

	configurations := []StoreConfig{
		{
			Name:      "Douglas",
			URL:       cfg.DouglasURL,
			CacheKey:  "douglas_rate_limited",
			BlockTime: 500,
		},
		{
			Name:      "Flaconi",
			URL:       cfg.FlaconiURL,
			CacheKey:  "flaconi_rate_limited",
			BlockTime: 500,
		},
		{
			Name:      "Notino",
			URL:       cfg.NotinoURL,
			CacheKey:  "notino_rate_limited",
			BlockTime: 500,
		},
		{
			// .com storefront serving the UK market; the country resolver
			// carries an explicit host override for it.
			Name:      "Lookfantastic",
			URL:       cfg.LookfantasticURL,
			CacheKey:  "lookfantastic_rate_limited",
			BlockTime: 500,
		},
		{
			// Turkish storefront on a .com domain, also override-resolved.
			Name:      "Gratis",
			URL:       cfg.GratisURL,
			CacheKey:  "gratis_rate_limited",
			BlockTime: 500,
		},
		{
			// Multi-market domain; the market comes from the /es-es/ path.
			Name:      "Kiko",
			URL:       cfg.KikoURL,
			CacheKey:  "kiko_rate_limited",
			BlockTime: 500,
		},
		{
			Name:      "Sephora",
			URL:       cfg.SephoraURL,
			CacheKey:  "sephora_rate_limited",
			BlockTime: 500,
		},
	}

	scrapers := make([]Scraper, 0, len(configurations))
	for _, configuration := range configurations {
		if configuration.URL == "" {
			continue
		}
		scrapers = append(scrapers, NewStoreScraper(configuration, cacheSvc, pipeline))
	}

	logger.Info("Created %d store scrapers", len(scrapers))
	return scrapers
}
