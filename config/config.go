package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	// Redis configuration
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int

	// Memcache configuration
	MemcacheAddr string

	// Scrape configuration
	ScrapeInterval     time.Duration
	MaxRecordsPerStore int

	// Snapshot and error log destinations
	SnapshotDir  string
	ErrorLogFile string

	// Deal page URLs for the storefront scrapers
	DouglasURL       string
	FlaconiURL       string
	NotinoURL        string
	LookfantasticURL string
	GratisURL        string
	KikoURL          string
	SephoraURL       string

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() *Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	streamCount, _ := strconv.Atoi(getEnv("REDIS_STREAM_COUNT", "1"))
	streamMaxLength, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "500"))
	scrapeInterval, _ := strconv.Atoi(getEnv("SCRAPE_INTERVAL_SECONDS", "300"))
	maxRecords, _ := strconv.Atoi(getEnv("MAX_RECORDS_PER_STORE", "50"))

	return &Config{
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "beautydeals"),
		RedisStreamCount:     streamCount,
		RedisStreamMaxLength: streamMaxLength,
		MemcacheAddr:         getEnv("MEMCACHE_ADDR", "localhost:11211"),
		ScrapeInterval:       time.Duration(scrapeInterval) * time.Second,
		MaxRecordsPerStore:   maxRecords,
		SnapshotDir:          getEnv("SNAPSHOT_DIR", "./snapshots"),
		ErrorLogFile:         getEnv("ERROR_LOG_FILE", "./scraper_errors.log"),
		DouglasURL:           getEnv("DOUGLAS_URL", "https://www.douglas.de/de/c/sale/01"),
		FlaconiURL:           getEnv("FLACONI_URL", "https://www.flaconi.de/sale/"),
		NotinoURL:            getEnv("NOTINO_URL", "https://www.notino.de/sale/"),
		LookfantasticURL:     getEnv("LOOKFANTASTIC_URL", "https://www.lookfantastic.com/offers.list"),
		GratisURL:            getEnv("GRATIS_URL", "https://www.gratis.com/kampanyalar"),
		KikoURL:              getEnv("KIKO_URL", "https://www.kikocosmetics.com/es-es/ofertas.html"),
		SephoraURL:           getEnv("SEPHORA_URL", "https://www.sephora.es/ofertas/"),
		Environment:          getEnv("BEAUTYDROP_ENVIRONMENT", "development"),
	}
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.RedisAddr == "" {
		return fmt.Errorf("redis address must not be empty")
	}
	if c.MemcacheAddr == "" {
		return fmt.Errorf("memcache address must not be empty")
	}
	if c.RedisStreamCount <= 0 {
		return fmt.Errorf("redis stream count must be positive, got %d", c.RedisStreamCount)
	}
	if c.RedisStreamMaxLength <= 0 {
		return fmt.Errorf("redis stream max length must be positive, got %d", c.RedisStreamMaxLength)
	}
	if c.ScrapeInterval <= 0 {
		return fmt.Errorf("scrape interval must be positive, got %v", c.ScrapeInterval)
	}
	if c.MaxRecordsPerStore <= 0 {
		return fmt.Errorf("max records per store must be positive, got %d", c.MaxRecordsPerStore)
	}
	if c.SnapshotDir == "" {
		return fmt.Errorf("snapshot directory must not be empty")
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
