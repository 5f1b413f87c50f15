package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultProductID       = "B0CLTBHXWQ"
	DefaultBaseURL         = "https://www.amazon.fr"
	DefaultPriceSelector   = "span.a-price-whole"
	DefaultChallengeMarker = "Essayez une autre image"
	DefaultConsentLabel    = "Accepter"
	DefaultLedgerPath      = "prices.json"
	DefaultLogPath         = "logs/debug.log"
	DefaultNavTimeout      = 30 * time.Second
	DefaultSettleInterval  = time.Second

	FetcherChrome = "chrome"
	FetcherHTTP   = "http"
)

// Config holds everything one price-check run needs. Pushover credentials
// are intentionally not part of it; they come straight from the environment
// (PUSHOVER_TOKEN, PUSHOVER_USER), optionally loaded from a .env file.
type Config struct {
	ProductID       string
	BaseURL         string
	PriceSelector   string
	ChallengeMarker string
	ConsentLabel    string
	Fetcher         string
	Headless        bool
	NavTimeout      time.Duration
	SettleInterval  time.Duration
	LedgerPath      string
	LogPath         string
	Setup           bool
}

type configTmp struct {
	ProductID       string        `yaml:"product_id"`
	BaseURL         string        `yaml:"base_url"`
	PriceSelector   string        `yaml:"price_selector"`
	ChallengeMarker string        `yaml:"challenge_marker"`
	ConsentLabel    string        `yaml:"consent_label"`
	Fetcher         string        `yaml:"fetcher"`
	Headless        *bool         `yaml:"headless"`
	NavTimeout      time.Duration `yaml:"nav_timeout"`
	SettleInterval  time.Duration `yaml:"settle_interval"`
	LedgerPath      string        `yaml:"ledger_path"`
	LogPath         string        `yaml:"log_path"`
}

// Get reads configuration from a yaml file when --config is provided,
// otherwise from CLI flags. A .env file in the working directory is loaded
// first so that Pushover secrets can live next to the binary.
func Get() (Config, error) {
	_ = godotenv.Load()

	configPath := flag.String("config", "", "path to yaml config")
	setup := flag.Bool("setup", false, "run the interactive configuration wizard and exit")
	product := flag.String("product", DefaultProductID, "product identifier (ASIN), example: B0CLTBHXWQ")
	baseURL := flag.String("baseurl", DefaultBaseURL, "retailer base URL")
	fetcherKind := flag.String("fetcher", FetcherChrome, "page fetcher to use: chrome or http")
	headless := flag.Bool("headless", true, "run the browser headless")
	ledgerPath := flag.String("ledger", DefaultLedgerPath, "path to the price history file")
	logPath := flag.String("log", DefaultLogPath, "path to the log file, empty disables file logging")
	flag.Parse()

	cfg := Config{
		ProductID:       *product,
		BaseURL:         *baseURL,
		PriceSelector:   DefaultPriceSelector,
		ChallengeMarker: DefaultChallengeMarker,
		ConsentLabel:    DefaultConsentLabel,
		Fetcher:         *fetcherKind,
		Headless:        *headless,
		NavTimeout:      DefaultNavTimeout,
		SettleInterval:  DefaultSettleInterval,
		LedgerPath:      *ledgerPath,
		LogPath:         *logPath,
		Setup:           *setup,
	}

	if *configPath != "" {
		fromYaml, err := getYaml(*configPath, cfg)
		if err != nil {
			return Config{}, err
		}
		cfg = fromYaml
	}

	return cfg, cfg.validate()
}

// getYaml overlays yaml values on top of base, so a partial config file
// only overrides what it sets.
func getYaml(path string, base Config) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	var tmp configTmp
	if err := yaml.Unmarshal(raw, &tmp); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg := base
	if tmp.ProductID != "" {
		cfg.ProductID = tmp.ProductID
	}
	if tmp.BaseURL != "" {
		cfg.BaseURL = tmp.BaseURL
	}
	if tmp.PriceSelector != "" {
		cfg.PriceSelector = tmp.PriceSelector
	}
	if tmp.ChallengeMarker != "" {
		cfg.ChallengeMarker = tmp.ChallengeMarker
	}
	if tmp.ConsentLabel != "" {
		cfg.ConsentLabel = tmp.ConsentLabel
	}
	if tmp.Fetcher != "" {
		cfg.Fetcher = tmp.Fetcher
	}
	if tmp.Headless != nil {
		cfg.Headless = *tmp.Headless
	}
	if tmp.NavTimeout != 0 {
		cfg.NavTimeout = tmp.NavTimeout
	}
	if tmp.SettleInterval != 0 {
		cfg.SettleInterval = tmp.SettleInterval
	}
	if tmp.LedgerPath != "" {
		cfg.LedgerPath = tmp.LedgerPath
	}
	if tmp.LogPath != "" {
		cfg.LogPath = tmp.LogPath
	}

	return cfg, nil
}

func (c Config) validate() error {
	if c.ProductID == "" {
		return fmt.Errorf("product id is required")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("base URL is required")
	}
	if c.Fetcher != FetcherChrome && c.Fetcher != FetcherHTTP {
		return fmt.Errorf("invalid fetcher %q, must be %q or %q", c.Fetcher, FetcherChrome, FetcherHTTP)
	}
	if c.NavTimeout <= 0 {
		return fmt.Errorf("nav timeout must be positive, got %s", c.NavTimeout)
	}
	if c.SettleInterval <= 0 {
		return fmt.Errorf("settle interval must be positive, got %s", c.SettleInterval)
	}
	if c.LedgerPath == "" {
		return fmt.Errorf("ledger path is required")
	}
	return nil
}
