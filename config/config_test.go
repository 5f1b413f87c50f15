package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func defaults() Config {
	return Config{
		ProductID:       DefaultProductID,
		BaseURL:         DefaultBaseURL,
		PriceSelector:   DefaultPriceSelector,
		ChallengeMarker: DefaultChallengeMarker,
		ConsentLabel:    DefaultConsentLabel,
		Fetcher:         FetcherChrome,
		Headless:        true,
		NavTimeout:      DefaultNavTimeout,
		SettleInterval:  DefaultSettleInterval,
		LedgerPath:      DefaultLedgerPath,
		LogPath:         DefaultLogPath,
	}
}

func writeYaml(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestGetYamlOverlay(t *testing.T) {
	path := writeYaml(t, `
product_id: B0DHSV68YZ
fetcher: http
headless: false
nav_timeout: 45s
ledger_path: /var/lib/watcher/prices.json
`)

	cfg, err := getYaml(path, defaults())
	require.NoError(t, err)

	require.Equal(t, "B0DHSV68YZ", cfg.ProductID)
	require.Equal(t, FetcherHTTP, cfg.Fetcher)
	require.False(t, cfg.Headless)
	require.Equal(t, 45*time.Second, cfg.NavTimeout)
	require.Equal(t, "/var/lib/watcher/prices.json", cfg.LedgerPath)

	// everything the file does not set keeps its default
	require.Equal(t, DefaultBaseURL, cfg.BaseURL)
	require.Equal(t, DefaultPriceSelector, cfg.PriceSelector)
	require.Equal(t, DefaultChallengeMarker, cfg.ChallengeMarker)
	require.Equal(t, DefaultSettleInterval, cfg.SettleInterval)
}

func TestGetYamlInvalid(t *testing.T) {
	path := writeYaml(t, "product_id: [broken")

	_, err := getYaml(path, defaults())
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := defaults()
	require.NoError(t, cfg.validate())

	noProduct := defaults()
	noProduct.ProductID = ""
	require.Error(t, noProduct.validate())

	badFetcher := defaults()
	badFetcher.Fetcher = "carrier-pigeon"
	require.Error(t, badFetcher.validate())

	badTimeout := defaults()
	badTimeout.NavTimeout = 0
	require.Error(t, badTimeout.validate())

	noLedger := defaults()
	noLedger.LedgerPath = ""
	require.Error(t, noLedger.validate())
}
