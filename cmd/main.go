// Command amazon-notifier checks the current price of a single Amazon
// product, records the observation in a local JSON price history and sends
// a Pushover alert when the price has dropped since the last check.
// It performs exactly one check per invocation; run it from cron or a
// systemd timer for periodic tracking.
//
// Usage:
//
//	amazon-notifier --config config.yaml
//	amazon-notifier --product B0CLTBHXWQ (uses CLI arguments)
//	amazon-notifier --setup
//
// Required environment variables (may be provided via a .env file):
//
//	PUSHOVER_TOKEN, PUSHOVER_USER
package main

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/TahenniRabah/amazon-notifier/config"
	"github.com/TahenniRabah/amazon-notifier/internal"
	"github.com/TahenniRabah/amazon-notifier/internal/services/extractor"
	"github.com/TahenniRabah/amazon-notifier/internal/services/fetcher"
	"github.com/TahenniRabah/amazon-notifier/internal/services/ledger"
	"github.com/TahenniRabah/amazon-notifier/internal/services/notifier"
	"github.com/TahenniRabah/amazon-notifier/internal/setup"
)

func main() {
	cfg, err := config.Get()
	if err != nil {
		log.Fatal(err)
	}

	if cfg.Setup {
		if err := setup.RunWizard(); err != nil {
			log.Fatal(err)
		}
		return
	}

	logger, err := newLogger(cfg.LogPath)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	var f fetcher.Fetcher
	switch cfg.Fetcher {
	case config.FetcherHTTP:
		f = fetcher.NewHTTPFetcher(cfg.BaseURL, cfg.NavTimeout, logger)
	default:
		f = fetcher.NewChromeFetcher(fetcher.ChromeOptions{
			BaseURL:         cfg.BaseURL,
			ChallengeMarker: cfg.ChallengeMarker,
			ConsentLabel:    cfg.ConsentLabel,
			Headless:        cfg.Headless,
			Timeout:         cfg.NavTimeout,
			Settle:          cfg.SettleInterval,
		}, logger)
	}

	watcher := internal.NewWatcher(
		f,
		extractor.New(cfg.PriceSelector),
		ledger.New(cfg.LedgerPath, logger),
		notifier.NewPushover(os.Getenv("PUSHOVER_TOKEN"), os.Getenv("PUSHOVER_USER"), logger),
		cfg.ProductID,
		logger,
	)

	if err := watcher.Run(context.Background()); err != nil {
		logger.Fatal("price check failed", zap.Error(err))
	}
}

// newLogger builds a production logger writing to stderr and, when
// configured, to a log file as well.
func newLogger(logPath string) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	zapCfg.OutputPaths = []string{"stderr"}
	if logPath != "" {
		if dir := filepath.Dir(logPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
		zapCfg.OutputPaths = append(zapCfg.OutputPaths, logPath)
	}
	return zapCfg.Build()
}
