package internal

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/TahenniRabah/amazon-notifier/internal/services/detector"
	"github.com/TahenniRabah/amazon-notifier/internal/services/fetcher"
)

type Extractor interface {
	Extract(markup string) (int64, error)
}

type Ledger interface {
	LastPrice() (int64, bool, error)
	Append(price int64, at time.Time) error
}

type Notifier interface {
	Send(ctx context.Context, message string) error
}

// Watcher runs one price check end to end: fetch the page, extract the
// price, compare against the last recorded one, persist the observation
// and alert when the price dropped. Every failure aborts the run; nothing
// is retried. The ledger is written before the alert is attempted, so a
// failed delivery still leaves the observation recorded.
type Watcher struct {
	fetcher   fetcher.Fetcher
	extractor Extractor
	ledger    Ledger
	notifier  Notifier
	productID string
	logger    *zap.Logger
}

func NewWatcher(f fetcher.Fetcher, e Extractor, l Ledger, n Notifier, productID string, logger *zap.Logger) *Watcher {
	return &Watcher{
		fetcher:   f,
		extractor: e,
		ledger:    l,
		notifier:  n,
		productID: productID,
		logger:    logger,
	}
}

func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Info("checking price", zap.String("product_id", w.productID))

	markup, err := w.fetcher.Fetch(ctx, w.productID)
	if err != nil {
		w.logger.Error("couldn't fetch product page", zap.Error(err))
		return errors.Wrap(err, "fetch product page")
	}

	current, err := w.extractor.Extract(markup)
	if err != nil {
		w.logger.Error("couldn't extract price", zap.String("product_id", w.productID), zap.Error(err))
		return errors.Wrapf(err, "extract price for %s", w.productID)
	}

	previous, ok, err := w.ledger.LastPrice()
	if err != nil {
		w.logger.Error("couldn't read price history", zap.Error(err))
		return errors.Wrap(err, "read price history")
	}
	if !ok {
		// first observation, nothing to compare against
		previous = current
	}

	delta, err := detector.Delta(previous, current)
	if err != nil {
		w.logger.Error("couldn't compute price delta", zap.Int64("previous", previous), zap.Error(err))
		return errors.Wrap(err, "compute price delta")
	}

	if err := w.ledger.Append(current, time.Now()); err != nil {
		w.logger.Error("couldn't record observation", zap.Error(err))
		return errors.Wrap(err, "record observation")
	}

	w.logger.Info("price recorded",
		zap.Int64("price", current),
		zap.Int64("previous", previous),
		zap.Int64("delta_percent", delta))

	if detector.PriceDropped(delta) {
		message := fmt.Sprintf("Price has decreased by %d%%", delta)
		if err := w.notifier.Send(ctx, message); err != nil {
			w.logger.Error("couldn't send alert", zap.Error(err))
			return errors.Wrap(err, "send alert")
		}
	}

	return nil
}
