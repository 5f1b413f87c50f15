package ledger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/TahenniRabah/amazon-notifier/internal/entity"
)

// ErrCorrupt means the history file exists but cannot be parsed. This is
// fatal: the file is never silently reset.
var ErrCorrupt = errors.New("price history file is corrupt")

// Ledger is the append-only price history, kept as a single JSON array
// file. Every append reads the whole file, adds one observation and
// rewrites it in full. A single writer at a time is assumed; invocations
// are serialized externally.
type Ledger struct {
	path   string
	logger *zap.Logger
}

func New(path string, logger *zap.Logger) *Ledger {
	return &Ledger{path: path, logger: logger}
}

// LastPrice returns the price of the most recent observation. The second
// return is false when there is no history yet (file absent or empty array).
func (l *Ledger) LastPrice() (int64, bool, error) {
	observations, err := l.read()
	if err != nil {
		return 0, false, err
	}
	if len(observations) == 0 {
		return 0, false, nil
	}
	return observations[len(observations)-1].Price, true, nil
}

// Append records one observation. Observations already in the file are
// never mutated or removed.
func (l *Ledger) Append(price int64, at time.Time) error {
	observations, err := l.read()
	if err != nil {
		return err
	}

	observations = append(observations, entity.PriceObservation{
		Price:     price,
		Timestamp: at.Format(time.RFC3339),
	})

	raw, err := json.MarshalIndent(observations, "", "    ")
	if err != nil {
		return errors.Wrap(err, "encode price history")
	}

	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "create price history directory")
		}
	}
	if err := os.WriteFile(l.path, raw, 0o644); err != nil {
		return errors.Wrap(err, "write price history")
	}

	l.logger.Info("observation appended",
		zap.String("path", l.path),
		zap.Int64("price", price),
		zap.Int("total", len(observations)))

	return nil
}

func (l *Ledger) read() ([]entity.PriceObservation, error) {
	raw, err := os.ReadFile(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read price history")
	}

	var observations []entity.PriceObservation
	if err := json.Unmarshal(raw, &observations); err != nil {
		return nil, errors.Wrapf(ErrCorrupt, "%s: %v", l.path, err)
	}

	return observations, nil
}
