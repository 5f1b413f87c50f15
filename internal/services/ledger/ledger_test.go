package ledger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/TahenniRabah/amazon-notifier/internal/entity"
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "prices.json"), zap.NewNop())
}

func TestLastPriceNoHistory(t *testing.T) {
	l := newTestLedger(t)

	_, ok, err := l.LastPrice()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestAppendReadRoundTrip(t *testing.T) {
	l := newTestLedger(t)
	now := time.Now()

	for _, price := range []int64{2500, 2200, 2300, 1999} {
		require.NoError(t, l.Append(price, now))

		last, ok, err := l.LastPrice()
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, price, last)
	}
}

func TestAppendPreservesHistory(t *testing.T) {
	l := newTestLedger(t)
	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	require.NoError(t, l.Append(2500, at))
	require.NoError(t, l.Append(2200, at.Add(24*time.Hour)))

	raw, err := os.ReadFile(l.path)
	require.NoError(t, err)

	var observations []entity.PriceObservation
	require.NoError(t, json.Unmarshal(raw, &observations))
	require.Len(t, observations, 2)
	require.Equal(t, int64(2500), observations[0].Price)
	require.Equal(t, int64(2200), observations[1].Price)
	require.Equal(t, "2026-03-14T09:26:53Z", observations[0].Timestamp)
}

func TestCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	l := New(path, zap.NewNop())

	_, _, err := l.LastPrice()
	require.ErrorIs(t, err, ErrCorrupt)

	// appends must not silently reset a corrupt file
	require.ErrorIs(t, l.Append(100, time.Now()), ErrCorrupt)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "{not json", string(raw))
}

func TestEmptyArrayMeansNoHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.json")
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0o644))

	_, ok, err := New(path, zap.NewNop()).LastPrice()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestAppendCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "prices.json")
	l := New(path, zap.NewNop())

	require.NoError(t, l.Append(1999, time.Now()))

	last, ok, err := l.LastPrice()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(1999), last)
}
