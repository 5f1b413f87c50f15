package fetcher

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// HTTPFetcher loads the product page with a plain GET. It cannot resolve
// the challenge interstitial, so it only works while the retailer serves
// real content to non-browser clients. Kept as the swappable alternative
// to the browser-driven fetcher.
type HTTPFetcher struct {
	baseURL   string
	userAgent string
	client    *http.Client
	logger    *zap.Logger
}

func NewHTTPFetcher(baseURL string, timeout time.Duration, logger *zap.Logger) *HTTPFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPFetcher{
		baseURL:   baseURL,
		userAgent: defaultUserAgent,
		client:    &http.Client{Timeout: timeout},
		logger:    logger,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, productID string) (string, error) {
	url := productURL(f.baseURL, productID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &FetchError{URL: url, Err: errors.Errorf("unexpected status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &FetchError{URL: url, Err: errors.Wrap(err, "read response body")}
	}

	f.logger.Debug("page fetched over plain http", zap.String("url", url), zap.Int("bytes", len(body)))

	return string(body), nil
}
