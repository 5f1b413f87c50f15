package fetcher

import (
	"context"
	"fmt"
	"strings"
)

// Fetcher loads the rendered markup of a product page. Implementations own
// whatever external resource they need (browser process, HTTP client) and
// must release it before returning.
type Fetcher interface {
	Fetch(ctx context.Context, productID string) (string, error)
}

// FetchError reports a failed page load, a timeout or a failed challenge
// bypass. It carries the target URL for diagnostics.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func productURL(baseURL, productID string) string {
	return fmt.Sprintf("%s/dp/%s", strings.TrimRight(baseURL, "/"), productID)
}
