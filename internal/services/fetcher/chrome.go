package fetcher

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:133.0) Gecko/20100101 Firefox/133.0"

// page is one browser tab.
type page interface {
	Navigate(url string) error
	Settle(d time.Duration) error
	Content() (string, error)
	ClickByLabel(label string) error
}

// session is one browser process. Every page it opens shares the process
// and is torn down by Close.
type session interface {
	NewPage() (page, error)
	Close()
}

type sessionFactory func(ctx context.Context, headless bool, userAgent string) (session, error)

// ChromeOptions configures a ChromeFetcher. Zero values fall back to
// sensible defaults.
type ChromeOptions struct {
	BaseURL         string
	ChallengeMarker string
	ConsentLabel    string
	UserAgent       string
	Headless        bool
	Timeout         time.Duration
	Settle          time.Duration
}

// ChromeFetcher drives a headless Chrome session to load the product page.
// When the retailer serves its image-challenge interstitial instead of the
// product, the fetcher opens a second tab in the same browser, accepts the
// consent prompt there and uses that tab's markup. Without the interstitial
// the first tab's markup is returned as is.
type ChromeFetcher struct {
	opts       ChromeOptions
	logger     *zap.Logger
	newSession sessionFactory
}

func NewChromeFetcher(opts ChromeOptions, logger *zap.Logger) *ChromeFetcher {
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Settle <= 0 {
		opts.Settle = time.Second
	}
	return &ChromeFetcher{
		opts:       opts,
		logger:     logger,
		newSession: newChromeSession,
	}
}

func (f *ChromeFetcher) Fetch(ctx context.Context, productID string) (string, error) {
	url := productURL(f.opts.BaseURL, productID)

	ctx, cancel := context.WithTimeout(ctx, f.opts.Timeout)
	defer cancel()

	sess, err := f.newSession(ctx, f.opts.Headless, f.opts.UserAgent)
	if err != nil {
		return "", &FetchError{URL: url, Err: errors.Wrap(err, "start browser")}
	}
	defer sess.Close()

	p, err := sess.NewPage()
	if err != nil {
		return "", &FetchError{URL: url, Err: errors.Wrap(err, "open page")}
	}
	if err := p.Navigate(url); err != nil {
		return "", &FetchError{URL: url, Err: errors.Wrap(err, "navigate")}
	}
	if err := p.Settle(f.opts.Settle); err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	markup, err := p.Content()
	if err != nil {
		return "", &FetchError{URL: url, Err: errors.Wrap(err, "read page content")}
	}

	if !strings.Contains(markup, f.opts.ChallengeMarker) {
		return markup, nil
	}

	f.logger.Info("challenge interstitial detected, retrying in a fresh tab", zap.String("url", url))

	// single bypass attempt: new tab, same browser, accept the consent prompt
	p2, err := sess.NewPage()
	if err != nil {
		return "", &FetchError{URL: url, Err: errors.Wrap(err, "open bypass page")}
	}
	if err := p2.Navigate(url); err != nil {
		return "", &FetchError{URL: url, Err: errors.Wrap(err, "navigate bypass page")}
	}
	if err := p2.Settle(f.opts.Settle / 2); err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	if err := p2.ClickByLabel(f.opts.ConsentLabel); err != nil {
		return "", &FetchError{URL: url, Err: errors.Wrapf(err, "click %q", f.opts.ConsentLabel)}
	}
	if err := p2.Settle(f.opts.Settle / 2); err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	bypassed, err := p2.Content()
	if err != nil {
		return "", &FetchError{URL: url, Err: errors.Wrap(err, "read bypass page content")}
	}

	return bypassed, nil
}

type chromeSession struct {
	browserCtx    context.Context
	browserCancel context.CancelFunc
	allocCancel   context.CancelFunc
	tabCancels    []context.CancelFunc
}

func newChromeSession(ctx context.Context, headless bool, userAgent string) (session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", headless),
		chromedp.UserAgent(userAgent),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// start the browser eagerly so startup failures surface here
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, err
	}

	return &chromeSession{
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		allocCancel:   allocCancel,
	}, nil
}

func (s *chromeSession) NewPage() (page, error) {
	tabCtx, cancel := chromedp.NewContext(s.browserCtx)
	s.tabCancels = append(s.tabCancels, cancel)
	return &chromePage{ctx: tabCtx}, nil
}

func (s *chromeSession) Close() {
	for i := len(s.tabCancels) - 1; i >= 0; i-- {
		s.tabCancels[i]()
	}
	s.browserCancel()
	s.allocCancel()
}

type chromePage struct {
	ctx context.Context
}

func (p *chromePage) Navigate(url string) error {
	return chromedp.Run(p.ctx, chromedp.Navigate(url))
}

func (p *chromePage) Settle(d time.Duration) error {
	return chromedp.Run(p.ctx, chromedp.Sleep(d))
}

func (p *chromePage) Content() (string, error) {
	var html string
	err := chromedp.Run(p.ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	return html, err
}

// ClickByLabel activates the first element whose accessible label or visible
// text equals label.
func (p *chromePage) ClickByLabel(label string) error {
	sel := fmt.Sprintf(`//*[@aria-label=%q or normalize-space(text())=%q]`, label, label)
	return chromedp.Run(p.ctx, chromedp.Click(sel, chromedp.BySearch))
}
