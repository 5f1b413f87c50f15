package notifier

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrDelivery means the push notification could not be delivered.
var ErrDelivery = errors.New("alert delivery failed")

const defaultEndpoint = "https://api.pushover.net/1/messages.json"

// Pushover sends text alerts through the Pushover message API.
// Credentials come from the environment (PUSHOVER_TOKEN, PUSHOVER_USER);
// a missing credential fails the send, not the construction, so a run
// that never needs to alert still completes without them.
type Pushover struct {
	endpoint string
	token    string
	user     string
	client   *http.Client
	logger   *zap.Logger
}

func NewPushover(token, user string, logger *zap.Logger) *Pushover {
	return &Pushover{
		endpoint: defaultEndpoint,
		token:    token,
		user:     user,
		client:   &http.Client{Timeout: 10 * time.Second},
		logger:   logger,
	}
}

// Send posts a single message. There is no retry; failure is logged and
// returned to the caller.
func (p *Pushover) Send(ctx context.Context, message string) error {
	if p.token == "" || p.user == "" {
		return errors.Wrap(ErrDelivery, "pushover credentials are not set")
	}

	p.logger.Info("sending alert", zap.String("message", message))

	form := url.Values{
		"token":   {p.token},
		"user":    {p.user},
		"message": {message},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return errors.Wrapf(ErrDelivery, "build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Error("couldn't send alert", zap.Error(err))
		return errors.Wrapf(ErrDelivery, "%v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		p.logger.Error("pushover rejected alert",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return errors.Wrapf(ErrDelivery, "pushover returned status %d", resp.StatusCode)
	}

	return nil
}
