package notifier

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSend(t *testing.T) {
	var gotToken, gotUser, gotMessage string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		gotToken = r.PostFormValue("token")
		gotUser = r.PostFormValue("user")
		gotMessage = r.PostFormValue("message")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := NewPushover("app-token", "user-key", zap.NewNop())
	p.endpoint = srv.URL

	require.NoError(t, p.Send(context.Background(), "Price has decreased by 12%"))
	require.Equal(t, "app-token", gotToken)
	require.Equal(t, "user-key", gotUser)
	require.Equal(t, "Price has decreased by 12%", gotMessage)
}

func TestSendMissingCredentials(t *testing.T) {
	for _, p := range []*Pushover{
		NewPushover("", "user-key", zap.NewNop()),
		NewPushover("app-token", "", zap.NewNop()),
	} {
		err := p.Send(context.Background(), "hello")
		require.ErrorIs(t, err, ErrDelivery)
	}
}

func TestSendRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errors":["application token is invalid"]}`))
	}))
	defer srv.Close()

	p := NewPushover("bad-token", "user-key", zap.NewNop())
	p.endpoint = srv.URL

	err := p.Send(context.Background(), "hello")
	require.ErrorIs(t, err, ErrDelivery)
	require.Contains(t, err.Error(), "400")
}

func TestSendNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	p := NewPushover("app-token", "user-key", zap.NewNop())
	p.endpoint = srv.URL

	err := p.Send(context.Background(), "hello")
	require.ErrorIs(t, err, ErrDelivery)
}
