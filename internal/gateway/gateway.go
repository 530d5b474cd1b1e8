package gateway

import (
	"context"
	"io"
	"log/slog"
	"net/http"
)

// TokenSource supplies the bearer token for outbound requests and performs
// the refresh exchange when the backend rejects it.
type TokenSource interface {
	AccessToken() string
	RefreshAccessToken(ctx context.Context) (string, error)
}

// Transport is the authenticated request gateway. It attaches the current
// access token to every request and, on a 401, refreshes the token and
// reissues the original request exactly once. A second 401, a non-401
// failure, or a failed refresh all propagate unchanged to the caller.
type Transport struct {
	Base   http.RoundTripper
	Tokens TokenSource
	Log    *slog.Logger
}

func NewTransport(tokens TokenSource, log *slog.Logger) *Transport {
	if log == nil {
		log = slog.Default()
	}
	return &Transport{Tokens: tokens, Log: log}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	first := req.Clone(req.Context())
	if token := t.Tokens.AccessToken(); token != "" {
		first.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := t.base().RoundTrip(first)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	// A request whose body cannot be replayed is not retryable.
	if req.Body != nil && req.GetBody == nil {
		return resp, nil
	}

	token, rerr := t.Tokens.RefreshAccessToken(req.Context())
	if rerr != nil || token == "" {
		// Refresh failed and the session is already torn down; the
		// original 401 is the caller's answer.
		t.Log.Debug("token refresh after 401 failed", "error", rerr)
		return resp, nil
	}

	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	// The retry goes straight to the base transport, so it can never
	// trigger another refresh cycle: at most one retry per request.
	retry := req.Clone(req.Context())
	if req.GetBody != nil {
		body, berr := req.GetBody()
		if berr != nil {
			return nil, berr
		}
		retry.Body = body
	}
	retry.Header.Set("Authorization", "Bearer "+token)

	return t.base().RoundTrip(retry)
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}
