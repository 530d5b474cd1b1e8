package gateway

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type fakeTokens struct {
	token        string
	refreshed    string
	refreshErr   error
	refreshCalls atomic.Int32
}

func (f *fakeTokens) AccessToken() string { return f.token }

func (f *fakeTokens) RefreshAccessToken(ctx context.Context) (string, error) {
	f.refreshCalls.Add(1)
	if f.refreshErr != nil {
		return "", f.refreshErr
	}
	f.token = f.refreshed
	return f.refreshed, nil
}

func newClient(tokens *fakeTokens) *http.Client {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return &http.Client{Transport: NewTransport(tokens, logger)}
}

func TestAttachesBearerToken(t *testing.T) {
	var gotAuth string
	e := echo.New()
	e.GET("/ping", func(c echo.Context) error {
		gotAuth = c.Request().Header.Get("Authorization")
		return c.String(http.StatusOK, "pong")
	})
	srv := httptest.NewServer(e)
	defer srv.Close()

	tokens := &fakeTokens{token: "tok"}
	resp, err := newClient(tokens).Get(srv.URL + "/ping")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Bearer tok", gotAuth)
	require.Zero(t, tokens.refreshCalls.Load())
}

func TestMissingTokenSendsUnauthenticated(t *testing.T) {
	var gotAuth string
	e := echo.New()
	e.GET("/ping", func(c echo.Context) error {
		gotAuth = c.Request().Header.Get("Authorization")
		return c.String(http.StatusOK, "pong")
	})
	srv := httptest.NewServer(e)
	defer srv.Close()

	resp, err := newClient(&fakeTokens{}).Get(srv.URL + "/ping")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Empty(t, gotAuth)
}

func TestRetriesOnceAfter401(t *testing.T) {
	var hits atomic.Int32
	var retryAuth string
	e := echo.New()
	e.GET("/me", func(c echo.Context) error {
		if hits.Add(1) == 1 {
			return c.String(http.StatusUnauthorized, "token expired")
		}
		retryAuth = c.Request().Header.Get("Authorization")
		return c.String(http.StatusOK, "hello")
	})
	srv := httptest.NewServer(e)
	defer srv.Close()

	tokens := &fakeTokens{token: "stale", refreshed: "new"}
	resp, err := newClient(tokens).Get(srv.URL + "/me")
	require.NoError(t, err)
	defer resp.Body.Close()

	// The caller never sees the 401, only the retried outcome.
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	require.Equal(t, "hello", string(body))
	require.Equal(t, "Bearer new", retryAuth)
	require.Equal(t, int32(2), hits.Load())
	require.Equal(t, int32(1), tokens.refreshCalls.Load())
}

func TestSecond401IsNotRetriedAgain(t *testing.T) {
	var hits atomic.Int32
	e := echo.New()
	e.GET("/me", func(c echo.Context) error {
		hits.Add(1)
		return c.String(http.StatusUnauthorized, "still no")
	})
	srv := httptest.NewServer(e)
	defer srv.Close()

	tokens := &fakeTokens{token: "stale", refreshed: "new"}
	resp, err := newClient(tokens).Get(srv.URL + "/me")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, int32(2), hits.Load(), "original plus exactly one retry")
	require.Equal(t, int32(1), tokens.refreshCalls.Load(), "one refresh per original request")
}

func TestFailedRefreshPropagatesOriginal401(t *testing.T) {
	var hits atomic.Int32
	e := echo.New()
	e.GET("/me", func(c echo.Context) error {
		hits.Add(1)
		return c.String(http.StatusUnauthorized, "token expired")
	})
	srv := httptest.NewServer(e)
	defer srv.Close()

	tokens := &fakeTokens{token: "stale", refreshErr: errors.New("refresh token revoked")}
	resp, err := newClient(tokens).Get(srv.URL + "/me")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, int32(1), hits.Load(), "no retry without a usable token")
}

func TestNon401FailurePassesThrough(t *testing.T) {
	e := echo.New()
	e.GET("/me", func(c echo.Context) error {
		return c.String(http.StatusInternalServerError, "boom")
	})
	srv := httptest.NewServer(e)
	defer srv.Close()

	tokens := &fakeTokens{token: "tok", refreshed: "new"}
	resp, err := newClient(tokens).Get(srv.URL + "/me")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	require.Zero(t, tokens.refreshCalls.Load())
}

func TestRetryReplaysRequestBody(t *testing.T) {
	var hits atomic.Int32
	var retriedBody string
	e := echo.New()
	e.POST("/visits", func(c echo.Context) error {
		if hits.Add(1) == 1 {
			return c.String(http.StatusUnauthorized, "token expired")
		}
		raw, _ := io.ReadAll(c.Request().Body)
		retriedBody = string(raw)
		return c.String(http.StatusCreated, "ok")
	})
	srv := httptest.NewServer(e)
	defer srv.Close()

	tokens := &fakeTokens{token: "stale", refreshed: "new"}
	resp, err := newClient(tokens).Post(srv.URL+"/visits", "application/json", strings.NewReader(`{"hospital":"서울병원"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.JSONEq(t, `{"hospital":"서울병원"}`, retriedBody)
}
