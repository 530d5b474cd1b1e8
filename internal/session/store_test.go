package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeTimer struct {
	mu      sync.Mutex
	stopped int
}

func (t *fakeTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped++
	return t.stopped == 1
}

type fakeRefresher struct {
	mu    sync.Mutex
	calls int
	grant RefreshGrant
	err   error
	gate  chan struct{} // when non-nil, Refresh blocks until it is closed
}

func (f *fakeRefresher) Refresh(ctx context.Context, refreshToken string) (RefreshGrant, error) {
	f.mu.Lock()
	f.calls++
	gate := f.gate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return f.grant, f.err
}

func (f *fakeRefresher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type testEnv struct {
	store     *Store
	storage   *MemoryStorage
	refresher *fakeRefresher
	now       time.Time
	armed     []time.Duration
	timers    []*fakeTimer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		storage:   NewMemoryStorage(),
		refresher: &fakeRefresher{},
		now:       time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	env.store = newStoreOn(env, env.storage)
	return env
}

// newStoreOn builds a store with frozen time and recorded timers over the
// given storage, so a second store simulates an app restart.
func newStoreOn(env *testEnv, storage Storage) *Store {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	s := NewStore(storage, env.refresher, logger)
	s.now = func() time.Time { return env.now }
	s.newTimer = func(d time.Duration, f func()) timerHandle {
		ft := &fakeTimer{}
		env.armed = append(env.armed, d)
		env.timers = append(env.timers, ft)
		return ft
	}
	return s
}

func validTokens() Tokens {
	return Tokens{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		TokenType:    "bearer",
		ExpiresIn:    3600,
	}
}

func testUser() User {
	return User{ID: 7, Name: "Hong Gildong", Email: "hong@example.com", Role: RoleUser}
}

func TestSetAuthComputesExpiryAndArmsTimer(t *testing.T) {
	env := newTestEnv(t)
	env.store.SetAuth(testUser(), validTokens())

	require.True(t, env.store.LoggedIn())
	require.Equal(t, "access-1", env.store.AccessToken())
	require.Equal(t, env.now.Add(3600*time.Second), env.store.ExpiresAt())

	// Refresh fires one minute before expiry.
	require.Len(t, env.armed, 1)
	require.Equal(t, 3600*time.Second-time.Minute, env.armed[0])
}

func TestSetAuthSkipsTimerForShortLivedToken(t *testing.T) {
	env := newTestEnv(t)
	tokens := validTokens()
	tokens.ExpiresIn = 30

	env.store.SetAuth(testUser(), tokens)

	require.True(t, env.store.LoggedIn())
	require.Empty(t, env.armed)
}

func TestRoundTripPersistence(t *testing.T) {
	env := newTestEnv(t)
	env.store.SetAuth(testUser(), validTokens())

	restored := newStoreOn(env, env.storage)
	require.NoError(t, restored.LoadFromStorage())

	require.True(t, restored.LoggedIn())
	user, ok := restored.CurrentUser()
	require.True(t, ok)
	require.Equal(t, testUser(), user)
	require.Equal(t, "access-1", restored.AccessToken())
	require.Equal(t, "refresh-1", restored.RefreshToken())
	require.Equal(t, env.store.ExpiresAt().UnixMilli(), restored.ExpiresAt().UnixMilli())
	require.False(t, restored.Refreshing())
}

func TestLoadDiscardsExpiredSnapshot(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.storage.Save(&Snapshot{
		User:         testUser(),
		AccessToken:  "stale",
		RefreshToken: "stale-refresh",
		ExpiresAt:    env.now.Add(-time.Hour).UnixMilli(),
	}))

	require.NoError(t, env.store.LoadFromStorage())

	require.False(t, env.store.LoggedIn())
	require.Empty(t, env.store.AccessToken())
	snap, err := env.storage.Load()
	require.NoError(t, err)
	require.Nil(t, snap)
}

func TestLoadWithoutSnapshotIsNoop(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.store.LoadFromStorage())
	require.False(t, env.store.LoggedIn())
	require.Empty(t, env.armed)
}

func TestLoadInsideFinalMinuteArmsNoTimer(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.storage.Save(&Snapshot{
		User:         testUser(),
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		ExpiresAt:    env.now.Add(30 * time.Second).UnixMilli(),
	}))

	require.NoError(t, env.store.LoadFromStorage())

	// Restored, but the reactive 401 path is the only defense left.
	require.True(t, env.store.LoggedIn())
	require.Empty(t, env.armed)
}

func TestTimerStoppedBeforeRearm(t *testing.T) {
	env := newTestEnv(t)
	env.store.SetAuth(testUser(), validTokens())
	env.store.SetAuth(testUser(), validTokens())

	require.Len(t, env.timers, 2)
	require.Equal(t, 1, env.timers[0].stopped)
	require.Equal(t, 0, env.timers[1].stopped)
}

func TestClearAuthResetsEverything(t *testing.T) {
	env := newTestEnv(t)
	env.store.SetAuth(testUser(), validTokens())

	env.store.ClearAuth()
	env.store.ClearAuth() // idempotent

	require.False(t, env.store.LoggedIn())
	require.Empty(t, env.store.AccessToken())
	require.Empty(t, env.store.RefreshToken())
	require.True(t, env.store.ExpiresAt().IsZero())
	require.Equal(t, 1, env.timers[0].stopped)

	snap, err := env.storage.Load()
	require.NoError(t, err)
	require.Nil(t, snap)
}

func TestRefreshUpdatesTokenAndPersists(t *testing.T) {
	env := newTestEnv(t)
	env.store.SetAuth(testUser(), validTokens())
	env.refresher.grant = RefreshGrant{AccessToken: "access-2", ExpiresIn: 900}

	token, err := env.store.RefreshAccessToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, "access-2", token)

	require.Equal(t, "access-2", env.store.AccessToken())
	require.Equal(t, "refresh-1", env.store.RefreshToken(), "refresh token is never rotated")
	require.Equal(t, env.now.Add(900*time.Second), env.store.ExpiresAt())

	snap, err := env.storage.Load()
	require.NoError(t, err)
	require.Equal(t, "access-2", snap.AccessToken)
	require.Equal(t, "refresh-1", snap.RefreshToken)

	// Old timer stopped, new one armed at the 900s grant minus the margin.
	require.Equal(t, 1, env.timers[0].stopped)
	require.Equal(t, 900*time.Second-time.Minute, env.armed[1])
}

func TestRefreshFailureTearsSessionDown(t *testing.T) {
	env := newTestEnv(t)
	env.store.SetAuth(testUser(), validTokens())
	env.refresher.err = errors.New("backend says no")

	token, err := env.store.RefreshAccessToken(context.Background())
	require.Error(t, err)
	require.Empty(t, token)

	require.False(t, env.store.LoggedIn())
	require.Empty(t, env.store.AccessToken())
	require.Empty(t, env.store.RefreshToken())
	require.True(t, env.store.ExpiresAt().IsZero())

	snap, lerr := env.storage.Load()
	require.NoError(t, lerr)
	require.Nil(t, snap)
}

func TestRefreshWithoutTokenIsImmediatelyFatal(t *testing.T) {
	env := newTestEnv(t)

	token, err := env.store.RefreshAccessToken(context.Background())
	require.ErrorIs(t, err, ErrNoSession)
	require.Empty(t, token)
	require.Zero(t, env.refresher.callCount(), "no network call may be made")
	require.False(t, env.store.LoggedIn())
}

func TestConcurrentCallersShareOneExchange(t *testing.T) {
	env := newTestEnv(t)
	env.store.SetAuth(testUser(), validTokens())

	gate := make(chan struct{})
	env.refresher.gate = gate
	env.refresher.grant = RefreshGrant{AccessToken: "access-2", ExpiresIn: 900}

	type outcome struct {
		token string
		err   error
	}
	const callers = 8
	results := make(chan outcome, callers)
	for i := 0; i < callers; i++ {
		go func() {
			token, err := env.store.RefreshAccessToken(context.Background())
			results <- outcome{token, err}
		}()
	}

	// Let the leader enter the exchange and the rest attach to it, then
	// release the gate.
	require.Eventually(t, env.store.Refreshing, time.Second, time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	close(gate)

	for i := 0; i < callers; i++ {
		res := <-results
		require.NoError(t, res.err)
		require.Equal(t, "access-2", res.token)
	}
	require.Equal(t, 1, env.refresher.callCount(), "exactly one exchange for all callers")
}

func TestWaiterHonorsContextCancellation(t *testing.T) {
	env := newTestEnv(t)
	env.store.SetAuth(testUser(), validTokens())

	gate := make(chan struct{})
	env.refresher.gate = gate
	env.refresher.grant = RefreshGrant{AccessToken: "access-2", ExpiresIn: 900}

	leaderDone := make(chan struct{})
	var leaderErr error
	go func() {
		defer close(leaderDone)
		_, leaderErr = env.store.RefreshAccessToken(context.Background())
	}()
	require.Eventually(t, env.store.Refreshing, time.Second, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := env.store.RefreshAccessToken(ctx)
	require.ErrorIs(t, err, context.Canceled)

	close(gate)
	<-leaderDone
	require.NoError(t, leaderErr)
}
