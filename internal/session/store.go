package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// refreshMargin is how long before expiry the proactive refresh fires.
const refreshMargin = time.Minute

// ErrNoSession is returned by RefreshAccessToken when there is no refresh
// token to exchange. The local session has already been cleared by then.
var ErrNoSession = errors.New("no active session")

// Refresher exchanges a refresh token for a new access token.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (RefreshGrant, error)
}

type timerHandle interface {
	Stop() bool
}

type realTimer struct{ *time.Timer }

// Store is the single source of truth for the current session: it owns the
// in-memory state, the persisted snapshot and the one proactive refresh
// timer. At most one session is live at a time.
type Store struct {
	storage   Storage
	refresher Refresher
	log       *slog.Logger

	now      func() time.Time
	newTimer func(d time.Duration, f func()) timerHandle

	mu           sync.Mutex
	user         *User
	accessToken  string
	refreshToken string
	expiresAt    time.Time
	timer        timerHandle
	inflight     *refreshCall
}

// refreshCall is one in-flight refresh exchange. Concurrent callers wait on
// done and observe the same outcome instead of issuing duplicate exchanges.
type refreshCall struct {
	done  chan struct{}
	token string
	err   error
}

func NewStore(storage Storage, refresher Refresher, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		storage:   storage,
		refresher: refresher,
		log:       log,
		now:       time.Now,
		newTimer: func(d time.Duration, f func()) timerHandle {
			return realTimer{time.AfterFunc(d, f)}
		},
	}
}

// SetAuth installs a freshly issued session: computes the expiry instant,
// mirrors it to storage and re-arms the proactive refresh timer.
func (s *Store) SetAuth(user User, tokens Tokens) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt := s.now().Add(time.Duration(tokens.ExpiresIn) * time.Second)

	u := user
	s.user = &u
	s.accessToken = tokens.AccessToken
	s.refreshToken = tokens.RefreshToken
	s.expiresAt = expiresAt

	s.persistLocked()
	s.stopTimerLocked()
	s.armTimerLocked(time.Duration(tokens.ExpiresIn)*time.Second - refreshMargin)
}

// ClearAuth tears the session down: persisted snapshot removed, timer
// stopped, in-memory state reset. Safe to call more than once.
func (s *Store) ClearAuth() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

func (s *Store) clearLocked() {
	if err := s.storage.Clear(); err != nil {
		s.log.Warn("clear persisted session", "error", err)
	}
	s.stopTimerLocked()
	s.user = nil
	s.accessToken = ""
	s.refreshToken = ""
	s.expiresAt = time.Time{}
}

// LoadFromStorage restores a previously persisted session. An absent
// snapshot is a no-op; an expired one is discarded. On success the refresh
// timer is re-armed for the remaining lifetime; inside the final minute the
// reactive 401 path is the only line of defense.
func (s *Store) LoadFromStorage() error {
	snap, err := s.storage.Load()
	if err != nil {
		// An unreadable snapshot is as good as none.
		if cerr := s.storage.Clear(); cerr != nil {
			s.log.Warn("discard unreadable session", "error", cerr)
		}
		return fmt.Errorf("load session: %w", err)
	}
	if snap == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt := time.UnixMilli(snap.ExpiresAt)
	if !expiresAt.After(s.now()) {
		if err := s.storage.Clear(); err != nil {
			s.log.Warn("discard expired session", "error", err)
		}
		return nil
	}

	u := snap.User
	s.user = &u
	s.accessToken = snap.AccessToken
	s.refreshToken = snap.RefreshToken
	s.expiresAt = expiresAt

	s.stopTimerLocked()
	s.armTimerLocked(expiresAt.Sub(s.now()) - refreshMargin)
	return nil
}

// RefreshAccessToken exchanges the refresh token for a new access token.
// Concurrent callers share a single exchange and all see its outcome. Any
// failure is fatal to the session: state is cleared and ErrNoSession (or the
// wrapped exchange error) is returned alongside an empty token.
func (s *Store) RefreshAccessToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	if call := s.inflight; call != nil {
		s.mu.Unlock()
		select {
		case <-call.done:
			return call.token, call.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	refreshToken := s.refreshToken
	if refreshToken == "" {
		s.clearLocked()
		s.mu.Unlock()
		return "", ErrNoSession
	}

	call := &refreshCall{done: make(chan struct{})}
	s.inflight = call
	s.mu.Unlock()

	grant, err := s.refresher.Refresh(ctx, refreshToken)

	s.mu.Lock()
	s.inflight = nil
	switch {
	case err != nil:
		s.clearLocked()
		call.err = fmt.Errorf("refresh access token: %w", err)
	case s.refreshToken != refreshToken:
		// Session was replaced or torn down while the exchange was in
		// flight; the grant belongs to a dead token epoch.
		call.err = ErrNoSession
	default:
		s.accessToken = grant.AccessToken
		s.expiresAt = s.now().Add(time.Duration(grant.ExpiresIn) * time.Second)
		s.persistLocked()
		s.stopTimerLocked()
		s.armTimerLocked(time.Duration(grant.ExpiresIn)*time.Second - refreshMargin)
		call.token = grant.AccessToken
	}
	s.mu.Unlock()

	close(call.done)
	return call.token, call.err
}

// LoggedIn reports whether a session is live.
func (s *Store) LoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil
}

// CurrentUser returns the authenticated user, if any.
func (s *Store) CurrentUser() (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

// AccessToken returns the current access token, or "" when logged out.
func (s *Store) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken
}

// RefreshToken returns the current refresh token, or "" when logged out.
func (s *Store) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshToken
}

// ExpiresAt returns the access token expiry instant; zero when logged out.
func (s *Store) ExpiresAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expiresAt
}

// Refreshing reports whether a refresh exchange is currently in flight.
func (s *Store) Refreshing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight != nil
}

func (s *Store) persistLocked() {
	if s.user == nil {
		return
	}
	snap := &Snapshot{
		User:         *s.user,
		AccessToken:  s.accessToken,
		RefreshToken: s.refreshToken,
		ExpiresAt:    s.expiresAt.UnixMilli(),
	}
	if err := s.storage.Save(snap); err != nil {
		s.log.Warn("persist session", "error", err)
	}
}

func (s *Store) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Store) armTimerLocked(d time.Duration) {
	if d <= 0 {
		return
	}
	s.timer = s.newTimer(d, func() {
		// Failures here are quiet on purpose; the 401 retry path in the
		// gateway is the main line of defense.
		if _, err := s.RefreshAccessToken(context.Background()); err != nil {
			s.log.Error("scheduled token refresh failed", "error", err)
		}
	})
}
