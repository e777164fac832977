package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ChathuminaK/SkillWave-sub000/api"
	"github.com/ChathuminaK/SkillWave-sub000/credentials"
	"github.com/ChathuminaK/SkillWave-sub000/internal/utils"
	"github.com/ChathuminaK/SkillWave-sub000/token"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Single-flight keys, one per operation class. Concurrent triggers for
// the same class share one in-progress call instead of issuing
// duplicates; refresh tokens in particular are rate limited server-side.
const (
	loginFlightKey   = "login"
	refreshFlightKey = "refresh"
	logoutFlightKey  = "logout"
)

// SessionManager owns the authentication state machine: it is the sole
// writer of the credential store, orchestrates login, logout, silent
// refresh and startup resume, and interprets the request pipeline's
// unauthorized signal. All transitions are serialized under one lock;
// remote calls happen outside it, and their results are discarded when a
// logout or newer login has advanced the session generation in the
// meantime.
type SessionManager struct {
	api       *api.Client
	store     credentials.Store
	inspector *token.Inspector
	logger    zerolog.Logger

	checkInterval time.Duration

	mu         sync.Mutex
	session    Session
	generation uint64
	// expiredNotified suppresses duplicate expiry notifications: the
	// first terminal failure in a cascade wins, the rest stay silent
	// until the next successful login.
	expiredNotified bool

	flight singleflight.Group

	subsMu      sync.Mutex
	subscribers map[int]chan Event
	nextSubID   int

	stopCh   chan struct{}
	stopOnce sync.Once
}

// SessionManagerOption defines a function type to modify the
// SessionManager instance.
type SessionManagerOption func(*SessionManager)

// WithLogger sets the logger for session lifecycle events.
func WithLogger(logger zerolog.Logger) SessionManagerOption {
	return func(m *SessionManager) {
		m.logger = logger
	}
}

// WithCheckInterval sets how often the periodic expiry check runs.
func WithCheckInterval(interval time.Duration) SessionManagerOption {
	return func(m *SessionManager) {
		m.checkInterval = interval
	}
}

// NewSessionManager initializes the session manager, wires itself into
// the API client's unauthorized hook, and starts the periodic expiry
// check. Call Close to stop the check task.
func NewSessionManager(apiClient *api.Client, store credentials.Store, inspector *token.Inspector, options ...SessionManagerOption) (*SessionManager, error) {
	if apiClient == nil {
		return nil, errors.New("[NewSessionManager] api client is required")
	}
	if store == nil {
		return nil, errors.New("[NewSessionManager] store is required")
	}
	if inspector == nil {
		return nil, errors.New("[NewSessionManager] inspector is required")
	}

	manager := &SessionManager{
		api:           apiClient,
		store:         store,
		inspector:     inspector,
		logger:        zerolog.Nop(),
		checkInterval: 5 * time.Minute,
		session:       Session{Status: StatusAnonymous},
		subscribers:   make(map[int]chan Event),
		stopCh:        make(chan struct{}),
	}
	for _, opt := range options {
		opt(manager)
	}

	apiClient.SetUnauthorizedFunc(manager.handleUnauthorized)
	go manager.refreshLoop()

	return manager, nil
}

// Close stops the periodic expiry check. It does not log out.
func (m *SessionManager) Close() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

// Status returns a snapshot of the current session.
func (m *SessionManager) Status() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// IsAuthenticated reports whether a user is currently signed in.
func (m *SessionManager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.Status == StatusAuthenticated
}

// Subscribe registers for session events. The returned cancel function
// removes the subscription and closes the channel. Events are dropped
// for subscribers that fall behind rather than blocking a transition.
func (m *SessionManager) Subscribe() (<-chan Event, func()) {
	m.subsMu.Lock()
	defer m.subsMu.Unlock()

	id := m.nextSubID
	m.nextSubID++
	ch := make(chan Event, 8)
	m.subscribers[id] = ch

	cancel := func() {
		m.subsMu.Lock()
		defer m.subsMu.Unlock()
		if sub, ok := m.subscribers[id]; ok {
			delete(m.subscribers, id)
			close(sub)
		}
	}
	return ch, cancel
}

func (m *SessionManager) notify(event Event) {
	m.subsMu.Lock()
	defer m.subsMu.Unlock()
	for _, ch := range m.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

// Login authenticates with email and password and returns the user
// profile. Concurrent calls share one network login: the first caller's
// credentials win and every caller receives the same outcome.
func (m *SessionManager) Login(ctx context.Context, email, password string) (*api.UserProfile, error) {
	result, err, _ := m.flight.Do(loginFlightKey, func() (any, error) {
		return m.doLogin(ctx, email, password)
	})
	if err != nil {
		return nil, err
	}
	return result.(*api.UserProfile), nil
}

// LoginWithToken accepts a raw access token, typically handed back by an
// OAuth provider redirect, and establishes a session from it exactly as
// a password login would.
func (m *SessionManager) LoginWithToken(ctx context.Context, rawToken string) (*api.UserProfile, error) {
	result, err, _ := m.flight.Do(loginFlightKey, func() (any, error) {
		return m.doTokenLogin(ctx, rawToken)
	})
	if err != nil {
		return nil, err
	}
	return result.(*api.UserProfile), nil
}

func (m *SessionManager) doLogin(ctx context.Context, email, password string) (*api.UserProfile, error) {
	gen := m.beginAuthenticating()

	tokenResp, err := m.api.Login(ctx, email, password)
	if err != nil {
		// The store was never touched; just settle back to anonymous.
		m.revertToAnonymous(gen)
		if api.IsUnauthorized(err) {
			return nil, InvalidCredentialsErr
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	accessToken := utils.Value(tokenResp.AccessToken)
	if accessToken == "" {
		m.revertToAnonymous(gen)
		return nil, MissingAccessTokenErr
	}

	return m.completeLogin(ctx, gen, credentials.Pair{
		AccessToken:  accessToken,
		RefreshToken: utils.Value(tokenResp.RefreshToken),
	})
}

func (m *SessionManager) doTokenLogin(ctx context.Context, rawToken string) (*api.UserProfile, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, MissingAccessTokenErr
	}
	gen := m.beginAuthenticating()
	return m.completeLogin(ctx, gen, credentials.Pair{AccessToken: rawToken})
}

// completeLogin persists the credential pair and fetches the profile.
// The pair must be written before the fetch: the request pipeline reads
// the freshly stored token to authorize that very call.
func (m *SessionManager) completeLogin(ctx context.Context, gen uint64, pair credentials.Pair) (*api.UserProfile, error) {
	m.mu.Lock()
	if gen != m.generation {
		m.mu.Unlock()
		return nil, SessionReplacedErr
	}
	if err := credentials.SavePair(m.store, pair); err != nil {
		// Never leave a partial credential pair behind.
		if clearErr := credentials.ClearPair(m.store); clearErr != nil {
			m.logger.Error().Err(clearErr).Msg("clearing credential store failed")
		}
		m.session = Session{Status: StatusAnonymous}
		m.mu.Unlock()
		return nil, fmt.Errorf("persist credentials: %w", err)
	}
	m.session.AccessToken = pair.AccessToken
	m.session.RefreshToken = pair.RefreshToken
	m.mu.Unlock()

	profile, err := m.api.CurrentUser(ctx)
	if err != nil {
		m.discardSession(gen)
		return nil, fmt.Errorf("fetch current user: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.generation {
		return nil, SessionReplacedErr
	}
	m.session = Session{
		Status:       StatusAuthenticated,
		User:         profile,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}
	m.expiredNotified = false
	m.notify(Event{Status: StatusAuthenticated, User: profile})
	m.logger.Info().Str("user", profile.Email).Msg("session established")
	return profile, nil
}

// Logout ends the session. The remote call is best effort: local state
// clears no matter what, so a network failure can never leave the client
// stuck authenticated. Calling it while anonymous is a no-op.
func (m *SessionManager) Logout(ctx context.Context) {
	m.flight.Do(logoutFlightKey, func() (any, error) {
		m.doLogout(ctx)
		return nil, nil
	})
}

func (m *SessionManager) doLogout(ctx context.Context) {
	m.mu.Lock()
	if m.session.Status == StatusAnonymous {
		m.mu.Unlock()
		return
	}
	// Advance the generation so any login or refresh still in flight is
	// discarded when it resolves instead of resurrecting credentials.
	m.generation++
	m.mu.Unlock()

	if err := m.api.Logout(ctx); err != nil {
		m.logger.Warn().Err(err).Msg("remote logout failed")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := credentials.ClearPair(m.store); err != nil {
		m.logger.Error().Err(err).Msg("clearing credential store failed")
	}
	m.session = Session{Status: StatusAnonymous}
	m.notify(Event{Status: StatusAnonymous})
	m.logger.Info().Msg("session ended")
}

// Resume reconstructs the session from durable storage at startup. With
// no stored token it stays anonymous; with an expiring token it refreshes
// first; any failure clears storage and settles on anonymous. Resume is a
// login-class operation: it shares the login flight, so a resume and a
// login can never interleave their session writes.
func (m *SessionManager) Resume(ctx context.Context) error {
	_, err, _ := m.flight.Do(loginFlightKey, func() (any, error) {
		return m.doResume(ctx)
	})
	return err
}

func (m *SessionManager) doResume(ctx context.Context) (*api.UserProfile, error) {
	pair := credentials.LoadPair(m.store)
	if pair.AccessToken == "" {
		return nil, nil
	}

	m.mu.Lock()
	m.generation++
	gen := m.generation
	m.session = Session{
		Status:       StatusAuthenticating,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}
	m.mu.Unlock()

	if m.inspector.IsExpiring(pair.AccessToken) {
		if pair.RefreshToken == "" {
			// Expired beyond recovery.
			m.discardSession(gen)
			return nil, nil
		}
		if err := m.refresh(ctx); err != nil {
			m.discardSession(gen)
			return nil, fmt.Errorf("resume refresh: %w", err)
		}
	}

	profile, err := m.api.CurrentUser(ctx)
	if err != nil {
		m.discardSession(gen)
		return nil, fmt.Errorf("resume profile fetch: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.generation {
		return nil, SessionReplacedErr
	}
	// The refresh above may have rotated the stored pair.
	pair = credentials.LoadPair(m.store)
	m.session = Session{
		Status:       StatusAuthenticated,
		User:         profile,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}
	m.expiredNotified = false
	m.notify(Event{Status: StatusAuthenticated, User: profile})
	m.logger.Info().Str("user", profile.Email).Msg("session resumed")
	return profile, nil
}

// refresh performs a silent token refresh. The periodic check, the
// pipeline's 401 signal, and the token source all converge here; the
// single flight guarantees one outstanding refresh call at a time.
func (m *SessionManager) refresh(ctx context.Context) error {
	_, err, _ := m.flight.Do(refreshFlightKey, func() (any, error) {
		return nil, m.doRefresh(ctx)
	})
	return err
}

func (m *SessionManager) doRefresh(ctx context.Context) error {
	m.mu.Lock()
	gen := m.generation
	status := m.session.Status
	refreshToken := m.session.RefreshToken
	m.mu.Unlock()

	if status == StatusAnonymous {
		return NotAuthenticatedErr
	}
	if refreshToken == "" {
		m.expireSession(gen)
		return RefreshRejectedErr
	}

	tokenResp, err := m.api.RefreshToken(ctx, refreshToken)
	if err != nil {
		if api.IsClientError(err) {
			m.logger.Warn().Err(err).Msg("refresh token rejected")
			m.expireSession(gen)
			return RefreshRejectedErr
		}
		// Transient failure: a network blip must not log the user out
		// while a still-valid token exists locally.
		return fmt.Errorf("refresh: %w", err)
	}

	accessToken := utils.Value(tokenResp.AccessToken)
	if accessToken == "" {
		m.expireSession(gen)
		return MissingAccessTokenErr
	}
	newRefreshToken := utils.Value(tokenResp.RefreshToken)
	if newRefreshToken == "" {
		newRefreshToken = refreshToken
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.generation {
		// A logout or newer login raced this refresh; do not resurrect
		// stale credentials.
		return SessionReplacedErr
	}
	if err := credentials.SavePair(m.store, credentials.Pair{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}); err != nil {
		return fmt.Errorf("persist refreshed credentials: %w", err)
	}
	m.session.AccessToken = accessToken
	m.session.RefreshToken = newRefreshToken
	m.logger.Debug().Msg("access token refreshed")
	return nil
}

// handleUnauthorized is the request pipeline's 401 hook. It attempts
// exactly one refresh and reports whether the request may be retried.
func (m *SessionManager) handleUnauthorized(ctx context.Context) bool {
	m.mu.Lock()
	gen := m.generation
	status := m.session.Status
	hasRefreshToken := m.session.RefreshToken != ""
	m.mu.Unlock()

	if status != StatusAuthenticated {
		return false
	}
	if !hasRefreshToken {
		// The bearer token was rejected and there is nothing to refresh
		// with; the session is over.
		m.expireSession(gen)
		return false
	}
	if err := m.refresh(ctx); err != nil {
		// A terminal rejection has already run the cascade.
		return false
	}
	return true
}

// beginAuthenticating advances the generation so anything still in
// flight from the previous session is discarded when it resolves, marks
// the session as in flight, and returns the new generation.
func (m *SessionManager) beginAuthenticating() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generation++
	m.session = Session{Status: StatusAuthenticating}
	return m.generation
}

// expireSession is the terminal cascade for an involuntary session loss:
// StatusRefreshFailed resolves to StatusAnonymous before the lock is
// released, the store is cleared, and the expiry notification fires at
// most once until the next successful login.
func (m *SessionManager) expireSession(gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.generation || m.session.Status == StatusAnonymous {
		return
	}
	m.session.Status = StatusRefreshFailed
	m.generation++
	if err := credentials.ClearPair(m.store); err != nil {
		m.logger.Error().Err(err).Msg("clearing credential store failed")
	}
	m.session = Session{Status: StatusAnonymous}
	if !m.expiredNotified {
		m.expiredNotified = true
		m.notify(Event{Status: StatusAnonymous, SessionExpired: true})
		m.logger.Info().Msg("session expired")
	}
}

// revertToAnonymous unwinds a failed login attempt that never wrote to
// the store.
func (m *SessionManager) revertToAnonymous(gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.generation || m.session.Status != StatusAuthenticating {
		return
	}
	m.session = Session{Status: StatusAnonymous}
}

// discardSession clears storage and settles on anonymous without the
// expiry notification; used when an attempt to establish a session
// fails partway.
func (m *SessionManager) discardSession(gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.generation {
		return
	}
	if err := credentials.ClearPair(m.store); err != nil {
		m.logger.Error().Err(err).Msg("clearing credential store failed")
	}
	m.session = Session{Status: StatusAnonymous}
}

func (m *SessionManager) refreshLoop() {
	ticker := time.NewTicker(m.checkInterval)
	defer ticker.Stop()
	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			m.checkExpiry()
		}
	}
}

// checkExpiry is the periodic half of the refresh machinery. It may race
// the pipeline's reactive path; both funnel into the same single-flight
// refresh.
func (m *SessionManager) checkExpiry() {
	m.mu.Lock()
	status := m.session.Status
	accessToken := m.session.AccessToken
	m.mu.Unlock()

	if status != StatusAuthenticated {
		return
	}
	if !m.inspector.IsExpiring(accessToken) {
		return
	}
	if err := m.refresh(context.Background()); err != nil {
		m.logger.Warn().Err(err).Msg("periodic token refresh failed")
	}
}
