// Package session establishes and exposes who the current user is and what
// they can do, synchronized with the single persisted auth token.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cafetec/cafetec-client/internal/domain/auth"
	"github.com/cafetec/cafetec-client/internal/ports"
)

// ErrLoginInFlight is returned when a login is already outstanding. The UI
// disables the submit affordance, but a double trigger must still be safe.
var ErrLoginInFlight = errors.New("login already in progress")

const defaultRestoreTimeout = 10 * time.Second

// Listener receives every session state change.
type Listener func(auth.Session)

// ManagerOptions groups dependencies for Manager.
type ManagerOptions struct {
	API    ports.AuthAPI
	Store  ports.StateStore
	Logger *slog.Logger

	// RestoreTimeout bounds the silent profile fetch at boot.
	RestoreTimeout time.Duration
}

// Manager owns the session lifecycle: silent restore at boot, login,
// registration, and logout. It starts in the loading state and resolves to
// either an authenticated or an absent session exactly once per trigger.
type Manager struct {
	api            ports.AuthAPI
	store          ports.StateStore
	logger         *slog.Logger
	restoreTimeout time.Duration

	restoreOnce sync.Once

	mu        sync.Mutex
	token     string
	cur       auth.Session
	loginBusy bool
	subs      map[int]Listener
	nextSub   int
}

// NewManager constructs a Manager in the loading state.
func NewManager(opts ManagerOptions) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := opts.RestoreTimeout
	if timeout <= 0 {
		timeout = defaultRestoreTimeout
	}
	return &Manager{
		api:            opts.API,
		store:          opts.Store,
		logger:         logger,
		restoreTimeout: timeout,
		cur:            auth.Session{Loading: true, Roles: auth.RoleSet{}},
		subs:           make(map[int]Listener),
	}
}

// Snapshot returns the current session state.
func (m *Manager) Snapshot() auth.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cur
}

// Token returns the current credential, if any.
func (m *Manager) Token() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.token != ""
}

// Subscribe registers a listener for session changes and returns its
// cancel function. The listener is invoked synchronously on every change.
func (m *Manager) Subscribe(fn Listener) func() {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// setState replaces the session state and notifies listeners outside the lock.
func (m *Manager) setState(token string, s auth.Session) {
	m.mu.Lock()
	m.token = token
	m.cur = s
	listeners := make([]Listener, 0, len(m.subs))
	for _, fn := range m.subs {
		listeners = append(listeners, fn)
	}
	m.mu.Unlock()
	for _, fn := range listeners {
		fn(s)
	}
}

func absent() auth.Session {
	return auth.Session{Roles: auth.RoleSet{}}
}

// Restore attempts a silent session restore from the stored token. It runs
// at most once per process and never returns an error: any failure means the
// token is discarded and the session resolves to absent. The profile fetch is
// bounded so a hanging backend cannot keep guards checking forever.
func (m *Manager) Restore(ctx context.Context) {
	m.restoreOnce.Do(func() {
		token, err := m.store.Get(ctx, ports.StateKeyToken)
		if err != nil {
			if !errors.Is(err, ports.ErrStateNotFound) {
				m.logger.WarnContext(ctx, "reading stored token failed", "error", err)
			}
			m.setState("", absent())
			return
		}

		fetchCtx, cancel := context.WithTimeout(ctx, m.restoreTimeout)
		defer cancel()

		profile, roles, err := m.fetchProfile(fetchCtx, token)
		if err != nil {
			// Invalid or expired token: discard it, resolve to absent,
			// and stay silent. A failed silent login is not an error the
			// user should see.
			m.logger.InfoContext(ctx, "session restore failed, discarding token", "error", err)
			if removeErr := m.store.Remove(ctx, ports.StateKeyToken); removeErr != nil {
				m.logger.WarnContext(ctx, "removing stale token failed", "error", removeErr)
			}
			m.setState("", absent())
			return
		}

		m.setState(token, auth.Session{Profile: &profile, Roles: roles})
	})
}

// Login authenticates and establishes a session. The token is persisted
// before the profile fetch starts; if the profile fetch then fails, the token
// is discarded again so there is never a partial session. The returned error
// carries the server's display message.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	m.mu.Lock()
	if m.loginBusy {
		m.mu.Unlock()
		return ErrLoginInFlight
	}
	m.loginBusy = true
	prevToken, prev := m.token, m.cur
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.loginBusy = false
		m.mu.Unlock()
	}()

	m.setState(prevToken, auth.Session{Loading: true, Roles: auth.RoleSet{}})

	result, err := m.api.Login(ctx, email, password)
	if err != nil {
		// The stored token is untouched on a failed login.
		m.setState(prevToken, prev)
		return err
	}

	if err := m.store.Set(ctx, ports.StateKeyToken, result.Token); err != nil {
		m.setState(prevToken, prev)
		return fmt.Errorf("persist token: %w", err)
	}

	profile, roles, err := m.fetchProfile(ctx, result.Token)
	if err != nil {
		if removeErr := m.store.Remove(ctx, ports.StateKeyToken); removeErr != nil {
			m.logger.WarnContext(ctx, "removing token after failed profile fetch", "error", removeErr)
		}
		m.setState("", absent())
		return err
	}

	m.setState(result.Token, auth.Session{Profile: &profile, Roles: roles})
	return nil
}

// Register creates an account. It does not establish a session; the caller
// is expected to route to login.
func (m *Manager) Register(ctx context.Context, reg ports.Registration) error {
	return m.api.Register(ctx, reg)
}

// Logout discards the stored token and clears the session. It is idempotent.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.store.Remove(ctx, ports.StateKeyToken); err != nil {
		m.logger.WarnContext(ctx, "removing token on logout failed", "error", err)
	}
	m.setState("", absent())
}

func (m *Manager) fetchProfile(ctx context.Context, token string) (auth.Profile, auth.RoleSet, error) {
	profile, err := m.api.Profile(ctx, token)
	if err != nil {
		return auth.Profile{}, nil, err
	}
	return profile, auth.NormalizeRoles(profile.Raw), nil
}
