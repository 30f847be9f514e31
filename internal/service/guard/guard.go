// Package guard gates access to a view subtree based on session state.
//
// A guard is a small state machine per mount: CHECKING while the session is
// loading, then exactly one transition to GRANTED or DENIED. A DENIED
// transition redirects (replacing history, not pushing) to the guard's
// fallback route. Guards stay subscribed to the session, so a later change
// such as logout re-enters CHECKING and re-evaluates.
package guard

import (
	"log/slog"
	"sync"

	"github.com/cafetec/cafetec-client/internal/domain/auth"
	"github.com/cafetec/cafetec-client/internal/ports"
	"github.com/cafetec/cafetec-client/internal/service/session"
)

// State is the guard's access decision for the current mount.
type State int

const (
	StateChecking State = iota
	StateDenied
	StateGranted
)

func (s State) String() string {
	switch s {
	case StateChecking:
		return "checking"
	case StateDenied:
		return "denied"
	case StateGranted:
		return "granted"
	default:
		return "unknown"
	}
}

// Options groups dependencies for a Guard.
type Options struct {
	Sessions  *session.Manager
	Navigator ports.Navigator
	Required  auth.Role
	Fallback  ports.Route
	Logger    *slog.Logger
}

// Guard gates one subtree behind a required role.
type Guard struct {
	required auth.Role
	fallback ports.Route
	nav      ports.Navigator
	logger   *slog.Logger

	mu     sync.Mutex
	state  State
	cancel func()
}

// New mounts a guard: it subscribes to session changes and evaluates the
// current state immediately. Call Close on teardown.
func New(opts Options) *Guard {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	g := &Guard{
		required: opts.Required,
		fallback: opts.Fallback,
		nav:      opts.Navigator,
		logger:   logger,
		state:    StateChecking,
	}
	g.cancel = opts.Sessions.Subscribe(g.evaluate)
	g.evaluate(opts.Sessions.Snapshot())
	return g
}

// NewAdmin guards the admin subtree; denied users land on the student
// dashboard.
func NewAdmin(sessions *session.Manager, nav ports.Navigator, logger *slog.Logger) *Guard {
	return New(Options{
		Sessions:  sessions,
		Navigator: nav,
		Required:  auth.RoleAdministrator,
		Fallback:  ports.RouteStudentDashboard,
		Logger:    logger,
	})
}

// NewStudent guards the student subtree; denied users land on the login page.
func NewStudent(sessions *session.Manager, nav ports.Navigator, logger *slog.Logger) *Guard {
	return New(Options{
		Sessions:  sessions,
		Navigator: nav,
		Required:  auth.RoleStudent,
		Fallback:  ports.RouteLogin,
		Logger:    logger,
	})
}

// State returns the current access decision.
func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Close unsubscribes the guard from session changes.
func (g *Guard) Close() {
	g.cancel()
}

func (g *Guard) evaluate(s auth.Session) {
	g.mu.Lock()

	if s.Loading {
		// No navigation while checking.
		g.state = StateChecking
		g.mu.Unlock()
		return
	}

	if s.Profile == nil || !s.Roles.Has(g.required) {
		alreadyDenied := g.state == StateDenied
		g.state = StateDenied
		g.mu.Unlock()
		if !alreadyDenied {
			g.logger.Debug("access denied", "required", string(g.required), "fallback", string(g.fallback))
			g.nav.Replace(g.fallback)
		}
		return
	}

	g.state = StateGranted
	g.mu.Unlock()
}
