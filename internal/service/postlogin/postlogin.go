// Package postlogin routes the user to their landing page once a session
// resolves. Administrators land on the admin page, everyone else on the
// student dashboard.
package postlogin

import (
	"log/slog"
	"sync"

	"github.com/cafetec/cafetec-client/internal/domain/auth"
	"github.com/cafetec/cafetec-client/internal/ports"
	"github.com/cafetec/cafetec-client/internal/service/session"
)

// Router observes the session and pushes the role-appropriate landing route
// exactly once per resolution. It never navigates while the session is still
// loading, and a resolution to an absent session navigates nowhere.
type Router struct {
	nav    ports.Navigator
	logger *slog.Logger

	mu     sync.Mutex
	armed  bool
	cancel func()
}

// NewRouter mounts the router on the given session. Call Close on teardown.
func NewRouter(sessions *session.Manager, nav ports.Navigator, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Router{
		nav:    nav,
		logger: logger,
		armed:  sessions.Snapshot().Loading,
	}
	r.cancel = sessions.Subscribe(r.observe)
	return r
}

// Close unsubscribes the router from session changes.
func (r *Router) Close() {
	r.cancel()
}

// Destination returns the landing route for a resolved session.
func Destination(roles auth.RoleSet) ports.Route {
	if roles.Has(auth.RoleAdministrator) {
		return ports.RouteAdminLanding
	}
	return ports.RouteStudentDashboard
}

func (r *Router) observe(s auth.Session) {
	r.mu.Lock()
	if s.Loading {
		r.armed = true
		r.mu.Unlock()
		return
	}
	if !r.armed {
		r.mu.Unlock()
		return
	}
	r.armed = false
	r.mu.Unlock()

	if !s.Authenticated() {
		return
	}

	route := Destination(s.Roles)
	r.logger.Debug("routing after login", "route", string(route))
	r.nav.Push(route)
}
