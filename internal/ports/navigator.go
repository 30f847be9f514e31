package ports

// Route identifies one of the fixed navigation targets of the client.
type Route string

const (
	RouteLogin            Route = "login"
	RouteRegister         Route = "register"
	RouteAdminLanding     Route = "admin-landing"
	RouteStudentDashboard Route = "student-dashboard"
	RouteUnauthenticated  Route = "unauthenticated-fallback"
)

// Navigator performs view navigation for guards and the post-login router.
type Navigator interface {
	// Push navigates to route, adding a history entry.
	Push(route Route)
	// Replace navigates to route, replacing the current history entry.
	Replace(route Route)
}
