package main

import (
	"log/slog"

	"github.com/cafetec/cafetec-client/internal/ports"
)

// printNavigator satisfies ports.Navigator for a terminal frontend: there is
// no history stack, route changes are only surfaced in the log.
type printNavigator struct {
	logger *slog.Logger
}

func (n *printNavigator) Push(route ports.Route) {
	n.logger.Debug("navigate", "route", string(route))
}

func (n *printNavigator) Replace(route ports.Route) {
	n.logger.Debug("navigate", "route", string(route), "replace", true)
}
