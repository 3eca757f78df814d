package tui

import (
	"sync"

	"github.com/fentz26/robodesk/internal/auth"
)

// Router records where the session manager last sent the front end.
type Router struct {
	mu    sync.Mutex
	route auth.Route
}

// NewRouter creates a router starting at the default protected view.
func NewRouter() *Router {
	return &Router{route: auth.RouteHome}
}

// Navigate implements auth.Navigator.
func (r *Router) Navigate(route auth.Route) {
	r.mu.Lock()
	r.route = route
	r.mu.Unlock()
}

// Current returns the last requested route.
func (r *Router) Current() auth.Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.route
}
