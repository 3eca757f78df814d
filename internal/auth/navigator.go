package auth

// Route names a view the front end can show.
type Route string

const (
	RouteLogin Route = "/login"
	// RouteHome is the default protected view shown after signing in.
	RouteHome Route = "/tasks"
)

// Navigator receives redirect signals after session state changes.
type Navigator interface {
	Navigate(route Route)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(Route)

func (f NavigatorFunc) Navigate(r Route) { f(r) }

type noopNavigator struct{}

func (noopNavigator) Navigate(Route) {}
