// Package guard decides what a protected view may show for a given session.
package guard

import (
	"context"
	"time"

	"github.com/fentz26/robodesk/internal/auth"
	"github.com/fentz26/robodesk/internal/models"
)

// Decision is the outcome of checking a session before rendering a protected view.
type Decision int

const (
	// Placeholder means the boot-time restore has not finished yet.
	Placeholder Decision = iota
	// RedirectLogin means no user is signed in.
	RedirectLogin
	// Render means the protected view may be shown.
	Render
)

func (d Decision) String() string {
	switch d {
	case Placeholder:
		return "placeholder"
	case RedirectLogin:
		return "redirect-login"
	case Render:
		return "render"
	default:
		return "unknown"
	}
}

// Decide maps a session snapshot to a Decision.
func Decide(s models.Session) Decision {
	switch {
	case s.Loading:
		return Placeholder
	case !s.IsAuthenticated:
		return RedirectLogin
	default:
		return Render
	}
}

// SessionSource supplies session snapshots.
type SessionSource interface {
	Session() models.Session
}

// Route returns where the front end should be for the requested route.
// Unprotected routes are returned unchanged.
func Route(src SessionSource, requested auth.Route) (auth.Route, Decision) {
	if requested == auth.RouteLogin {
		if s := src.Session(); s.IsAuthenticated {
			return auth.RouteHome, Render
		}
		return auth.RouteLogin, Render
	}
	d := Decide(src.Session())
	if d == RedirectLogin {
		return auth.RouteLogin, d
	}
	return requested, d
}

// Await polls src until it leaves the loading state or ctx is done.
func Await(ctx context.Context, src SessionSource, interval time.Duration) (Decision, error) {
	if d := Decide(src.Session()); d != Placeholder {
		return d, nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return Placeholder, ctx.Err()
		case <-ticker.C:
			if d := Decide(src.Session()); d != Placeholder {
				return d, nil
			}
		}
	}
}
