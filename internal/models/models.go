// Package models defines the core domain types for robodesk.
//
// Every entity that the board, calendar and analysis views persist is declared here
// together with the closed enumerations that constrain it. Parsing never has side effects.
package models

import "time"

// Action is the kind of authentication event recorded in the activity log.
type Action string

const (
	ActionLogin  Action = "login"
	ActionLogout Action = "logout"
)

// ActivityEntry is one record of the authentication audit trail.
type ActivityEntry struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Action    Action    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is a read-only view of the current authentication state.
type Session struct {
	IsAuthenticated bool   `json:"isAuthenticated"`
	Username        string `json:"username,omitempty"`
	Loading         bool   `json:"loading"`
}
