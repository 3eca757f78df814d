// Package auth provides the session manager for robodesk.
//
// A Manager owns the signed-in user. It checks credentials against a fixed Roster,
// persists the session marker through a key-value Storage, records login and logout
// events in the activity log and tells a Navigator where the front end should go next.
package auth

import (
	"context"
	"sync"

	"github.com/fentz26/robodesk/internal/models"
	"github.com/sirupsen/logrus"
)

// Persisted session keys.
const (
	KeyUsername        = "username"
	KeyAuthenticated   = "isAuthenticated"
	authenticatedValue = "true"
)

// Storage is the durable key-value surface holding the session marker.
// SetAll and DeleteAll must be atomic.
type Storage interface {
	Get(key string) (string, bool, error)
	SetAll(pairs map[string]string) error
	DeleteAll(keys ...string) error
}

// ActivityRecorder appends audit entries without ever failing the caller.
type ActivityRecorder interface {
	Record(username string, action models.Action) *models.ActivityEntry
}

// State is the session lifecycle stage.
type State int

const (
	StateLoading State = iota
	StateUnauthenticated
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Manager handles authentication state for one process.
type Manager struct {
	roster   *Roster
	storage  Storage
	activity ActivityRecorder
	nav      Navigator
	logger   logrus.FieldLogger

	mu       sync.RWMutex
	state    State
	username string

	restoreOnce sync.Once
	ready       chan struct{}
}

// Option configures a Manager.
type Option func(*Manager)

// WithNavigator sets the redirect target for login and logout.
func WithNavigator(nav Navigator) Option {
	return func(m *Manager) {
		if nav != nil {
			m.nav = nav
		}
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a manager in the Loading state. Call Start or Restore to resolve it.
func NewManager(roster *Roster, storage Storage, activity ActivityRecorder, opts ...Option) *Manager {
	m := &Manager{
		roster:   roster,
		storage:  storage,
		activity: activity,
		nav:      noopNavigator{},
		logger:   logrus.StandardLogger(),
		state:    StateLoading,
		ready:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.WithField("component", "auth")
	return m
}

// Start resolves the persisted session in the background.
func (m *Manager) Start() {
	go m.Restore()
}

// Restore resolves the persisted session once. Later calls wait for the first to finish.
func (m *Manager) Restore() {
	m.restoreOnce.Do(m.restore)
}

// Ready is closed once the boot-time restore has completed.
func (m *Manager) Ready() <-chan struct{} {
	return m.ready
}

// Wait blocks until the restore completes or ctx is done.
func (m *Manager) Wait(ctx context.Context) error {
	select {
	case <-m.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// restore never writes an activity entry: restoring is not a login.
func (m *Manager) restore() {
	username, ok := m.loadPersisted()

	m.mu.Lock()
	if ok {
		m.state = StateAuthenticated
		m.username = username
	} else {
		m.state = StateUnauthenticated
		m.username = ""
	}
	m.mu.Unlock()
	close(m.ready)

	if ok {
		m.logger.WithField("username", username).Info("session restored")
	} else {
		m.logger.Debug("no session to restore")
	}
}

func (m *Manager) loadPersisted() (string, bool) {
	username, hasUser, err := m.storage.Get(KeyUsername)
	if err != nil {
		m.logPersistence(&PersistenceError{Op: "restore", Key: KeyUsername, Err: err})
		return "", false
	}
	marker, hasMarker, err := m.storage.Get(KeyAuthenticated)
	if err != nil {
		m.logPersistence(&PersistenceError{Op: "restore", Key: KeyAuthenticated, Err: err})
		return "", false
	}
	if !hasUser && !hasMarker {
		return "", false
	}
	if hasUser && hasMarker && marker == authenticatedValue && m.roster.Has(username) {
		return username, true
	}

	m.logger.WithField("username", username).Info("discarding stale session")
	if err := m.storage.DeleteAll(KeyUsername, KeyAuthenticated); err != nil {
		m.logPersistence(&PersistenceError{Op: "clear stale session", Err: err})
	}
	return "", false
}

// Login signs username in and reports whether the credentials matched.
func (m *Manager) Login(username, password string) bool {
	return m.Authenticate(username, password) == nil
}

// Authenticate signs username in or returns ErrInvalidCredentials with no state change.
// Signing in while another user is signed in replaces that session.
func (m *Manager) Authenticate(username, password string) error {
	m.Restore()

	if !m.roster.Verify(username, password) {
		m.logger.Info("login rejected")
		return ErrInvalidCredentials
	}

	m.mu.Lock()
	previous := m.username
	m.state = StateAuthenticated
	m.username = username
	err := m.storage.SetAll(map[string]string{
		KeyUsername:      username,
		KeyAuthenticated: authenticatedValue,
	})
	m.mu.Unlock()

	if err != nil {
		m.logPersistence(&PersistenceError{Op: "persist session", Err: err})
	}
	if previous != "" && previous != username {
		m.logger.WithFields(logrus.Fields{"username": username, "previous": previous}).Info("re-authenticated as another user")
	}
	m.activity.Record(username, models.ActionLogin)
	m.logger.WithField("username", username).Info("signed in")

	m.nav.Navigate(RouteHome)
	return nil
}

// Logout ends the session. It is safe to call without one.
func (m *Manager) Logout() {
	m.Restore()

	m.mu.Lock()
	username := m.username
	persisted, ok, err := m.storage.Get(KeyUsername)
	switch {
	case err != nil:
		m.logPersistence(&PersistenceError{Op: "logout", Key: KeyUsername, Err: err})
	case ok && persisted != "":
		username = persisted
	}

	if username != "" {
		m.activity.Record(username, models.ActionLogout)
	}
	if err := m.storage.DeleteAll(KeyUsername, KeyAuthenticated); err != nil {
		m.logPersistence(&PersistenceError{Op: "clear session", Err: err})
	}
	m.state = StateUnauthenticated
	m.username = ""
	m.mu.Unlock()

	if username != "" {
		m.logger.WithField("username", username).Info("signed out")
	}
	m.nav.Navigate(RouteLogin)
}

// Session returns a consistent snapshot of the session.
func (m *Manager) Session() models.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return models.Session{
		IsAuthenticated: m.state == StateAuthenticated,
		Username:        m.username,
		Loading:         m.state == StateLoading,
	}
}

// State returns the current lifecycle stage.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// IsAuthenticated reports whether a user is signed in.
func (m *Manager) IsAuthenticated() bool {
	return m.State() == StateAuthenticated
}

// Username returns the signed-in user, or "".
func (m *Manager) Username() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.username
}

// IsAdmin reports whether the signed-in user has administrative privilege.
func (m *Manager) IsAdmin() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state == StateAuthenticated && m.roster.IsAdmin(m.username)
}

// Roster returns the roster the manager checks against.
func (m *Manager) Roster() *Roster {
	return m.roster
}

func (m *Manager) logPersistence(err *PersistenceError) {
	m.logger.WithError(err).Warn("session storage failure")
}
