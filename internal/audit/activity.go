// Package audit records the authentication activity log for robodesk.
//
// The log lives under a single key as a JSON array, newest entry first. It grows
// without bound; retention is left to whoever owns the storage.
package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fentz26/robodesk/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Key is the storage key holding the serialized log.
const Key = "activityLog"

// Storage is the key-value surface the log persists through.
type Storage interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// Log appends and reads activity entries.
type Log struct {
	storage Storage
	logger  logrus.FieldLogger
	now     func() time.Time
	newID   func() string
}

// Option configures a Log.
type Option func(*Log)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(l *Log) { l.now = now }
}

// WithIDs overrides the entry ID generator.
func WithIDs(newID func() string) Option {
	return func(l *Log) { l.newID = newID }
}

// NewLog creates an activity log over storage.
func NewLog(storage Storage, logger logrus.FieldLogger, opts ...Option) *Log {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	l := &Log{
		storage: storage,
		logger:  logger.WithField("component", "audit"),
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Append prepends an entry for username and persists the log.
func (l *Log) Append(username string, action models.Action) (*models.ActivityEntry, error) {
	entries, err := l.read()
	if err != nil {
		return nil, err
	}

	entry := models.ActivityEntry{
		ID:        l.newID(),
		Username:  username,
		Action:    action,
		Timestamp: l.now().UTC(),
	}
	entries = append([]models.ActivityEntry{entry}, entries...)

	data, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("encode activity log: %w", err)
	}
	if err := l.storage.Set(Key, string(data)); err != nil {
		return nil, fmt.Errorf("write activity log: %w", err)
	}
	return &entry, nil
}

// Record is the best-effort form of Append: failures are logged and swallowed.
func (l *Log) Record(username string, action models.Action) *models.ActivityEntry {
	entry, err := l.Append(username, action)
	if err != nil {
		l.logger.WithFields(logrus.Fields{
			"username": username,
			"action":   action,
		}).WithError(err).Error("failed to record activity")
		return nil
	}
	l.logger.WithFields(logrus.Fields{
		"username": username,
		"action":   action,
	}).Debug("activity recorded")
	return entry
}

// Entries returns the whole log, newest first.
func (l *Log) Entries() ([]models.ActivityEntry, error) {
	return l.read()
}

// ForUser returns the entries recorded for username, newest first.
func (l *Log) ForUser(username string) ([]models.ActivityEntry, error) {
	entries, err := l.read()
	if err != nil {
		return nil, err
	}
	var out []models.ActivityEntry
	for _, e := range entries {
		if e.Username == username {
			out = append(out, e)
		}
	}
	return out, nil
}

// read loads the log. A corrupted payload reads as an empty log.
func (l *Log) read() ([]models.ActivityEntry, error) {
	raw, ok, err := l.storage.Get(Key)
	if err != nil {
		return nil, fmt.Errorf("read activity log: %w", err)
	}
	if !ok || raw == "" {
		return nil, nil
	}

	var entries []models.ActivityEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		l.logger.WithError(err).Warn("activity log is corrupted, starting from an empty log")
		return nil, nil
	}
	return entries, nil
}
