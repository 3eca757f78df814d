package auth

import (
	"crypto/subtle"
	"fmt"
	"sort"
)

// Member is one roster entry as it appears in configuration.
type Member struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Admin    bool   `yaml:"admin"`
}

// Roster is the fixed set of users allowed to sign in. It cannot change after construction.
type Roster struct {
	secrets   map[string]string
	usernames []string
	admins    []string
}

// NewRoster builds an immutable roster from members.
func NewRoster(members []Member) (*Roster, error) {
	r := &Roster{secrets: make(map[string]string, len(members))}
	for _, m := range members {
		if m.Username == "" {
			return nil, fmt.Errorf("roster: empty username")
		}
		if _, dup := r.secrets[m.Username]; dup {
			return nil, fmt.Errorf("roster: duplicate username %q", m.Username)
		}
		r.secrets[m.Username] = m.Password
		r.usernames = append(r.usernames, m.Username)
		if m.Admin {
			r.admins = append(r.admins, m.Username)
		}
	}
	sort.Strings(r.usernames)
	sort.Strings(r.admins)
	return r, nil
}

// DefaultMembers is the roster used when configuration does not provide one.
func DefaultMembers() []Member {
	return []Member{
		{Username: "Davi", Password: "jesuscura10", Admin: true},
	}
}

// DefaultRoster returns the built-in roster.
func DefaultRoster() *Roster {
	r, err := NewRoster(DefaultMembers())
	if err != nil {
		panic(err)
	}
	return r
}

// Usernames returns every valid username, sorted.
func (r *Roster) Usernames() []string {
	return append([]string(nil), r.usernames...)
}

// Admins returns the usernames with administrative privilege, sorted.
func (r *Roster) Admins() []string {
	return append([]string(nil), r.admins...)
}

// Has reports whether username is on the roster.
func (r *Roster) Has(username string) bool {
	_, ok := r.secrets[username]
	return ok
}

// IsAdmin reports whether username has administrative privilege.
func (r *Roster) IsAdmin(username string) bool {
	i := sort.SearchStrings(r.admins, username)
	return i < len(r.admins) && r.admins[i] == username
}

// Verify compares password against the stored plaintext secret.
// Secrets are not hashed; the comparison is exact and case-sensitive.
func (r *Roster) Verify(username, password string) bool {
	secret, ok := r.secrets[username]
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(secret), []byte(password)) == 1
}
