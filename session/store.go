// Package session keeps the authentication token and role between requests.
// A remembered session is written to a YAML file next to the config; a
// non-remembered one lives only for the current invocation.
package session

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/frvega/conversor-go/types"
)

// ErrNoSession means a protected command ran without a stored login.
var ErrNoSession = errors.New("no active session, please login first")

// Store owns the current session and its on-disk location.
type Store struct {
	path string
	sess types.Session
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the persisted session if one exists. A missing file just means
// nobody is logged in.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read session file: %v", err)
	}
	var sess types.Session
	if err := yaml.Unmarshal(data, &sess); err != nil {
		return fmt.Errorf("failed to parse session file: %v", err)
	}
	s.sess = sess
	return nil
}

// Set replaces the in-memory session. Nothing touches disk until Persist.
func (s *Store) Set(token, role string, remember bool) {
	s.sess = types.Session{Token: token, Role: role, Remember: remember}
}

// Persist writes the session to disk when it was created with remember;
// otherwise it is a no-op and the session dies with the process.
func (s *Store) Persist() error {
	if !s.sess.Remember {
		return nil
	}
	data, err := yaml.Marshal(s.sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %v", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %v", err)
	}
	return nil
}

// Clear wipes the in-memory session and deletes the session file. Called on
// logout and whenever a protected call answers with session expiry.
func (s *Store) Clear() error {
	s.sess = types.Session{}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %v", err)
	}
	return nil
}

// Require returns the token or ErrNoSession. Every protected command calls
// it before doing anything else.
func (s *Store) Require() (string, error) {
	if s.sess.Token == "" {
		return "", ErrNoSession
	}
	return s.sess.Token, nil
}

func (s *Store) Token() string { return s.sess.Token }
func (s *Store) Role() string  { return s.sess.Role }

// IsAdmin reports whether the stored role unlocks the log view.
func (s *Store) IsAdmin() bool { return s.sess.Role == types.RoleAdmin }
