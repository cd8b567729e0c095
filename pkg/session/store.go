// Package session holds the client-side identity: the bearer token, the
// server-assigned role and the user record, mirrored into a Backend.
package session

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/worksy/marketplace/pkg/client"
)

// Persisted keys.
const (
	KeyRole     = "role"
	KeyToken    = "token"
	KeyUser     = "user"
	KeyProfile  = "profile"
	KeyReturnTo = "returnTo"
)

// Session is a snapshot of the current identity. The zero value is logged out.
type Session struct {
	Token string
	Role  string
	User  *client.User
}

// Authenticated reports whether token, role and user are all present.
func (s Session) Authenticated() bool {
	return s.Token != "" && s.Role != "" && s.User != nil
}

// Store is the single place that reads and writes the session. It is safe for
// concurrent use; subscribers run after the lock is released.
type Store struct {
	mu      sync.Mutex
	backend Backend
	current Session
	subs    map[int]func(Session)
	nextSub int
}

// Open builds a Store and loads whatever the backend holds.
func Open(backend Backend) *Store {
	s := &Store{backend: backend, subs: make(map[int]func(Session))}
	s.Load()
	return s
}

// Load re-reads role, token and user from the backend. Missing, unreadable
// or corrupt entries come back empty, and a token without both role and
// user is dropped so the loaded session is either complete or logged out.
func (s *Store) Load() Session {
	loaded := Session{
		Token: s.getString(KeyToken),
		Role:  s.getString(KeyRole),
	}
	if raw := s.getString(KeyUser); raw != "" {
		var u client.User
		if json.Unmarshal([]byte(raw), &u) == nil {
			loaded.User = &u
		}
	}
	if loaded.Token != "" && !loaded.Authenticated() {
		loaded = Session{}
	}

	s.mu.Lock()
	s.current = loaded
	s.mu.Unlock()
	return loaded
}

// Current returns a copy of the in-memory session.
func (s *Store) Current() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Token satisfies client.WithTokenSource.
func (s *Store) Token() string {
	return s.Current().Token
}

// SetToken updates the token alone. An empty token deletes the entry.
func (s *Store) SetToken(token string) error {
	return s.update(func(cur *Session) error {
		cur.Token = token
		return s.putString(KeyToken, token)
	})
}

// SetRole updates the role alone. An empty role deletes the entry.
func (s *Store) SetRole(role string) error {
	return s.update(func(cur *Session) error {
		cur.Role = role
		return s.putString(KeyRole, role)
	})
}

// SetUser updates the user alone. A nil user deletes the entry.
func (s *Store) SetUser(u *client.User) error {
	return s.update(func(cur *Session) error {
		cur.User = u
		return s.putUser(u)
	})
}

// SetSession replaces all three fields at once and notifies subscribers once.
// The backend receives them as one SetMany call.
func (s *Store) SetSession(next Session) error {
	return s.update(func(cur *Session) error {
		*cur = next
		userJSON, err := encodeUser(next.User)
		if err != nil {
			return err
		}
		err = s.backend.SetMany(map[string]string{
			KeyToken: next.Token,
			KeyRole:  next.Role,
			KeyUser:  userJSON,
		})
		if err != nil {
			return fmt.Errorf("persist session: %w", err)
		}
		return nil
	})
}

// Clear logs out: token, role and user are removed together.
func (s *Store) Clear() error {
	return s.SetSession(Session{})
}

// Subscribe registers fn to run after every change. The returned function
// removes it.
func (s *Store) Subscribe(fn func(Session)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Profile returns the cached profile document, or nil.
func (s *Store) Profile() json.RawMessage {
	raw := s.getString(KeyProfile)
	if raw == "" || !json.Valid([]byte(raw)) {
		return nil
	}
	return json.RawMessage(raw)
}

func (s *Store) SetProfile(doc json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(doc) == 0 {
		return s.putString(KeyProfile, "")
	}
	if !json.Valid(doc) {
		return fmt.Errorf("set profile: invalid JSON")
	}
	return s.putString(KeyProfile, string(doc))
}

// SetReturnTo remembers where a redirected visit was headed.
func (s *Store) SetReturnTo(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.putString(KeyReturnTo, path)
}

// TakeReturnTo returns the remembered location and forgets it.
func (s *Store) TakeReturnTo() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	path := s.getString(KeyReturnTo)
	if path != "" {
		_ = s.backend.Delete(KeyReturnTo)
	}
	return path
}

// update applies fn under the lock. Memory is updated even if persisting
// fails; the error is returned and subscribers still see the new state.
func (s *Store) update(fn func(cur *Session) error) error {
	s.mu.Lock()
	next := s.current
	err := fn(&next)
	s.current = next
	subs := make([]func(Session), 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub(next)
	}
	return err
}

func (s *Store) getString(key string) string {
	v, ok, err := s.backend.Get(key)
	if err != nil || !ok {
		return ""
	}
	return v
}

func (s *Store) putString(key, value string) error {
	if value == "" {
		if err := s.backend.Delete(key); err != nil {
			return fmt.Errorf("delete %s: %w", key, err)
		}
		return nil
	}
	if err := s.backend.Set(key, value); err != nil {
		return fmt.Errorf("persist %s: %w", key, err)
	}
	return nil
}

func (s *Store) putUser(u *client.User) error {
	raw, err := encodeUser(u)
	if err != nil {
		return err
	}
	return s.putString(KeyUser, raw)
}

// encodeUser returns "" for a nil user, which deletes the entry.
func encodeUser(u *client.User) (string, error) {
	if u == nil {
		return "", nil
	}
	raw, err := json.Marshal(u)
	if err != nil {
		return "", fmt.Errorf("encode user: %w", err)
	}
	return string(raw), nil
}
