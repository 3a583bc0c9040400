package core

import (
	"sort"
	"strings"
	"time"
)

// MaxUsernameLen bounds usernames at the join boundary.
const MaxUsernameLen = 20

// Session is one connected client's identity and current room.
type Session struct {
	ID       string
	Username string
	Room     string
	JoinedAt time.Time

	seq uint64 // join order tiebreaker
}

// SessionRegistry maps session ids to identities and rooms. It is the
// single source of truth for who is online and where. Not safe for
// concurrent use; the hub loop is its only caller.
type SessionRegistry struct {
	sessions map[string]*Session
	nextSeq  uint64
}

// NewSessionRegistry constructs an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[string]*Session)}
}

// Register creates a session for id. Registering an existing id again
// is a no-op returning the existing session. The username is trimmed
// and must be non-empty and at most MaxUsernameLen characters.
func (r *SessionRegistry) Register(id, username, room string) (*Session, error) {
	if existing, ok := r.sessions[id]; ok {
		return existing, nil
	}

	username = strings.TrimSpace(username)
	if username == "" || len([]rune(username)) > MaxUsernameLen {
		return nil, ErrInvalidUsername
	}

	r.nextSeq++
	s := &Session{
		ID:       id,
		Username: username,
		Room:     room,
		JoinedAt: time.Now().UTC(),
		seq:      r.nextSeq,
	}
	r.sessions[id] = s
	return s, nil
}

// Get returns the session for id, or nil if it never joined.
func (r *SessionRegistry) Get(id string) *Session {
	return r.sessions[id]
}

// UpdateRoom moves a session to a different room.
func (r *SessionRegistry) UpdateRoom(id, room string) error {
	s, ok := r.sessions[id]
	if !ok {
		return ErrUnknownSession
	}
	s.Room = room
	return nil
}

// Unregister removes a session. Removing an unknown id is a no-op.
func (r *SessionRegistry) Unregister(id string) {
	delete(r.sessions, id)
}

// ListByRoom returns copies of the sessions currently in room,
// ordered by join time.
func (r *SessionRegistry) ListByRoom(room string) []Session {
	var out []Session
	for _, s := range r.sessions {
		if s.Room == room {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

// List returns copies of all sessions, ordered by join time.
func (r *SessionRegistry) List() []Session {
	out := make([]Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}
