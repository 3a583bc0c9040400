package core

// typingEntry pairs a session with its display name for one room.
type typingEntry struct {
	sessionID string
	username  string
}

// TypingTracker holds the per-room set of currently-typing users.
// Entries are ephemeral: removed on stop-typing, room change, and
// disconnect. Not safe for concurrent use; the hub loop is its only
// caller.
type TypingTracker struct {
	rooms map[string][]typingEntry
}

// NewTypingTracker constructs an empty tracker.
func NewTypingTracker() *TypingTracker {
	return &TypingTracker{rooms: make(map[string][]typingEntry)}
}

// Set adds or removes the room's typing entry for sessionID. Adding
// an existing entry refreshes its username in place.
func (t *TypingTracker) Set(room, sessionID, username string, isTyping bool) {
	if !isTyping {
		t.Clear(room, sessionID)
		return
	}
	for i, e := range t.rooms[room] {
		if e.sessionID == sessionID {
			t.rooms[room][i].username = username
			return
		}
	}
	t.rooms[room] = append(t.rooms[room], typingEntry{sessionID: sessionID, username: username})
}

// Clear removes the room's entry for sessionID, reporting whether an
// entry was actually removed.
func (t *TypingTracker) Clear(room, sessionID string) bool {
	entries := t.rooms[room]
	for i, e := range entries {
		if e.sessionID == sessionID {
			t.rooms[room] = append(entries[:i], entries[i+1:]...)
			return true
		}
	}
	return false
}

// List returns the usernames currently typing in room, in the order
// they started typing.
func (t *TypingTracker) List(room string) []string {
	entries := t.rooms[room]
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.username
	}
	return out
}
