package core

import (
	"strings"
	"time"
)

const (
	// DefaultHistoryLimit is the per-room retention bound.
	DefaultHistoryLimit = 500
	// SearchResultLimit caps the number of search hits returned.
	SearchResultLimit = 50
)

// History is the per-room ordered message log, with reactions and
// read receipts attached to each entry. Logs are append-only and
// FIFO-bounded. Not safe for concurrent use; the hub loop is its
// only caller.
type History struct {
	limit int
	logs  map[string][]*Message
}

// NewHistory constructs a store retaining at most limit messages per
// room. A non-positive limit falls back to DefaultHistoryLimit.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{
		limit: limit,
		logs:  make(map[string][]*Message),
	}
}

// Append inserts msg at the tail of its room's log, evicting the
// oldest entry once the retention bound is exceeded.
func (h *History) Append(room string, msg *Message) {
	log := append(h.logs[room], msg)
	if len(log) > h.limit {
		log = log[len(log)-h.limit:]
	}
	h.logs[room] = log
}

// Find returns the message with the given id in room, or nil.
func (h *History) Find(room, id string) *Message {
	for _, m := range h.logs[room] {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// Len returns the number of retained messages in room.
func (h *History) Len(room string) int {
	return len(h.logs[room])
}

// List returns cloned copies of room's full log, oldest first.
func (h *History) List(room string) []*Message {
	return cloneMessages(h.logs[room])
}

// All returns cloned copies of every room's log, keyed by room name.
func (h *History) All() map[string][]*Message {
	out := make(map[string][]*Message, len(h.logs))
	for room, log := range h.logs {
		out[room] = cloneMessages(log)
	}
	return out
}

// Page returns the page-th slice of limit messages counted from the
// tail: page 0 is the most recent limit messages, page 1 the limit
// before that. hasMore reports whether older messages remain beyond
// the returned slice.
func (h *History) Page(room string, page, limit int) ([]*Message, bool) {
	log := h.logs[room]
	if limit <= 0 || page < 0 || len(log) == 0 {
		return nil, false
	}
	// Bound page before multiplying so a client-supplied index cannot
	// overflow the slice arithmetic.
	if page > (len(log)-1)/limit {
		return nil, false
	}

	end := len(log) - page*limit
	start := end - limit
	hasMore := start > 0
	if start < 0 {
		start = 0
	}
	return cloneMessages(log[start:end]), hasMore
}

// Search returns up to SearchResultLimit messages in room whose text
// contains query as a case-insensitive substring, newest first.
func (h *History) Search(room, query string) []*Message {
	query = strings.ToLower(query)
	log := h.logs[room]

	var hits []*Message
	for i := len(log) - 1; i >= 0 && len(hits) < SearchResultLimit; i-- {
		if strings.Contains(strings.ToLower(log[i].Text), query) {
			hits = append(hits, log[i].Clone())
		}
	}
	return hits
}

// AddReaction adds sessionID to the emoji's reactor set on the given
// message. Adding an already-present reactor is a no-op. Returns the
// updated reaction map (cloned) and false if the message is unknown.
func (h *History) AddReaction(room, id, emoji, sessionID string) (map[string][]string, bool) {
	msg := h.Find(room, id)
	if msg == nil {
		return nil, false
	}
	for _, existing := range msg.Reactions[emoji] {
		if existing == sessionID {
			return cloneReactions(msg.Reactions), true
		}
	}
	msg.Reactions[emoji] = append(msg.Reactions[emoji], sessionID)
	return cloneReactions(msg.Reactions), true
}

// RemoveReaction removes sessionID from the emoji's reactor set.
// Removing an absent reactor is a no-op. The emoji key is pruned once
// its set empties. Returns the updated reaction map (cloned) and
// false if the message is unknown.
func (h *History) RemoveReaction(room, id, emoji, sessionID string) (map[string][]string, bool) {
	msg := h.Find(room, id)
	if msg == nil {
		return nil, false
	}
	ids := msg.Reactions[emoji]
	for i, existing := range ids {
		if existing == sessionID {
			ids = append(ids[:i], ids[i+1:]...)
			if len(ids) == 0 {
				delete(msg.Reactions, emoji)
			} else {
				msg.Reactions[emoji] = ids
			}
			break
		}
	}
	return cloneReactions(msg.Reactions), true
}

// MarkRead records that sessionID read the message at the given time,
// overwriting any earlier timestamp. Returns the original sender's
// session id so the caller can notify them, and false if the message
// is unknown.
func (h *History) MarkRead(room, id, sessionID string, at time.Time) (string, bool) {
	msg := h.Find(room, id)
	if msg == nil {
		return "", false
	}
	msg.ReadBy[sessionID] = at
	return msg.SenderID, true
}
