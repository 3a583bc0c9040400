package core

import "time"

// FileAttachment describes an uploaded file embedded in a message.
// The core treats it as opaque data produced by the upload endpoint.
type FileAttachment struct {
	Filename     string
	OriginalName string
	URL          string
	MimeType     string
	Size         int64
}

// Message is the domain model for a chat message. Core fields are
// immutable once created; ReadBy and Reactions grow as sessions
// read and react.
type Message struct {
	ID         string
	Sender     string
	SenderID   string
	Room       string // empty for private messages
	ReceiverID string // set only for private messages
	Text       string
	File       *FileAttachment
	IsPrivate  bool
	CreatedAt  time.Time

	// ReadBy maps session id to the time that session saw the message.
	// Entries are added or refreshed, never removed.
	ReadBy map[string]time.Time

	// Reactions maps emoji to the session ids that reacted, each id
	// present at most once per emoji.
	Reactions map[string][]string
}

// Clone returns a copy safe to hand to another goroutine. The mutable
// maps are deep-copied; immutable fields are shared.
func (m *Message) Clone() *Message {
	if m == nil {
		return nil
	}
	cp := *m
	cp.ReadBy = make(map[string]time.Time, len(m.ReadBy))
	for id, at := range m.ReadBy {
		cp.ReadBy[id] = at
	}
	cp.Reactions = cloneReactions(m.Reactions)
	return &cp
}

func cloneReactions(reactions map[string][]string) map[string][]string {
	cp := make(map[string][]string, len(reactions))
	for emoji, ids := range reactions {
		cp[emoji] = append([]string(nil), ids...)
	}
	return cp
}

func cloneMessages(msgs []*Message) []*Message {
	out := make([]*Message, len(msgs))
	for i, m := range msgs {
		out[i] = m.Clone()
	}
	return out
}
