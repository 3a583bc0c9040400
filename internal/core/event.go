package core

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventHistory delivers a room's message history to one client.
	EventHistory EventKind = iota
	// EventRoomCatalog advertises the full set of known rooms.
	EventRoomCatalog
	// EventUserJoined notifies room peers about a user joining.
	EventUserJoined
	// EventUserLeft notifies room peers about a user leaving.
	EventUserLeft
	// EventUserList delivers the current member list of a room.
	EventUserList
	// EventMessage delivers a room or private message.
	EventMessage
	// EventMessageSent acknowledges a sent message to its sender.
	EventMessageSent
	// EventTypingUsers delivers the set of users typing in a room.
	EventTypingUsers
	// EventMessageRead notifies a sender that a message was read.
	EventMessageRead
	// EventReactionUpdate delivers a message's updated reaction map.
	EventReactionUpdate
	// EventSearchResults delivers search results to the requester.
	EventSearchResults
	// EventMessagesPage delivers one page of older history.
	EventMessagesPage
	// EventError notifies a client about a domain error.
	EventError
)

// Event is sent to clients to describe what happened in the system.
// Only the fields relevant to the Kind are set.
type Event struct {
	Kind      EventKind
	Room      string
	User      string // username the event is about
	UserID    string // session id the event is about
	Message   *Message
	Messages  []*Message
	Users     []Session
	Rooms     []string
	Typing    []string
	MessageID string
	Emoji     string
	Reactions map[string][]string
	ReadBy    string // username that read the message
	Query     string
	Page      int
	HasMore   bool
	Error     *CoreError
}
