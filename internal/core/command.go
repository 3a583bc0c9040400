package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandJoin introduces the session with a username and initial room.
	CommandJoin CommandKind = iota
	// CommandChangeRoom moves the session to a different room.
	CommandChangeRoom
	// CommandSendMessage delivers a chat message to the session's room.
	CommandSendMessage
	// CommandTyping toggles the session's typing indicator.
	CommandTyping
	// CommandPrivateMessage delivers a direct message to one session.
	CommandPrivateMessage
	// CommandMarkRead records a read receipt on a room message.
	CommandMarkRead
	// CommandAddReaction adds the session to an emoji's reactor set.
	CommandAddReaction
	// CommandRemoveReaction removes the session from an emoji's reactor set.
	CommandRemoveReaction
	// CommandSearch searches the session's room history.
	CommandSearch
	// CommandLoadMore pages older history to the session.
	CommandLoadMore
)

// Command represents an action requested by a client. Only the fields
// relevant to the Kind are set.
type Command struct {
	Kind      CommandKind
	Username  string
	Room      string
	Text      string
	File      *FileAttachment
	To        string // target session id for private messages
	MessageID string
	Emoji     string
	IsTyping  bool
	Query     string
	Page      int
	Limit     int
}
