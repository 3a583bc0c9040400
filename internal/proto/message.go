package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	ProtocolVersion = 1

	InboundTypeJoin           = "join"
	InboundTypeChangeRoom     = "change_room"
	InboundTypeMsg            = "msg"
	InboundTypeTyping         = "typing"
	InboundTypePrivateMsg     = "private_msg"
	InboundTypeMarkRead       = "mark_read"
	InboundTypeAddReaction    = "add_reaction"
	InboundTypeRemoveReaction = "remove_reaction"
	InboundTypeSearch         = "search"
	InboundTypeLoadMore       = "load_more"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"

	EventNameHistory        = "history"
	EventNameRooms          = "rooms"
	EventNameUserJoined     = "user_joined"
	EventNameUserLeft       = "user_left"
	EventNameUserList       = "user_list"
	EventNameMessage        = "message"
	EventNameMessageSent    = "message_sent"
	EventNameTypingUsers    = "typing_users"
	EventNameMessageRead    = "message_read"
	EventNameReactionUpdate = "reaction_update"
	EventNameSearchResults  = "search_results"
	EventNameMessagesPage   = "messages_page"
)

// JoinData introduces the client with a username and initial room.
type JoinData struct {
	Username string `json:"username"`
	Room     string `json:"room,omitempty"`
}

// ChangeRoomData requests to move to a different room.
type ChangeRoomData struct {
	Room string `json:"room"`
}

// FileData describes an attachment returned by the upload endpoint.
type FileData struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	URL          string `json:"url"`
	MimeType     string `json:"mime_type"`
	Size         int64  `json:"size"`
}

// MsgData is a chat message from the client.
type MsgData struct {
	Text string    `json:"text"`
	File *FileData `json:"file,omitempty"`
}

// TypingData toggles the typing indicator.
type TypingData struct {
	IsTyping bool `json:"is_typing"`
}

// PrivateMsgData is a direct message to one session.
type PrivateMsgData struct {
	To   string `json:"to"`
	Text string `json:"text"`
}

// MarkReadData records a read receipt.
type MarkReadData struct {
	MessageID string `json:"message_id"`
}

// ReactionData adds or removes an emoji reaction.
type ReactionData struct {
	MessageID string `json:"message_id"`
	Emoji     string `json:"emoji"`
}

// SearchData queries the current room's history.
type SearchData struct {
	Query string `json:"query"`
}

// LoadMoreData pages older history.
type LoadMoreData struct {
	Page  int `json:"page"`
	Limit int `json:"limit,omitempty"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// MessagePayload is the wire form of a chat message.
type MessagePayload struct {
	ID         string              `json:"id"`
	Sender     string              `json:"sender"`
	SenderID   string              `json:"sender_id"`
	Room       string              `json:"room,omitempty"`
	ReceiverID string              `json:"receiver_id,omitempty"`
	Text       string              `json:"text"`
	File       *FileData           `json:"file,omitempty"`
	IsPrivate  bool                `json:"is_private,omitempty"`
	TS         int64               `json:"ts"`
	ReadBy     map[string]int64    `json:"read_by"`
	Reactions  map[string][]string `json:"reactions"`
}

// EventHistory delivers a room's message history on join.
type EventHistory struct {
	Room     string           `json:"room"`
	Messages []MessagePayload `json:"messages"`
}

// EventRooms advertises the full room catalog.
type EventRooms struct {
	Rooms []string `json:"rooms"`
}

// EventUserJoined notifies that a user joined a room.
type EventUserJoined struct {
	Room string `json:"room"`
	User string `json:"user"`
	ID   string `json:"id"`
}

// EventUserLeft notifies that a user left a room.
type EventUserLeft struct {
	Room string `json:"room"`
	User string `json:"user"`
	ID   string `json:"id"`
}

// UserPayload is one online user in a user list.
type UserPayload struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Room     string `json:"room"`
	JoinedAt int64  `json:"joined_at"`
}

// EventUserList delivers the member list of a room.
type EventUserList struct {
	Room  string        `json:"room"`
	Users []UserPayload `json:"users"`
}

// EventMessageSent acknowledges a sent message.
type EventMessageSent struct {
	MessageID string `json:"message_id"`
}

// EventTypingUsers delivers who is typing in a room.
type EventTypingUsers struct {
	Room  string   `json:"room"`
	Users []string `json:"users"`
}

// EventMessageRead notifies a sender that their message was read.
type EventMessageRead struct {
	MessageID string `json:"message_id"`
	ReadBy    string `json:"read_by"`
}

// EventReactionUpdate delivers a message's updated reaction map.
type EventReactionUpdate struct {
	MessageID string              `json:"message_id"`
	Emoji     string              `json:"emoji"`
	Reactions map[string][]string `json:"reactions"`
}

// EventSearchResults delivers search hits to the requester.
type EventSearchResults struct {
	Query   string           `json:"query"`
	Results []MessagePayload `json:"results"`
}

// EventMessagesPage delivers one page of older history.
type EventMessagesPage struct {
	Messages []MessagePayload `json:"messages"`
	Page     int              `json:"page"`
	HasMore  bool             `json:"has_more"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
