package core

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Hub is the coordinator that owns all shared chat state: the session
// registry, room directory, message history, and typing tracker. Run
// processes one inbound event at a time, so the stores need no locking
// of their own. Malformed or out-of-order events degrade to no-ops and
// never affect other sessions.
type Hub struct {
	log *zerolog.Logger

	sessions *SessionRegistry
	rooms    *RoomDirectory
	history  *History
	typing   *TypingTracker

	clients map[string]*Client // session id -> transport handle

	register   chan *Client
	unregister chan *Client
	commands   chan clientCommand
	queries    chan query
	stopped    chan struct{}
}

type clientCommand struct {
	client *Client
	cmd    *Command
}

// NewHub constructs a hub with the given rooms pre-created (nil means
// DefaultRooms) and a per-room history bound of historyLimit (0 means
// DefaultHistoryLimit).
func NewHub(historyLimit int, defaultRooms []string, logger *zerolog.Logger) *Hub {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	if len(defaultRooms) == 0 {
		defaultRooms = DefaultRooms
	}
	return &Hub{
		log:        logger,
		sessions:   NewSessionRegistry(),
		rooms:      NewRoomDirectory(defaultRooms...),
		history:    NewHistory(historyLimit),
		typing:     NewTypingTracker(),
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		commands:   make(chan clientCommand),
		queries:    make(chan query),
		stopped:    make(chan struct{}),
	}
}

// RegisterClient hands a new connection to the hub.
func (h *Hub) RegisterClient(c *Client) {
	select {
	case h.register <- c:
	case <-h.stopped:
	}
}

// UnregisterClient tells the hub a connection is gone. Safe to call
// more than once for the same client.
func (h *Hub) UnregisterClient(c *Client) {
	select {
	case h.unregister <- c:
	case <-c.done:
	case <-h.stopped:
	}
}

// Run processes registrations, commands, and queries until ctx is
// cancelled. All state mutation happens on this goroutine.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.stopped)
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.addClient(ctx, c)
		case c := <-h.unregister:
			h.dropClient(c)
		case cc := <-h.commands:
			h.dispatch(cc.client, cc.cmd)
		case q := <-h.queries:
			h.answer(q)
		}
	}
}

func (h *Hub) addClient(ctx context.Context, c *Client) {
	if _, ok := h.clients[c.ID]; ok {
		return
	}
	h.clients[c.ID] = c
	h.log.Debug().Str("session_id", c.ID).Msg("client connected")

	// Pump the client's commands into the hub's single inbox.
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-c.done:
				return
			case cmd, ok := <-c.Commands:
				if !ok {
					return
				}
				select {
				case h.commands <- clientCommand{client: c, cmd: cmd}:
				case <-ctx.Done():
					return
				case <-c.done:
					return
				}
			}
		}
	}()
}

func (h *Hub) dispatch(c *Client, cmd *Command) {
	if cmd == nil {
		return
	}
	if _, ok := h.clients[c.ID]; !ok {
		return
	}

	if cmd.Kind == CommandJoin {
		h.handleJoin(c, cmd)
		return
	}

	// Every other event requires a joined session; fail closed.
	sess := h.sessions.Get(c.ID)
	if sess == nil {
		h.log.Debug().Str("session_id", c.ID).Int("kind", int(cmd.Kind)).Msg("event from unjoined session ignored")
		return
	}

	switch cmd.Kind {
	case CommandChangeRoom:
		h.handleChangeRoom(c, sess, cmd)
	case CommandSendMessage:
		h.handleSendMessage(c, sess, cmd)
	case CommandTyping:
		h.handleTyping(c, sess, cmd)
	case CommandPrivateMessage:
		h.handlePrivateMessage(c, sess, cmd)
	case CommandMarkRead:
		h.handleMarkRead(c, sess, cmd)
	case CommandAddReaction, CommandRemoveReaction:
		h.handleReaction(c, sess, cmd)
	case CommandSearch:
		h.handleSearch(c, sess, cmd)
	case CommandLoadMore:
		h.handleLoadMore(c, sess, cmd)
	}
}

func (h *Hub) handleJoin(c *Client, cmd *Command) {
	if h.sessions.Get(c.ID) != nil {
		// Already joined; a repeated join is a harmless no-op.
		return
	}

	room := NormalizeRoom(cmd.Room)
	if room == "" {
		room = "general"
	}

	sess, err := h.sessions.Register(c.ID, cmd.Username, room)
	if err != nil {
		c.send(&Event{Kind: EventError, Error: coreError(ErrCodeInvalidUsername, "username is required")})
		return
	}
	h.rooms.Ensure(room)

	c.send(&Event{Kind: EventHistory, Room: room, Messages: h.history.List(room)})
	c.send(&Event{Kind: EventRoomCatalog, Rooms: h.rooms.List()})
	h.broadcastRoomExcept(room, c.ID, &Event{Kind: EventUserJoined, Room: room, User: sess.Username, UserID: c.ID})
	h.broadcastRoom(room, &Event{Kind: EventUserList, Room: room, Users: h.sessions.ListByRoom(room)})

	h.log.Info().Str("session_id", c.ID).Str("user", sess.Username).Str("room", room).Msg("user joined")
}

func (h *Hub) handleChangeRoom(c *Client, sess *Session, cmd *Command) {
	newRoom := NormalizeRoom(cmd.Room)
	if newRoom == "" {
		return
	}
	if newRoom == sess.Room {
		// Re-joining the current room is suppressed entirely.
		return
	}

	oldRoom := sess.Room
	if h.typing.Clear(oldRoom, c.ID) {
		h.broadcastRoomExcept(oldRoom, c.ID, &Event{Kind: EventTypingUsers, Room: oldRoom, Typing: h.typing.List(oldRoom)})
	}

	newRoom, created := h.rooms.Ensure(newRoom)
	_ = h.sessions.UpdateRoom(c.ID, newRoom)

	h.broadcastRoom(oldRoom, &Event{Kind: EventUserLeft, Room: oldRoom, User: sess.Username, UserID: c.ID})
	h.broadcastRoom(oldRoom, &Event{Kind: EventUserList, Room: oldRoom, Users: h.sessions.ListByRoom(oldRoom)})

	c.send(&Event{Kind: EventHistory, Room: newRoom, Messages: h.history.List(newRoom)})
	h.broadcastRoomExcept(newRoom, c.ID, &Event{Kind: EventUserJoined, Room: newRoom, User: sess.Username, UserID: c.ID})
	h.broadcastRoom(newRoom, &Event{Kind: EventUserList, Room: newRoom, Users: h.sessions.ListByRoom(newRoom)})

	if created {
		h.broadcastAll(&Event{Kind: EventRoomCatalog, Rooms: h.rooms.List()})
	}

	h.log.Info().Str("user", sess.Username).Str("from", oldRoom).Str("to", newRoom).Msg("user changed room")
}

func (h *Hub) handleSendMessage(c *Client, sess *Session, cmd *Command) {
	if strings.TrimSpace(cmd.Text) == "" && cmd.File == nil {
		return
	}

	now := time.Now().UTC()
	msg := &Message{
		ID:        uuid.NewString(),
		Sender:    sess.Username,
		SenderID:  c.ID,
		Room:      sess.Room,
		Text:      cmd.Text,
		File:      cmd.File,
		CreatedAt: now,
		ReadBy:    map[string]time.Time{c.ID: now},
		Reactions: make(map[string][]string),
	}
	h.history.Append(sess.Room, msg)

	h.broadcastRoom(sess.Room, &Event{Kind: EventMessage, Room: sess.Room, Message: msg.Clone()})
	c.send(&Event{Kind: EventMessageSent, MessageID: msg.ID})
}

func (h *Hub) handleTyping(c *Client, sess *Session, cmd *Command) {
	h.typing.Set(sess.Room, c.ID, sess.Username, cmd.IsTyping)
	h.broadcastRoomExcept(sess.Room, c.ID, &Event{Kind: EventTypingUsers, Room: sess.Room, Typing: h.typing.List(sess.Room)})
}

func (h *Hub) handlePrivateMessage(c *Client, sess *Session, cmd *Command) {
	peer := h.sessions.Get(cmd.To)
	if peer == nil || strings.TrimSpace(cmd.Text) == "" {
		return
	}

	// Private messages are delivered and never retained.
	msg := &Message{
		ID:         uuid.NewString(),
		Sender:     sess.Username,
		SenderID:   c.ID,
		ReceiverID: peer.ID,
		Text:       cmd.Text,
		IsPrivate:  true,
		CreatedAt:  time.Now().UTC(),
		ReadBy:     make(map[string]time.Time),
		Reactions:  make(map[string][]string),
	}
	h.sendTo(peer.ID, &Event{Kind: EventMessage, Message: msg.Clone()})
	h.sendTo(c.ID, &Event{Kind: EventMessage, Message: msg.Clone()})
}

func (h *Hub) handleMarkRead(c *Client, sess *Session, cmd *Command) {
	senderID, ok := h.history.MarkRead(sess.Room, cmd.MessageID, c.ID, time.Now().UTC())
	if !ok {
		return
	}
	// Notify the original sender if still connected; otherwise drop.
	h.sendTo(senderID, &Event{Kind: EventMessageRead, MessageID: cmd.MessageID, ReadBy: sess.Username})
}

func (h *Hub) handleReaction(c *Client, sess *Session, cmd *Command) {
	if cmd.Emoji == "" {
		return
	}

	var (
		reactions map[string][]string
		ok        bool
	)
	if cmd.Kind == CommandAddReaction {
		reactions, ok = h.history.AddReaction(sess.Room, cmd.MessageID, cmd.Emoji, c.ID)
	} else {
		reactions, ok = h.history.RemoveReaction(sess.Room, cmd.MessageID, cmd.Emoji, c.ID)
	}
	if !ok {
		return
	}
	h.broadcastRoom(sess.Room, &Event{
		Kind:      EventReactionUpdate,
		Room:      sess.Room,
		MessageID: cmd.MessageID,
		Emoji:     cmd.Emoji,
		Reactions: reactions,
	})
}

func (h *Hub) handleSearch(c *Client, sess *Session, cmd *Command) {
	c.send(&Event{
		Kind:     EventSearchResults,
		Room:     sess.Room,
		Query:    cmd.Query,
		Messages: h.history.Search(sess.Room, cmd.Query),
	})
}

func (h *Hub) handleLoadMore(c *Client, sess *Session, cmd *Command) {
	page, limit := cmd.Page, cmd.Limit
	if page < 0 {
		page = 0
	}
	if limit <= 0 {
		limit = 50
	}
	msgs, hasMore := h.history.Page(sess.Room, page, limit)
	c.send(&Event{
		Kind:     EventMessagesPage,
		Room:     sess.Room,
		Messages: msgs,
		Page:     page,
		HasMore:  hasMore,
	})
}

func (h *Hub) dropClient(c *Client) {
	if _, ok := h.clients[c.ID]; !ok {
		return
	}

	if sess := h.sessions.Get(c.ID); sess != nil {
		room := sess.Room
		h.broadcastRoomExcept(room, c.ID, &Event{Kind: EventUserLeft, Room: room, User: sess.Username, UserID: c.ID})
		if h.typing.Clear(room, c.ID) {
			h.broadcastRoomExcept(room, c.ID, &Event{Kind: EventTypingUsers, Room: room, Typing: h.typing.List(room)})
		}
		h.sessions.Unregister(c.ID)
		h.broadcastRoom(room, &Event{Kind: EventUserList, Room: room, Users: h.sessions.ListByRoom(room)})
		h.log.Info().Str("session_id", c.ID).Str("user", sess.Username).Msg("user disconnected")
	}

	delete(h.clients, c.ID)
	close(c.done)
}

func (h *Hub) sendTo(sessionID string, ev *Event) {
	c, ok := h.clients[sessionID]
	if !ok {
		return
	}
	if !c.send(ev) {
		h.log.Warn().Str("session_id", sessionID).Msg("dropping event for slow client")
	}
}

func (h *Hub) broadcastRoom(room string, ev *Event) {
	for _, s := range h.sessions.ListByRoom(room) {
		h.sendTo(s.ID, ev)
	}
}

func (h *Hub) broadcastRoomExcept(room, exceptID string, ev *Event) {
	for _, s := range h.sessions.ListByRoom(room) {
		if s.ID != exceptID {
			h.sendTo(s.ID, ev)
		}
	}
}

func (h *Hub) broadcastAll(ev *Event) {
	for _, s := range h.sessions.List() {
		h.sendTo(s.ID, ev)
	}
}
