package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/chatrelay/chatrelay-server/internal/core"
	"github.com/chatrelay/chatrelay-server/internal/proto"
)

// APIHandlers provides read-only REST views over the hub's state.
// All reads go through hub snapshot queries so they never race with
// event processing.
type APIHandlers struct {
	hub *core.Hub
	log *zerolog.Logger
}

// NewAPIHandlers creates a new API handlers instance.
func NewAPIHandlers(hub *core.Hub, logger *zerolog.Logger) *APIHandlers {
	return &APIHandlers{hub: hub, log: logger}
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// UserResponse represents an online user in API responses.
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Room     string `json:"room"`
	JoinedAt int64  `json:"joined_at"`
}

// ListRooms handles the room catalog.
// GET /api/rooms
func (h *APIHandlers) ListRooms(c *gin.Context) {
	rooms, err := h.hub.Rooms(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to query rooms")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// ListUsers handles the online-users listing.
// GET /api/users
func (h *APIHandlers) ListUsers(c *gin.Context) {
	sessions, err := h.hub.Users(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to query users")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	users := make([]UserResponse, 0, len(sessions))
	for _, s := range sessions {
		users = append(users, UserResponse{
			ID:       s.ID,
			Username: s.Username,
			Room:     s.Room,
			JoinedAt: s.JoinedAt.Unix(),
		})
	}
	c.JSON(http.StatusOK, users)
}

// AllMessages handles a full history dump across rooms.
// GET /api/messages
func (h *APIHandlers) AllMessages(c *gin.Context) {
	logs, err := h.hub.Histories(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to query histories")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	out := make(map[string][]proto.MessagePayload, len(logs))
	for room, messages := range logs {
		out[room] = messagesToPayload(messages)
	}
	c.JSON(http.StatusOK, out)
}

// RoomMessages handles a room history snapshot.
// GET /api/messages/:room
func (h *APIHandlers) RoomMessages(c *gin.Context) {
	room := c.Param("room")

	messages, err := h.hub.RoomHistory(c.Request.Context(), room)
	if err != nil {
		h.log.Error().Err(err).Str("room", room).Msg("failed to query history")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(http.StatusOK, messagesToPayload(messages))
}
