package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/chatrelay/chatrelay-server/internal/upload"
)

// UploadHandlers accepts file attachments ahead of sendMessage.
type UploadHandlers struct {
	store    *upload.Store
	maxBytes int64
	log      *zerolog.Logger
}

// NewUploadHandlers creates a new upload handlers instance.
func NewUploadHandlers(store *upload.Store, maxBytes int64, logger *zerolog.Logger) *UploadHandlers {
	return &UploadHandlers{store: store, maxBytes: maxBytes, log: logger}
}

// Upload handles multipart file uploads.
// POST /api/upload
func (h *UploadHandlers) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "no file uploaded"})
		return
	}
	if h.maxBytes > 0 && header.Size > h.maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "file too large"})
		return
	}

	f, err := header.Open()
	if err != nil {
		h.log.Error().Err(err).Msg("failed to open uploaded file")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}
	defer f.Close()

	desc, err := h.store.Save(header.Filename, header.Header.Get("Content-Type"), f)
	if err != nil {
		if errors.Is(err, upload.ErrDisallowedType) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid file type"})
			return
		}
		h.log.Error().Err(err).Str("filename", header.Filename).Msg("failed to store upload")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	h.log.Info().Str("filename", desc.Filename).Int64("size", desc.Size).Msg("file uploaded")
	c.JSON(http.StatusOK, desc)
}
