package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/TavolaMedia/menustack-go/internal/application/services"
	"github.com/TavolaMedia/menustack-go/internal/infrastructure/observability/logging"
	"github.com/gin-gonic/gin"
)

// MediaHandlers contains HTTP handlers for dish photo uploads and attachment
// lookups.
type MediaHandlers struct {
	mediaService *services.MediaService
	authService  *services.AuthService
	logger       *logging.ChanneledLogger
}

// NewMediaHandlers creates media handlers with injected dependencies
func NewMediaHandlers(mediaService *services.MediaService, authService *services.AuthService, logger *logging.ChanneledLogger) *MediaHandlers {
	return &MediaHandlers{
		mediaService: mediaService,
		authService:  authService,
		logger:       logger,
	}
}

// PostMedia handles POST /api/v1/media - stores a base64 dish photo, builds
// thumbnails and registers the attachment.
func (h *MediaHandlers) PostMedia(c *gin.Context) {
	start := time.Now()

	var req struct {
		Nonce string `json:"nonce" form:"nonce"`
		Data  string `json:"data" form:"data" binding:"required"`
		Alt   string `json:"alt" form:"alt"`
		Title string `json:"title" form:"title"`
	}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	nonce := req.Nonce
	if nonce == "" {
		nonce = c.GetHeader("X-Editor-Nonce")
	}
	if err := h.authService.VerifyNonce(nonce); err != nil {
		h.logger.Auth().Warn("Nonce verification failed", "path", c.Request.URL.Path, "error", err.Error())
		c.JSON(http.StatusForbidden, gin.H{"error": "invalid or expired nonce"})
		return
	}

	att, err := h.mediaService.UploadDishImage(req.Data, req.Alt, req.Title)
	if err != nil {
		h.logger.Media().Error("Image upload failed", "error", err.Error())
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	h.logger.Media().Info("Image uploaded", "attachmentId", att.ID, "url", att.URL, "duration", time.Since(start))
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"attachment": att,
	})
}

// GetMediaByID handles GET /api/v1/media/:id - returns attachment details
// for an image widget.
func (h *MediaHandlers) GetMediaByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid attachment ID"})
		return
	}

	att, err := h.mediaService.ResolveAttachment(id)
	if err != nil {
		h.logger.Media().Error("Attachment lookup failed", "attachmentId", id, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve attachment"})
		return
	}
	if att == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "attachment not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"attachment": att})
}
