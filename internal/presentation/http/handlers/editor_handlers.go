package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/TavolaMedia/menustack-go/internal/application/services"
	"github.com/TavolaMedia/menustack-go/internal/domain/entities/menu"
	"github.com/TavolaMedia/menustack-go/internal/infrastructure/email"
	"github.com/TavolaMedia/menustack-go/internal/infrastructure/observability/logging"
	"github.com/TavolaMedia/menustack-go/pkg/config"
	"github.com/gin-gonic/gin"
)

// EditorHandlers contains the HTTP handlers behind the front-end editor:
// single-operation endpoints and the batch save.
type EditorHandlers struct {
	documentService  *services.DocumentService
	widgetService    *services.WidgetService
	sectionService   *services.SectionService
	attributeService *services.AttributeService
	currencyService  *services.CurrencyService
	batchService     *services.BatchService
	authService      *services.AuthService
	emailService     email.Service
	logger           *logging.ChanneledLogger
}

// NewEditorHandlers creates editor handlers with injected dependencies. The
// email service may be nil when publish notifications are not configured.
func NewEditorHandlers(
	documentService *services.DocumentService,
	widgetService *services.WidgetService,
	sectionService *services.SectionService,
	attributeService *services.AttributeService,
	currencyService *services.CurrencyService,
	batchService *services.BatchService,
	authService *services.AuthService,
	emailService email.Service,
	logger *logging.ChanneledLogger,
) *EditorHandlers {
	return &EditorHandlers{
		documentService:  documentService,
		widgetService:    widgetService,
		sectionService:   sectionService,
		attributeService: attributeService,
		currencyService:  currencyService,
		batchService:     batchService,
		authService:      authService,
		emailService:     emailService,
		logger:           logger,
	}
}

// verifyNonce checks the editor-action nonce carried in the request body or
// the X-Editor-Nonce header. Every mutation endpoint goes through here.
func (h *EditorHandlers) verifyNonce(c *gin.Context, nonce string) bool {
	if nonce == "" {
		nonce = c.GetHeader("X-Editor-Nonce")
	}
	if err := h.authService.VerifyNonce(nonce); err != nil {
		h.logger.Auth().Warn("Nonce verification failed", "path", c.Request.URL.Path, "error", err.Error())
		c.JSON(http.StatusForbidden, gin.H{"error": "invalid or expired nonce"})
		return false
	}
	return true
}

// PostWidgetContent handles POST /api/v1/editor/content - immediate update of
// a single widget.
func (h *EditorHandlers) PostWidgetContent(c *gin.Context) {
	start := time.Now()

	var req struct {
		Nonce      string         `json:"nonce" form:"nonce"`
		DocumentID int64          `json:"documentId" form:"documentId" binding:"required"`
		WidgetID   string         `json:"widgetId" form:"widgetId" binding:"required"`
		WidgetType string         `json:"widgetType" form:"widgetType" binding:"required"`
		Content    string         `json:"content" form:"content"`
		Settings   map[string]any `json:"settings"`
	}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	if !h.verifyNonce(c, req.Nonce) {
		return
	}

	change := menu.WidgetChange{
		WidgetID:   req.WidgetID,
		WidgetType: req.WidgetType,
		Content:    req.Content,
		Settings:   req.Settings,
	}
	if err := h.widgetService.UpdateWidget(req.DocumentID, change); err != nil {
		h.logger.Editor().Error("Widget update failed", "documentId", req.DocumentID, "widgetId", req.WidgetID, "error", err.Error())
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	h.logger.Editor().Info("Widget updated", "documentId", req.DocumentID, "widgetId", req.WidgetID, "widgetType", req.WidgetType, "duration", time.Since(start))
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// PostSectionDelete handles POST /api/v1/editor/section/delete
func (h *EditorHandlers) PostSectionDelete(c *gin.Context) {
	var req struct {
		Nonce      string `json:"nonce" form:"nonce"`
		DocumentID int64  `json:"documentId" form:"documentId" binding:"required"`
		SectionID  string `json:"sectionId" form:"sectionId" binding:"required"`
	}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	if !h.verifyNonce(c, req.Nonce) {
		return
	}

	if err := h.sectionService.DeleteSection(req.DocumentID, req.SectionID); err != nil {
		h.logger.Editor().Error("Section delete failed", "documentId", req.DocumentID, "sectionId", req.SectionID, "error", err.Error())
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	h.logger.Editor().Info("Section deleted", "documentId", req.DocumentID, "sectionId", req.SectionID)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// PostSectionDuplicate handles POST /api/v1/editor/section/duplicate - copies
// an existing section, or appends a blank dish when newDish is set.
func (h *EditorHandlers) PostSectionDuplicate(c *gin.Context) {
	var req struct {
		Nonce      string `json:"nonce" form:"nonce"`
		DocumentID int64  `json:"documentId" form:"documentId" binding:"required"`
		SectionID  string `json:"sectionId" form:"sectionId"`
		NewDish    bool   `json:"newDish" form:"newDish"`
		CategoryID string `json:"categoryId" form:"categoryId"`
	}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	if !h.verifyNonce(c, req.Nonce) {
		return
	}

	if req.NewDish {
		result, err := h.sectionService.CreateBlankDish(req.DocumentID, req.CategoryID)
		if err != nil {
			h.logger.Editor().Error("Blank dish creation failed", "documentId", req.DocumentID, "categoryId", req.CategoryID, "error", err.Error())
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}

		h.logger.Editor().Info("Blank dish created", "documentId", req.DocumentID, "newSectionId", result.NewSection.ID)
		c.JSON(http.StatusOK, gin.H{
			"success":      true,
			"newSectionId": result.NewSection.ID,
		})
		return
	}

	result, err := h.sectionService.DuplicateSection(req.DocumentID, req.SectionID)
	if err != nil {
		h.logger.Editor().Error("Section duplication failed", "documentId", req.DocumentID, "sectionId", req.SectionID, "error", err.Error())
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	h.logger.Editor().Info("Section duplicated", "documentId", req.DocumentID, "sectionId", req.SectionID, "newSectionId", result.NewSection.ID)
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"newSectionId": result.NewSection.ID,
		"idMap":        result.IDMap,
	})
}

// PostSectionMove handles POST /api/v1/editor/section/move - one-step reorder
// among siblings. A refused move is not an error; the reason is reported.
func (h *EditorHandlers) PostSectionMove(c *gin.Context) {
	var req struct {
		Nonce      string `json:"nonce" form:"nonce"`
		DocumentID int64  `json:"documentId" form:"documentId" binding:"required"`
		SectionID  string `json:"sectionId" form:"sectionId" binding:"required"`
		Direction  string `json:"direction" form:"direction" binding:"required"`
	}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	if !h.verifyNonce(c, req.Nonce) {
		return
	}

	check, err := h.sectionService.MoveSection(req.DocumentID, req.SectionID, req.Direction)
	if err != nil {
		h.logger.Editor().Error("Section move failed", "documentId", req.DocumentID, "sectionId", req.SectionID, "error", err.Error())
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	h.logger.Editor().Info("Section move evaluated", "documentId", req.DocumentID, "sectionId", req.SectionID, "direction", req.Direction, "moved", check.CanMove, "reason", check.Reason)
	c.JSON(http.StatusOK, gin.H{
		"success": check.CanMove,
		"reason":  check.Reason,
	})
}

// PostDishAttributes handles POST /api/v1/editor/attributes/dish
func (h *EditorHandlers) PostDishAttributes(c *gin.Context) {
	h.postAttributes(c, menu.AttributeDish)
}

// PostAllergenAttributes handles POST /api/v1/editor/attributes/allergen
func (h *EditorHandlers) PostAllergenAttributes(c *gin.Context) {
	h.postAttributes(c, menu.AttributeAllergen)
}

func (h *EditorHandlers) postAttributes(c *gin.Context, kind menu.AttributeKind) {
	var req struct {
		Nonce      string          `json:"nonce" form:"nonce"`
		DocumentID int64           `json:"documentId" form:"documentId" binding:"required"`
		SectionID  string          `json:"sectionId" form:"sectionId" binding:"required"`
		Values     map[string]bool `json:"values"`
	}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	if !h.verifyNonce(c, req.Nonce) {
		return
	}

	var err error
	switch kind {
	case menu.AttributeDish:
		err = h.attributeService.SaveDishAttributes(req.DocumentID, req.SectionID, req.Values)
	default:
		err = h.attributeService.SaveAllergenAttributes(req.DocumentID, req.SectionID, req.Values)
	}
	if err != nil {
		h.logger.Editor().Error("Attribute save failed", "documentId", req.DocumentID, "sectionId", req.SectionID, "kind", string(kind), "error", err.Error())
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	h.logger.Editor().Info("Attributes saved", "documentId", req.DocumentID, "sectionId", req.SectionID, "kind", string(kind))
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// PostCurrency handles POST /api/v1/editor/currency - rewrites every price
// heading in the document with the given settings.
func (h *EditorHandlers) PostCurrency(c *gin.Context) {
	var req struct {
		Nonce      string `json:"nonce" form:"nonce"`
		DocumentID int64  `json:"documentId" form:"documentId" binding:"required"`
		Currency   string `json:"currency" form:"currency" binding:"required"`
		Position   string `json:"currencyPosition" form:"currencyPosition"`
		Show       *bool  `json:"showCurrency" form:"showCurrency"`
	}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	if !h.verifyNonce(c, req.Nonce) {
		return
	}

	cur := menu.CurrencySettings{Currency: req.Currency, Position: req.Position, Show: true}
	if cur.Position == "" {
		cur.Position = "after"
	}
	if req.Show != nil {
		cur.Show = *req.Show
	}

	updated, err := h.currencyService.ApplyGlobalCurrency(req.DocumentID, cur)
	if err != nil {
		h.logger.Editor().Error("Currency update failed", "documentId", req.DocumentID, "error", err.Error())
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	h.logger.Editor().Info("Global currency applied", "documentId", req.DocumentID, "currency", cur.Currency, "position", cur.Position, "updated", updated)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"updated": updated,
	})
}

// PostBatch handles POST /api/v1/editor/batch - reconciles an accumulated
// change set in a single save. The change set arrives either as the JSON
// body's changes object or as a JSON-encoded changes form field.
func (h *EditorHandlers) PostBatch(c *gin.Context) {
	start := time.Now()

	req, ok := h.bindBatchRequest(c)
	if !ok {
		return
	}
	if !h.verifyNonce(c, req.Nonce) {
		return
	}
	if req.Changes.IsEmpty() {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"results": &menu.BatchResults{},
		})
		return
	}

	count := req.Changes.Count()
	results, err := h.batchService.Apply(req.DocumentID, req.Changes)
	if err != nil {
		h.logger.Editor().Error("Batch save failed", "documentId", req.DocumentID, "changes", count, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "results": results})
		return
	}

	failures := results.Failures()
	h.logger.Editor().Info("Batch save completed", "documentId", req.DocumentID, "changes", count, "failures", failures, "duration", time.Since(start))

	h.notifyPublished(req.DocumentID, count-failures, failures)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"results": results,
	})
}

type batchRequest struct {
	Nonce      string
	DocumentID int64
	Changes    *menu.ChangeSet
}

func (h *EditorHandlers) bindBatchRequest(c *gin.Context) (*batchRequest, bool) {
	if c.ContentType() == "application/json" {
		var body struct {
			Nonce      string          `json:"nonce"`
			DocumentID int64           `json:"documentId" binding:"required"`
			Changes    *menu.ChangeSet `json:"changes" binding:"required"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
			return nil, false
		}
		return &batchRequest{Nonce: body.Nonce, DocumentID: body.DocumentID, Changes: body.Changes}, true
	}

	var form struct {
		Nonce      string `form:"nonce"`
		DocumentID int64  `form:"documentId" binding:"required"`
		Changes    string `form:"changes" binding:"required"`
	}
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return nil, false
	}

	changes := menu.NewChangeSet()
	if err := json.Unmarshal([]byte(form.Changes), changes); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid changes payload"})
		return nil, false
	}
	return &batchRequest{Nonce: form.Nonce, DocumentID: form.DocumentID, Changes: changes}, true
}

// notifyPublished sends the publish notification email when one is
// configured. Failures are logged and never affect the save.
func (h *EditorHandlers) notifyPublished(documentID int64, applied, failed int) {
	if h.emailService == nil || config.PublishEmailTo == "" {
		return
	}

	doc, err := h.documentService.GetByID(documentID)
	if err != nil || doc == nil {
		h.logger.Editor().Warn("Skipping publish notification", "documentId", documentID)
		return
	}

	go func(title string) {
		if err := h.emailService.SendMenuPublishedEmail(config.PublishEmailTo, title, applied, failed); err != nil {
			h.logger.Editor().Warn("Publish notification failed", "documentId", documentID, "error", err.Error())
		}
	}(doc.Title)
}
