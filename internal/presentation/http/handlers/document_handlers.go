package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/TavolaMedia/menustack-go/internal/application/services"
	"github.com/TavolaMedia/menustack-go/internal/infrastructure/observability/logging"
	"github.com/gin-gonic/gin"
)

// DocumentHandlers contains HTTP handlers for menu document reads
type DocumentHandlers struct {
	documentService  *services.DocumentService
	attributeService *services.AttributeService
	currencyService  *services.CurrencyService
	logger           *logging.ChanneledLogger
}

// NewDocumentHandlers creates document handlers with injected dependencies
func NewDocumentHandlers(
	documentService *services.DocumentService,
	attributeService *services.AttributeService,
	currencyService *services.CurrencyService,
	logger *logging.ChanneledLogger,
) *DocumentHandlers {
	return &DocumentHandlers{
		documentService:  documentService,
		attributeService: attributeService,
		currencyService:  currencyService,
		logger:           logger,
	}
}

// GetDocumentIDs handles GET /api/v1/documents - lists all document IDs
func (h *DocumentHandlers) GetDocumentIDs(c *gin.Context) {
	ids, err := h.documentService.GetAllIDs()
	if err != nil {
		h.logger.Content().Error("Failed to list documents", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list documents"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"documentIds": ids})
}

// GetDocumentByID handles GET /api/v1/documents/:id - returns the full
// element tree of one menu document. Numeric IDs hit the primary key; other
// values are treated as slugs.
func (h *DocumentHandlers) GetDocumentByID(c *gin.Context) {
	start := time.Now()
	idParam := c.Param("id")

	if id, parseErr := strconv.ParseInt(idParam, 10, 64); parseErr == nil {
		document, err := h.documentService.GetByID(id)
		if err != nil {
			h.logger.Content().Error("Failed to load document", "documentId", id, "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load document"})
			return
		}
		if document == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
			return
		}

		h.logger.Content().Debug("Document loaded", "documentId", id, "duration", time.Since(start))
		c.JSON(http.StatusOK, gin.H{"document": document})
		return
	}

	document, err := h.documentService.GetBySlug(idParam)
	if err != nil {
		h.logger.Content().Error("Failed to load document by slug", "slug", idParam, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load document"})
		return
	}
	if document == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
		return
	}

	h.logger.Content().Debug("Document loaded", "slug", idParam, "duration", time.Since(start))
	c.JSON(http.StatusOK, gin.H{"document": document})
}

// GetSectionAttributes handles GET /api/v1/documents/:id/attributes/:sectionId
func (h *DocumentHandlers) GetSectionAttributes(c *gin.Context) {
	documentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid document ID"})
		return
	}

	attrs, err := h.attributeService.GetSectionAttributes(documentID, c.Param("sectionId"))
	if err != nil {
		h.logger.Content().Error("Failed to read section attributes", "documentId", documentID, "sectionId", c.Param("sectionId"), "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read section attributes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"attributes": attrs})
}

// GetGlobalCurrency handles GET /api/v1/documents/:id/currency
func (h *DocumentHandlers) GetGlobalCurrency(c *gin.Context) {
	documentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid document ID"})
		return
	}

	cur, err := h.currencyService.GetGlobalCurrency(documentID)
	if err != nil {
		h.logger.Content().Error("Failed to read global currency", "documentId", documentID, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read currency settings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"currency":         cur.Currency,
		"currencyPosition": cur.Position,
		"showCurrency":     cur.Show,
	})
}
