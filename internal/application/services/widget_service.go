package services

import (
	"fmt"
	"strconv"

	"github.com/TavolaMedia/menustack-go/internal/domain/entities/menu"
	"github.com/TavolaMedia/menustack-go/internal/domain/menutree"
	"github.com/TavolaMedia/menustack-go/internal/domain/repositories"
)

// WidgetService applies single widget content updates to a document.
type WidgetService struct {
	documentRepo   repositories.DocumentRepository
	attachmentRepo repositories.AttachmentRepository
}

// NewWidgetService creates a new widget application service
func NewWidgetService(documentRepo repositories.DocumentRepository, attachmentRepo repositories.AttachmentRepository) *WidgetService {
	return &WidgetService{
		documentRepo:   documentRepo,
		attachmentRepo: attachmentRepo,
	}
}

// UpdateWidget locates a widget by ID and applies the change, persisting the
// document.
func (s *WidgetService) UpdateWidget(documentID int64, change menu.WidgetChange) error {
	doc, err := s.documentRepo.FindByID(documentID)
	if err != nil {
		return fmt.Errorf("failed to load document %d: %w", documentID, err)
	}
	if doc == nil {
		return fmt.Errorf("document %d not found", documentID)
	}

	if err := s.ApplyToDocument(doc, change); err != nil {
		return err
	}

	if err := s.documentRepo.Update(doc); err != nil {
		return fmt.Errorf("failed to save document %d: %w", documentID, err)
	}
	return nil
}

// ApplyToDocument applies a widget change to an in-memory document without
// persisting, so the batch reconciler can apply many changes per save.
func (s *WidgetService) ApplyToDocument(doc *menu.MenuDocument, change menu.WidgetChange) error {
	widget := menutree.FindByID(doc.Elements, change.WidgetID)
	if widget == nil {
		return fmt.Errorf("widget %s: %w", change.WidgetID, menutree.ErrNotFound)
	}
	if widget.ElType != menu.TypeWidget {
		return fmt.Errorf("element %s is not a widget", change.WidgetID)
	}

	if widget.WidgetType == menu.WidgetImage {
		if err := s.resolveImageSettings(&change); err != nil {
			return err
		}
	}

	return menutree.ApplyWidgetChange(widget, change)
}

// resolveImageSettings turns an attachment reference in the change into the
// url/alt/title the widget stores. A missing or empty reference leaves the
// change untouched, which makes the updater fall back to the placeholder.
func (s *WidgetService) resolveImageSettings(change *menu.WidgetChange) error {
	if change.Settings == nil {
		return nil
	}

	raw, ok := change.Settings["attachmentId"]
	if !ok {
		return nil
	}

	var attachmentID int64
	switch v := raw.(type) {
	case float64:
		attachmentID = int64(v)
	case string:
		// An empty or "placeholder" reference means no attachment; the
		// widget updater then falls back to the placeholder image.
		if v == "" || v == "placeholder" {
			return nil
		}
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid attachment ID %q", v)
		}
		attachmentID = parsed
	default:
		return fmt.Errorf("invalid attachment ID type")
	}

	if attachmentID == 0 {
		return nil
	}

	att, err := s.attachmentRepo.FindByID(attachmentID)
	if err != nil {
		return fmt.Errorf("failed to resolve attachment %d: %w", attachmentID, err)
	}
	if att == nil {
		return fmt.Errorf("attachment %d not found", attachmentID)
	}

	change.Settings["url"] = att.URL
	change.Settings["id"] = float64(att.ID)
	change.Settings["alt"] = att.Alt
	change.Settings["title"] = att.Title
	return nil
}
