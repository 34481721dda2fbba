package services

import (
	"fmt"

	"github.com/TavolaMedia/menustack-go/internal/domain/entities/menu"
	"github.com/TavolaMedia/menustack-go/internal/domain/menutree"
	"github.com/TavolaMedia/menustack-go/internal/domain/repositories"
	"github.com/TavolaMedia/menustack-go/internal/infrastructure/security"
)

// SectionService performs structural edits on a document's sections.
type SectionService struct {
	documentRepo  repositories.DocumentRepository
	attributeRepo repositories.AttributeRepository
	newID         menutree.IDGen
}

// NewSectionService creates a new section application service
func NewSectionService(documentRepo repositories.DocumentRepository, attributeRepo repositories.AttributeRepository) *SectionService {
	return &SectionService{
		documentRepo:  documentRepo,
		attributeRepo: attributeRepo,
		newID:         security.GenerateElementID,
	}
}

// DeleteSection removes a section from a document. Category sections are
// refused. The section's attribute records stay in the store; only the
// tree entry is removed.
func (s *SectionService) DeleteSection(documentID int64, sectionID string) error {
	doc, err := s.loadDocument(documentID)
	if err != nil {
		return err
	}

	if err := menutree.DeleteSection(&doc.Elements, sectionID); err != nil {
		return err
	}

	if err := s.documentRepo.Update(doc); err != nil {
		return fmt.Errorf("failed to save document %d: %w", documentID, err)
	}
	return nil
}

// DuplicateSection copies a section after itself and carries over attribute
// records for every duplicable node covered by the ID map.
func (s *SectionService) DuplicateSection(documentID int64, sectionID string) (*menutree.DuplicateOutcome, error) {
	doc, err := s.loadDocument(documentID)
	if err != nil {
		return nil, err
	}

	outcome, err := menutree.DuplicateSection(&doc.Elements, sectionID, s.newID)
	if err != nil {
		return nil, err
	}

	if err := s.copySectionAttributes(documentID, doc, outcome.IDMap); err != nil {
		return nil, err
	}

	if err := s.documentRepo.Update(doc); err != nil {
		return nil, fmt.Errorf("failed to save document %d: %w", documentID, err)
	}
	return outcome, nil
}

// CreateBlankDish appends a placeholder dish to a category and seeds its
// attribute records with all-false defaults.
func (s *SectionService) CreateBlankDish(documentID int64, categoryID string) (*menutree.DuplicateOutcome, error) {
	doc, err := s.loadDocument(documentID)
	if err != nil {
		return nil, err
	}

	outcome, err := menutree.NewBlankDish(&doc.Elements, categoryID, s.newID)
	if err != nil {
		return nil, err
	}

	if err := s.SetDefaultAttributes(documentID, outcome.NewSection.ID); err != nil {
		return nil, err
	}

	if err := s.documentRepo.Update(doc); err != nil {
		return nil, fmt.Errorf("failed to save document %d: %w", documentID, err)
	}
	return outcome, nil
}

// MoveSection validates and applies a one-step movement.
func (s *SectionService) MoveSection(documentID int64, sectionID, direction string) (menutree.MoveCheck, error) {
	doc, err := s.loadDocument(documentID)
	if err != nil {
		return menutree.MoveCheck{}, err
	}

	check, err := menutree.MoveSection(&doc.Elements, sectionID, direction)
	if err != nil || !check.CanMove {
		return check, err
	}

	if err := s.documentRepo.Update(doc); err != nil {
		return check, fmt.Errorf("failed to save document %d: %w", documentID, err)
	}
	return check, nil
}

// SetDefaultAttributes writes all-false dish and allergen records for a
// section.
func (s *SectionService) SetDefaultAttributes(documentID int64, sectionID string) error {
	if err := s.attributeRepo.SetFlags(documentID, menu.DishAttributeKey(sectionID), menu.DefaultDishAttributes()); err != nil {
		return fmt.Errorf("failed to set default dish attributes for %s: %w", sectionID, err)
	}
	if err := s.attributeRepo.SetFlags(documentID, menu.AllergenAttributeKey(sectionID), menu.DefaultAllergenAttributes()); err != nil {
		return fmt.Errorf("failed to set default allergen attributes for %s: %w", sectionID, err)
	}
	return nil
}

// copySectionAttributes copies dish and allergen records from old section
// IDs to their duplicates, for every mapped node that is a dish.
func (s *SectionService) copySectionAttributes(documentID int64, doc *menu.MenuDocument, idMap map[string]string) error {
	for oldID, newID := range idMap {
		node := menutree.FindByID(doc.Elements, newID)
		if node == nil || !node.IsDish() {
			continue
		}

		for _, key := range []struct{ old, new string }{
			{menu.DishAttributeKey(oldID), menu.DishAttributeKey(newID)},
			{menu.AllergenAttributeKey(oldID), menu.AllergenAttributeKey(newID)},
		} {
			values, found, err := s.attributeRepo.GetFlags(documentID, key.old)
			if err != nil {
				return fmt.Errorf("failed to read attributes %s: %w", key.old, err)
			}
			if !found {
				continue
			}
			if err := s.attributeRepo.SetFlags(documentID, key.new, values); err != nil {
				return fmt.Errorf("failed to copy attributes to %s: %w", key.new, err)
			}
		}
	}
	return nil
}

func (s *SectionService) loadDocument(documentID int64) (*menu.MenuDocument, error) {
	doc, err := s.documentRepo.FindByID(documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load document %d: %w", documentID, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("document %d not found", documentID)
	}
	return doc, nil
}
