package services

import (
	"fmt"

	"github.com/TavolaMedia/menustack-go/internal/domain/entities/menu"
	"github.com/TavolaMedia/menustack-go/internal/domain/repositories"
)

// SectionAttributes bundles the attribute state of one section for reads.
type SectionAttributes struct {
	SectionID string          `json:"sectionId"`
	Dish      map[string]bool `json:"dish"`
	Allergens map[string]bool `json:"allergens"`
}

// AttributeService manages dish and allergen flags in the attribute store.
type AttributeService struct {
	attributeRepo repositories.AttributeRepository
}

// NewAttributeService creates a new attribute application service
func NewAttributeService(attributeRepo repositories.AttributeRepository) *AttributeService {
	return &AttributeService{
		attributeRepo: attributeRepo,
	}
}

// SaveDishAttributes stores a section's dish flags, normalizing to the
// recognized set.
func (s *AttributeService) SaveDishAttributes(documentID int64, sectionID string, values map[string]bool) error {
	if sectionID == "" {
		return fmt.Errorf("section ID cannot be empty")
	}

	normalized := menu.NormalizeDishAttributes(values)
	if err := s.attributeRepo.SetFlags(documentID, menu.DishAttributeKey(sectionID), normalized); err != nil {
		return fmt.Errorf("failed to save dish attributes for %s: %w", sectionID, err)
	}
	return nil
}

// SaveAllergenAttributes stores a section's allergen flags, normalizing to
// the fourteen recognized allergens.
func (s *AttributeService) SaveAllergenAttributes(documentID int64, sectionID string, values map[string]bool) error {
	if sectionID == "" {
		return fmt.Errorf("section ID cannot be empty")
	}

	normalized := menu.NormalizeAllergenAttributes(values)
	if err := s.attributeRepo.SetFlags(documentID, menu.AllergenAttributeKey(sectionID), normalized); err != nil {
		return fmt.Errorf("failed to save allergen attributes for %s: %w", sectionID, err)
	}
	return nil
}

// GetSectionAttributes returns the dish and allergen state of a section.
// Sections without stored records report the all-false defaults.
func (s *AttributeService) GetSectionAttributes(documentID int64, sectionID string) (*SectionAttributes, error) {
	if sectionID == "" {
		return nil, fmt.Errorf("section ID cannot be empty")
	}

	dish, found, err := s.attributeRepo.GetFlags(documentID, menu.DishAttributeKey(sectionID))
	if err != nil {
		return nil, fmt.Errorf("failed to read dish attributes for %s: %w", sectionID, err)
	}
	if !found {
		dish = menu.DefaultDishAttributes()
	} else {
		dish = menu.NormalizeDishAttributes(dish)
	}

	allergens, found, err := s.attributeRepo.GetFlags(documentID, menu.AllergenAttributeKey(sectionID))
	if err != nil {
		return nil, fmt.Errorf("failed to read allergen attributes for %s: %w", sectionID, err)
	}
	if !found {
		allergens = menu.DefaultAllergenAttributes()
	} else {
		allergens = menu.NormalizeAllergenAttributes(allergens)
	}

	return &SectionAttributes{
		SectionID: sectionID,
		Dish:      dish,
		Allergens: allergens,
	}, nil
}
