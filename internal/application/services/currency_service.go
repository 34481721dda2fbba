package services

import (
	"fmt"
	"strconv"

	"github.com/TavolaMedia/menustack-go/internal/domain/entities/menu"
	"github.com/TavolaMedia/menustack-go/internal/domain/menutree"
	"github.com/TavolaMedia/menustack-go/internal/domain/repositories"
)

// CurrencyService applies global currency settings across a document's
// price headings and persists them as document meta.
type CurrencyService struct {
	documentRepo  repositories.DocumentRepository
	attributeRepo repositories.AttributeRepository
}

// NewCurrencyService creates a new currency application service
func NewCurrencyService(documentRepo repositories.DocumentRepository, attributeRepo repositories.AttributeRepository) *CurrencyService {
	return &CurrencyService{
		documentRepo:  documentRepo,
		attributeRepo: attributeRepo,
	}
}

// ApplyGlobalCurrency rewrites every price heading in the document with the
// given settings, stores them as the document's global currency meta and
// returns the number of widgets updated.
func (s *CurrencyService) ApplyGlobalCurrency(documentID int64, cur menu.CurrencySettings) (int, error) {
	doc, err := s.documentRepo.FindByID(documentID)
	if err != nil {
		return 0, fmt.Errorf("failed to load document %d: %w", documentID, err)
	}
	if doc == nil {
		return 0, fmt.Errorf("document %d not found", documentID)
	}

	updated := menutree.ApplyCurrency(doc.Elements, cur)

	if err := s.documentRepo.Update(doc); err != nil {
		return 0, fmt.Errorf("failed to save document %d: %w", documentID, err)
	}

	if err := s.persistSettings(documentID, cur); err != nil {
		return updated, err
	}
	return updated, nil
}

// GetGlobalCurrency reads the stored settings, falling back to the defaults.
func (s *CurrencyService) GetGlobalCurrency(documentID int64) (menu.CurrencySettings, error) {
	cur := menutree.DefaultCurrency

	if v, found, err := s.attributeRepo.GetValue(documentID, menu.GlobalCurrencyKey); err != nil {
		return cur, fmt.Errorf("failed to read global currency: %w", err)
	} else if found {
		cur.Currency = v
	}

	if v, found, err := s.attributeRepo.GetValue(documentID, menu.GlobalCurrencyPositionKey); err != nil {
		return cur, fmt.Errorf("failed to read currency position: %w", err)
	} else if found {
		cur.Position = v
	}

	if v, found, err := s.attributeRepo.GetValue(documentID, menu.GlobalShowCurrencyKey); err != nil {
		return cur, fmt.Errorf("failed to read show currency: %w", err)
	} else if found {
		cur.Show = v == "true" || v == "1"
	}

	return cur, nil
}

func (s *CurrencyService) persistSettings(documentID int64, cur menu.CurrencySettings) error {
	if err := s.attributeRepo.SetValue(documentID, menu.GlobalCurrencyKey, cur.Currency); err != nil {
		return fmt.Errorf("failed to store global currency: %w", err)
	}
	if err := s.attributeRepo.SetValue(documentID, menu.GlobalCurrencyPositionKey, cur.Position); err != nil {
		return fmt.Errorf("failed to store currency position: %w", err)
	}
	if err := s.attributeRepo.SetValue(documentID, menu.GlobalShowCurrencyKey, strconv.FormatBool(cur.Show)); err != nil {
		return fmt.Errorf("failed to store show currency: %w", err)
	}
	return nil
}
