// Package services provides application-level services that orchestrate
// business logic and coordinate between repositories and domain entities.
package services

import (
	"fmt"

	"github.com/TavolaMedia/menustack-go/internal/domain/entities/menu"
	"github.com/TavolaMedia/menustack-go/internal/domain/repositories"
)

// DocumentService orchestrates menu document reads with the cache-first
// repository pattern.
type DocumentService struct {
	documentRepo repositories.DocumentRepository
}

// NewDocumentService creates a new document application service
func NewDocumentService(documentRepo repositories.DocumentRepository) *DocumentService {
	return &DocumentService{
		documentRepo: documentRepo,
	}
}

// GetByID returns a document by ID (cache-first)
func (s *DocumentService) GetByID(id int64) (*menu.MenuDocument, error) {
	if id <= 0 {
		return nil, fmt.Errorf("document ID must be positive")
	}

	doc, err := s.documentRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get document %d: %w", id, err)
	}

	return doc, nil
}

// GetBySlug returns a document by slug (cache-first)
func (s *DocumentService) GetBySlug(slug string) (*menu.MenuDocument, error) {
	if slug == "" {
		return nil, fmt.Errorf("document slug cannot be empty")
	}

	doc, err := s.documentRepo.FindBySlug(slug)
	if err != nil {
		return nil, fmt.Errorf("failed to get document by slug %s: %w", slug, err)
	}

	return doc, nil
}

// GetAllIDs returns the IDs of every document
func (s *DocumentService) GetAllIDs() ([]int64, error) {
	docs, err := s.documentRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to get all documents: %w", err)
	}

	ids := make([]int64, len(docs))
	for i, doc := range docs {
		ids[i] = doc.ID
	}

	return ids, nil
}
