package services

import (
	"fmt"
	"path"

	"github.com/TavolaMedia/menustack-go/internal/domain/entities/menu"
	"github.com/TavolaMedia/menustack-go/internal/domain/repositories"
	"github.com/TavolaMedia/menustack-go/internal/infrastructure/media"
	"github.com/TavolaMedia/menustack-go/internal/infrastructure/security"
)

// MediaService processes dish photo uploads and resolves stored attachments
// for image widgets.
type MediaService struct {
	attachmentRepo repositories.AttachmentRepository
	processor      *media.ImageProcessor
}

// NewMediaService creates a new media application service
func NewMediaService(attachmentRepo repositories.AttachmentRepository, processor *media.ImageProcessor) *MediaService {
	return &MediaService{
		attachmentRepo: attachmentRepo,
		processor:      processor,
	}
}

// UploadDishImage stores a base64 upload, generates thumbnails and registers
// the attachment.
func (s *MediaService) UploadDishImage(data, alt, title string) (*menu.Attachment, error) {
	imageID := security.GenerateULID()

	url, _, err := s.processor.ProcessDishImage(data, imageID)
	if err != nil {
		return nil, fmt.Errorf("failed to process dish image: %w", err)
	}

	att := &menu.Attachment{
		Filename: path.Base(url),
		URL:      url,
		Alt:      alt,
		Title:    title,
	}
	if err := s.attachmentRepo.Store(att); err != nil {
		return nil, fmt.Errorf("failed to store attachment: %w", err)
	}

	return att, nil
}

// ResolveAttachment returns attachment details for an image widget.
func (s *MediaService) ResolveAttachment(id int64) (*menu.Attachment, error) {
	if id <= 0 {
		return nil, fmt.Errorf("attachment ID must be positive")
	}

	att, err := s.attachmentRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve attachment %d: %w", id, err)
	}
	return att, nil
}
