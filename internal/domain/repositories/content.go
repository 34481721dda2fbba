// Package repositories defines the repository interfaces for menu content.
// These repositories abstract the data persistence details, ensuring the core
// application is clean and decoupled from the database.
package repositories

import (
	"github.com/TavolaMedia/menustack-go/internal/domain/entities/menu"
)

// DocumentRepository provides access to menu documents and their element
// trees.
type DocumentRepository interface {
	FindByID(id int64) (*menu.MenuDocument, error)
	FindBySlug(slug string) (*menu.MenuDocument, error)
	FindAll() ([]*menu.MenuDocument, error)
	Update(doc *menu.MenuDocument) error
}

// AttributeRepository is the post-meta style attribute store. Flag records
// hold dish or allergen booleans keyed by section ID; value records hold
// scalar settings such as the global currency.
type AttributeRepository interface {
	GetFlags(postID int64, key string) (map[string]bool, bool, error)
	SetFlags(postID int64, key string, values map[string]bool) error
	GetValue(postID int64, key string) (string, bool, error)
	SetValue(postID int64, key, value string) error
}

// AttachmentRepository provides access to media-library attachments.
type AttachmentRepository interface {
	FindByID(id int64) (*menu.Attachment, error)
	Store(att *menu.Attachment) error
}
