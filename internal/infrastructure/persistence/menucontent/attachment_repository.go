package menucontent

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/TavolaMedia/menustack-go/internal/domain/entities/menu"
)

// AttachmentRepository stores media-library attachments.
type AttachmentRepository struct {
	db *sql.DB
}

// NewAttachmentRepository creates an attachment repository.
func NewAttachmentRepository(db *sql.DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

// FindByID returns an attachment, or nil when none exists.
func (r *AttachmentRepository) FindByID(id int64) (*menu.Attachment, error) {
	query := `SELECT id, filename, url, alt, title, created FROM attachments WHERE id = ?`

	var att menu.Attachment
	err := r.db.QueryRow(query, id).Scan(&att.ID, &att.Filename, &att.URL, &att.Alt, &att.Title, &att.Created)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load attachment %d: %w", id, err)
	}
	return &att, nil
}

// Store inserts an attachment and assigns its ID.
func (r *AttachmentRepository) Store(att *menu.Attachment) error {
	if att.Created.IsZero() {
		att.Created = time.Now().UTC()
	}

	query := `INSERT INTO attachments (filename, url, alt, title, created) VALUES (?, ?, ?, ?, ?)`
	result, err := r.db.Exec(query, att.Filename, att.URL, att.Alt, att.Title, att.Created)
	if err != nil {
		return fmt.Errorf("failed to insert attachment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read attachment ID: %w", err)
	}
	att.ID = id
	return nil
}
