// Package menucontent provides the SQL-backed repositories for menu
// documents, attributes and attachments.
package menucontent

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/TavolaMedia/menustack-go/internal/domain/entities/menu"
	"github.com/TavolaMedia/menustack-go/internal/infrastructure/caching"
	"github.com/TavolaMedia/menustack-go/internal/infrastructure/observability/logging"
	"github.com/TavolaMedia/menustack-go/internal/infrastructure/persistence/database"
)

// DocumentRepository is the cache-first store for menu documents.
type DocumentRepository struct {
	db     *sql.DB
	cache  *caching.ContentCache
	logger *logging.ChanneledLogger
}

// NewDocumentRepository creates a document repository. The logger may be nil;
// slow query reporting is skipped without one.
func NewDocumentRepository(db *sql.DB, cache *caching.ContentCache, logger *logging.ChanneledLogger) *DocumentRepository {
	return &DocumentRepository{
		db:     db,
		cache:  cache,
		logger: logger,
	}
}

// FindByID returns a document, reading through the cache. Callers receive a
// private copy: the cache only ever holds persisted state, so a caller that
// mutates its copy and then fails to save cannot poison later reads.
func (r *DocumentRepository) FindByID(id int64) (*menu.MenuDocument, error) {
	if doc, found := r.cache.GetDocument(id); found {
		return doc.Clone(), nil
	}

	doc, err := r.loadFromDB(id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}

	r.cache.SetDocument(doc.Clone())
	return doc, nil
}

// FindBySlug returns a document by slug, reading through the cache.
func (r *DocumentRepository) FindBySlug(slug string) (*menu.MenuDocument, error) {
	if doc, found := r.cache.GetDocumentBySlug(slug); found {
		return doc, nil
	}

	var id int64
	err := r.db.QueryRow(`SELECT id FROM menu_documents WHERE slug = ?`, slug).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query document by slug: %w", err)
	}

	return r.FindByID(id)
}

// FindAll returns every document.
func (r *DocumentRepository) FindAll() ([]*menu.MenuDocument, error) {
	rows, err := r.db.Query(`SELECT id FROM menu_documents ORDER BY title`)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan document ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	docs := make([]*menu.MenuDocument, 0, len(ids))
	for _, id := range ids {
		doc, err := r.FindByID(id)
		if err != nil {
			return nil, err
		}
		if doc != nil {
			docs = append(docs, doc)
		}
	}

	return docs, nil
}

// Update persists a document's element tree and refreshes the cache.
func (r *DocumentRepository) Update(doc *menu.MenuDocument) error {
	elementsJSON, err := json.Marshal(doc.Elements)
	if err != nil {
		return fmt.Errorf("failed to marshal elements: %w", err)
	}

	doc.Changed = time.Now().UTC()

	query := `UPDATE menu_documents SET title = ?, slug = ?, elements = ?, changed = ? WHERE id = ?`
	start := time.Now()
	_, err = r.db.Exec(query, doc.Title, doc.Slug, string(elementsJSON), doc.Changed, doc.ID)
	if r.logger != nil {
		database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	}
	if err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}

	r.cache.SetDocument(doc.Clone())
	return nil
}

func (r *DocumentRepository) loadFromDB(id int64) (*menu.MenuDocument, error) {
	query := `SELECT id, title, slug, elements, created, changed FROM menu_documents WHERE id = ?`

	var doc menu.MenuDocument
	var elementsJSON string
	start := time.Now()
	err := r.db.QueryRow(query, id).Scan(&doc.ID, &doc.Title, &doc.Slug, &elementsJSON, &doc.Created, &doc.Changed)
	if r.logger != nil {
		database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	}
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load document %d: %w", id, err)
	}

	if err := json.Unmarshal([]byte(elementsJSON), &doc.Elements); err != nil {
		return nil, fmt.Errorf("failed to unmarshal elements for document %d: %w", id, err)
	}

	// Legacy documents carry roles as CSS classes only.
	menu.NormalizeRoles(doc.Elements)

	return &doc, nil
}
