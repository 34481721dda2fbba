// Package caching provides the in-memory content cache backing the
// cache-first repositories.
package caching

import (
	"sync"
	"time"

	"github.com/TavolaMedia/menustack-go/internal/domain/entities/menu"
)

type cachedDocument struct {
	doc      *menu.MenuDocument
	cachedAt time.Time
}

// ContentCache is a TTL-bound cache of menu documents keyed by ID, with a
// slug index for slug lookups.
type ContentCache struct {
	mu    sync.RWMutex
	docs  map[int64]cachedDocument
	slugs map[string]int64
	ttl   time.Duration
}

// NewContentCache creates a content cache with the given TTL.
func NewContentCache(ttl time.Duration) *ContentCache {
	return &ContentCache{
		docs:  make(map[int64]cachedDocument),
		slugs: make(map[string]int64),
		ttl:   ttl,
	}
}

// GetDocument returns a cached document when present and fresh.
func (c *ContentCache) GetDocument(id int64) (*menu.MenuDocument, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.docs[id]
	if !ok || time.Since(entry.cachedAt) > c.ttl {
		return nil, false
	}
	return entry.doc, true
}

// GetDocumentBySlug returns a cached document by slug when present and fresh.
func (c *ContentCache) GetDocumentBySlug(slug string) (*menu.MenuDocument, bool) {
	c.mu.RLock()
	id, ok := c.slugs[slug]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return c.GetDocument(id)
}

// SetDocument stores a document.
func (c *ContentCache) SetDocument(doc *menu.MenuDocument) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.docs[doc.ID] = cachedDocument{doc: doc, cachedAt: time.Now()}
	c.slugs[doc.Slug] = doc.ID
}

// InvalidateDocument drops a single document.
func (c *ContentCache) InvalidateDocument(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.docs[id]; ok {
		delete(c.slugs, entry.doc.Slug)
	}
	delete(c.docs, id)
}

// InvalidateAll drops every cached document.
func (c *ContentCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.docs = make(map[int64]cachedDocument)
	c.slugs = make(map[string]int64)
}
