package menu

import "time"

// MenuDocument is a published menu page backed by an element tree.
type MenuDocument struct {
	ID       int64          `json:"id"`
	Title    string         `json:"title"`
	Slug     string         `json:"slug"`
	Elements []*ElementNode `json:"elements"`
	Created  time.Time      `json:"created"`
	Changed  time.Time      `json:"changed"`
}

// Clone returns a deep copy of the document. Callers may mutate the copy's
// element tree without affecting the original.
func (d *MenuDocument) Clone() *MenuDocument {
	c := *d
	c.Elements = make([]*ElementNode, len(d.Elements))
	for i, el := range d.Elements {
		c.Elements[i] = el.Clone()
	}
	return &c
}

// Attachment is a stored media-library image referenced by image widgets.
type Attachment struct {
	ID       int64     `json:"id"`
	Filename string    `json:"filename"`
	URL      string    `json:"url"`
	Alt      string    `json:"alt"`
	Title    string    `json:"title"`
	Created  time.Time `json:"created"`
}
