// Package menu provides domain entities for menu documents and their
// nested element trees.
package menu

import (
	"encoding/json"
	"strings"
)

// Role classifies what a section represents on the rendered menu page.
type Role string

const (
	RoleNone     Role = ""
	RoleCategory Role = "category"
	RoleDish     Role = "dish"
	RolePlain    Role = "plain"
)

// ElType values used by the element tree.
const (
	TypeSection   = "section"
	TypeColumn    = "column"
	TypeContainer = "container"
	TypeWidget    = "widget"
)

// Widget types the editor knows how to update.
const (
	WidgetHeading      = "heading"
	WidgetPriceHeading = "price-heading"
	WidgetTextEditor   = "text-editor"
	WidgetImage        = "image"
	WidgetPriceTable   = "price-table"
	WidgetPriceList    = "price-list"
)

// ElementNode is a single node in a menu document's element tree. Sibling
// order is significant and IDs are unique within a document.
type ElementNode struct {
	ID         string         `json:"id"`
	ElType     string         `json:"elType"`
	WidgetType string         `json:"widgetType,omitempty"`
	Role       Role           `json:"role,omitempty"`
	Settings   map[string]any `json:"settings,omitempty"`
	Elements   []*ElementNode `json:"elements"`
}

// Clone returns a deep copy of the node and its subtree. IDs are copied
// verbatim; callers that need fresh IDs regenerate them afterward.
func (n *ElementNode) Clone() *ElementNode {
	raw, err := json.Marshal(n)
	if err != nil {
		return nil
	}
	var out ElementNode
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return &out
}

// IsContainer reports whether the node can hold child elements that the
// editor treats as sections.
func (n *ElementNode) IsContainer() bool {
	return n.ElType == TypeSection || n.ElType == TypeContainer || n.ElType == TypeColumn
}

// IsCategory reports whether the node is a category section.
func (n *ElementNode) IsCategory() bool {
	return n.Role == RoleCategory
}

// IsDish reports whether the node is a duplicable dish section.
func (n *ElementNode) IsDish() bool {
	return n.Role == RoleDish
}

// StringSetting returns a settings value as a string, or "" when absent
// or of another type.
func (n *ElementNode) StringSetting(key string) string {
	if n.Settings == nil {
		return ""
	}
	if v, ok := n.Settings[key].(string); ok {
		return v
	}
	return ""
}

// SetSetting assigns a settings value, allocating the map when needed.
func (n *ElementNode) SetSetting(key string, value any) {
	if n.Settings == nil {
		n.Settings = make(map[string]any)
	}
	n.Settings[key] = value
}

// HasCSSClass reports whether the node's _css_classes setting contains the
// given class. Only consulted when normalizing legacy documents that carry
// no explicit role tags.
func (n *ElementNode) HasCSSClass(class string) bool {
	for _, c := range strings.Fields(n.StringSetting("_css_classes")) {
		if c == class {
			return true
		}
	}
	return false
}

// NormalizeRoles derives explicit roles for legacy trees whose sections are
// tagged through CSS classes only. Nodes that already carry a role are left
// untouched, so the derivation runs once per document load.
func NormalizeRoles(nodes []*ElementNode) {
	for _, n := range nodes {
		if n.IsContainer() && n.Role == RoleNone {
			switch {
			case n.HasCSSClass("category"):
				n.Role = RoleCategory
			case n.HasCSSClass("duplicable"):
				n.Role = RoleDish
			case n.ElType == TypeSection || n.ElType == TypeContainer:
				n.Role = RolePlain
			}
		}
		NormalizeRoles(n.Elements)
	}
}
