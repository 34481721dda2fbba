// Package menutree implements traversal and mutation of menu element trees:
// a generic depth-first visitor, section mutators (delete, duplicate, move,
// blank dish creation) and per-type widget updaters.
package menutree

import (
	"errors"

	"github.com/TavolaMedia/menustack-go/internal/domain/entities/menu"
)

var (
	// ErrNotFound is returned when no element with the requested ID exists.
	ErrNotFound = errors.New("element not found")
	// ErrCategoryDelete is returned when a delete targets a category section.
	ErrCategoryDelete = errors.New("category sections cannot be deleted")
	// ErrNotCategory is returned when a dish-creation target is not a category.
	ErrNotCategory = errors.New("target section is not a category")
	// ErrUnknownWidgetType is returned for widget types the editor cannot update.
	ErrUnknownWidgetType = errors.New("unsupported widget type")
)

// IDGen mints new document-unique element IDs.
type IDGen func() string

// Visitor is called for every node in document order. Returning false stops
// the walk.
type Visitor func(node, parent *menu.ElementNode) bool

// Walk visits every node of the forest depth-first in sibling order. It
// returns false when the visitor stopped the walk early.
func Walk(roots []*menu.ElementNode, visit Visitor) bool {
	return walk(roots, nil, visit)
}

func walk(nodes []*menu.ElementNode, parent *menu.ElementNode, visit Visitor) bool {
	for _, n := range nodes {
		if !visit(n, parent) {
			return false
		}
		if !walk(n.Elements, n, visit) {
			return false
		}
	}
	return true
}

// FindByID returns the node with the given ID, or nil.
func FindByID(roots []*menu.ElementNode, id string) *menu.ElementNode {
	var found *menu.ElementNode
	Walk(roots, func(n, _ *menu.ElementNode) bool {
		if n.ID == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// FindWithParent locates a node together with the sibling slice that
// contains it, so callers can splice. The returned slice pointer addresses
// either the document roots or a parent's Elements field.
func FindWithParent(roots *[]*menu.ElementNode, id string) (*menu.ElementNode, *[]*menu.ElementNode, int) {
	return findInSlice(roots, id)
}

func findInSlice(container *[]*menu.ElementNode, id string) (*menu.ElementNode, *[]*menu.ElementNode, int) {
	for i, n := range *container {
		if n.ID == id {
			return n, container, i
		}
		if node, parent, idx := findInSlice(&n.Elements, id); node != nil {
			return node, parent, idx
		}
	}
	return nil, nil, -1
}

// CollectWidgets returns the widgets under a section in depth-first order.
// The slice index is the widget's ordinal, the position provisional widget
// references are resolved against.
func CollectWidgets(section *menu.ElementNode) []*menu.ElementNode {
	var widgets []*menu.ElementNode
	Walk(section.Elements, func(n, _ *menu.ElementNode) bool {
		if n.ElType == menu.TypeWidget {
			widgets = append(widgets, n)
		}
		return true
	})
	return widgets
}

// CountElements returns the total node count of the forest.
func CountElements(roots []*menu.ElementNode) int {
	count := 0
	Walk(roots, func(_, _ *menu.ElementNode) bool {
		count++
		return true
	})
	return count
}

// CollectIDs returns every element ID in the forest in document order.
func CollectIDs(roots []*menu.ElementNode) []string {
	var ids []string
	Walk(roots, func(n, _ *menu.ElementNode) bool {
		ids = append(ids, n.ID)
		return true
	})
	return ids
}

// RegenerateIDs assigns fresh IDs to a node and all of its descendants and
// returns the old-to-new mapping.
func RegenerateIDs(node *menu.ElementNode, newID IDGen) map[string]string {
	idMap := make(map[string]string)
	regenerate(node, newID, idMap)
	return idMap
}

func regenerate(node *menu.ElementNode, newID IDGen, idMap map[string]string) {
	fresh := newID()
	idMap[node.ID] = fresh
	node.ID = fresh
	for _, child := range node.Elements {
		regenerate(child, newID, idMap)
	}
}
