package menutree

import (
	"fmt"

	"github.com/TavolaMedia/menustack-go/internal/domain/entities/menu"
)

// Placeholder content assigned to freshly created blank dishes.
const (
	PlaceholderTitle = "Scrivi il titolo qui..."
	PlaceholderText  = "<p>Scrivi il testo qui...</p>"
	PlaceholderPrice = "0€"
	PlaceholderImage = "placeholder.png"
)

// Move validity classifications.
const (
	MoveAtTopBoundary       = "at_top_boundary"
	MoveAtBottomBoundary    = "at_bottom_boundary"
	MoveCategoryBlocked     = "category_boundary_blocked"
	MoveValidWithinCategory = "valid_within_category"
	MoveValidCategory       = "valid_category_movement"
	MoveValidGeneral        = "valid_general_movement"
)

// DuplicateOutcome reports a completed duplication: the inserted section and
// the old-to-new ID mapping covering every node of the copied subtree.
type DuplicateOutcome struct {
	NewSection *menu.ElementNode
	IDMap      map[string]string
}

// MoveCheck is the validity ruling for a proposed movement.
type MoveCheck struct {
	CanMove bool
	Reason  string
}

// DeleteSection removes a section from the tree. Categories are refused;
// anything else is spliced out of its sibling slice. The section's attribute
// records, if any, are intentionally left behind in the attribute store.
func DeleteSection(roots *[]*menu.ElementNode, sectionID string) error {
	node, siblings, idx := FindWithParent(roots, sectionID)
	if node == nil {
		return fmt.Errorf("delete section %s: %w", sectionID, ErrNotFound)
	}
	if node.IsCategory() {
		return fmt.Errorf("delete section %s: %w", sectionID, ErrCategoryDelete)
	}
	*siblings = append((*siblings)[:idx], (*siblings)[idx+1:]...)
	return nil
}

// DuplicateSection copies a section and inserts the copy immediately after
// the original. Every node of the copy receives a fresh ID.
//
// Categories are copied child by child: the shell is cloned empty, then each
// child subtree is cloned and re-identified in turn, so the ID map is built
// per child the same way single-dish duplication builds it. Other sections
// are cloned as one subtree.
func DuplicateSection(roots *[]*menu.ElementNode, sectionID string, newID IDGen) (*DuplicateOutcome, error) {
	node, siblings, idx := FindWithParent(roots, sectionID)
	if node == nil {
		return nil, fmt.Errorf("duplicate section %s: %w", sectionID, ErrNotFound)
	}

	idMap := make(map[string]string)
	var copy *menu.ElementNode

	if node.IsCategory() {
		shell := node.Clone()
		shell.Elements = nil
		fresh := newID()
		idMap[node.ID] = fresh
		shell.ID = fresh

		for _, child := range node.Elements {
			childCopy := child.Clone()
			for old, fresh := range RegenerateIDs(childCopy, newID) {
				idMap[old] = fresh
			}
			shell.Elements = append(shell.Elements, childCopy)
		}
		copy = shell
	} else {
		copy = node.Clone()
		idMap = RegenerateIDs(copy, newID)
	}

	*siblings = append((*siblings)[:idx+1], append([]*menu.ElementNode{copy}, (*siblings)[idx+1:]...)...)

	return &DuplicateOutcome{NewSection: copy, IDMap: idMap}, nil
}

// NewBlankDish creates a fresh dish at the end of a category. The last dish
// child serves as the structural template; its copy is re-identified and its
// content reset to placeholders. A category without any dish gets a minimal
// dish built from scratch.
func NewBlankDish(roots *[]*menu.ElementNode, categoryID string, newID IDGen) (*DuplicateOutcome, error) {
	category := FindByID(*roots, categoryID)
	if category == nil {
		return nil, fmt.Errorf("new dish in %s: %w", categoryID, ErrNotFound)
	}
	if !category.IsCategory() {
		return nil, fmt.Errorf("new dish in %s: %w", categoryID, ErrNotCategory)
	}

	var template *menu.ElementNode
	for _, child := range category.Elements {
		if child.IsDish() {
			template = child
		}
	}

	var dish *menu.ElementNode
	idMap := make(map[string]string)
	if template != nil {
		dish = template.Clone()
		idMap = RegenerateIDs(dish, newID)
		ResetDishContent(dish)
	} else {
		dish = buildBasicDish(newID)
		idMap[dish.ID] = dish.ID
	}

	category.Elements = append(category.Elements, dish)
	return &DuplicateOutcome{NewSection: dish, IDMap: idMap}, nil
}

// ResetDishContent replaces the editable content of every widget in a dish
// with placeholder values, keeping layout settings intact.
func ResetDishContent(dish *menu.ElementNode) {
	for _, w := range CollectWidgets(dish) {
		switch w.WidgetType {
		case menu.WidgetHeading:
			w.SetSetting("title", PlaceholderTitle)
		case menu.WidgetPriceHeading:
			w.SetSetting("title", PlaceholderPrice)
			w.SetSetting(menu.SettingPriceValue, "0")
		case menu.WidgetTextEditor:
			w.SetSetting("editor", PlaceholderText)
		case menu.WidgetImage:
			w.SetSetting("image", map[string]any{"url": PlaceholderImage, "id": float64(0)})
		case menu.WidgetPriceTable, menu.WidgetPriceList:
			w.SetSetting("price", "0")
		}
	}
}

// buildBasicDish assembles a minimal dish for categories that carry no
// template to copy: one column holding a heading, a text editor and a price
// heading.
func buildBasicDish(newID IDGen) *menu.ElementNode {
	return &menu.ElementNode{
		ID:     newID(),
		ElType: menu.TypeSection,
		Role:   menu.RoleDish,
		Elements: []*menu.ElementNode{
			{
				ID:     newID(),
				ElType: menu.TypeColumn,
				Elements: []*menu.ElementNode{
					{
						ID:         newID(),
						ElType:     menu.TypeWidget,
						WidgetType: menu.WidgetHeading,
						Settings:   map[string]any{"title": PlaceholderTitle},
					},
					{
						ID:         newID(),
						ElType:     menu.TypeWidget,
						WidgetType: menu.WidgetTextEditor,
						Settings:   map[string]any{"editor": PlaceholderText},
					},
					{
						ID:         newID(),
						ElType:     menu.TypeWidget,
						WidgetType: menu.WidgetPriceHeading,
						Settings: map[string]any{
							"title":                PlaceholderPrice,
							menu.SettingPriceValue: "0",
						},
					},
				},
			},
		},
	}
}

// moveTarget resolves the sibling index a movement would swap with, plus the
// validity ruling. Dishes and plain sections trade places with the adjacent
// sibling. Categories trade places with the nearest category sibling in the
// movement direction, skipping plain sections in between; with no other
// category that way, the move is refused at the boundary.
func moveTarget(node *menu.ElementNode, siblings []*menu.ElementNode, idx int, direction string) (int, MoveCheck) {
	step := -1
	boundary := MoveAtTopBoundary
	if direction == "down" {
		step = 1
		boundary = MoveAtBottomBoundary
	}

	if node.IsCategory() {
		for t := idx + step; t >= 0 && t < len(siblings); t += step {
			if siblings[t].IsCategory() {
				return t, MoveCheck{CanMove: true, Reason: MoveValidCategory}
			}
		}
		return -1, MoveCheck{CanMove: false, Reason: boundary}
	}

	target := idx + step
	if target < 0 || target >= len(siblings) {
		return -1, MoveCheck{CanMove: false, Reason: boundary}
	}

	neighbor := siblings[target]
	switch {
	case node.IsDish() && neighbor.IsCategory():
		return -1, MoveCheck{CanMove: false, Reason: MoveCategoryBlocked}
	case node.IsDish():
		return target, MoveCheck{CanMove: true, Reason: MoveValidWithinCategory}
	default:
		return target, MoveCheck{CanMove: true, Reason: MoveValidGeneral}
	}
}

// ValidateMove classifies a proposed one-step movement without applying it.
// Dishes may not cross a category boundary; categories only move relative to
// other categories.
func ValidateMove(roots []*menu.ElementNode, sectionID, direction string) (MoveCheck, error) {
	rootsCopy := roots
	node, siblings, idx := FindWithParent(&rootsCopy, sectionID)
	if node == nil {
		return MoveCheck{}, fmt.Errorf("move section %s: %w", sectionID, ErrNotFound)
	}
	_, check := moveTarget(node, *siblings, idx, direction)
	return check, nil
}

// MoveSection validates and applies a one-step movement, swapping the
// section with the resolved target sibling. The returned check carries the
// classification whether or not the move was applied.
func MoveSection(roots *[]*menu.ElementNode, sectionID, direction string) (MoveCheck, error) {
	node, siblings, idx := FindWithParent(roots, sectionID)
	if node == nil {
		return MoveCheck{}, fmt.Errorf("move section %s: %w", sectionID, ErrNotFound)
	}

	target, check := moveTarget(node, *siblings, idx, direction)
	if !check.CanMove {
		return check, nil
	}

	(*siblings)[idx], (*siblings)[target] = (*siblings)[target], (*siblings)[idx]
	return check, nil
}
