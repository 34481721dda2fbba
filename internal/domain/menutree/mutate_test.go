package menutree

import (
	"errors"
	"testing"

	"github.com/TavolaMedia/menustack-go/internal/domain/entities/menu"
)

func TestDeleteSection(t *testing.T) {
	roots := testTree()

	if err := DeleteSection(&roots, "dish1"); err != nil {
		t.Fatalf("DeleteSection(dish1) = %v", err)
	}
	if FindByID(roots, "dish1") != nil {
		t.Error("dish1 still present after delete")
	}
	if FindByID(roots, "dish2") == nil {
		t.Error("sibling dish2 removed by delete")
	}

	cat := FindByID(roots, "cat1")
	if len(cat.Elements) != 1 {
		t.Errorf("category has %d children after delete, want 1", len(cat.Elements))
	}
}

func TestDeleteSectionRefusesCategory(t *testing.T) {
	roots := testTree()

	err := DeleteSection(&roots, "cat1")
	if !errors.Is(err, ErrCategoryDelete) {
		t.Errorf("DeleteSection(cat1) = %v, want ErrCategoryDelete", err)
	}
	if FindByID(roots, "cat1") == nil {
		t.Error("category removed despite refusal")
	}
}

func TestDeleteSectionNotFound(t *testing.T) {
	roots := testTree()

	if err := DeleteSection(&roots, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteSection(missing) = %v, want ErrNotFound", err)
	}
}

func TestDuplicateSectionDish(t *testing.T) {
	roots := testTree()

	outcome, err := DuplicateSection(&roots, "dish1", testIDGen("new"))
	if err != nil {
		t.Fatalf("DuplicateSection(dish1) = %v", err)
	}

	cat := FindByID(roots, "cat1")
	if len(cat.Elements) != 3 {
		t.Fatalf("category has %d children, want 3", len(cat.Elements))
	}
	// Copy sits immediately after the original.
	if cat.Elements[0].ID != "dish1" || cat.Elements[1] != outcome.NewSection || cat.Elements[2].ID != "dish2" {
		t.Errorf("sibling order = [%s %s %s], want copy after original", cat.Elements[0].ID, cat.Elements[1].ID, cat.Elements[2].ID)
	}

	if len(outcome.IDMap) != 4 {
		t.Errorf("IDMap covers %d nodes, want 4", len(outcome.IDMap))
	}

	// All IDs stay document-unique.
	seen := make(map[string]bool)
	for _, id := range CollectIDs(roots) {
		if seen[id] {
			t.Errorf("duplicate ID %s in document", id)
		}
		seen[id] = true
	}

	// Content is carried over.
	copied := FindByID(roots, outcome.IDMap["w1"])
	if copied == nil || copied.StringSetting("title") != "Carbonara" {
		t.Error("copied heading lost its title")
	}
}

func TestDuplicateSectionCategory(t *testing.T) {
	roots := testTree()

	outcome, err := DuplicateSection(&roots, "cat1", testIDGen("new"))
	if err != nil {
		t.Fatalf("DuplicateSection(cat1) = %v", err)
	}

	if len(roots) != 3 {
		t.Fatalf("document has %d roots, want 3", len(roots))
	}
	if roots[2] != outcome.NewSection {
		t.Error("category copy not inserted after the original")
	}
	if !outcome.NewSection.IsCategory() {
		t.Error("copy lost the category role")
	}
	if len(outcome.NewSection.Elements) != 2 {
		t.Errorf("copy has %d children, want 2", len(outcome.NewSection.Elements))
	}

	// The map covers the shell and every descendant.
	if len(outcome.IDMap) != 8 {
		t.Errorf("IDMap covers %d nodes, want 8", len(outcome.IDMap))
	}
	if outcome.IDMap["cat1"] != outcome.NewSection.ID {
		t.Error("IDMap does not map the category shell")
	}
	if FindByID(roots, outcome.IDMap["dish2"]) == nil {
		t.Error("copied dish2 not reachable under its mapped ID")
	}
}

func TestDuplicateSectionNotFound(t *testing.T) {
	roots := testTree()

	if _, err := DuplicateSection(&roots, "missing", testIDGen("new")); !errors.Is(err, ErrNotFound) {
		t.Errorf("DuplicateSection(missing) = %v, want ErrNotFound", err)
	}
}

func TestNewBlankDishFromTemplate(t *testing.T) {
	roots := testTree()

	outcome, err := NewBlankDish(&roots, "cat1", testIDGen("new"))
	if err != nil {
		t.Fatalf("NewBlankDish(cat1) = %v", err)
	}

	cat := FindByID(roots, "cat1")
	if cat.Elements[len(cat.Elements)-1] != outcome.NewSection {
		t.Error("blank dish not appended at the end of the category")
	}

	// The last dish (dish2) is the structural template.
	widgets := CollectWidgets(outcome.NewSection)
	if len(widgets) != 1 {
		t.Fatalf("blank dish has %d widgets, want 1 (from dish2 template)", len(widgets))
	}
	if got := widgets[0].StringSetting("title"); got != PlaceholderTitle {
		t.Errorf("heading title = %q, want placeholder", got)
	}
}

func TestNewBlankDishWithoutTemplate(t *testing.T) {
	roots := []*menu.ElementNode{
		{ID: "cat1", ElType: menu.TypeSection, Role: menu.RoleCategory},
	}

	outcome, err := NewBlankDish(&roots, "cat1", testIDGen("new"))
	if err != nil {
		t.Fatalf("NewBlankDish on empty category = %v", err)
	}
	if !outcome.NewSection.IsDish() {
		t.Error("built dish lost the dish role")
	}

	widgets := CollectWidgets(outcome.NewSection)
	if len(widgets) != 3 {
		t.Fatalf("basic dish has %d widgets, want 3", len(widgets))
	}
	types := []string{widgets[0].WidgetType, widgets[1].WidgetType, widgets[2].WidgetType}
	want := []string{menu.WidgetHeading, menu.WidgetTextEditor, menu.WidgetPriceHeading}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("widget %d type = %s, want %s", i, types[i], want[i])
		}
	}
}

func TestNewBlankDishRefusesNonCategory(t *testing.T) {
	roots := testTree()

	if _, err := NewBlankDish(&roots, "dish1", testIDGen("new")); !errors.Is(err, ErrNotCategory) {
		t.Errorf("NewBlankDish(dish1) = %v, want ErrNotCategory", err)
	}
	if _, err := NewBlankDish(&roots, "missing", testIDGen("new")); !errors.Is(err, ErrNotFound) {
		t.Errorf("NewBlankDish(missing) = %v, want ErrNotFound", err)
	}
}

func TestResetDishContent(t *testing.T) {
	roots := testTree()
	dish := FindByID(roots, "dish1")

	ResetDishContent(dish)

	widgets := CollectWidgets(dish)
	if got := widgets[0].StringSetting("title"); got != PlaceholderTitle {
		t.Errorf("heading title = %q, want %q", got, PlaceholderTitle)
	}
	if got := widgets[1].StringSetting("title"); got != PlaceholderPrice {
		t.Errorf("price title = %q, want %q", got, PlaceholderPrice)
	}
	if got := widgets[1].StringSetting(menu.SettingPriceValue); got != "0" {
		t.Errorf("price value = %q, want 0", got)
	}
}

func TestValidateMove(t *testing.T) {
	tests := []struct {
		name      string
		sectionID string
		direction string
		canMove   bool
		reason    string
	}{
		{"dish at top of category", "dish1", "up", false, MoveAtTopBoundary},
		{"dish down within category", "dish1", "down", true, MoveValidWithinCategory},
		{"dish at bottom boundary", "dish2", "down", false, MoveAtBottomBoundary},
		{"dish up within category", "dish2", "up", true, MoveValidWithinCategory},
		{"category with no category above", "cat1", "up", false, MoveAtTopBoundary},
		{"plain section at top", "intro", "up", false, MoveAtTopBoundary},
		{"plain section down", "intro", "down", true, MoveValidGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roots := testTree()
			check, err := ValidateMove(roots, tt.sectionID, tt.direction)
			if err != nil {
				t.Fatalf("ValidateMove = %v", err)
			}
			if check.CanMove != tt.canMove || check.Reason != tt.reason {
				t.Errorf("ValidateMove(%s, %s) = (%v, %s), want (%v, %s)",
					tt.sectionID, tt.direction, check.CanMove, check.Reason, tt.canMove, tt.reason)
			}
		})
	}
}

func TestValidateMoveCategorySkipsPlainSections(t *testing.T) {
	// Categories only move relative to other categories; plain sections in
	// between are skipped, and with no category in that direction the move
	// stops at the boundary.
	buildRoots := func() []*menu.ElementNode {
		return []*menu.ElementNode{
			{ID: "header", ElType: menu.TypeSection, Role: menu.RolePlain},
			{ID: "catA", ElType: menu.TypeSection, Role: menu.RoleCategory},
			{ID: "spacer", ElType: menu.TypeSection, Role: menu.RolePlain},
			{ID: "catB", ElType: menu.TypeSection, Role: menu.RoleCategory},
		}
	}

	tests := []struct {
		name      string
		sectionID string
		direction string
		canMove   bool
		reason    string
	}{
		{"first category up past plain header", "catA", "up", false, MoveAtTopBoundary},
		{"category down past plain spacer", "catA", "down", true, MoveValidCategory},
		{"category up past plain spacer", "catB", "up", true, MoveValidCategory},
		{"last category down", "catB", "down", false, MoveAtBottomBoundary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check, err := ValidateMove(buildRoots(), tt.sectionID, tt.direction)
			if err != nil {
				t.Fatalf("ValidateMove = %v", err)
			}
			if check.CanMove != tt.canMove || check.Reason != tt.reason {
				t.Errorf("ValidateMove(%s, %s) = (%v, %s), want (%v, %s)",
					tt.sectionID, tt.direction, check.CanMove, check.Reason, tt.canMove, tt.reason)
			}
		})
	}
}

func TestMoveSectionCategorySwapsAcrossPlainSection(t *testing.T) {
	roots := []*menu.ElementNode{
		{ID: "header", ElType: menu.TypeSection, Role: menu.RolePlain},
		{ID: "catA", ElType: menu.TypeSection, Role: menu.RoleCategory},
		{ID: "spacer", ElType: menu.TypeSection, Role: menu.RolePlain},
		{ID: "catB", ElType: menu.TypeSection, Role: menu.RoleCategory},
	}

	check, err := MoveSection(&roots, "catA", "down")
	if err != nil {
		t.Fatalf("MoveSection = %v", err)
	}
	if !check.CanMove || check.Reason != MoveValidCategory {
		t.Fatalf("MoveSection = (%v, %s), want (true, %s)", check.CanMove, check.Reason, MoveValidCategory)
	}

	got := []string{roots[0].ID, roots[1].ID, roots[2].ID, roots[3].ID}
	want := []string{"header", "catB", "spacer", "catA"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order after move = %v, want %v", got, want)
		}
	}
}

func TestMoveSectionCategoryRefusedAtTopLeavesTreeUntouched(t *testing.T) {
	roots := []*menu.ElementNode{
		{ID: "header", ElType: menu.TypeSection, Role: menu.RolePlain},
		{ID: "catA", ElType: menu.TypeSection, Role: menu.RoleCategory},
		{ID: "catB", ElType: menu.TypeSection, Role: menu.RoleCategory},
	}

	check, err := MoveSection(&roots, "catA", "up")
	if err != nil {
		t.Fatalf("MoveSection = %v", err)
	}
	if check.CanMove || check.Reason != MoveAtTopBoundary {
		t.Errorf("MoveSection = (%v, %s), want (false, %s)", check.CanMove, check.Reason, MoveAtTopBoundary)
	}
	if roots[0].ID != "header" || roots[1].ID != "catA" || roots[2].ID != "catB" {
		t.Errorf("refused move changed order to [%s %s %s]", roots[0].ID, roots[1].ID, roots[2].ID)
	}
}

func TestValidateMoveDishBlockedByCategoryNeighbor(t *testing.T) {
	// A dish at document root next to a category may not cross it.
	roots := []*menu.ElementNode{
		{ID: "d1", ElType: menu.TypeSection, Role: menu.RoleDish},
		{ID: "c1", ElType: menu.TypeSection, Role: menu.RoleCategory},
	}

	check, err := ValidateMove(roots, "d1", "down")
	if err != nil {
		t.Fatalf("ValidateMove = %v", err)
	}
	if check.CanMove || check.Reason != MoveCategoryBlocked {
		t.Errorf("ValidateMove = (%v, %s), want (false, %s)", check.CanMove, check.Reason, MoveCategoryBlocked)
	}
}

func TestMoveSectionSwapsSiblings(t *testing.T) {
	roots := testTree()

	check, err := MoveSection(&roots, "dish2", "up")
	if err != nil {
		t.Fatalf("MoveSection = %v", err)
	}
	if !check.CanMove {
		t.Fatalf("move refused: %s", check.Reason)
	}

	cat := FindByID(roots, "cat1")
	if cat.Elements[0].ID != "dish2" || cat.Elements[1].ID != "dish1" {
		t.Errorf("sibling order after move = [%s %s], want [dish2 dish1]", cat.Elements[0].ID, cat.Elements[1].ID)
	}
}

func TestMoveSectionRefusedLeavesTreeUntouched(t *testing.T) {
	roots := testTree()

	check, err := MoveSection(&roots, "dish1", "up")
	if err != nil {
		t.Fatalf("MoveSection = %v", err)
	}
	if check.CanMove {
		t.Fatal("move should have been refused")
	}

	cat := FindByID(roots, "cat1")
	if cat.Elements[0].ID != "dish1" {
		t.Error("refused move changed sibling order")
	}
}

func TestMoveSectionNotFound(t *testing.T) {
	roots := testTree()

	if _, err := MoveSection(&roots, "missing", "up"); !errors.Is(err, ErrNotFound) {
		t.Errorf("MoveSection(missing) = %v, want ErrNotFound", err)
	}
}
