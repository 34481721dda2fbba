package services

import (
	"fmt"
	"testing"

	"github.com/TavolaMedia/menustack-go/internal/domain/entities/menu"
	"github.com/TavolaMedia/menustack-go/internal/domain/menutree"
)

// fakeDocumentRepo keeps documents in memory and counts saves.
type fakeDocumentRepo struct {
	docs    map[int64]*menu.MenuDocument
	updates int
}

func newFakeDocumentRepo(docs ...*menu.MenuDocument) *fakeDocumentRepo {
	repo := &fakeDocumentRepo{docs: make(map[int64]*menu.MenuDocument)}
	for _, d := range docs {
		repo.docs[d.ID] = d
	}
	return repo
}

func (r *fakeDocumentRepo) FindByID(id int64) (*menu.MenuDocument, error) {
	return r.docs[id], nil
}

func (r *fakeDocumentRepo) FindBySlug(slug string) (*menu.MenuDocument, error) {
	for _, d := range r.docs {
		if d.Slug == slug {
			return d, nil
		}
	}
	return nil, nil
}

func (r *fakeDocumentRepo) FindAll() ([]*menu.MenuDocument, error) {
	var out []*menu.MenuDocument
	for _, d := range r.docs {
		out = append(out, d)
	}
	return out, nil
}

func (r *fakeDocumentRepo) Update(doc *menu.MenuDocument) error {
	r.updates++
	r.docs[doc.ID] = doc
	return nil
}

// fakeAttributeRepo keeps post meta in memory.
type fakeAttributeRepo struct {
	flags  map[string]map[string]bool
	values map[string]string
}

func newFakeAttributeRepo() *fakeAttributeRepo {
	return &fakeAttributeRepo{
		flags:  make(map[string]map[string]bool),
		values: make(map[string]string),
	}
}

func metaKey(postID int64, key string) string {
	return fmt.Sprintf("%d/%s", postID, key)
}

func (r *fakeAttributeRepo) GetFlags(postID int64, key string) (map[string]bool, bool, error) {
	v, ok := r.flags[metaKey(postID, key)]
	if !ok {
		return nil, false, nil
	}
	out := make(map[string]bool, len(v))
	for k, b := range v {
		out[k] = b
	}
	return out, true, nil
}

func (r *fakeAttributeRepo) SetFlags(postID int64, key string, values map[string]bool) error {
	copied := make(map[string]bool, len(values))
	for k, b := range values {
		copied[k] = b
	}
	r.flags[metaKey(postID, key)] = copied
	return nil
}

func (r *fakeAttributeRepo) GetValue(postID int64, key string) (string, bool, error) {
	v, ok := r.values[metaKey(postID, key)]
	return v, ok, nil
}

func (r *fakeAttributeRepo) SetValue(postID int64, key, value string) error {
	r.values[metaKey(postID, key)] = value
	return nil
}

// fakeAttachmentRepo serves a fixed attachment set.
type fakeAttachmentRepo struct {
	atts map[int64]*menu.Attachment
}

func (r *fakeAttachmentRepo) FindByID(id int64) (*menu.Attachment, error) {
	return r.atts[id], nil
}

func (r *fakeAttachmentRepo) Store(att *menu.Attachment) error {
	if r.atts == nil {
		r.atts = make(map[int64]*menu.Attachment)
	}
	att.ID = int64(len(r.atts) + 1)
	r.atts[att.ID] = att
	return nil
}

// fakeBroadcaster records notifications.
type fakeBroadcaster struct {
	notified []int64
}

func (b *fakeBroadcaster) BroadcastMenuUpdated(documentID int64) {
	b.notified = append(b.notified, documentID)
}

// testDocument builds a document with one category holding two dishes, each
// with a heading and a price heading.
func testDocument() *menu.MenuDocument {
	dish := func(id, suffix string) *menu.ElementNode {
		return &menu.ElementNode{
			ID: id, ElType: menu.TypeSection, Role: menu.RoleDish,
			Elements: []*menu.ElementNode{
				{
					ID: "col" + suffix, ElType: menu.TypeColumn,
					Elements: []*menu.ElementNode{
						{ID: "h" + suffix, ElType: menu.TypeWidget, WidgetType: menu.WidgetHeading, Settings: map[string]any{"title": "Dish " + suffix}},
						{ID: "p" + suffix, ElType: menu.TypeWidget, WidgetType: menu.WidgetPriceHeading, Settings: map[string]any{"title": "10€"}},
					},
				},
			},
		}
	}
	return &menu.MenuDocument{
		ID:    1,
		Title: "Menu",
		Slug:  "menu",
		Elements: []*menu.ElementNode{
			{
				ID: "cat1", ElType: menu.TypeSection, Role: menu.RoleCategory,
				Elements: []*menu.ElementNode{dish("dish1", "1"), dish("dish2", "2")},
			},
		},
	}
}

func newTestBatchService(docRepo *fakeDocumentRepo, attrRepo *fakeAttributeRepo, broadcaster Broadcaster) *BatchService {
	widgetService := NewWidgetService(docRepo, &fakeAttachmentRepo{})
	sectionService := NewSectionService(docRepo, attrRepo)
	attributeService := NewAttributeService(attrRepo)
	svc := NewBatchService(docRepo, attrRepo, widgetService, sectionService, attributeService, broadcaster)

	n := 0
	svc.newID = func() string {
		n++
		return fmt.Sprintf("gen%d", n)
	}
	sectionService.newID = svc.newID
	return svc
}

func TestBatchApplyWidgetAndAttributeChanges(t *testing.T) {
	docRepo := newFakeDocumentRepo(testDocument())
	attrRepo := newFakeAttributeRepo()
	broadcaster := &fakeBroadcaster{}
	svc := newTestBatchService(docRepo, attrRepo, broadcaster)

	changes := menu.NewChangeSet()
	changes.RecordWidget(menu.WidgetChange{WidgetID: "h1", WidgetType: menu.WidgetHeading, Content: "Spaghetti"})
	changes.RecordAttribute(menu.AttributeChange{SectionID: "dish1", Kind: menu.AttributeDish, Values: map[string]bool{"spicy": true}})

	results, err := svc.Apply(1, changes)
	if err != nil {
		t.Fatalf("Apply = %v", err)
	}

	if len(results.Widgets) != 1 || !results.Widgets[0].Success {
		t.Errorf("widget results = %+v", results.Widgets)
	}
	if len(results.Attributes) != 1 || !results.Attributes[0].Success {
		t.Errorf("attribute results = %+v", results.Attributes)
	}

	doc, _ := docRepo.FindByID(1)
	heading := menutree.FindByID(doc.Elements, "h1")
	if got := heading.StringSetting("title"); got != "Spaghetti" {
		t.Errorf("heading title = %q", got)
	}

	flags, found, _ := attrRepo.GetFlags(1, menu.DishAttributeKey("dish1"))
	if !found || !flags["spicy"] {
		t.Errorf("dish flags = %v (found=%v)", flags, found)
	}

	if docRepo.updates != 1 {
		t.Errorf("document saved %d times, want exactly 1", docRepo.updates)
	}
	if len(broadcaster.notified) != 1 || broadcaster.notified[0] != 1 {
		t.Errorf("broadcaster notified = %v", broadcaster.notified)
	}
}

func TestBatchResolvesProvisionalReferences(t *testing.T) {
	docRepo := newFakeDocumentRepo(testDocument())
	attrRepo := newFakeAttributeRepo()
	svc := newTestBatchService(docRepo, attrRepo, &fakeBroadcaster{})

	changes := menu.NewChangeSet()
	changes.RecordDuplication(menu.Duplication{OperationID: "dup-1", SourceSectionID: "dish1"})
	// Ordinal 0 is the duplicated heading, ordinal 1 the price heading.
	changes.RecordWidget(menu.WidgetChange{
		Provisional: &menu.ProvisionalRef{OperationID: "dup-1", Ordinal: 0},
		WidgetType:  menu.WidgetHeading,
		Content:     "Copy title",
	})
	changes.RecordAttribute(menu.AttributeChange{
		Provisional: &menu.ProvisionalRef{OperationID: "dup-1"},
		Kind:        menu.AttributeAllergen,
		Values:      map[string]bool{"milk": true},
	})

	results, err := svc.Apply(1, changes)
	if err != nil {
		t.Fatalf("Apply = %v", err)
	}

	if len(results.Duplications) != 1 || !results.Duplications[0].Success {
		t.Fatalf("duplication results = %+v", results.Duplications)
	}
	dup := results.Duplications[0]
	if dup.WidgetCount != 2 || len(dup.Mappings) != 2 {
		t.Fatalf("widget mappings = %+v", dup.Mappings)
	}

	doc, _ := docRepo.FindByID(1)
	newHeading := menutree.FindByID(doc.Elements, dup.Mappings[0].RealID)
	if got := newHeading.StringSetting("title"); got != "Copy title" {
		t.Errorf("provisional widget title = %q, want Copy title", got)
	}

	flags, found, _ := attrRepo.GetFlags(1, menu.AllergenAttributeKey(dup.NewSectionID))
	if !found || !flags["milk"] {
		t.Errorf("allergen flags on new section = %v (found=%v)", flags, found)
	}
}

func TestBatchCopiesAttributesOnDuplication(t *testing.T) {
	docRepo := newFakeDocumentRepo(testDocument())
	attrRepo := newFakeAttributeRepo()
	svc := newTestBatchService(docRepo, attrRepo, &fakeBroadcaster{})

	attrRepo.SetFlags(1, menu.DishAttributeKey("dish1"), map[string]bool{"vegetarian": true})

	changes := menu.NewChangeSet()
	changes.RecordDuplication(menu.Duplication{OperationID: "dup-1", SourceSectionID: "dish1"})

	results, err := svc.Apply(1, changes)
	if err != nil {
		t.Fatalf("Apply = %v", err)
	}

	newID := results.Duplications[0].NewSectionID
	flags, found, _ := attrRepo.GetFlags(1, menu.DishAttributeKey(newID))
	if !found || !flags["vegetarian"] {
		t.Errorf("copied flags = %v (found=%v)", flags, found)
	}
}

func TestBatchNewDishGetsDefaults(t *testing.T) {
	docRepo := newFakeDocumentRepo(testDocument())
	attrRepo := newFakeAttributeRepo()
	svc := newTestBatchService(docRepo, attrRepo, &fakeBroadcaster{})

	changes := menu.NewChangeSet()
	changes.RecordDuplication(menu.Duplication{OperationID: "dup-1", NewDish: true, CategoryID: "cat1"})

	results, err := svc.Apply(1, changes)
	if err != nil {
		t.Fatalf("Apply = %v", err)
	}

	newID := results.Duplications[0].NewSectionID
	doc, _ := docRepo.FindByID(1)
	dish := menutree.FindByID(doc.Elements, newID)
	if dish == nil || !dish.IsDish() {
		t.Fatal("new dish not in tree")
	}

	widgets := menutree.CollectWidgets(dish)
	if got := widgets[0].StringSetting("title"); got != menutree.PlaceholderTitle {
		t.Errorf("new dish heading = %q, want placeholder", got)
	}

	flags, found, _ := attrRepo.GetFlags(1, menu.DishAttributeKey(newID))
	if !found {
		t.Fatal("new dish has no default dish attributes")
	}
	for name, v := range flags {
		if v {
			t.Errorf("default flag %s = true, want false", name)
		}
	}
}

func TestBatchFailuresAreIsolated(t *testing.T) {
	docRepo := newFakeDocumentRepo(testDocument())
	attrRepo := newFakeAttributeRepo()
	svc := newTestBatchService(docRepo, attrRepo, &fakeBroadcaster{})

	changes := menu.NewChangeSet()
	changes.RecordWidget(menu.WidgetChange{WidgetID: "missing", WidgetType: menu.WidgetHeading, Content: "x"})
	changes.RecordWidget(menu.WidgetChange{WidgetID: "h2", WidgetType: menu.WidgetHeading, Content: "Survivor"})
	changes.RecordRemoval(menu.Removal{SectionID: "cat1"}) // categories cannot be removed
	changes.RecordRemoval(menu.Removal{SectionID: "dish1"})

	results, err := svc.Apply(1, changes)
	if err != nil {
		t.Fatalf("Apply = %v", err)
	}

	if results.Failures() != 2 {
		t.Errorf("failures = %d, want 2", results.Failures())
	}

	doc, _ := docRepo.FindByID(1)
	if menutree.FindByID(doc.Elements, "cat1") == nil {
		t.Error("category removed despite refusal")
	}
	if menutree.FindByID(doc.Elements, "dish1") != nil {
		t.Error("dish1 survived its removal")
	}
	if got := menutree.FindByID(doc.Elements, "h2").StringSetting("title"); got != "Survivor" {
		t.Errorf("independent widget change lost: title = %q", got)
	}
	if docRepo.updates != 1 {
		t.Errorf("document saved %d times, want 1", docRepo.updates)
	}
}

func TestBatchUnresolvedProvisionalFailsItem(t *testing.T) {
	docRepo := newFakeDocumentRepo(testDocument())
	svc := newTestBatchService(docRepo, newFakeAttributeRepo(), &fakeBroadcaster{})

	changes := menu.NewChangeSet()
	changes.RecordWidget(menu.WidgetChange{
		Provisional: &menu.ProvisionalRef{OperationID: "never-ran", Ordinal: 0},
		WidgetType:  menu.WidgetHeading,
		Content:     "x",
	})

	results, err := svc.Apply(1, changes)
	if err != nil {
		t.Fatalf("Apply = %v", err)
	}
	if len(results.Widgets) != 1 || results.Widgets[0].Success {
		t.Errorf("widget results = %+v, want one failed item", results.Widgets)
	}
}

func TestBatchMovementsReportReasons(t *testing.T) {
	docRepo := newFakeDocumentRepo(testDocument())
	svc := newTestBatchService(docRepo, newFakeAttributeRepo(), &fakeBroadcaster{})

	changes := menu.NewChangeSet()
	moves := []menu.Movement{
		{SectionID: "dish2", Direction: "up"},
		{SectionID: "dish2", Direction: "down"},
		{SectionID: "dish2", Direction: "down"},
	}
	for _, m := range moves {
		changes.RecordMovement(m)
	}

	results, err := svc.Apply(1, changes)
	if err != nil {
		t.Fatalf("Apply = %v", err)
	}

	if len(results.Movements) != 3 {
		t.Fatalf("movement results = %d, want 3", len(results.Movements))
	}
	// dish2 moves to the top, back down, then hits the boundary.
	if !results.Movements[0].Success || results.Movements[0].Reason != menutree.MoveValidWithinCategory {
		t.Errorf("first movement = %+v", results.Movements[0])
	}
	if !results.Movements[1].Success {
		t.Errorf("second movement = %+v", results.Movements[1])
	}
	if results.Movements[2].Success || results.Movements[2].Reason != menutree.MoveAtBottomBoundary {
		t.Errorf("third movement = %+v", results.Movements[2])
	}
}

func TestBatchDocumentNotFound(t *testing.T) {
	svc := newTestBatchService(newFakeDocumentRepo(), newFakeAttributeRepo(), &fakeBroadcaster{})

	changes := menu.NewChangeSet()
	changes.RecordRemoval(menu.Removal{SectionID: "dish1"})

	if _, err := svc.Apply(99, changes); err == nil {
		t.Error("Apply on missing document succeeded")
	}
}
