package menu

import (
	"encoding/json"
	"testing"
)

func TestChangeSetRecordWidgetLastWriteWins(t *testing.T) {
	cs := NewChangeSet()

	cs.RecordWidget(WidgetChange{WidgetID: "w1", WidgetType: WidgetHeading, Content: "first"})
	cs.RecordWidget(WidgetChange{WidgetID: "w1", WidgetType: WidgetHeading, Content: "second"})
	cs.RecordWidget(WidgetChange{WidgetID: "w2", WidgetType: WidgetHeading, Content: "other"})

	if len(cs.Widgets) != 2 {
		t.Fatalf("widget changes = %d, want 2", len(cs.Widgets))
	}
	if got := cs.Widgets["w1"].Content; got != "second" {
		t.Errorf("w1 content = %q, want the later edit", got)
	}
}

func TestChangeSetRecordWidgetProvisionalKey(t *testing.T) {
	cs := NewChangeSet()

	ref := &ProvisionalRef{OperationID: "dup-1", Ordinal: 2}
	cs.RecordWidget(WidgetChange{Provisional: ref, WidgetType: WidgetHeading, Content: "x"})

	if _, ok := cs.Widgets["dup-1#2"]; !ok {
		t.Errorf("provisional change keyed as %v, want dup-1#2", cs.Widgets)
	}

	// A change with no target at all is dropped.
	cs.RecordWidget(WidgetChange{WidgetType: WidgetHeading, Content: "orphan"})
	if len(cs.Widgets) != 1 {
		t.Error("targetless change was recorded")
	}
}

func TestChangeSetRecordAttributeCollapsesByKind(t *testing.T) {
	cs := NewChangeSet()

	cs.RecordAttribute(AttributeChange{SectionID: "s1", Kind: AttributeDish, Values: map[string]bool{"spicy": true}})
	cs.RecordAttribute(AttributeChange{SectionID: "s1", Kind: AttributeDish, Values: map[string]bool{"spicy": false}})
	cs.RecordAttribute(AttributeChange{SectionID: "s1", Kind: AttributeAllergen, Values: map[string]bool{"gluten": true}})

	if len(cs.Attributes) != 2 {
		t.Fatalf("attribute changes = %d, want 2 (dish and allergen kept separate)", len(cs.Attributes))
	}
	if cs.Attributes["dish:s1"].Values["spicy"] {
		t.Error("dish change did not collapse to the later edit")
	}
}

func TestChangeSetJournalsKeepOrder(t *testing.T) {
	cs := NewChangeSet()

	cs.RecordRemoval(Removal{SectionID: "a"})
	cs.RecordDuplication(Duplication{OperationID: "dup-1", SourceSectionID: "b"})
	cs.RecordRemoval(Removal{SectionID: "c"})
	cs.RecordMovement(Movement{SectionID: "d", Direction: "up"})
	cs.RecordMovement(Movement{SectionID: "d", Direction: "up"})

	if len(cs.Removals) != 2 || cs.Removals[0].SectionID != "a" || cs.Removals[1].SectionID != "c" {
		t.Errorf("removals = %v, want journal order [a c]", cs.Removals)
	}
	// Repeated movements accumulate; they are not collapsed.
	if len(cs.Movements) != 2 {
		t.Errorf("movements = %d, want 2", len(cs.Movements))
	}
}

func TestChangeSetCountAndIsEmpty(t *testing.T) {
	cs := NewChangeSet()
	if !cs.IsEmpty() || cs.Count() != 0 {
		t.Error("fresh change set should be empty")
	}

	cs.RecordWidget(WidgetChange{WidgetID: "w1", WidgetType: WidgetHeading})
	cs.RecordRemoval(Removal{SectionID: "s1"})

	if cs.IsEmpty() {
		t.Error("change set with edits reported empty")
	}
	if cs.Count() != 2 {
		t.Errorf("Count = %d, want 2", cs.Count())
	}
}

func TestChangeSetSnapshotIsIndependent(t *testing.T) {
	cs := NewChangeSet()
	cs.RecordWidget(WidgetChange{WidgetID: "w1", WidgetType: WidgetHeading, Content: "a"})
	cs.RecordRemoval(Removal{SectionID: "s1"})

	snap := cs.Snapshot()

	cs.RecordWidget(WidgetChange{WidgetID: "w1", WidgetType: WidgetHeading, Content: "b"})
	cs.RecordRemoval(Removal{SectionID: "s2"})

	if got := snap.Widgets["w1"].Content; got != "a" {
		t.Errorf("snapshot widget content = %q, want frozen value a", got)
	}
	if len(snap.Removals) != 1 {
		t.Errorf("snapshot removals = %d, want 1", len(snap.Removals))
	}
}

func TestChangeSetClear(t *testing.T) {
	cs := NewChangeSet()
	cs.RecordWidget(WidgetChange{WidgetID: "w1", WidgetType: WidgetHeading})
	cs.RecordDuplication(Duplication{OperationID: "dup-1"})

	cs.Clear()

	if !cs.IsEmpty() {
		t.Error("change set not empty after Clear")
	}
	// Cleared set stays usable.
	cs.RecordWidget(WidgetChange{WidgetID: "w2", WidgetType: WidgetHeading})
	if cs.Count() != 1 {
		t.Error("cleared change set rejected new edits")
	}
}

func TestChangeSetRoundTrips(t *testing.T) {
	cs := NewChangeSet()
	cs.RecordWidget(WidgetChange{
		Provisional: &ProvisionalRef{OperationID: "dup-1", Ordinal: 0},
		WidgetType:  WidgetPriceHeading,
		Content:     "12,50",
	})
	cs.RecordDuplication(Duplication{OperationID: "dup-1", SourceSectionID: "dish1"})

	raw, err := json.Marshal(cs)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	decoded := NewChangeSet()
	if err := json.Unmarshal(raw, decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	change, ok := decoded.Widgets["dup-1#0"]
	if !ok {
		t.Fatalf("widget change lost in round trip: %v", decoded.Widgets)
	}
	if change.Provisional == nil || change.Provisional.OperationID != "dup-1" {
		t.Error("provisional reference lost in round trip")
	}
}
