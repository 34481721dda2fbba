package menu

import "fmt"

// ProvisionalRef points at an element that does not exist on the server yet
// because it will be produced by a duplication in the same batch. The
// operation ID names the client-side duplication; the ordinal is the
// position of the target widget in a depth-first walk of the duplicated
// section.
type ProvisionalRef struct {
	OperationID string `json:"operationId"`
	Ordinal     int    `json:"ordinal"`
}

// Key returns a stable map key for the reference.
func (r ProvisionalRef) Key() string {
	return fmt.Sprintf("%s#%d", r.OperationID, r.Ordinal)
}

// AttributeKind distinguishes the two attribute families.
type AttributeKind string

const (
	AttributeDish     AttributeKind = "dish"
	AttributeAllergen AttributeKind = "allergen"
)

// WidgetChange is a pending content edit for a single widget. Exactly one of
// WidgetID and Provisional is set.
type WidgetChange struct {
	WidgetID    string          `json:"widgetId,omitempty"`
	Provisional *ProvisionalRef `json:"provisional,omitempty"`
	WidgetType  string          `json:"widgetType"`
	Content     string          `json:"content"`
	Settings    map[string]any  `json:"settings,omitempty"`
}

// TargetKey returns the accumulation key for the change: the real widget ID
// when known, otherwise the provisional reference key.
func (c WidgetChange) TargetKey() string {
	if c.WidgetID != "" {
		return c.WidgetID
	}
	if c.Provisional != nil {
		return c.Provisional.Key()
	}
	return ""
}

// AttributeChange is a pending dish or allergen flag update for a section.
// Provisional references a duplication operation when the section is being
// created in the same batch; its ordinal is unused.
type AttributeChange struct {
	SectionID   string          `json:"sectionId,omitempty"`
	Provisional *ProvisionalRef `json:"provisional,omitempty"`
	Kind        AttributeKind   `json:"kind"`
	Values      map[string]bool `json:"values"`
}

// TargetKey returns the accumulation key for the change.
func (c AttributeChange) TargetKey() string {
	base := c.SectionID
	if base == "" && c.Provisional != nil {
		base = c.Provisional.Key()
	}
	return string(c.Kind) + ":" + base
}

// Removal marks a section for deletion.
type Removal struct {
	SectionID string `json:"sectionId"`
}

// Duplication requests a server-side copy of a section. When NewDish is set
// the copy is a blank dish appended to CategoryID, built from a sibling dish
// template with placeholder content.
type Duplication struct {
	OperationID     string `json:"operationId"`
	SourceSectionID string `json:"sourceSectionId,omitempty"`
	NewDish         bool   `json:"newDish,omitempty"`
	CategoryID      string `json:"categoryId,omitempty"`
}

// Movement requests a one-step reorder of a section among its siblings.
type Movement struct {
	SectionID string `json:"sectionId"`
	Direction string `json:"direction"` // "up" or "down"
}

// ChangeSet accumulates pending edits between saves. Widget and attribute
// changes are keyed so repeat edits to the same target collapse to the last
// write; removals, duplications and movements are ordered journals.
type ChangeSet struct {
	Widgets      map[string]WidgetChange    `json:"widgets"`
	Attributes   map[string]AttributeChange `json:"attributes"`
	Removals     []Removal                  `json:"removals"`
	Duplications []Duplication              `json:"duplications"`
	Movements    []Movement                 `json:"movements"`
}

// NewChangeSet returns an empty change set.
func NewChangeSet() *ChangeSet {
	return &ChangeSet{
		Widgets:    make(map[string]WidgetChange),
		Attributes: make(map[string]AttributeChange),
	}
}

// RecordWidget stores a widget edit, replacing any earlier edit of the same
// target.
func (cs *ChangeSet) RecordWidget(change WidgetChange) {
	key := change.TargetKey()
	if key == "" {
		return
	}
	if cs.Widgets == nil {
		cs.Widgets = make(map[string]WidgetChange)
	}
	cs.Widgets[key] = change
}

// RecordAttribute stores an attribute edit, replacing any earlier edit of
// the same section and kind.
func (cs *ChangeSet) RecordAttribute(change AttributeChange) {
	if cs.Attributes == nil {
		cs.Attributes = make(map[string]AttributeChange)
	}
	cs.Attributes[change.TargetKey()] = change
}

// RecordRemoval appends a section removal.
func (cs *ChangeSet) RecordRemoval(r Removal) {
	cs.Removals = append(cs.Removals, r)
}

// RecordDuplication appends a duplication request.
func (cs *ChangeSet) RecordDuplication(d Duplication) {
	cs.Duplications = append(cs.Duplications, d)
}

// RecordMovement appends a movement request.
func (cs *ChangeSet) RecordMovement(m Movement) {
	cs.Movements = append(cs.Movements, m)
}

// IsEmpty reports whether the change set holds no pending edits.
func (cs *ChangeSet) IsEmpty() bool {
	return len(cs.Widgets) == 0 && len(cs.Attributes) == 0 &&
		len(cs.Removals) == 0 && len(cs.Duplications) == 0 && len(cs.Movements) == 0
}

// Count returns the total number of pending edits.
func (cs *ChangeSet) Count() int {
	return len(cs.Widgets) + len(cs.Attributes) +
		len(cs.Removals) + len(cs.Duplications) + len(cs.Movements)
}

// Snapshot returns an independent copy of the change set, so a save can work
// from frozen state while new edits keep accumulating.
func (cs *ChangeSet) Snapshot() *ChangeSet {
	out := NewChangeSet()
	for k, v := range cs.Widgets {
		out.Widgets[k] = v
	}
	for k, v := range cs.Attributes {
		out.Attributes[k] = v
	}
	out.Removals = append(out.Removals, cs.Removals...)
	out.Duplications = append(out.Duplications, cs.Duplications...)
	out.Movements = append(out.Movements, cs.Movements...)
	return out
}

// Clear discards all pending edits.
func (cs *ChangeSet) Clear() {
	cs.Widgets = make(map[string]WidgetChange)
	cs.Attributes = make(map[string]AttributeChange)
	cs.Removals = nil
	cs.Duplications = nil
	cs.Movements = nil
}
