package menu

// WidgetMapping reports the real ID assigned to a widget that a client
// referenced provisionally, identified by its duplication operation and
// depth-first ordinal within the new section.
type WidgetMapping struct {
	OperationID string `json:"operationId"`
	Ordinal     int    `json:"ordinal"`
	RealID      string `json:"realId"`
	SectionID   string `json:"sectionId"`
}

// OperationResult is the per-item outcome for widget, attribute and removal
// entries of a batch.
type OperationResult struct {
	Target  string `json:"target"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// DuplicationResult is the per-item outcome for one duplication, carrying
// the mappings later batch phases and the client need to rebind provisional
// references.
type DuplicationResult struct {
	OperationID  string          `json:"operationId"`
	Success      bool            `json:"success"`
	NewSectionID string          `json:"newSectionId,omitempty"`
	WidgetCount  int             `json:"widgetCount"`
	Mappings     []WidgetMapping `json:"widgetMappings,omitempty"`
	Error        string          `json:"error,omitempty"`
}

// MovementResult is the per-item outcome for one movement, including the
// validity classification even when the move was refused.
type MovementResult struct {
	SectionID string `json:"sectionId"`
	Direction string `json:"direction"`
	Success   bool   `json:"success"`
	Reason    string `json:"reason"`
	Error     string `json:"error,omitempty"`
}

// BatchResults is the full outcome of a batch save. Items fail
// independently; a failed entry never aborts the remainder of the batch.
type BatchResults struct {
	Widgets      []OperationResult   `json:"widgets"`
	Attributes   []OperationResult   `json:"attributes"`
	Removals     []OperationResult   `json:"removals"`
	Duplications []DuplicationResult `json:"duplications"`
	Movements    []MovementResult    `json:"movements"`
}

// Failures counts the batch entries that did not succeed.
func (r *BatchResults) Failures() int {
	n := 0
	for _, w := range r.Widgets {
		if !w.Success {
			n++
		}
	}
	for _, a := range r.Attributes {
		if !a.Success {
			n++
		}
	}
	for _, rm := range r.Removals {
		if !rm.Success {
			n++
		}
	}
	for _, d := range r.Duplications {
		if !d.Success {
			n++
		}
	}
	for _, m := range r.Movements {
		if !m.Success {
			n++
		}
	}
	return n
}
