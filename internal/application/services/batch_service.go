package services

import (
	"fmt"
	"sort"

	"github.com/TavolaMedia/menustack-go/internal/domain/entities/menu"
	"github.com/TavolaMedia/menustack-go/internal/domain/menutree"
	"github.com/TavolaMedia/menustack-go/internal/domain/repositories"
	"github.com/TavolaMedia/menustack-go/internal/infrastructure/security"
)

// Broadcaster is the notification sink for completed saves.
type Broadcaster interface {
	BroadcastMenuUpdated(documentID int64)
}

// BatchService reconciles an accumulated change set against a document in a
// single save. Operations are applied in a fixed order (duplications, widget
// changes, attribute changes, removals, movements) and each item fails
// independently; there is no rollback of earlier items.
type BatchService struct {
	documentRepo     repositories.DocumentRepository
	attributeRepo    repositories.AttributeRepository
	widgetService    *WidgetService
	sectionService   *SectionService
	attributeService *AttributeService
	broadcaster      Broadcaster
	newID            menutree.IDGen
}

// NewBatchService creates a new batch application service. The broadcaster
// may be nil when no realtime notifications are wired.
func NewBatchService(
	documentRepo repositories.DocumentRepository,
	attributeRepo repositories.AttributeRepository,
	widgetService *WidgetService,
	sectionService *SectionService,
	attributeService *AttributeService,
	broadcaster Broadcaster,
) *BatchService {
	return &BatchService{
		documentRepo:     documentRepo,
		attributeRepo:    attributeRepo,
		widgetService:    widgetService,
		sectionService:   sectionService,
		attributeService: attributeService,
		broadcaster:      broadcaster,
		newID:            security.GenerateElementID,
	}
}

// Apply reconciles the change set against the document and returns per-item
// results. The document is persisted once, after all tree operations.
func (s *BatchService) Apply(documentID int64, changes *menu.ChangeSet) (*menu.BatchResults, error) {
	doc, err := s.documentRepo.FindByID(documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load document %d: %w", documentID, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("document %d not found", documentID)
	}

	results := &menu.BatchResults{}

	// Duplications run first so later phases can rebind provisional
	// references to the IDs minted here.
	sectionByOp := make(map[string]string)
	widgetByRef := make(map[string]string)
	for _, d := range changes.Duplications {
		s.applyDuplication(documentID, doc, d, results, sectionByOp, widgetByRef)
	}

	s.applyWidgets(doc, changes, results, widgetByRef)
	s.applyAttributes(documentID, changes, results, sectionByOp)

	for _, r := range changes.Removals {
		res := menu.OperationResult{Target: r.SectionID, Success: true}
		if err := menutree.DeleteSection(&doc.Elements, r.SectionID); err != nil {
			res.Success = false
			res.Error = err.Error()
		}
		results.Removals = append(results.Removals, res)
	}

	for _, m := range changes.Movements {
		res := menu.MovementResult{SectionID: m.SectionID, Direction: m.Direction}
		check, err := menutree.MoveSection(&doc.Elements, m.SectionID, m.Direction)
		switch {
		case err != nil:
			res.Error = err.Error()
		default:
			res.Success = check.CanMove
			res.Reason = check.Reason
		}
		results.Movements = append(results.Movements, res)
	}

	if err := s.documentRepo.Update(doc); err != nil {
		return results, fmt.Errorf("failed to save document %d: %w", documentID, err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastMenuUpdated(documentID)
	}

	return results, nil
}

// applyDuplication performs one duplication and records the widget mappings
// later phases resolve provisional references against.
func (s *BatchService) applyDuplication(
	documentID int64,
	doc *menu.MenuDocument,
	d menu.Duplication,
	results *menu.BatchResults,
	sectionByOp map[string]string,
	widgetByRef map[string]string,
) {
	res := menu.DuplicationResult{OperationID: d.OperationID}

	var outcome *menutree.DuplicateOutcome
	var err error
	if d.NewDish {
		outcome, err = menutree.NewBlankDish(&doc.Elements, d.CategoryID, s.newID)
		if err == nil {
			err = s.sectionService.SetDefaultAttributes(documentID, outcome.NewSection.ID)
		}
	} else {
		outcome, err = menutree.DuplicateSection(&doc.Elements, d.SourceSectionID, s.newID)
		if err == nil {
			err = s.sectionService.copySectionAttributes(documentID, doc, outcome.IDMap)
		}
	}
	if err != nil {
		res.Error = err.Error()
		results.Duplications = append(results.Duplications, res)
		return
	}

	widgets := menutree.CollectWidgets(outcome.NewSection)
	res.Success = true
	res.NewSectionID = outcome.NewSection.ID
	res.WidgetCount = len(widgets)
	for i, w := range widgets {
		mapping := menu.WidgetMapping{
			OperationID: d.OperationID,
			Ordinal:     i,
			RealID:      w.ID,
			SectionID:   outcome.NewSection.ID,
		}
		res.Mappings = append(res.Mappings, mapping)
		widgetByRef[menu.ProvisionalRef{OperationID: d.OperationID, Ordinal: i}.Key()] = w.ID
	}
	sectionByOp[d.OperationID] = outcome.NewSection.ID

	results.Duplications = append(results.Duplications, res)
}

// applyWidgets applies direct widget changes, then changes whose target was
// provisional, in stable key order.
func (s *BatchService) applyWidgets(
	doc *menu.MenuDocument,
	changes *menu.ChangeSet,
	results *menu.BatchResults,
	widgetByRef map[string]string,
) {
	keys := make([]string, 0, len(changes.Widgets))
	for k := range changes.Widgets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		change := changes.Widgets[key]
		res := menu.OperationResult{Target: key, Success: true}

		if change.WidgetID == "" && change.Provisional != nil {
			realID, ok := widgetByRef[change.Provisional.Key()]
			if !ok {
				res.Success = false
				res.Error = fmt.Sprintf("unresolved provisional widget reference %s", change.Provisional.Key())
				results.Widgets = append(results.Widgets, res)
				continue
			}
			change.WidgetID = realID
		}

		if err := s.widgetService.ApplyToDocument(doc, change); err != nil {
			res.Success = false
			res.Error = err.Error()
		}
		results.Widgets = append(results.Widgets, res)
	}
}

// applyAttributes applies attribute changes, resolving provisional section
// references through the duplications of this batch.
func (s *BatchService) applyAttributes(
	documentID int64,
	changes *menu.ChangeSet,
	results *menu.BatchResults,
	sectionByOp map[string]string,
) {
	keys := make([]string, 0, len(changes.Attributes))
	for k := range changes.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		change := changes.Attributes[key]
		res := menu.OperationResult{Target: key, Success: true}

		sectionID := change.SectionID
		if sectionID == "" && change.Provisional != nil {
			realID, ok := sectionByOp[change.Provisional.OperationID]
			if !ok {
				res.Success = false
				res.Error = fmt.Sprintf("unresolved provisional section reference %s", change.Provisional.OperationID)
				results.Attributes = append(results.Attributes, res)
				continue
			}
			sectionID = realID
		}

		var err error
		switch change.Kind {
		case menu.AttributeDish:
			err = s.attributeService.SaveDishAttributes(documentID, sectionID, change.Values)
		case menu.AttributeAllergen:
			err = s.attributeService.SaveAllergenAttributes(documentID, sectionID, change.Values)
		default:
			err = fmt.Errorf("unknown attribute kind %q", change.Kind)
		}
		if err != nil {
			res.Success = false
			res.Error = err.Error()
		}
		results.Attributes = append(results.Attributes, res)
	}
}
