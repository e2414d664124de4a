package servicerecord

import "equipass/models"

// validTransitions is the sole gate for status changes. CANCELLED is
// terminal; DISPUTED can be resolved either way.
var validTransitions = map[models.ServiceRecordStatus][]models.ServiceRecordStatus{
	models.RecordStatusPending:    {models.RecordStatusInProgress, models.RecordStatusCancelled},
	models.RecordStatusInProgress: {models.RecordStatusCompleted, models.RecordStatusCancelled, models.RecordStatusDisputed},
	models.RecordStatusCompleted:  {models.RecordStatusDisputed},
	models.RecordStatusCancelled:  {},
	models.RecordStatusDisputed:   {models.RecordStatusCompleted, models.RecordStatusCancelled},
}

func validateTransition(from, to models.ServiceRecordStatus) error {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return nil
		}
	}
	return InvalidTransitionError{From: from, To: to}
}

// Which patch fields each actor type may write. Notes fields are owned by
// one side of the engagement; everything else is open to both.
type patchActor int

const (
	actorAny patchActor = iota
	actorExpert
	actorCustomer
)

type patchRule struct {
	field string
	actor patchActor
	apply func(rec *models.ServiceRecord, patch *models.ServiceRecordPatch)
	isSet func(patch *models.ServiceRecordPatch) bool
}

var patchPolicy = []patchRule{
	{
		field: "finalPrice",
		actor: actorAny,
		isSet: func(p *models.ServiceRecordPatch) bool { return p.FinalPrice != nil },
		apply: func(r *models.ServiceRecord, p *models.ServiceRecordPatch) { r.FinalPrice = p.FinalPrice },
	},
	{
		field: "actualDuration",
		actor: actorAny,
		isSet: func(p *models.ServiceRecordPatch) bool { return p.ActualDuration != nil },
		apply: func(r *models.ServiceRecord, p *models.ServiceRecordPatch) { r.ActualDuration = p.ActualDuration },
	},
	{
		field: "actualStart",
		actor: actorAny,
		isSet: func(p *models.ServiceRecordPatch) bool { return p.ActualStart != nil },
		apply: func(r *models.ServiceRecord, p *models.ServiceRecordPatch) { r.ActualStart = p.ActualStart },
	},
	{
		field: "actualEnd",
		actor: actorAny,
		isSet: func(p *models.ServiceRecordPatch) bool { return p.ActualEnd != nil },
		apply: func(r *models.ServiceRecord, p *models.ServiceRecordPatch) { r.ActualEnd = p.ActualEnd },
	},
	{
		field: "serviceLocation",
		actor: actorAny,
		isSet: func(p *models.ServiceRecordPatch) bool { return p.ServiceLocation != nil },
		apply: func(r *models.ServiceRecord, p *models.ServiceRecordPatch) { r.ServiceLocation = *p.ServiceLocation },
	},
	{
		field: "completionNotes",
		actor: actorAny,
		isSet: func(p *models.ServiceRecordPatch) bool { return p.CompletionNotes != nil },
		apply: func(r *models.ServiceRecord, p *models.ServiceRecordPatch) { r.CompletionNotes = *p.CompletionNotes },
	},
	{
		field: "expertNotes",
		actor: actorExpert,
		isSet: func(p *models.ServiceRecordPatch) bool { return p.ExpertNotes != nil },
		apply: func(r *models.ServiceRecord, p *models.ServiceRecordPatch) { r.ExpertNotes = *p.ExpertNotes },
	},
	{
		field: "customerNotes",
		actor: actorCustomer,
		isSet: func(p *models.ServiceRecordPatch) bool { return p.CustomerNotes != nil },
		apply: func(r *models.ServiceRecord, p *models.ServiceRecordPatch) { r.CustomerNotes = *p.CustomerNotes },
	},
}

// applyPatchFields writes the permitted patch fields onto the record.
// Fields owned by the other actor type are silently skipped.
func applyPatchFields(rec *models.ServiceRecord, patch *models.ServiceRecordPatch, isExpertActor bool) {
	for _, rule := range patchPolicy {
		if !rule.isSet(patch) {
			continue
		}
		switch rule.actor {
		case actorExpert:
			if !isExpertActor {
				continue
			}
		case actorCustomer:
			if isExpertActor {
				continue
			}
		}
		rule.apply(rec, patch)
	}
}
