package repo

import (
	"teportal/internal/models"
	"teportal/internal/store"
	"teportal/internal/validation"
)

// ChangeRequests is the repository over the change_requests collection.
type ChangeRequests = Table[models.ChangeRequest, *models.ChangeRequest]

var yesNo = []string{"Yes", "No"}

// NewChangeRequests builds the change request repository.
func NewChangeRequests(s *store.Store) *ChangeRequests {
	return &ChangeRequests{
		Store:    s,
		Name:     "change_requests",
		Validate: validateChangeRequest,
	}
}

func validateChangeRequest(c *models.ChangeRequest) error {
	ve := &validation.ValidationErrors{}
	validation.RequireField(ve, "trial_name", c.TrialName)
	validation.RequireField(ve, "cr_no", c.CRNo)
	validation.RequireField(ve, "category", c.Category)
	validation.RequireField(ve, "form_event_name", c.FormEventName)
	validation.RequireField(ve, "requirements", c.Requirements)
	validation.ValidateEnum(ve, "category", c.Category, validation.ValidCRCategories)
	validation.ValidateEnum(ve, "protocol_amendment", c.ProtocolAmendment, yesNo)
	validation.ValidateEnum(ve, "retrospective_case_book", c.RetrospectiveCaseBok, yesNo)
	validation.ValidateEnum(ve, "cdb_impact", c.CDBImpact, yesNo)
	validation.ValidateEnum(ve, "item_def_impact", c.ItemDefImpact, yesNo)
	validation.ValidateEnum(ve, "datacore_impact", c.DatacoreImpact, yesNo)
	validation.ValidateEnum(ve, "impacted_e2b_vsec", c.ImpactedE2BVsec, yesNo)
	validation.ValidateEnum(ve, "impacted_rtsm", c.ImpactedRTSM, yesNo)
	return ve.Err()
}
