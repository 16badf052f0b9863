package repo

import (
	"teportal/internal/models"
	"teportal/internal/store"
	"teportal/internal/validation"
)

// TrailDocuments is the repository over the trail_documents collection.
type TrailDocuments = Table[models.TrailDocument, *models.TrailDocument]

// NewTrailDocuments builds the trail document repository. te_document
// selects the approval variant: TE1/TE2 approval dates apply when "Yes",
// the CTDM approval date applies when "No"; the inapplicable side is
// cleared before the record is written.
func NewTrailDocuments(s *store.Store) *TrailDocuments {
	return &TrailDocuments{
		Store:    s,
		Name:     "trail_documents",
		Prepare:  prepareTrailDocument,
		Validate: validateTrailDocument,
	}
}

func prepareTrailDocument(d *models.TrailDocument) {
	d.TE1ApprovalDate = normalizeDate(d.TE1ApprovalDate)
	d.TE2ApprovalDate = normalizeDate(d.TE2ApprovalDate)
	d.CTDMApprovalDate = normalizeDate(d.CTDMApprovalDate)
	switch d.TEDocument {
	case "Yes":
		d.CTDMApprovalDate = nil
	case "No":
		d.TE1ApprovalDate = nil
		d.TE2ApprovalDate = nil
	}
	if d.Category != "Change Request" {
		d.CRNumber = ""
	}
}

func validateTrailDocument(d *models.TrailDocument) error {
	ve := &validation.ValidationErrors{}
	validation.RequireField(ve, "trail", d.Trail)
	validation.RequireField(ve, "category", d.Category)
	validation.RequireField(ve, "document_name", d.DocumentName)
	validation.RequireField(ve, "te_document", d.TEDocument)
	validation.RequireField(ve, "uat_round", d.UATRound)
	validation.ValidateEnum(ve, "category", d.Category, validation.ValidCategoryTypes)
	validation.ValidateEnum(ve, "te_document", d.TEDocument, validation.ValidTEDocument)
	if d.Category == "Change Request" {
		validation.RequireField(ve, "cr_number", d.CRNumber)
	}
	switch d.TEDocument {
	case "Yes":
		validation.RequireField(ve, "te1", d.TE1)
		validation.RequireField(ve, "te2", d.TE2)
		if d.TE1ApprovalDate != nil {
			validation.ValidateDate(ve, "te1_approval_date", *d.TE1ApprovalDate)
		}
		if d.TE2ApprovalDate != nil {
			validation.ValidateDate(ve, "te2_approval_date", *d.TE2ApprovalDate)
		}
	case "No":
		if d.CTDMApprovalDate != nil {
			validation.ValidateDate(ve, "ctdm_approval_date", *d.CTDMApprovalDate)
		}
	}
	validation.ValidateDate(ve, "go_live_date", d.GoLiveDate)
	return ve.Err()
}
