package repo

import (
	"teportal/internal/models"
	"teportal/internal/store"
	"teportal/internal/validation"
)

// UATRecords is the repository over the uat_records collection.
type UATRecords = Table[models.UATRecord, *models.UATRecord]

// NewUATRecords builds the UAT record repository.
func NewUATRecords(s *store.Store) *UATRecords {
	return &UATRecords{
		Store:    s,
		Name:     "uat_records",
		Prepare:  prepareUATRecord,
		Validate: validateUATRecord,
	}
}

func prepareUATRecord(u *models.UATRecord) {
	u.CategoryType = categoryType(u.Category)
	if u.Status == "" {
		u.Status = "Not Started"
	}
	if u.Result == "" {
		u.Result = "Pending"
	}
	// Empty actual dates stay null, never "".
	u.ActualStartDate = normalizeDate(u.ActualStartDate)
	u.ActualEndDate = normalizeDate(u.ActualEndDate)
}

func normalizeDate(d *string) *string {
	if d != nil && *d == "" {
		return nil
	}
	return d
}

func validateUATRecord(u *models.UATRecord) error {
	ve := &validation.ValidationErrors{}
	validation.RequireField(ve, "trial_id", u.TrialID)
	validation.RequireField(ve, "uat_round", u.UATRound)
	validation.RequireField(ve, "category", u.Category)
	validation.RequireField(ve, "planned_start_date", u.PlannedStartDate)
	validation.RequireField(ve, "planned_end_date", u.PlannedEndDate)
	validation.ValidateEnum(ve, "category", u.Category, validation.ValidTrialCategories)
	validation.ValidateEnum(ve, "status", u.Status, validation.ValidUATStatuses)
	validation.ValidateEnum(ve, "result", u.Result, validation.ValidUATResults)
	validation.ValidateDate(ve, "planned_start_date", u.PlannedStartDate)
	validation.ValidateDate(ve, "planned_end_date", u.PlannedEndDate)
	validation.ValidateDateOrder(ve, "planned_start_date", u.PlannedStartDate, "planned_end_date", u.PlannedEndDate)
	if u.ActualStartDate != nil {
		validation.ValidateDate(ve, "actual_start_date", *u.ActualStartDate)
	}
	if u.ActualEndDate != nil {
		validation.ValidateDate(ve, "actual_end_date", *u.ActualEndDate)
	}
	if u.ActualStartDate != nil && u.ActualEndDate != nil {
		validation.ValidateDateOrder(ve, "actual_start_date", *u.ActualStartDate, "actual_end_date", *u.ActualEndDate)
	}
	return ve.Err()
}
