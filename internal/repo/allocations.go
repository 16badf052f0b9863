package repo

import (
	"strings"

	"teportal/internal/models"
	"teportal/internal/store"
	"teportal/internal/validation"
)

// Allocations is the repository over the allocations collection.
type Allocations = Table[models.Allocation, *models.Allocation]

// NewAllocations builds the allocation repository. trial_category_type
// and therapeutic_area_type are derived, never accepted from the caller.
func NewAllocations(s *store.Store) *Allocations {
	return &Allocations{
		Store:    s,
		Name:     "allocations",
		Prepare:  prepareAllocation,
		Validate: validateAllocation,
	}
}

func prepareAllocation(a *models.Allocation) {
	a.TrialCategoryType = categoryType(a.TrialCategory)
	a.TherapeuticAreaType = areaType(a.TherapeuticArea)
}

// categoryType collapses "Change Request - NN" variants into one bucket.
func categoryType(category string) string {
	if strings.HasPrefix(category, "Change Request") {
		return "Change Request"
	}
	return category
}

// areaType keeps the short name, dropping any parenthesized expansion.
func areaType(area string) string {
	if i := strings.Index(area, " ("); i > 0 {
		return area[:i]
	}
	return area
}

func validateAllocation(a *models.Allocation) error {
	ve := &validation.ValidationErrors{}
	validation.RequireField(ve, "trial_id", a.TrialID)
	validation.RequireField(ve, "system", a.System)
	validation.RequireField(ve, "test_engineer_name", a.TestEngineerName)
	validation.RequireField(ve, "role", a.Role)
	validation.RequireField(ve, "trial_category", a.TrialCategory)
	validation.RequireField(ve, "therapeutic_area", a.TherapeuticArea)
	validation.RequireField(ve, "activity", a.Activity)
	validation.ValidateEnum(ve, "system", a.System, validation.ValidSystems)
	validation.ValidateEnum(ve, "role", a.Role, validation.ValidAllocationRoles)
	validation.ValidateEnum(ve, "trial_category", a.TrialCategory, validation.ValidTrialCategories)
	validation.ValidateEnum(ve, "therapeutic_area", a.TherapeuticArea, validation.ValidTherapeuticAreas)
	validation.ValidateDate(ve, "start_date", a.StartDate)
	validation.ValidateDate(ve, "end_date", a.EndDate)
	validation.ValidateDateOrder(ve, "start_date", a.StartDate, "end_date", a.EndDate)
	return ve.Err()
}
