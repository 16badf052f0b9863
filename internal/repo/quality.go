package repo

import (
	"fmt"

	"teportal/internal/models"
	"teportal/internal/quality"
	"teportal/internal/store"
	"teportal/internal/validation"
)

// QualityRecords is the repository over the quality_records collection.
type QualityRecords = Table[models.QualityRecord, *models.QualityRecord]

// NewQualityRecords builds the quality record repository. Defect density
// is always recomputed server-side from failures over requirements.
func NewQualityRecords(s *store.Store) *QualityRecords {
	return &QualityRecords{
		Store:    s,
		Name:     "quality_records",
		Prepare:  prepareQualityRecord,
		Validate: validateQualityRecord,
	}
}

func prepareQualityRecord(q *models.QualityRecord) {
	q.DefectDensity = quality.DefectDensity(q.TotalFailures, q.TotalRequirements)
	if q.Status == "" {
		q.Status = "In Progress"
	}
}

func validateQualityRecord(q *models.QualityRecord) error {
	ve := &validation.ValidationErrors{}
	validation.RequireField(ve, "trial_id", q.TrialID)
	validation.RequireField(ve, "phase", q.Phase)
	validation.RequireField(ve, "type_of_requirement", q.TypeOfRequirement)
	validation.ValidateEnum(ve, "type_of_requirement", q.TypeOfRequirement, validation.ValidRequirementTypes)
	validation.ValidatePositiveInt(ve, "no_of_uat_plans", q.NoOfUATPlans)
	validation.ValidatePositiveInt(ve, "no_of_rounds", q.NoOfRounds)
	if q.NoOfRounds > 0 {
		validation.ValidateIntRange(ve, "current_round", q.CurrentRound, 1, q.NoOfRounds)
	}
	validation.ValidateNonNegativeInt(ve, "total_requirements", q.TotalRequirements)
	validation.ValidateNonNegativeInt(ve, "total_failures", q.TotalFailures)
	validation.ValidateNonNegativeInt(ve, "spec_issue", q.SpecIssue)
	validation.ValidateNonNegativeInt(ve, "mock_crf_issue", q.MockCRFIssue)
	validation.ValidateNonNegativeInt(ve, "programming_issue", q.ProgrammingIssue)
	validation.ValidateNonNegativeInt(ve, "scripting_issue", q.ScriptingIssue)
	if q.TotalFailures > q.TotalRequirements {
		ve.Add("total_failures", "cannot exceed total_requirements")
	}
	reasonSum := q.SpecIssue + q.MockCRFIssue + q.ProgrammingIssue + q.ScriptingIssue
	if reasonSum > q.TotalFailures {
		ve.Add("total_failures", fmt.Sprintf("failure reasons sum to %d which exceeds total_failures %d", reasonSum, q.TotalFailures))
	}
	return ve.Err()
}
