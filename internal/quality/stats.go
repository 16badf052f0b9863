// Package quality computes trial quality metrics from quality records.
//
// Requirement and failure totals on each record are cumulative snapshots
// within that testing round, not deltas, so trial-level totals cannot be
// simple sums. Failed items roll over into the next round's requirement
// count; only the portion beyond the rolled-over failures is genuinely new
// work. Example: Round 1 req=50 fail=10, Round 2 req=12 fail=0 gives
// 50 + (12-10) = 52 total requirements and 10 total failures.
package quality

import (
	"fmt"
	"math"
	"sort"

	"teportal/internal/models"
)

// Filters narrows the record set before aggregation. Zero values mean
// no filtering on that field.
type Filters struct {
	TrialID           string
	Phase             string
	TypeOfRequirement string
	CreatedBy         string
	CurrentRound      int
}

// Stats is the dashboard statistics payload.
type Stats struct {
	TotalRecords      int            `json:"total_records"`
	UniqueTrials      int            `json:"unique_trials"`
	TotalRequirements int            `json:"total_requirements"`
	TotalFailures     int            `json:"total_failures"`
	AvgDefectDensity  float64        `json:"avg_defect_density"`
	FailureReasons    map[string]int `json:"failure_reasons"`
	TypeBreakdown     map[string]int `json:"type_breakdown"`
	PhaseBreakdown    map[string]int `json:"phase_breakdown"`
	RoundBreakdown    map[string]int `json:"round_breakdown"`
}

func emptyStats() Stats {
	return Stats{
		FailureReasons: map[string]int{},
		TypeBreakdown:  map[string]int{},
		PhaseBreakdown: map[string]int{},
		RoundBreakdown: map[string]int{},
	}
}

func (f Filters) match(r models.QualityRecord) bool {
	if f.TrialID != "" && r.TrialID != f.TrialID {
		return false
	}
	if f.Phase != "" && r.Phase != f.Phase {
		return false
	}
	if f.TypeOfRequirement != "" && r.TypeOfRequirement != f.TypeOfRequirement {
		return false
	}
	if f.CreatedBy != "" && r.CreatedBy != f.CreatedBy {
		return false
	}
	if f.CurrentRound != 0 && r.CurrentRound != f.CurrentRound {
		return false
	}
	return true
}

// cumulativeTotals accumulates one trial's requirement/failure totals
// across its rounds, already sorted ascending by current_round.
func cumulativeTotals(rounds []models.QualityRecord) (requirements, failures int) {
	previousFailures := 0
	for i, r := range rounds {
		if i == 0 {
			requirements += r.TotalRequirements
			failures += r.TotalFailures
		} else {
			// Failed items from the prior round are resubmitted and
			// already counted; only the excess is new work. A round
			// below the rollover contributes no new requirements.
			newAdditions := r.TotalRequirements - previousFailures
			if newAdditions > 0 {
				requirements += newAdditions
			}
			failures += r.TotalFailures
		}
		previousFailures = r.TotalFailures
	}
	return requirements, failures
}

// Statistics aggregates quality records into dashboard statistics.
// Records with no trial id are skipped; a single bad row must never fail
// the whole computation.
func Statistics(records []models.QualityRecord, f Filters) Stats {
	filtered := make([]models.QualityRecord, 0, len(records))
	for _, r := range records {
		if r.TrialID == "" {
			continue
		}
		if f.match(r) {
			filtered = append(filtered, r)
		}
	}
	if len(filtered) == 0 {
		return emptyStats()
	}

	trials := map[string][]models.QualityRecord{}
	for _, r := range filtered {
		trials[r.TrialID] = append(trials[r.TrialID], r)
	}
	for id := range trials {
		rounds := trials[id]
		sort.SliceStable(rounds, func(i, j int) bool {
			return rounds[i].CurrentRound < rounds[j].CurrentRound
		})
		trials[id] = rounds
	}

	stats := emptyStats()
	stats.TotalRecords = len(filtered)
	stats.UniqueTrials = len(trials)

	// The average defect density is a second, independent metric: the mean
	// of each trial's latest-round defect_density field, not a recompute
	// from the cumulative totals.
	var densitySum float64
	for _, rounds := range trials {
		req, fail := cumulativeTotals(rounds)
		stats.TotalRequirements += req
		stats.TotalFailures += fail
		densitySum += rounds[len(rounds)-1].DefectDensity
	}
	stats.AvgDefectDensity = round2(densitySum / float64(len(trials)))

	// Failure reasons are raw occurrence counts across every matching
	// record; the cumulative rollover rule does not apply to them.
	for _, r := range filtered {
		stats.FailureReasons["Spec Issue"] += r.SpecIssue
		stats.FailureReasons["Mock CRF Issue"] += r.MockCRFIssue
		stats.FailureReasons["Programming Issue"] += r.ProgrammingIssue
		stats.FailureReasons["Scripting Issue"] += r.ScriptingIssue

		typeOf := r.TypeOfRequirement
		if typeOf == "" {
			typeOf = "Unknown"
		}
		stats.TypeBreakdown[typeOf]++

		phase := r.Phase
		if phase == "" {
			phase = "Unknown"
		}
		stats.PhaseBreakdown[phase]++

		stats.RoundBreakdown[fmt.Sprintf("Round %d", r.CurrentRound)]++
	}

	return stats
}

// OverallDefectDensity derives the portfolio-level cumulative density in
// percent from aggregated totals, 0 when there are no requirements.
func OverallDefectDensity(s Stats) float64 {
	if s.TotalRequirements == 0 {
		return 0
	}
	return round2(float64(s.TotalFailures) / float64(s.TotalRequirements) * 100)
}

// DefectDensity computes a single round's density in percent.
func DefectDensity(totalFailures, totalRequirements int) float64 {
	if totalRequirements == 0 {
		return 0
	}
	return round2(float64(totalFailures) / float64(totalRequirements) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
