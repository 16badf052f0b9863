package main

import (
	"fmt"
	"net/http"
	"strconv"

	"teportal/internal/audit"
	"teportal/internal/export"
	"teportal/internal/models"
	"teportal/internal/quality"
)

func handleListQualityRecords(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	f := queryFilter(r,
		[]string{"phase", "type_of_requirement", "status", "current_round", "created_by"},
		[]string{"trial_id"},
		"")
	items, err := qualityRecords.ScopedList(sess.Role, sess.Username, f)
	if err != nil {
		writeRepoErr(w, err)
		return
	}
	jsonResp(w, items)
}

func handleGetQualityRecord(w http.ResponseWriter, r *http.Request, id string) {
	rec, err := qualityRecords.GetByID(id)
	if err != nil {
		writeRepoErr(w, err)
		return
	}
	jsonResp(w, rec)
}

func handleCreateQualityRecord(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	var rec models.QualityRecord
	if err := decodeBody(r, &rec); err != nil {
		jsonErr(w, "Invalid request body", 400)
		return
	}
	rec.CreatedBy = sess.Username

	created, err := qualityRecords.Create(&rec)
	if err != nil {
		writeRepoErr(w, err)
		return
	}
	auditor.RecordChange(sess.Username, audit.ActionCreate, "quality_records", created.ID,
		fmt.Sprintf("Created quality record for %s round %d", created.TrialID, created.CurrentRound))
	jsonResp(w, created)
}

func handleUpdateQualityRecord(w http.ResponseWriter, r *http.Request, id string) {
	sess := currentSession(r)
	existing, err := qualityRecords.GetByID(id)
	if err != nil {
		writeRepoErr(w, err)
		return
	}
	if !canMutate(sess, existing.CreatedBy) {
		jsonErr(w, "Not authorized to modify this record", 403)
		return
	}
	var patch map[string]any
	if err := decodeBody(r, &patch); err != nil {
		jsonErr(w, "Invalid request body", 400)
		return
	}
	updated, err := qualityRecords.Update(id, patch, sess.Username)
	if err != nil {
		writeRepoErr(w, err)
		return
	}
	auditor.RecordChange(sess.Username, audit.ActionUpdate, "quality_records", id, "Updated quality record")
	jsonResp(w, updated)
}

func handleDeleteQualityRecord(w http.ResponseWriter, r *http.Request, id string) {
	sess := currentSession(r)
	existing, err := qualityRecords.GetByID(id)
	if err != nil {
		writeRepoErr(w, err)
		return
	}
	if !canMutate(sess, existing.CreatedBy) {
		jsonErr(w, "Not authorized to modify this record", 403)
		return
	}
	if err := qualityRecords.Delete(id); err != nil {
		writeRepoErr(w, err)
		return
	}
	auditor.RecordChange(sess.Username, audit.ActionDelete, "quality_records", id, "Deleted quality record")
	jsonResp(w, map[string]string{"status": "deleted"})
}

// handleQualityStatistics aggregates cumulative requirement and failure
// totals per trial. Filters are optional query parameters.
func handleQualityStatistics(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	items, err := qualityRecords.ScopedList(sess.Role, sess.Username, nil)
	if err != nil {
		writeRepoErr(w, err)
		return
	}

	q := r.URL.Query()
	filters := quality.Filters{
		TrialID:           sentinel(q.Get("trial_id")),
		Phase:             sentinel(q.Get("phase")),
		TypeOfRequirement: sentinel(q.Get("type_of_requirement")),
		CreatedBy:         sentinel(q.Get("created_by")),
	}
	if round := sentinel(q.Get("current_round")); round != "" {
		if n, err := strconv.Atoi(round); err == nil {
			filters.CurrentRound = n
		}
	}

	jsonResp(w, quality.Statistics(items, filters))
}

// sentinel collapses the UI's "All" option to no-filter.
func sentinel(v string) string {
	if v == "All" {
		return ""
	}
	return v
}

var qualityExportHeaders = []string{
	"ID", "Trial ID", "Phase", "UAT Plans", "Rounds", "Type", "Current Round",
	"Total Requirements", "Total Failures", "Spec Issue", "Mock CRF Issue",
	"Programming Issue", "Scripting Issue", "Defect Density", "Status", "Created By", "Created At",
}

func qualityExportRows(items []models.QualityRecord) [][]string {
	rows := make([][]string, 0, len(items))
	for _, q := range items {
		rows = append(rows, []string{
			q.ID, q.TrialID, q.Phase, strconv.Itoa(q.NoOfUATPlans), strconv.Itoa(q.NoOfRounds),
			q.TypeOfRequirement, strconv.Itoa(q.CurrentRound),
			strconv.Itoa(q.TotalRequirements), strconv.Itoa(q.TotalFailures),
			strconv.Itoa(q.SpecIssue), strconv.Itoa(q.MockCRFIssue),
			strconv.Itoa(q.ProgrammingIssue), strconv.Itoa(q.ScriptingIssue),
			fmt.Sprintf("%.2f", q.DefectDensity), q.Status, q.CreatedBy, q.CreatedAt,
		})
	}
	return rows
}

func handleExportQualityRecords(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	items, err := qualityRecords.ScopedList(sess.Role, sess.Username, nil)
	if err != nil {
		writeRepoErr(w, err)
		return
	}
	format := r.URL.Query().Get("format")
	auditor.Record(sess.Username, audit.ActionExport, "quality_records", "Exported quality records", map[string]any{"format": format, "count": len(items)})
	export.Write(w, format, "QualityRecords", qualityExportHeaders, qualityExportRows(items))
}
