package main

import (
	"net/http"

	"teportal/internal/audit"
	"teportal/internal/export"
	"teportal/internal/models"
)

func handleListUATRecords(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	f := queryFilter(r,
		[]string{"category", "category_type", "status", "result", "uat_round", "created_by"},
		[]string{"trial_id"},
		"planned_start_date")
	items, err := uatRecords.ScopedList(sess.Role, sess.Username, f)
	if err != nil {
		writeRepoErr(w, err)
		return
	}
	jsonResp(w, items)
}

func handleGetUATRecord(w http.ResponseWriter, r *http.Request, id string) {
	rec, err := uatRecords.GetByID(id)
	if err != nil {
		writeRepoErr(w, err)
		return
	}
	jsonResp(w, rec)
}

func handleCreateUATRecord(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	var rec models.UATRecord
	if err := decodeBody(r, &rec); err != nil {
		jsonErr(w, "Invalid request body", 400)
		return
	}
	rec.CreatedBy = sess.Username

	created, err := uatRecords.Create(&rec)
	if err != nil {
		writeRepoErr(w, err)
		return
	}
	auditor.RecordChange(sess.Username, audit.ActionCreate, "uat_records", created.ID,
		"Created UAT record for "+created.TrialID+" "+created.UATRound)
	go mailer.NotifyUAT(audit.ActionCreate, created)
	jsonResp(w, created)
}

func handleUpdateUATRecord(w http.ResponseWriter, r *http.Request, id string) {
	sess := currentSession(r)
	existing, err := uatRecords.GetByID(id)
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
	updated, err := uatRecords.Update(id, patch, sess.Username)
	if err != nil {
		writeRepoErr(w, err)
		return
	}
	auditor.RecordChange(sess.Username, audit.ActionUpdate, "uat_records", id, "Updated UAT record")
	go mailer.NotifyUAT(audit.ActionUpdate, updated)
	jsonResp(w, updated)
}

func handleDeleteUATRecord(w http.ResponseWriter, r *http.Request, id string) {
	sess := currentSession(r)
	existing, err := uatRecords.GetByID(id)
	if err != nil {
		writeRepoErr(w, err)
		return
	}
	if !canMutate(sess, existing.CreatedBy) {
		jsonErr(w, "Not authorized to modify this record", 403)
		return
	}
	if err := uatRecords.Delete(id); err != nil {
		writeRepoErr(w, err)
		return
	}
	auditor.RecordChange(sess.Username, audit.ActionDelete, "uat_records", id, "Deleted UAT record")
	jsonResp(w, map[string]string{"status": "deleted"})
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

// handleUATStatistics summarizes the visible UAT records: count breakdowns
// plus completion and pass rates as percentages of all records.
func handleUATStatistics(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	items, err := uatRecords.ScopedList(sess.Role, sess.Username, nil)
	if err != nil {
		writeRepoErr(w, err)
		return
	}

	byStatus := map[string]int{}
	byResult := map[string]int{}
	byCategory := map[string]int{}
	byRound := map[string]int{}
	byUser := map[string]int{}
	trials := map[string]struct{}{}
	var completed, inProgress, passed, failed int
	for _, rec := range items {
		byStatus[orUnknown(rec.Status)]++
		byResult[orUnknown(rec.Result)]++
		byCategory[orUnknown(rec.CategoryType)]++
		byRound[orUnknown(rec.UATRound)]++
		byUser[orUnknown(rec.CreatedBy)]++
		trials[rec.TrialID] = struct{}{}
		switch rec.Status {
		case "Completed":
			completed++
		case "In Progress":
			inProgress++
		}
		switch rec.Result {
		case "Pass":
			passed++
		case "Fail":
			failed++
		}
	}

	var completionRate, passRate float64
	if len(items) > 0 {
		completionRate = float64(completed) / float64(len(items)) * 100
		passRate = float64(passed) / float64(len(items)) * 100
	}

	jsonResp(w, map[string]any{
		"total":           len(items),
		"unique_trials":   len(trials),
		"by_status":       byStatus,
		"by_result":       byResult,
		"by_category":     byCategory,
		"by_round":        byRound,
		"by_user":         byUser,
		"completed":       completed,
		"in_progress":     inProgress,
		"passed":          passed,
		"failed":          failed,
		"completion_rate": completionRate,
		"pass_rate":       passRate,
	})
}

var uatExportHeaders = []string{
	"ID", "Trial ID", "UAT Round", "Category", "Planned Start", "Planned End",
	"Actual Start", "Actual End", "Status", "Result", "Created By", "Created At",
}

func uatExportRows(items []models.UATRecord) [][]string {
	deref := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}
	rows := make([][]string, 0, len(items))
	for _, u := range items {
		rows = append(rows, []string{
			u.ID, u.TrialID, u.UATRound, u.Category, u.PlannedStartDate, u.PlannedEndDate,
			deref(u.ActualStartDate), deref(u.ActualEndDate), u.Status, u.Result, u.CreatedBy, u.CreatedAt,
		})
	}
	return rows
}

func handleExportUATRecords(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	items, err := uatRecords.ScopedList(sess.Role, sess.Username, nil)
	if err != nil {
		writeRepoErr(w, err)
		return
	}
	format := r.URL.Query().Get("format")
	auditor.Record(sess.Username, audit.ActionExport, "uat_records", "Exported UAT records", map[string]any{"format": format, "count": len(items)})
	export.Write(w, format, "UATRecords", uatExportHeaders, uatExportRows(items))
}
