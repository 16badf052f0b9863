package main

import (
	"net/http"

	"teportal/internal/audit"
	"teportal/internal/export"
	"teportal/internal/models"
)

func handleListAllocations(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	f := queryFilter(r,
		[]string{"system", "role", "trial_category", "trial_category_type", "therapeutic_area", "therapeutic_area_type", "created_by"},
		[]string{"trial_id", "test_engineer_name", "activity"},
		"start_date")
	items, err := allocations.ScopedList(sess.Role, sess.Username, f)
	if err != nil {
		writeRepoErr(w, err)
		return
	}
	jsonResp(w, items)
}

func handleGetAllocation(w http.ResponseWriter, r *http.Request, id string) {
	rec, err := allocations.GetByID(id)
	if err != nil {
		writeRepoErr(w, err)
		return
	}
	jsonResp(w, rec)
}

func handleCreateAllocation(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	var rec models.Allocation
	if err := decodeBody(r, &rec); err != nil {
		jsonErr(w, "Invalid request body", 400)
		return
	}
	rec.CreatedBy = sess.Username

	created, err := allocations.Create(&rec)
	if err != nil {
		writeRepoErr(w, err)
		return
	}
	auditor.RecordChange(sess.Username, audit.ActionCreate, "allocations", created.ID,
		"Allocated "+created.TestEngineerName+" to "+created.TrialID)
	jsonResp(w, created)
}

func handleUpdateAllocation(w http.ResponseWriter, r *http.Request, id string) {
	sess := currentSession(r)
	existing, err := allocations.GetByID(id)
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
	updated, err := allocations.Update(id, patch, sess.Username)
	if err != nil {
		writeRepoErr(w, err)
		return
	}
	auditor.RecordChange(sess.Username, audit.ActionUpdate, "allocations", id, "Updated allocation")
	jsonResp(w, updated)
}

func handleDeleteAllocation(w http.ResponseWriter, r *http.Request, id string) {
	sess := currentSession(r)
	existing, err := allocations.GetByID(id)
	if err != nil {
		writeRepoErr(w, err)
		return
	}
	if !canMutate(sess, existing.CreatedBy) {
		jsonErr(w, "Not authorized to modify this record", 403)
		return
	}
	if err := allocations.Delete(id); err != nil {
		writeRepoErr(w, err)
		return
	}
	auditor.RecordChange(sess.Username, audit.ActionDelete, "allocations", id, "Deleted allocation")
	jsonResp(w, map[string]string{"status": "deleted"})
}

// handleAllocationStatistics counts the visible allocations along each
// of the portal's filter dimensions.
func handleAllocationStatistics(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	items, err := allocations.ScopedList(sess.Role, sess.Username, nil)
	if err != nil {
		writeRepoErr(w, err)
		return
	}

	bySystem := map[string]int{}
	byCategory := map[string]int{}
	byArea := map[string]int{}
	byEngineer := map[string]int{}
	byRole := map[string]int{}
	for _, a := range items {
		bySystem[orUnknown(a.System)]++
		byCategory[orUnknown(a.TrialCategoryType)]++
		byArea[orUnknown(a.TherapeuticAreaType)]++
		byEngineer[orUnknown(a.TestEngineerName)]++
		byRole[orUnknown(a.Role)]++
	}

	jsonResp(w, map[string]any{
		"total":               len(items),
		"by_system":           bySystem,
		"by_category":         byCategory,
		"by_therapeutic_area": byArea,
		"by_engineer":         byEngineer,
		"by_role":             byRole,
	})
}

var allocationExportHeaders = []string{
	"ID", "Trial ID", "System", "Test Engineer", "Role", "Trial Category",
	"Therapeutic Area", "Activity", "Start Date", "End Date", "Created By", "Created At",
}

func allocationExportRows(items []models.Allocation) [][]string {
	rows := make([][]string, 0, len(items))
	for _, a := range items {
		rows = append(rows, []string{
			a.ID, a.TrialID, a.System, a.TestEngineerName, a.Role, a.TrialCategory,
			a.TherapeuticArea, a.Activity, a.StartDate, a.EndDate, a.CreatedBy, a.CreatedAt,
		})
	}
	return rows
}

func handleExportAllocations(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	items, err := allocations.ScopedList(sess.Role, sess.Username, nil)
	if err != nil {
		writeRepoErr(w, err)
		return
	}
	format := r.URL.Query().Get("format")
	auditor.Record(sess.Username, audit.ActionExport, "allocations", "Exported allocations", map[string]any{"format": format, "count": len(items)})
	export.Write(w, format, "Allocations", allocationExportHeaders, allocationExportRows(items))
}
