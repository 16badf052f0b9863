package main

import (
	"net/http"

	"teportal/internal/audit"
	"teportal/internal/export"
	"teportal/internal/models"
)

func handleListChangeRequests(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	f := queryFilter(r,
		[]string{"category", "protocol_amendment", "cdb_impact", "created_by"},
		[]string{"trial_name", "cr_no", "form_event_name", "item_rule_name"},
		"")
	items, err := changeRequests.ScopedList(sess.Role, sess.Username, f)
	if err != nil {
		writeRepoErr(w, err)
		return
	}
	jsonResp(w, items)
}

func handleGetChangeRequest(w http.ResponseWriter, r *http.Request, id string) {
	rec, err := changeRequests.GetByID(id)
	if err != nil {
		writeRepoErr(w, err)
		return
	}
	jsonResp(w, rec)
}

func handleCreateChangeRequest(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	var rec models.ChangeRequest
	if err := decodeBody(r, &rec); err != nil {
		jsonErr(w, "Invalid request body", 400)
		return
	}
	rec.CreatedBy = sess.Username

	created, err := changeRequests.Create(&rec)
	if err != nil {
		writeRepoErr(w, err)
		return
	}
	auditor.RecordChange(sess.Username, audit.ActionCreate, "change_requests", created.ID,
		"Created "+created.CRNo+" for "+created.TrialName)
	jsonResp(w, created)
}

func handleUpdateChangeRequest(w http.ResponseWriter, r *http.Request, id string) {
	sess := currentSession(r)
	existing, err := changeRequests.GetByID(id)
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
	updated, err := changeRequests.Update(id, patch, sess.Username)
	if err != nil {
		writeRepoErr(w, err)
		return
	}
	auditor.RecordChange(sess.Username, audit.ActionUpdate, "change_requests", id, "Updated change request")
	jsonResp(w, updated)
}

func handleDeleteChangeRequest(w http.ResponseWriter, r *http.Request, id string) {
	sess := currentSession(r)
	existing, err := changeRequests.GetByID(id)
	if err != nil {
		writeRepoErr(w, err)
		return
	}
	if !canMutate(sess, existing.CreatedBy) {
		jsonErr(w, "Not authorized to modify this record", 403)
		return
	}
	if err := changeRequests.Delete(id); err != nil {
		writeRepoErr(w, err)
		return
	}
	auditor.RecordChange(sess.Username, audit.ActionDelete, "change_requests", id, "Deleted change request")
	jsonResp(w, map[string]string{"status": "deleted"})
}

var changeRequestExportHeaders = []string{
	"ID", "Trial Name", "CR No", "Category", "Form/Event Name", "Item/Rule Name",
	"Requirements", "Version Changes", "Protocol Amendment", "Retrospective Case Book",
	"CDB Impact", "ItemDef Impact", "Datacore Impact", "Comments", "Current Version",
	"Impacted E2B Vsec", "Impacted RTSM", "RTSM Comments", "Created By", "Created At",
}

func changeRequestExportRows(items []models.ChangeRequest) [][]string {
	rows := make([][]string, 0, len(items))
	for _, c := range items {
		rows = append(rows, []string{
			c.ID, c.TrialName, c.CRNo, c.Category, c.FormEventName, c.ItemRuleName,
			c.Requirements, c.VersionChanges, c.ProtocolAmendment, c.RetrospectiveCaseBok,
			c.CDBImpact, c.ItemDefImpact, c.DatacoreImpact, c.Comments, c.CurrentVersion,
			c.ImpactedE2BVsec, c.ImpactedRTSM, c.RTSMComments, c.CreatedBy, c.CreatedAt,
		})
	}
	return rows
}

func handleExportChangeRequests(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	items, err := changeRequests.ScopedList(sess.Role, sess.Username, nil)
	if err != nil {
		writeRepoErr(w, err)
		return
	}
	format := r.URL.Query().Get("format")
	auditor.Record(sess.Username, audit.ActionExport, "change_requests", "Exported change requests", map[string]any{"format": format, "count": len(items)})
	export.Write(w, format, "ChangeRequests", changeRequestExportHeaders, changeRequestExportRows(items))
}
