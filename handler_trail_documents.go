package main

import (
	"net/http"

	"teportal/internal/audit"
	"teportal/internal/export"
	"teportal/internal/filter"
	"teportal/internal/models"
	"teportal/internal/scope"
)

// trailDocumentsFor applies the reviewer-aware visibility rule: audit
// reviewers see every trail document regardless of role.
func trailDocumentsFor(r *http.Request, f *filter.Filter) ([]models.TrailDocument, error) {
	sess := currentSession(r)
	all, err := trailDocuments.All()
	if err != nil {
		return nil, err
	}
	viewer := scope.Viewer{Role: sess.Role, Identity: sess.Username, Reviewer: sess.Reviewer}
	visible := scope.VisibleTrailDocuments[models.TrailDocument, *models.TrailDocument](all, viewer)
	return filter.Apply(visible, f), nil
}

func handleListTrailDocuments(w http.ResponseWriter, r *http.Request) {
	f := queryFilter(r,
		[]string{"category", "te_document", "uat_round", "created_by"},
		[]string{"trail", "document_name", "tmf_vault_id", "cr_number"},
		"go_live_date")
	items, err := trailDocumentsFor(r, f)
	if err != nil {
		writeRepoErr(w, err)
		return
	}
	jsonResp(w, items)
}

func handleGetTrailDocument(w http.ResponseWriter, r *http.Request, id string) {
	rec, err := trailDocuments.GetByID(id)
	if err != nil {
		writeRepoErr(w, err)
		return
	}
	jsonResp(w, rec)
}

func handleCreateTrailDocument(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	var rec models.TrailDocument
	if err := decodeBody(r, &rec); err != nil {
		jsonErr(w, "Invalid request body", 400)
		return
	}
	rec.CreatedBy = sess.Username

	created, err := trailDocuments.Create(&rec)
	if err != nil {
		writeRepoErr(w, err)
		return
	}
	auditor.RecordChange(sess.Username, audit.ActionCreate, "trail_documents", created.ID,
		"Filed document "+created.DocumentName+" for "+created.Trail)
	jsonResp(w, created)
}

// The reviewer capability is read-only: mutation still requires being
// the creator or holding an elevated role.
func handleUpdateTrailDocument(w http.ResponseWriter, r *http.Request, id string) {
	sess := currentSession(r)
	existing, err := trailDocuments.GetByID(id)
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
	updated, err := trailDocuments.Update(id, patch, sess.Username)
	if err != nil {
		writeRepoErr(w, err)
		return
	}
	auditor.RecordChange(sess.Username, audit.ActionUpdate, "trail_documents", id, "Updated trail document")
	jsonResp(w, updated)
}

func handleDeleteTrailDocument(w http.ResponseWriter, r *http.Request, id string) {
	sess := currentSession(r)
	existing, err := trailDocuments.GetByID(id)
	if err != nil {
		writeRepoErr(w, err)
		return
	}
	if !canMutate(sess, existing.CreatedBy) {
		jsonErr(w, "Not authorized to modify this record", 403)
		return
	}
	if err := trailDocuments.Delete(id); err != nil {
		writeRepoErr(w, err)
		return
	}
	auditor.RecordChange(sess.Username, audit.ActionDelete, "trail_documents", id, "Deleted trail document")
	jsonResp(w, map[string]string{"status": "deleted"})
}

var trailExportHeaders = []string{
	"ID", "Trail", "Category", "CR Number", "TE1", "TE2", "Document Name",
	"TE Document", "UAT Round", "TMF Vault ID", "TE1 Approval", "TE2 Approval",
	"CTDM Approval", "Go-Live Date", "Created By", "Created At",
}

func trailExportRows(items []models.TrailDocument) [][]string {
	deref := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}
	rows := make([][]string, 0, len(items))
	for _, d := range items {
		rows = append(rows, []string{
			d.ID, d.Trail, d.Category, d.CRNumber, d.TE1, d.TE2, d.DocumentName,
			d.TEDocument, d.UATRound, d.TMFVaultID, deref(d.TE1ApprovalDate), deref(d.TE2ApprovalDate),
			deref(d.CTDMApprovalDate), d.GoLiveDate, d.CreatedBy, d.CreatedAt,
		})
	}
	return rows
}

func handleExportTrailDocuments(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	items, err := trailDocumentsFor(r, nil)
	if err != nil {
		writeRepoErr(w, err)
		return
	}
	format := r.URL.Query().Get("format")
	auditor.Record(sess.Username, audit.ActionExport, "trail_documents", "Exported trail documents", map[string]any{"format": format, "count": len(items)})
	export.Write(w, format, "TrailDocuments", trailExportHeaders, trailExportRows(items))
}
