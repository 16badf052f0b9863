package main

import (
	"encoding/json"
	"net/http"

	"teportal/internal/audit"
	"teportal/internal/export"
	"teportal/internal/models"
	"teportal/internal/scope"
)

// The audit trail is read-only over HTTP; entries are written internally
// as side effects of other operations. Standard users only ever see
// their own entries; elevated roles see the full trail.
func handleListAuditLogs(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	f := queryFilter(r,
		[]string{"user", "action", "module"},
		[]string{"details"},
		"timestamp")
	if !scope.Elevated(sess.Role) {
		f.Eq("user", sess.Username)
	}
	items, err := auditLogs.List(f)
	if err != nil {
		writeRepoErr(w, err)
		return
	}
	jsonResp(w, items)
}

var auditExportHeaders = []string{"ID", "Timestamp", "User", "Action", "Module", "Details", "Metadata"}

func auditExportRows(items []models.AuditLog) [][]string {
	rows := make([][]string, 0, len(items))
	for _, e := range items {
		meta := ""
		if len(e.Metadata) > 0 {
			if raw, err := json.Marshal(e.Metadata); err == nil {
				meta = string(raw)
			}
		}
		rows = append(rows, []string{e.ID, e.Timestamp, e.User, e.Action, e.Module, e.Details, meta})
	}
	return rows
}

func handleExportAuditLogs(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	items, err := auditLogs.List(nil)
	if err != nil {
		writeRepoErr(w, err)
		return
	}
	format := r.URL.Query().Get("format")
	auditor.Record(sess.Username, audit.ActionExport, "audit_logs", "Exported audit trail", map[string]any{"format": format, "count": len(items)})
	export.Write(w, format, "AuditTrail", auditExportHeaders, auditExportRows(items))
}
