// Package audit records every meaningful portal action in the
// append-only audit trail and fans the change out over the websocket
// hub. Logging is best-effort: an audit failure is logged but never
// fails the operation that triggered it.
package audit

import (
	"log"

	"teportal/internal/repo"
	"teportal/internal/websocket"
)

// Action constants.
const (
	ActionCreate  = "CREATE"
	ActionUpdate  = "UPDATE"
	ActionDelete  = "DELETE"
	ActionView    = "VIEW"
	ActionExport  = "EXPORT"
	ActionLogin   = "LOGIN"
	ActionLogout  = "LOGOUT"
	ActionApprove = "APPROVE"
	ActionReject  = "REJECT"
)

// Logger writes audit entries and broadcasts change events.
type Logger struct {
	Logs *repo.AuditLogs
	Hub  *websocket.Hub
}

func NewLogger(logs *repo.AuditLogs, hub *websocket.Hub) *Logger {
	return &Logger{Logs: logs, Hub: hub}
}

// Record files one audit entry. metadata may be nil.
func (l *Logger) Record(user, action, module, details string, metadata map[string]any) {
	if l == nil || l.Logs == nil {
		return
	}
	if _, err := l.Logs.Append(user, action, module, details, metadata); err != nil {
		log.Printf("audit: %s %s by %s: %v", action, module, user, err)
	}
}

// RecordChange files an audit entry for a record mutation and notifies
// websocket clients.
func (l *Logger) RecordChange(user, action, module, recordID, details string) {
	l.Record(user, action, module, details, map[string]any{"record_id": recordID})
	if l != nil && l.Hub != nil {
		l.Hub.BroadcastChange(module, action, recordID)
	}
}
