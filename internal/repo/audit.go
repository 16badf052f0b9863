package repo

import (
	"teportal/internal/filter"
	"teportal/internal/models"
	"teportal/internal/store"
)

// AuditLogs is the append-only repository over the audit_logs collection.
// Entries are never updated or deleted; ids use the fine-grained id so
// bursts of events within one second stay ordered.
type AuditLogs struct {
	s *store.Store
}

func NewAuditLogs(s *store.Store) *AuditLogs {
	return &AuditLogs{s: s}
}

const auditCollection = "audit_logs"

// Append records one audit event and returns it.
func (a *AuditLogs) Append(user, action, module, details string, metadata map[string]any) (*models.AuditLog, error) {
	unlock := a.s.Lock(auditCollection)
	defer unlock()

	var logs []models.AuditLog
	if err := a.s.Load(auditCollection, &logs); err != nil {
		return nil, err
	}
	entry := models.AuditLog{
		ID:        a.s.NextFineID(),
		Timestamp: a.s.Timestamp(),
		User:      user,
		Action:    action,
		Module:    module,
		Details:   details,
		Metadata:  metadata,
	}
	logs = append(logs, entry)
	if err := a.s.Save(auditCollection, logs); err != nil {
		return nil, err
	}
	return &entry, nil
}

// List returns audit entries matching the filter, oldest first.
func (a *AuditLogs) List(f *filter.Filter) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	if err := a.s.Load(auditCollection, &logs); err != nil {
		return nil, err
	}
	return filter.Apply(logs, f), nil
}
