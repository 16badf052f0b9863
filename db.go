package main

import (
	"log"
	"time"

	"teportal/internal/audit"
	"teportal/internal/auth"
	"teportal/internal/notify"
	"teportal/internal/repo"
	"teportal/internal/store"
	"teportal/internal/websocket"
)

// Shared application state, initialized once in main (or per-test in
// the test setup helper).
var (
	db       *store.Store
	sessions *auth.Sessions
	wsHub    *websocket.Hub
	mailer   *notify.Mailer
	auditor  *audit.Logger

	users          *repo.Users
	pendingUsers   *repo.PendingUsers
	passwordResets *repo.PasswordResets
	allocations    *repo.Allocations
	uatRecords     *repo.UATRecords
	qualityRecords *repo.QualityRecords
	trailDocuments *repo.TrailDocuments
	changeRequests *repo.ChangeRequests
	auditLogs      *repo.AuditLogs
)

// initApp wires repositories, sessions and the notifier onto a store.
func initApp(s *store.Store, sessionTTL time.Duration) {
	db = s
	sessions = auth.NewSessions(sessionTTL)
	wsHub = websocket.NewHub()
	mailer = notify.NewMailer(s)

	users = repo.NewUsers(s)
	pendingUsers = repo.NewPendingUsers(s)
	passwordResets = repo.NewPasswordResets(s)
	allocations = repo.NewAllocations(s)
	uatRecords = repo.NewUATRecords(s)
	qualityRecords = repo.NewQualityRecords(s)
	trailDocuments = repo.NewTrailDocuments(s)
	changeRequests = repo.NewChangeRequests(s)
	auditLogs = repo.NewAuditLogs(s)
	auditor = audit.NewLogger(auditLogs, wsHub)
}

// seedDB creates the built-in superuser when the portal is brand new.
func seedDB(defaultPassword string) {
	hash, err := auth.HashPassword(defaultPassword)
	if err != nil {
		log.Fatal("seed superuser:", err)
	}
	if err := users.SeedDefault(hash); err != nil {
		log.Fatal("seed superuser:", err)
	}
}
