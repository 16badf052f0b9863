package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"teportal/internal/auth"
	"teportal/internal/config"
	"teportal/internal/store"
	"teportal/internal/websocket"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	dataDir := flag.String("data", "", "Data directory (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("config:", err)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}

	initApp(store.Open(cfg.DataDir), time.Duration(cfg.SessionTTLHours)*time.Hour)

	defaultPassword := os.Getenv("TEPORTAL_SUPERUSER_PASSWORD")
	if defaultPassword == "" {
		defaultPassword = "admin123"
	}
	seedDB(defaultPassword)

	log.Printf("portal server starting on http://localhost%s", cfg.Addr)
	log.Fatal(http.ListenAndServe(cfg.Addr, logging(requireAuth(router()))))
}

func router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/auth/login", methodOnly("POST", handleLogin))
	mux.HandleFunc("/auth/logout", methodOnly("POST", handleLogout))
	mux.HandleFunc("/auth/me", handleMe)
	mux.HandleFunc("/auth/register", methodOnly("POST", handleRegister))
	mux.HandleFunc("/auth/password-reset", methodOnly("POST", handlePasswordResetRequest))

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		websocket.Handle(wsHub, w, r)
	})

	mux.HandleFunc("/api/v1/", apiRouter)
	return mux
}

func methodOnly(method string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			jsonErr(w, "Method not allowed", 405)
			return
		}
		h(w, r)
	}
}

func apiRouter(w http.ResponseWriter, r *http.Request) {
	parts := pathParts(r.URL.Path)

	switch {
	case parts[0] == "health" && len(parts) == 1:
		jsonResp(w, map[string]string{"status": "ok"})

	// Allocations
	case parts[0] == "allocations" && len(parts) == 1 && r.Method == "GET":
		handleListAllocations(w, r)
	case parts[0] == "allocations" && len(parts) == 1 && r.Method == "POST":
		handleCreateAllocation(w, r)
	case parts[0] == "allocations" && len(parts) == 2 && parts[1] == "export" && r.Method == "GET":
		handleExportAllocations(w, r)
	case parts[0] == "allocations" && len(parts) == 2 && parts[1] == "statistics" && r.Method == "GET":
		handleAllocationStatistics(w, r)
	case parts[0] == "allocations" && len(parts) == 2 && r.Method == "GET":
		handleGetAllocation(w, r, parts[1])
	case parts[0] == "allocations" && len(parts) == 2 && r.Method == "PUT":
		handleUpdateAllocation(w, r, parts[1])
	case parts[0] == "allocations" && len(parts) == 2 && r.Method == "DELETE":
		handleDeleteAllocation(w, r, parts[1])

	// UAT records
	case parts[0] == "uat-records" && len(parts) == 1 && r.Method == "GET":
		handleListUATRecords(w, r)
	case parts[0] == "uat-records" && len(parts) == 1 && r.Method == "POST":
		handleCreateUATRecord(w, r)
	case parts[0] == "uat-records" && len(parts) == 2 && parts[1] == "export" && r.Method == "GET":
		handleExportUATRecords(w, r)
	case parts[0] == "uat-records" && len(parts) == 2 && parts[1] == "statistics" && r.Method == "GET":
		handleUATStatistics(w, r)
	case parts[0] == "uat-records" && len(parts) == 2 && r.Method == "GET":
		handleGetUATRecord(w, r, parts[1])
	case parts[0] == "uat-records" && len(parts) == 2 && r.Method == "PUT":
		handleUpdateUATRecord(w, r, parts[1])
	case parts[0] == "uat-records" && len(parts) == 2 && r.Method == "DELETE":
		handleDeleteUATRecord(w, r, parts[1])

	// Quality records
	case parts[0] == "quality-records" && len(parts) == 1 && r.Method == "GET":
		handleListQualityRecords(w, r)
	case parts[0] == "quality-records" && len(parts) == 1 && r.Method == "POST":
		handleCreateQualityRecord(w, r)
	case parts[0] == "quality-records" && len(parts) == 2 && parts[1] == "export" && r.Method == "GET":
		handleExportQualityRecords(w, r)
	case parts[0] == "quality-records" && len(parts) == 2 && parts[1] == "statistics" && r.Method == "GET":
		handleQualityStatistics(w, r)
	case parts[0] == "quality-records" && len(parts) == 2 && r.Method == "GET":
		handleGetQualityRecord(w, r, parts[1])
	case parts[0] == "quality-records" && len(parts) == 2 && r.Method == "PUT":
		handleUpdateQualityRecord(w, r, parts[1])
	case parts[0] == "quality-records" && len(parts) == 2 && r.Method == "DELETE":
		handleDeleteQualityRecord(w, r, parts[1])

	// Trail documents
	case parts[0] == "trail-documents" && len(parts) == 1 && r.Method == "GET":
		handleListTrailDocuments(w, r)
	case parts[0] == "trail-documents" && len(parts) == 1 && r.Method == "POST":
		handleCreateTrailDocument(w, r)
	case parts[0] == "trail-documents" && len(parts) == 2 && parts[1] == "export" && r.Method == "GET":
		handleExportTrailDocuments(w, r)
	case parts[0] == "trail-documents" && len(parts) == 2 && r.Method == "GET":
		handleGetTrailDocument(w, r, parts[1])
	case parts[0] == "trail-documents" && len(parts) == 2 && r.Method == "PUT":
		handleUpdateTrailDocument(w, r, parts[1])
	case parts[0] == "trail-documents" && len(parts) == 2 && r.Method == "DELETE":
		handleDeleteTrailDocument(w, r, parts[1])

	// Change requests
	case parts[0] == "change-requests" && len(parts) == 1 && r.Method == "GET":
		handleListChangeRequests(w, r)
	case parts[0] == "change-requests" && len(parts) == 1 && r.Method == "POST":
		handleCreateChangeRequest(w, r)
	case parts[0] == "change-requests" && len(parts) == 2 && parts[1] == "export" && r.Method == "GET":
		handleExportChangeRequests(w, r)
	case parts[0] == "change-requests" && len(parts) == 2 && r.Method == "GET":
		handleGetChangeRequest(w, r, parts[1])
	case parts[0] == "change-requests" && len(parts) == 2 && r.Method == "PUT":
		handleUpdateChangeRequest(w, r, parts[1])
	case parts[0] == "change-requests" && len(parts) == 2 && r.Method == "DELETE":
		handleDeleteChangeRequest(w, r, parts[1])

	// Audit trail (read-only)
	case parts[0] == "audit" && len(parts) == 1 && r.Method == "GET":
		handleListAuditLogs(w, r)
	case parts[0] == "audit" && len(parts) == 2 && parts[1] == "export" && r.Method == "GET":
		requireRole(auth.RoleAdmin, handleExportAuditLogs)(w, r)

	// User management
	case parts[0] == "users" && len(parts) == 1 && r.Method == "GET":
		requireRole(auth.RoleAdmin, handleListUsers)(w, r)
	case parts[0] == "users" && len(parts) == 1 && r.Method == "POST":
		requireRole(auth.RoleAdmin, handleCreateUser)(w, r)
	case parts[0] == "users" && len(parts) == 2 && r.Method == "PUT":
		requireRole(auth.RoleAdmin, func(w http.ResponseWriter, r *http.Request) {
			handleUpdateUser(w, r, parts[1])
		})(w, r)
	case parts[0] == "users" && len(parts) == 2 && r.Method == "DELETE":
		requireRole(auth.RoleAdmin, func(w http.ResponseWriter, r *http.Request) {
			handleDeleteUser(w, r, parts[1])
		})(w, r)

	// Pending registrations
	case parts[0] == "pending-users" && len(parts) == 1 && r.Method == "GET":
		requireRole(auth.RoleAdmin, handleListPendingUsers)(w, r)
	case parts[0] == "pending-users" && len(parts) == 3 && parts[2] == "approve" && r.Method == "POST":
		requireRole(auth.RoleAdmin, func(w http.ResponseWriter, r *http.Request) {
			handleApprovePendingUser(w, r, parts[1])
		})(w, r)
	case parts[0] == "pending-users" && len(parts) == 3 && parts[2] == "reject" && r.Method == "POST":
		requireRole(auth.RoleAdmin, func(w http.ResponseWriter, r *http.Request) {
			handleRejectPendingUser(w, r, parts[1])
		})(w, r)

	// Password resets
	case parts[0] == "password-resets" && len(parts) == 1 && r.Method == "GET":
		requireRole(auth.RoleAdmin, handleListPasswordResets)(w, r)
	case parts[0] == "password-resets" && len(parts) == 3 && parts[2] == "approve" && r.Method == "POST":
		requireRole(auth.RoleAdmin, func(w http.ResponseWriter, r *http.Request) {
			handleApprovePasswordReset(w, r, parts[1])
		})(w, r)
	case parts[0] == "password-resets" && len(parts) == 3 && parts[2] == "reject" && r.Method == "POST":
		requireRole(auth.RoleAdmin, func(w http.ResponseWriter, r *http.Request) {
			handleRejectPasswordReset(w, r, parts[1])
		})(w, r)

	// Email settings
	case parts[0] == "email" && len(parts) == 2 && parts[1] == "config" && r.Method == "GET":
		requireRole(auth.RoleAdmin, handleGetEmailConfig)(w, r)
	case parts[0] == "email" && len(parts) == 2 && parts[1] == "config" && r.Method == "PUT":
		requireRole(auth.RoleAdmin, handleUpdateEmailConfig)(w, r)
	case parts[0] == "email" && len(parts) == 2 && parts[1] == "test" && r.Method == "POST":
		requireRole(auth.RoleAdmin, handleTestEmail)(w, r)

	default:
		jsonErr(w, "not found", 404)
	}
}
