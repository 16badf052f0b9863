package main

import (
	"net/http"

	"teportal/internal/audit"
	"teportal/internal/auth"
	"teportal/internal/models"
	"teportal/internal/repo"
)

// UserSummary is the admin view of an account; no credential material.
type UserSummary struct {
	Username        string  `json:"username"`
	Email           string  `json:"email"`
	Role            string  `json:"role"`
	Status          string  `json:"status"`
	IsAuditReviewer bool    `json:"is_audit_reviewer"`
	CreatedAt       string  `json:"created_at"`
	ApprovedBy      string  `json:"approved_by,omitempty"`
	LastLogin       *string `json:"last_login"`
}

func handleListUsers(w http.ResponseWriter, r *http.Request) {
	all, err := users.All()
	if err != nil {
		writeRepoErr(w, err)
		return
	}
	roleFilter := r.URL.Query().Get("role")
	items := make([]UserSummary, 0, len(all))
	for username, u := range all {
		if roleFilter != "" && roleFilter != "All" && u.Role != roleFilter {
			continue
		}
		items = append(items, UserSummary{
			Username:        username,
			Email:           u.Email,
			Role:            u.Role,
			Status:          u.Status,
			IsAuditReviewer: u.IsAuditReviewer,
			CreatedAt:       u.CreatedAt,
			ApprovedBy:      u.ApprovedBy,
			LastLogin:       u.LastLogin,
		})
	}
	jsonResp(w, items)
}

type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func handleCreateUser(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	var req CreateUserRequest
	if err := decodeBody(r, &req); err != nil {
		jsonErr(w, "Invalid request body", 400)
		return
	}
	if req.Role == "" {
		req.Role = auth.RoleUser
	}
	if !auth.CanGrant(sess.Role, req.Role) {
		jsonErr(w, "Cannot grant a role above your own", 403)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		jsonErr(w, "Failed to process password", 500)
		return
	}
	if err := users.Create(req.Username, models.User{
		Password:  hash,
		Email:     req.Email,
		Role:      req.Role,
		Status:    "active",
		CreatedBy: sess.Username,
	}); err != nil {
		writeRepoErr(w, err)
		return
	}

	auditor.Record(sess.Username, audit.ActionCreate, "users", "Created user "+req.Username, nil)
	jsonResp(w, map[string]string{"status": "created", "username": req.Username})
}

type UpdateUserRequest struct {
	Role            *string `json:"role"`
	Status          *string `json:"status"`
	IsAuditReviewer *bool   `json:"is_audit_reviewer"`
}

func handleUpdateUser(w http.ResponseWriter, r *http.Request, username string) {
	sess := currentSession(r)
	var req UpdateUserRequest
	if err := decodeBody(r, &req); err != nil {
		jsonErr(w, "Invalid request body", 400)
		return
	}
	if req.Role != nil && !auth.CanGrant(sess.Role, *req.Role) {
		jsonErr(w, "Cannot grant a role above your own", 403)
		return
	}
	if username == repo.DefaultSuperuser && req.Role != nil && *req.Role != auth.RoleSuperuser {
		writeRepoErr(w, repo.ErrSuperuserProtected)
		return
	}

	updated, err := users.Update(username, func(u *models.User) {
		if req.Role != nil {
			u.Role = *req.Role
		}
		if req.Status != nil {
			u.Status = *req.Status
		}
		if req.IsAuditReviewer != nil {
			u.IsAuditReviewer = *req.IsAuditReviewer
		}
		u.UpdatedBy = sess.Username
	})
	if err != nil {
		writeRepoErr(w, err)
		return
	}

	auditor.Record(sess.Username, audit.ActionUpdate, "users", "Updated user "+username, nil)
	jsonResp(w, UserSummary{
		Username:        username,
		Email:           updated.Email,
		Role:            updated.Role,
		Status:          updated.Status,
		IsAuditReviewer: updated.IsAuditReviewer,
		CreatedAt:       updated.CreatedAt,
		ApprovedBy:      updated.ApprovedBy,
		LastLogin:       updated.LastLogin,
	})
}

func handleDeleteUser(w http.ResponseWriter, r *http.Request, username string) {
	sess := currentSession(r)
	if username == sess.Username {
		jsonErr(w, "Cannot delete your own account", 400)
		return
	}
	if err := users.Delete(username); err != nil {
		writeRepoErr(w, err)
		return
	}
	sessions.EndAllFor(username)
	auditor.Record(sess.Username, audit.ActionDelete, "users", "Deleted user "+username, nil)
	jsonResp(w, map[string]string{"status": "deleted"})
}

func handleListPendingUsers(w http.ResponseWriter, r *http.Request) {
	pending, err := pendingUsers.All()
	if err != nil {
		writeRepoErr(w, err)
		return
	}
	jsonResp(w, pending)
}

func handleApprovePendingUser(w http.ResponseWriter, r *http.Request, username string) {
	sess := currentSession(r)
	reg, err := pendingUsers.Get(username)
	if err != nil {
		writeRepoErr(w, err)
		return
	}
	if !auth.CanGrant(sess.Role, reg.RequestedRole) {
		jsonErr(w, "Cannot grant a role above your own", 403)
		return
	}

	if err := users.Create(username, models.User{
		Password:   reg.Password,
		Email:      reg.Email,
		Role:       reg.RequestedRole,
		Status:     "active",
		CreatedBy:  sess.Username,
		ApprovedBy: sess.Username,
	}); err != nil {
		writeRepoErr(w, err)
		return
	}
	if err := pendingUsers.Remove(username); err != nil {
		writeRepoErr(w, err)
		return
	}

	auditor.Record(sess.Username, audit.ActionApprove, "pending_users", "Approved registration for "+username, nil)
	jsonResp(w, map[string]string{"status": "approved", "username": username})
}

func handleRejectPendingUser(w http.ResponseWriter, r *http.Request, username string) {
	sess := currentSession(r)
	if err := pendingUsers.Remove(username); err != nil {
		writeRepoErr(w, err)
		return
	}
	auditor.Record(sess.Username, audit.ActionReject, "pending_users", "Rejected registration for "+username, nil)
	jsonResp(w, map[string]string{"status": "rejected", "username": username})
}

func handleListPasswordResets(w http.ResponseWriter, r *http.Request) {
	f := queryFilter(r, []string{"status", "username"}, nil, "")
	items, err := passwordResets.List(f)
	if err != nil {
		writeRepoErr(w, err)
		return
	}
	jsonResp(w, items)
}

func handleApprovePasswordReset(w http.ResponseWriter, r *http.Request, id string) {
	sess := currentSession(r)
	req, err := passwordResets.GetByID(id)
	if err != nil {
		writeRepoErr(w, err)
		return
	}
	if req.Status != "pending" {
		jsonErr(w, "Request is no longer pending", 400)
		return
	}

	now := db.Timestamp()
	if _, err := users.Update(req.Username, func(u *models.User) {
		u.Password = req.NewPassword
		u.PasswordResetAt = &now
		resetBy := sess.Username
		u.PasswordResetBy = &resetBy
	}); err != nil {
		writeRepoErr(w, err)
		return
	}

	if _, err := passwordResets.Update(id, map[string]any{
		"status":      "approved",
		"approved_by": sess.Username,
		"approved_at": now,
	}, sess.Username); err != nil {
		writeRepoErr(w, err)
		return
	}
	sessions.EndAllFor(req.Username)

	auditor.Record(sess.Username, audit.ActionApprove, "password_resets", "Approved password reset for "+req.Username, nil)
	jsonResp(w, map[string]string{"status": "approved"})
}

func handleRejectPasswordReset(w http.ResponseWriter, r *http.Request, id string) {
	sess := currentSession(r)
	req, err := passwordResets.GetByID(id)
	if err != nil {
		writeRepoErr(w, err)
		return
	}
	if req.Status != "pending" {
		jsonErr(w, "Request is no longer pending", 400)
		return
	}

	now := db.Timestamp()
	if _, err := passwordResets.Update(id, map[string]any{
		"status":      "rejected",
		"rejected_by": sess.Username,
		"rejected_at": now,
	}, sess.Username); err != nil {
		writeRepoErr(w, err)
		return
	}

	auditor.Record(sess.Username, audit.ActionReject, "password_resets", "Rejected password reset for "+req.Username, nil)
	jsonResp(w, map[string]string{"status": "rejected"})
}
