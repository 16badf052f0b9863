package main

import (
	"errors"
	"net/http"

	"teportal/internal/audit"
	"teportal/internal/auth"
	"teportal/internal/models"
	"teportal/internal/repo"
	"teportal/internal/validation"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UserResponse struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Role            string `json:"role"`
	IsAuditReviewer bool   `json:"is_audit_reviewer"`
}

func handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeBody(r, &req); err != nil {
		jsonErr(w, "Invalid request body", 400)
		return
	}

	user, err := users.Get(req.Username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			jsonErr(w, "Invalid username or password", 401)
			return
		}
		writeRepoErr(w, err)
		return
	}
	if !auth.CheckPassword(user.Password, req.Password) {
		jsonErr(w, "Invalid username or password", 401)
		return
	}
	if user.Status != "active" {
		jsonErr(w, "Account is not active", 403)
		return
	}

	now := db.Timestamp()
	if _, err := users.Update(req.Username, func(u *models.User) {
		u.LastLogin = &now
	}); err != nil {
		writeRepoErr(w, err)
		return
	}

	sess := sessions.Start(req.Username, user.Role, user.IsAuditReviewer)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.Token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  sess.ExpiresAt,
	})

	auditor.Record(req.Username, audit.ActionLogin, "auth", "User logged in", nil)
	jsonResp(w, map[string]interface{}{
		"user": UserResponse{
			Username:        req.Username,
			Email:           user.Email,
			Role:            user.Role,
			IsAuditReviewer: user.IsAuditReviewer,
		},
	})
}

func handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		if sess, ok := sessions.Get(cookie.Value); ok {
			auditor.Record(sess.Username, audit.ActionLogout, "auth", "User logged out", nil)
		}
		sessions.End(cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	jsonResp(w, map[string]string{"status": "ok"})
}

func handleMe(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	if sess.Username == "" {
		jsonErr(w, "Unauthorized", 401)
		return
	}
	user, err := users.Get(sess.Username)
	if err != nil {
		writeRepoErr(w, err)
		return
	}
	jsonResp(w, map[string]interface{}{
		"user": UserResponse{
			Username:        sess.Username,
			Email:           user.Email,
			Role:            user.Role,
			IsAuditReviewer: user.IsAuditReviewer,
		},
	})
}

type RegisterRequest struct {
	Username      string `json:"username"`
	Password      string `json:"password"`
	Email         string `json:"email"`
	RequestedRole string `json:"requested_role"`
	Reason        string `json:"reason"`
}

// handleRegister files a pending registration for admin approval. The
// account does not exist until someone approves it.
func handleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeBody(r, &req); err != nil {
		jsonErr(w, "Invalid request body", 400)
		return
	}
	if req.RequestedRole == "" {
		req.RequestedRole = auth.RoleUser
	}

	ve := &validation.ValidationErrors{}
	validation.ValidatePassword(ve, "password", req.Password)
	if err := ve.Err(); err != nil {
		writeRepoErr(w, err)
		return
	}

	taken, err := users.Exists(req.Username)
	if err != nil {
		writeRepoErr(w, err)
		return
	}
	if taken {
		jsonErr(w, "Username is already taken", 400)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		jsonErr(w, "Failed to process password", 500)
		return
	}
	if err := pendingUsers.Add(models.PendingUser{
		Username:      req.Username,
		Password:      hash,
		Email:         req.Email,
		RequestedRole: req.RequestedRole,
		Reason:        req.Reason,
	}); err != nil {
		writeRepoErr(w, err)
		return
	}

	auditor.Record(req.Username, audit.ActionCreate, "pending_users", "Registration submitted", nil)
	jsonResp(w, map[string]string{"status": "pending approval"})
}

type PasswordResetRequestBody struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	NewPassword string `json:"new_password"`
	Reason      string `json:"reason"`
}

// handlePasswordResetRequest files a reset for admin approval. The
// stored credential only changes when the request is approved.
func handlePasswordResetRequest(w http.ResponseWriter, r *http.Request) {
	var req PasswordResetRequestBody
	if err := decodeBody(r, &req); err != nil {
		jsonErr(w, "Invalid request body", 400)
		return
	}

	ve := &validation.ValidationErrors{}
	validation.ValidatePassword(ve, "new_password", req.NewPassword)
	if err := ve.Err(); err != nil {
		writeRepoErr(w, err)
		return
	}

	user, err := users.Get(req.Username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			jsonErr(w, "Record not found", 404)
			return
		}
		writeRepoErr(w, err)
		return
	}
	if user.Email != req.Email {
		jsonErr(w, "Email does not match the account on file", 400)
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		jsonErr(w, "Failed to process password", 500)
		return
	}
	created, err := passwordResets.Create(&models.PasswordResetRequest{
		Username:    req.Username,
		Email:       req.Email,
		NewPassword: hash,
		Reason:      req.Reason,
	})
	if err != nil {
		writeRepoErr(w, err)
		return
	}

	auditor.Record(req.Username, audit.ActionCreate, "password_resets", "Password reset requested", nil)
	jsonResp(w, map[string]string{"status": "pending approval", "id": created.ID})
}
