package repo

import (
	"teportal/internal/models"
	"teportal/internal/store"
	"teportal/internal/validation"
)

// PasswordResets is the repository over the password_reset_requests
// collection. A reset carries the requested new password (already
// hashed) and stays pending until an administrator approves or rejects
// it; approval is what actually rewrites the user's credential.
type PasswordResets = Table[models.PasswordResetRequest, *models.PasswordResetRequest]

func NewPasswordResets(s *store.Store) *PasswordResets {
	return &PasswordResets{
		Store:    s,
		Name:     "password_reset_requests",
		Prepare:  preparePasswordReset,
		Validate: validatePasswordReset,
	}
}

func preparePasswordReset(r *models.PasswordResetRequest) {
	if r.Status == "" {
		r.Status = "pending"
	}
}

func validatePasswordReset(r *models.PasswordResetRequest) error {
	ve := &validation.ValidationErrors{}
	validation.ValidateUsername(ve, "username", r.Username)
	validation.ValidateEmail(ve, "email", r.Email)
	validation.RequireField(ve, "new_password", r.NewPassword)
	validation.RequireField(ve, "reason", r.Reason)
	validation.ValidateEnum(ve, "status", r.Status, []string{"pending", "approved", "rejected"})
	return ve.Err()
}
