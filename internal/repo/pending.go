package repo

import (
	"teportal/internal/models"
	"teportal/internal/store"
	"teportal/internal/validation"
)

// PendingUsers is the repository over the pending_users collection:
// registrations waiting for an administrator to approve or reject them.
// Entries are keyed by username since each person may only have one
// registration in flight.
type PendingUsers struct {
	s *store.Store
}

func NewPendingUsers(s *store.Store) *PendingUsers {
	return &PendingUsers{s: s}
}

const pendingCollection = "pending_users"

func (p *PendingUsers) load() ([]models.PendingUser, error) {
	var pending []models.PendingUser
	if err := p.s.Load(pendingCollection, &pending); err != nil {
		return nil, err
	}
	return pending, nil
}

// All returns every pending registration in request order.
func (p *PendingUsers) All() ([]models.PendingUser, error) {
	return p.load()
}

// Get returns the pending registration for a username, or ErrNotFound.
func (p *PendingUsers) Get(username string) (*models.PendingUser, error) {
	pending, err := p.load()
	if err != nil {
		return nil, err
	}
	for i := range pending {
		if pending[i].Username == username {
			reg := pending[i]
			return &reg, nil
		}
	}
	return nil, ErrNotFound
}

// Add files a registration. The password must already be hashed. Fails
// when the username already has a registration in flight.
func (p *PendingUsers) Add(reg models.PendingUser) error {
	ve := &validation.ValidationErrors{}
	validation.ValidateUsername(ve, "username", reg.Username)
	validation.ValidateEmail(ve, "email", reg.Email)
	validation.RequireField(ve, "password", reg.Password)
	validation.ValidateEnum(ve, "requested_role", reg.RequestedRole, validation.ValidRoles)
	if err := ve.Err(); err != nil {
		return err
	}

	unlock := p.s.Lock(pendingCollection)
	defer unlock()

	pending, err := p.load()
	if err != nil {
		return err
	}
	for i := range pending {
		if pending[i].Username == reg.Username {
			ve.Add("username", "already has a pending registration")
			return ve
		}
	}
	if reg.Status == "" {
		reg.Status = "pending"
	}
	if reg.RequestedAt == "" {
		reg.RequestedAt = p.s.Timestamp()
	}
	pending = append(pending, reg)
	return p.s.Save(pendingCollection, pending)
}

// Remove drops the registration for a username, typically after it was
// approved or rejected. ErrNotFound when nothing matched.
func (p *PendingUsers) Remove(username string) error {
	unlock := p.s.Lock(pendingCollection)
	defer unlock()

	pending, err := p.load()
	if err != nil {
		return err
	}
	kept := make([]models.PendingUser, 0, len(pending))
	for i := range pending {
		if pending[i].Username != username {
			kept = append(kept, pending[i])
		}
	}
	if len(kept) == len(pending) {
		return ErrNotFound
	}
	return p.s.Save(pendingCollection, kept)
}
