package models

// The accessor methods below let the generic repository handle any
// array-backed entity: id assignment, create/update stamping, and the
// created_by owner used for role scoping.

func (a *Allocation) GetID() string      { return a.ID }
func (a *Allocation) SetID(id string)    { a.ID = id }
func (a *Allocation) Owner() string      { return a.CreatedBy }
func (a *Allocation) Stamp(now string, isNew bool) {
	if isNew {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
}

func (u *UATRecord) GetID() string   { return u.ID }
func (u *UATRecord) SetID(id string) { u.ID = id }
func (u *UATRecord) Owner() string   { return u.CreatedBy }
func (u *UATRecord) Stamp(now string, isNew bool) {
	if isNew {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
}

func (q *QualityRecord) GetID() string   { return q.ID }
func (q *QualityRecord) SetID(id string) { q.ID = id }
func (q *QualityRecord) Owner() string   { return q.CreatedBy }
func (q *QualityRecord) Stamp(now string, isNew bool) {
	if isNew {
		q.CreatedAt = now
	}
	q.UpdatedAt = now
}

func (d *TrailDocument) GetID() string   { return d.ID }
func (d *TrailDocument) SetID(id string) { d.ID = id }
func (d *TrailDocument) Owner() string   { return d.CreatedBy }
func (d *TrailDocument) Stamp(now string, isNew bool) {
	if isNew {
		d.CreatedAt = now
	}
	d.UpdatedAt = now
}

func (c *ChangeRequest) GetID() string   { return c.ID }
func (c *ChangeRequest) SetID(id string) { c.ID = id }
func (c *ChangeRequest) Owner() string   { return c.CreatedBy }
func (c *ChangeRequest) Stamp(now string, isNew bool) {
	if isNew {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
}

func (p *PasswordResetRequest) GetID() string   { return p.ID }
func (p *PasswordResetRequest) SetID(id string) { p.ID = id }
func (p *PasswordResetRequest) Owner() string   { return p.Username }
func (p *PasswordResetRequest) Stamp(now string, isNew bool) {
	if isNew {
		p.CreatedAt = now
		if p.RequestedAt == "" {
			p.RequestedAt = now
		}
	}
	p.UpdatedAt = now
}
