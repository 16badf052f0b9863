// Package scope narrows record sets to what a role/identity pair may see.
// Scoping is pure: inputs are never mutated and role/identity always
// arrive as explicit parameters, never from ambient session state.
package scope

// Owned is any record attributable to the user who created it.
type Owned interface {
	Owner() string
}

// Elevated reports whether a role sees every record in a collection.
func Elevated(role string) bool {
	switch role {
	case "superuser", "admin", "manager":
		return true
	}
	return false
}

// Visible returns the subset of records the role/identity pair may read:
// the full set for elevated roles, otherwise only records created by the
// identity. The result is always a fresh slice.
func Visible[T any, PT interface {
	*T
	Owned
}](records []T, role, identity string) []T {
	out := make([]T, 0, len(records))
	if Elevated(role) {
		return append(out, records...)
	}
	for i := range records {
		if PT(&records[i]).Owner() == identity {
			out = append(out, records[i])
		}
	}
	return out
}

// Viewer carries the identity, base role and the additive reviewer
// capability. Reviewer grants read-only full visibility over trail
// documents only; it never substitutes for the base role elsewhere.
type Viewer struct {
	Role     string
	Identity string
	Reviewer bool
}

// VisibleTrailDocuments applies the trail-document visibility rule:
// elevated roles and reviewers see everything, standard roles see their
// own records.
func VisibleTrailDocuments[T any, PT interface {
	*T
	Owned
}](records []T, v Viewer) []T {
	if v.Reviewer {
		out := make([]T, 0, len(records))
		return append(out, records...)
	}
	return Visible[T, PT](records, v.Role, v.Identity)
}
