package service

import "shelfhub/internal/httpapi/models"

// Identity is the authenticated caller, threaded explicitly into every
// service operation. There is no ambient current-user state.
type Identity struct {
	UserID string
	Role   string
}

// RoleSet is a capability set: the roles allowed to perform an operation.
type RoleSet map[string]struct{}

func NewRoleSet(roles ...string) RoleSet {
	set := make(RoleSet, len(roles))
	for _, role := range roles {
		set[role] = struct{}{}
	}
	return set
}

func (s RoleSet) Contains(role string) bool {
	_, ok := s[role]
	return ok
}

// Capability sets used by the services.
var (
	// AllMembers may browse and reserve books.
	AllMembers = NewRoleSet(models.RoleStudent, models.RoleTeacher, models.RoleLibrarian, models.RoleAdmin)
	// CatalogAdmins administer books, categories, users and reservations.
	CatalogAdmins = NewRoleSet(models.RoleAdmin, models.RoleLibrarian)
	// ResourceBookers may view and book labs and resource rooms.
	ResourceBookers = NewRoleSet(models.RoleAdmin, models.RoleTeacher)
	// Admins is the admin-only set.
	Admins = NewRoleSet(models.RoleAdmin)
)

// Require checks the caller's role against the allowed set. It runs as
// the first statement of every mutating operation, before any storage
// access.
func Require(actor Identity, allowed RoleSet) error {
	if !allowed.Contains(actor.Role) {
		return ErrForbidden
	}
	return nil
}

// RequireOwnerOr permits the owner of an entity, or any caller whose
// role is in the allowed set.
func RequireOwnerOr(actor Identity, ownerID string, allowed RoleSet) error {
	if actor.UserID == ownerID {
		return nil
	}
	return Require(actor, allowed)
}
