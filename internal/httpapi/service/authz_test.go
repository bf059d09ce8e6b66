package service

import (
	"testing"

	"shelfhub/internal/httpapi/models"

	"github.com/stretchr/testify/assert"
)

func TestRequire(t *testing.T) {
	student := Identity{UserID: "u1", Role: models.RoleStudent}
	teacher := Identity{UserID: "u2", Role: models.RoleTeacher}
	librarian := Identity{UserID: "u3", Role: models.RoleLibrarian}
	admin := Identity{UserID: "u4", Role: models.RoleAdmin}

	assert.NoError(t, Require(student, AllMembers))
	assert.NoError(t, Require(admin, AllMembers))

	assert.ErrorIs(t, Require(student, CatalogAdmins), ErrForbidden)
	assert.ErrorIs(t, Require(teacher, CatalogAdmins), ErrForbidden)
	assert.NoError(t, Require(librarian, CatalogAdmins))
	assert.NoError(t, Require(admin, CatalogAdmins))

	assert.ErrorIs(t, Require(student, ResourceBookers), ErrForbidden)
	assert.ErrorIs(t, Require(librarian, ResourceBookers), ErrForbidden)
	assert.NoError(t, Require(teacher, ResourceBookers))
	assert.NoError(t, Require(admin, ResourceBookers))

	assert.ErrorIs(t, Require(librarian, Admins), ErrForbidden)
	assert.NoError(t, Require(admin, Admins))
}

func TestRequire_UnknownRole(t *testing.T) {
	ghost := Identity{UserID: "u9", Role: "superuser"}
	assert.ErrorIs(t, Require(ghost, AllMembers), ErrForbidden)
}

func TestRequireOwnerOr(t *testing.T) {
	owner := Identity{UserID: "owner-1", Role: models.RoleStudent}
	other := Identity{UserID: "other-1", Role: models.RoleStudent}
	admin := Identity{UserID: "admin-1", Role: models.RoleAdmin}

	assert.NoError(t, RequireOwnerOr(owner, "owner-1", CatalogAdmins))
	assert.ErrorIs(t, RequireOwnerOr(other, "owner-1", CatalogAdmins), ErrForbidden)
	assert.NoError(t, RequireOwnerOr(admin, "owner-1", CatalogAdmins))
}
