package permission

import (
	"testing"

	"github.com/google/uuid"

	"marketplace-backend/shared/database/models"
	"marketplace-backend/shared/utils/auth"
)

func sessionFor(userType string) auth.Session {
	return auth.Session{User: &models.User{
		ID:     uuid.New(),
		Type:   userType,
		Status: models.UserStatusActive,
	}}
}

func TestCreateOrganizationVendorOnly(t *testing.T) {
	if !CanCreateOrganization(sessionFor(models.UserTypeVendor)) {
		t.Errorf("vendors should be able to create organizations")
	}
	if CanCreateOrganization(sessionFor(models.UserTypeGovernment)) {
		t.Errorf("government users should not create organizations")
	}
	if CanCreateOrganization(auth.Anonymous()) {
		t.Errorf("anonymous callers should not create organizations")
	}
}

func TestUpdateOrganizationAdminOrOwner(t *testing.T) {
	owner := sessionFor(models.UserTypeVendor)
	other := sessionFor(models.UserTypeVendor)
	admin := sessionFor(models.UserTypeAdmin)

	if !CanUpdateOrganization(owner, owner.User.ID) {
		t.Errorf("owner should be able to update")
	}
	if CanUpdateOrganization(other, owner.User.ID) {
		t.Errorf("non-owner vendor should not be able to update")
	}
	if !CanUpdateOrganization(admin, owner.User.ID) {
		t.Errorf("admin should be able to update")
	}
	if CanUpdateOrganization(auth.Anonymous(), uuid.Nil) {
		t.Errorf("anonymous with unknown owner should be denied")
	}
}

func TestUserPredicates(t *testing.T) {
	self := sessionFor(models.UserTypeVendor)
	admin := sessionFor(models.UserTypeAdmin)

	if !CanReadOneUser(self, self.User.ID) || !CanUpdateUser(self, self.User.ID) {
		t.Errorf("users should manage their own account")
	}
	if CanReadOneUser(self, admin.User.ID) {
		t.Errorf("users should not read other accounts")
	}
	if !CanReadManyUsers(admin) || CanReadManyUsers(self) {
		t.Errorf("only admins list users")
	}
}

func TestCanReadFileGrants(t *testing.T) {
	creator := sessionFor(models.UserTypeVendor)
	gov := sessionFor(models.UserTypeGovernment)
	creatorID := creator.User.ID

	public := &models.FileRecord{Permissions: models.StringList{models.FilePermPublic}}
	if !CanReadFile(auth.Anonymous(), public) {
		t.Errorf("public files readable by anyone")
	}

	typed := &models.FileRecord{Permissions: models.StringList{
		models.FilePermissionForUserType(models.UserTypeGovernment),
	}}
	if !CanReadFile(gov, typed) {
		t.Errorf("type grant should match government session")
	}
	if CanReadFile(creator, typed) {
		t.Errorf("type grant should not match vendor session")
	}

	private := &models.FileRecord{CreatedBy: &creatorID}
	if !CanReadFile(creator, private) {
		t.Errorf("creators can always read their own files")
	}
	if CanReadFile(gov, private) {
		t.Errorf("ungranted session should be denied")
	}
}
