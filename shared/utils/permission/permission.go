package permission

import (
	"strings"

	"github.com/google/uuid"

	"marketplace-backend/shared/database/models"
	"marketplace-backend/shared/utils/auth"
)

// ErrorMessage is the fixed body for every permission denial. It never leaks
// which check failed.
const ErrorMessage = "You do not have permission to perform this action."

// Organization predicates. Reads are open to everyone; visibility masking in
// the store decides how much each caller sees.

func CanReadManyOrganizations(auth.Session) bool {
	return true
}

func CanReadOneOrganization(auth.Session) bool {
	return true
}

// CanCreateOrganization allows vendors only; government users respond to
// opportunities, they do not sell through organizations.
func CanCreateOrganization(sess auth.Session) bool {
	return sess.IsVendor()
}

// CanUpdateOrganization allows admins and the organization's owner.
func CanUpdateOrganization(sess auth.Session, ownerID uuid.UUID) bool {
	if sess.IsAdmin() {
		return true
	}
	return ownerID != uuid.Nil && sess.IsOwnAccount(ownerID)
}

// CanDeleteOrganization mirrors update: admins and owners.
func CanDeleteOrganization(sess auth.Session, ownerID uuid.UUID) bool {
	return CanUpdateOrganization(sess, ownerID)
}

// User predicates.

func CanReadManyUsers(sess auth.Session) bool {
	return sess.IsAdmin()
}

func CanReadOneUser(sess auth.Session, id uuid.UUID) bool {
	return sess.IsAdmin() || sess.IsOwnAccount(id)
}

func CanUpdateUser(sess auth.Session, id uuid.UUID) bool {
	return sess.IsAdmin() || sess.IsOwnAccount(id)
}

func CanDeleteUser(sess auth.Session, id uuid.UUID) bool {
	return sess.IsAdmin() || sess.IsOwnAccount(id)
}

// File predicates.

func CanCreateFile(sess auth.Session) bool {
	return sess.IsAuthenticated()
}

// CanReadFile evaluates the file's permission grants against the session.
// Creators can always read their own files.
func CanReadFile(sess auth.Session, file *models.FileRecord) bool {
	if file.CreatedBy != nil && sess.IsOwnAccount(*file.CreatedBy) {
		return true
	}
	for _, grant := range file.Permissions {
		tag, value, _ := strings.Cut(grant, ":")
		switch tag {
		case models.FilePermPublic:
			return true
		case models.FilePermUserType:
			if sess.User != nil && sess.User.Type == value {
				return true
			}
		case models.FilePermUser:
			if sess.User != nil && sess.User.ID.String() == value {
				return true
			}
		}
	}
	return false
}
