package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"marketplace-backend/shared/database/models"
	"marketplace-backend/shared/utils/query"
)

// ReadOneUser returns a user by id.
func ReadOneUser(ctx context.Context, db *gorm.DB, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := db.WithContext(ctx).Take(&user, "id = ?", id).Error; err != nil {
		return nil, normalize(err)
	}
	return &user, nil
}

// ReadOneUserSlim returns the reduced projection used in organization views.
func ReadOneUserSlim(ctx context.Context, db *gorm.DB, id uuid.UUID) (*models.UserSlim, error) {
	user, err := ReadOneUser(ctx, db, id)
	if err != nil {
		return nil, err
	}
	slim := user.Slim()
	return &slim, nil
}

// ReadManyUsers returns a page of users, admin-only at the handler level.
// Sort keys are the camelCase names the JSON surface uses.
var userSortFields = map[string]string{
	"name":      "name",
	"type":      "type",
	"createdAt": "created_at",
}

func ReadManyUsers(ctx context.Context, db *gorm.DB, params query.ListParams) ([]models.User, int64, error) {
	base := db.WithContext(ctx).Model(&models.User{})
	base = query.ApplySearch(base, params.Search, []string{"name", "email"})

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, normalize(err)
	}

	dbQuery := query.ApplySort(base, params, userSortFields)
	dbQuery = query.ApplyPagination(dbQuery, params)

	var users []models.User
	if err := dbQuery.Find(&users).Error; err != nil {
		return nil, 0, normalize(err)
	}
	return users, total, nil
}

// UpdateUserParams is the validated partial-update command for a user.
// Nil pointers leave columns untouched; JobTitle uses the empty string to
// unset the stored value for public-sector users.
type UpdateUserParams struct {
	ID              uuid.UUID
	Name            *string
	Email           *string
	JobTitle        *string
	AvatarImageFile *uuid.UUID
	NotificationsOn *bool
	AcceptedTerms   *bool
	Type            *string
	Status          *string
	DeactivatedOn   *time.Time
	DeactivatedBy   *uuid.UUID
}

// UpdateUser applies a partial update and returns the fresh row.
func UpdateUser(ctx context.Context, db *gorm.DB, params UpdateUserParams) (*models.User, error) {
	columns := map[string]interface{}{}
	if params.Name != nil {
		columns["name"] = *params.Name
	}
	if params.Email != nil {
		columns["email"] = *params.Email
	}
	if params.JobTitle != nil {
		columns["job_title"] = *params.JobTitle
	}
	if params.AvatarImageFile != nil {
		columns["avatar_image_file"] = *params.AvatarImageFile
	}
	if params.NotificationsOn != nil {
		columns["notifications_on"] = *params.NotificationsOn
	}
	if params.AcceptedTerms != nil {
		columns["accepted_terms"] = *params.AcceptedTerms
	}
	if params.Type != nil {
		columns["type"] = *params.Type
	}
	if params.Status != nil {
		columns["status"] = *params.Status
	}
	if params.DeactivatedOn != nil {
		columns["deactivated_on"] = *params.DeactivatedOn
	}
	if params.DeactivatedBy != nil {
		columns["deactivated_by"] = *params.DeactivatedBy
	}

	if len(columns) > 0 {
		result := db.WithContext(ctx).Model(&models.User{}).
			Where("id = ?", params.ID).
			Updates(columns)
		if result.Error != nil {
			return nil, normalize(result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	return ReadOneUser(ctx, db, params.ID)
}
