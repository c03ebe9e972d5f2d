package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"marketplace-backend/api-service/middleware"
	"marketplace-backend/api-service/resource"
	"marketplace-backend/api-service/store"
	"marketplace-backend/shared/config"
	"marketplace-backend/shared/database"
	"marketplace-backend/shared/database/models"
	"marketplace-backend/shared/utils/auth"
	"marketplace-backend/shared/utils/cache"
	"marketplace-backend/shared/utils/permission"
	"marketplace-backend/shared/utils/query"
	"marketplace-backend/shared/validation"
)

// UpdateUserBody is the loose candidate record for user updates. Pointer
// fields distinguish "absent" from a zero value.
type UpdateUserBody struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	JobTitle        string `json:"jobTitle"`
	AvatarImageFile string `json:"avatarImageFile"`
	NotificationsOn *bool  `json:"notificationsOn"`
	AcceptedTerms   *bool  `json:"acceptedTerms"`
	Type            string `json:"type"`
	Status          string `json:"status"`
}

// deleteUserCommand records who is being deactivated and whether the actor
// is deactivating their own account.
type deleteUserCommand struct {
	id  uuid.UUID
	own bool
}

func invalidateSessionUser(id uuid.UUID) {
	if cm := cache.GetCacheManager(); cm != nil {
		cm.InvalidateSessionUser(id)
	}
}

// GetUsers lists all users. Admin only.
// @Router /api/users [get]
func GetUsers(c *gin.Context) {
	sess := middleware.SessionFromContext(c)
	if !permission.CanReadManyUsers(sess) {
		resource.RespondPermissionDenied(c, permission.ErrorMessage)
		return
	}

	params := query.ParseListParams(c)
	users, total, err := store.ReadManyUsers(c.Request.Context(), database.GetDB(), params)
	if err != nil {
		resource.RespondStorageError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":      users,
		"pagination": query.BuildPaginationResponse(params, total),
	})
}

// GetUser reads one user. Admins may read anyone, everyone else only
// themselves.
// @Router /api/users/{id} [get]
func GetUser(c *gin.Context) {
	sess := middleware.SessionFromContext(c)

	validatedID := validation.ValidateUUID(c.Param("id"))
	if validatedID.IsInvalid() {
		resource.RespondValidationErrors(c, validation.ErrorMap{"id": validatedID.Errors()})
		return
	}
	id := validatedID.Value(uuid.Nil)

	if !permission.CanReadOneUser(sess, id) {
		resource.RespondPermissionDenied(c, permission.ErrorMessage)
		return
	}

	user, err := store.ReadOneUser(c.Request.Context(), database.GetDB(), id)
	if err != nil {
		resource.RespondStorageError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// validateAdminUserUpdate handles an admin acting on another account. Only
// two narrow operations are allowed: reactivation, and a type change between
// the public-sector types. Anything else is a permission error, including
// any attempt to touch a vendor's type.
func validateAdminUserUpdate(target *models.User, body UpdateUserBody) validation.RequestValidation[store.UpdateUserParams] {
	profileTouched := body.Name != "" || body.Email != "" || body.JobTitle != "" ||
		body.AvatarImageFile != "" || body.NotificationsOn != nil || body.AcceptedTerms != nil

	switch {
	case body.Status != "" && body.Type == "" && !profileTouched:
		validatedStatus := validation.ValidateUserStatus(body.Status)
		if validatedStatus.IsInvalid() {
			return validation.InvalidRequest[store.UpdateUserParams](validation.ErrorMap{
				"status": validatedStatus.Errors(),
			})
		}
		status := validatedStatus.Value("")
		if status != models.UserStatusActive {
			return validation.InvalidRequest[store.UpdateUserParams](validation.ErrorMap{
				"status": {"Administrators may only reactivate accounts through this operation."},
			})
		}
		return validation.ValidRequest(store.UpdateUserParams{
			ID:     target.ID,
			Status: &status,
		})
	case body.Type != "" && body.Status == "" && !profileTouched:
		validatedType := validation.ValidateUserType(body.Type)
		if validatedType.IsInvalid() {
			return validation.InvalidRequest[store.UpdateUserParams](validation.ErrorMap{
				"type": validatedType.Errors(),
			})
		}
		userType := validatedType.Value("")
		if target.Type == models.UserTypeVendor || !models.IsPublicSector(userType) {
			return validation.PermissionDenied[store.UpdateUserParams](permission.ErrorMessage)
		}
		return validation.ValidRequest(store.UpdateUserParams{
			ID:   target.ID,
			Type: &userType,
		})
	default:
		return validation.PermissionDenied[store.UpdateUserParams](permission.ErrorMessage)
	}
}

// validateAvatarImageReference confirms a referenced avatar exists and names
// an allowed image type. The empty string means no change and validates to
// nil.
func validateAvatarImageReference(ctx context.Context, db *gorm.DB, raw string) validation.Validation[*uuid.UUID] {
	if raw == "" {
		return validation.Valid[*uuid.UUID](nil)
	}
	validatedID := validation.ValidateUUID(raw)
	if validatedID.IsInvalid() {
		return validation.Invalid[*uuid.UUID](validatedID.Errors()...)
	}
	record, err := store.ReadOneFileByID(ctx, db, validatedID.Value(uuid.Nil))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return validation.Invalid[*uuid.UUID]("The specified image file was not found.")
		}
		return validation.Invalid[*uuid.UUID]("Unable to verify the specified image file.")
	}
	return validateImageRecord(record)
}

// validateImageRecord checks the stored file name against the image
// extension allow-list.
func validateImageRecord(record *models.FileRecord) validation.Validation[*uuid.UUID] {
	ext := strings.ToLower(filepath.Ext(record.Name))
	for _, allowed := range config.GetConfig().GetFileAllowedImageTypes() {
		if ext == allowed {
			id := record.ID
			return validation.Valid(&id)
		}
	}
	return validation.Invalid[*uuid.UUID](fmt.Sprintf("%q files cannot be used as a profile image.", ext))
}

// validateProfileUserUpdate validates a self-service partial update. Absent
// fields are left unchanged; only supplied fields are validated and written.
// The avatar existence and image-type check hits storage and runs
// concurrently with the pure validators.
func validateProfileUserUpdate(ctx context.Context, target *models.User, body UpdateUserBody) validation.RequestValidation[store.UpdateUserParams] {
	avatarResult := make(chan validation.Validation[*uuid.UUID], 1)
	go func() {
		avatarResult <- validateAvatarImageReference(ctx, database.GetDB(), body.AvatarImageFile)
	}()

	validatedName := validation.Optional(body.Name, validation.ValidateName)
	validatedEmail := validation.Optional(body.Email, validation.ValidateEmail)
	validatedJobTitle := validation.ValidateJobTitle(body.JobTitle)
	validatedAvatarImageFile := <-avatarResult

	if validation.AllValid(validatedName, validatedEmail, validatedJobTitle, validatedAvatarImageFile) {
		params := store.UpdateUserParams{
			ID:              target.ID,
			AvatarImageFile: validatedAvatarImageFile.Value(nil),
			NotificationsOn: body.NotificationsOn,
			AcceptedTerms:   body.AcceptedTerms,
		}
		if body.Name != "" {
			name := validatedName.Value("")
			params.Name = &name
		}
		if body.Email != "" {
			email := validatedEmail.Value("")
			params.Email = &email
		}
		if body.JobTitle != "" {
			jobTitle := validatedJobTitle.Value("")
			params.JobTitle = &jobTitle
		}
		return validation.ValidRequest(params)
	}

	errs := validation.ErrorMap{}
	errs.Add("name", validatedName.Errors()...)
	errs.Add("email", validatedEmail.Errors()...)
	errs.Add("jobTitle", validatedJobTitle.Errors()...)
	errs.Add("avatarImageFile", validatedAvatarImageFile.Errors()...)
	return validation.InvalidRequest[store.UpdateUserParams](errs)
}

// UpdateUser applies either a self-service profile update or one of the two
// narrow admin operations.
// @Router /api/users/{id} [put]
func UpdateUser() gin.HandlerFunc {
	pipeline := resource.Pipeline[UpdateUserBody, store.UpdateUserParams, any]{
		Parse: func(c *gin.Context) UpdateUserBody {
			var body UpdateUserBody
			_ = c.ShouldBindJSON(&body)
			return body
		},
		Validate: func(ctx context.Context, sess auth.Session, rawID string, body UpdateUserBody) validation.RequestValidation[store.UpdateUserParams] {
			validatedID := validation.ValidateUUID(rawID)
			if validatedID.IsInvalid() {
				return validation.InvalidRequest[store.UpdateUserParams](validation.ErrorMap{"id": validatedID.Errors()})
			}
			id := validatedID.Value(uuid.Nil)

			if !permission.CanUpdateUser(sess, id) {
				return validation.PermissionDenied[store.UpdateUserParams](permission.ErrorMessage)
			}

			target, err := store.ReadOneUser(ctx, database.GetDB(), id)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return validation.InvalidRequest[store.UpdateUserParams](validation.ErrorMap{
						validation.KeyNotFound: []string{resource.NotFoundMessage},
					})
				}
				return validation.InvalidRequest[store.UpdateUserParams](validation.ErrorMap{
					validation.KeyDatabase: []string{resource.DatabaseErrorMessage},
				})
			}

			if sess.IsAdmin() && !sess.IsOwnAccount(id) {
				return validateAdminUserUpdate(target, body)
			}
			return validateProfileUserUpdate(ctx, target, body)
		},
		Execute: func(ctx context.Context, sess auth.Session, cmd store.UpdateUserParams) (any, error) {
			user, err := store.UpdateUser(ctx, database.GetDB(), cmd)
			if err != nil {
				return nil, err
			}
			invalidateSessionUser(cmd.ID)
			return user, nil
		},
		SuccessStatus: http.StatusOK,
	}
	return pipeline.Handler()
}

// DeleteUser deactivates an account. Self-deactivation and admin
// deactivation record distinct statuses so reactivation rules can tell them
// apart.
// @Router /api/users/{id} [delete]
func DeleteUser() gin.HandlerFunc {
	pipeline := resource.Pipeline[struct{}, deleteUserCommand, any]{
		Parse: func(*gin.Context) struct{} { return struct{}{} },
		Validate: func(ctx context.Context, sess auth.Session, rawID string, _ struct{}) validation.RequestValidation[deleteUserCommand] {
			validatedID := validation.ValidateUUID(rawID)
			if validatedID.IsInvalid() {
				return validation.InvalidRequest[deleteUserCommand](validation.ErrorMap{"id": validatedID.Errors()})
			}
			id := validatedID.Value(uuid.Nil)

			if !permission.CanDeleteUser(sess, id) {
				return validation.PermissionDenied[deleteUserCommand](permission.ErrorMessage)
			}

			target, err := store.ReadOneUser(ctx, database.GetDB(), id)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return validation.InvalidRequest[deleteUserCommand](validation.ErrorMap{
						validation.KeyNotFound: []string{resource.NotFoundMessage},
					})
				}
				return validation.InvalidRequest[deleteUserCommand](validation.ErrorMap{
					validation.KeyDatabase: []string{resource.DatabaseErrorMessage},
				})
			}
			if !target.IsActive() {
				return validation.InvalidRequest[deleteUserCommand](validation.ErrorMap{
					"status": {"This account is already inactive."},
				})
			}
			return validation.ValidRequest(deleteUserCommand{id: id, own: sess.IsOwnAccount(id)})
		},
		Execute: func(ctx context.Context, sess auth.Session, cmd deleteUserCommand) (any, error) {
			status := models.UserStatusInactiveByAdmin
			if cmd.own {
				status = models.UserStatusInactiveByUser
			}
			now := time.Now().UTC()
			by := sess.UserID()
			user, err := store.UpdateUser(ctx, database.GetDB(), store.UpdateUserParams{
				ID:            cmd.id,
				Status:        &status,
				DeactivatedOn: &now,
				DeactivatedBy: &by,
			})
			if err != nil {
				return nil, err
			}
			invalidateSessionUser(cmd.id)
			return user, nil
		},
		SuccessStatus: http.StatusOK,
	}
	return pipeline.Handler()
}
