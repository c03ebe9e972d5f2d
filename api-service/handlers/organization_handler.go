package handlers

import (
	"context"
	"errors"
	"net/http"

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
	"marketplace-backend/shared/utils/permission"
	"marketplace-backend/shared/utils/query"
	"marketplace-backend/shared/validation"
)

// OrganizationBody is the loose candidate record for organization writes.
// Every field is a plain string; typing happens in validation.
type OrganizationBody struct {
	LegalName      string `json:"legalName"`
	LogoImageFile  string `json:"logoImageFile"`
	WebsiteURL     string `json:"websiteUrl"`
	StreetAddress1 string `json:"streetAddress1"`
	StreetAddress2 string `json:"streetAddress2"`
	City           string `json:"city"`
	Region         string `json:"region"`
	MailCode       string `json:"mailCode"`
	Country        string `json:"country"`
	ContactName    string `json:"contactName"`
	ContactTitle   string `json:"contactTitle"`
	ContactEmail   string `json:"contactEmail"`
	ContactPhone   string `json:"contactPhone"`
}

// UpdateOrganizationBody is the tagged update request. Tag selects the
// intent; Value is only read for profile updates.
type UpdateOrganizationBody struct {
	Tag   string           `json:"tag"`
	Value OrganizationBody `json:"value"`
}

const (
	updateTagProfile        = "updateProfile"
	updateTagAcceptSWUTerms = "acceptSWUTerms"
)

// organizationUpdateCommand is the validated update, one intent at a time.
type organizationUpdateCommand struct {
	tag     string
	id      uuid.UUID
	profile store.UpdateOrganizationProfileParams
}

// organizationOwnerID returns the owner for authorization checks. It reads
// the raw join column rather than the resolved slim owner, which fails open
// to nil and must never deny the real owner.
func organizationOwnerID(view *models.OrganizationView) uuid.UUID {
	if view.OwnerID != nil {
		return *view.OwnerID
	}
	return uuid.Nil
}

// validateFileReference confirms that a referenced upload exists before a
// record is allowed to point at it. The empty string means no reference and
// validates to nil.
func validateFileReference(ctx context.Context, db *gorm.DB, raw string) validation.Validation[*uuid.UUID] {
	if raw == "" {
		return validation.Valid[*uuid.UUID](nil)
	}
	validatedID := validation.ValidateUUID(raw)
	if validatedID.IsInvalid() {
		return validation.Invalid[*uuid.UUID](validatedID.Errors()...)
	}
	id := validatedID.Value(uuid.Nil)
	if _, err := store.ReadOneFileByID(ctx, db, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return validation.Invalid[*uuid.UUID]("The specified image file was not found.")
		}
		return validation.Invalid[*uuid.UUID]("Unable to verify the specified image file.")
	}
	return validation.Valid(&id)
}

// validateOrganizationFields runs the per-field validators over the body.
// The logo existence check hits storage, so it runs concurrently with the
// pure validators and joins before the verdict.
func validateOrganizationFields(ctx context.Context, db *gorm.DB, body OrganizationBody) validation.RequestValidation[store.CreateOrganizationParams] {
	logoResult := make(chan validation.Validation[*uuid.UUID], 1)
	go func() {
		logoResult <- validateFileReference(ctx, db, body.LogoImageFile)
	}()

	validatedLegalName := validation.ValidateLegalName(body.LegalName)
	validatedWebsiteURL := validation.ValidateWebsiteURL(body.WebsiteURL)
	validatedStreetAddress1 := validation.ValidateStreetAddress1(body.StreetAddress1)
	validatedStreetAddress2 := validation.ValidateStreetAddress2(body.StreetAddress2)
	validatedCity := validation.ValidateCity(body.City)
	validatedRegion := validation.ValidateRegion(body.Region)
	validatedMailCode := validation.ValidateMailCode(body.MailCode)
	validatedCountry := validation.ValidateCountry(body.Country)
	validatedContactName := validation.ValidateContactName(body.ContactName)
	validatedContactTitle := validation.ValidateContactTitle(body.ContactTitle)
	validatedContactEmail := validation.ValidateContactEmail(body.ContactEmail)
	validatedContactPhone := validation.ValidateContactPhone(body.ContactPhone)
	validatedLogoImageFile := <-logoResult

	if validation.AllValid(
		validatedLegalName,
		validatedLogoImageFile,
		validatedWebsiteURL,
		validatedStreetAddress1,
		validatedStreetAddress2,
		validatedCity,
		validatedRegion,
		validatedMailCode,
		validatedCountry,
		validatedContactName,
		validatedContactTitle,
		validatedContactEmail,
		validatedContactPhone,
	) {
		return validation.ValidRequest(store.CreateOrganizationParams{
			LegalName:      validatedLegalName.Value(""),
			LogoImageFile:  validatedLogoImageFile.Value(nil),
			WebsiteURL:     validatedWebsiteURL.Value(""),
			StreetAddress1: validatedStreetAddress1.Value(""),
			StreetAddress2: validatedStreetAddress2.Value(""),
			City:           validatedCity.Value(""),
			Region:         validatedRegion.Value(""),
			MailCode:       validatedMailCode.Value(""),
			Country:        validatedCountry.Value(""),
			ContactName:    validatedContactName.Value(""),
			ContactTitle:   validatedContactTitle.Value(""),
			ContactEmail:   validatedContactEmail.Value(""),
			ContactPhone:   validatedContactPhone.Value(""),
		})
	}

	errs := validation.ErrorMap{}
	errs.Add("legalName", validatedLegalName.Errors()...)
	errs.Add("logoImageFile", validatedLogoImageFile.Errors()...)
	errs.Add("websiteUrl", validatedWebsiteURL.Errors()...)
	errs.Add("streetAddress1", validatedStreetAddress1.Errors()...)
	errs.Add("streetAddress2", validatedStreetAddress2.Errors()...)
	errs.Add("city", validatedCity.Errors()...)
	errs.Add("region", validatedRegion.Errors()...)
	errs.Add("mailCode", validatedMailCode.Errors()...)
	errs.Add("country", validatedCountry.Errors()...)
	errs.Add("contactName", validatedContactName.Errors()...)
	errs.Add("contactTitle", validatedContactTitle.Errors()...)
	errs.Add("contactEmail", validatedContactEmail.Errors()...)
	errs.Add("contactPhone", validatedContactPhone.Errors()...)
	return validation.InvalidRequest[store.CreateOrganizationParams](errs)
}

// GetOrganizations lists active organizations as slim views.
// @Router /api/organizations [get]
func GetOrganizations(c *gin.Context) {
	sess := middleware.SessionFromContext(c)
	if !permission.CanReadManyOrganizations(sess) {
		resource.RespondPermissionDenied(c, permission.ErrorMessage)
		return
	}

	params := query.ParseListParams(c)
	required := config.GetConfig().GetRequiredCapabilities()
	slims, total, err := store.ReadManyOrganizations(c.Request.Context(), database.GetDB(), sess, params, required)
	if err != nil {
		resource.RespondStorageError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":      slims,
		"pagination": query.BuildPaginationResponse(params, total),
	})
}

// GetOrganization reads one organization, masked to the caller's
// visibility. allowInactive=true lets owners and admins read rows they
// deactivated; for everyone else inactive rows stay indistinguishable from
// missing ones.
// @Router /api/organizations/{id} [get]
func GetOrganization(c *gin.Context) {
	sess := middleware.SessionFromContext(c)
	if !permission.CanReadOneOrganization(sess) {
		resource.RespondPermissionDenied(c, permission.ErrorMessage)
		return
	}

	validatedID := validation.ValidateUUID(c.Param("id"))
	if validatedID.IsInvalid() {
		resource.RespondValidationErrors(c, validation.ErrorMap{"id": validatedID.Errors()})
		return
	}

	allowInactive := c.Query("allowInactive") == "true"
	required := config.GetConfig().GetRequiredCapabilities()
	view, err := store.ReadOneOrganization(c.Request.Context(), database.GetDB(),
		validatedID.Value(uuid.Nil), allowInactive, sess, required)
	if err != nil {
		resource.RespondStorageError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// CreateOrganization registers a new organization owned by the calling
// vendor. The organization and the owner affiliation commit in one
// transaction.
// @Router /api/organizations [post]
func CreateOrganization() gin.HandlerFunc {
	pipeline := resource.Pipeline[OrganizationBody, store.CreateOrganizationParams, any]{
		Parse: func(c *gin.Context) OrganizationBody {
			var body OrganizationBody
			_ = c.ShouldBindJSON(&body)
			return body
		},
		Validate: func(ctx context.Context, sess auth.Session, _ string, body OrganizationBody) validation.RequestValidation[store.CreateOrganizationParams] {
			if !permission.CanCreateOrganization(sess) {
				return validation.PermissionDenied[store.CreateOrganizationParams](permission.ErrorMessage)
			}
			return validateOrganizationFields(ctx, database.GetDB(), body)
		},
		Execute: func(ctx context.Context, sess auth.Session, cmd store.CreateOrganizationParams) (any, error) {
			required := config.GetConfig().GetRequiredCapabilities()
			return store.CreateOrganization(ctx, database.GetDB(), sess.UserID(), cmd, sess, required)
		},
		SuccessStatus: http.StatusCreated,
	}
	return pipeline.Handler()
}

// validateUpdateOrganization resolves the target, authorizes the caller
// against its owner and validates the requested intent.
func validateUpdateOrganization(ctx context.Context, sess auth.Session, rawID string, body UpdateOrganizationBody) validation.RequestValidation[organizationUpdateCommand] {
	db := database.GetDB()
	validatedID := validation.ValidateUUID(rawID)
	if validatedID.IsInvalid() {
		return validation.InvalidRequest[organizationUpdateCommand](validation.ErrorMap{"id": validatedID.Errors()})
	}
	id := validatedID.Value(uuid.Nil)

	required := config.GetConfig().GetRequiredCapabilities()
	view, err := store.ReadOneOrganization(ctx, db, id, false, sess, required)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return validation.InvalidRequest[organizationUpdateCommand](validation.ErrorMap{
				validation.KeyNotFound: []string{resource.NotFoundMessage},
			})
		}
		return validation.InvalidRequest[organizationUpdateCommand](validation.ErrorMap{
			validation.KeyDatabase: []string{resource.DatabaseErrorMessage},
		})
	}

	if !permission.CanUpdateOrganization(sess, organizationOwnerID(view)) {
		return validation.PermissionDenied[organizationUpdateCommand](permission.ErrorMessage)
	}

	switch body.Tag {
	case updateTagProfile:
		fields := validateOrganizationFields(ctx, db, body.Value)
		if fields.IsInvalid() {
			return validation.InvalidRequest[organizationUpdateCommand](fields.Errors())
		}
		return validation.ValidRequest(organizationUpdateCommand{
			tag: updateTagProfile,
			id:  id,
			profile: store.UpdateOrganizationProfileParams{
				ID:                       id,
				CreateOrganizationParams: fields.Value(store.CreateOrganizationParams{}),
			},
		})
	case updateTagAcceptSWUTerms:
		if view.AcceptedSWUTerms != nil {
			return validation.InvalidRequest[organizationUpdateCommand](validation.ErrorMap{
				"acceptedSWUTerms": {"The SWU terms have already been accepted for this organization."},
			})
		}
		return validation.ValidRequest(organizationUpdateCommand{tag: updateTagAcceptSWUTerms, id: id})
	default:
		return validation.InvalidRequest[organizationUpdateCommand](validation.ErrorMap{
			"tag": {"The specified update action is not recognized."},
		})
	}
}

// UpdateOrganization applies one tagged update intent: a full profile
// replacement or a one-time SWU terms acceptance.
// @Router /api/organizations/{id} [put]
func UpdateOrganization() gin.HandlerFunc {
	pipeline := resource.Pipeline[UpdateOrganizationBody, organizationUpdateCommand, any]{
		Parse: func(c *gin.Context) UpdateOrganizationBody {
			var body UpdateOrganizationBody
			_ = c.ShouldBindJSON(&body)
			return body
		},
		Validate: func(ctx context.Context, sess auth.Session, id string, body UpdateOrganizationBody) validation.RequestValidation[organizationUpdateCommand] {
			return validateUpdateOrganization(ctx, sess, id, body)
		},
		Execute: func(ctx context.Context, sess auth.Session, cmd organizationUpdateCommand) (any, error) {
			required := config.GetConfig().GetRequiredCapabilities()
			switch cmd.tag {
			case updateTagAcceptSWUTerms:
				return store.AcceptOrganizationSWUTerms(ctx, database.GetDB(), cmd.id, sess, required)
			default:
				return store.UpdateOrganizationProfile(ctx, database.GetDB(), cmd.profile, sess, required)
			}
		},
		SuccessStatus: http.StatusOK,
	}
	return pipeline.Handler()
}

// DeleteOrganization deactivates an organization. The row survives with
// audit stamps; the response is the deactivated view.
// @Router /api/organizations/{id} [delete]
func DeleteOrganization() gin.HandlerFunc {
	pipeline := resource.Pipeline[struct{}, uuid.UUID, any]{
		Parse: func(*gin.Context) struct{} { return struct{}{} },
		Validate: func(ctx context.Context, sess auth.Session, rawID string, _ struct{}) validation.RequestValidation[uuid.UUID] {
			validatedID := validation.ValidateUUID(rawID)
			if validatedID.IsInvalid() {
				return validation.InvalidRequest[uuid.UUID](validation.ErrorMap{"id": validatedID.Errors()})
			}
			id := validatedID.Value(uuid.Nil)

			required := config.GetConfig().GetRequiredCapabilities()
			view, err := store.ReadOneOrganization(ctx, database.GetDB(), id, false, sess, required)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return validation.InvalidRequest[uuid.UUID](validation.ErrorMap{
						validation.KeyNotFound: []string{resource.NotFoundMessage},
					})
				}
				return validation.InvalidRequest[uuid.UUID](validation.ErrorMap{
					validation.KeyDatabase: []string{resource.DatabaseErrorMessage},
				})
			}

			if !permission.CanDeleteOrganization(sess, organizationOwnerID(view)) {
				return validation.PermissionDenied[uuid.UUID](permission.ErrorMessage)
			}
			return validation.ValidRequest(id)
		},
		Execute: func(ctx context.Context, sess auth.Session, id uuid.UUID) (any, error) {
			required := config.GetConfig().GetRequiredCapabilities()
			return store.DeactivateOrganization(ctx, database.GetDB(), id, sess.UserID(), sess, required)
		},
		SuccessStatus: http.StatusOK,
	}
	return pipeline.Handler()
}
