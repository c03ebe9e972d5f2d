package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"marketplace-backend/shared/database/models"
	"marketplace-backend/shared/utils/auth"
	"marketplace-backend/shared/utils/query"
)

// rawOrganization is the single-query shape combining the organization row
// with its owner id and active-member count. Loading the aggregate in the
// same query avoids read skew between the row and the count.
type rawOrganization struct {
	models.Organization `gorm:"embedded"`
	OwnerID             *uuid.UUID `gorm:"column:owner_id"`
	NumTeamMembers      int        `gorm:"column:num_team_members"`
}

// Sort keys are the camelCase names the JSON surface uses.
var organizationSortFields = map[string]string{
	"legalName": "organizations.legal_name",
	"createdAt": "organizations.created_at",
}

func organizationQuery(db *gorm.DB) *gorm.DB {
	return db.Table("organizations").
		Select(`organizations.*,
			owners.user_id AS owner_id,
			(SELECT COUNT(DISTINCT a.user_id)
			   FROM affiliations a
			  WHERE a.organization_id = organizations.id
			    AND a.membership_status <> ?) AS num_team_members`,
			models.MembershipStatusInactive).
		Joins(`JOIN affiliations owners
			ON owners.organization_id = organizations.id
			AND owners.membership_type = ?`, models.MembershipTypeOwner)
}

// isFullyVisible implements the visibility rule: ownership, membership and
// qualification data is shown only to admins and the organization's owner.
// Re-evaluated on every read because the session varies per request.
func isFullyVisible(sess auth.Session, ownerID *uuid.UUID) bool {
	if sess.IsAdmin() {
		return true
	}
	return ownerID != nil && sess.IsOwnAccount(*ownerID)
}

// PossessAllCapabilities reports whether an organization qualifies: at least
// two active members whose unioned capability tags cover the required set.
// Inactive and pending members contribute nothing.
func PossessAllCapabilities(affiliations []models.Affiliation, required []string) bool {
	union := make(map[string]bool)
	activeMembers := 0
	for _, a := range affiliations {
		if a.MembershipStatus != models.MembershipStatusActive {
			continue
		}
		activeMembers++
		for _, capability := range a.User.Capabilities {
			union[capability] = true
		}
	}
	if activeMembers < 2 {
		return false
	}
	for _, capability := range required {
		if !union[capability] {
			return false
		}
	}
	return true
}

// meetsAllCapabilities aggregates over a fresh affiliation read. A failed
// lookup conservatively disqualifies the organization rather than failing
// the read.
func meetsAllCapabilities(ctx context.Context, db *gorm.DB, organizationID uuid.UUID, required []string) bool {
	affiliations, err := ReadManyAffiliationsForOrganization(ctx, db, organizationID)
	if err != nil {
		return false
	}
	return PossessAllCapabilities(affiliations, required)
}

// resolveLogo loads the referenced logo file. A dangling reference fails the
// whole read: the reference was validated at write time, so a missing file
// is corrupted state, not a missing field.
func resolveLogo(ctx context.Context, db *gorm.DB, logoID *uuid.UUID) (*models.FileRecord, error) {
	if logoID == nil {
		return nil, nil
	}
	file, err := ReadOneFileByID(ctx, db, *logoID)
	if err != nil {
		return nil, errors.New("unable to process organization")
	}
	return file, nil
}

// resolveOwner loads the owner's slim projection. Owner is enrichment, not
// structural data, so resolution failures leave it absent instead of failing
// the read.
func resolveOwner(ctx context.Context, db *gorm.DB, ownerID *uuid.UUID) *models.UserSlim {
	if ownerID == nil {
		return nil
	}
	slim, err := ReadOneUserSlim(ctx, db, *ownerID)
	if err != nil {
		return nil
	}
	return slim
}

// ReadOneOrganization returns the full organization view, masked to the
// caller's visibility. Inactive organizations are indistinguishable from
// missing ones unless allowInactive is set.
func ReadOneOrganization(ctx context.Context, db *gorm.DB, id uuid.UUID, allowInactive bool, sess auth.Session, requiredCapabilities []string) (*models.OrganizationView, error) {
	dbQuery := organizationQuery(db.WithContext(ctx)).Where("organizations.id = ?", id)
	if !allowInactive {
		dbQuery = dbQuery.Where("organizations.active = ?", true)
	}

	var raw rawOrganization
	if err := dbQuery.Take(&raw).Error; err != nil {
		return nil, normalize(err)
	}

	// Deactivated rows remain visible to their owner and admins only.
	if !raw.Organization.Active && !isFullyVisible(sess, raw.OwnerID) {
		return nil, ErrNotFound
	}

	view := &models.OrganizationView{Organization: raw.Organization, OwnerID: raw.OwnerID}

	logo, err := resolveLogo(ctx, db, raw.Organization.LogoImageFile)
	if err != nil {
		return nil, err
	}
	view.LogoImageFile = logo
	view.Organization.LogoImageFile = nil

	if !isFullyVisible(sess, raw.OwnerID) {
		view.AcceptedSWUTerms = nil
		return view, nil
	}

	view.Owner = resolveOwner(ctx, db, raw.OwnerID)
	numTeamMembers := raw.NumTeamMembers
	view.NumTeamMembers = &numTeamMembers
	possess := meetsAllCapabilities(ctx, db, raw.Organization.ID, requiredCapabilities)
	view.PossessAllCapabilities = &possess

	return view, nil
}

// ReadManyOrganizations returns slim views for a page of organizations. Rows
// the caller does not own are reduced to the public-safe subset; owned and
// admin-visible rows carry ownership and qualification data, aggregated in
// one batched affiliation query for the page.
func ReadManyOrganizations(ctx context.Context, db *gorm.DB, sess auth.Session, params query.ListParams, requiredCapabilities []string) ([]models.OrganizationSlim, int64, error) {
	base := db.WithContext(ctx).Table("organizations").Where("organizations.active = ?", true)
	base = query.ApplySearch(base, params.Search, []string{"organizations.legal_name"})

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, normalize(err)
	}

	dbQuery := organizationQuery(db.WithContext(ctx)).Where("organizations.active = ?", true)
	dbQuery = query.ApplySearch(dbQuery, params.Search, []string{"organizations.legal_name"})
	dbQuery = query.ApplySort(dbQuery, params, organizationSortFields)
	dbQuery = query.ApplyPagination(dbQuery, params)

	var raws []rawOrganization
	if err := dbQuery.Find(&raws).Error; err != nil {
		return nil, 0, normalize(err)
	}

	// Batch the capability aggregate across the page's visible rows to keep
	// the per-row affiliation lookups out of list views.
	visible := make([]uuid.UUID, 0, len(raws))
	for _, raw := range raws {
		if isFullyVisible(sess, raw.OwnerID) {
			visible = append(visible, raw.Organization.ID)
		}
	}
	affiliationsByOrg := make(map[uuid.UUID][]models.Affiliation, len(visible))
	if len(visible) > 0 {
		var affiliations []models.Affiliation
		err := db.WithContext(ctx).
			Preload("User").
			Where("organization_id IN ?", visible).
			Find(&affiliations).Error
		if err == nil {
			for _, a := range affiliations {
				affiliationsByOrg[a.OrganizationID] = append(affiliationsByOrg[a.OrganizationID], a)
			}
		}
		// On error the map stays empty and every row fails the
		// qualification check, matching the fail-closed aggregate.
	}

	slims := make([]models.OrganizationSlim, 0, len(raws))
	for _, raw := range raws {
		slim := models.OrganizationSlim{
			ID:        raw.Organization.ID,
			LegalName: raw.Organization.LegalName,
		}
		logo, err := resolveLogo(ctx, db, raw.Organization.LogoImageFile)
		if err != nil {
			return nil, 0, err
		}
		slim.LogoImageFile = logo

		if isFullyVisible(sess, raw.OwnerID) {
			slim.Owner = resolveOwner(ctx, db, raw.OwnerID)
			numTeamMembers := raw.NumTeamMembers
			slim.NumTeamMembers = &numTeamMembers
			slim.AcceptedSWUTerms = raw.Organization.AcceptedSWUTerms
			possess := PossessAllCapabilities(affiliationsByOrg[raw.Organization.ID], requiredCapabilities)
			slim.PossessAllCapabilities = &possess
		}
		slims = append(slims, slim)
	}
	return slims, total, nil
}

// CreateOrganizationParams is the validated write command for creation.
type CreateOrganizationParams struct {
	LegalName      string
	LogoImageFile  *uuid.UUID
	WebsiteURL     string
	StreetAddress1 string
	StreetAddress2 string
	City           string
	Region         string
	MailCode       string
	Country        string
	ContactName    string
	ContactTitle   string
	ContactEmail   string
	ContactPhone   string
}

// CreateOrganization inserts the organization and its owner affiliation in
// one transaction; if either write fails neither persists. The result is
// re-read through ReadOneOrganization so the response obeys the same
// visibility rule as any other read.
func CreateOrganization(ctx context.Context, db *gorm.DB, ownerID uuid.UUID, params CreateOrganizationParams, sess auth.Session, requiredCapabilities []string) (*models.OrganizationView, error) {
	org := models.Organization{
		LegalName:      params.LegalName,
		LogoImageFile:  params.LogoImageFile,
		WebsiteURL:     params.WebsiteURL,
		StreetAddress1: params.StreetAddress1,
		StreetAddress2: params.StreetAddress2,
		City:           params.City,
		Region:         params.Region,
		MailCode:       params.MailCode,
		Country:        params.Country,
		ContactName:    params.ContactName,
		ContactTitle:   params.ContactTitle,
		ContactEmail:   params.ContactEmail,
		ContactPhone:   params.ContactPhone,
		Active:         true,
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&org).Error; err != nil {
			return err
		}
		_, err := CreateAffiliation(ctx, tx, ownerID, org.ID,
			models.MembershipTypeOwner, models.MembershipStatusActive)
		return err
	})
	if err != nil {
		return nil, normalize(err)
	}

	return ReadOneOrganization(ctx, db, org.ID, false, sess, requiredCapabilities)
}

// updateOrganizationColumns applies a partial update to a still-active row
// and re-reads the result with allowInactive so actors can see the outcome
// of their own deactivation.
func updateOrganizationColumns(ctx context.Context, db *gorm.DB, id uuid.UUID, columns map[string]interface{}, sess auth.Session, requiredCapabilities []string) (*models.OrganizationView, error) {
	result := db.WithContext(ctx).Model(&models.Organization{}).
		Where("id = ? AND active = ?", id, true).
		Updates(columns)
	if result.Error != nil {
		return nil, normalize(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return ReadOneOrganization(ctx, db, id, true, sess, requiredCapabilities)
}

// UpdateOrganizationProfileParams is the validated write command for a
// profile update. The id always references an existing organization; updates
// never create identities.
type UpdateOrganizationProfileParams struct {
	ID uuid.UUID
	CreateOrganizationParams
}

func UpdateOrganizationProfile(ctx context.Context, db *gorm.DB, params UpdateOrganizationProfileParams, sess auth.Session, requiredCapabilities []string) (*models.OrganizationView, error) {
	return updateOrganizationColumns(ctx, db, params.ID, map[string]interface{}{
		"legal_name":      params.LegalName,
		"logo_image_file": params.LogoImageFile,
		"website_url":     params.WebsiteURL,
		"street_address1": params.StreetAddress1,
		"street_address2": params.StreetAddress2,
		"city":            params.City,
		"region":          params.Region,
		"mail_code":       params.MailCode,
		"country":         params.Country,
		"contact_name":    params.ContactName,
		"contact_title":   params.ContactTitle,
		"contact_email":   params.ContactEmail,
		"contact_phone":   params.ContactPhone,
	}, sess, requiredCapabilities)
}

func AcceptOrganizationSWUTerms(ctx context.Context, db *gorm.DB, id uuid.UUID, sess auth.Session, requiredCapabilities []string) (*models.OrganizationView, error) {
	now := time.Now().UTC()
	return updateOrganizationColumns(ctx, db, id, map[string]interface{}{
		"accepted_swu_terms": now,
	}, sess, requiredCapabilities)
}

// DeactivateOrganization soft-deletes: the row survives with active=false
// and audit stamps recording when and by whom.
func DeactivateOrganization(ctx context.Context, db *gorm.DB, id uuid.UUID, deactivatedBy uuid.UUID, sess auth.Session, requiredCapabilities []string) (*models.OrganizationView, error) {
	now := time.Now().UTC()
	return updateOrganizationColumns(ctx, db, id, map[string]interface{}{
		"active":         false,
		"deactivated_on": now,
		"deactivated_by": deactivatedBy,
	}, sess, requiredCapabilities)
}
