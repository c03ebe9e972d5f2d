package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"marketplace-backend/shared/database/models"
)

// CreateAffiliation inserts a membership record. Callers that need atomicity
// with other writes pass the transaction handle.
func CreateAffiliation(ctx context.Context, db *gorm.DB, userID, organizationID uuid.UUID, membershipType, membershipStatus string) (*models.Affiliation, error) {
	affiliation := models.Affiliation{
		UserID:           userID,
		OrganizationID:   organizationID,
		MembershipType:   membershipType,
		MembershipStatus: membershipStatus,
	}
	if err := db.WithContext(ctx).Create(&affiliation).Error; err != nil {
		return nil, normalize(err)
	}
	return &affiliation, nil
}

// ReadManyAffiliationsForOrganization returns all memberships of an
// organization with their users loaded, for capability aggregation.
func ReadManyAffiliationsForOrganization(ctx context.Context, db *gorm.DB, organizationID uuid.UUID) ([]models.Affiliation, error) {
	var affiliations []models.Affiliation
	err := db.WithContext(ctx).
		Preload("User").
		Where("organization_id = ?", organizationID).
		Find(&affiliations).Error
	if err != nil {
		return nil, normalize(err)
	}
	return affiliations, nil
}
