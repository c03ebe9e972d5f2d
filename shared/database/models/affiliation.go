package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	MembershipTypeOwner  = "OWNER"
	MembershipTypeMember = "MEMBER"
)

const (
	MembershipStatusActive   = "ACTIVE"
	MembershipStatusPending  = "PENDING"
	MembershipStatusInactive = "INACTIVE"
)

// Affiliation links a user to an organization. Every active organization has
// at least one active OWNER affiliation, created in the same transaction as
// the organization row.
type Affiliation struct {
	ID               uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID           uuid.UUID `json:"userId" gorm:"type:uuid;not null;index"`
	OrganizationID   uuid.UUID `json:"organizationId" gorm:"type:uuid;not null;index"`
	MembershipType   string    `json:"membershipType" gorm:"size:20;not null"`
	MembershipStatus string    `json:"membershipStatus" gorm:"size:20;not null"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`

	User User `json:"user" gorm:"foreignKey:UserID"`
}
