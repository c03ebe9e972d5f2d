package models

import (
	"time"

	"github.com/google/uuid"
)

// Organization is the stored row. NumTeamMembers and PossessAllCapabilities
// are derived per read and never persisted; the API-facing shapes live in
// OrganizationView and OrganizationSlim.
type Organization struct {
	ID               uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LegalName        string     `json:"legalName" gorm:"size:200;not null"`
	LogoImageFile    *uuid.UUID `json:"logoImageFile,omitempty" gorm:"type:uuid"`
	WebsiteURL       string     `json:"websiteUrl,omitempty" gorm:"size:500"`
	StreetAddress1   string     `json:"streetAddress1" gorm:"size:200"`
	StreetAddress2   string     `json:"streetAddress2,omitempty" gorm:"size:200"`
	City             string     `json:"city" gorm:"size:100"`
	Region           string     `json:"region" gorm:"size:100"`
	MailCode         string     `json:"mailCode" gorm:"size:20"`
	Country          string     `json:"country" gorm:"size:100"`
	ContactName      string     `json:"contactName" gorm:"size:100"`
	ContactTitle     string     `json:"contactTitle,omitempty" gorm:"size:100"`
	ContactEmail     string     `json:"contactEmail" gorm:"size:254"`
	ContactPhone     string     `json:"contactPhone,omitempty" gorm:"size:30"`
	Active           bool       `json:"active" gorm:"default:true"`
	AcceptedSWUTerms *time.Time `json:"acceptedSWUTerms,omitempty"`
	DeactivatedOn    *time.Time `json:"deactivatedOn,omitempty"`
	DeactivatedBy    *uuid.UUID `json:"deactivatedBy,omitempty" gorm:"type:uuid"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// OrganizationView is the full API shape returned to admins and owners.
// Owner, NumTeamMembers and PossessAllCapabilities are aggregated at read
// time; the logo reference is resolved to a full file record.
type OrganizationView struct {
	Organization
	LogoImageFile          *FileRecord `json:"logoImageFile,omitempty"`
	Owner                  *UserSlim   `json:"owner,omitempty"`
	NumTeamMembers         *int        `json:"numTeamMembers,omitempty"`
	PossessAllCapabilities *bool       `json:"possessAllCapabilities,omitempty"`

	// OwnerID is the raw owner reference from the affiliation join, kept off
	// the wire. Authorization reads it instead of Owner, which is absent on
	// masked views and on a failed slim-owner resolution.
	OwnerID *uuid.UUID `json:"-"`
}

// OrganizationSlim is the public-safe projection returned to anonymous
// callers and non-owner vendors. Ownership fields are only populated for
// admins and owners.
type OrganizationSlim struct {
	ID                     uuid.UUID   `json:"id"`
	LegalName              string      `json:"legalName"`
	LogoImageFile          *FileRecord `json:"logoImageFile,omitempty"`
	Owner                  *UserSlim   `json:"owner,omitempty"`
	AcceptedSWUTerms       *time.Time  `json:"acceptedSWUTerms,omitempty"`
	NumTeamMembers         *int        `json:"numTeamMembers,omitempty"`
	PossessAllCapabilities *bool       `json:"possessAllCapabilities,omitempty"`
}
