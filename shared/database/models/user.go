package models

import (
	"time"

	"github.com/google/uuid"
)

// User types. Vendors sign in through an external identity provider;
// government and admin users come from the public-sector provider.
const (
	UserTypeVendor     = "VENDOR"
	UserTypeGovernment = "GOV"
	UserTypeAdmin      = "ADMIN"
)

// User statuses. Users are never hard-deleted; deactivation records who
// performed it.
const (
	UserStatusActive          = "ACTIVE"
	UserStatusInactiveByUser  = "INACTIVE_USER"
	UserStatusInactiveByAdmin = "INACTIVE_ADMIN"
)

type User struct {
	ID              uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Type            string     `json:"type" gorm:"size:20;not null"`
	Status          string     `json:"status" gorm:"size:20;default:'ACTIVE'"`
	Name            string     `json:"name" gorm:"size:100;not null"`
	Email           string     `json:"email,omitempty" gorm:"size:254"`
	JobTitle        string     `json:"jobTitle,omitempty" gorm:"size:100"`
	AvatarImageFile *uuid.UUID `json:"avatarImageFile,omitempty" gorm:"type:uuid"`
	NotificationsOn bool       `json:"notificationsOn"`
	AcceptedTerms   bool       `json:"acceptedTerms"`
	IdpUsername     string     `json:"idpUsername" gorm:"size:100;uniqueIndex;not null"`
	Capabilities    StringList `json:"capabilities" gorm:"type:jsonb"`
	DeactivatedOn   *time.Time `json:"deactivatedOn,omitempty"`
	DeactivatedBy   *uuid.UUID `json:"deactivatedBy,omitempty" gorm:"type:uuid"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// UserSlim is the projection embedded in organization views. It never carries
// contact or consent data.
type UserSlim struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

func (u *User) Slim() UserSlim {
	return UserSlim{ID: u.ID, Name: u.Name}
}

func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

func (u *User) IsAdmin() bool {
	return u.Type == UserTypeAdmin
}

// IsPublicSector reports whether the user type comes from the public-sector
// identity provider.
func IsPublicSector(userType string) bool {
	return userType == UserTypeGovernment || userType == UserTypeAdmin
}

// ParseUserType returns the canonical user type constant or "".
func ParseUserType(raw string) string {
	switch raw {
	case UserTypeVendor, UserTypeGovernment, UserTypeAdmin:
		return raw
	default:
		return ""
	}
}

// ParseUserStatus returns the canonical user status constant or "".
func ParseUserStatus(raw string) string {
	switch raw {
	case UserStatusActive, UserStatusInactiveByUser, UserStatusInactiveByAdmin:
		return raw
	default:
		return ""
	}
}
