package models

import (
	"time"

	"github.com/google/uuid"
)

// File permission grants are stored as encoded strings: "PUBLIC",
// "USER_TYPE:<type>" or "USER:<id>". A file is readable when any grant
// matches the caller, or when the caller created it.
const (
	FilePermPublic   = "PUBLIC"
	FilePermUserType = "USER_TYPE"
	FilePermUser     = "USER"
)

func FilePermissionForUserType(userType string) string {
	return FilePermUserType + ":" + userType
}

func FilePermissionForUser(id uuid.UUID) string {
	return FilePermUser + ":" + id.String()
}

// FileRecord is content-addressed file metadata. The binary content lives in
// the blob store under FileBlob (a SHA-1 of the content), so identical
// uploads share one blob.
type FileRecord struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string     `json:"name" gorm:"size:255;not null"`
	FileBlob    string     `json:"fileBlob" gorm:"size:64;not null;index"`
	Permissions StringList `json:"-" gorm:"type:jsonb"`
	CreatedBy   *uuid.UUID `json:"createdBy,omitempty" gorm:"type:uuid"`
	CreatedAt   time.Time  `json:"createdAt"`
}
