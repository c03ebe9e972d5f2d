package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"marketplace-backend/shared/database/models"
)

// ReadOneFileByID returns file metadata by id.
func ReadOneFileByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*models.FileRecord, error) {
	var file models.FileRecord
	if err := db.WithContext(ctx).Take(&file, "id = ?", id).Error; err != nil {
		return nil, normalize(err)
	}
	return &file, nil
}

// CreateFileParams is the validated write command for a file record. The
// blob itself is stored content-addressed by the blob service before the
// record is written.
type CreateFileParams struct {
	Name        string
	FileBlob    string
	Permissions []string
	CreatedBy   uuid.UUID
}

func CreateFile(ctx context.Context, db *gorm.DB, params CreateFileParams) (*models.FileRecord, error) {
	createdBy := params.CreatedBy
	file := models.FileRecord{
		Name:        params.Name,
		FileBlob:    params.FileBlob,
		Permissions: params.Permissions,
		CreatedBy:   &createdBy,
	}
	if err := db.WithContext(ctx).Create(&file).Error; err != nil {
		return nil, normalize(err)
	}
	return &file, nil
}
