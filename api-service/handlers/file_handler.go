package handlers

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"marketplace-backend/api-service/middleware"
	"marketplace-backend/api-service/resource"
	"marketplace-backend/api-service/services"
	"marketplace-backend/api-service/store"
	"marketplace-backend/shared/config"
	"marketplace-backend/shared/database"
	"marketplace-backend/shared/database/models"
	"marketplace-backend/shared/utils/auth"
	"marketplace-backend/shared/utils/permission"
	"marketplace-backend/shared/validation"
)

var blobService *services.BlobService

// InitFileHandler wires the blob store used by the file endpoints.
func InitFileHandler(b *services.BlobService) {
	blobService = b
}

// fileUploadBody is the loose candidate parsed from a multipart upload.
// Parse never fails; missing or oversized parts are recorded and rejected in
// validation.
type fileUploadBody struct {
	name        string
	data        []byte
	permissions []string
	hasFile     bool
	tooLarge    bool
	unreadable  bool
}

// createFileCommand is the validated upload.
type createFileCommand struct {
	name        string
	data        []byte
	permissions []string
}

func parseFileUpload(c *gin.Context) fileUploadBody {
	body := fileUploadBody{
		name:        c.PostForm("name"),
		permissions: c.PostFormArray("permissions"),
	}

	header, err := c.FormFile("file")
	if err != nil {
		return body
	}
	body.hasFile = true
	if body.name == "" {
		body.name = header.Filename
	}
	if header.Size > config.GetConfig().GetFileMaxUploadBytes() {
		body.tooLarge = true
		return body
	}

	part, err := header.Open()
	if err != nil {
		body.unreadable = true
		return body
	}
	defer part.Close()
	data, err := io.ReadAll(part)
	if err != nil {
		body.unreadable = true
		return body
	}
	body.data = data
	return body
}

// validateFilePermission checks one encoded permission grant.
func validateFilePermission(raw string) validation.Validation[string] {
	if raw == models.FilePermPublic {
		return validation.Valid(raw)
	}
	if kind, rest, ok := strings.Cut(raw, ":"); ok {
		switch kind {
		case models.FilePermUserType:
			if models.ParseUserType(rest) != "" {
				return validation.Valid(raw)
			}
		case models.FilePermUser:
			if _, err := uuid.Parse(rest); err == nil {
				return validation.Valid(raw)
			}
		}
	}
	return validation.Invalid[string](fmt.Sprintf("%q is not a valid file permission.", raw))
}

func validateFileUpload(body fileUploadBody) validation.RequestValidation[createFileCommand] {
	errs := validation.ErrorMap{}
	switch {
	case !body.hasFile:
		errs.Add("file", "A file to upload is required.")
	case body.tooLarge:
		errs.Add("file", fmt.Sprintf("Files larger than %d bytes cannot be uploaded.",
			config.GetConfig().GetFileMaxUploadBytes()))
	case body.unreadable:
		errs.Add("file", "The uploaded file could not be read.")
	}

	validatedName := validation.ValidateFileName(body.name, config.GetConfig().GetFileAllowedTypes())
	errs.Add("name", validatedName.Errors()...)

	validatedPermissions := validation.ValidateArray(body.permissions, validateFilePermission)
	if !validatedPermissions.IsValid() {
		for _, itemErrs := range validatedPermissions.ErrorLists() {
			errs.Add("metadata", itemErrs...)
		}
	}

	if errs.HasErrors() {
		return validation.InvalidRequest[createFileCommand](errs)
	}
	return validation.ValidRequest(createFileCommand{
		name:        validatedName.Value(""),
		data:        body.data,
		permissions: validatedPermissions.Values(nil),
	})
}

// CreateFile uploads a file: the content goes to the blob store addressed by
// its SHA-1, then a metadata row records the name and permission grants.
// @Router /api/files [post]
func CreateFile() gin.HandlerFunc {
	pipeline := resource.Pipeline[fileUploadBody, createFileCommand, any]{
		Parse: parseFileUpload,
		Validate: func(ctx context.Context, sess auth.Session, _ string, body fileUploadBody) validation.RequestValidation[createFileCommand] {
			if !permission.CanCreateFile(sess) {
				return validation.PermissionDenied[createFileCommand](permission.ErrorMessage)
			}
			return validateFileUpload(body)
		},
		Execute: func(ctx context.Context, sess auth.Session, cmd createFileCommand) (any, error) {
			hash, err := blobService.PutBlob(ctx, cmd.data)
			if err != nil {
				return nil, err
			}
			return store.CreateFile(ctx, database.GetDB(), store.CreateFileParams{
				Name:        cmd.name,
				FileBlob:    hash,
				Permissions: cmd.permissions,
				CreatedBy:   sess.UserID(),
			})
		},
		SuccessStatus: http.StatusCreated,
	}
	return pipeline.Handler()
}

// GetFile reads file metadata, or the content itself with ?type=blob. Reads
// are gated by the record's permission grants.
// @Router /api/files/{id} [get]
func GetFile(c *gin.Context) {
	sess := middleware.SessionFromContext(c)

	validatedID := validation.ValidateUUID(c.Param("id"))
	if validatedID.IsInvalid() {
		resource.RespondValidationErrors(c, validation.ErrorMap{"id": validatedID.Errors()})
		return
	}

	record, err := store.ReadOneFileByID(c.Request.Context(), database.GetDB(), validatedID.Value(uuid.Nil))
	if err != nil {
		resource.RespondStorageError(c, err)
		return
	}
	if !permission.CanReadFile(sess, record) {
		resource.RespondPermissionDenied(c, permission.ErrorMessage)
		return
	}

	if c.Query("type") != "blob" {
		c.JSON(http.StatusOK, record)
		return
	}

	data, err := blobService.GetBlob(c.Request.Context(), record.FileBlob)
	if err != nil {
		resource.RespondStorageError(c, err)
		return
	}
	contentType := mime.TypeByExtension(filepath.Ext(record.Name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", record.Name))
	c.Data(http.StatusOK, contentType, data)
}
