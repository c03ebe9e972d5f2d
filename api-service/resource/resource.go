package resource

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace-backend/api-service/middleware"
	"marketplace-backend/api-service/store"
	"marketplace-backend/shared/utils/auth"
	"marketplace-backend/shared/validation"
)

// DatabaseErrorMessage is the only storage detail a caller ever sees.
const DatabaseErrorMessage = "A database error occurred. Please try again later."

// NotFoundMessage is shared by missing and invisible targets so that
// existence of private records cannot be probed.
const NotFoundMessage = "The requested resource was not found."

// Pipeline is the three-stage contract every mutating resource operation
// implements: a total parse, a combined authorize-and-validate judgment, and
// exactly one data access call on success. The respond stage is fixed here so
// the status mapping is uniform across resources.
type Pipeline[P, V, R any] struct {
	// Parse coerces the raw request into a loose candidate record. It never
	// fails; unknown or missing fields become zero values and rejection is
	// validate's job.
	Parse func(c *gin.Context) P
	// Validate authorizes the session and validates the candidate, yielding
	// a fully-typed write command or the per-field error map. id is the raw
	// path parameter, empty for collection-level operations.
	Validate func(ctx context.Context, sess auth.Session, id string, body P) validation.RequestValidation[V]
	// Execute performs exactly one data access operation for the validated
	// command.
	Execute func(ctx context.Context, sess auth.Session, cmd V) (R, error)
	// SuccessStatus is the status for successful execution (200 or 201).
	SuccessStatus int
}

// Handler drives a request through parse, validate and respond. Exactly one
// response is written per request.
func (p Pipeline[P, V, R]) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := middleware.SessionFromContext(c)
		body := p.Parse(c)
		result := p.Validate(c.Request.Context(), sess, c.Param("id"), body)
		if result.IsInvalid() {
			RespondValidationErrors(c, result.Errors())
			return
		}
		var empty V
		value, err := p.Execute(c.Request.Context(), sess, result.Value(empty))
		if err != nil {
			RespondStorageError(c, err)
			return
		}
		c.JSON(p.SuccessStatus, value)
	}
}

// RespondValidationErrors renders an error map: permission denials as 401,
// missing targets discovered during validation as 404, storage failures as
// 503, everything else as 400, echoing the map verbatim so clients can
// render field-level feedback.
func RespondValidationErrors(c *gin.Context, errs validation.ErrorMap) {
	if errs.HasPermissionErrors() {
		c.JSON(http.StatusUnauthorized, errs)
		return
	}
	if _, ok := errs[validation.KeyNotFound]; ok {
		c.JSON(http.StatusNotFound, errs)
		return
	}
	if _, ok := errs[validation.KeyDatabase]; ok {
		c.JSON(http.StatusServiceUnavailable, errs)
		return
	}
	c.JSON(http.StatusBadRequest, errs)
}

// RespondStorageError normalizes data access failures: missing or invisible
// targets become 404, anything else a generic 503 body with no internal
// detail.
func RespondStorageError(c *gin.Context, err error) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, validation.ErrorMap{
			validation.KeyNotFound: []string{NotFoundMessage},
		})
		return
	}
	c.JSON(http.StatusServiceUnavailable, validation.ErrorMap{
		validation.KeyDatabase: []string{DatabaseErrorMessage},
	})
}

// RespondPermissionDenied renders the fixed 401 body for read paths that
// check permissions outside a pipeline.
func RespondPermissionDenied(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, validation.ErrorMap{
		validation.KeyPermissions: []string{message},
	})
}
