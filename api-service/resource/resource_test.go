package resource

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"marketplace-backend/api-service/store"
	"marketplace-backend/shared/utils/auth"
	"marketplace-backend/shared/validation"
)

type fakeBody struct {
	Value string `json:"value"`
}

func newPipeline(validate func(string) validation.RequestValidation[string], execute func(string) (fakeBody, error)) Pipeline[string, string, fakeBody] {
	return Pipeline[string, string, fakeBody]{
		Parse: func(c *gin.Context) string {
			var body fakeBody
			_ = c.ShouldBindJSON(&body)
			return body.Value
		},
		Validate: func(_ context.Context, _ auth.Session, _ string, body string) validation.RequestValidation[string] {
			return validate(body)
		},
		Execute: func(_ context.Context, _ auth.Session, cmd string) (fakeBody, error) {
			return execute(cmd)
		},
		SuccessStatus: http.StatusCreated,
	}
}

func perform(t *testing.T, p Pipeline[string, string, fakeBody], payload string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/things", p.Handler())

	req := httptest.NewRequest(http.MethodPost, "/things", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestPipelineSuccess(t *testing.T) {
	p := newPipeline(
		func(body string) validation.RequestValidation[string] { return validation.ValidRequest(body) },
		func(cmd string) (fakeBody, error) { return fakeBody{Value: cmd}, nil },
	)
	recorder := perform(t, p, `{"value":"hello"}`)
	if recorder.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", recorder.Code)
	}
	var body fakeBody
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil || body.Value != "hello" {
		t.Errorf("body = %s", recorder.Body.String())
	}
}

func TestPipelineFieldErrorsEchoedAs400(t *testing.T) {
	executed := false
	p := newPipeline(
		func(string) validation.RequestValidation[string] {
			return validation.InvalidRequest[string](validation.ErrorMap{
				"legalName": []string{"Legal name must be between 1 and 200 characters long."},
				"city":      []string{"City must be between 1 and 100 characters long."},
			})
		},
		func(cmd string) (fakeBody, error) { executed = true; return fakeBody{}, nil },
	)
	recorder := perform(t, p, `{}`)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", recorder.Code)
	}
	if executed {
		t.Errorf("execute must not run for invalid requests")
	}
	var errs map[string][]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &errs); err != nil {
		t.Fatalf("body not an error map: %s", recorder.Body.String())
	}
	if len(errs["legalName"]) != 1 || len(errs["city"]) != 1 {
		t.Errorf("error map not echoed verbatim: %v", errs)
	}
}

func TestPipelinePermissionErrorsAre401(t *testing.T) {
	p := newPipeline(
		func(string) validation.RequestValidation[string] {
			return validation.PermissionDenied[string]("You do not have permission to perform this action.")
		},
		func(cmd string) (fakeBody, error) { t.Fatal("execute must not run"); return fakeBody{}, nil },
	)
	recorder := perform(t, p, `{}`)
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), "permissions") {
		t.Errorf("401 body should carry the permissions key: %s", recorder.Body.String())
	}
}

func TestPipelineNotFoundIs404(t *testing.T) {
	p := newPipeline(
		func(body string) validation.RequestValidation[string] { return validation.ValidRequest(body) },
		func(string) (fakeBody, error) { return fakeBody{}, store.ErrNotFound },
	)
	recorder := perform(t, p, `{"value":"x"}`)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", recorder.Code)
	}
}

func TestPipelineStorageFailureIsGeneric503(t *testing.T) {
	p := newPipeline(
		func(body string) validation.RequestValidation[string] { return validation.ValidRequest(body) },
		func(string) (fakeBody, error) {
			return fakeBody{}, errors.New("pq: connection refused on 10.0.0.3:5432")
		},
	)
	recorder := perform(t, p, `{"value":"x"}`)
	if recorder.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", recorder.Code)
	}
	if strings.Contains(recorder.Body.String(), "10.0.0.3") {
		t.Errorf("storage diagnostics leaked to caller: %s", recorder.Body.String())
	}
	if !strings.Contains(recorder.Body.String(), DatabaseErrorMessage) {
		t.Errorf("expected generic database error body, got %s", recorder.Body.String())
	}
}

func TestPipelineParseIsTotal(t *testing.T) {
	p := newPipeline(
		func(body string) validation.RequestValidation[string] {
			if body == "" {
				return validation.InvalidRequest[string](validation.ErrorMap{
					"value": []string{"Value is required."},
				})
			}
			return validation.ValidRequest(body)
		},
		func(cmd string) (fakeBody, error) { return fakeBody{Value: cmd}, nil },
	)
	// Malformed JSON never aborts the pipeline; absence surfaces as a field
	// error from validate.
	recorder := perform(t, p, `{not json`)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", recorder.Code)
	}
}

func TestPipelineValidateNotFoundIs404(t *testing.T) {
	p := newPipeline(
		func(string) validation.RequestValidation[string] {
			return validation.InvalidRequest[string](validation.ErrorMap{
				validation.KeyNotFound: []string{NotFoundMessage},
			})
		},
		func(cmd string) (fakeBody, error) { t.Fatal("execute must not run"); return fakeBody{}, nil },
	)
	recorder := perform(t, p, `{"value":"x"}`)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", recorder.Code)
	}
}

func TestPipelineValidateStorageFailureIs503(t *testing.T) {
	p := newPipeline(
		func(string) validation.RequestValidation[string] {
			return validation.InvalidRequest[string](validation.ErrorMap{
				validation.KeyDatabase: []string{DatabaseErrorMessage},
			})
		},
		func(cmd string) (fakeBody, error) { t.Fatal("execute must not run"); return fakeBody{}, nil },
	)
	recorder := perform(t, p, `{"value":"x"}`)
	if recorder.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", recorder.Code)
	}
}
