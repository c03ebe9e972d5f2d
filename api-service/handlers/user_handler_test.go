package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"marketplace-backend/api-service/store"
	"marketplace-backend/shared/database/models"
)

func activeUser(userType string) *models.User {
	return &models.User{
		ID:     uuid.New(),
		Type:   userType,
		Status: models.UserStatusActive,
		Name:   "Test User",
		Email:  "test@example.com",
	}
}

func TestAdminUserUpdateReactivation(t *testing.T) {
	target := activeUser(models.UserTypeVendor)
	result := validateAdminUserUpdate(target, UpdateUserBody{Status: models.UserStatusActive})
	if !result.IsValid() {
		t.Fatalf("reactivation rejected: %v", result.Errors())
	}
	params := result.Value(store.UpdateUserParams{})
	if params.Status == nil || *params.Status != models.UserStatusActive {
		t.Fatalf("expected status ACTIVE, got %+v", params.Status)
	}
	if params.Name != nil || params.Type != nil {
		t.Fatal("reactivation must not touch other columns")
	}
}

func TestAdminUserUpdateRejectsDeactivationStatus(t *testing.T) {
	target := activeUser(models.UserTypeGovernment)
	result := validateAdminUserUpdate(target, UpdateUserBody{Status: models.UserStatusInactiveByAdmin})
	if result.IsValid() {
		t.Fatal("expected a field error for a non-reactivation status")
	}
	if len(result.Errors()["status"]) == 0 {
		t.Fatalf("expected errors under status, got %v", result.Errors())
	}
}

func TestAdminUserUpdateTypeChange(t *testing.T) {
	target := activeUser(models.UserTypeGovernment)
	result := validateAdminUserUpdate(target, UpdateUserBody{Type: models.UserTypeAdmin})
	if !result.IsValid() {
		t.Fatalf("GOV to ADMIN change rejected: %v", result.Errors())
	}
	params := result.Value(store.UpdateUserParams{})
	if params.Type == nil || *params.Type != models.UserTypeAdmin {
		t.Fatalf("expected type ADMIN, got %+v", params.Type)
	}
}

func TestAdminUserUpdateNeverTouchesVendorType(t *testing.T) {
	target := activeUser(models.UserTypeVendor)
	result := validateAdminUserUpdate(target, UpdateUserBody{Type: models.UserTypeGovernment})
	if !result.Errors().HasPermissionErrors() {
		t.Fatalf("expected a permission error, got %v", result.Errors())
	}

	target = activeUser(models.UserTypeGovernment)
	result = validateAdminUserUpdate(target, UpdateUserBody{Type: models.UserTypeVendor})
	if !result.Errors().HasPermissionErrors() {
		t.Fatalf("expected a permission error for a change to VENDOR, got %v", result.Errors())
	}
}

func TestProfileUserUpdateAcceptsPartialBody(t *testing.T) {
	off := false
	target := activeUser(models.UserTypeVendor)
	result := validateProfileUserUpdate(context.Background(), target, UpdateUserBody{NotificationsOn: &off})
	if !result.IsValid() {
		t.Fatalf("partial update rejected: %v", result.Errors())
	}
	params := result.Value(store.UpdateUserParams{})
	if params.Name != nil || params.Email != nil || params.JobTitle != nil || params.AvatarImageFile != nil {
		t.Fatalf("absent fields must stay untouched: %+v", params)
	}
	if params.NotificationsOn == nil || *params.NotificationsOn {
		t.Fatalf("expected notificationsOn false, got %+v", params.NotificationsOn)
	}
}

func TestProfileUserUpdateValidatesPresentFields(t *testing.T) {
	target := activeUser(models.UserTypeVendor)
	result := validateProfileUserUpdate(context.Background(), target, UpdateUserBody{Email: "not-an-email"})
	if result.IsValid() {
		t.Fatal("expected rejection of a malformed email")
	}
	errs := result.Errors()
	if len(errs["email"]) == 0 {
		t.Fatalf("expected errors under email, got %v", errs)
	}
	if len(errs["name"]) != 0 {
		t.Fatalf("absent name must not be validated, got %v", errs)
	}
}

func TestAvatarReferenceMustBeImage(t *testing.T) {
	pdf := &models.FileRecord{ID: uuid.New(), Name: "resume.pdf"}
	if validateImageRecord(pdf).IsValid() {
		t.Fatal("non-image file accepted as an avatar")
	}

	png := &models.FileRecord{ID: uuid.New(), Name: "portrait.png"}
	result := validateImageRecord(png)
	if result.IsInvalid() {
		t.Fatalf("image file rejected: %v", result.Errors())
	}
	if id := result.Value(nil); id == nil || *id != png.ID {
		t.Fatalf("expected the record id back, got %v", id)
	}
}

func TestAdminUserUpdateRejectsUnknownType(t *testing.T) {
	target := activeUser(models.UserTypeGovernment)
	result := validateAdminUserUpdate(target, UpdateUserBody{Type: "WIZARD"})
	if result.IsValid() {
		t.Fatal("expected rejection of an unknown user type")
	}
	if len(result.Errors()["type"]) == 0 {
		t.Fatalf("expected errors under type, got %v", result.Errors())
	}
}

func TestAdminUserUpdateCanonicalizesType(t *testing.T) {
	target := activeUser(models.UserTypeGovernment)
	result := validateAdminUserUpdate(target, UpdateUserBody{Type: "admin"})
	if !result.IsValid() {
		t.Fatalf("lowercase type rejected: %v", result.Errors())
	}
	params := result.Value(store.UpdateUserParams{})
	if params.Type == nil || *params.Type != models.UserTypeAdmin {
		t.Fatalf("expected canonical ADMIN, got %+v", params.Type)
	}
}

func TestDeleteUserRejectsAnonymous(t *testing.T) {
	recorder := performJSON(t, nil, http.MethodDelete,
		"/resources/"+uuid.NewString(), DeleteUser(), "")
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", recorder.Code)
	}
}

func TestUpdateUserRejectsOtherAccount(t *testing.T) {
	recorder := performJSON(t, activeUser(models.UserTypeVendor), http.MethodPut,
		"/resources/"+uuid.NewString(), UpdateUser(), `{"name":"New Name"}`)
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", recorder.Code)
	}
	if !decodeErrors(t, recorder).HasPermissionErrors() {
		t.Fatal("expected a permissions error body")
	}
}

func TestAdminUserUpdateRejectsMixedOperations(t *testing.T) {
	target := activeUser(models.UserTypeGovernment)
	result := validateAdminUserUpdate(target, UpdateUserBody{
		Status: models.UserStatusActive,
		Name:   "New Name",
	})
	if !result.Errors().HasPermissionErrors() {
		t.Fatalf("expected a permission error for a mixed update, got %v", result.Errors())
	}
}
