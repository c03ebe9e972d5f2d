package validation

import "marketplace-backend/shared/database/models"

// Field validators for user profile updates.

func ValidateName(raw string) Validation[string] {
	return ValidateGenericString(raw, "Name", 1, 100)
}

func ValidateJobTitle(raw string) Validation[string] {
	return Optional(raw, func(v string) Validation[string] {
		return ValidateGenericString(v, "Job title", 1, 100)
	})
}

func ValidateUserType(raw string) Validation[string] {
	return ValidateStringInArray(raw,
		[]string{models.UserTypeVendor, models.UserTypeGovernment, models.UserTypeAdmin},
		"user type", "a")
}

func ValidateUserStatus(raw string) Validation[string] {
	return ValidateStringInArray(raw,
		[]string{models.UserStatusActive, models.UserStatusInactiveByUser, models.UserStatusInactiveByAdmin},
		"user status", "a")
}
