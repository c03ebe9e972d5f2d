package validation

// Field validators for the organization profile. All are pure; the logo file
// reference is checked against storage by the handler because it needs a
// round trip.

func ValidateLegalName(raw string) Validation[string] {
	return ValidateGenericString(raw, "Legal name", 1, 200)
}

func ValidateWebsiteURL(raw string) Validation[string] {
	return Optional(raw, ValidateURL)
}

func ValidateStreetAddress1(raw string) Validation[string] {
	return ValidateGenericString(raw, "Street address", 1, 200)
}

func ValidateStreetAddress2(raw string) Validation[string] {
	return Optional(raw, func(v string) Validation[string] {
		return ValidateGenericString(v, "Street address", 1, 200)
	})
}

func ValidateCity(raw string) Validation[string] {
	return ValidateGenericString(raw, "City", 1, 100)
}

func ValidateRegion(raw string) Validation[string] {
	return ValidateGenericString(raw, "Province/state", 1, 100)
}

func ValidateMailCode(raw string) Validation[string] {
	return ValidateGenericString(raw, "Postal/zip code", 1, 20)
}

func ValidateCountry(raw string) Validation[string] {
	return ValidateGenericString(raw, "Country", 1, 100)
}

func ValidateContactName(raw string) Validation[string] {
	return ValidateGenericString(raw, "Contact name", 1, 100)
}

func ValidateContactTitle(raw string) Validation[string] {
	return Optional(raw, func(v string) Validation[string] {
		return ValidateGenericString(v, "Contact title", 1, 100)
	})
}

func ValidateContactEmail(raw string) Validation[string] {
	return ValidateEmail(raw)
}

func ValidateContactPhone(raw string) Validation[string] {
	return Optional(raw, ValidatePhoneNumber)
}
