package validation

import (
	"strings"
	"testing"
	"time"
)

func TestValidateEmailIdempotent(t *testing.T) {
	first := ValidateEmail("Someone@Example.COM ")
	if first.IsInvalid() {
		t.Fatalf("expected valid email, got %v", first.Errors())
	}
	normalized := first.Value("")
	if normalized != "someone@example.com" {
		t.Fatalf("normalized = %q", normalized)
	}
	// Re-validating the normalized value must not drift.
	second := ValidateEmail(normalized)
	if second.Value("") != normalized {
		t.Errorf("re-validation changed value: %q", second.Value(""))
	}
}

func TestValidateEmailRejectsMalformed(t *testing.T) {
	for _, raw := range []string{"", "nope", "a@b", "white space@example.com"} {
		if ValidateEmail(raw).IsValid() {
			t.Errorf("ValidateEmail(%q) should be invalid", raw)
		}
	}
}

func TestValidateGenericString(t *testing.T) {
	if ValidateGenericString("", "Name", 1, 10).IsValid() {
		t.Errorf("empty string below min should be invalid")
	}
	if ValidateGenericString(strings.Repeat("x", 11), "Name", 1, 10).IsValid() {
		t.Errorf("string above max should be invalid")
	}
	if got := ValidateGenericString("fine", "Name", 1, 10); got.Value("") != "fine" {
		t.Errorf("valid string should round-trip, got %q", got.Value(""))
	}
}

func TestValidateStringInArray(t *testing.T) {
	available := []string{"VENDOR", "GOV", "ADMIN"}
	if got := ValidateStringInArray("gov", available, "user type", "a"); got.Value("") != "GOV" {
		t.Errorf("membership check should be case-insensitive and canonicalize, got %q", got.Value(""))
	}
	if ValidateStringInArray("", available, "user type", "a").IsValid() {
		t.Errorf("empty value should be invalid")
	}
	if ValidateStringInArray("PIRATE", available, "user type", "a").IsValid() {
		t.Errorf("unknown value should be invalid")
	}
}

func TestValidateURLAndPhone(t *testing.T) {
	if ValidateURL("https://example.com/path?a=1").IsInvalid() {
		t.Errorf("expected valid URL")
	}
	if ValidateURL("not a url").IsValid() {
		t.Errorf("expected invalid URL")
	}
	if ValidatePhoneNumber("(250) 555-0199").IsInvalid() {
		t.Errorf("expected valid phone")
	}
	if ValidatePhoneNumber("call me").IsValid() {
		t.Errorf("expected invalid phone")
	}
}

func TestValidateDateBounds(t *testing.T) {
	min := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	max := time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC)

	if ValidateDate("not-a-date", nil, nil).IsValid() {
		t.Errorf("garbage date should be invalid")
	}
	if got := ValidateDate("2020-06-15", &min, &max); got.IsInvalid() {
		t.Errorf("in-bounds date rejected: %v", got.Errors())
	}
	// Violating both bounds is impossible, but each side reports alone.
	if ValidateDate("2019-06-15", &min, &max).IsValid() {
		t.Errorf("date before min should be invalid")
	}
	if ValidateDate("2021-06-15", &min, &max).IsValid() {
		t.Errorf("date after max should be invalid")
	}
}

func TestValidateUUID(t *testing.T) {
	if ValidateUUID("5a81f8b8-0afd-46f3-b9f7-5f7a4e5dbcf1").IsInvalid() {
		t.Errorf("expected valid uuid")
	}
	if ValidateUUID("nope").IsValid() {
		t.Errorf("expected invalid uuid")
	}
}

func TestOrganizationFieldValidators(t *testing.T) {
	if ValidateLegalName("").IsValid() {
		t.Errorf("legal name is required")
	}
	if ValidateWebsiteURL("").IsInvalid() {
		t.Errorf("website url is optional")
	}
	if ValidateContactPhone("").IsInvalid() {
		t.Errorf("contact phone is optional")
	}
	if ValidateContactEmail("procurement@acme.co").IsInvalid() {
		t.Errorf("expected valid contact email")
	}
}

func TestFileNameValidator(t *testing.T) {
	allowed := []string{".pdf", ".png"}
	if ValidateFileName("logo.png", allowed).IsInvalid() {
		t.Errorf("allowed extension rejected")
	}
	if ValidateFileName("script.exe", allowed).IsValid() {
		t.Errorf("disallowed extension accepted")
	}
	if ValidateFileName("noextension", allowed).IsValid() {
		t.Errorf("missing extension accepted")
	}
}
