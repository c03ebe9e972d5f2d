package validation

import (
	"context"
	"reflect"
	"strings"
	"testing"
)

func TestValidInvalidProjections(t *testing.T) {
	v := Valid(42)
	if !v.IsValid() || v.IsInvalid() {
		t.Fatalf("Valid(42) should be valid")
	}
	if got := v.Value(-1); got != 42 {
		t.Errorf("Value() = %d, want 42", got)
	}
	if v.Errors() != nil {
		t.Errorf("Errors() on valid should be nil, got %v", v.Errors())
	}

	iv := Invalid[int]("boom")
	if iv.IsValid() || !iv.IsInvalid() {
		t.Fatalf("Invalid should be invalid")
	}
	if got := iv.Value(-1); got != -1 {
		t.Errorf("Value() fallback = %d, want -1", got)
	}
	if got := iv.Errors(); len(got) != 1 || got[0] != "boom" {
		t.Errorf("Errors() = %v, want [boom]", got)
	}
}

func TestMapValidAndMapInvalid(t *testing.T) {
	doubled := MapValid(Valid(3), func(n int) int { return n * 2 })
	if got := doubled.Value(0); got != 6 {
		t.Errorf("MapValid over valid = %d, want 6", got)
	}

	passthrough := MapValid(Invalid[int]("bad"), func(n int) int { return n * 2 })
	if !passthrough.IsInvalid() || passthrough.Errors()[0] != "bad" {
		t.Errorf("MapValid over invalid should pass errors through, got %v", passthrough.Errors())
	}

	upper := MapInvalid(Invalid[int]("bad"), func(errs []string) []string {
		out := make([]string, len(errs))
		for i, e := range errs {
			out[i] = strings.ToUpper(e)
		}
		return out
	})
	if got := upper.Errors(); got[0] != "BAD" {
		t.Errorf("MapInvalid = %v, want [BAD]", got)
	}

	identity := MapInvalid(Valid(7), func(errs []string) []string { return append(errs, "x") })
	if identity.IsInvalid() || identity.Value(0) != 7 {
		t.Errorf("MapInvalid over valid should be identity")
	}
}

func TestAllValidInspectsEveryElement(t *testing.T) {
	if !AllValid(Valid(1), Valid("a"), Valid(true)) {
		t.Errorf("all valid inputs should judge valid")
	}
	if AllValid(Valid(1), Invalid[string]("no"), Valid(true)) {
		t.Errorf("one invalid input should judge invalid")
	}
	if AllValid() != true {
		t.Errorf("empty input should judge valid")
	}
}

func TestValidateArrayAccumulates(t *testing.T) {
	// 2 of 5 items invalid: expect 5 positional entries, 2 non-empty.
	items := []int{1, -2, 3, -4, 5}
	result := ValidateArray(items, func(n int) Validation[int] {
		if n < 0 {
			return Invalid[int]("must be positive")
		}
		return Valid(n)
	})
	if result.IsValid() {
		t.Fatalf("expected invalid result")
	}
	errs := result.ErrorLists()
	if len(errs) != len(items) {
		t.Fatalf("expected %d positional error entries, got %d", len(items), len(errs))
	}
	nonEmpty := 0
	for _, e := range errs {
		if len(e) > 0 {
			nonEmpty++
		}
	}
	if nonEmpty != 2 {
		t.Errorf("expected 2 non-empty entries, got %d", nonEmpty)
	}
	if len(errs[0]) != 0 || len(errs[1]) != 1 {
		t.Errorf("errors not positional: %v", errs)
	}
}

func TestValidateArrayAllValid(t *testing.T) {
	result := ValidateArray([]string{"a", "b"}, func(s string) Validation[string] {
		return Valid(strings.ToUpper(s))
	})
	if !result.IsValid() {
		t.Fatalf("expected valid result")
	}
	if got := result.Values(nil); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Errorf("Values() = %v", got)
	}
}

func TestValidateArrayAsyncDeterministic(t *testing.T) {
	items := []int{0, 1, 2, 3, 4, 5, 6, 7}
	result := ValidateArrayAsync(context.Background(), items, func(_ context.Context, n int) Validation[int] {
		if n%2 == 1 {
			return Invalid[int]("odd")
		}
		return Valid(n * 10)
	})
	if result.IsValid() {
		t.Fatalf("expected invalid result")
	}
	errs := result.ErrorLists()
	if len(errs) != len(items) {
		t.Fatalf("expected %d entries, got %d", len(items), len(errs))
	}
	for i, e := range errs {
		wantErr := i%2 == 1
		if wantErr != (len(e) > 0) {
			t.Errorf("position %d: errors %v, want error=%v", i, e, wantErr)
		}
	}
}

func TestOptionalAbsenceIsNotInvalidity(t *testing.T) {
	reject := func(string) Validation[string] {
		return Invalid[string]("always rejected")
	}
	if got := Optional("", reject); got.IsInvalid() {
		t.Errorf("Optional with empty input must not consult the validator")
	}
	if got := Optional("set", reject); !got.IsInvalid() {
		t.Errorf("Optional with present input must consult the validator")
	}
}

func TestErrorMap(t *testing.T) {
	m := ErrorMap{}
	m.Add("legalName")
	if m.HasErrors() {
		t.Errorf("adding zero errors should not create a key")
	}
	m.Add("legalName", "too long")
	m.Add("city", "required")
	if !m.HasErrors() || m.HasPermissionErrors() {
		t.Errorf("unexpected error map state: %v", m)
	}
	m.Add(KeyPermissions, "not allowed")
	if !m.HasPermissionErrors() {
		t.Errorf("permission errors not detected")
	}
}

func TestRequestValidation(t *testing.T) {
	denied := PermissionDenied[int]("You do not have permission to perform this action.")
	if !denied.IsInvalid() || !denied.Errors().HasPermissionErrors() {
		t.Fatalf("PermissionDenied should carry the permissions key")
	}
	ok := ValidRequest(9)
	if ok.Value(0) != 9 || ok.Errors() != nil {
		t.Errorf("ValidRequest projections wrong")
	}
}
