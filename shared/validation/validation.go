package validation

import (
	"context"
	"sync"
)

// Reserved ErrorMap keys. Permission denials and storage failures are the
// only errors not tied to a request field.
const (
	KeyPermissions = "permissions"
	KeyDatabase    = "database"
	KeyNotFound    = "notFound"
)

// ErrorMap collects human-readable validation errors per request field.
// An absent key means the field is valid.
type ErrorMap map[string][]string

// Add appends errors for a field, skipping empty lists so that valid fields
// never appear in the map.
func (m ErrorMap) Add(field string, errs ...string) {
	if len(errs) == 0 {
		return
	}
	m[field] = append(m[field], errs...)
}

func (m ErrorMap) HasErrors() bool {
	return len(m) > 0
}

func (m ErrorMap) HasPermissionErrors() bool {
	return len(m[KeyPermissions]) > 0
}

// Fallible is implemented by every validation result shape so heterogeneous
// results can be folded through AllValid.
type Fallible interface {
	IsValid() bool
}

// Validation is the judgment over a single value: either a valid (possibly
// normalized) value or a list of error messages. Values are immutable once
// constructed; combinators always build new ones.
type Validation[V any] struct {
	value   V
	errors  []string
	invalid bool
}

func Valid[V any](value V) Validation[V] {
	return Validation[V]{value: value}
}

func Invalid[V any](errs ...string) Validation[V] {
	return Validation[V]{errors: errs, invalid: true}
}

func (v Validation[V]) IsValid() bool {
	return !v.invalid
}

func (v Validation[V]) IsInvalid() bool {
	return v.invalid
}

// Value returns the valid value, or fallback when invalid. Total, never
// panics.
func (v Validation[V]) Value(fallback V) V {
	if v.invalid {
		return fallback
	}
	return v.value
}

// Errors returns the error list, nil when valid.
func (v Validation[V]) Errors() []string {
	if !v.invalid {
		return nil
	}
	return v.errors
}

// MapValid applies fn over the valid channel; invalid values pass through
// untouched.
func MapValid[A, B any](v Validation[A], fn func(A) B) Validation[B] {
	if v.invalid {
		return Invalid[B](v.errors...)
	}
	return Valid(fn(v.value))
}

// MapInvalid applies fn over the error channel; valid values pass through
// untouched.
func MapInvalid[V any](v Validation[V], fn func([]string) []string) Validation[V] {
	if !v.invalid {
		return v
	}
	return Invalid[V](fn(v.errors)...)
}

// AllValid reports whether no result is invalid. Every element is inspected.
func AllValid(results ...Fallible) bool {
	ok := true
	for _, r := range results {
		if !r.IsValid() {
			ok = false
		}
	}
	return ok
}

// ArrayValidation is the judgment over a sequence: all unwrapped values, or
// the full parallel sequence of per-item error lists. Items that validated
// fine contribute an empty list, so positions always line up with the input.
type ArrayValidation[B any] struct {
	values  []B
	errors  [][]string
	invalid bool
}

func ValidArray[B any](values []B) ArrayValidation[B] {
	return ArrayValidation[B]{values: values}
}

func InvalidArray[B any](errs [][]string) ArrayValidation[B] {
	return ArrayValidation[B]{errors: errs, invalid: true}
}

func (a ArrayValidation[B]) IsValid() bool {
	return !a.invalid
}

func (a ArrayValidation[B]) Values(fallback []B) []B {
	if a.invalid {
		return fallback
	}
	return a.values
}

func (a ArrayValidation[B]) ErrorLists() [][]string {
	if !a.invalid {
		return nil
	}
	return a.errors
}

// ValidateArray validates every item and accumulates: it never stops at the
// first failure, so the caller can render errors for each position.
func ValidateArray[A, B any](items []A, validate func(A) Validation[B]) ArrayValidation[B] {
	results := make([]Validation[B], len(items))
	for i, item := range items {
		results[i] = validate(item)
	}
	return joinArray(results)
}

// ValidateArrayAsync runs each item's validation concurrently (existence
// checks against storage, for example) and joins them positionally, so the
// outcome is deterministic regardless of completion order.
func ValidateArrayAsync[A, B any](ctx context.Context, items []A, validate func(context.Context, A) Validation[B]) ArrayValidation[B] {
	results := make([]Validation[B], len(items))
	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func(i int, item A) {
			defer wg.Done()
			results[i] = validate(ctx, item)
		}(i, item)
	}
	wg.Wait()
	return joinArray(results)
}

func joinArray[B any](results []Validation[B]) ArrayValidation[B] {
	fallibles := make([]Fallible, len(results))
	for i, r := range results {
		fallibles[i] = r
	}
	if AllValid(fallibles...) {
		values := make([]B, len(results))
		for i, r := range results {
			values[i] = r.value
		}
		return ValidArray(values)
	}
	errs := make([][]string, len(results))
	for i, r := range results {
		errs[i] = append([]string{}, r.Errors()...)
	}
	return InvalidArray[B](errs)
}

// Optional short-circuits to Valid("") when the raw value is absent. Absence
// and invalidity are distinct outcomes: validate is never consulted for an
// empty input.
func Optional(raw string, validate func(string) Validation[string]) Validation[string] {
	if raw == "" {
		return Valid("")
	}
	return validate(raw)
}

// RequestValidation is the judgment over a whole request: a fully-typed
// write command ready for storage, or a per-field error map.
type RequestValidation[V any] struct {
	value   V
	errors  ErrorMap
	invalid bool
}

func ValidRequest[V any](value V) RequestValidation[V] {
	return RequestValidation[V]{value: value}
}

func InvalidRequest[V any](errs ErrorMap) RequestValidation[V] {
	return RequestValidation[V]{errors: errs, invalid: true}
}

// PermissionDenied is the fail-closed request judgment for actors lacking a
// required capability.
func PermissionDenied[V any](message string) RequestValidation[V] {
	return InvalidRequest[V](ErrorMap{KeyPermissions: []string{message}})
}

func (r RequestValidation[V]) IsValid() bool {
	return !r.invalid
}

func (r RequestValidation[V]) IsInvalid() bool {
	return r.invalid
}

func (r RequestValidation[V]) Value(fallback V) V {
	if r.invalid {
		return fallback
	}
	return r.value
}

func (r RequestValidation[V]) Errors() ErrorMap {
	if !r.invalid {
		return nil
	}
	return r.errors
}
