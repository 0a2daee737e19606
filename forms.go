package campus

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// FieldType selects the built-in check applied to a field's value.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeEmail    FieldType = "email"
	FieldTypePassword FieldType = "password"
	FieldTypePhone    FieldType = "phone"
)

const passwordMinLength = 6

// Rule describes the validation applied to one named field. Checks run in
// order: required, type-specific, min-length, pattern; the first failure
// wins for that field.
type Rule struct {
	Required  bool
	Type      FieldType
	MinLength int
	// Pattern is a regular expression the value must match.
	Pattern string
	// Message overrides the generic message when Pattern fails.
	Message string
}

// Form is the generic per-submission validation helper. It holds a
// field→value map and a field→error map and orchestrates validate-then-call
// submissions independent of any specific form.
type Form struct {
	mu         sync.Mutex
	session    *Controller
	values     map[string]string
	errors     map[string]string
	submitting bool
}

// NewForm returns an empty form bound to the session controller. The
// controller may be nil for forms that do not surface a global error.
func NewForm(session *Controller) *Form {
	return &Form{
		session: session,
		values:  map[string]string{},
		errors:  map[string]string{},
	}
}

// UpdateField sets a value and clears that field's existing error along
// with the session's global error, so feedback disappears on edit.
func (f *Form) UpdateField(name, value string) {
	f.mu.Lock()
	f.values[name] = value
	delete(f.errors, name)
	f.mu.Unlock()

	if f.session != nil {
		f.session.ClearError()
	}
}

// Value returns the current value for a field.
func (f *Form) Value(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[name]
}

// Values returns a copy of the current value map.
func (f *Form) Values() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// FieldError returns the validation error for a field, empty when valid.
func (f *Form) FieldError(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errors[name]
}

// FieldErrors returns a copy of the current error map.
func (f *Form) FieldErrors() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.errors))
	for k, v := range f.errors {
		out[k] = v
	}
	return out
}

// IsSubmitting reports whether a submission is in flight.
func (f *Form) IsSubmitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

// Validate checks the named fields against their rules. Fields are checked
// independently, never short-circuited across fields; the error map is
// repopulated for the failing ones. Returns true when every field passed.
func (f *Form) Validate(fields []string, rules map[string]Rule) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	ok := true
	for _, name := range fields {
		delete(f.errors, name)
		if msg := validateField(name, f.values[name], rules[name]); msg != "" {
			f.errors[name] = msg
			ok = false
		}
	}
	return ok
}

// Submit validates first and only then invokes the operation with the
// current value map, tracking the submitting flag around the call.
// Operation errors are swallowed here since the session controller already
// surfaces them; the return value reports whether the operation was
// attempted and completed without error.
func (f *Form) Submit(ctx context.Context, op func(context.Context, map[string]string) error, fields []string, rules map[string]Rule) bool {
	if !f.Validate(fields, rules) {
		return false
	}

	f.mu.Lock()
	f.submitting = true
	f.mu.Unlock()

	err := op(ctx, f.Values())

	f.mu.Lock()
	f.submitting = false
	f.mu.Unlock()

	return err == nil
}

// validateField applies the rule checks in order and returns the first
// failure message, empty when the value passes. Labels humanize the field
// name by replacing underscores with spaces.
func validateField(name, value string, rule Rule) string {
	label := strings.ReplaceAll(name, "_", " ")

	if rule.Required && strings.TrimSpace(value) == "" {
		return fmt.Sprintf("%s is required", label)
	}

	if value == "" {
		return ""
	}

	switch rule.Type {
	case FieldTypeEmail:
		if err := validation.Validate(value, is.Email); err != nil {
			return fmt.Sprintf("Please enter a valid %s", label)
		}
	case FieldTypePassword:
		if len(value) < passwordMinLength {
			return fmt.Sprintf("%s must be at least %d characters", label, passwordMinLength)
		}
	case FieldTypePhone:
		if !IsValidPhone(value) {
			return "Please enter a valid Bangladeshi phone number"
		}
	}

	if rule.MinLength > 0 && len(value) < rule.MinLength {
		return fmt.Sprintf("%s must be at least %d characters", label, rule.MinLength)
	}

	if rule.Pattern != "" {
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return fmt.Sprintf("%s has an invalid validation pattern", label)
		}
		if !re.MatchString(value) {
			if rule.Message != "" {
				return rule.Message
			}
			return fmt.Sprintf("%s is invalid", label)
		}
	}

	return ""
}
