package webapp

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	campus "github.com/goliatone/go-campus"
)

// bdPhoneRule is an ozzo rule checking for a Bangladeshi mobile number. It
// normalizes first so +880 and spaced input validate the same as local form.
func bdPhoneRule(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if !campus.IsValidPhone(campus.NormalizePhone(s)) {
		return errors.New("must be a valid Bangladeshi phone number")
	}
	return nil
}

func stringEqualsRule(str, message string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s != str {
			return errors.New(message)
		}
		return nil
	}
}

// formatValidationErrors flattens ozzo's error tree into a field→message map
// for the templates.
func formatValidationErrors(err error) map[string]string {
	out := map[string]string{}
	if err == nil {
		return out
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		for field, ferr := range verrs {
			if ferr != nil {
				out[field] = ferr.Error()
			}
		}
		return out
	}

	out["form"] = err.Error()
	return out
}
