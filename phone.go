package campus

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// bdMobilePattern matches Bangladeshi mobile numbers in local form:
// a leading 01, an operator digit 3-9, then eight subscriber digits.
var bdMobilePattern = regexp.MustCompile(`^01[3-9]\d{8}$`)

// IsValidPhone reports whether the value is a Bangladeshi mobile number in
// the local 11-digit form the backend expects.
func IsValidPhone(phone string) bool {
	return bdMobilePattern.MatchString(phone)
}

// NormalizePhone converts user input (spacing, dashes, +880 or 880
// prefixes) into the local 11-digit form. Falls back to stripping
// non-digits when the number does not parse.
func NormalizePhone(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	if num, err := phonenumbers.Parse(trimmed, "BD"); err == nil {
		national := phonenumbers.GetNationalSignificantNumber(num)
		if strings.HasPrefix(national, "1") && len(national) == 10 {
			return "0" + national
		}
		return national
	}

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, trimmed)

	if strings.HasPrefix(digits, "880") {
		return "0" + digits[3:]
	}
	return digits
}

// FormatPhoneIntl renders a local number in international format for
// display. Unparseable input is returned unchanged.
func FormatPhoneIntl(local string) string {
	num, err := phonenumbers.Parse(local, "BD")
	if err != nil {
		return local
	}
	return phonenumbers.Format(num, phonenumbers.INTERNATIONAL)
}
