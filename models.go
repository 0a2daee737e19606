package campus

import (
	"strings"

	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UserType is the account classification reported by the backend
type UserType = string

const (
	// UserTypeAdmin marks administrator accounts
	UserTypeAdmin UserType = "admin"
	// UserTypeStudent is the default end-user classification
	UserTypeStudent UserType = "student"
)

// User is the authenticated principal. Every field is optional because the
// backend returns different shapes at different lifecycle points: right
// after OTP verification only the phone number is known, the full profile
// arrives with a separate fetch, and profile updates replace the record
// wholesale.
type User struct {
	ID           int    `json:"id,omitempty"`
	Phone        string `json:"phone_number,omitempty"`
	Email        string `json:"email,omitempty"`
	FullName     string `json:"full_name,omitempty"`
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	ProfileImage string `json:"profile_image,omitempty"`
	Role         string `json:"role,omitempty"`
	UserType     string `json:"user_type,omitempty"`
	Gender       string `json:"gender,omitempty"`
	BirthDate    string `json:"birth_date,omitempty"`
}

// IsAdmin reports administrator privilege. The backend marks admins with the
// literal "admin" on either classification field; everything else is a
// student account.
func (u *User) IsAdmin() bool {
	if u == nil {
		return false
	}
	return u.UserType == UserTypeAdmin || u.Role == UserTypeAdmin
}

// DisplayName picks the best available display string.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.FullName != "" {
		return u.FullName
	}
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		return name
	}
	return u.Phone
}

// UUID derives a stable client-side identifier for the user. Minimal users
// created right after OTP verification have no backend id yet, so we hash
// the phone number into a deterministic UUID.
func (u *User) UUID() uuid.UUID {
	if u == nil || u.Phone == "" {
		return uuid.Nil
	}
	if id, err := hashid.NewUUID(u.Phone); err == nil {
		return id
	}
	return uuid.Nil
}
