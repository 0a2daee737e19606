package campus_test

import (
	"testing"

	campus "github.com/goliatone/go-campus"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestUserIsAdmin(t *testing.T) {
	cases := []struct {
		name  string
		user  *campus.User
		admin bool
	}{
		{"nil user", nil, false},
		{"empty user", &campus.User{}, false},
		{"student type", &campus.User{UserType: campus.UserTypeStudent}, false},
		{"admin type", &campus.User{UserType: campus.UserTypeAdmin}, true},
		{"admin role only", &campus.User{Role: "admin"}, true},
		{"unrelated role", &campus.User{Role: "moderator"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.admin, tc.user.IsAdmin())
		})
	}
}

func TestUserDisplayName(t *testing.T) {
	assert.Empty(t, (*campus.User)(nil).DisplayName())

	u := &campus.User{Phone: "01712345678"}
	assert.Equal(t, "01712345678", u.DisplayName(), "phone is the last resort")

	u.FirstName = "Test"
	u.LastName = "Student"
	assert.Equal(t, "Test Student", u.DisplayName())

	u.FullName = "Dr. Test Student"
	assert.Equal(t, "Dr. Test Student", u.DisplayName(), "full name wins")
}

func TestUserUUIDIsStable(t *testing.T) {
	a := &campus.User{Phone: "01712345678"}
	b := &campus.User{Phone: "01712345678"}
	c := &campus.User{Phone: "01812345678"}

	assert.Equal(t, a.UUID(), b.UUID(), "same phone, same identifier")
	assert.NotEqual(t, a.UUID(), c.UUID())
	assert.NotEqual(t, uuid.Nil, a.UUID())
}

func TestUserUUIDWithoutPhoneIsNil(t *testing.T) {
	assert.Equal(t, uuid.Nil, (&campus.User{}).UUID())
	assert.Equal(t, uuid.Nil, (*campus.User)(nil).UUID())
}
