package client

import (
	"context"
	"fmt"
	"net/http"

	campus "github.com/goliatone/go-campus"
	"github.com/goliatone/go-campus/catalog"
)

// Backend endpoint paths. Trailing slashes are significant; the backend
// redirects without them and redirects drop the Authorization header.
const (
	pathRegister       = "/auth/register/"
	pathVerifyOTP      = "/auth/verify-otp/"
	pathLogin          = "/auth/login/"
	pathRefresh        = "/auth/login/refresh/"
	pathProfile        = "/auth/profile/"
	pathChangePassword = "/auth/change-password/"
	pathForgetPassword = "/auth/forget-password/"
	pathResetPassword  = "/auth/reset-password/"
	pathInstructors    = "/api/instructors/info/"
	pathCourses        = "/api/courses/"
)

var _ campus.APIClient = (*Client)(nil)

// Register creates an account pending OTP verification. The raw response is
// returned untyped; callers only need it for display.
func (c *Client) Register(ctx context.Context, phone, password string) (map[string]any, error) {
	payload := map[string]string{
		"phone_number": phone,
		"password":     password,
	}

	var out map[string]any
	if err := c.Do(ctx, http.MethodPost, pathRegister, &out, WithJSON(payload), WithoutAuth()); err != nil {
		return nil, err
	}
	return out, nil
}

// VerifyOTP confirms the registration code. The backend nests the pair under
// a "tokens" key on this endpoint, unlike login.
func (c *Client) VerifyOTP(ctx context.Context, phone, otp string) (*campus.TokenPair, error) {
	payload := map[string]string{
		"phone_number": phone,
		"otp":          otp,
	}

	var out struct {
		Tokens campus.TokenPair `json:"tokens"`
	}
	if err := c.Do(ctx, http.MethodPost, pathVerifyOTP, &out, WithJSON(payload), WithoutAuth()); err != nil {
		return nil, err
	}
	return &out.Tokens, nil
}

// Login exchanges credentials for a token pair, returned flat at the top
// level of the response.
func (c *Client) Login(ctx context.Context, phone, password string) (*campus.TokenPair, error) {
	payload := map[string]string{
		"phone_number": phone,
		"password":     password,
	}

	var out campus.TokenPair
	if err := c.Do(ctx, http.MethodPost, pathLogin, &out, WithJSON(payload), WithoutAuth()); err != nil {
		return nil, err
	}
	return &out, nil
}

// RefreshAccess rotates the access token using the stored refresh token and
// persists the result. See refreshAccess for the fail-closed semantics.
func (c *Client) RefreshAccess(ctx context.Context) (string, error) {
	return c.refreshAccess(ctx)
}

// Profile fetches the authenticated user's profile.
func (c *Client) Profile(ctx context.Context) (*campus.User, error) {
	var out campus.User
	if err := c.Do(ctx, http.MethodGet, pathProfile, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile patches profile fields. With an image the request goes out
// as multipart with the file under "profile_image"; without one it stays a
// plain JSON PATCH.
func (c *Client) UpdateProfile(ctx context.Context, fields map[string]string, image *campus.Upload) (*campus.User, error) {
	var out campus.User

	if image != nil {
		err := c.Do(ctx, http.MethodPatch, pathProfile, &out,
			WithForm(fields),
			WithFile("profile_image", image),
		)
		if err != nil {
			return nil, err
		}
		return &out, nil
	}

	if err := c.Do(ctx, http.MethodPatch, pathProfile, &out, WithJSON(fields)); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangePassword updates the password for the authenticated user.
func (c *Client) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	payload := map[string]string{
		"old_password": oldPassword,
		"new_password": newPassword,
	}
	return c.Do(ctx, http.MethodPost, pathChangePassword, nil, WithJSON(payload))
}

// ForgetPassword asks the backend to SMS a reset code to the phone number.
func (c *Client) ForgetPassword(ctx context.Context, phone string) error {
	payload := map[string]string{"phone_number": phone}
	return c.Do(ctx, http.MethodPost, pathForgetPassword, nil, WithJSON(payload), WithoutAuth())
}

// ResetPassword finalizes a reset with the code from ForgetPassword.
func (c *Client) ResetPassword(ctx context.Context, phone, otp, newPassword string) error {
	payload := map[string]string{
		"phone_number": phone,
		"otp":          otp,
		"new_password": newPassword,
	}
	return c.Do(ctx, http.MethodPost, pathResetPassword, nil, WithJSON(payload), WithoutAuth())
}

// Instructors lists the teaching staff.
func (c *Client) Instructors(ctx context.Context) ([]catalog.Instructor, error) {
	var out []catalog.Instructor
	if err := c.Do(ctx, http.MethodGet, pathInstructors, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Instructor fetches a single instructor by id.
func (c *Client) Instructor(ctx context.Context, id int) (*catalog.Instructor, error) {
	var out catalog.Instructor
	if err := c.Do(ctx, http.MethodGet, fmt.Sprintf("%s%d/", pathInstructors, id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateInstructor adds a teaching-staff entry. Admin only.
func (c *Client) CreateInstructor(ctx context.Context, in catalog.Instructor) (*catalog.Instructor, error) {
	var out catalog.Instructor
	if err := c.Do(ctx, http.MethodPost, pathInstructors, &out, WithJSON(in)); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateInstructor patches a teaching-staff entry. Admin only.
func (c *Client) UpdateInstructor(ctx context.Context, id int, in catalog.Instructor) (*catalog.Instructor, error) {
	var out catalog.Instructor
	if err := c.Do(ctx, http.MethodPatch, fmt.Sprintf("%s%d/", pathInstructors, id), &out, WithJSON(in)); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteInstructor removes a teaching-staff entry. Admin only.
func (c *Client) DeleteInstructor(ctx context.Context, id int) error {
	return c.Do(ctx, http.MethodDelete, fmt.Sprintf("%s%d/", pathInstructors, id), nil)
}

// Courses lists the catalog.
func (c *Client) Courses(ctx context.Context) ([]catalog.Course, error) {
	var out []catalog.Course
	if err := c.Do(ctx, http.MethodGet, pathCourses, &out, WithoutAuth()); err != nil {
		return nil, err
	}
	return out, nil
}
