package webapp

import (
	"bytes"
	"mime"
	"mime/multipart"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	campus "github.com/goliatone/go-campus"
	"github.com/goliatone/go-campus/catalog"
	"github.com/goliatone/go-router"
	"github.com/goliatone/go-router/flash"
)

func (c *Controller) HomeShow(ctx router.Context) error {
	courses, err := c.Catalog.Courses(ctx.Context())
	if err != nil {
		c.Logger.Warn("home course fetch: %v", err)
		courses = nil
	}

	instructors, err := c.Catalog.Instructors(ctx.Context())
	if err != nil {
		c.Logger.Warn("home instructor fetch: %v", err)
		instructors = nil
	}

	featured, _ := catalog.Paginate(courses, 1, c.PerPage)

	return ctx.Render(c.Views.Home, c.viewContext(router.ViewContext{
		"courses":     featured,
		"instructors": instructors,
	}))
}

// CoursesShow renders the catalog with tag, search, and page query
// parameters applied client-side over the full backend list.
func (c *Controller) CoursesShow(ctx router.Context) error {
	courses, err := c.Catalog.Courses(ctx.Context())
	if err != nil {
		return c.ErrorHandler(ctx, err)
	}

	filter := catalog.Filter{
		Tag:   ctx.Query("tag", ""),
		Query: ctx.Query("q", ""),
	}

	filtered := catalog.FilterCourses(courses, filter)
	page, info := catalog.Paginate(filtered, ctx.QueryInt("page", 1), c.PerPage)

	return ctx.Render(c.Views.Courses, c.viewContext(router.ViewContext{
		"courses": page,
		"pages":   info,
		"tag":     filter.Tag,
		"q":       filter.Query,
	}))
}

func (c *Controller) DashboardShow(ctx router.Context) error {
	return ctx.Render(c.Views.Dashboard, c.viewContext(nil))
}

func (c *Controller) ProfileShow(ctx router.Context) error {
	return ctx.Render(c.Views.Profile, c.viewContext(router.ViewContext{
		"record": c.Session.CurrentUser(),
	}))
}

// ProfilePayload carries the editable profile fields.
type ProfilePayload struct {
	FullName  string `form:"full_name" json:"full_name"`
	FirstName string `form:"first_name" json:"first_name"`
	LastName  string `form:"last_name" json:"last_name"`
	Email     string `form:"email" json:"email"`
	Gender    string `form:"gender" json:"gender"`
	BirthDate string `form:"birth_date" json:"birth_date"`
}

// Validate will validate the payload
func (r ProfilePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, is.Email),
		validation.Field(&r.FullName, validation.Length(0, 200)),
		validation.Field(&r.FirstName, validation.Length(0, 200)),
		validation.Field(&r.LastName, validation.Length(0, 200)),
	)
}

// fields returns the non-empty values as the PATCH body, so untouched form
// inputs do not blank out existing profile data.
func (r ProfilePayload) fields() map[string]string {
	out := map[string]string{}
	for key, value := range map[string]string{
		"full_name":  r.FullName,
		"first_name": r.FirstName,
		"last_name":  r.LastName,
		"email":      r.Email,
		"gender":     r.Gender,
		"birth_date": r.BirthDate,
	} {
		if value != "" {
			out[key] = value
		}
	}
	return out
}

func (c *Controller) ProfilePost(ctx router.Context) error {
	return c.profileUpdate(ctx, c.Views.Profile, false)
}

func (c *Controller) CompleteProfileShow(ctx router.Context) error {
	return ctx.Render(c.Views.CompleteProfile, c.viewContext(router.ViewContext{
		"record": c.Session.CurrentUser(),
	}))
}

func (c *Controller) CompleteProfilePost(ctx router.Context) error {
	return c.profileUpdate(ctx, c.Views.CompleteProfile, true)
}

func (c *Controller) profileUpdate(ctx router.Context, view string, complete bool) error {
	payload := new(ProfilePayload)

	if err := ctx.Bind(payload); err != nil {
		c.Logger.Error("profile parse payload: %v", err)
		return c.ErrorHandler(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return ctx.Render(view, c.viewContext(router.ViewContext{
			"record":     payload,
			"validation": formatValidationErrors(err),
		}))
	}

	image := formUpload(ctx, "profile_image")

	var err error
	if complete {
		err = c.Session.CompleteProfile(ctx.Context(), payload.fields(), image)
	} else {
		err = c.Session.UpdateProfile(ctx.Context(), payload.fields(), image)
	}
	if err != nil {
		return flash.WithError(ctx, router.ViewContext{
			"error_message": campus.ErrorMessage(err),
		}).Render(view, c.viewContext(router.ViewContext{
			"record": payload,
		}))
	}

	target := c.Routes.Profile
	if complete {
		target = c.Routes.Dashboard
	}
	return flash.WithSuccess(ctx, router.ViewContext{
		"system_message": "Profile updated",
	}).Redirect(target, fiber.StatusSeeOther)
}

// ChangePasswordPayload is the password change form payload.
type ChangePasswordPayload struct {
	OldPassword     string `form:"old_password" json:"old_password"`
	NewPassword     string `form:"new_password" json:"new_password"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password"`
}

// Validate will validate the payload
func (r ChangePasswordPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.OldPassword, validation.Required),
		validation.Field(&r.NewPassword, validation.Required, validation.Length(6, 100)),
		validation.Field(
			&r.ConfirmPassword,
			validation.Required,
			validation.By(stringEqualsRule(r.NewPassword, "passwords do not match")),
		),
	)
}

func (c *Controller) ChangePasswordPost(ctx router.Context) error {
	payload := new(ChangePasswordPayload)

	if err := ctx.Bind(payload); err != nil {
		c.Logger.Error("change password parse payload: %v", err)
		return c.ErrorHandler(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return ctx.Render(c.Views.Profile, c.viewContext(router.ViewContext{
			"record":     c.Session.CurrentUser(),
			"validation": formatValidationErrors(err),
		}))
	}

	if err := c.Session.ChangePassword(ctx.Context(), payload.OldPassword, payload.NewPassword); err != nil {
		return flash.WithError(ctx, router.ViewContext{
			"error_message": campus.ErrorMessage(err),
		}).Render(c.Views.Profile, c.viewContext(router.ViewContext{
			"record": c.Session.CurrentUser(),
		}))
	}

	return flash.WithSuccess(ctx, router.ViewContext{
		"system_message": "Password changed",
	}).Redirect(c.Routes.Profile, fiber.StatusSeeOther)
}

func (c *Controller) AdminStaffShow(ctx router.Context) error {
	instructors, err := c.Catalog.Instructors(ctx.Context())
	if err != nil {
		return c.ErrorHandler(ctx, err)
	}

	return ctx.Render(c.Views.AdminStaff, c.viewContext(router.ViewContext{
		"instructors": instructors,
	}))
}

// InstructorPayload is the admin staff form payload.
type InstructorPayload struct {
	DisplayName string `form:"display_name" json:"display_name"`
	Title       string `form:"title" json:"title"`
	Education   string `form:"education" json:"education"`
	Email       string `form:"email" json:"email"`
	Phone       string `form:"phone_number" json:"phone_number"`
}

// Validate will validate the payload
func (r InstructorPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.DisplayName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, is.Email),
		validation.Field(&r.Phone, validation.By(bdPhoneRule)),
	)
}

func (c *Controller) AdminStaffCreate(ctx router.Context) error {
	payload := new(InstructorPayload)

	if err := ctx.Bind(payload); err != nil {
		c.Logger.Error("instructor parse payload: %v", err)
		return c.ErrorHandler(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		instructors, _ := c.Catalog.Instructors(ctx.Context())
		return ctx.Render(c.Views.AdminStaff, c.viewContext(router.ViewContext{
			"instructors": instructors,
			"record":      payload,
			"validation":  formatValidationErrors(err),
		}))
	}

	in := catalog.Instructor{
		DisplayName: payload.DisplayName,
		Title:       payload.Title,
		Education:   payload.Education,
		Email:       payload.Email,
		Phone:       campus.NormalizePhone(payload.Phone),
	}

	if _, err := c.Catalog.CreateInstructor(ctx.Context(), in); err != nil {
		return flash.WithError(ctx, router.ViewContext{
			"error_message": campus.ErrorMessage(err),
		}).Redirect(c.Routes.AdminStaff, fiber.StatusSeeOther)
	}

	return flash.WithSuccess(ctx, router.ViewContext{
		"system_message": "Instructor added",
	}).Redirect(c.Routes.AdminStaff, fiber.StatusSeeOther)
}

func (c *Controller) AdminStaffDelete(ctx router.Context) error {
	id := ctx.ParamsInt("id", 0)
	if id <= 0 {
		return ctx.Redirect(c.Routes.AdminStaff, router.StatusSeeOther)
	}

	if err := c.Catalog.DeleteInstructor(ctx.Context(), id); err != nil {
		return flash.WithError(ctx, router.ViewContext{
			"error_message": campus.ErrorMessage(err),
		}).Redirect(c.Routes.AdminStaff, fiber.StatusSeeOther)
	}

	return flash.WithSuccess(ctx, router.ViewContext{
		"system_message": "Instructor removed",
	}).Redirect(c.Routes.AdminStaff, fiber.StatusSeeOther)
}

// formUpload extracts an uploaded file from a multipart request body. The
// router context exposes no file API, so the raw body is parsed directly.
// Returns nil when the request is not multipart or carries no such file.
func formUpload(ctx router.Context, field string) *campus.Upload {
	mediaType, params, err := mime.ParseMediaType(ctx.Header("Content-Type"))
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		return nil
	}

	reader := multipart.NewReader(bytes.NewReader(ctx.Body()), params["boundary"])
	form, err := reader.ReadForm(10 << 20)
	if err != nil {
		return nil
	}
	defer form.RemoveAll()

	headers := form.File[field]
	if len(headers) == 0 {
		return nil
	}

	file, err := headers[0].Open()
	if err != nil {
		return nil
	}
	defer file.Close()

	buf := &bytes.Buffer{}
	if _, err := buf.ReadFrom(file); err != nil {
		return nil
	}
	if buf.Len() == 0 {
		return nil
	}

	return &campus.Upload{
		Filename:    headers[0].Filename,
		ContentType: headers[0].Header.Get("Content-Type"),
		Content:     buf.Bytes(),
	}
}
