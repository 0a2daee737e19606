package webapp

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	campus "github.com/goliatone/go-campus"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/goliatone/go-router/flash"
)

func (c *Controller) LoginShow(ctx router.Context) error {
	if c.Session.IsAuthenticated() {
		return ctx.Redirect(c.Routes.Dashboard, router.StatusSeeOther)
	}
	return ctx.Render(c.Views.Login, c.viewContext(router.ViewContext{
		"record": nil,
		"next":   ctx.Query("next", ""),
	}))
}

// LoginPayload is the sign-in form payload.
type LoginPayload struct {
	Phone    string `form:"phone_number" json:"phone_number"`
	Password string `form:"password" json:"password"`
	Next     string `form:"next" json:"next"`
}

// Validate will run validation rules
func (r LoginPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Phone, validation.Required, validation.By(bdPhoneRule)),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 0)),
	)
}

func (c *Controller) LoginPost(ctx router.Context) error {
	payload := new(LoginPayload)

	if err := ctx.Bind(payload); err != nil {
		c.Logger.Error("login parse payload: %v", err)
		return c.ErrorHandler(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).Render(c.Views.Login, c.viewContext(router.ViewContext{
			"record":     payload,
			"validation": formatValidationErrors(err),
		}))
	}

	if c.Debug {
		c.Logger.Debug("login payload: %s", print.MaybePrettyJSON(payload))
	}

	phone := campus.NormalizePhone(payload.Phone)
	if err := c.Session.Login(ctx.Context(), phone, payload.Password); err != nil {
		return ctx.Status(fiber.StatusUnauthorized).Render(c.Views.Login, c.viewContext(router.ViewContext{
			"record": payload,
			"errors": map[string]string{"authentication": campus.ErrorMessage(err)},
		}))
	}

	redirect := payload.Next
	if redirect == "" {
		redirect = c.Routes.Dashboard
	}
	return flash.WithSuccess(ctx, router.ViewContext{
		"system_message": "Signed in",
	}).Redirect(redirect, fiber.StatusSeeOther)
}

func (c *Controller) LogOut(ctx router.Context) error {
	c.Session.Logout(ctx.Context())
	return ctx.Redirect(c.Routes.Home, router.StatusSeeOther)
}

func (c *Controller) RegisterShow(ctx router.Context) error {
	return ctx.Render(c.Views.Register, c.viewContext(router.ViewContext{
		"record": RegisterPayload{},
	}))
}

// RegisterPayload is the account creation form payload.
type RegisterPayload struct {
	Phone           string `form:"phone_number" json:"phone_number"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password"`
}

// Validate will validate the payload
func (r RegisterPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Phone, validation.Required, validation.By(bdPhoneRule)),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 100)),
		validation.Field(
			&r.ConfirmPassword,
			validation.Required,
			validation.By(stringEqualsRule(r.Password, "passwords do not match")),
		),
	)
}

func (c *Controller) RegisterPost(ctx router.Context) error {
	payload := new(RegisterPayload)

	if err := ctx.Bind(payload); err != nil {
		c.Logger.Error("register parse payload: %v", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error parsing body",
		}).Status(fiber.StatusBadRequest).Render(c.Views.Register, c.viewContext(router.ViewContext{
			"record": payload,
		}))
	}

	if err := payload.Validate(); err != nil {
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error validating payload",
		}).Render(c.Views.Register, c.viewContext(router.ViewContext{
			"record":     payload,
			"validation": formatValidationErrors(err),
		}))
	}

	phone := campus.NormalizePhone(payload.Phone)
	if _, err := c.Session.Register(ctx.Context(), phone, payload.Password); err != nil {
		return flash.WithError(ctx, router.ViewContext{
			"error_message": campus.ErrorMessage(err),
		}).Render(c.Views.Register, c.viewContext(router.ViewContext{
			"record": payload,
		}))
	}

	return flash.WithSuccess(ctx, router.ViewContext{
		"system_message": "We sent a verification code to your phone",
	}).Redirect(c.Routes.VerifyOTP+"?phone_number="+phone, fiber.StatusSeeOther)
}

func (c *Controller) VerifyOTPShow(ctx router.Context) error {
	return ctx.Render(c.Views.VerifyOTP, c.viewContext(router.ViewContext{
		"record": VerifyOTPPayload{Phone: ctx.Query("phone_number", "")},
	}))
}

// VerifyOTPPayload carries the registration confirmation code.
type VerifyOTPPayload struct {
	Phone string `form:"phone_number" json:"phone_number"`
	OTP   string `form:"otp" json:"otp"`
}

// Validate will validate the payload
func (r VerifyOTPPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Phone, validation.Required, validation.By(bdPhoneRule)),
		validation.Field(&r.OTP, validation.Required, validation.Length(4, 8)),
	)
}

func (c *Controller) VerifyOTPPost(ctx router.Context) error {
	payload := new(VerifyOTPPayload)

	if err := ctx.Bind(payload); err != nil {
		c.Logger.Error("verify otp parse payload: %v", err)
		return c.ErrorHandler(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return ctx.Render(c.Views.VerifyOTP, c.viewContext(router.ViewContext{
			"record":     payload,
			"validation": formatValidationErrors(err),
		}))
	}

	phone := campus.NormalizePhone(payload.Phone)
	if err := c.Session.VerifyOTP(ctx.Context(), phone, payload.OTP); err != nil {
		return flash.WithError(ctx, router.ViewContext{
			"error_message": campus.ErrorMessage(err),
		}).Render(c.Views.VerifyOTP, c.viewContext(router.ViewContext{
			"record": payload,
		}))
	}

	// New accounts land on the profile completion step before anything else.
	return flash.WithSuccess(ctx, router.ViewContext{
		"system_message": "Phone number verified",
	}).Redirect(c.Routes.CompleteProfile, fiber.StatusSeeOther)
}

func (c *Controller) ForgotPasswordShow(ctx router.Context) error {
	return ctx.Render(c.Views.ForgotPassword, c.viewContext(router.ViewContext{
		"record": ForgotPasswordPayload{},
	}))
}

// ForgotPasswordPayload requests a reset code by SMS.
type ForgotPasswordPayload struct {
	Phone string `form:"phone_number" json:"phone_number"`
}

// Validate will validate the payload
func (r ForgotPasswordPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Phone, validation.Required, validation.By(bdPhoneRule)),
	)
}

func (c *Controller) ForgotPasswordPost(ctx router.Context) error {
	payload := new(ForgotPasswordPayload)

	if err := ctx.Bind(payload); err != nil {
		c.Logger.Error("forgot password parse payload: %v", err)
		return c.ErrorHandler(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return ctx.Render(c.Views.ForgotPassword, c.viewContext(router.ViewContext{
			"record":     payload,
			"validation": formatValidationErrors(err),
		}))
	}

	phone := campus.NormalizePhone(payload.Phone)
	if err := c.Session.ForgetPassword(ctx.Context(), phone); err != nil {
		return flash.WithError(ctx, router.ViewContext{
			"error_message": campus.ErrorMessage(err),
		}).Render(c.Views.ForgotPassword, c.viewContext(router.ViewContext{
			"record": payload,
		}))
	}

	return flash.WithSuccess(ctx, router.ViewContext{
		"system_message": "We sent a reset code to your phone",
	}).Redirect(c.Routes.ResetPassword+"?phone_number="+phone, fiber.StatusSeeOther)
}

func (c *Controller) ResetPasswordShow(ctx router.Context) error {
	return ctx.Render(c.Views.ResetPassword, c.viewContext(router.ViewContext{
		"record": ResetPasswordPayload{Phone: ctx.Query("phone_number", "")},
	}))
}

// ResetPasswordPayload finalizes a reset with the SMS code.
type ResetPasswordPayload struct {
	Phone       string `form:"phone_number" json:"phone_number"`
	OTP         string `form:"otp" json:"otp"`
	NewPassword string `form:"new_password" json:"new_password"`
}

// Validate will validate the payload
func (r ResetPasswordPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Phone, validation.Required, validation.By(bdPhoneRule)),
		validation.Field(&r.OTP, validation.Required, validation.Length(4, 8)),
		validation.Field(&r.NewPassword, validation.Required, validation.Length(6, 100)),
	)
}

func (c *Controller) ResetPasswordPost(ctx router.Context) error {
	payload := new(ResetPasswordPayload)

	if err := ctx.Bind(payload); err != nil {
		c.Logger.Error("reset password parse payload: %v", err)
		return c.ErrorHandler(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return ctx.Render(c.Views.ResetPassword, c.viewContext(router.ViewContext{
			"record":     payload,
			"validation": formatValidationErrors(err),
		}))
	}

	phone := campus.NormalizePhone(payload.Phone)
	if err := c.Session.ResetPassword(ctx.Context(), phone, payload.OTP, payload.NewPassword); err != nil {
		return flash.WithError(ctx, router.ViewContext{
			"error_message": campus.ErrorMessage(err),
		}).Render(c.Views.ResetPassword, c.viewContext(router.ViewContext{
			"record": payload,
		}))
	}

	// Reset does not sign the user in; they log in with the new password.
	return flash.WithSuccess(ctx, router.ViewContext{
		"system_message": "Password reset, you can sign in now",
	}).Redirect(c.Routes.Login, fiber.StatusSeeOther)
}
