// Package webapp is the server-rendered front end: it binds form posts,
// validates payloads, drives the session controller, and renders the django
// views. All backend access goes through the session controller and the
// catalog API so the refresh-and-retry behavior stays in one place.
package webapp

import (
	"context"

	campus "github.com/goliatone/go-campus"
	"github.com/goliatone/go-campus/catalog"
	"github.com/goliatone/go-campus/middleware/guard"
	"github.com/goliatone/go-router"
)

// CatalogAPI is the read/write surface for courses and teaching staff.
type CatalogAPI interface {
	Courses(ctx context.Context) ([]catalog.Course, error)
	Instructors(ctx context.Context) ([]catalog.Instructor, error)
	Instructor(ctx context.Context, id int) (*catalog.Instructor, error)
	CreateInstructor(ctx context.Context, in catalog.Instructor) (*catalog.Instructor, error)
	UpdateInstructor(ctx context.Context, id int, in catalog.Instructor) (*catalog.Instructor, error)
	DeleteInstructor(ctx context.Context, id int) error
}

// ControllerRoutes holds the paths the controller mounts.
type ControllerRoutes struct {
	Home            string
	Courses         string
	Login           string
	Logout          string
	Register        string
	VerifyOTP       string
	CompleteProfile string
	ForgotPassword  string
	ResetPassword   string
	Dashboard       string
	Profile         string
	ChangePassword  string
	AdminStaff      string
}

// ControllerViews holds the template names the controller renders.
type ControllerViews struct {
	Home            string
	Courses         string
	Login           string
	Register        string
	VerifyOTP       string
	CompleteProfile string
	ForgotPassword  string
	ResetPassword   string
	Dashboard       string
	Profile         string
	AdminStaff      string
	Loading         string
}

// Controller renders the site pages and mediates form submissions.
type Controller struct {
	Debug        bool
	Logger       campus.Logger
	Session      *campus.Controller
	Catalog      CatalogAPI
	Routes       *ControllerRoutes
	Views        *ControllerViews
	ErrorHandler router.ErrorHandler
	PerPage      int
}

// Option customizes the controller.
type Option func(*Controller) *Controller

// WithSession sets the session controller. Required.
func WithSession(session *campus.Controller) Option {
	return func(c *Controller) *Controller {
		c.Session = session
		return c
	}
}

// WithCatalog sets the catalog API. Required.
func WithCatalog(api CatalogAPI) Option {
	return func(c *Controller) *Controller {
		c.Catalog = api
		return c
	}
}

// WithLogger overrides the default logger.
func WithLogger(logger campus.Logger) Option {
	return func(c *Controller) *Controller {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

// WithConfig applies the shared app configuration: the debug flag plus the
// login and dashboard locations the session guards redirect to.
func WithConfig(cfg campus.Config) Option {
	return func(c *Controller) *Controller {
		if cfg == nil {
			return c
		}
		c.Debug = cfg.GetDebug()
		if path := cfg.GetLoginPath(); path != "" {
			c.Routes.Login = path
		}
		if path := cfg.GetDashboardPath(); path != "" {
			c.Routes.Dashboard = path
		}
		return c
	}
}

// WithDebug enables verbose payload logging.
func WithDebug(debug bool) Option {
	return func(c *Controller) *Controller {
		c.Debug = debug
		return c
	}
}

// WithPerPage sets the catalog page size.
func WithPerPage(n int) Option {
	return func(c *Controller) *Controller {
		if n > 0 {
			c.PerPage = n
		}
		return c
	}
}

// NewController builds a controller with default routes and views.
func NewController(opts ...Option) *Controller {
	c := &Controller{
		Logger:       campus.DefaultLogger(),
		ErrorHandler: defaultErrHandler,
		PerPage:      9,
		Routes: &ControllerRoutes{
			Home:            "/",
			Courses:         "/courses",
			Login:           "/login",
			Logout:          "/logout",
			Register:        "/register",
			VerifyOTP:       "/verify-otp",
			CompleteProfile: "/complete-profile",
			ForgotPassword:  "/forgot-password",
			ResetPassword:   "/reset-password",
			Dashboard:       "/dashboard",
			Profile:         "/profile",
			ChangePassword:  "/change-password",
			AdminStaff:      "/admin/instructors",
		},
		Views: &ControllerViews{
			Home:            "index",
			Courses:         "courses",
			Login:           "login",
			Register:        "register",
			VerifyOTP:       "verify_otp",
			CompleteProfile: "complete_profile",
			ForgotPassword:  "forgot_password",
			ResetPassword:   "reset_password",
			Dashboard:       "dashboard",
			Profile:         "profile",
			AdminStaff:      "admin/instructors",
			Loading:         "loading",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Session == nil {
		panic("Missing session controller in webapp controller...")
	}

	if c.Catalog == nil {
		panic("Missing catalog API in webapp controller...")
	}

	return c
}

// RegisterRoutes mounts every page on the router, wiring the session guards
// in front of the member and admin pages.
func RegisterRoutes[T any](app router.Router[T], opts ...Option) {
	controller := NewController(opts...)

	cfg := guard.Config{
		Session:       guard.FromController(controller.Session),
		LoginPath:     controller.Routes.Login,
		DashboardPath: controller.Routes.Dashboard,
		LoadingView:   controller.Views.Loading,
	}
	protected := guard.Protected(cfg)
	adminOnly := guard.AdminOnly(cfg)

	app.Get(controller.Routes.Home, controller.HomeShow).SetName("home.get")
	app.Get(controller.Routes.Courses, controller.CoursesShow).SetName("courses.get")

	app.Get(controller.Routes.Login, controller.LoginShow).SetName("sign-in.get")
	app.Post(controller.Routes.Login, controller.LoginPost).SetName("sign-in.post")
	app.Get(controller.Routes.Logout, controller.LogOut).SetName("sign-out.get")

	app.Get(controller.Routes.Register, controller.RegisterShow).SetName("register.get")
	app.Post(controller.Routes.Register, controller.RegisterPost).SetName("register.post")

	app.Get(controller.Routes.VerifyOTP, controller.VerifyOTPShow).SetName("verify-otp.get")
	app.Post(controller.Routes.VerifyOTP, controller.VerifyOTPPost).SetName("verify-otp.post")

	app.Get(controller.Routes.ForgotPassword, controller.ForgotPasswordShow).SetName("pwd-forgot.get")
	app.Post(controller.Routes.ForgotPassword, controller.ForgotPasswordPost).SetName("pwd-forgot.post")

	app.Get(controller.Routes.ResetPassword, controller.ResetPasswordShow).SetName("pwd-reset.get")
	app.Post(controller.Routes.ResetPassword, controller.ResetPasswordPost).SetName("pwd-reset.post")

	app.Get(controller.Routes.CompleteProfile, controller.CompleteProfileShow, protected).SetName("profile-complete.get")
	app.Post(controller.Routes.CompleteProfile, controller.CompleteProfilePost, protected).SetName("profile-complete.post")

	app.Get(controller.Routes.Dashboard, controller.DashboardShow, protected).SetName("dashboard.get")

	app.Get(controller.Routes.Profile, controller.ProfileShow, protected).SetName("profile.get")
	app.Post(controller.Routes.Profile, controller.ProfilePost, protected).SetName("profile.post")

	app.Post(controller.Routes.ChangePassword, controller.ChangePasswordPost, protected).SetName("pwd-change.post")

	app.Get(controller.Routes.AdminStaff, controller.AdminStaffShow, adminOnly).SetName("admin-staff.get")
	app.Post(controller.Routes.AdminStaff, controller.AdminStaffCreate, adminOnly).SetName("admin-staff.post")
	app.Post(controller.Routes.AdminStaff+"/:id/delete", controller.AdminStaffDelete, adminOnly).SetName("admin-staff.delete")
}

// viewContext seeds every render with the ambient session state so layouts
// can show the signed-in user and the global error banner.
func (c *Controller) viewContext(extra router.ViewContext) router.ViewContext {
	state := c.Session.State()

	vc := router.ViewContext{
		"authenticated": state.IsAuthenticated(),
		"user":          state.User,
		"loading":       state.Loading,
		"session_error": state.Error,
	}
	if state.User != nil && state.User.Phone != "" {
		vc["phone_display"] = campus.FormatPhoneIntl(state.User.Phone)
	}
	for k, v := range extra {
		vc[k] = v
	}
	return vc
}

func defaultErrHandler(c router.Context, err error) error {
	return c.Render("errors/500", router.ViewContext{
		"message": err.Error(),
	})
}
