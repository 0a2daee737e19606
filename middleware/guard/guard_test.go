package guard_test

import (
	"context"
	"errors"
	"testing"

	campus "github.com/goliatone/go-campus"
	"github.com/goliatone/go-campus/middleware/guard"
	"github.com/goliatone/go-router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func staticSession(state campus.State) guard.SessionSource {
	return func(router.Context) campus.State {
		return state
	}
}

func nextRecorder(called *bool) router.HandlerFunc {
	return func(router.Context) error {
		*called = true
		return nil
	}
}

func TestProtectedRedirectsAnonymousVisitors(t *testing.T) {
	ctx := router.NewMockContext()
	ctx.On("OriginalURL").Return("/dashboard")
	ctx.On("Redirect", "/login?next=/dashboard", []int{302}).Return(nil)

	called := false
	handler := guard.Protected(guard.Config{
		Session: staticSession(campus.State{Bootstrapped: true}),
	})(nextRecorder(&called))

	require.NoError(t, handler(ctx))
	assert.False(t, called, "handler should not run for anonymous visitors")
	ctx.AssertExpectations(t)
}

func TestProtectedRendersLoadingBeforeBootstrap(t *testing.T) {
	ctx := router.NewMockContext()
	ctx.On("OriginalURL").Return("/dashboard")
	ctx.On("Render", "loading", mock.Anything).Return(nil)

	called := false
	handler := guard.Protected(guard.Config{
		Session: staticSession(campus.State{Loading: true}),
	})(nextRecorder(&called))

	require.NoError(t, handler(ctx))
	assert.False(t, called, "no protected content while the session resolves")
	ctx.AssertExpectations(t)
}

func TestProtectedPassesAuthenticatedUsers(t *testing.T) {
	ctx := router.NewMockContext()

	called := false
	handler := guard.Protected(guard.Config{
		Session: staticSession(campus.State{
			Bootstrapped: true,
			User:         &campus.User{Phone: "01712345678"},
		}),
	})(nextRecorder(&called))

	require.NoError(t, handler(ctx))
	assert.True(t, called)
}

func TestProtectedFilterSkipsGuard(t *testing.T) {
	ctx := router.NewMockContext()

	called := false
	handler := guard.Protected(guard.Config{
		Session: staticSession(campus.State{Bootstrapped: true}),
		Filter:  func(router.Context) bool { return true },
	})(nextRecorder(&called))

	require.NoError(t, handler(ctx))
	assert.True(t, called)
}

func TestAdminOnlyRedirectsStudentsToDashboard(t *testing.T) {
	ctx := router.NewMockContext()
	ctx.On("Redirect", "/dashboard", []int{302}).Return(nil)

	called := false
	handler := guard.AdminOnly(guard.Config{
		Session: staticSession(campus.State{
			Bootstrapped: true,
			User:         &campus.User{Phone: "01712345678", UserType: campus.UserTypeStudent},
		}),
	})(nextRecorder(&called))

	require.NoError(t, handler(ctx))
	assert.False(t, called, "students should not reach admin pages")
	ctx.AssertExpectations(t)
}

func TestAdminOnlyPassesAdmins(t *testing.T) {
	ctx := router.NewMockContext()

	called := false
	handler := guard.AdminOnly(guard.Config{
		Session: staticSession(campus.State{
			Bootstrapped: true,
			User:         &campus.User{Phone: "01712345678", UserType: campus.UserTypeAdmin},
		}),
	})(nextRecorder(&called))

	require.NoError(t, handler(ctx))
	assert.True(t, called)
}

func TestAdminOnlyRedirectsAnonymousToLogin(t *testing.T) {
	ctx := router.NewMockContext()
	ctx.On("OriginalURL").Return("/admin/instructors")
	ctx.On("Redirect", "/login?next=/admin/instructors", []int{302}).Return(nil)

	called := false
	handler := guard.AdminOnly(guard.Config{
		Session: staticSession(campus.State{Bootstrapped: true}),
	})(nextRecorder(&called))

	require.NoError(t, handler(ctx))
	assert.False(t, called)
	ctx.AssertExpectations(t)
}

func TestFromControllerReadsControllerState(t *testing.T) {
	session := campus.NewController(failingAPI{}, newFakeStore())
	source := guard.FromController(session)

	state := source(router.NewMockContext())
	assert.False(t, state.Bootstrapped)
	assert.False(t, state.IsAuthenticated())
}

type failingAPI struct{}

var errNotImplemented = errors.New("not implemented")

func (failingAPI) Register(context.Context, string, string) (map[string]any, error) {
	return nil, errNotImplemented
}
func (failingAPI) VerifyOTP(context.Context, string, string) (*campus.TokenPair, error) {
	return nil, errNotImplemented
}
func (failingAPI) Login(context.Context, string, string) (*campus.TokenPair, error) {
	return nil, errNotImplemented
}
func (failingAPI) RefreshAccess(context.Context) (string, error) { return "", errNotImplemented }
func (failingAPI) Profile(context.Context) (*campus.User, error) { return nil, errNotImplemented }
func (failingAPI) UpdateProfile(context.Context, map[string]string, *campus.Upload) (*campus.User, error) {
	return nil, errNotImplemented
}
func (failingAPI) ChangePassword(context.Context, string, string) error { return errNotImplemented }
func (failingAPI) ForgetPassword(context.Context, string) error         { return errNotImplemented }
func (failingAPI) ResetPassword(context.Context, string, string, string) error {
	return errNotImplemented
}
