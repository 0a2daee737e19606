package campus

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// TokenPair holds the two opaque bearer tokens issued by the backend.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Upload is a file attached to a multipart profile update.
type Upload struct {
	Filename    string
	ContentType string
	Content     []byte
}

// APIClient is the backend surface the session controller consumes.
// The concrete implementation lives in the client package.
type APIClient interface {
	Register(ctx context.Context, phone, password string) (map[string]any, error)
	VerifyOTP(ctx context.Context, phone, otp string) (*TokenPair, error)
	Login(ctx context.Context, phone, password string) (*TokenPair, error)
	RefreshAccess(ctx context.Context) (string, error)
	Profile(ctx context.Context) (*User, error)
	UpdateProfile(ctx context.Context, fields map[string]string, image *Upload) (*User, error)
	ChangePassword(ctx context.Context, oldPassword, newPassword string) error
	ForgetPassword(ctx context.Context, phone string) error
	ResetPassword(ctx context.Context, phone, otp, newPassword string) error
}

// Config holds session options
type Config interface {
	GetBaseURL() string
	GetLoginPath() string
	GetDashboardPath() string
	GetDebug() bool
}

// DefaultLogger returns the stdout printf logger used when no Logger is
// injected.
func DefaultLogger() Logger {
	return defLogger{}
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] CAMPUS "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] CAMPUS "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] CAMPUS "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] CAMPUS "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
