package campus

import (
	"context"
	"time"
)

// ActivityEventType enumerates supported activity categories.
type ActivityEventType string

const (
	ActivityEventLoginSuccess    ActivityEventType = "session.login.success"
	ActivityEventLoginFailure    ActivityEventType = "session.login.failure"
	ActivityEventOTPVerified     ActivityEventType = "session.otp.verified"
	ActivityEventLogout          ActivityEventType = "session.logout"
	ActivityEventProfileUpdated  ActivityEventType = "session.profile.updated"
	ActivityEventPasswordChanged ActivityEventType = "session.password.changed"
	ActivityEventPasswordReset   ActivityEventType = "session.password.reset"
	ActivityEventSessionExpired  ActivityEventType = "session.expired"
)

// ActivityEvent captures audit-friendly information about a session action.
type ActivityEvent struct {
	EventType  ActivityEventType
	Phone      string
	Metadata   map[string]any
	OccurredAt time.Time
}

// ActivitySink consumes activity events for auditing/telemetry purposes.
type ActivitySink interface {
	Record(ctx context.Context, event ActivityEvent) error
}

// ActivitySinkFunc adapts a function to the ActivitySink interface.
type ActivitySinkFunc func(ctx context.Context, event ActivityEvent) error

// Record implements ActivitySink.
func (f ActivitySinkFunc) Record(ctx context.Context, event ActivityEvent) error {
	if f == nil {
		return nil
	}
	return f(ctx, event)
}

type noopActivitySink struct{}

func (noopActivitySink) Record(context.Context, ActivityEvent) error {
	return nil
}

func normalizeActivitySink(s ActivitySink) ActivitySink {
	if s == nil {
		return noopActivitySink{}
	}
	return s
}
