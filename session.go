package campus

import (
	"context"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-campus/store"
	"github.com/goliatone/go-print"
)

// Controller is the single application-scoped session holder. It owns the
// reducer state, persists credentials through the injected store, and talks
// to the backend through the injected APIClient.
//
// Operations are not serialized: overlapping calls race and the last one to
// complete determines the final state. Callers that need mutual exclusion
// must provide it themselves.
type Controller struct {
	mu          sync.RWMutex
	state       State
	api         APIClient
	creds       store.CredentialStore
	logger      Logger
	sink        ActivitySink
	now         func() time.Time
	debug       bool
	subscribers map[int]func(State)
	nextSub     int
}

// ControllerOption customizes controller construction.
type ControllerOption func(*Controller)

// WithLogger overrides the default logger.
func WithLogger(logger Logger) ControllerOption {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithActivitySink sets the ActivitySink used to publish session events.
func WithActivitySink(sink ActivitySink) ControllerOption {
	return func(c *Controller) {
		c.sink = normalizeActivitySink(sink)
	}
}

// WithClock injects a custom clock (useful for tests).
func WithClock(clock func() time.Time) ControllerOption {
	return func(c *Controller) {
		if clock != nil {
			c.now = clock
		}
	}
}

// WithDebug enables verbose payload logging.
func WithDebug(debug bool) ControllerOption {
	return func(c *Controller) {
		c.debug = debug
	}
}

// NewController returns a session controller in the unauthenticated state.
// Call Bootstrap to resolve previously persisted credentials.
func NewController(api APIClient, creds store.CredentialStore, opts ...ControllerOption) *Controller {
	c := &Controller{
		api:         api,
		creds:       creds,
		logger:      defLogger{},
		sink:        noopActivitySink{},
		now:         time.Now,
		subscribers: map[int]func(State){},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	return c
}

// State returns the current session snapshot.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// CurrentUser returns the authenticated principal, nil when logged out.
func (c *Controller) CurrentUser() *User {
	return c.State().User
}

// IsAuthenticated reports whether a user is present.
func (c *Controller) IsAuthenticated() bool {
	return c.State().IsAuthenticated()
}

// Subscribe registers a listener invoked after every state transition. The
// returned function unsubscribes; calling it after the listener fired is
// safe, so components can detach mid-flight without stale notifications.
func (c *Controller) Subscribe(fn func(State)) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subscribers[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subscribers, id)
		c.mu.Unlock()
	}
}

// dispatch runs the action through the reducer and notifies subscribers
// outside the lock.
func (c *Controller) dispatch(a Action) State {
	c.mu.Lock()
	c.state = Reduce(c.state, a)
	next := c.state
	listeners := make([]func(State), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		listeners = append(listeners, fn)
	}
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(next)
	}
	return next
}

// Bootstrap resolves persisted credentials into a session. With no refresh
// token it settles to unauthenticated without any network call. Otherwise it
// refreshes the access token when needed and fetches the profile; any
// failure clears the stored pair and settles to unauthenticated.
func (c *Controller) Bootstrap(ctx context.Context) {
	if _, ok := c.creds.Refresh(); !ok {
		c.dispatch(Action{Kind: ActionBootstrapped})
		return
	}

	c.dispatch(Action{Kind: ActionStart})

	if _, ok := c.creds.Access(); !ok {
		if _, err := c.api.RefreshAccess(ctx); err != nil {
			c.logger.Warn("bootstrap refresh failed: %v", err)
			c.abandonSession(ctx)
			return
		}
	}

	user, err := c.api.Profile(ctx)
	if err != nil {
		c.logger.Warn("bootstrap profile fetch failed: %v", err)
		c.abandonSession(ctx)
		return
	}

	c.dispatch(Action{Kind: ActionAuthenticated, User: user})
	c.dispatch(Action{Kind: ActionBootstrapped})
}

func (c *Controller) abandonSession(ctx context.Context) {
	if err := c.creds.Clear(); err != nil {
		c.logger.Error("failed to clear credentials: %v", err)
	}
	c.dispatch(Action{Kind: ActionLogout})
	c.dispatch(Action{Kind: ActionBootstrapped})
	c.emit(ctx, ActivityEventSessionExpired, "", nil)
}

// Register creates an account pending OTP verification. Session state is not
// changed; the raw backend response is returned so the caller can carry the
// phone number into the verification step.
func (c *Controller) Register(ctx context.Context, phone, password string) (map[string]any, error) {
	c.dispatch(Action{Kind: ActionStart})

	res, err := c.api.Register(ctx, phone, password)
	if err != nil {
		return nil, c.fail(err, "")
	}

	if c.debug {
		c.logger.Debug("register response: %s", print.MaybePrettyJSON(res))
	}

	c.dispatch(Action{Kind: ActionSettled})
	return res, nil
}

// VerifyOTP confirms the one-time code sent during registration. On success
// the token pair is persisted and the session becomes authenticated with a
// minimal user carrying only the phone number; profile completion is a
// separate required step for new accounts.
func (c *Controller) VerifyOTP(ctx context.Context, phone, otp string) error {
	c.dispatch(Action{Kind: ActionStart})

	pair, err := c.api.VerifyOTP(ctx, phone, otp)
	if err != nil {
		return c.fail(err, "")
	}

	if err := c.creds.Save(pair.Access, pair.Refresh); err != nil {
		return c.fail(err, "")
	}

	c.dispatch(Action{Kind: ActionAuthenticated, User: &User{Phone: phone}})
	c.emit(ctx, ActivityEventOTPVerified, phone, nil)
	return nil
}

// Login exchanges credentials for a token pair, persists it, then fetches
// the full profile. A 400 from the backend maps to MsgInvalidCredentials;
// every other failure surfaces its own message.
func (c *Controller) Login(ctx context.Context, phone, password string) error {
	c.dispatch(Action{Kind: ActionStart})

	pair, err := c.api.Login(ctx, phone, password)
	if err != nil {
		if StatusCode(err) == goerrors.CodeBadRequest {
			c.emit(ctx, ActivityEventLoginFailure, phone, map[string]any{"error": MsgInvalidCredentials})
			return c.fail(ErrInvalidCredentials, MsgInvalidCredentials)
		}
		c.emit(ctx, ActivityEventLoginFailure, phone, map[string]any{"error": err.Error()})
		return c.fail(err, "")
	}

	if err := c.creds.Save(pair.Access, pair.Refresh); err != nil {
		return c.fail(err, "")
	}

	user, err := c.api.Profile(ctx)
	if err != nil {
		return c.fail(err, "")
	}

	c.dispatch(Action{Kind: ActionAuthenticated, User: user})
	c.emit(ctx, ActivityEventLoginSuccess, phone, nil)
	return nil
}

// Logout clears stored credentials and settles to unauthenticated. No
// network call is made.
func (c *Controller) Logout(ctx context.Context) {
	phone := ""
	if u := c.CurrentUser(); u != nil {
		phone = u.Phone
	}

	if err := c.creds.Clear(); err != nil {
		c.logger.Error("failed to clear credentials: %v", err)
	}

	c.dispatch(Action{Kind: ActionLogout})
	c.emit(ctx, ActivityEventLogout, phone, nil)
}

// ChangePassword updates the password server-side. Session identity is not
// altered; the backend decides whether re-authentication is required.
func (c *Controller) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	c.dispatch(Action{Kind: ActionStart})

	if err := c.api.ChangePassword(ctx, oldPassword, newPassword); err != nil {
		return c.fail(err, "")
	}

	c.dispatch(Action{Kind: ActionSettled})
	c.emit(ctx, ActivityEventPasswordChanged, "", nil)
	return nil
}

// ForgetPassword triggers the backend SMS dispatch for a reset OTP.
func (c *Controller) ForgetPassword(ctx context.Context, phone string) error {
	c.dispatch(Action{Kind: ActionStart})

	if err := c.api.ForgetPassword(ctx, phone); err != nil {
		return c.fail(err, "")
	}

	c.dispatch(Action{Kind: ActionSettled})
	return nil
}

// ResetPassword finalizes a password reset with the OTP. It does not log the
// user in; callers navigate to login separately.
func (c *Controller) ResetPassword(ctx context.Context, phone, otp, newPassword string) error {
	c.dispatch(Action{Kind: ActionStart})

	if err := c.api.ResetPassword(ctx, phone, otp, newPassword); err != nil {
		return c.fail(err, "")
	}

	c.dispatch(Action{Kind: ActionSettled})
	c.emit(ctx, ActivityEventPasswordReset, phone, nil)
	return nil
}

// CompleteProfile is the post-verification profile step for new accounts.
// It tags the account as a student as part of the payload.
func (c *Controller) CompleteProfile(ctx context.Context, fields map[string]string, image *Upload) error {
	merged := make(map[string]string, len(fields)+1)
	for k, v := range fields {
		merged[k] = v
	}
	merged["user_type"] = UserTypeStudent
	return c.UpdateProfile(ctx, merged, image)
}

// UpdateProfile patches the profile. With an image the request switches to
// multipart encoding; without one it stays JSON. On success the stored user
// is replaced wholesale with the response.
func (c *Controller) UpdateProfile(ctx context.Context, fields map[string]string, image *Upload) error {
	c.dispatch(Action{Kind: ActionStart})

	user, err := c.api.UpdateProfile(ctx, fields, image)
	if err != nil {
		return c.fail(err, "")
	}

	if c.debug {
		c.logger.Debug("profile response: %s", print.MaybePrettyJSON(user))
	}

	c.dispatch(Action{Kind: ActionAuthenticated, User: user})
	c.emit(ctx, ActivityEventProfileUpdated, user.Phone, nil)
	return nil
}

// ClearError clears the ambient error message, nothing else.
func (c *Controller) ClearError() {
	c.dispatch(Action{Kind: ActionErrorCleared})
}

// fail stores the failure message for ambient display and re-throws the
// error so form-level handlers can react contextually.
func (c *Controller) fail(err error, message string) error {
	if message == "" {
		message = ErrorMessage(err)
	}
	c.dispatch(Action{Kind: ActionFailure, Message: message})
	c.logger.Debug("session operation failed: %v", err)
	return err
}

func (c *Controller) emit(ctx context.Context, eventType ActivityEventType, phone string, metadata map[string]any) {
	event := ActivityEvent{
		EventType:  eventType,
		Phone:      phone,
		Metadata:   metadata,
		OccurredAt: c.now(),
	}

	sink := normalizeActivitySink(c.sink)
	if err := sink.Record(ctx, event); err != nil {
		c.logger.Warn("activity sink record error: %v", err)
	}
}
