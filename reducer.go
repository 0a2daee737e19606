package campus

// State is the session snapshot the UI renders from. It is an immutable
// value; every transition produces a fresh copy through Reduce.
type State struct {
	// User is the current authenticated principal, nil when logged out.
	User *User
	// Loading is true while an auth operation, including the initial
	// bootstrap, is in flight.
	Loading bool
	// Error holds the last operation's failure message. Cleared on the next
	// field edit or an explicit clear.
	Error string
	// Bootstrapped flips to true once the initial credential resolution has
	// settled, successfully or not.
	Bootstrapped bool
}

// IsAuthenticated is derived state: true iff a user is present.
func (s State) IsAuthenticated() bool {
	return s.User != nil
}

// ActionKind tags a session transition.
type ActionKind string

const (
	// ActionStart marks the beginning of an operation: loading on, error off.
	ActionStart ActionKind = "session.start"
	// ActionAuthenticated installs a user and ends the in-flight operation.
	ActionAuthenticated ActionKind = "session.authenticated"
	// ActionSettled ends an operation that does not change identity.
	ActionSettled ActionKind = "session.settled"
	// ActionFailure records an operation error and ends the operation.
	ActionFailure ActionKind = "session.failure"
	// ActionLogout drops the user and credentials-derived state.
	ActionLogout ActionKind = "session.logout"
	// ActionErrorCleared clears the error, nothing else.
	ActionErrorCleared ActionKind = "session.error.cleared"
	// ActionBootstrapped marks the initial resolution as complete.
	ActionBootstrapped ActionKind = "session.bootstrapped"
)

// Action is the tagged union dispatched into Reduce.
type Action struct {
	Kind    ActionKind
	User    *User
	Message string
}

// Reduce is the pure transition function for session state. Keeping it free
// of I/O keeps the transition table auditable and unit-testable on its own.
func Reduce(s State, a Action) State {
	switch a.Kind {
	case ActionStart:
		s.Loading = true
		s.Error = ""
	case ActionAuthenticated:
		s.User = a.User
		s.Loading = false
		s.Error = ""
	case ActionSettled:
		s.Loading = false
	case ActionFailure:
		s.Loading = false
		s.Error = a.Message
	case ActionLogout:
		s.User = nil
		s.Loading = false
		s.Error = ""
	case ActionErrorCleared:
		s.Error = ""
	case ActionBootstrapped:
		s.Bootstrapped = true
		s.Loading = false
	}
	return s
}
