// Package campus holds the client-side session and auth manager for the
// course platform front end: credential persistence, the session state
// machine, and form validation helpers.
//
// Session lifecycle:
//   - Controller owns a single session State and evolves it through a pure
//     reducer. Bootstrap resolves previously persisted tokens into a session
//     at startup; with no stored refresh token it settles to unauthenticated
//     without touching the network.
//   - Tokens are opaque to this package. Expiry is discovered reactively:
//     the HTTP client reacts to a 401 by refreshing once and retrying, and
//     a failed refresh fails closed by clearing both tokens.
//
// Activity sinks:
//   - ActivitySink is a light-weight audit emitter the Controller uses to
//     describe login, logout, OTP, profile, and password events. Sinks run
//     best-effort (errors are logged) so you can forward to a database or
//     queue without blocking the session.
//
// Forms:
//   - Form is the per-submission validation helper: a field/value map, a
//     field/error map, and validate-then-call submission orchestration with
//     the Bangladeshi phone number rules the backend expects.
package campus
