package campus

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	// MsgInvalidCredentials is the user-facing message for a rejected login.
	MsgInvalidCredentials = "Invalid phone number or password"
	// MsgNetworkError is the user-facing message for transport level failures.
	MsgNetworkError = "Network error occurred"
)

const (
	textCodeInvalidCredentials = "INVALID_CREDENTIALS"
	textCodeNoRefreshToken     = "NO_REFRESH_TOKEN"
	textCodeSessionExpired     = "SESSION_EXPIRED"
	textCodeNetworkError       = "NETWORK_ERROR"
)

// ErrInvalidCredentials is returned when the backend rejects a login attempt.
var ErrInvalidCredentials = goerrors.New(MsgInvalidCredentials, goerrors.CategoryAuth).
	WithTextCode(textCodeInvalidCredentials).
	WithCode(goerrors.CodeBadRequest)

// ErrNoRefreshToken is returned when a refresh is attempted without a stored
// refresh token. No network call is made in that case.
var ErrNoRefreshToken = goerrors.New("no refresh token available", goerrors.CategoryAuth).
	WithTextCode(textCodeNoRefreshToken).
	WithCode(goerrors.CodeUnauthorized)

// ErrSessionExpired is returned after a failed token refresh. The credential
// store is cleared before this error surfaces; the session is over.
var ErrSessionExpired = goerrors.New("session expired", goerrors.CategoryAuth).
	WithTextCode(textCodeSessionExpired).
	WithCode(goerrors.CodeUnauthorized)

// ErrNetwork is returned when the request never produced an HTTP response,
// or when the response body could not be decoded. Carries status 0.
var ErrNetwork = goerrors.New(MsgNetworkError, goerrors.CategoryOperation).
	WithTextCode(textCodeNetworkError)

// StatusCode extracts the HTTP status carried by a structured error. Network
// level failures report 0.
func StatusCode(err error) int {
	if err == nil {
		return 0
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		if goerrors.Is(err, ErrNetwork) {
			return 0
		}
		return richErr.Code
	}
	return 0
}

// ErrorMessage extracts the human readable message for display.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) && richErr.Message != "" {
		return richErr.Message
	}
	return err.Error()
}

// IsNetworkError checks whether the failure happened below the HTTP layer.
func IsNetworkError(err error) bool {
	return goerrors.Is(err, ErrNetwork)
}
