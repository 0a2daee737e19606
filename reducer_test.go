package campus_test

import (
	"testing"

	campus "github.com/goliatone/go-campus"
	"github.com/stretchr/testify/assert"
)

func TestReduceStartSetsLoadingAndClearsError(t *testing.T) {
	s := campus.Reduce(campus.State{Error: "previous failure"}, campus.Action{Kind: campus.ActionStart})

	assert.True(t, s.Loading)
	assert.Empty(t, s.Error)
}

func TestReduceAuthenticatedInstallsUser(t *testing.T) {
	user := &campus.User{Phone: "01712345678"}
	s := campus.Reduce(campus.State{Loading: true}, campus.Action{
		Kind: campus.ActionAuthenticated,
		User: user,
	})

	assert.Same(t, user, s.User)
	assert.True(t, s.IsAuthenticated())
	assert.False(t, s.Loading)
	assert.Empty(t, s.Error)
}

func TestReduceFailureStoresMessage(t *testing.T) {
	s := campus.Reduce(campus.State{Loading: true}, campus.Action{
		Kind:    campus.ActionFailure,
		Message: campus.MsgInvalidCredentials,
	})

	assert.False(t, s.Loading)
	assert.Equal(t, campus.MsgInvalidCredentials, s.Error)
}

func TestReduceFailureKeepsExistingUser(t *testing.T) {
	user := &campus.User{Phone: "01712345678"}
	s := campus.Reduce(campus.State{User: user}, campus.Action{
		Kind:    campus.ActionFailure,
		Message: "profile update failed",
	})

	assert.Same(t, user, s.User, "a failed operation must not log the user out")
}

func TestReduceLogoutDropsUser(t *testing.T) {
	s := campus.Reduce(campus.State{
		User:         &campus.User{Phone: "01712345678"},
		Error:        "stale",
		Bootstrapped: true,
	}, campus.Action{Kind: campus.ActionLogout})

	assert.Nil(t, s.User)
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Error)
	assert.True(t, s.Bootstrapped, "logout does not undo bootstrap")
}

func TestReduceSettledOnlyEndsLoading(t *testing.T) {
	user := &campus.User{Phone: "01712345678"}
	s := campus.Reduce(campus.State{User: user, Loading: true}, campus.Action{Kind: campus.ActionSettled})

	assert.False(t, s.Loading)
	assert.Same(t, user, s.User)
}

func TestReduceErrorClearedTouchesNothingElse(t *testing.T) {
	user := &campus.User{Phone: "01712345678"}
	s := campus.Reduce(campus.State{User: user, Loading: true, Error: "oops"}, campus.Action{
		Kind: campus.ActionErrorCleared,
	})

	assert.Empty(t, s.Error)
	assert.True(t, s.Loading)
	assert.Same(t, user, s.User)
}

func TestReduceBootstrappedSettles(t *testing.T) {
	s := campus.Reduce(campus.State{Loading: true}, campus.Action{Kind: campus.ActionBootstrapped})

	assert.True(t, s.Bootstrapped)
	assert.False(t, s.Loading)
}

func TestReduceIsPure(t *testing.T) {
	original := campus.State{Error: "before"}
	_ = campus.Reduce(original, campus.Action{Kind: campus.ActionStart})

	assert.Equal(t, "before", original.Error, "input state must not be mutated")
}

func TestReduceUnknownActionIsNoop(t *testing.T) {
	original := campus.State{User: &campus.User{Phone: "01712345678"}, Bootstrapped: true}
	s := campus.Reduce(original, campus.Action{Kind: campus.ActionKind("session.unknown")})

	assert.Equal(t, original, s)
}
