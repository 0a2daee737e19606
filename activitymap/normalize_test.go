package activitymap_test

import (
	"testing"
	"time"

	campus "github.com/goliatone/go-campus"
	"github.com/goliatone/go-campus/activitymap"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeStripsSessionPrefixFromVerb(t *testing.T) {
	occurred := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	out := activitymap.Normalize(campus.ActivityEvent{
		EventType:  campus.ActivityEventLoginSuccess,
		Phone:      "01712345678",
		OccurredAt: occurred,
	})

	assert.Equal(t, "login.success", out.Verb)
	assert.Equal(t, "01712345678", out.ActorID)
	assert.Equal(t, "01712345678", out.ObjectID)
	assert.Equal(t, "session", out.Channel)
	assert.Equal(t, "account", out.ObjectType)
	assert.Equal(t, occurred, out.OccurredAt)
}

func TestNormalizeFallsBackToAnonymousActor(t *testing.T) {
	out := activitymap.Normalize(campus.ActivityEvent{
		EventType: campus.ActivityEventSessionExpired,
	})

	assert.Equal(t, "anonymous", out.ActorID)
	assert.Empty(t, out.ObjectID)
	assert.Equal(t, "expired", out.Verb)
}

func TestNormalizeOptions(t *testing.T) {
	out := activitymap.Normalize(campus.ActivityEvent{
		EventType: campus.ActivityEventLogout,
		Phone:     "  01712345678  ",
	},
		activitymap.WithDefaultChannel("audit"),
		activitymap.WithDefaultObjectType("student"),
		activitymap.WithActorFallback("system"),
	)

	assert.Equal(t, "audit", out.Channel)
	assert.Equal(t, "student", out.ObjectType)
	assert.Equal(t, "01712345678", out.ActorID, "phone wins over fallback")
}

func TestNormalizeCopiesMetadata(t *testing.T) {
	original := map[string]any{"error": "boom"}
	out := activitymap.Normalize(campus.ActivityEvent{
		EventType: campus.ActivityEventLoginFailure,
		Phone:     "01712345678",
		Metadata:  original,
	})

	out.Metadata["error"] = "changed"
	assert.Equal(t, "boom", original["error"], "metadata must be copied, not shared")
}

func TestNormalizeDefaultsOccurredAt(t *testing.T) {
	out := activitymap.Normalize(campus.ActivityEvent{EventType: campus.ActivityEventLogout})
	assert.WithinDuration(t, time.Now().UTC(), out.OccurredAt, 5*time.Second)
}
