// Package activitymap converts session activity events into a generic,
// transport-agnostic shape so downstream systems (log shippers, analytics,
// queues) do not need to know the session package's types.
package activitymap

import (
	"strings"
	"time"

	campus "github.com/goliatone/go-campus"
)

const (
	defaultChannel    = "session"
	defaultObjectType = "account"
	defaultActorID    = "anonymous"
)

// Normalized is the flattened activity shape for downstream systems.
type Normalized struct {
	ActorID    string         `json:"actor_id"`
	Verb       string         `json:"verb"`
	ObjectType string         `json:"object_type,omitempty"`
	ObjectID   string         `json:"object_id,omitempty"`
	Channel    string         `json:"channel,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// Option customizes normalization behavior.
type Option func(*normalizeOptions)

type normalizeOptions struct {
	channel       string
	objectType    string
	actorFallback string
}

func defaultNormalizeOptions() normalizeOptions {
	return normalizeOptions{
		channel:       defaultChannel,
		objectType:    defaultObjectType,
		actorFallback: defaultActorID,
	}
}

// WithDefaultChannel sets the channel for normalized records.
func WithDefaultChannel(channel string) Option {
	return func(opts *normalizeOptions) {
		if opts == nil {
			return
		}
		opts.channel = strings.TrimSpace(channel)
	}
}

// WithDefaultObjectType sets the object type for normalized records.
func WithDefaultObjectType(objectType string) Option {
	return func(opts *normalizeOptions) {
		if opts == nil {
			return
		}
		opts.objectType = strings.TrimSpace(objectType)
	}
}

// WithActorFallback sets the actor id used when the event carries no phone
// number, e.g. a session expiry discovered during bootstrap.
func WithActorFallback(actorID string) Option {
	return func(opts *normalizeOptions) {
		if opts == nil {
			return
		}
		opts.actorFallback = strings.TrimSpace(actorID)
	}
}

// Normalize converts a session activity event into the generic shape. The
// verb is the event type with its "session." prefix stripped, so
// "session.login.success" comes out as "login.success".
func Normalize(event campus.ActivityEvent, opts ...Option) Normalized {
	options := defaultNormalizeOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}

	phone := strings.TrimSpace(event.Phone)
	actorID := phone
	if actorID == "" {
		actorID = options.actorFallback
	}

	var metadata map[string]any
	if len(event.Metadata) > 0 {
		metadata = make(map[string]any, len(event.Metadata))
		for k, v := range event.Metadata {
			metadata[k] = v
		}
	}

	occurredAt := event.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	return Normalized{
		ActorID:    actorID,
		Verb:       verb(event.EventType),
		ObjectType: options.objectType,
		ObjectID:   phone,
		Channel:    options.channel,
		Metadata:   metadata,
		OccurredAt: occurredAt,
	}
}

func verb(eventType campus.ActivityEventType) string {
	s := string(eventType)
	if rest, ok := strings.CutPrefix(s, "session."); ok && rest != "" {
		return rest
	}
	return s
}
