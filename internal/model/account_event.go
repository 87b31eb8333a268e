package model

import "time"

const (
	EventUserRegistered = "user.registered"
	EventProfileDeleted = "profile.deleted"
	EventPostCreated    = "post.created"
)

// AccountEvent is the audit-trail record published to the broker and
// persisted by the audit worker.
type AccountEvent struct {
	Kind       string    `bson:"kind" json:"kind"`
	UserID     string    `bson:"user_id" json:"user_id"`
	Detail     string    `bson:"detail,omitempty" json:"detail,omitempty"`
	OccurredAt time.Time `bson:"occurred_at" json:"occurred_at"`
}
