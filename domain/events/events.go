package events

import "time"

// DomainEvent is the contract every published event satisfies.
type DomainEvent interface {
	EventType() string
	OccurredAt() time.Time
}

// BaseEvent carries the fields shared by all events.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

// OccurredAt returns when the event happened.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// NewBaseEvent stamps an event with the current time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now().UTC()}
}

// FollowCreated is published after a follow edge is written.
type FollowCreated struct {
	BaseEvent
	FollowerID  string `json:"followerId"`
	FollowingID string `json:"followingId"`
}

func (FollowCreated) EventType() string { return "reach.follow.created" }

// FollowDeleted is published after a follow edge is removed.
type FollowDeleted struct {
	BaseEvent
	FollowerID  string `json:"followerId"`
	FollowingID string `json:"followingId"`
}

func (FollowDeleted) EventType() string { return "reach.follow.deleted" }

// PostCreated is published after a post is written.
type PostCreated struct {
	BaseEvent
	PostID string `json:"postId"`
	UserID string `json:"userId"`
}

func (PostCreated) EventType() string { return "reach.post.created" }
