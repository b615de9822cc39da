package events

import (
	"context"
	"time"
)

type Type string

const (
	TypeLogin  Type = "login"
	TypeLogout Type = "logout"
)

// Event records that a user has logged in or out
type Event struct {
	Type      Type      `json:"type"`
	UserName  string    `json:"user_name"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher delivers events to interested consumers
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// NopPublisher discards all events; it's used when no message broker is configured
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, ev Event) error {
	return nil
}
