package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by a Store when no live session exists with the given ID
var ErrNotFound = errors.New("session not found")

// Values is the contents of a single session
type Values map[string]interface{}

func (v Values) clone() Values {
	c := make(Values, len(v))
	for key, value := range v {
		c[key] = value
	}
	return c
}

// Store persists session values by ID
type Store interface {
	Load(ctx context.Context, id string) (Values, error)
	Save(ctx context.Context, id string, values Values, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}
