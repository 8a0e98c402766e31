// Package sessionstore keeps server-side sessions keyed by an opaque id, each
// valid for a fixed TTL.
// File: sessionstore/store.go
package sessionstore

import (
	"context"
	"time"

	"github.com/google/uuid"

	"car-showcase/models"
)

// DefaultTTL is how long a session lives after sign-in.
const DefaultTTL = 7 * 24 * time.Hour

// Store is implemented by Memory, SQL and Redis.
type Store interface {
	// Create starts a session for userID.
	Create(ctx context.Context, userID int64) (models.Session, error)
	// Get returns the live session for id. Expired sessions are reported absent.
	Get(ctx context.Context, id string) (models.Session, bool, error)
	// Destroy removes the session. Unknown ids are not an error.
	Destroy(ctx context.Context, id string) error
	// Sweep evicts expired sessions and returns how many were removed.
	Sweep(ctx context.Context) (int, error)
	Close() error
}

type options struct {
	ttl   time.Duration
	now   func() time.Time
	newID func() string
	max   int
}

// Option configures any Store.
type Option func(*options)

func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDGenerator replaces uuid.NewString, mostly for tests.
func WithIDGenerator(newID func() string) Option {
	return func(o *options) { o.newID = newID }
}

// WithMaxSessions caps the in-memory store. Zero means unbounded. Other stores ignore it.
func WithMaxSessions(n int) Option {
	return func(o *options) { o.max = n }
}

func buildOptions(opts []Option) options {
	o := options{ttl: DefaultTTL, now: time.Now, newID: uuid.NewString}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

func (o options) newSession(userID int64) models.Session {
	return models.Session{
		ID:        o.newID(),
		UserID:    userID,
		ExpiresAt: o.now().UTC().Add(o.ttl).Truncate(time.Microsecond),
	}
}
