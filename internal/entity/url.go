// Package entity defines the entities and errors used in the application.
// It includes the URL struct, which represents a single binding between a
// short code and the original URL it resolves to.
package entity

import (
	"errors"
	"time"
)

var (
	// ErrCounterUnavailable is returned when the atomic increment of the ID counter
	// fails or yields no usable value. The increment is never retried internally: a
	// retry could re-increment and burn ID space without bound.
	ErrCounterUnavailable = errors.New("id counter unavailable")
	// ErrURLNotFound is returned when no binding exists for the requested short code.
	// This is an expected condition (unknown or mistyped codes), distinct from a
	// store connectivity failure.
	ErrURLNotFound = errors.New("url not found")
	// ErrShortCodeExists is returned when a binding insert collides with an existing
	// short code. With a strictly increasing counter this indicates counter reuse.
	ErrShortCodeExists = errors.New("short code exists")
)

// URL represents a binding created at allocation time. Bindings are immutable:
// they are written exactly once and never updated or deleted.
type URL struct {
	ShortCode   string    // ShortCode is the base-62 image of the counter value that allocated this binding.
	OriginalURL string    // OriginalURL is the full URL that the short code resolves to.
	CreatedAt   time.Time // CreatedAt is the timestamp when the binding was allocated.
}
