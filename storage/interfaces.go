package storage

import (
	"context"

	"github.com/sagedoc/docchat/core"
)

// SessionRepository provides persistence for session records.
// Implementations must be thread-safe and support concurrent access.
type SessionRepository interface {
	// AddSession stores a new session record.
	// Sets CreatedAt and UpdatedAt timestamps.
	// Returns ErrDuplicateKey if a record with the same ID already exists.
	AddSession(ctx context.Context, record *core.SessionRecord) (*core.SessionRecord, error)

	// UpdateSession replaces an existing session record.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if the record doesn't exist.
	UpdateSession(ctx context.Context, record *core.SessionRecord) (*core.SessionRecord, error)

	// GetSession retrieves a session record by ID.
	// Returns ErrNotFound if the record doesn't exist.
	GetSession(ctx context.Context, id string) (*core.SessionRecord, error)

	// DeleteSession removes a session record by ID.
	// Returns ErrNotFound if the record doesn't exist.
	DeleteSession(ctx context.Context, id string) error

	// ListSessionIDs returns the IDs of all stored sessions, sorted.
	ListSessionIDs(ctx context.Context) ([]string, error)

	// Close closes the storage backend and releases resources.
	Close() error
}
