package store

import (
	"context"
	"errors"
)

// Collection keys for the persisted state layout. Each key maps to one
// JSON document holding the entire collection.
const (
	KeyTickets  = "tickets"
	KeyProjects = "projects"
	KeyStaff    = "staff"
	KeySession  = "session"
	KeySettings = "settings"
)

// ErrNotFound is returned when a collection document has never been written.
var ErrNotFound = errors.New("collection not found")

// DocumentStore persists one opaque payload per named collection. The
// contract is read-entire-document, write-entire-document; there are no
// partial updates and no transaction spanning two keys. Concurrent writers
// resolve last-writer-wins.
type DocumentStore interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, payload []byte) error
	Delete(ctx context.Context, key string) error
}
