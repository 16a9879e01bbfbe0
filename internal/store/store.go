// Package store provides data storage interfaces and implementations.
package store

import (
	"context"
	"errors"

	"github.com/vyrodovalexey/mongo-crud-api/internal/model"
)

// Store errors.
var (
	ErrNotFound = errors.New("item not found")
	ErrNilItem  = errors.New("item cannot be nil")

	// ErrFieldConflict is returned when a dotted update path runs through a
	// value that is not a document.
	ErrFieldConflict = errors.New("field path crosses a non-document value")
)

// ErrInvalidID is returned for identifiers that are not well-formed ObjectIDs.
var ErrInvalidID = model.ErrInvalidID

// Store defines the interface for document storage operations.
type Store interface {
	// List returns all documents from the collection.
	List(ctx context.Context) ([]model.Document, error)

	// Get retrieves a document by its ID.
	Get(ctx context.Context, id string) (model.Document, error)

	// Create inserts a document and returns the generated ID.
	Create(ctx context.Context, doc model.Document) (string, error)

	// Update sets the given fields on an existing document.
	Update(ctx context.Context, id string, doc model.Document) error

	// Delete removes a document by its ID.
	Delete(ctx context.Context, id string) error

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error

	// Close releases the underlying connection.
	Close(ctx context.Context) error
}
