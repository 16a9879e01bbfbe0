package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vyrodovalexey/mongo-crud-api/internal/model"
)

// MemoryStore implements Store interface with in-memory storage.
type MemoryStore struct {
	mu    sync.RWMutex
	order []primitive.ObjectID
	items map[primitive.ObjectID]model.Document
}

// NewMemoryStore creates a new MemoryStore instance.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[primitive.ObjectID]model.Document),
	}
}

// List returns all documents in insertion order.
func (s *MemoryStore) List(ctx context.Context) ([]model.Document, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("list items: %w", ctx.Err())
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]model.Document, 0, len(s.items))
	for _, oid := range s.order {
		docs = append(docs, s.render(oid))
	}

	return docs, nil
}

// Get retrieves a document by its ID.
func (s *MemoryStore) Get(ctx context.Context, id string) (model.Document, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("get item: %w", ctx.Err())
	default:
	}

	oid, err := model.ParseID(id)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, exists := s.items[oid]; !exists {
		return nil, ErrNotFound
	}

	return s.render(oid), nil
}

// Create stores a copy of the document under a freshly generated ObjectID.
func (s *MemoryStore) Create(ctx context.Context, doc model.Document) (string, error) {
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("create item: %w", ctx.Err())
	default:
	}

	if doc == nil {
		return "", fmt.Errorf("create item: %w", ErrNilItem)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	oid := primitive.NewObjectID()
	stored := doc.Clone()
	delete(stored, model.IDField)
	s.items[oid] = stored
	s.order = append(s.order, oid)

	return oid.Hex(), nil
}

// Update merges the given fields into an existing document.
func (s *MemoryStore) Update(ctx context.Context, id string, doc model.Document) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("update item: %w", ctx.Err())
	default:
	}

	oid, err := model.ParseID(id)
	if err != nil {
		return err
	}

	if doc == nil {
		return fmt.Errorf("update item: %w", ErrNilItem)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.items[oid]
	if !exists {
		return ErrNotFound
	}

	// Dotted keys address nested fields, as $set does. Changes apply to a
	// copy so a failed path leaves the document untouched.
	updated := existing.Clone()
	for k, v := range doc.Clone() {
		if k == model.IDField {
			continue
		}
		if err := setPath(updated, k, v); err != nil {
			return fmt.Errorf("update item: %w", err)
		}
	}
	s.items[oid] = updated

	return nil
}

// setPath stores v under the dotted key, creating intermediate documents.
func setPath(doc model.Document, key string, v any) error {
	parts := strings.Split(key, ".")
	for _, part := range parts[:len(parts)-1] {
		next, exists := doc[part]
		if !exists {
			child := model.Document{}
			doc[part] = child
			doc = child
			continue
		}
		child, ok := next.(model.Document)
		if !ok {
			return fmt.Errorf("%w: %s", ErrFieldConflict, key)
		}
		doc = child
	}
	doc[parts[len(parts)-1]] = v
	return nil
}

// Delete removes a document by its ID.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("delete item: %w", ctx.Err())
	default:
	}

	oid, err := model.ParseID(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[oid]; !exists {
		return ErrNotFound
	}

	delete(s.items, oid)
	for i, o := range s.order {
		if o == oid {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	return nil
}

// Ping always succeeds for the in-memory store.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close(_ context.Context) error {
	return nil
}

// render returns a copy of the stored document with its stringified ID.
// Callers must hold s.mu.
func (s *MemoryStore) render(oid primitive.ObjectID) model.Document {
	doc := s.items[oid].Clone()
	doc[model.IDField] = oid.Hex()
	return doc
}
