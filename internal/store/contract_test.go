package store

import (
	"context"
	"errors"
	"testing"

	"github.com/vyrodovalexey/mongo-crud-api/internal/model"
)

const missingID = "65f1c2a9b4d3e8f7a6b5c4d3"

// testStoreContract exercises the behaviour every Store backend must share.
func testStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	t.Helper()

	t.Run("create then get round trips", func(t *testing.T) {
		// Arrange
		s := newStore(t)
		ctx := context.Background()
		doc := model.Document{"name": "pen", "price": int64(10)}

		// Act
		id, err := s.Create(ctx, doc)
		if err != nil {
			t.Fatalf("Create() unexpected error: %v", err)
		}
		got, err := s.Get(ctx, id)

		// Assert
		if err != nil {
			t.Fatalf("Get() unexpected error: %v", err)
		}
		if len(id) != 24 {
			t.Errorf("id = %q, want 24 hex characters", id)
		}
		if got.ID() != id {
			t.Errorf("Get()._id = %s, want %s", got.ID(), id)
		}
		delete(got, model.IDField)
		if !got.Equal(doc) {
			t.Errorf("Get() = %v, want %v", got, doc)
		}
	})

	t.Run("list empty collection", func(t *testing.T) {
		// Arrange
		s := newStore(t)

		// Act
		docs, err := s.List(context.Background())

		// Assert
		if err != nil {
			t.Fatalf("List() unexpected error: %v", err)
		}
		if docs == nil || len(docs) != 0 {
			t.Errorf("List() = %v, want empty non-nil slice", docs)
		}
	})

	t.Run("list returns stringified ids", func(t *testing.T) {
		// Arrange
		s := newStore(t)
		ctx := context.Background()
		ids := map[string]bool{}
		for _, name := range []string{"a", "b", "c"} {
			id, err := s.Create(ctx, model.Document{"name": name})
			if err != nil {
				t.Fatalf("Create() unexpected error: %v", err)
			}
			ids[id] = true
		}

		// Act
		docs, err := s.List(ctx)

		// Assert
		if err != nil {
			t.Fatalf("List() unexpected error: %v", err)
		}
		if len(docs) != 3 {
			t.Fatalf("List() returned %d docs, want 3", len(docs))
		}
		for _, d := range docs {
			if !ids[d.ID()] {
				t.Errorf("unexpected _id %v", d[model.IDField])
			}
		}
	})

	t.Run("update merges fields", func(t *testing.T) {
		// Arrange
		s := newStore(t)
		ctx := context.Background()
		id, err := s.Create(ctx, model.Document{"name": "pen", "price": int64(10)})
		if err != nil {
			t.Fatalf("Create() unexpected error: %v", err)
		}

		// Act
		err = s.Update(ctx, id, model.Document{"price": int64(12), "color": "red"})

		// Assert
		if err != nil {
			t.Fatalf("Update() unexpected error: %v", err)
		}
		got, err := s.Get(ctx, id)
		if err != nil {
			t.Fatalf("Get() unexpected error: %v", err)
		}
		want := model.Document{model.IDField: id, "name": "pen", "price": int64(12), "color": "red"}
		if !got.Equal(want) {
			t.Errorf("Get() = %v, want %v", got, want)
		}
	})

	t.Run("dotted update keys set nested fields", func(t *testing.T) {
		// Arrange
		s := newStore(t)
		ctx := context.Background()
		id, err := s.Create(ctx, model.Document{
			"name": "pen",
			"details": model.Document{"color": "red"},
		})
		if err != nil {
			t.Fatalf("Create() unexpected error: %v", err)
		}

		// Act
		err = s.Update(ctx, id, model.Document{"details.size": int64(3), "box.count": int64(12)})

		// Assert
		if err != nil {
			t.Fatalf("Update() unexpected error: %v", err)
		}
		got, err := s.Get(ctx, id)
		if err != nil {
			t.Fatalf("Get() unexpected error: %v", err)
		}
		want := model.Document{
			model.IDField: id,
			"name":        "pen",
			"details":     model.Document{"color": "red", "size": int64(3)},
			"box":         model.Document{"count": int64(12)},
		}
		if !got.Equal(want) {
			t.Errorf("Get() = %v, want %v", got, want)
		}
	})

	t.Run("dotted update through a scalar fails without changes", func(t *testing.T) {
		// Arrange
		s := newStore(t)
		ctx := context.Background()
		id, err := s.Create(ctx, model.Document{"name": "pen", "price": int64(10)})
		if err != nil {
			t.Fatalf("Create() unexpected error: %v", err)
		}

		// Act
		err = s.Update(ctx, id, model.Document{"color": "red", "name.first": "x"})

		// Assert
		if err == nil {
			t.Fatal("Update() expected error for path through a string")
		}
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidID) {
			t.Errorf("Update() error = %v, want a write failure", err)
		}
		got, err := s.Get(ctx, id)
		if err != nil {
			t.Fatalf("Get() unexpected error: %v", err)
		}
		want := model.Document{model.IDField: id, "name": "pen", "price": int64(10)}
		if !got.Equal(want) {
			t.Errorf("Get() = %v, want %v", got, want)
		}
	})

	t.Run("empty update keeps document", func(t *testing.T) {
		// Arrange
		s := newStore(t)
		ctx := context.Background()
		id, err := s.Create(ctx, model.Document{"name": "pen"})
		if err != nil {
			t.Fatalf("Create() unexpected error: %v", err)
		}

		// Act
		err = s.Update(ctx, id, model.Document{})

		// Assert
		if err != nil {
			t.Fatalf("Update() unexpected error: %v", err)
		}
		if err := s.Update(ctx, missingID, model.Document{}); !errors.Is(err, ErrNotFound) {
			t.Errorf("Update(missing, {}) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("delete then get is not found", func(t *testing.T) {
		// Arrange
		s := newStore(t)
		ctx := context.Background()
		id, err := s.Create(ctx, model.Document{"name": "pen"})
		if err != nil {
			t.Fatalf("Create() unexpected error: %v", err)
		}

		// Act
		err = s.Delete(ctx, id)

		// Assert
		if err != nil {
			t.Fatalf("Delete() unexpected error: %v", err)
		}
		if _, err := s.Get(ctx, id); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
		}
		if err := s.Delete(ctx, id); !errors.Is(err, ErrNotFound) {
			t.Errorf("second Delete() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("missing ids are not found", func(t *testing.T) {
		// Arrange
		s := newStore(t)
		ctx := context.Background()

		// Act & Assert
		if _, err := s.Get(ctx, missingID); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get() error = %v, want ErrNotFound", err)
		}
		if err := s.Update(ctx, missingID, model.Document{"a": int64(1)}); !errors.Is(err, ErrNotFound) {
			t.Errorf("Update() error = %v, want ErrNotFound", err)
		}
		if err := s.Delete(ctx, missingID); !errors.Is(err, ErrNotFound) {
			t.Errorf("Delete() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("malformed ids are rejected", func(t *testing.T) {
		// Arrange
		s := newStore(t)
		ctx := context.Background()

		for _, id := range []string{"", "not-a-valid-id", "65f1c2a9b4d3e8f7a6b5c4dZ"} {
			// Act & Assert
			if _, err := s.Get(ctx, id); !errors.Is(err, ErrInvalidID) {
				t.Errorf("Get(%q) error = %v, want ErrInvalidID", id, err)
			}
			if err := s.Update(ctx, id, model.Document{"a": int64(1)}); !errors.Is(err, ErrInvalidID) {
				t.Errorf("Update(%q) error = %v, want ErrInvalidID", id, err)
			}
			if err := s.Delete(ctx, id); !errors.Is(err, ErrInvalidID) {
				t.Errorf("Delete(%q) error = %v, want ErrInvalidID", id, err)
			}
		}
	})

	t.Run("nil document rejected", func(t *testing.T) {
		// Arrange
		s := newStore(t)

		// Act
		_, err := s.Create(context.Background(), nil)

		// Assert
		if !errors.Is(err, ErrNilItem) {
			t.Errorf("Create(nil) error = %v, want ErrNilItem", err)
		}
	})
}
