package store

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/vyrodovalexey/mongo-crud-api/internal/model"
)

func TestInstrumentedStore_Contract(t *testing.T) {
	testStoreContract(t, func(_ *testing.T) Store {
		return NewInstrumentedStore(NewMemoryStore())
	})
}

func TestInstrumentedStore_RecordsResults(t *testing.T) {
	// Arrange
	s := NewInstrumentedStore(NewMemoryStore())
	ctx := context.Background()
	okBefore := testutil.ToFloat64(storeOperationsTotal.WithLabelValues("get", resultOK))
	notFoundBefore := testutil.ToFloat64(storeOperationsTotal.WithLabelValues("get", resultNotFound))
	invalidBefore := testutil.ToFloat64(storeOperationsTotal.WithLabelValues("delete", resultInvalidID))

	id, err := s.Create(ctx, model.Document{"name": "pen"})
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}

	// Act
	_, _ = s.Get(ctx, id)
	_, _ = s.Get(ctx, missingID)
	_ = s.Delete(ctx, "bad")

	// Assert
	if got := testutil.ToFloat64(storeOperationsTotal.WithLabelValues("get", resultOK)); got != okBefore+1 {
		t.Errorf("get/ok = %v, want %v", got, okBefore+1)
	}
	if got := testutil.ToFloat64(storeOperationsTotal.WithLabelValues("get", resultNotFound)); got != notFoundBefore+1 {
		t.Errorf("get/not_found = %v, want %v", got, notFoundBefore+1)
	}
	if got := testutil.ToFloat64(storeOperationsTotal.WithLabelValues("delete", resultInvalidID)); got != invalidBefore+1 {
		t.Errorf("delete/invalid_id = %v, want %v", got, invalidBefore+1)
	}
}

func TestResultLabel(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: resultOK},
		{name: "not found", err: ErrNotFound, want: resultNotFound},
		{name: "invalid id", err: model.ErrInvalidID, want: resultInvalidID},
		{name: "other", err: errors.New("boom"), want: resultError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resultLabel(tt.err); got != tt.want {
				t.Errorf("resultLabel() = %s, want %s", got, tt.want)
			}
		})
	}
}
