package store

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vyrodovalexey/mongo-crud-api/internal/model"
)

// Operation result labels.
const (
	resultOK        = "ok"
	resultNotFound  = "not_found"
	resultInvalidID = "invalid_id"
	resultError     = "error"
)

var (
	storeOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_operations_total",
			Help: "Total number of store operations by result",
		},
		[]string{"operation", "result"},
	)

	storeOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_operation_duration_seconds",
			Help:    "Store operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

// InstrumentedStore records Prometheus metrics around another Store.
type InstrumentedStore struct {
	next Store
}

// NewInstrumentedStore wraps next with operation metrics.
func NewInstrumentedStore(next Store) *InstrumentedStore {
	return &InstrumentedStore{next: next}
}

// List implements Store.
func (s *InstrumentedStore) List(ctx context.Context) ([]model.Document, error) {
	defer observe("list", time.Now())
	docs, err := s.next.List(ctx)
	record("list", err)
	return docs, err
}

// Get implements Store.
func (s *InstrumentedStore) Get(ctx context.Context, id string) (model.Document, error) {
	defer observe("get", time.Now())
	doc, err := s.next.Get(ctx, id)
	record("get", err)
	return doc, err
}

// Create implements Store.
func (s *InstrumentedStore) Create(ctx context.Context, doc model.Document) (string, error) {
	defer observe("create", time.Now())
	id, err := s.next.Create(ctx, doc)
	record("create", err)
	return id, err
}

// Update implements Store.
func (s *InstrumentedStore) Update(ctx context.Context, id string, doc model.Document) error {
	defer observe("update", time.Now())
	err := s.next.Update(ctx, id, doc)
	record("update", err)
	return err
}

// Delete implements Store.
func (s *InstrumentedStore) Delete(ctx context.Context, id string) error {
	defer observe("delete", time.Now())
	err := s.next.Delete(ctx, id)
	record("delete", err)
	return err
}

// Ping implements Store.
func (s *InstrumentedStore) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

// Close implements Store.
func (s *InstrumentedStore) Close(ctx context.Context) error {
	return s.next.Close(ctx)
}

func observe(operation string, start time.Time) {
	storeOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func record(operation string, err error) {
	storeOperationsTotal.WithLabelValues(operation, resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return resultOK
	case errors.Is(err, ErrNotFound):
		return resultNotFound
	case errors.Is(err, ErrInvalidID):
		return resultInvalidID
	default:
		return resultError
	}
}
