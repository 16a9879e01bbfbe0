package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/vyrodovalexey/mongo-crud-api/internal/model"
	"github.com/vyrodovalexey/mongo-crud-api/internal/store"
)

// readyTimeout bounds the store ping issued by the readiness probe.
const readyTimeout = 2 * time.Second

// EventPublisher receives notifications about changed items.
type EventPublisher interface {
	Publish(event model.ItemEvent)
}

// Option configures a RESTHandler.
type Option func(*RESTHandler)

// WithValidator sets the request body validator. A nil validator accepts any object.
func WithValidator(v model.Validator) Option {
	return func(h *RESTHandler) {
		if v != nil {
			h.validate = v
		}
	}
}

// WithPublisher sets the publisher notified after successful writes.
func WithPublisher(p EventPublisher) Option {
	return func(h *RESTHandler) {
		h.publisher = p
	}
}

// RESTHandler handles REST API requests for items.
type RESTHandler struct {
	store     store.Store
	logger    *zap.Logger
	validate  model.Validator
	publisher EventPublisher
}

// NewRESTHandler creates a new RESTHandler instance.
func NewRESTHandler(s store.Store, logger *zap.Logger, opts ...Option) *RESTHandler {
	h := &RESTHandler{
		store:    s,
		logger:   logger,
		validate: model.AcceptAny,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes registers the REST API routes with the router.
func (h *RESTHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/", h.Root).Methods(http.MethodGet)
	router.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
	router.HandleFunc("/ready", h.ReadyCheck).Methods(http.MethodGet)
	router.HandleFunc("/items", h.ListItems).Methods(http.MethodGet)
	router.HandleFunc("/items", h.CreateItem).Methods(http.MethodPost)
	router.HandleFunc("/items/{id}", h.GetItem).Methods(http.MethodGet)
	router.HandleFunc("/items/{id}", h.UpdateItem).Methods(http.MethodPut)
	router.HandleFunc("/items/{id}", h.DeleteItem).Methods(http.MethodDelete)
}

// Root handles GET / requests.
func (h *RESTHandler) Root(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, model.MessageResponse{Message: RootMessage})
}

// HealthCheck handles GET /health requests.
func (h *RESTHandler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: Version,
	})
}

// ReadyCheck handles GET /ready requests by pinging the store.
func (h *RESTHandler) ReadyCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn("store not ready", zap.Error(err))
		h.writeJSON(w, http.StatusServiceUnavailable, ReadyResponse{Status: "not ready"})
		return
	}

	h.writeJSON(w, http.StatusOK, ReadyResponse{Status: "ready"})
}

// ListItems handles GET /items requests.
func (h *RESTHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	docs, err := h.store.List(r.Context())
	if err != nil {
		h.handleStoreError(w, err, "list items")
		return
	}

	h.writeJSON(w, http.StatusOK, docs)
}

// GetItem handles GET /items/{id} requests.
func (h *RESTHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	doc, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.handleStoreError(w, err, "get item")
		return
	}

	h.writeJSON(w, http.StatusOK, doc)
}

// CreateItem handles POST /items requests.
func (h *RESTHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.readBody(w, r)
	if !ok {
		return
	}

	id, err := h.store.Create(r.Context(), doc)
	if err != nil {
		h.handleStoreError(w, err, "create item")
		return
	}

	h.publish(model.EventCreated, id)
	h.writeJSON(w, http.StatusOK, model.CreatedResponse{ID: id})
}

// UpdateItem handles PUT /items/{id} requests.
func (h *RESTHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	doc, ok := h.readBody(w, r)
	if !ok {
		return
	}

	if err := h.store.Update(r.Context(), id, doc); err != nil {
		h.handleStoreError(w, err, "update item")
		return
	}

	h.publish(model.EventUpdated, id)
	h.writeJSON(w, http.StatusOK, model.MessageResponse{Message: msgItemUpdated})
}

// DeleteItem handles DELETE /items/{id} requests.
func (h *RESTHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		h.handleStoreError(w, err, "delete item")
		return
	}

	h.publish(model.EventDeleted, id)
	h.writeJSON(w, http.StatusOK, model.MessageResponse{Message: msgItemDeleted})
}

// pathID extracts the {id} variable and rejects malformed identifiers with 400.
func (h *RESTHandler) pathID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := mux.Vars(r)["id"]
	if _, err := model.ParseID(id); err != nil {
		h.logger.Debug("invalid item id", zap.String("id", id))
		h.writeError(w, http.StatusBadRequest, msgInvalidID)
		return "", false
	}
	return id, true
}

// readBody decodes and validates the request body, answering 422 on failure.
func (h *RESTHandler) readBody(w http.ResponseWriter, r *http.Request) (model.Document, bool) {
	doc, err := model.DecodeDocument(r.Body)
	if err == nil {
		doc, err = h.validate(doc)
	}
	if err != nil {
		h.logger.Warn("validation failed", zap.Error(err))
		h.writeValidationError(w, err)
		return nil, false
	}
	return doc, true
}

// publish notifies the configured publisher, if any.
func (h *RESTHandler) publish(eventType, id string) {
	if h.publisher == nil {
		return
	}
	h.publisher.Publish(model.NewItemEvent(eventType, id))
}

// handleStoreError handles store errors and writes appropriate HTTP responses.
func (h *RESTHandler) handleStoreError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		h.writeError(w, http.StatusNotFound, msgItemNotFound)
	case errors.Is(err, store.ErrInvalidID):
		h.writeError(w, http.StatusBadRequest, msgInvalidID)
	default:
		h.logger.Error("store operation failed", zap.String("operation", operation), zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, msgInternalError)
	}
}

// writeJSON writes a JSON response with the given status code.
func (h *RESTHandler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

// writeError writes an error response with the given status code and message.
func (h *RESTHandler) writeError(w http.ResponseWriter, status int, detail string) {
	h.writeJSON(w, status, model.ErrorResponse{Detail: detail})
}

// writeValidationError writes a 422 response listing the failed fields.
func (h *RESTHandler) writeValidationError(w http.ResponseWriter, err error) {
	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		h.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	h.writeJSON(w, http.StatusUnprocessableEntity, model.ValidationErrorResponse{Detail: verr.Errors})
}
