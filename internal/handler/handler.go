// Package handler provides HTTP request handlers for the REST API.
package handler

// Version is the application version.
const Version = "1.0.0"

// RootMessage is returned by GET /.
const RootMessage = "MongoDB CRUD API running"

// Response messages.
const (
	msgItemUpdated   = "Item updated"
	msgItemDeleted   = "Item deleted"
	msgItemNotFound  = "Item not found"
	msgInvalidID     = "Invalid ID format"
	msgInternalError = "Internal Server Error"
)

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ReadyResponse represents the readiness check response.
type ReadyResponse struct {
	Status string `json:"status"`
}
