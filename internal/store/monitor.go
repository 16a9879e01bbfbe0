package store

import (
	"context"

	"go.mongodb.org/mongo-driver/event"
	"go.uber.org/zap"
)

// newCommandMonitor logs driver commands at debug level.
func newCommandMonitor(logger *zap.Logger) *event.CommandMonitor {
	return &event.CommandMonitor{
		Started: func(_ context.Context, e *event.CommandStartedEvent) {
			logger.Debug("mongo command started",
				zap.String("command", e.CommandName),
				zap.String("database", e.DatabaseName),
				zap.Int64("request_id", e.RequestID),
			)
		},
		Succeeded: func(_ context.Context, e *event.CommandSucceededEvent) {
			logger.Debug("mongo command succeeded",
				zap.String("command", e.CommandName),
				zap.Int64("request_id", e.RequestID),
				zap.Duration("duration", e.Duration),
			)
		},
		Failed: func(_ context.Context, e *event.CommandFailedEvent) {
			logger.Warn("mongo command failed",
				zap.String("command", e.CommandName),
				zap.Int64("request_id", e.RequestID),
				zap.Duration("duration", e.Duration),
				zap.String("failure", e.Failure),
			)
		},
	}
}
