package dashboard

import (
	"context"

	"go.uber.org/zap"
)

func normalizeLogger(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// ZapTelemetry records dashboard events as structured debug logs.
type ZapTelemetry struct {
	logger *zap.Logger
}

// NewZapTelemetry builds a Telemetry backed by logger.
func NewZapTelemetry(logger *zap.Logger) *ZapTelemetry {
	return &ZapTelemetry{logger: normalizeLogger(logger)}
}

// Record logs the event name and payload.
func (t *ZapTelemetry) Record(_ context.Context, event string, payload map[string]any) {
	fields := make([]zap.Field, 0, len(payload)+1)
	fields = append(fields, zap.String("event", event))
	for key, value := range payload {
		fields = append(fields, zap.Any(key, value))
	}
	t.logger.Debug("dashboard telemetry", fields...)
}
