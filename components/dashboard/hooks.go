package dashboard

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// MultiHook notifies every hook in order and joins their errors.
type MultiHook []EventHook

// Notify satisfies EventHook.
func (m MultiHook) Notify(ctx context.Context, event Event) error {
	var err error
	for _, hook := range m {
		if hook == nil {
			continue
		}
		err = errors.Join(err, hook.Notify(ctx, event))
	}
	return err
}

// LogHook writes events to a zap logger. Index ticks log at debug level.
type LogHook struct {
	Logger *zap.Logger
}

// Notify satisfies EventHook.
func (h LogHook) Notify(_ context.Context, event Event) error {
	logger := normalizeLogger(h.Logger)
	fields := []zap.Field{zap.String("reason", event.Reason)}
	if event.WidgetID != "" {
		fields = append(fields, zap.String("widget_id", event.WidgetID))
	}
	if event.Language != "" {
		fields = append(fields, zap.String("language", event.Language))
	}
	if event.Index != nil {
		logger.Debug("dashboard event", append(fields, zap.Int("index", event.Index.Value))...)
		return nil
	}
	logger.Info("dashboard event", fields...)
	return nil
}
