package dashboard

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-router/eventstream"
)

// EventStreamPrefix prefixes the stream event name of every shell event.
const EventStreamPrefix = "dashboard."

// ShellEventScope is the stream scope shell events are published to.
func ShellEventScope() eventstream.Scope {
	return eventstream.Scope{"channel": "shell"}
}

// StreamHook publishes shell events to a replayable event stream. It backs
// the server-sent events route; clients resume with Last-Event-ID.
type StreamHook struct {
	stream eventstream.Stream
}

// NewStreamHook builds a hook over a fresh in-memory stream.
func NewStreamHook(opts ...eventstream.Option) *StreamHook {
	return &StreamHook{stream: eventstream.New(opts...)}
}

// Stream returns the backing stream.
func (h *StreamHook) Stream() eventstream.Stream { return h.stream }

// Notify satisfies EventHook.
func (h *StreamHook) Notify(_ context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("dashboard: encode stream event: %w", err)
	}
	h.stream.Publish(ShellEventScope(), eventstream.Event{
		Name:    EventStreamPrefix + event.Reason,
		Payload: payload,
	})
	return nil
}
