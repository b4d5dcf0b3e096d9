package commands

import (
	"context"
	"errors"
	"fmt"

	gocommand "github.com/goliatone/go-command"
)

// ActionOp selects what happens to a widget action confirmation.
type ActionOp string

const (
	ActionOpen    ActionOp = "open"
	ActionCancel  ActionOp = "cancel"
	ActionConfirm ActionOp = "confirm"
)

// WidgetActionInput addresses a section of a widget's actions menu.
type WidgetActionInput struct {
	WidgetID string   `json:"widget_id"`
	Key      string   `json:"key"`
	Op       ActionOp `json:"op"`
}

type actionService interface {
	OpenAction(ctx context.Context, id, key string) error
	CancelAction(ctx context.Context, id string) error
	ConfirmAction(ctx context.Context, id, key string) error
}

// WidgetActionCommand opens, cancels or confirms a widget action.
type WidgetActionCommand struct {
	service   actionService
	telemetry Telemetry
}

// NewWidgetActionCommand creates the command.
func NewWidgetActionCommand(service actionService, telemetry Telemetry) *WidgetActionCommand {
	return &WidgetActionCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[WidgetActionInput] = (*WidgetActionCommand)(nil)

// Execute routes the operation to the widget's actions menu.
func (c *WidgetActionCommand) Execute(ctx context.Context, msg WidgetActionInput) error {
	if c.service == nil {
		return errors.New("action command requires service")
	}
	if msg.WidgetID == "" {
		return errors.New("action command requires widget id")
	}
	var err error
	switch msg.Op {
	case ActionOpen:
		err = c.service.OpenAction(ctx, msg.WidgetID, msg.Key)
	case ActionCancel:
		err = c.service.CancelAction(ctx, msg.WidgetID)
	case ActionConfirm:
		err = c.service.ConfirmAction(ctx, msg.WidgetID, msg.Key)
	default:
		return fmt.Errorf("action command: unknown op %q", msg.Op)
	}
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.action", map[string]any{
		"widget_id": msg.WidgetID,
		"key":       msg.Key,
		"op":        string(msg.Op),
	})
	return nil
}
