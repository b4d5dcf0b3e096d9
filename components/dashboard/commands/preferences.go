package commands

import (
	"context"
	"errors"
	"strings"

	gocommand "github.com/goliatone/go-command"
)

// ChangeLanguageInput selects the shell language.
type ChangeLanguageInput struct {
	Language string `json:"language"`
}

// ChangeThemeInput selects the shell theme. An empty theme toggles it.
type ChangeThemeInput struct {
	Theme string `json:"theme"`
}

type preferenceService interface {
	ChangeLanguage(ctx context.Context, lang string) error
	ChangeTheme(ctx context.Context, theme string) error
}

// ChangeLanguageCommand switches the language; the shell persists it.
type ChangeLanguageCommand struct {
	service   preferenceService
	telemetry Telemetry
}

// NewChangeLanguageCommand creates the command.
func NewChangeLanguageCommand(service preferenceService, telemetry Telemetry) *ChangeLanguageCommand {
	return &ChangeLanguageCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ChangeLanguageInput] = (*ChangeLanguageCommand)(nil)

// Execute applies the language.
func (c *ChangeLanguageCommand) Execute(ctx context.Context, msg ChangeLanguageInput) error {
	if c.service == nil {
		return errors.New("language command requires service")
	}
	lang := strings.TrimSpace(msg.Language)
	if lang == "" {
		return errors.New("language command requires a language")
	}
	if err := c.service.ChangeLanguage(ctx, lang); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.language", map[string]any{"language": lang})
	return nil
}

// ChangeThemeCommand switches or toggles the theme.
type ChangeThemeCommand struct {
	service   preferenceService
	telemetry Telemetry
}

// NewChangeThemeCommand creates the command.
func NewChangeThemeCommand(service preferenceService, telemetry Telemetry) *ChangeThemeCommand {
	return &ChangeThemeCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ChangeThemeInput] = (*ChangeThemeCommand)(nil)

// Execute applies the theme.
func (c *ChangeThemeCommand) Execute(ctx context.Context, msg ChangeThemeInput) error {
	if c.service == nil {
		return errors.New("theme command requires service")
	}
	if err := c.service.ChangeTheme(ctx, msg.Theme); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.theme", map[string]any{"theme": msg.Theme})
	return nil
}
