package dashboard

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingView is reported when a widget is composed without a view section.
	ErrMissingView = errors.New("dashboard: widget requires a view section")
	// ErrMissingRender is reported when a section cannot render.
	ErrMissingRender = errors.New("dashboard: section render is required")
	// ErrUnknownSection is returned when an action key does not exist on a widget.
	ErrUnknownSection = errors.New("dashboard: unknown section")
	// ErrActionNotOpen is returned when confirming an action whose dialog is closed.
	ErrActionNotOpen = errors.New("dashboard: action confirmation is not open")
	// ErrWidgetNotFound is returned when a mounted widget instance cannot be located.
	ErrWidgetNotFound = errors.New("dashboard: widget not found")
	// ErrNoPendingUpdate is returned when accepting an update that was never signalled.
	ErrNoPendingUpdate = errors.New("dashboard: no pending update")
	// ErrKeyNotFound is returned by key-value stores for missing keys.
	ErrKeyNotFound = errors.New("dashboard: key not found")
	// ErrLoopClosed is returned when work is posted to a stopped event loop.
	ErrLoopClosed = errors.New("dashboard: event loop closed")
	// ErrNotReady is returned for dashboard operations while the shell hydrates.
	ErrNotReady = errors.New("dashboard: shell is not ready")
	// ErrRenderFault marks failures contained by a Boundary.
	ErrRenderFault = errors.New("dashboard: render fault")

	errMissingWidgetStore = errors.New("dashboard: widget store not configured")
	errInvalidKind        = errors.New("dashboard: widget kind is required")
	errInvalidWidgetID    = errors.New("dashboard: widget id is required")
)

// ConfigurationError describes a malformed widget composition. It is raised at
// composition time so broken widgets never reach the render path.
type ConfigurationError struct {
	Widget  string
	Section string
	Err     error
}

func (e *ConfigurationError) Error() string {
	switch {
	case e.Widget != "" && e.Section != "":
		return fmt.Sprintf("dashboard: widget %s section %q: %v", e.Widget, e.Section, e.Err)
	case e.Section != "":
		return fmt.Sprintf("dashboard: section %q: %v", e.Section, e.Err)
	case e.Widget != "":
		return fmt.Sprintf("dashboard: widget %s: %v", e.Widget, e.Err)
	default:
		return fmt.Sprintf("dashboard: invalid widget: %v", e.Err)
	}
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// RenderFault is the error produced when a Boundary contains a failing subtree.
type RenderFault struct {
	Origin string
	Panic  any
	Err    error
}

func (f *RenderFault) Error() string {
	if f.Panic != nil {
		return fmt.Sprintf("dashboard: %s panicked: %v", f.Origin, f.Panic)
	}
	return fmt.Sprintf("dashboard: %s failed: %v", f.Origin, f.Err)
}

func (f *RenderFault) Unwrap() []error {
	if f.Err == nil {
		return []error{ErrRenderFault}
	}
	return []error{ErrRenderFault, f.Err}
}
