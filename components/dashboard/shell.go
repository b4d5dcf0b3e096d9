package dashboard

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

const appTitleKey = "Covid Data Refactored"

var errMissingLoop = errors.New("dashboard: shell requires an event loop")

// AppState is the top-level state of the shell. Fields are persisted by JSON
// name; the session-only flags are blacklisted by the persister.
type AppState struct {
	Initializing             bool          `json:"initializing"`
	NewServiceWorkerDetected bool          `json:"newServiceWorkerDetected"`
	Language                 string        `json:"language"`
	Theme                    string        `json:"theme"`
	Registration             *Registration `json:"-"`
}

// Phase is the lifecycle phase of the shell.
type Phase int

const (
	PhaseHydrating Phase = iota
	PhaseReady
)

func (p Phase) String() string {
	switch p {
	case PhaseHydrating:
		return "hydrating"
	case PhaseReady:
		return "ready"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// ShellOptions configures a Shell. Loop is required; every other
// collaborator has a default.
type ShellOptions struct {
	Loop               *Loop
	Persister          *Persister
	Updates            *UpdateBus
	Installer          Installer
	Catalogs           *CatalogSet
	Themes             *ThemeSet
	Location           Location
	PreferredLanguages []string
	Dashboard          *Dashboard
	EventHook          EventHook
	Telemetry          Telemetry
	Logger             *zap.Logger
}

// LanguageOption is an entry of the language picker.
type LanguageOption struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Selected bool   `json:"selected"`
}

// ShellView is the rendered shell. Dashboard is nil until hydration completes
// or when the dashboard subtree faulted.
type ShellView struct {
	Phase           string            `json:"phase"`
	Title           string            `json:"title"`
	TitleTemplate   string            `json:"title_template"`
	Language        string            `json:"language"`
	Languages       []LanguageOption  `json:"languages"`
	Theme           string            `json:"theme"`
	ThemeStyle      string            `json:"theme_style,omitempty"`
	UpdateAvailable bool              `json:"update_available"`
	Registration    *Registration     `json:"registration,omitempty"`
	Labels          map[string]string `json:"labels"`
	Dashboard       *DashboardView    `json:"dashboard,omitempty"`
	Fault           string            `json:"fault,omitempty"`
}

// PageTitle applies the title template to a page name.
func (v ShellView) PageTitle(page string) string {
	if page == "" {
		return v.Title
	}
	return fmt.Sprintf(v.TitleTemplate, page)
}

// Shell is the application state machine: Hydrating then Ready, with the
// update-available flag overlaid. All methods except NewShell run on the loop.
type Shell struct {
	loop      *Loop
	persister *Persister
	updates   *UpdateBus
	installer Installer
	catalogs  *CatalogSet
	themes    *ThemeSet
	dashboard *Dashboard
	hook      EventHook
	telemetry Telemetry
	logger    *zap.Logger

	state         AppState
	phase         Phase
	mounted       bool
	session       uint64
	accepted      bool
	hydrations    int
	stopUpdates   func()
	locationFixed bool
}

// NewShell normalizes the location fragment once and builds a hydrating shell.
func NewShell(opts ShellOptions) (*Shell, error) {
	if opts.Loop == nil {
		return nil, errMissingLoop
	}
	logger := normalizeLogger(opts.Logger)
	if opts.Catalogs == nil {
		catalogs, err := DefaultCatalogs()
		if err != nil {
			return nil, err
		}
		opts.Catalogs = catalogs
	}
	if opts.Persister == nil {
		opts.Persister = NewPersister(NewMemoryStore(), WithPersisterLogger(logger))
	}
	if opts.Updates == nil {
		opts.Updates = NewUpdateBus()
	}
	if opts.Installer == nil {
		opts.Installer = InstallerFunc(func(context.Context, Registration) error { return nil })
	}
	if opts.Themes == nil {
		opts.Themes = DefaultThemes()
	}
	if opts.EventHook == nil {
		opts.EventHook = noopEventHook{}
	}
	if opts.Dashboard == nil {
		dashboard, err := NewDashboard(DashboardOptions{Loop: opts.Loop, Logger: logger})
		if err != nil {
			return nil, err
		}
		opts.Dashboard = dashboard
	}
	s := &Shell{
		loop:      opts.Loop,
		persister: opts.Persister,
		updates:   opts.Updates,
		installer: opts.Installer,
		catalogs:  opts.Catalogs,
		themes:    opts.Themes,
		dashboard: opts.Dashboard,
		hook:      opts.EventHook,
		telemetry: normalizeTelemetry(opts.Telemetry),
		logger:    logger,
		state: AppState{
			Initializing: true,
			Language:     opts.Catalogs.Negotiate(opts.PreferredLanguages...),
			Theme:        ThemeLight,
		},
		phase: PhaseHydrating,
	}
	s.locationFixed = NormalizeLocation(opts.Location)
	s.dashboard.Index().OnChange(func(state IndexState) {
		if !s.mounted {
			return
		}
		s.notify(Event{Reason: "index", Index: &state})
	})
	return s, nil
}

// State returns a copy of the app state.
func (s *Shell) State() AppState {
	state := s.state
	if state.Registration != nil {
		reg := *state.Registration
		state.Registration = &reg
	}
	return state
}

// Phase returns the lifecycle phase.
func (s *Shell) Phase() Phase { return s.phase }

// Dashboard returns the dashboard subtree.
func (s *Shell) Dashboard() *Dashboard { return s.dashboard }

// Catalogs returns the translation catalogs.
func (s *Shell) Catalogs() *CatalogSet { return s.catalogs }

// Updates returns the update bus the shell listens to.
func (s *Shell) Updates() *UpdateBus { return s.updates }

// LocationNormalized reports whether NewShell rewrote the location fragment.
func (s *Shell) LocationNormalized() bool { return s.locationFixed }

// Hydrations counts completed hydrations; it never exceeds one per shell.
func (s *Shell) Hydrations() int { return s.hydrations }

// Mount subscribes to update signals and starts hydrating persisted state.
// Callbacks arriving after Unmount are dropped.
func (s *Shell) Mount(ctx context.Context) error {
	if s.mounted {
		return nil
	}
	s.mounted = true
	s.session++
	session := s.session
	live := func() bool { return s.mounted && s.session == session }

	s.stopUpdates = s.updates.Subscribe(func(reg Registration) {
		s.loop.Post(func() {
			if live() {
				s.signalUpdate(reg)
			}
		})
	})
	if s.phase == PhaseReady {
		return s.mountDashboard(ctx, nil)
	}
	post := func(fn func()) {
		s.loop.Post(func() {
			if live() {
				fn()
			}
		})
	}
	if err := s.persister.Hydrate(ctx, &s.state, post, func() {
		s.hydrated(ctx)
	}); err != nil {
		s.stopUpdates()
		s.stopUpdates = nil
		s.mounted = false
		s.session++
		return err
	}
	return nil
}

// Unmount tears the shell down: the update subscription is cancelled, the
// index control stops and a late hydration result is ignored.
func (s *Shell) Unmount() {
	if !s.mounted {
		return
	}
	s.mounted = false
	s.session++
	if s.stopUpdates != nil {
		s.stopUpdates()
		s.stopUpdates = nil
	}
	if s.dashboard.Mounted() {
		s.dashboard.Unmount()
	}
}

func (s *Shell) hydrated(ctx context.Context) {
	if s.phase != PhaseHydrating {
		return
	}
	s.state.Initializing = false
	s.phase = PhaseReady
	s.hydrations++
	s.logger.Debug("shell hydrated",
		zap.String("language", s.state.Language),
		zap.String("theme", s.state.Theme),
	)
	announced := false
	ready := func() {
		if announced {
			return
		}
		announced = true
		s.notify(Event{Reason: "ready", Language: s.state.Language, Theme: s.state.Theme})
	}
	if err := s.mountDashboard(ctx, ready); err != nil {
		s.logger.Warn("mount dashboard failed", zap.Error(err))
		ready()
	}
}

// mountDashboard mounts the dashboard inside its boundary. onLoaded runs once
// the dataset is applied.
func (s *Shell) mountDashboard(ctx context.Context, onLoaded func()) error {
	return NewBoundary("Dashboard", s.logger).Guard(func() error {
		return s.dashboard.Mount(ctx, onLoaded)
	})
}

func (s *Shell) signalUpdate(reg Registration) {
	if s.accepted {
		return
	}
	s.state.NewServiceWorkerDetected = true
	s.state.Registration = &reg
	s.notify(Event{Reason: "update", UpdateAvailable: true})
	s.telemetry.Record(context.Background(), "shell.update.detected", map[string]any{
		"script_url": reg.ScriptURL,
		"version":    reg.Version,
	})
}

// AcceptUpdate hands the pending registration to the installer. Once
// accepted, later update signals are ignored for the session.
func (s *Shell) AcceptUpdate(ctx context.Context) error {
	if !s.state.NewServiceWorkerDetected || s.state.Registration == nil {
		return ErrNoPendingUpdate
	}
	reg := *s.state.Registration
	if err := s.installer.Install(ctx, reg); err != nil {
		return fmt.Errorf("dashboard: install update: %w", err)
	}
	s.accepted = true
	s.state.NewServiceWorkerDetected = false
	s.state.Registration = nil
	s.notify(Event{Reason: "update.accepted"})
	s.telemetry.Record(ctx, "shell.update.accepted", map[string]any{"version": reg.Version})
	return nil
}

// ChangeLanguage sets the language and flushes the persisted fields.
// Languages without a catalog render with the fallback catalog.
func (s *Shell) ChangeLanguage(ctx context.Context, lang string) {
	lang = normalizeLocale(lang)
	if lang == "" || lang == s.state.Language {
		return
	}
	s.state.Language = lang
	s.flush(ctx)
	s.notify(Event{Reason: "language", Language: lang})
}

// ChangeTheme sets the theme and flushes the persisted fields.
func (s *Shell) ChangeTheme(ctx context.Context, theme string) {
	theme = normalizeThemeName(theme)
	if theme == "" || theme == s.state.Theme {
		return
	}
	s.state.Theme = theme
	s.flush(ctx)
	s.notify(Event{Reason: "theme", Theme: theme})
}

// ToggleTheme switches between the light and dark themes.
func (s *Shell) ToggleTheme(ctx context.Context) {
	s.ChangeTheme(ctx, s.themes.Toggle(s.state.Theme))
}

func (s *Shell) flush(ctx context.Context) {
	if err := s.persister.Save(ctx, &s.state); err != nil {
		s.logger.Warn("persist shell state failed", zap.Error(err))
	}
}

// Translator returns the catalog of the current language.
func (s *Shell) Translator() Translator {
	return s.catalogs.Catalog(s.state.Language)
}

// Render produces the shell view. Nothing but the phase is rendered while
// hydrating.
func (s *Shell) Render(ctx context.Context) ShellView {
	catalog := s.catalogs.Catalog(s.state.Language)
	appTitle := catalog.T("App", appTitleKey)
	view := ShellView{
		Phase:         s.phase.String(),
		Title:         appTitle,
		TitleTemplate: "%s | " + appTitle,
		Language:      s.state.Language,
	}
	if s.phase == PhaseHydrating {
		return view
	}
	theme := s.themes.Resolve(s.state.Theme)
	view.Theme = theme.Name
	view.ThemeStyle = theme.CSSVariablesInline()
	view.UpdateAvailable = s.state.NewServiceWorkerDetected
	if s.state.Registration != nil {
		reg := *s.state.Registration
		view.Registration = &reg
	}
	view.Languages = s.languageOptions()
	view.Labels = map[string]string{}
	for _, key := range []string{"New version available", "Update", "Language", "Theme", "Play", "Pause"} {
		view.Labels[key] = catalog.T("Dashboard", key)
	}
	view.Labels["Add widget"] = catalog.T("WidgetsList", "Add widget")

	env := RenderEnv{Language: s.state.Language, Theme: theme.Name, Translator: catalog}
	var dashboard DashboardView
	if err := NewBoundary("Dashboard", s.logger).Guard(func() error {
		dashboard = s.dashboard.Render(ctx, env)
		return nil
	}); err != nil {
		view.Fault = catalog.T("Dashboard", "Something went wrong")
		return view
	}
	view.Dashboard = &dashboard
	return view
}

func (s *Shell) languageOptions() []LanguageOption {
	langs := s.catalogs.Languages()
	out := make([]LanguageOption, 0, len(langs))
	for _, lang := range langs {
		out = append(out, LanguageOption{
			Code:     lang,
			Name:     s.catalogs.Catalog(lang).Name,
			Selected: lang == s.state.Language,
		})
	}
	return out
}

func (s *Shell) notify(event Event) {
	if err := s.hook.Notify(context.Background(), event); err != nil {
		s.logger.Warn("event hook failed", zap.String("reason", event.Reason), zap.Error(err))
	}
}
