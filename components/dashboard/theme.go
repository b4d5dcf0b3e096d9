package dashboard

import (
	"sort"
	"strings"

	"github.com/go-echarts/go-echarts/v2/types"
)

const (
	// ThemeLight is the default theme.
	ThemeLight = "light"
	// ThemeDark swaps the palette and chart theme.
	ThemeDark = "dark"
)

// ThemeSelection carries resolved theme details.
type ThemeSelection struct {
	Name       string
	Tokens     map[string]string
	ChartTheme string
}

// ThemeSet resolves theme names to selections, falling back to the light theme.
type ThemeSet struct {
	themes map[string]ThemeSelection
}

// DefaultThemes returns the built-in light and dark themes.
func DefaultThemes() *ThemeSet {
	return NewThemeSet(
		ThemeSelection{
			Name: ThemeLight,
			Tokens: map[string]string{
				"background": "#ffffff",
				"foreground": "#1d1d1f",
				"accent":     "#0b7285",
			},
			ChartTheme: types.ThemeWesteros,
		},
		ThemeSelection{
			Name: ThemeDark,
			Tokens: map[string]string{
				"background": "#1b1b1f",
				"foreground": "#f1f3f5",
				"accent":     "#66d9e8",
			},
			ChartTheme: types.ThemeChalk,
		},
	)
}

// NewThemeSet builds a set from selections.
func NewThemeSet(selections ...ThemeSelection) *ThemeSet {
	set := &ThemeSet{themes: make(map[string]ThemeSelection, len(selections))}
	for _, selection := range selections {
		name := normalizeThemeName(selection.Name)
		if name == "" {
			continue
		}
		selection.Name = name
		set.themes[name] = selection
	}
	return set
}

// Resolve returns the selection for name or the light theme.
func (s *ThemeSet) Resolve(name string) ThemeSelection {
	if s != nil {
		if selection, ok := s.themes[normalizeThemeName(name)]; ok {
			return selection
		}
		if selection, ok := s.themes[ThemeLight]; ok {
			return selection
		}
	}
	return ThemeSelection{Name: ThemeLight, ChartTheme: types.ThemeWesteros}
}

// Names lists the theme names in order.
func (s *ThemeSet) Names() []string {
	if s == nil {
		return nil
	}
	return sortedKeys(s.themes)
}

// Toggle returns the theme opposite to current.
func (s *ThemeSet) Toggle(current string) string {
	if normalizeThemeName(current) == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// CSSVariables normalizes token keys into CSS variable names.
func (theme ThemeSelection) CSSVariables() map[string]string {
	if len(theme.Tokens) == 0 {
		return nil
	}
	vars := make(map[string]string, len(theme.Tokens))
	for key, value := range theme.Tokens {
		name := normalizeCSSVariable(key)
		if name == "" {
			continue
		}
		vars[name] = value
	}
	return vars
}

// CSSVariablesInline renders the CSS variable map as a style string.
func (theme ThemeSelection) CSSVariablesInline() string {
	vars := theme.CSSVariables()
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	var builder strings.Builder
	for _, key := range keys {
		value := vars[key]
		if value == "" {
			continue
		}
		builder.WriteString(key)
		builder.WriteString(": ")
		builder.WriteString(value)
		builder.WriteString("; ")
	}
	return strings.TrimSpace(builder.String())
}

func normalizeThemeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func normalizeCSSVariable(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	if strings.HasPrefix(name, "--") {
		return name
	}
	return "--" + name
}
