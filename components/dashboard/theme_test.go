package dashboard

import (
	"testing"

	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/stretchr/testify/assert"
)

func TestThemeSetResolve(t *testing.T) {
	themes := DefaultThemes()

	assert.Equal(t, []string{ThemeDark, ThemeLight}, themes.Names())
	assert.Equal(t, types.ThemeChalk, themes.Resolve(" Dark ").ChartTheme)
	assert.Equal(t, ThemeLight, themes.Resolve("solarized").Name)

	var empty *ThemeSet
	assert.Equal(t, ThemeLight, empty.Resolve(ThemeDark).Name)
}

func TestThemeSetToggle(t *testing.T) {
	themes := DefaultThemes()
	assert.Equal(t, ThemeDark, themes.Toggle(ThemeLight))
	assert.Equal(t, ThemeLight, themes.Toggle(ThemeDark))
	assert.Equal(t, ThemeDark, themes.Toggle(""))
}

func TestThemeCSSVariablesInline(t *testing.T) {
	theme := ThemeSelection{Tokens: map[string]string{
		"accent":    "#fff",
		"--surface": "#000",
		"empty":     "",
		" ":         "ignored",
	}}
	assert.Equal(t, "--accent: #fff; --surface: #000;", theme.CSSVariablesInline())
	assert.Empty(t, ThemeSelection{}.CSSVariablesInline())
}
