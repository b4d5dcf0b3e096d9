package dashboard

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeManifest(t *testing.T) {
	const payload = `
version: 1
name: community-pack
widgets:
  - definition:
      code: community.values
      name: Community Values
      category: stats
    view: values
    actions:
      - key: about
        label: About
        body: Pushed by the community pack.
    tags: ["community"]
`
	doc, err := DecodeManifest(strings.NewReader(payload))
	require.NoError(t, err)
	require.Len(t, doc.Widgets, 1)

	widget := doc.Widgets[0]
	assert.Equal(t, "community.values", widget.Definition.Code)
	assert.Equal(t, "values", widget.View)
	require.Len(t, widget.Actions, 1)
	assert.Equal(t, "about", widget.Actions[0].Key)
	assert.Equal(t, []string{"community"}, widget.Tags)
}

func TestDecodeManifestRejectsUnknownFields(t *testing.T) {
	const payload = `
widgets:
  - definition:
      code: legacy.widget
      name: Legacy
    view: values
    provider:
      name: Legacy Provider
`
	_, err := DecodeManifest(strings.NewReader(payload))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse manifest")
}

func TestDecodeManifestRequiresView(t *testing.T) {
	const payload = `
widgets:
  - definition:
      code: headless.widget
      name: Headless
`
	_, err := DecodeManifest(strings.NewReader(payload))
	assert.ErrorIs(t, err, ErrMissingView)
}

func TestRegistryLoadManifestDocument(t *testing.T) {
	doc := &WidgetManifestDocument{
		Version: manifestVersionV1,
		Source:  "inline",
		Widgets: []ManifestWidget{
			{
				Definition: WidgetDefinition{Code: "acme.values", Name: "Inventory"},
				View:       "values",
				Actions:    []ManifestSection{{Key: "about", Label: "About", Body: "Inventory counts"}},
			},
		},
	}
	reg, err := NewRegistry()
	require.NoError(t, err)

	require.NoError(t, reg.LoadManifestDocument(doc, DefaultViews()))

	kind, ok := reg.Kind("acme.values")
	require.True(t, ok)
	assert.Equal(t, "Inventory", kind.Definition.Name)
	assert.Equal(t, []string{"about", SectionRemove}, sectionKeys(kind.Widget.Actions()))

	card := kind.Widget.Mount("w1")
	require.NoError(t, card.Menu().Open("about"))
	view, err := card.Menu().Render(context.Background(), WidgetProps{ID: "w1"})
	require.NoError(t, err)
	require.NotNil(t, view.Confirmation)
	assert.Equal(t, "About", view.Confirmation.Title)
	assert.Equal(t, "Inventory counts", view.Confirmation.Body)

	meta, ok := reg.ManifestMetadata("acme.values")
	require.True(t, ok)
	assert.Equal(t, "values", meta.View)
}

func TestRegistryLoadManifestUnknownView(t *testing.T) {
	doc := &WidgetManifestDocument{
		Version: manifestVersionV1,
		Widgets: []ManifestWidget{{Definition: WidgetDefinition{Code: "acme.map", Name: "Map"}, View: "map"}},
	}
	reg, err := NewRegistry()
	require.NoError(t, err)

	err = reg.LoadManifestDocument(doc, DefaultViews())
	assert.ErrorIs(t, err, ErrMissingView)
	_, ok := reg.Kind("acme.map")
	assert.False(t, ok)
}

func TestManifestDuplicateCodes(t *testing.T) {
	const payload = `
widgets:
  - definition:
      code: dup.widget
      name: First
    view: values
  - definition:
      code: dup.widget
      name: Second
    view: values
`
	_, err := DecodeManifest(strings.NewReader(payload))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicates widget code")
}

func TestDocsManifestsAreValid(t *testing.T) {
	dir := filepath.Join("..", "..", "docs", "manifests")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	codes := map[string]string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		reg, err := NewDefaultRegistry()
		require.NoError(t, err)
		doc, err := reg.LoadManifestFile(path, DefaultViews())
		require.NoErrorf(t, err, "manifest %s should load", path)
		for _, widget := range doc.Widgets {
			if prev, exists := codes[widget.Definition.Code]; exists {
				t.Fatalf("widget code %s defined in both %s and %s", widget.Definition.Code, prev, path)
			}
			codes[widget.Definition.Code] = path
		}
	}
	assert.NotEmpty(t, codes)
}
