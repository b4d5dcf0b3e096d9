package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-dashboard-shell/components/dashboard"
)

func TestScaffoldCreatesManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extra_widgets.yaml")
	cmd := scaffoldCmd{
		Code:         "covid.hospital_beds",
		View:         "bar",
		Category:     "charts",
		Series:       []string{"confirmed"},
		Action:       []string{"source:Source"},
		ManifestPath: path,
	}
	var out bytes.Buffer
	require.NoError(t, cmd.run(&out))
	assert.Contains(t, out.String(), "covid.hospital_beds")

	doc, err := dashboard.ReadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, "extra-widgets", doc.Name)
	require.Len(t, doc.Widgets, 1)
	entry := doc.Widgets[0]
	assert.Equal(t, "Hospital Beds", entry.Definition.Name)
	assert.Equal(t, "bar", entry.View)
	assert.Equal(t, []dashboard.ManifestSection{{Key: "source", Label: "Source"}}, entry.Actions)

	registry, err := dashboard.NewRegistry()
	require.NoError(t, err)
	_, err = registry.LoadManifestFile(path, dashboard.DefaultViews())
	require.NoError(t, err)
}

func TestScaffoldRefusesDuplicatesWithoutOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "widgets.yaml")
	cmd := scaffoldCmd{Code: "covid.deaths_daily", View: "line", ManifestPath: path}
	var out bytes.Buffer
	require.NoError(t, cmd.run(&out))
	require.Error(t, cmd.run(&out))

	cmd.Overwrite = true
	cmd.Name = "Deaths"
	require.NoError(t, cmd.run(&out))
	doc, err := dashboard.ReadManifest(path)
	require.NoError(t, err)
	require.Len(t, doc.Widgets, 1)
	assert.Equal(t, "Deaths", doc.Widgets[0].Definition.Name)
}

func TestScaffoldValidatesInput(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]scaffoldCmd{
		"code without segment": {Code: "recovered", View: "line"},
		"unknown view":         {Code: "covid.pie", View: "pie"},
		"reserved action":      {Code: "covid.x", View: "line", Action: []string{"remove:Remove"}},
		"malformed action":     {Code: "covid.y", View: "line", Action: []string{"source"}},
	}
	for name, cmd := range cases {
		cmd.ManifestPath = filepath.Join(dir, "widgets.yaml")
		assert.Error(t, cmd.run(&bytes.Buffer{}), name)
	}
	_, err := dashboard.ReadManifest(filepath.Join(dir, "widgets.yaml"))
	assert.Error(t, err, "failed scaffolds must not write the manifest")
}
