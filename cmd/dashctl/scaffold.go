package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ettle/strcase"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-dashboard-shell/components/dashboard"
)

type scaffoldCmd struct {
	Code         string   `required:"" help:"Fully-qualified widget code (e.g. covid.recovered)."`
	Name         string   `help:"Display name (defaults to the title-cased last code segment)."`
	Description  string   `help:"One-line description used in manifests."`
	Category     string   `default:"charts" help:"Widget category."`
	View         string   `default:"line" help:"View section to render (line, bar, values)."`
	Series       []string `help:"Series the widget may select; restricts the configuration schema."`
	Action       []string `help:"Secondary sections as key:label (use multiple --action flags)."`
	ManifestPath string   `required:"" type:"path" help:"Path to the widget manifest YAML file to update."`
	SchemaPath   string   `type:"path" help:"Optional path to a JSON schema file for the widget configuration."`
	Tag          []string `help:"Optional tags to include in the manifest."`
	Maintainer   []string `help:"Maintainers to record in the manifest."`
	Overwrite    bool     `help:"Replace an existing manifest entry with the same code."`
}

func (cmd *scaffoldCmd) Run(app *cli) error {
	return cmd.run(os.Stdout)
}

func (cmd *scaffoldCmd) run(out io.Writer) error {
	entry, err := cmd.entry()
	if err != nil {
		return err
	}
	manifestPath, err := filepath.Abs(cmd.ManifestPath)
	if err != nil {
		return fmt.Errorf("dashctl: resolve manifest path: %w", err)
	}
	doc, err := loadOrInitManifest(manifestPath)
	if err != nil {
		return err
	}

	replaced := false
	for idx := range doc.Widgets {
		if doc.Widgets[idx].Definition.Code != cmd.Code {
			continue
		}
		if !cmd.Overwrite {
			return fmt.Errorf("dashctl: manifest already defines widget %s (use --overwrite to replace)", cmd.Code)
		}
		doc.Widgets[idx] = entry
		replaced = true
		break
	}
	if !replaced {
		doc.Widgets = append(doc.Widgets, entry)
	}
	sort.Slice(doc.Widgets, func(i, j int) bool {
		return doc.Widgets[i].Definition.Code < doc.Widgets[j].Definition.Code
	})
	if err := doc.Validate(); err != nil {
		return err
	}
	// Compose against the built-in views so a bad entry never reaches disk.
	if _, err := entry.Compose(dashboard.DefaultViews()); err != nil {
		return err
	}
	if err := writeManifest(manifestPath, doc); err != nil {
		return err
	}
	fmt.Fprintf(out, "✓ Added %s (%s view) to %s\n", cmd.Code, cmd.View, manifestPath)
	return nil
}

func (cmd *scaffoldCmd) entry() (dashboard.ManifestWidget, error) {
	if !strings.Contains(cmd.Code, ".") {
		return dashboard.ManifestWidget{}, fmt.Errorf("dashctl: widget code %s must contain at least one '.' segment", cmd.Code)
	}
	name := cmd.Name
	if name == "" {
		name = deriveName(cmd.Code)
	}
	schema, err := cmd.loadSchema()
	if err != nil {
		return dashboard.ManifestWidget{}, err
	}
	actions := make([]dashboard.ManifestSection, 0, len(cmd.Action))
	for _, raw := range cmd.Action {
		key, label, ok := strings.Cut(raw, ":")
		key = strcase.ToSnake(strings.TrimSpace(key))
		if !ok || key == "" || strings.TrimSpace(label) == "" {
			return dashboard.ManifestWidget{}, fmt.Errorf("dashctl: action %q must be key:label", raw)
		}
		if key == dashboard.SectionRemove || key == dashboard.SectionView {
			return dashboard.ManifestWidget{}, fmt.Errorf("dashctl: action key %q is reserved", key)
		}
		actions = append(actions, dashboard.ManifestSection{Key: key, Label: strings.TrimSpace(label)})
	}
	return dashboard.ManifestWidget{
		Definition: dashboard.WidgetDefinition{
			Code:        cmd.Code,
			Name:        name,
			Description: cmd.Description,
			Category:    cmd.Category,
			Schema:      schema,
		},
		View:        cmd.View,
		Actions:     actions,
		Maintainers: cmd.Maintainer,
		Tags:        cmd.Tag,
	}, nil
}

func (cmd *scaffoldCmd) loadSchema() (map[string]any, error) {
	if cmd.SchemaPath == "" {
		properties := map[string]any{}
		if len(cmd.Series) > 0 {
			enum := make([]any, len(cmd.Series))
			for i, s := range cmd.Series {
				enum[i] = s
			}
			properties["series"] = map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string", "enum": enum},
			}
		}
		return map[string]any{
			"type":       "object",
			"properties": properties,
		}, nil
	}
	data, err := os.ReadFile(cmd.SchemaPath)
	if err != nil {
		return nil, fmt.Errorf("dashctl: read schema file: %w", err)
	}
	var schema map[string]any
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("dashctl: parse schema JSON: %w", err)
	}
	return schema, nil
}

func loadOrInitManifest(path string) (*dashboard.WidgetManifestDocument, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &dashboard.WidgetManifestDocument{
				Version: dashboard.ManifestVersion,
				Name:    strcase.ToKebab(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))),
				Widgets: []dashboard.ManifestWidget{},
				Source:  path,
			}, nil
		}
		return nil, fmt.Errorf("dashctl: stat manifest: %w", err)
	}
	return dashboard.ReadManifest(path)
}

func writeManifest(path string, doc *dashboard.WidgetManifestDocument) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("dashctl: mkdir %s: %w", filepath.Dir(path), err)
	}
	file, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("dashctl: create manifest %s: %w", path, err)
	}
	defer file.Close()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	defer encoder.Close()
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("dashctl: write manifest: %w", err)
	}
	return nil
}

func deriveName(code string) string {
	parts := strings.Split(code, ".")
	slug := strings.TrimSpace(parts[len(parts)-1])
	if slug == "" {
		slug = code
	}
	words := strings.Fields(strings.ReplaceAll(strcase.ToSnake(slug), "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
