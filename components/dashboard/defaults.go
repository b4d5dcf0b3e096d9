package dashboard

import (
	"math"
	"time"
)

const (
	// KindEvolution plots the series up to the selected day.
	KindEvolution = "covid.evolution"
	// KindDaily shows the series as bars up to the selected day.
	KindDaily = "covid.daily"
	// KindValues lists the values of the selected day.
	KindValues = "covid.values"
)

var defaultSeriesNames = []string{"confirmed", "deaths", "recovered"}

func seriesSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"series": map[string]any{
				"type":        "array",
				"uniqueItems": true,
				"items": map[string]any{
					"type": "string",
					"enum": defaultSeriesNames,
				},
			},
		},
		"additionalProperties": false,
	}
}

var defaultDefinitions = []WidgetDefinition{
	{
		Code: KindEvolution,
		Name: "Evolution",
		NameLocalized: map[string]string{
			"ca": "Evolució",
			"es": "Evolución",
		},
		Description: "Accumulated cases up to the selected day",
		DescriptionLocalized: map[string]string{
			"ca": "Casos acumulats fins al dia seleccionat",
			"es": "Casos acumulados hasta el día seleccionado",
		},
		Category: "charts",
		Schema:   seriesSchema(),
	},
	{
		Code: KindDaily,
		Name: "Daily",
		NameLocalized: map[string]string{
			"ca": "Diari",
			"es": "Diario",
		},
		Description: "Daily values as bars",
		DescriptionLocalized: map[string]string{
			"ca": "Valors diaris en barres",
			"es": "Valores diarios en barras",
		},
		Category: "charts",
		Schema:   seriesSchema(),
	},
	{
		Code: KindValues,
		Name: "Values",
		NameLocalized: map[string]string{
			"ca": "Valors",
			"es": "Valores",
		},
		Description: "Values of the selected day",
		DescriptionLocalized: map[string]string{
			"ca": "Valors del dia seleccionat",
			"es": "Valores del día seleccionado",
		},
		Category: "stats",
	},
}

// DefaultViews returns the view factories manifests can reference.
func DefaultViews(opts ...ChartViewOption) ViewCatalog {
	line := NewChartView("line", opts...)
	bar := NewChartView("bar", opts...)
	return ViewCatalog{
		"line":   line.Section,
		"bar":    bar.Section,
		"values": ValuesSection,
	}
}

// DefaultKinds composes the built-in widget kinds.
func DefaultKinds(opts ...ChartViewOption) []WidgetKind {
	views := DefaultViews(opts...)
	viewFor := map[string]string{
		KindEvolution: "line",
		KindDaily:     "bar",
		KindValues:    "values",
	}
	kinds := make([]WidgetKind, 0, len(defaultDefinitions))
	for _, def := range DefaultDefinitions() {
		widget := MustWidget([]Section{
			views[viewFor[def.Code]](def),
			InfoSection(def),
		}, WithWidgetName(def.Code))
		kinds = append(kinds, WidgetKind{Definition: def, Widget: widget})
	}
	return kinds
}

// DefaultDefinitions returns the built-in kind definitions.
func DefaultDefinitions() []WidgetDefinition {
	out := make([]WidgetDefinition, len(defaultDefinitions))
	copy(out, defaultDefinitions)
	return out
}

// DefaultSeedWidgets returns the starter widgets of an empty dashboard.
func DefaultSeedWidgets() []AddWidgetRequest {
	return []AddWidgetRequest{
		{Kind: KindEvolution, Configuration: map[string]any{"series": []string{"confirmed", "recovered"}}},
		{Kind: KindValues},
		{Kind: KindDaily, Configuration: map[string]any{"series": []string{"deaths"}}},
	}
}

// DefaultDataset returns a deterministic sample dataset of sixty days.
func DefaultDataset() Dataset {
	const days = 60
	start := time.Date(2020, time.March, 1, 0, 0, 0, 0, time.UTC)
	data := Dataset{
		Labels: make([]string, days),
		Series: map[string][]float64{
			"confirmed": make([]float64, days),
			"deaths":    make([]float64, days),
			"recovered": make([]float64, days),
		},
	}
	for i := 0; i < days; i++ {
		data.Labels[i] = start.AddDate(0, 0, i).Format("2006-01-02")
		confirmed := math.Round(40 + 120*float64(i) + 50*float64(i*i))
		data.Series["confirmed"][i] = confirmed
		data.Series["deaths"][i] = math.Round(confirmed * 0.06)
		if i >= 14 {
			data.Series["recovered"][i] = math.Round(data.Series["confirmed"][i-14] * 0.9)
		}
	}
	return data
}
