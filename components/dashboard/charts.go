package dashboard

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const defaultChartHeight = "320px"

var sharedChartCache = NewChartCache(5 * time.Minute)

// ChartView renders a dataset as a go-echarts chart cut at the selected index.
type ChartView struct {
	chartType  string
	cache      RenderCache
	themes     *ThemeSet
	assetsHost string
}

// ChartViewOption customizes chart views.
type ChartViewOption func(*ChartView)

// WithChartCache injects a render cache. Nil disables caching.
func WithChartCache(cache RenderCache) ChartViewOption {
	return func(v *ChartView) {
		v.cache = cache
	}
}

// WithChartThemes sets the theme set used to pick the chart theme.
func WithChartThemes(themes *ThemeSet) ChartViewOption {
	return func(v *ChartView) {
		if themes != nil {
			v.themes = themes
		}
	}
}

// WithChartAssetsHost rewrites the assets host so ECharts JS loads from a CDN.
func WithChartAssetsHost(host string) ChartViewOption {
	return func(v *ChartView) {
		v.assetsHost = host
	}
}

// NewChartView builds a view for "line" or "bar" charts.
func NewChartView(chartType string, opts ...ChartViewOption) *ChartView {
	v := &ChartView{
		chartType: strings.ToLower(strings.TrimSpace(chartType)),
		cache:     sharedChartCache,
		themes:    DefaultThemes(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Section returns the view section of a kind rendered with this chart.
func (v *ChartView) Section(def WidgetDefinition) Section {
	return Section{
		Key:   SectionView,
		Icon:  "chart",
		Label: "Evolution",
		Render: func(props WidgetProps) templ.Component {
			if props.Dataset.Len() == 0 {
				return emptyState(props.T("Widget", "No data"))
			}
			return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
				markup, err := v.Render(def, props)
				if err != nil {
					return err
				}
				return templ.Raw(markup).Render(ctx, w)
			})
		},
	}
}

// Render returns the chart markup for props.
func (v *ChartView) Render(def WidgetDefinition, props WidgetProps) (string, error) {
	end := props.IndexValues.Index + 1
	if end <= 0 || end > props.Dataset.Len() {
		end = props.Dataset.Len()
	}
	labels := props.Dataset.Labels[:end]
	names := seriesNames(props.Dataset, props.Data)
	theme := v.themes.Resolve(props.Theme).ChartTheme
	title := def.NameForLocale(props.Language)

	renderFn := func() (string, error) {
		return v.render(title, labels, names, props, theme)
	}
	if v.cache == nil {
		return renderFn()
	}
	key := fmt.Sprintf("%s:%s:%s:%d:%s", def.Code, v.chartType, theme, end, configHash(map[string]any{
		"series":   names,
		"language": props.Language,
		"size":     props.Dataset.Len(),
		"last":     props.Dataset.Labels[props.Dataset.Len()-1],
	}))
	return v.cache.GetOrRender(key, renderFn)
}

func (v *ChartView) render(title string, labels, names []string, props WidgetProps, theme string) (string, error) {
	subtitle := ""
	if len(labels) > 0 {
		subtitle = labels[len(labels)-1]
	}
	global := v.globalChartOptions(title, subtitle, theme)
	switch v.chartType {
	case "line":
		line := charts.NewLine()
		line.SetGlobalOptions(global...)
		line.SetXAxis(labels)
		for _, name := range names {
			line.AddSeries(props.T("Widget", name), toLineData(labels, props.Dataset.Series[name]))
		}
		line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
		return renderChart(line)
	case "bar":
		bar := charts.NewBar()
		bar.SetGlobalOptions(global...)
		bar.SetXAxis(labels)
		for _, name := range names {
			bar.AddSeries(props.T("Widget", name), toBarData(labels, props.Dataset.Series[name]))
		}
		return renderChart(bar)
	default:
		return "", fmt.Errorf("dashboard: unsupported chart type: %s", v.chartType)
	}
}

func (v *ChartView) globalChartOptions(title, subtitle, theme string) []charts.GlobalOpts {
	initOpts := opts.Initialization{
		Theme:  theme,
		Width:  "100%",
		Height: defaultChartHeight,
	}
	if v.assetsHost != "" {
		initOpts.AssetsHost = v.assetsHost
	}
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithInitializationOpts(initOpts),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func toLineData(labels []string, values []float64) []opts.LineData {
	data := make([]opts.LineData, len(labels))
	for i, label := range labels {
		data[i] = opts.LineData{Name: label, Value: valueAt(values, i)}
	}
	return data
}

func toBarData(labels []string, values []float64) []opts.BarData {
	data := make([]opts.BarData, len(labels))
	for i, label := range labels {
		data[i] = opts.BarData{Name: label, Value: valueAt(values, i)}
	}
	return data
}

func valueAt(values []float64, i int) float64 {
	if i < len(values) {
		return values[i]
	}
	return 0
}

// seriesNames returns the configured series present in the dataset, or all of
// them in name order.
func seriesNames(dataset Dataset, data WidgetData) []string {
	var names []string
	for _, name := range stringSliceValue(data["series"]) {
		if _, ok := dataset.Series[name]; ok {
			names = append(names, name)
		}
	}
	if len(names) > 0 {
		return names
	}
	return sortedKeys(dataset.Series)
}

// ValuesSection renders the values selected by the index as a table.
func ValuesSection(WidgetDefinition) Section {
	return Section{
		Key:   SectionView,
		Icon:  "table",
		Label: "Values",
		Render: func(props WidgetProps) templ.Component {
			if len(props.IndexValues.Values) == 0 {
				return emptyState(props.T("Widget", "No data"))
			}
			return valuesTable(props.IndexValues.Label, valueRows(props))
		},
	}
}

type valueRow struct {
	Name  string
	Value string
}

func valueRows(props WidgetProps) []valueRow {
	names := make([]string, 0, len(props.IndexValues.Values))
	for name := range props.IndexValues.Values {
		names = append(names, name)
	}
	sort.Strings(names)
	rows := make([]valueRow, 0, len(names))
	for _, name := range names {
		rows = append(rows, valueRow{
			Name:  props.T("Widget", name),
			Value: strconv.FormatFloat(props.IndexValues.Values[name], 'f', -1, 64),
		})
	}
	return rows
}

// InfoSection is a secondary action showing the kind description.
func InfoSection(def WidgetDefinition) Section {
	return Section{
		Key:   "info",
		Icon:  "info",
		Label: "Information",
		Title: func(props WidgetProps) string {
			return props.T("Widget", "Information")
		},
		Render: func(props WidgetProps) templ.Component {
			return Text(def.DescriptionForLocale(props.Language))
		},
	}
}

func stringSliceValue(v any) []string {
	switch val := v.(type) {
	case []string:
		return append([]string(nil), val...)
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
