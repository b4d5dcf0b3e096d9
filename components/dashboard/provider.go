package dashboard

import (
	"context"
	"fmt"
)

// WidgetData is an opaque payload passed to section renderers.
type WidgetData map[string]any

// Dataset is a set of named series sharing the same index labels (days).
type Dataset struct {
	Labels []string
	Series map[string][]float64
}

// Len is the number of index positions.
func (d Dataset) Len() int { return len(d.Labels) }

// At returns the values selected by index.
func (d Dataset) At(index int) IndexValues {
	out := IndexValues{Index: index, Values: map[string]float64{}}
	if index < 0 || index >= len(d.Labels) {
		return out
	}
	out.Label = d.Labels[index]
	for name, values := range d.Series {
		if index < len(values) {
			out.Values[name] = values[index]
		}
	}
	return out
}

// DataSource supplies the dataset rendered by widgets. Fetching is owned by
// the implementation.
type DataSource interface {
	Dataset(ctx context.Context) (Dataset, error)
}

// DataSourceFunc adapts a func to DataSource.
type DataSourceFunc func(ctx context.Context) (Dataset, error)

// Dataset calls f.
func (f DataSourceFunc) Dataset(ctx context.Context) (Dataset, error) {
	return f(ctx)
}

// StaticDataSource serves a fixed dataset.
type StaticDataSource struct {
	Data Dataset
}

// Dataset returns the fixed dataset after checking series lengths.
func (s StaticDataSource) Dataset(context.Context) (Dataset, error) {
	for name, values := range s.Data.Series {
		if len(values) != len(s.Data.Labels) {
			return Dataset{}, fmt.Errorf("dashboard: series %s has %d values for %d labels", name, len(values), len(s.Data.Labels))
		}
	}
	return s.Data, nil
}
