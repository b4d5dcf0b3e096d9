package dashboard

import (
	"bytes"
	"context"

	"github.com/a-h/templ"
)

//go:generate templ generate -f fragments.templ

func renderFragment(ctx context.Context, component templ.Component) (string, error) {
	if component == nil {
		return "", nil
	}
	var buf bytes.Buffer
	if err := component.Render(ctx, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
