package dashboard

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textSection(key, body string) Section {
	return Section{
		Key:    key,
		Icon:   "i",
		Label:  "L",
		Title:  func(WidgetProps) string { return "T" },
		Render: func(WidgetProps) templ.Component { return Text(body) },
	}
}

func sectionKeys(sections []Section) []string {
	keys := make([]string, 0, len(sections))
	for _, s := range sections {
		keys = append(keys, s.Key)
	}
	return keys
}

func TestNewWidgetInjectsRemoveLast(t *testing.T) {
	widget, err := NewWidget([]Section{textSection(SectionView, "V"), textSection("foo", "F")})
	require.NoError(t, err)

	assert.Equal(t, []string{"foo", SectionRemove}, sectionKeys(widget.Actions()))
	remove, ok := widget.Section(SectionRemove)
	require.True(t, ok)
	assert.Equal(t, removeIcon, remove.Icon)
}

func TestNewWidgetDiscardsCallerRemove(t *testing.T) {
	called := false
	custom := textSection(SectionRemove, "mine")
	custom.Action = func(context.Context, WidgetProps) error {
		called = true
		return nil
	}
	widget, err := NewWidget([]Section{custom, textSection(SectionView, "V")})
	require.NoError(t, err)

	actions := widget.Actions()
	require.Len(t, actions, 1)
	assert.Equal(t, SectionRemove, actions[0].Key)
	assert.Equal(t, "trash", actions[0].Icon)

	removed := ""
	card := widget.Mount("w1")
	require.NoError(t, card.Menu().Open(SectionRemove))
	require.NoError(t, card.Confirm(context.Background(), SectionRemove, WidgetProps{
		OnRemove: func(_ context.Context, id string) error {
			removed = id
			return nil
		},
	}))
	assert.False(t, called)
	assert.Equal(t, "w1", removed)
}

func TestNewWidgetRequiresView(t *testing.T) {
	_, err := NewWidget(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingView)
	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, SectionView, cfgErr.Section)

	_, err = NewWidget([]Section{textSection("foo", "F")}, WithWidgetName("broken"))
	assert.ErrorIs(t, err, ErrMissingView)
	assert.Contains(t, err.Error(), "broken")
}

func TestNewWidgetRequiresRender(t *testing.T) {
	_, err := NewWidget([]Section{textSection(SectionView, "V"), {Key: "foo", Label: "L"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingRender)
}

func TestNewWidgetRejectsDuplicateAndEmptyKeys(t *testing.T) {
	_, err := NewWidget([]Section{textSection(SectionView, "V"), textSection("foo", "1"), textSection("foo", "2")})
	assert.ErrorIs(t, err, errDuplicateSection)

	_, err = NewWidget([]Section{textSection(SectionView, "V"), textSection(" ", "1")})
	assert.ErrorIs(t, err, ErrUnknownSection)
}

func TestMustWidgetPanicsOnConfigurationError(t *testing.T) {
	assert.Panics(t, func() { MustWidget(nil) })
}

func TestCardRendersSampleWidget(t *testing.T) {
	widget := MustWidget([]Section{
		{Key: SectionView, Render: func(WidgetProps) templ.Component { return Text("V") }},
		textSection("foo", "F"),
	})
	card := widget.Mount("w1")

	out, err := card.Render(context.Background(), WidgetProps{Name: "Cases", Subtitle: "Daily"})
	require.NoError(t, err)

	assert.Equal(t, "V", out.Body)
	assert.Equal(t, "w1", out.ID)
	assert.Equal(t, "Cases", out.Title)
	require.Len(t, out.Menu.Items, 2)
	assert.Equal(t, "foo", out.Menu.Items[0].Key)
	assert.Equal(t, SectionRemove, out.Menu.Items[1].Key)
	assert.Nil(t, out.Menu.Confirmation)
	assert.Contains(t, out.HTML, "<h2>Cases</h2>")
	assert.Contains(t, out.HTML, `data-action="foo"`)
	assert.Contains(t, out.HTML, `<section class="widget-body">V</section>`)
}

func TestCardIndexValuesOnlyRerenderView(t *testing.T) {
	var viewSeen, menuSeen []IndexValues
	widget := MustWidget([]Section{
		{Key: SectionView, Render: func(p WidgetProps) templ.Component {
			viewSeen = append(viewSeen, p.IndexValues)
			return Text("V")
		}},
		{Key: "foo", Label: "L", Render: func(p WidgetProps) templ.Component {
			menuSeen = append(menuSeen, p.IndexValues)
			return Text("F")
		}},
	})
	card := widget.Mount("w1")
	require.NoError(t, card.Menu().Open("foo"))
	ctx := context.Background()
	props := WidgetProps{Name: "Cases", IndexValues: IndexValues{Index: 1, Label: "d1"}}

	_, err := card.Render(ctx, props)
	require.NoError(t, err)
	props.IndexValues = IndexValues{Index: 2, Label: "d2"}
	_, err = card.Render(ctx, props)
	require.NoError(t, err)

	assert.Equal(t, 2, card.ViewRenders())
	assert.Equal(t, 1, card.Menu().Renders())
	assert.Equal(t, []IndexValues{{Index: 1, Label: "d1"}, {Index: 2, Label: "d2"}}, viewSeen)
	require.Len(t, menuSeen, 1)
	assert.Equal(t, IndexValues{}, menuSeen[0])

	props.Name = "Deaths"
	_, err = card.Render(ctx, props)
	require.NoError(t, err)
	assert.Equal(t, 2, card.Menu().Renders())
}

func TestRemoveConfirmationRendersButton(t *testing.T) {
	card := MustWidget([]Section{textSection(SectionView, "V")}).Mount("w<1>")
	require.NoError(t, card.Menu().Open(SectionRemove))

	out, err := card.Render(context.Background(), WidgetProps{})
	require.NoError(t, err)

	require.NotNil(t, out.Menu.Confirmation)
	assert.Equal(t, removeTitle, out.Menu.Confirmation.Title)
	assert.True(t, strings.Contains(out.Menu.Confirmation.Body, `data-widget-id="w&lt;1&gt;"`))
	assert.Contains(t, out.HTML, "<dialog open")
}

func TestCardViewFailureSurfaces(t *testing.T) {
	boom := errors.New("boom")
	card := MustWidget([]Section{{
		Key: SectionView,
		Render: func(WidgetProps) templ.Component {
			return templ.ComponentFunc(func(context.Context, io.Writer) error { return boom })
		},
	}}).Mount("w1")

	_, err := card.Render(context.Background(), WidgetProps{})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, card.ViewRenders())
}
