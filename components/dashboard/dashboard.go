package dashboard

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

var errMissingScheduler = errors.New("dashboard: dashboard requires a loop or a scheduler")

// DashboardOptions configures the dashboard subtree. Loop or Scheduler is
// required. With a Loop, timer ticks default to the loop and the dataset is
// fetched off it.
type DashboardOptions struct {
	Loop         *Loop
	Service      *Service
	Source       DataSource
	Scheduler    Scheduler
	PlayInterval time.Duration
	Logger       *zap.Logger
}

// DashboardView is the rendered dashboard: the index control and the widgets.
type DashboardView struct {
	Index      IndexState      `json:"index"`
	IndexLabel string          `json:"index_label"`
	Widgets    WidgetsListView `json:"widgets"`
	Fault      string          `json:"fault,omitempty"`
}

// Dashboard owns the shared index cell and the widgets list. It is the
// nearest common ancestor of the slider and the list, so it is the only
// writer of the index. All methods run on the shell loop.
type Dashboard struct {
	loop    *Loop
	service *Service
	source  DataSource
	cell    *IndexCell
	list    *WidgetsList
	logger  *zap.Logger
	mounted bool
	session uint64
}

// NewDashboard builds a dashboard. A nil source serves DefaultDataset.
func NewDashboard(opts DashboardOptions) (*Dashboard, error) {
	if opts.Scheduler == nil {
		if opts.Loop == nil {
			return nil, errMissingScheduler
		}
		opts.Scheduler = LoopScheduler{Loop: opts.Loop}
	}
	logger := normalizeLogger(opts.Logger)
	if opts.Service == nil {
		opts.Service = NewService(Options{WidgetStore: NewMemoryWidgetStore(), Logger: logger})
	}
	if opts.Source == nil {
		opts.Source = StaticDataSource{Data: DefaultDataset()}
	}
	cell := NewIndexCell(0, WithPlayInterval(opts.PlayInterval), WithScheduler(opts.Scheduler))
	return &Dashboard{
		loop:    opts.Loop,
		service: opts.Service,
		source:  opts.Source,
		cell:    cell,
		list:    NewWidgetsList(opts.Service, cell, logger),
		logger:  logger,
	}, nil
}

// Index returns the shared index cell.
func (d *Dashboard) Index() *IndexCell { return d.cell }

// Widgets returns the widgets list.
func (d *Dashboard) Widgets() *WidgetsList { return d.list }

// Service returns the widget service.
func (d *Dashboard) Service() *Service { return d.service }

// Mounted reports whether the dashboard is mounted.
func (d *Dashboard) Mounted() bool { return d.mounted }

// Mount loads the dataset and the placed widgets, then calls onLoaded. The
// index starts at the last position of the dataset. With a Loop the dataset
// is fetched on its own goroutine and applied on the loop; a result arriving
// after Unmount is dropped. Without one the load runs inline.
func (d *Dashboard) Mount(ctx context.Context, onLoaded func()) error {
	if d.cell.Control().Closed() {
		d.cell.Renew()
	}
	d.mounted = true
	d.session++
	if d.loop == nil {
		err := d.apply(ctx, d.fetch(ctx))
		if onLoaded != nil {
			onLoaded()
		}
		return err
	}
	session := d.session
	go func() {
		dataset := d.fetch(ctx)
		d.loop.Post(func() {
			if !d.mounted || d.session != session {
				return
			}
			if err := NewBoundary("Dashboard", d.logger).Guard(func() error {
				return d.apply(ctx, dataset)
			}); err != nil {
				d.logger.Warn("mount dashboard failed", zap.Error(err))
			}
			if onLoaded != nil {
				onLoaded()
			}
		})
	}()
	return nil
}

func (d *Dashboard) fetch(ctx context.Context) Dataset {
	dataset, err := d.source.Dataset(ctx)
	if err != nil {
		d.logger.Warn("load dataset failed", zap.Error(err))
		return Dataset{}
	}
	return dataset
}

func (d *Dashboard) apply(ctx context.Context, dataset Dataset) error {
	d.list.SetDataset(dataset)
	d.cell.Reset(dataset.Len())
	return d.list.Reload(ctx)
}

// Unmount stops the index control. Pending ticks never fire afterwards.
func (d *Dashboard) Unmount() {
	d.mounted = false
	d.session++
	d.cell.Control().Close()
}

// Play starts auto-advance.
func (d *Dashboard) Play() { d.cell.Control().Play() }

// Pause stops auto-advance.
func (d *Dashboard) Pause() { d.cell.Control().Pause() }

// Toggle switches between playing and paused.
func (d *Dashboard) Toggle() { d.cell.Control().Toggle() }

// SetIndex selects a position as a user interaction.
func (d *Dashboard) SetIndex(value int) { d.cell.Control().Change(value) }

// Render renders the index state and the widgets list. The list renders
// inside its own boundary.
func (d *Dashboard) Render(ctx context.Context, env RenderEnv) DashboardView {
	state := d.cell.State()
	view := DashboardView{
		Index:      state,
		IndexLabel: d.list.Dataset().At(state.Value).Label,
	}
	boundary := NewBoundary("WidgetsList", d.logger)
	if err := boundary.Guard(func() error {
		view.Widgets = d.list.Render(ctx, env)
		return nil
	}); err != nil {
		view.Widgets = WidgetsListView{}
		view.Fault = translate(env.Translator, "Dashboard", "Something went wrong")
	}
	return view
}
