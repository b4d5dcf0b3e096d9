package dashboard

import (
	"sync"
	"time"
)

// DefaultPlayInterval is the auto-advance period of the index control.
const DefaultPlayInterval = 40 * time.Millisecond

// Timer is a cancellable pending callback.
type Timer interface {
	Stop() bool
}

// Scheduler arms single-shot timers.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

type timeScheduler struct{}

func (timeScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// LoopScheduler delivers timer callbacks on the shell loop.
type LoopScheduler struct {
	Loop *Loop
}

// AfterFunc arms a timer whose callback is posted to the loop when it fires.
func (s LoopScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, func() {
		s.Loop.Post(fn)
	})
}

// IndexSource tells whether an index change came from the user or the timer.
type IndexSource int

const (
	IndexSourceUser IndexSource = iota
	IndexSourceAuto
)

// IndexEvent accompanies every OnChange call.
type IndexEvent struct {
	Source IndexSource
}

// IndexProps are owned by the caller; the control never keeps its own value.
type IndexProps struct {
	Value    int
	Max      int
	OnChange func(event IndexEvent, value int)
}

// IndexState is a snapshot of the control.
type IndexState struct {
	Value     int  `json:"value"`
	Max       int  `json:"max"`
	IsPlaying bool `json:"is_playing"`
}

// IndexControlOption customizes an IndexControl.
type IndexControlOption func(*IndexControl)

// WithPlayInterval overrides the auto-advance period.
func WithPlayInterval(d time.Duration) IndexControlOption {
	return func(c *IndexControl) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithScheduler sets the timer source.
func WithScheduler(s Scheduler) IndexControlOption {
	return func(c *IndexControl) {
		if s != nil {
			c.scheduler = s
		}
	}
}

// IndexControl is a bounded index selector with play/pause. While playing it
// advances the index through self-rescheduling single-shot timers, so ticks
// drift under load but none is skipped.
//
// The control is safe for concurrent use. Timer delivery holds the delivery
// lock across OnChange, so once Pause or Close returns no tick of the previous
// run reaches OnChange. OnChange must not call Pause or Close.
type IndexControl struct {
	scheduler Scheduler
	interval  time.Duration

	delivery sync.Mutex

	mu      sync.Mutex
	props   IndexProps
	timer   Timer
	gen     uint64
	playing bool
	closed  bool
}

// NewIndexControl builds a paused control. Without WithScheduler the timers
// fire on their own goroutines and OnChange must be safe to call from them.
func NewIndexControl(props IndexProps, opts ...IndexControlOption) *IndexControl {
	c := &IndexControl{
		props:     props,
		scheduler: timeScheduler{},
		interval:  DefaultPlayInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Update replaces the caller-owned props.
func (c *IndexControl) Update(props IndexProps) {
	c.mu.Lock()
	c.props = props
	c.mu.Unlock()
}

// State returns the current snapshot.
func (c *IndexControl) State() IndexState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return IndexState{Value: c.props.Value, Max: c.props.Max, IsPlaying: c.playing}
}

// IsPlaying reports whether auto-advance is active.
func (c *IndexControl) IsPlaying() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing
}

// Closed reports whether Close was called.
func (c *IndexControl) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Play starts auto-advance. It is a no-op while already playing.
func (c *IndexControl) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.playing {
		return
	}
	c.playing = true
	c.schedule()
}

// Pause cancels any pending tick.
func (c *IndexControl) Pause() {
	c.delivery.Lock()
	defer c.delivery.Unlock()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancel()
	c.playing = false
}

// Toggle switches between playing and paused.
func (c *IndexControl) Toggle() {
	if c.IsPlaying() {
		c.Pause()
		return
	}
	c.Play()
}

// Change forwards a manual selection clamped to the current bounds.
func (c *IndexControl) Change(value int) {
	c.mu.Lock()
	closed, props := c.closed, c.props
	c.mu.Unlock()
	if closed || props.OnChange == nil {
		return
	}
	props.OnChange(IndexEvent{Source: IndexSourceUser}, clampIndex(value, props.Max))
}

// Close cancels any pending tick for good. Later Play calls are ignored.
func (c *IndexControl) Close() {
	c.delivery.Lock()
	defer c.delivery.Unlock()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancel()
	c.playing = false
	c.closed = true
}

// schedule arms the next tick. Callers hold mu.
func (c *IndexControl) schedule() {
	c.cancel()
	gen := c.gen
	c.timer = c.scheduler.AfterFunc(c.interval, func() { c.tick(gen) })
}

// cancel stops the pending timer and invalidates any callback already in
// flight. Callers hold mu.
func (c *IndexControl) cancel() {
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *IndexControl) current(gen uint64) bool {
	return !c.closed && c.playing && gen == c.gen
}

func (c *IndexControl) tick(gen uint64) {
	c.delivery.Lock()
	defer c.delivery.Unlock()

	c.mu.Lock()
	if !c.current(gen) {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	props := c.props
	c.mu.Unlock()

	if props.OnChange != nil {
		props.OnChange(IndexEvent{Source: IndexSourceAuto}, NextIndex(props.Value, props.Max))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current(gen) {
		c.schedule()
	}
}

// NextIndex advances value with wrap-around. Bounds of one or less never advance.
func NextIndex(value, max int) int {
	if max <= 1 {
		return value
	}
	if value < 0 || value >= max-1 {
		return 0
	}
	return value + 1
}

func clampIndex(value, max int) int {
	if max <= 0 || value < 0 {
		return 0
	}
	if value >= max {
		return max - 1
	}
	return value
}
