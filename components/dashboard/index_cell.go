package dashboard

// IndexCell owns the index shared by the slider and the widgets list. It is the
// single writer: children request changes through the control's OnChange and
// never mutate the value themselves. All methods run on the shell loop.
type IndexCell struct {
	value     int
	max       int
	control   *IndexControl
	opts      []IndexControlOption
	listeners []func(IndexState)
}

// NewIndexCell creates the cell and the control it feeds.
func NewIndexCell(max int, opts ...IndexControlOption) *IndexCell {
	cell := &IndexCell{max: max, opts: opts}
	cell.value = clampIndex(max-1, max)
	cell.control = NewIndexControl(cell.props(), opts...)
	return cell
}

// Renew closes the current control and replaces it with a paused one.
func (c *IndexCell) Renew() {
	c.control.Close()
	c.control = NewIndexControl(c.props(), c.opts...)
}

// Control returns the index control driven by this cell.
func (c *IndexCell) Control() *IndexControl { return c.control }

// Value returns the current index.
func (c *IndexCell) Value() int { return c.value }

// Max returns the exclusive upper bound.
func (c *IndexCell) Max() int { return c.max }

// State returns the control snapshot.
func (c *IndexCell) State() IndexState { return c.control.State() }

// OnChange registers a listener notified after each accepted change.
func (c *IndexCell) OnChange(fn func(IndexState)) {
	if fn != nil {
		c.listeners = append(c.listeners, fn)
	}
}

// Request is the mutation channel handed to the control.
func (c *IndexCell) Request(_ IndexEvent, value int) {
	c.value = clampIndex(value, c.max)
	c.sync()
}

// SetMax changes the bound, keeping the value inside it.
func (c *IndexCell) SetMax(max int) {
	if max == c.max {
		return
	}
	c.max = max
	c.value = clampIndex(c.value, max)
	c.sync()
}

// Reset changes the bound and selects its last position.
func (c *IndexCell) Reset(max int) {
	c.max = max
	c.value = clampIndex(max-1, max)
	c.sync()
}

func (c *IndexCell) sync() {
	c.control.Update(c.props())
	state := c.control.State()
	for _, fn := range c.listeners {
		fn(state)
	}
}

func (c *IndexCell) props() IndexProps {
	return IndexProps{Value: c.value, Max: c.max, OnChange: c.Request}
}
