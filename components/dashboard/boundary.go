package dashboard

import (
	"go.uber.org/zap"
)

// Boundary contains failures of a render subtree so they never escape to the
// enclosing shell. Errors and panics both become a *RenderFault.
type Boundary struct {
	Origin string
	Logger *zap.Logger
}

// NewBoundary builds a boundary labelled with origin.
func NewBoundary(origin string, logger *zap.Logger) Boundary {
	return Boundary{Origin: origin, Logger: normalizeLogger(logger)}
}

// Guard runs fn and converts a returned error or a panic into a *RenderFault.
func (b Boundary) Guard(fn func() error) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = &RenderFault{Origin: b.Origin, Panic: recovered}
			b.log(err)
		}
	}()
	if ferr := fn(); ferr != nil {
		err = &RenderFault{Origin: b.Origin, Err: ferr}
		b.log(err)
	}
	return err
}

func (b Boundary) log(err error) {
	normalizeLogger(b.Logger).Error("render fault contained",
		zap.String("origin", b.Origin),
		zap.Error(err),
	)
}
