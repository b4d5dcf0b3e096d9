package dashboard

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Loop is the single UI thread of the shell. Posted funcs run one at a time,
// in order, on the goroutine executing Run. Every mutation of shell, index
// and card state happens on it.
type Loop struct {
	mu      sync.Mutex
	pending []func()
	closed  bool

	wake     chan struct{}
	stop     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
	exitOnce sync.Once
	logger   *zap.Logger
}

// NewLoop creates a loop. Call Run to start executing posted work.
func NewLoop(logger *zap.Logger) *Loop {
	return &Loop{
		wake:    make(chan struct{}, 1),
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
		logger:  normalizeLogger(logger),
	}
}

// Post queues fn. It never blocks and reports false once the loop is closed.
func (l *Loop) Post(fn func()) bool {
	if fn == nil {
		return false
	}
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	l.pending = append(l.pending, fn)
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// Do posts fn and waits for it to finish. It must not be called from the
// loop goroutine.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	if !l.Post(func() {
		defer close(done)
		fn()
	}) {
		return ErrLoopClosed
	}
	select {
	case <-done:
		return nil
	case <-l.stopped:
		return ErrLoopClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run executes posted work until ctx is cancelled or Close is called.
func (l *Loop) Run(ctx context.Context) error {
	defer l.exitOnce.Do(func() { close(l.stopped) })
	for {
		select {
		case <-ctx.Done():
			l.Close()
			return ctx.Err()
		case <-l.stop:
			return nil
		case <-l.wake:
			l.drain()
		}
	}
}

// Close stops the loop. Pending work is dropped.
func (l *Loop) Close() {
	l.mu.Lock()
	l.closed = true
	l.pending = nil
	l.mu.Unlock()
	l.stopOnce.Do(func() { close(l.stop) })
}

func (l *Loop) drain() {
	for {
		l.mu.Lock()
		batch := l.pending
		l.pending = nil
		l.mu.Unlock()
		if len(batch) == 0 {
			return
		}
		for _, fn := range batch {
			select {
			case <-l.stop:
				return
			default:
			}
			l.run(fn)
		}
	}
}

func (l *Loop) run(fn func()) {
	defer func() {
		if recovered := recover(); recovered != nil {
			l.logger.Error("event loop task panicked", zap.Any("panic", recovered))
		}
	}()
	fn()
}
