package action

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/radiusart/mint-actions/internal/mint"
	"go.uber.org/zap"
)

// Notifier delivers a MintNotification to one sink.
type Notifier interface {
	Name() string
	NotifyMint(ctx context.Context, n mint.MintNotification) error
}

// NotificationRecorder receives the outcome of each delivery.
type NotificationRecorder interface {
	RecordNotification(ctx context.Context, sink string, ok bool)
}

// Dispatcher sends mint notifications in detached goroutines. Delivery is
// at-most-once: failures are logged and counted, never retried or returned.
type Dispatcher struct {
	sinks   []Notifier
	timeout time.Duration
	logger  *zap.SugaredLogger
	metrics NotificationRecorder

	wg sync.WaitGroup
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithNotificationRecorder reports every delivery outcome to r.
func WithNotificationRecorder(r NotificationRecorder) DispatcherOption {
	return func(d *Dispatcher) {
		d.metrics = r
	}
}

// WithNotifyTimeout bounds each delivery.
func WithNotifyTimeout(timeout time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

func NewDispatcher(logger *zap.SugaredLogger, sinks []Notifier, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		sinks:   sinks,
		timeout: 10 * time.Second,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch returns immediately. The request context's values are kept but
// its cancellation is not, so a finished request does not abort delivery.
func (d *Dispatcher) Dispatch(ctx context.Context, n mint.MintNotification) {
	detached := context.WithoutCancel(ctx)
	for _, sink := range d.sinks {
		d.wg.Add(1)
		go d.deliver(detached, sink, n)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, sink Notifier, n mint.MintNotification) {
	defer d.wg.Done()

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		return sink.NotifyMint(ctx, n)
	}()

	if d.metrics != nil {
		d.metrics.RecordNotification(ctx, sink.Name(), err == nil)
	}
	if err != nil {
		d.logger.Warnw("Mint notification failed",
			"sink", sink.Name(),
			"collection", n.CollectionRef,
			"account", n.Account,
			"error", err,
		)
		return
	}
	d.logger.Debugw("Mint notification delivered",
		"sink", sink.Name(),
		"collection", n.CollectionRef,
	)
}

// Wait blocks until in-flight deliveries finish or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
