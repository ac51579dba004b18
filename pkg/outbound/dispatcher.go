package outbound

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/helpdeskhq/sendkit/pkg/logger"
)

// Dispatcher periodically scans the queue for eligible messages and drives
// them through the transport. Each tick claims at most one batch; the batch
// is delivered concurrently and a new batch is not claimed while a previous
// one is still outstanding. One message's failure never affects its siblings
// or the loop itself.
type Dispatcher struct {
	queue     *Queue
	transport Transport

	interval    time.Duration
	batchSize   int
	sendTimeout time.Duration
	log         *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
	busy   atomic.Bool

	stopMu   sync.Mutex // synchronizes stopping state with WaitGroup adds
	stopping atomic.Bool
}

// NewDispatcher creates a dispatcher for the given queue and transport.
func NewDispatcher(queue *Queue, transport Transport, opts ...DispatcherOption) (*Dispatcher, error) {
	if queue == nil {
		return nil, ErrQueueNil
	}
	if transport == nil {
		return nil, ErrTransportNil
	}

	options := &dispatcherOptions{
		interval:  2 * time.Second,
		batchSize: 5,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	return &Dispatcher{
		queue:       queue,
		transport:   transport,
		interval:    options.interval,
		batchSize:   options.batchSize,
		sendTimeout: options.sendTimeout,
		log:         options.logger.With(logger.Component("outbound.dispatcher")),
	}, nil
}

// Start begins the dispatch loop in the background.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.mu.Lock()
	if d.cancel != nil {
		d.mu.Unlock()
		return ErrDispatcherStarted
	}
	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.mu.Unlock()

	d.stopping.Store(false)

	go d.run(runCtx)

	d.log.Info("dispatcher started",
		slog.Duration("interval", d.interval),
		slog.Int("batch_size", d.batchSize))

	return nil
}

// Stop shuts the loop down and waits for in-flight deliveries to resolve.
// Outcomes of in-flight sends are still applied to their messages.
func (d *Dispatcher) Stop() error {
	d.mu.Lock()
	if d.cancel == nil {
		d.mu.Unlock()
		return ErrDispatcherNotStarted
	}
	// Synchronize with cycle() so no batch is added to the WaitGroup
	// after Wait starts.
	d.stopMu.Lock()
	d.stopping.Store(true)
	d.stopMu.Unlock()

	cancel := d.cancel
	d.cancel = nil
	d.mu.Unlock()

	cancel()
	d.wg.Wait()

	d.log.Info("dispatcher stopped")

	return nil
}

// Run starts the dispatcher and returns a function suitable for errgroup.
func (d *Dispatcher) Run(ctx context.Context) func() error {
	return func() error {
		if err := d.Start(ctx); err != nil {
			return err
		}

		<-ctx.Done()

		return d.Stop()
	}
}

// run is the main scheduling loop.
func (d *Dispatcher) run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.cycle()
		}
	}
}

// cycle claims one batch of eligible messages and dispatches it. The busy
// flag guards re-entrancy: while a batch is outstanding, ticks are skipped.
func (d *Dispatcher) cycle() {
	if !d.busy.CompareAndSwap(false, true) {
		d.log.Debug("previous batch still in flight, skipping tick")
		return
	}

	// Register with the WaitGroup under stopMu so Stop() either sees this
	// batch or prevents it; afterwards claiming is safe.
	d.stopMu.Lock()
	if d.stopping.Load() {
		d.stopMu.Unlock()
		d.busy.Store(false)
		return
	}
	d.wg.Add(1)
	d.stopMu.Unlock()

	batch := d.queue.claim(d.batchSize)
	if len(batch) == 0 {
		d.busy.Store(false)
		d.wg.Done()
		return
	}

	d.log.Debug("claimed batch", slog.Int("size", len(batch)))

	go func() {
		defer d.wg.Done()
		defer d.busy.Store(false)

		var wg sync.WaitGroup
		for _, msg := range batch {
			wg.Add(1)
			go func(msg Message) {
				defer wg.Done()
				d.deliver(msg)
			}(msg)
		}
		wg.Wait()
	}()
}

// deliver runs one transport attempt for a claimed message and applies the
// outcome to its delivery state.
func (d *Dispatcher) deliver(msg Message) {
	start := time.Now()

	err := d.send(msg)
	duration := time.Since(start)

	if err == nil {
		if _, ok := d.queue.markSent(msg.ID); ok {
			d.log.Info("message sent",
				logger.MessageID(msg.ID),
				logger.Destination(msg.To),
				logger.Attempt(int(msg.Attempts), int(msg.MaxAttempts)),
				slog.Duration("duration", duration))
		}
		return
	}

	updated, ok := d.queue.markFailed(msg.ID, err.Error())
	if !ok {
		return
	}

	if updated.Status == StatusFailed {
		d.log.Warn("message failed permanently",
			logger.MessageID(msg.ID),
			logger.Destination(msg.To),
			logger.Attempt(int(updated.Attempts), int(updated.MaxAttempts)),
			logger.Error(err))
		return
	}

	d.log.Error("delivery attempt failed",
		logger.MessageID(msg.ID),
		logger.Destination(msg.To),
		logger.Attempt(int(updated.Attempts), int(updated.MaxAttempts)),
		slog.Time("next_attempt_at", derefTime(updated.NextAttemptAt)),
		logger.Error(err))
}

// send performs the transport call for the message's payload kind. A panic
// inside the transport is contained and reported as an ordinary failure, and
// a disconnected transport fails the attempt without calling send.
func (d *Dispatcher) send(msg Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in transport send: %v", r)
		}
	}()

	if !d.transport.Connected() {
		return ErrTransportNotConnected
	}

	// Deliveries outlive dispatcher shutdown so their outcomes still land.
	ctx := context.Background()
	if d.sendTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.sendTimeout)
		defer cancel()
	}

	switch msg.Payload.Kind {
	case PayloadText:
		return d.transport.SendText(ctx, msg.To, msg.Payload.Body)
	case PayloadMedia:
		return d.transport.SendMedia(ctx, msg.To, msg.Payload.Media)
	default:
		return fmt.Errorf("unknown payload kind %q", msg.Payload.Kind)
	}
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
