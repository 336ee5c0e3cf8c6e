package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrQueueFull is returned when a notification cannot be buffered.
var ErrQueueFull = errors.New("notification queue full")

// Publisher delivers a payload to a broker channel.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

type notification struct {
	channel string
	payload []byte
}

// NotificationWorker buffers grievance notifications and publishes them from a
// background goroutine, so request handling never waits on the broker.
type NotificationWorker struct {
	publisher Publisher
	logger    *zap.Logger
	timeout   time.Duration
	queue     chan notification
	done      chan struct{}
	startOnce sync.Once
}

// NewNotificationWorker builds a worker around publisher.
func NewNotificationWorker(publisher Publisher, logger *zap.Logger, queueSize int, timeout time.Duration) *NotificationWorker {
	if queueSize <= 0 {
		queueSize = 256
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationWorker{
		publisher: publisher,
		logger:    logger,
		timeout:   timeout,
		queue:     make(chan notification, queueSize),
		done:      make(chan struct{}),
	}
}

// Publish enqueues payload without blocking.
func (w *NotificationWorker) Publish(_ context.Context, channel string, payload []byte) error {
	select {
	case w.queue <- notification{channel: channel, payload: payload}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Start runs the delivery loop until ctx is cancelled. Buffered notifications are
// flushed before the loop exits.
func (w *NotificationWorker) Start(ctx context.Context) {
	w.startOnce.Do(func() {
		go w.run(ctx)
	})
}

// Wait blocks until the delivery loop has flushed and exited.
func (w *NotificationWorker) Wait() {
	<-w.done
}

func (w *NotificationWorker) run(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case n := <-w.queue:
			w.deliver(n)
		case <-ctx.Done():
			w.drain()
			return
		}
	}
}

func (w *NotificationWorker) drain() {
	for {
		select {
		case n := <-w.queue:
			w.deliver(n)
		default:
			return
		}
	}
}

func (w *NotificationWorker) deliver(n notification) {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	if err := w.publisher.Publish(ctx, n.channel, n.payload); err != nil {
		w.logger.Warn("notification delivery failed",
			zap.String("channel", n.channel),
			zap.Int("bytes", len(n.payload)),
			zap.Error(err))
	}
}
