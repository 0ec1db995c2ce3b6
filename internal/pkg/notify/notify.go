// Package notify fans workflow notifications out to pluggable sinks without
// blocking the request that produced them.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/yigit/internhub/internal/app/models"
	"github.com/yigit/internhub/internal/pkg/logger"
)

// Notification describes one committed transition or authoring change.
type Notification struct {
	EntityType   models.EntityType `json:"entityType"`
	EntityID     int64             `json:"entityId"`
	Event        string            `json:"event"`
	OldState     string            `json:"oldState,omitempty"`
	NewState     string            `json:"newState,omitempty"`
	ActorID      int64             `json:"actorId"`
	ActorRole    models.Role       `json:"actorRole"`
	Title        string            `json:"title"`
	Message      string            `json:"message"`
	Recipients   []int64           `json:"recipients,omitempty"`
	NotifyAdmins bool              `json:"notifyAdmins,omitempty"`
	OccurredAt   time.Time         `json:"occurredAt"`
}

// Notifier delivers a notification to one channel.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Publisher accepts notifications for later delivery.
type Publisher interface {
	Publish(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notification) error

func (f NotifierFunc) Notify(ctx context.Context, n Notification) error { return f(ctx, n) }

// Dispatcher queues notifications on a buffered channel and hands each one
// to every sink from a single worker goroutine. A full queue drops the
// notification with a warning.
type Dispatcher struct {
	queue   chan Notification
	sinks   []Notifier
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a dispatcher; call Start before publishing.
func NewDispatcher(buffer int, sinks ...Notifier) *Dispatcher {
	if buffer <= 0 {
		buffer = 256
	}
	return &Dispatcher{
		queue:   make(chan Notification, buffer),
		sinks:   sinks,
		timeout: 10 * time.Second,
	}
}

// AddSink registers another sink. It must be called before Start.
func (d *Dispatcher) AddSink(n Notifier) {
	d.sinks = append(d.sinks, n)
}

// Start launches the delivery worker.
func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go d.run()
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for n := range d.queue {
		for _, sink := range d.sinks {
			ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
			if err := sink.Notify(ctx, n); err != nil {
				logger.Warn().Err(err).
					Str("entity", string(n.EntityType)).
					Int64("entityID", n.EntityID).
					Str("event", n.Event).
					Msg("Notification sink failed")
			}
			cancel()
		}
	}
}

// Publish enqueues n without blocking.
func (d *Dispatcher) Publish(n Notification) {
	if n.OccurredAt.IsZero() {
		n.OccurredAt = time.Now().UTC()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		logger.Warn().Str("event", n.Event).Msg("Notification dispatcher closed, dropping notification")
		return
	}
	select {
	case d.queue <- n:
	default:
		logger.Warn().Str("event", n.Event).Int64("entityID", n.EntityID).Msg("Notification queue full, dropping notification")
	}
}

// Close stops accepting notifications and waits for queued ones to drain.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

// LogSink writes every notification to the application log.
func LogSink() Notifier {
	return NotifierFunc(func(_ context.Context, n Notification) error {
		logger.Info().
			Str("entity", string(n.EntityType)).
			Int64("entityID", n.EntityID).
			Str("event", n.Event).
			Str("from", n.OldState).
			Str("to", n.NewState).
			Int64("actorID", n.ActorID).
			Str("actorRole", string(n.ActorRole)).
			Ints64("recipients", n.Recipients).
			Msg(n.Title)
		return nil
	})
}
