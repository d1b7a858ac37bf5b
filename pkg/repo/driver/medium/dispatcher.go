package medium

import (
	"context"

	"boostiq/pkg/entities"
	"boostiq/utilities"
)

// Notifier accepts outbound notification events from the core. Delivery and
// rendering are owned by whatever sinks subscribe; the core only emits data.
type Notifier interface {
	Notify(notification entities.Notification)
}

// Sink is one delivery collaborator, e.g. the messaging bridge owned by the
// conversational layer.
type Sink interface {
	Send(ctx context.Context, notification entities.Notification) error
}

type Dispatcher struct {
	queue chan entities.Notification
	sinks []Sink
}

func NewDispatcher(sinks ...Sink) *Dispatcher {
	return &Dispatcher{
		queue: make(chan entities.Notification, 100),
		sinks: sinks,
	}
}

// Notify enqueues without blocking the caller. A full queue drops the event
// with a log line; entitlement state is already persisted at that point.
func (d *Dispatcher) Notify(notification entities.Notification) {
	select {
	case d.queue <- notification:
	default:
		utilities.NewLogger("Dispatcher.Notify").
			Errorf("notification queue full, dropping %s for %s", notification.Kind, notification.UserID)
	}
}

func (d *Dispatcher) SpawnSender(ctx context.Context) {
	log := utilities.NewLogger("Dispatcher.SpawnSender")

	for {
		select {
		case notification := <-d.queue:
			for _, sink := range d.sinks {
				if err := sink.Send(ctx, notification); err != nil {
					log.WithError(err).Errorf("failed to deliver %s notification", notification.Kind)
				}
			}
		case <-ctx.Done():
			log.Info("Terminating...")
			return
		}
	}
}

// LogSink writes every event to the service log. It doubles as the default
// operator channel when no external sink is registered.
type LogSink struct{}

func (LogSink) Send(_ context.Context, notification entities.Notification) error {
	utilities.NewLoggerWithFields("LogSink.Send", map[string]interface{}{
		"kind":    string(notification.Kind),
		"user_id": notification.UserID,
	}).Info(notification.Payload)

	return nil
}
