package queue

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/visahub/lead-intake/internal/infra/http/middleware"
)

// LeadNotifier delivers a new-lead notice to the sales inbox.
type LeadNotifier interface {
	NotifyNewLead(ctx context.Context, payload LeadCreatedPayload) error
}

type Worker struct {
	Channel  *amqp.Channel
	Notifier LeadNotifier
	Logger   *zap.Logger
}

func NewWorker(ch *amqp.Channel, notifier LeadNotifier, logger *zap.Logger) *Worker {
	return &Worker{
		Channel:  ch,
		Notifier: notifier,
		Logger:   logger,
	}
}

// Start consumes the notification queue until the channel closes.
func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // manual ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		w.Logger.Fatal("failed to register RabbitMQ consumer", zap.Error(err))
	}

	for d := range msgs {
		w.handle(d)
	}
}

// handle processes one delivery. Failures are rejected without requeue
// so they dead-letter instead of wedging the queue.
func (w *Worker) handle(d amqp.Delivery) {
	var payload LeadCreatedPayload
	if err := json.Unmarshal(d.Body, &payload); err != nil {
		w.Logger.Error("invalid lead.created payload", zap.Error(err))
		d.Nack(false, false)
		return
	}

	if err := w.Notifier.NotifyNewLead(context.Background(), payload); err != nil {
		middleware.RecordNotificationError()
		w.Logger.Error("failed to deliver lead notification",
			zap.String("lead_id", payload.LeadID), zap.Error(err))
		d.Nack(false, false)
		return
	}

	w.Logger.Info("lead notification delivered", zap.String("lead_id", payload.LeadID))
	d.Ack(false)
}
