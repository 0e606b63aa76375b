package producer

import (
	"context"

	"go-careops/internal/messaging/kafka"

	kafkago "github.com/segmentio/kafka-go"
)

// publishEvent keys the message by aggregate id so all events for one
// booking or payroll land on the same partition, in order.
func publishEvent(ctx context.Context, writer *kafkago.Writer, event kafka.OutboxEvent) error {
	msg := kafkago.Message{
		Topic: event.Topic,
		Key:   []byte(event.AggregateID),
		Value: event.Payload,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "aggregate_type", Value: []byte(event.AggregateType)},
		},
	}

	return writer.WriteMessages(ctx, msg)
}
