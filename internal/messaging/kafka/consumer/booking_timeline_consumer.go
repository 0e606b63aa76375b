package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"go-careops/internal/client"
	"go-careops/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeBookingCancelled appends a system note to the client's care record
// whenever one of their visits is cancelled, so the cancellation shows up in
// the client timeline without the booking module writing into client tables.
func ConsumeBookingCancelled(
	ctx context.Context,
	reader *kafkago.Reader,
	clientService client.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.booking_timeline")
	log.Info("booking timeline consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("booking timeline consumer stopped")
				return
			}
			log.Error("fetch booking cancelled message failed", zap.Error(err))
			continue
		}

		var event events.BookingCancelledEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode booking_cancelled event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		body := fmt.Sprintf("Visit %s cancelled: %s", event.BookingID, event.Reason)
		_, err = clientService.AddNote(ctx, event.BranchID, event.CarerID, event.ClientID, client.AddNoteRequest{
			Category: client.NoteCategorySystem,
			Body:     body,
		})
		if err != nil {
			log.Error("append cancellation note failed",
				zap.String("booking_id", event.BookingID),
				zap.String("client_id", event.ClientID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit booking cancelled message failed", zap.Error(err))
			continue
		}

		log.Info("cancellation note recorded",
			zap.String("booking_id", event.BookingID),
			zap.String("client_id", event.ClientID),
		)
	}
}
