package worker

import (
	"context"
	"encoding/json"

	"github.com/brightsmile/clinic-api/internal/email"
	"github.com/brightsmile/clinic-api/internal/model"
	"github.com/brightsmile/clinic-api/pkg/logger"
	"github.com/brightsmile/clinic-api/pkg/messaging"
)

// BookingStatusChannel carries booking status mutations published from
// the outbox.
const BookingStatusChannel = "BOOKING_STATUS_UPDATED"

// Notifier emails patients when their booking is confirmed or
// cancelled. It consumes events the outbox processor published; a
// failed send is logged and dropped, the booking itself is untouched.
type Notifier struct {
	broker messaging.Broker
	email  email.Service
	logger *logger.Logger
}

func NewNotifier(broker messaging.Broker, emailSvc email.Service, logger *logger.Logger) *Notifier {
	return &Notifier{broker: broker, email: emailSvc, logger: logger}
}

func (n *Notifier) Start(ctx context.Context) error {
	messages, err := n.broker.Subscribe(ctx, BookingStatusChannel)
	if err != nil {
		return err
	}

	n.logger.Info("starting booking notifier")

	for {
		select {
		case <-ctx.Done():
			n.logger.Info("shutting down booking notifier")
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			n.handle(ctx, msg)
		}
	}
}

func (n *Notifier) handle(ctx context.Context, raw []byte) {
	var booking model.Booking
	if err := json.Unmarshal(raw, &booking); err != nil {
		n.logger.Error(err, "failed to decode booking event")
		return
	}

	var err error
	switch booking.Status {
	case model.BookingStatusConfirmed:
		err = n.email.SendBookingConfirmed(ctx, &booking)
	case model.BookingStatusCancelled:
		err = n.email.SendBookingCancelled(ctx, &booking)
	default:
		return
	}

	if err != nil {
		n.logger.Error(err, "failed to send booking notification",
			"booking_id", booking.ID.String(),
			"status", string(booking.Status))
	}
}
