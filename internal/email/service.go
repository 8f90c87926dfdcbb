package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/brightsmile/clinic-api/internal/model"
)

type Service interface {
	SendBookingConfirmed(ctx context.Context, booking *model.Booking) error
	SendBookingCancelled(ctx context.Context, booking *model.Booking) error
}

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Enabled  bool
}

type smtpService struct {
	cfg    Config
	dialer *gomail.Dialer
}

func NewService(cfg Config) Service {
	return &smtpService{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (s *smtpService) SendBookingConfirmed(ctx context.Context, booking *model.Booking) error {
	slot := "to be scheduled"
	if booking.TimeSlot != nil {
		slot = *booking.TimeSlot
	}
	body := fmt.Sprintf(
		"Dear %s,\n\nYour appointment on %s (%s) has been confirmed.\n\nSee you soon!",
		booking.CustomerName,
		booking.PreferredDate.Format("2006-01-02"),
		slot,
	)
	return s.send(ctx, booking.CustomerEmail, "Your appointment is confirmed", body)
}

func (s *smtpService) SendBookingCancelled(ctx context.Context, booking *model.Booking) error {
	body := fmt.Sprintf(
		"Dear %s,\n\nYour appointment on %s has been cancelled. Please contact us to rebook.",
		booking.CustomerName,
		booking.PreferredDate.Format("2006-01-02"),
	)
	return s.send(ctx, booking.CustomerEmail, "Your appointment was cancelled", body)
}

func (s *smtpService) send(ctx context.Context, to, subject, body string) error {
	if !s.cfg.Enabled {
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", s.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	done := make(chan error, 1)
	go func() {
		done <- s.dialer.DialAndSend(msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
