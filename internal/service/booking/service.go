package booking

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/brightsmile/clinic-api/internal/model"
	"github.com/brightsmile/clinic-api/internal/repository"
	apperrors "github.com/brightsmile/clinic-api/pkg/errors"
	"github.com/brightsmile/clinic-api/pkg/metrics"
)

const dateLayout = "2006-01-02"

// Service owns booking intake and the status state machine. Transitions
// are enforced here and serialized per record at the store boundary.
type Service struct {
	repo        repository.BookingRepository
	serviceRepo repository.ServiceRepository
	metrics     *metrics.Metrics
}

func NewService(repo repository.BookingRepository, serviceRepo repository.ServiceRepository, m *metrics.Metrics) *Service {
	return &Service{
		repo:        repo,
		serviceRepo: serviceRepo,
		metrics:     m,
	}
}

// Submit admits a patient request in status pending. Validation runs in
// a fixed order so the first failing field is the one reported. Every
// successful call creates a new booking; identical submissions are not
// deduplicated.
func (s *Service) Submit(ctx context.Context, req *model.SubmitBookingRequest) (*model.Booking, error) {
	if req.CustomerName == "" {
		return nil, apperrors.Validation("customer_name", "customer_name is required")
	}
	if req.CustomerEmail == "" {
		return nil, apperrors.Validation("customer_email", "customer_email is required")
	}
	if req.CustomerPhone == "" {
		return nil, apperrors.Validation("customer_phone", "customer_phone is required")
	}

	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		return nil, apperrors.NotFound("service")
	}
	if _, err := s.serviceRepo.Get(ctx, serviceID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("service")
		}
		return nil, apperrors.Internal(err)
	}

	// Past dates are accepted, only the syntax is checked.
	preferredDate, err := time.Parse(dateLayout, req.PreferredDate)
	if err != nil {
		return nil, apperrors.Validation("preferred_date", "preferred_date must be a valid date (YYYY-MM-DD)")
	}

	booking := &model.Booking{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		ServiceID:     serviceID,
		PreferredDate: preferredDate,
		TimeSlot:      req.TimeSlot,
		Notes:         req.Notes,
		Status:        model.BookingStatusPending,
	}
	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, apperrors.Internal(err)
	}

	if s.metrics != nil {
		s.metrics.BookingsCreated.Inc()
	}
	return s.Get(ctx, booking.ID)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	booking, err := s.repo.Get(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("booking")
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return booking, nil
}

func (s *Service) List(ctx context.Context, status model.BookingStatus) ([]*model.Booking, error) {
	bookings, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return bookings, nil
}

// UpdateStatus applies an administrator transition, optionally changing
// time_slot in the same operation. Re-asserting the current status is a
// permitted no-op so a slot can be changed without a transition. The
// compare-and-swap in the repository decides races: whichever caller
// loses observes the post-transition state and is rejected.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, req *model.UpdateBookingStatusRequest) (*model.Booking, error) {
	next := model.BookingStatus(req.Status)
	if !next.Valid() {
		return nil, apperrors.Validation("status", "status must be one of pending, confirmed, completed, cancelled")
	}

	booking, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	current := booking.Status
	if current != next && !current.CanTransitionTo(next) {
		if s.metrics != nil {
			s.metrics.TransitionsRejected.WithLabelValues(string(current), string(next)).Inc()
		}
		return nil, apperrors.InvalidTransition(string(current), string(next))
	}

	rows, err := s.repo.UpdateStatus(ctx, id, current, next, req.TimeSlot)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if rows == 0 {
		// Lost a race: the row moved out of the observed status between
		// the read and the swap, or was deleted. Re-read to report the
		// state the caller actually collided with.
		fresh, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if s.metrics != nil {
			s.metrics.TransitionsRejected.WithLabelValues(string(fresh.Status), string(next)).Inc()
		}
		return nil, apperrors.InvalidTransition(string(fresh.Status), string(next))
	}

	if s.metrics != nil && current != next {
		s.metrics.TransitionsApplied.WithLabelValues(string(current), string(next)).Inc()
	}
	return s.Get(ctx, id)
}
