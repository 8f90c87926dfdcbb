package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/brightsmile/clinic-api/internal/model"
)

type ServiceRepository interface {
	Create(ctx context.Context, service *model.Service) error
	Get(ctx context.Context, id uuid.UUID) (*model.Service, error)
	List(ctx context.Context, activeOnly bool) ([]*model.Service, error)
	Update(ctx context.Context, service *model.Service) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	Get(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	List(ctx context.Context, status model.BookingStatus) ([]*model.Booking, error)

	// UpdateStatus applies a compare-and-swap on (id, expected). It
	// returns the number of rows updated; zero means the booking was
	// missing or no longer in the expected status.
	UpdateStatus(ctx context.Context, id uuid.UUID, expected, next model.BookingStatus, timeSlot *string) (int64, error)
}

type AnalyticsRepository interface {
	StatusCounts(ctx context.Context) (map[model.BookingStatus]int, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int, error)

	// CompletedRevenue returns total revenue of completed bookings at
	// current catalog prices plus the count of completed bookings whose
	// service row no longer exists.
	CompletedRevenue(ctx context.Context) (total float64, dangling int, err error)

	BookingsPerDay(ctx context.Context, since time.Time) (map[string]int, error)
	RevenueByService(ctx context.Context, since time.Time) ([]model.ServiceRevenue, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *model.OutboxEvent) error
	GetPendingEventsWithLock(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string) error
	DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
}
