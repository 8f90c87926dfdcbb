package analytics

import (
	"context"
	"time"

	"github.com/brightsmile/clinic-api/internal/model"
	"github.com/brightsmile/clinic-api/internal/repository"
	apperrors "github.com/brightsmile/clinic-api/pkg/errors"
)

const dateLayout = "2006-01-02"

// rangeDays maps the supported reporting windows. Anything else falls
// back to the 7 day window.
var rangeDays = map[string]int{
	"7d":  7,
	"30d": 30,
	"90d": 90,
}

// Clock is injected so window boundaries are testable.
type Clock func() time.Time

type Service struct {
	repo repository.AnalyticsRepository
	now  Clock
}

func NewService(repo repository.AnalyticsRepository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func NewServiceWithClock(repo repository.AnalyticsRepository, clock Clock) *Service {
	return &Service{repo: repo, now: clock}
}

// Summarize partitions the booking store by status and totals completed
// revenue at current catalog prices. The four status counts always sum
// to Total.
func (s *Service) Summarize(ctx context.Context) (*model.Summary, error) {
	counts, err := s.repo.StatusCounts(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	recent, err := s.repo.CountCreatedSince(ctx, s.now().AddDate(0, 0, -7))
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	revenue, dangling, err := s.repo.CompletedRevenue(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	bookings := model.BookingCounts{
		Pending:     counts[model.BookingStatusPending],
		Confirmed:   counts[model.BookingStatusConfirmed],
		Completed:   counts[model.BookingStatusCompleted],
		Cancelled:   counts[model.BookingStatusCancelled],
		Recent7Days: recent,
	}
	bookings.Total = bookings.Pending + bookings.Confirmed + bookings.Completed + bookings.Cancelled

	return &model.Summary{
		Bookings: bookings,
		Revenue: model.RevenueSummary{
			Total:              revenue,
			DanglingReferences: dangling,
		},
	}, nil
}

// ChartSeries builds the two dashboard series for the window. The date
// series is dense: exactly one bucket per calendar day, ascending,
// zero-filled. The per-service series is sparse: only services with at
// least one completed booking in the window appear.
func (s *Service) ChartSeries(ctx context.Context, rangeStr string) (*model.ChartSeries, error) {
	days, ok := rangeDays[rangeStr]
	if !ok {
		days = 7
	}

	today := s.now().Truncate(24 * time.Hour)
	since := today.AddDate(0, 0, -(days - 1))

	perDay, err := s.repo.BookingsPerDay(ctx, since)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	buckets := make([]model.DateBucket, 0, days)
	for i := 0; i < days; i++ {
		day := since.AddDate(0, 0, i).Format(dateLayout)
		buckets = append(buckets, model.DateBucket{
			Date:     day,
			Bookings: perDay[day],
		})
	}

	revenues, err := s.repo.RevenueByService(ctx, since)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &model.ChartSeries{
		BookingsOverTime: buckets,
		RevenueByService: revenues,
	}, nil
}
