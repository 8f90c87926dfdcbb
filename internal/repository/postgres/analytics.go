package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/brightsmile/clinic-api/internal/model"
)

func (r *analyticsRepository) StatusCounts(ctx context.Context) (map[model.BookingStatus]int, error) {
	query := `
		SELECT status, COUNT(*) AS count
		FROM bookings
		GROUP BY status
	`
	rows := []struct {
		Status model.BookingStatus `db:"status"`
		Count  int                 `db:"count"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to count bookings by status: %w", err)
	}

	counts := make(map[model.BookingStatus]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *analyticsRepository) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM bookings
		WHERE created_at >= $1
	`
	var count int
	if err := r.db.GetContext(ctx, &count, query, since); err != nil {
		return 0, fmt.Errorf("failed to count recent bookings: %w", err)
	}
	return count, nil
}

// CompletedRevenue joins completed bookings against the current catalog
// price. Dangling references are counted, not summed.
func (r *analyticsRepository) CompletedRevenue(ctx context.Context) (float64, int, error) {
	query := `
		SELECT
			COALESCE(SUM(s.price), 0) AS total,
			COUNT(*) FILTER (WHERE s.id IS NULL) AS dangling
		FROM bookings b
		LEFT JOIN services s ON s.id = b.service_id
		WHERE b.status = 'completed'
	`
	var row struct {
		Total    float64 `db:"total"`
		Dangling int     `db:"dangling"`
	}
	if err := r.db.GetContext(ctx, &row, query); err != nil {
		return 0, 0, fmt.Errorf("failed to compute completed revenue: %w", err)
	}
	return row.Total, row.Dangling, nil
}

func (r *analyticsRepository) BookingsPerDay(ctx context.Context, since time.Time) (map[string]int, error) {
	query := `
		SELECT TO_CHAR(created_at, 'YYYY-MM-DD') AS day, COUNT(*) AS count
		FROM bookings
		WHERE created_at >= $1
		GROUP BY day
	`
	rows := []struct {
		Day   string `db:"day"`
		Count int    `db:"count"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query, since); err != nil {
		return nil, fmt.Errorf("failed to bucket bookings per day: %w", err)
	}

	perDay := make(map[string]int, len(rows))
	for _, row := range rows {
		perDay[row.Day] = row.Count
	}
	return perDay, nil
}

func (r *analyticsRepository) RevenueByService(ctx context.Context, since time.Time) ([]model.ServiceRevenue, error) {
	query := `
		SELECT s.name AS service_name, SUM(s.price) AS revenue
		FROM bookings b
		JOIN services s ON s.id = b.service_id
		WHERE b.status = 'completed' AND b.created_at >= $1
		GROUP BY s.name
		ORDER BY revenue DESC
	`
	revenues := []model.ServiceRevenue{}
	if err := r.db.SelectContext(ctx, &revenues, query, since); err != nil {
		return nil, fmt.Errorf("failed to compute revenue by service: %w", err)
	}
	return revenues, nil
}
