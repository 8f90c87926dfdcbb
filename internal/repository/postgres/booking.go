package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/brightsmile/clinic-api/internal/model"
)

// bookingColumns resolves service_name against the current catalog row.
// A dangling reference yields NULL, never an error.
const bookingColumns = `
	b.id, b.customer_name, b.customer_email, b.customer_phone,
	b.service_id, s.name AS service_name,
	b.preferred_date, b.time_slot, b.notes, b.status,
	b.created_at, b.updated_at
`

func (r *bookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	query := `
		INSERT INTO bookings (
			id, customer_name, customer_email, customer_phone,
			service_id, preferred_date, time_slot, notes, status,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	booking.ID = uuid.New()
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		booking.ID,
		booking.CustomerName,
		booking.CustomerEmail,
		booking.CustomerPhone,
		booking.ServiceID,
		booking.PreferredDate,
		booking.TimeSlot,
		booking.Notes,
		booking.Status,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *bookingRepository) Get(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings b
		LEFT JOIN services s ON s.id = b.service_id
		WHERE b.id = $1
	`
	var booking model.Booking
	err := r.db.GetContext(ctx, &booking, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sql.ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

func (r *bookingRepository) List(ctx context.Context, status model.BookingStatus) ([]*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings b
		LEFT JOIN services s ON s.id = b.service_id
	`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE b.status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY b.created_at DESC`

	bookings := []*model.Booking{}
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// UpdateStatus is the serialization point for concurrent transitions on
// one booking: the WHERE clause only matches while the row still holds
// the status the caller observed, so a lost race updates zero rows.
func (r *bookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, expected, next model.BookingStatus, timeSlot *string) (int64, error) {
	query := `
		UPDATE bookings
		SET status = $1,
			time_slot = COALESCE($2, time_slot),
			updated_at = $3
		WHERE id = $4 AND status = $5
	`
	result, err := r.db.ExecContext(ctx, query, next, timeSlot, time.Now(), id, expected)
	if err != nil {
		return 0, fmt.Errorf("failed to update booking status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}
