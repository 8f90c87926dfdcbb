package booking

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightsmile/clinic-api/internal/model"
	apperrors "github.com/brightsmile/clinic-api/pkg/errors"
)

type fakeBookingRepo struct {
	bookings map[uuid.UUID]*model.Booking
	catalog  *fakeServiceRepo
}

func newFakeBookingRepo(catalog *fakeServiceRepo) *fakeBookingRepo {
	return &fakeBookingRepo{
		bookings: make(map[uuid.UUID]*model.Booking),
		catalog:  catalog,
	}
}

// resolveName mirrors the LEFT JOIN the real repository performs.
func (r *fakeBookingRepo) resolveName(b *model.Booking) {
	b.ServiceName = nil
	if r.catalog == nil {
		return
	}
	if s, ok := r.catalog.services[b.ServiceID]; ok {
		name := s.Name
		b.ServiceName = &name
	}
}

func (r *fakeBookingRepo) Create(ctx context.Context, b *model.Booking) error {
	b.ID = uuid.New()
	b.CreatedAt = time.Now()
	b.UpdatedAt = time.Now()
	clone := *b
	r.bookings[b.ID] = &clone
	return nil
}

func (r *fakeBookingRepo) Get(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *b
	r.resolveName(&clone)
	return &clone, nil
}

func (r *fakeBookingRepo) List(ctx context.Context, status model.BookingStatus) ([]*model.Booking, error) {
	var out []*model.Booking
	for _, b := range r.bookings {
		if status == "" || b.Status == status {
			clone := *b
			r.resolveName(&clone)
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, expected, next model.BookingStatus, timeSlot *string) (int64, error) {
	b, ok := r.bookings[id]
	if !ok || b.Status != expected {
		return 0, nil
	}
	b.Status = next
	if timeSlot != nil {
		b.TimeSlot = timeSlot
	}
	b.UpdatedAt = time.Now()
	return 1, nil
}

type fakeServiceRepo struct {
	services map[uuid.UUID]*model.Service
}

func newFakeServiceRepo() *fakeServiceRepo {
	return &fakeServiceRepo{services: make(map[uuid.UUID]*model.Service)}
}

func (r *fakeServiceRepo) Create(ctx context.Context, s *model.Service) error {
	s.ID = uuid.New()
	r.services[s.ID] = s
	return nil
}

func (r *fakeServiceRepo) Get(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	s, ok := r.services[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return s, nil
}

func (r *fakeServiceRepo) List(ctx context.Context, activeOnly bool) ([]*model.Service, error) {
	var out []*model.Service
	for _, s := range r.services {
		if !activeOnly || s.Active {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeServiceRepo) Update(ctx context.Context, s *model.Service) error {
	if _, ok := r.services[s.ID]; !ok {
		return sql.ErrNoRows
	}
	r.services[s.ID] = s
	return nil
}

func (r *fakeServiceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.services[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.services, id)
	return nil
}

func setupService(t *testing.T) (*Service, *fakeBookingRepo, uuid.UUID) {
	t.Helper()
	serviceRepo := newFakeServiceRepo()
	bookingRepo := newFakeBookingRepo(serviceRepo)

	cleaning := &model.Service{Name: "Cleaning", Price: 50, Active: true}
	require.NoError(t, serviceRepo.Create(context.Background(), cleaning))

	return NewService(bookingRepo, serviceRepo, nil), bookingRepo, cleaning.ID
}

func validRequest(serviceID uuid.UUID) *model.SubmitBookingRequest {
	return &model.SubmitBookingRequest{
		CustomerName:  "Jane Doe",
		CustomerEmail: "jane@example.com",
		CustomerPhone: "+15551234567",
		ServiceID:     serviceID.String(),
		PreferredDate: "2025-01-10",
	}
}

func TestSubmitCreatesPendingBooking(t *testing.T) {
	svc, _, serviceID := setupService(t)

	booking, err := svc.Submit(context.Background(), validRequest(serviceID))
	require.NoError(t, err)

	assert.Equal(t, model.BookingStatusPending, booking.Status)
	assert.Equal(t, "Jane Doe", booking.CustomerName)
	assert.NotEqual(t, uuid.Nil, booking.ID)
	require.NotNil(t, booking.ServiceName)
	assert.Equal(t, "Cleaning", *booking.ServiceName)
}

func TestSubmitValidationOrder(t *testing.T) {
	svc, _, serviceID := setupService(t)

	tests := []struct {
		name   string
		mutate func(*model.SubmitBookingRequest)
		field  string
	}{
		{"missing name", func(r *model.SubmitBookingRequest) { r.CustomerName = "" }, "customer_name"},
		{"missing email", func(r *model.SubmitBookingRequest) { r.CustomerEmail = "" }, "customer_email"},
		{"missing phone", func(r *model.SubmitBookingRequest) { r.CustomerPhone = "" }, "customer_phone"},
		{"bad date", func(r *model.SubmitBookingRequest) { r.PreferredDate = "not-a-date" }, "preferred_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest(serviceID)
			tt.mutate(req)

			_, err := svc.Submit(context.Background(), req)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))

			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.field, appErr.Field)
		})
	}
}

func TestSubmitNameCheckedBeforeService(t *testing.T) {
	svc, _, _ := setupService(t)

	req := validRequest(uuid.New())
	req.CustomerName = ""

	_, err := svc.Submit(context.Background(), req)
	assert.True(t, apperrors.IsValidation(err))
}

func TestSubmitUnknownServiceFails(t *testing.T) {
	svc, _, _ := setupService(t)

	_, err := svc.Submit(context.Background(), validRequest(uuid.New()))
	assert.True(t, apperrors.IsNotFound(err))
}

func TestSubmitPastDateAccepted(t *testing.T) {
	svc, _, serviceID := setupService(t)

	req := validRequest(serviceID)
	req.PreferredDate = "2001-06-15"

	booking, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusPending, booking.Status)
}

func TestSubmitNeverDeduplicates(t *testing.T) {
	svc, _, serviceID := setupService(t)

	first, err := svc.Submit(context.Background(), validRequest(serviceID))
	require.NoError(t, err)
	second, err := svc.Submit(context.Background(), validRequest(serviceID))
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestUpdateStatusHappyPath(t *testing.T) {
	svc, _, serviceID := setupService(t)

	booking, err := svc.Submit(context.Background(), validRequest(serviceID))
	require.NoError(t, err)

	slot := "10:00"
	updated, err := svc.UpdateStatus(context.Background(), booking.ID, &model.UpdateBookingStatusRequest{
		Status:   "confirmed",
		TimeSlot: &slot,
	})
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusConfirmed, updated.Status)
	require.NotNil(t, updated.TimeSlot)
	assert.Equal(t, "10:00", *updated.TimeSlot)

	updated, err = svc.UpdateStatus(context.Background(), booking.ID, &model.UpdateBookingStatusRequest{
		Status: "completed",
	})
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusCompleted, updated.Status)
}

func TestUpdateStatusRejectsIllegalTransition(t *testing.T) {
	svc, _, serviceID := setupService(t)

	booking, err := svc.Submit(context.Background(), validRequest(serviceID))
	require.NoError(t, err)

	// pending cannot jump straight to completed
	_, err = svc.UpdateStatus(context.Background(), booking.ID, &model.UpdateBookingStatusRequest{
		Status: "completed",
	})
	assert.True(t, apperrors.IsInvalidTransition(err))
}

func TestUpdateStatusRejectsBackwardsTransition(t *testing.T) {
	svc, _, serviceID := setupService(t)

	booking, err := svc.Submit(context.Background(), validRequest(serviceID))
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), booking.ID, &model.UpdateBookingStatusRequest{Status: "confirmed"})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), booking.ID, &model.UpdateBookingStatusRequest{Status: "pending"})
	assert.True(t, apperrors.IsInvalidTransition(err))
}

func TestUpdateStatusTerminalStatesRejectEverything(t *testing.T) {
	svc, _, serviceID := setupService(t)

	for _, terminal := range []string{"completed", "cancelled"} {
		booking, err := svc.Submit(context.Background(), validRequest(serviceID))
		require.NoError(t, err)

		_, err = svc.UpdateStatus(context.Background(), booking.ID, &model.UpdateBookingStatusRequest{Status: "confirmed"})
		require.NoError(t, err)
		_, err = svc.UpdateStatus(context.Background(), booking.ID, &model.UpdateBookingStatusRequest{Status: terminal})
		require.NoError(t, err)

		for _, next := range []string{"pending", "confirmed"} {
			_, err = svc.UpdateStatus(context.Background(), booking.ID, &model.UpdateBookingStatusRequest{Status: next})
			assert.True(t, apperrors.IsInvalidTransition(err), "%s -> %s", terminal, next)
		}
	}
}

func TestUpdateStatusSameStatusIsPermittedNoOp(t *testing.T) {
	svc, _, serviceID := setupService(t)

	booking, err := svc.Submit(context.Background(), validRequest(serviceID))
	require.NoError(t, err)

	slot := "14:30"
	updated, err := svc.UpdateStatus(context.Background(), booking.ID, &model.UpdateBookingStatusRequest{
		Status:   "pending",
		TimeSlot: &slot,
	})
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusPending, updated.Status)
	require.NotNil(t, updated.TimeSlot)
	assert.Equal(t, "14:30", *updated.TimeSlot)
}

func TestUpdateStatusUnknownStatusIsValidationError(t *testing.T) {
	svc, _, serviceID := setupService(t)

	booking, err := svc.Submit(context.Background(), validRequest(serviceID))
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), booking.ID, &model.UpdateBookingStatusRequest{Status: "approved"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestUpdateStatusUnknownBooking(t *testing.T) {
	svc, _, _ := setupService(t)

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), &model.UpdateBookingStatusRequest{Status: "confirmed"})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUpdateStatusLostRaceSurfacesInvalidTransition(t *testing.T) {
	svc, repo, serviceID := setupService(t)

	booking, err := svc.Submit(context.Background(), validRequest(serviceID))
	require.NoError(t, err)

	// Another caller moves the row after our read but before the swap.
	repo.bookings[booking.ID].Status = model.BookingStatusCancelled

	_, err = svc.UpdateStatus(context.Background(), booking.ID, &model.UpdateBookingStatusRequest{Status: "confirmed"})
	assert.True(t, apperrors.IsInvalidTransition(err))
}

// staleReadRepo serves one stale read, then delegates. It reproduces
// the window between the service's read and its compare-and-swap.
type staleReadRepo struct {
	*fakeBookingRepo
	staleID     uuid.UUID
	staleStatus model.BookingStatus
	served      bool
}

func (r *staleReadRepo) Get(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	b, err := r.fakeBookingRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if id == r.staleID && !r.served {
		r.served = true
		b.Status = r.staleStatus
	}
	return b, nil
}

func TestUpdateStatusCompareAndSwapCatchesRace(t *testing.T) {
	serviceRepo := newFakeServiceRepo()
	bookingRepo := newFakeBookingRepo(serviceRepo)
	cleaning := &model.Service{Name: "Cleaning", Price: 50, Active: true}
	require.NoError(t, serviceRepo.Create(context.Background(), cleaning))

	booking := &model.Booking{
		CustomerName:  "Jane Doe",
		CustomerEmail: "jane@example.com",
		CustomerPhone: "+15551234567",
		ServiceID:     cleaning.ID,
		Status:        model.BookingStatusConfirmed,
	}
	require.NoError(t, bookingRepo.Create(context.Background(), booking))

	// The service reads pending, but the store already holds confirmed,
	// so the swap on (id, pending) matches nothing.
	stale := &staleReadRepo{
		fakeBookingRepo: bookingRepo,
		staleID:         booking.ID,
		staleStatus:     model.BookingStatusPending,
	}
	svc := NewService(stale, serviceRepo, nil)

	_, err := svc.UpdateStatus(context.Background(), booking.ID, &model.UpdateBookingStatusRequest{Status: "confirmed"})
	assert.True(t, apperrors.IsInvalidTransition(err))
}
