package catalog

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightsmile/clinic-api/internal/model"
	apperrors "github.com/brightsmile/clinic-api/pkg/errors"
)

type fakeServiceRepo struct {
	services []*model.Service
	listHits int
}

func (r *fakeServiceRepo) Create(ctx context.Context, s *model.Service) error {
	s.ID = uuid.New()
	clone := *s
	r.services = append(r.services, &clone)
	return nil
}

func (r *fakeServiceRepo) Get(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	for _, s := range r.services {
		if s.ID == id {
			clone := *s
			return &clone, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *fakeServiceRepo) List(ctx context.Context, activeOnly bool) ([]*model.Service, error) {
	r.listHits++
	out := []*model.Service{}
	for _, s := range r.services {
		if !activeOnly || s.Active {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeServiceRepo) Update(ctx context.Context, upd *model.Service) error {
	for i, s := range r.services {
		if s.ID == upd.ID {
			clone := *upd
			r.services[i] = &clone
			return nil
		}
	}
	return sql.ErrNoRows
}

func (r *fakeServiceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for i, s := range r.services {
		if s.ID == id {
			r.services = append(r.services[:i], r.services[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }
func strPtr(s string) *string     { return &s }
func boolPtr(b bool) *bool        { return &b }

func TestCreateServiceDefaults(t *testing.T) {
	svc := NewService(&fakeServiceRepo{})

	created, err := svc.Create(context.Background(), &model.CreateServiceRequest{
		Name:            "Cleaning",
		Price:           floatPtr(50),
		DurationMinutes: intPtr(30),
	})
	require.NoError(t, err)

	assert.True(t, created.Active)
	assert.Equal(t, 50.0, created.Price)
	assert.NotEqual(t, uuid.Nil, created.ID)
}

func TestCreateServiceValidation(t *testing.T) {
	svc := NewService(&fakeServiceRepo{})

	tests := []struct {
		name  string
		req   *model.CreateServiceRequest
		field string
	}{
		{"empty name", &model.CreateServiceRequest{Price: floatPtr(10)}, "name"},
		{"missing price", &model.CreateServiceRequest{Name: "X"}, "price"},
		{"negative price", &model.CreateServiceRequest{Name: "X", Price: floatPtr(-1)}, "price"},
		{"negative duration", &model.CreateServiceRequest{Name: "X", Price: floatPtr(1), DurationMinutes: intPtr(-5)}, "duration_minutes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.req)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))

			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.field, appErr.Field)
		})
	}
}

func TestListEmptyCatalog(t *testing.T) {
	svc := NewService(&fakeServiceRepo{})

	services, err := svc.List(context.Background(), true)
	require.NoError(t, err)
	assert.Empty(t, services)
}

func TestListActiveFiltersInactive(t *testing.T) {
	repo := &fakeServiceRepo{}
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), &model.CreateServiceRequest{Name: "Cleaning", Price: floatPtr(50)})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), &model.CreateServiceRequest{Name: "Retired", Price: floatPtr(20), Active: boolPtr(false)})
	require.NoError(t, err)

	active, err := svc.List(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Cleaning", active[0].Name)

	all, err := svc.List(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestListActiveIsCached(t *testing.T) {
	repo := &fakeServiceRepo{}
	svc := NewService(repo)

	_, err := svc.List(context.Background(), true)
	require.NoError(t, err)
	_, err = svc.List(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listHits)

	// A mutation invalidates the cached listing.
	_, err = svc.Create(context.Background(), &model.CreateServiceRequest{Name: "Cleaning", Price: floatPtr(50)})
	require.NoError(t, err)
	_, err = svc.List(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listHits)
}

func TestUpdateServicePartialPatch(t *testing.T) {
	svc := NewService(&fakeServiceRepo{})

	created, err := svc.Create(context.Background(), &model.CreateServiceRequest{
		Name:        "Cleaning",
		Description: "Standard cleaning",
		Price:       floatPtr(50),
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, &model.UpdateServiceRequest{
		Price: floatPtr(75),
	})
	require.NoError(t, err)

	assert.Equal(t, 75.0, updated.Price)
	assert.Equal(t, "Cleaning", updated.Name)
	assert.Equal(t, "Standard cleaning", updated.Description)
}

func TestUpdateServiceValidatesPatch(t *testing.T) {
	svc := NewService(&fakeServiceRepo{})

	created, err := svc.Create(context.Background(), &model.CreateServiceRequest{Name: "Cleaning", Price: floatPtr(50)})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), created.ID, &model.UpdateServiceRequest{Name: strPtr("")})
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.Update(context.Background(), created.ID, &model.UpdateServiceRequest{Price: floatPtr(-10)})
	assert.True(t, apperrors.IsValidation(err))
}

func TestUpdateUnknownService(t *testing.T) {
	svc := NewService(&fakeServiceRepo{})

	_, err := svc.Update(context.Background(), uuid.New(), &model.UpdateServiceRequest{Price: floatPtr(10)})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestDeleteUnknownService(t *testing.T) {
	svc := NewService(&fakeServiceRepo{})

	err := svc.Delete(context.Background(), uuid.New())
	assert.True(t, apperrors.IsNotFound(err))
}

func TestDeleteService(t *testing.T) {
	svc := NewService(&fakeServiceRepo{})

	created, err := svc.Create(context.Background(), &model.CreateServiceRequest{Name: "Cleaning", Price: floatPtr(50)})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))

	_, err = svc.Get(context.Background(), created.ID)
	assert.True(t, apperrors.IsNotFound(err))
}
