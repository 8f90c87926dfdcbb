package catalog

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/brightsmile/clinic-api/internal/model"
	"github.com/brightsmile/clinic-api/internal/repository"
	apperrors "github.com/brightsmile/clinic-api/pkg/errors"
)

const (
	activeListCacheKey = "services:active"
	cacheTTL           = 30 * time.Second
)

// Service manages the treatment catalog. The patient-facing active
// listing is cached briefly; any mutation invalidates it.
type Service struct {
	repo  repository.ServiceRepository
	cache *gocache.Cache
}

func NewService(repo repository.ServiceRepository) *Service {
	return &Service{
		repo:  repo,
		cache: gocache.New(cacheTTL, 2*cacheTTL),
	}
}

func (s *Service) List(ctx context.Context, activeOnly bool) ([]*model.Service, error) {
	if activeOnly {
		if cached, ok := s.cache.Get(activeListCacheKey); ok {
			return cached.([]*model.Service), nil
		}
	}

	services, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	if activeOnly {
		s.cache.Set(activeListCacheKey, services, cacheTTL)
	}
	return services, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	service, err := s.repo.Get(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("service")
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return service, nil
}

func (s *Service) Create(ctx context.Context, req *model.CreateServiceRequest) (*model.Service, error) {
	if req.Name == "" {
		return nil, apperrors.Validation("name", "name is required")
	}
	if req.Price == nil {
		return nil, apperrors.Validation("price", "price is required")
	}
	if *req.Price < 0 {
		return nil, apperrors.Validation("price", "price must be non-negative")
	}
	if req.DurationMinutes != nil && *req.DurationMinutes < 0 {
		return nil, apperrors.Validation("duration_minutes", "duration_minutes must be non-negative")
	}

	service := &model.Service{
		Name:            req.Name,
		Description:     req.Description,
		Price:           *req.Price,
		DurationMinutes: req.DurationMinutes,
		Active:          true,
	}
	if req.Active != nil {
		service.Active = *req.Active
	}

	if err := s.repo.Create(ctx, service); err != nil {
		return nil, apperrors.Internal(err)
	}

	s.cache.Delete(activeListCacheKey)
	return service, nil
}

// Update applies a partial patch; only provided fields replace current
// values, under the same validation rules as creation.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateServiceRequest) (*model.Service, error) {
	service, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, apperrors.Validation("name", "name is required")
		}
		service.Name = *req.Name
	}
	if req.Description != nil {
		service.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, apperrors.Validation("price", "price must be non-negative")
		}
		service.Price = *req.Price
	}
	if req.DurationMinutes != nil {
		if *req.DurationMinutes < 0 {
			return nil, apperrors.Validation("duration_minutes", "duration_minutes must be non-negative")
		}
		service.DurationMinutes = req.DurationMinutes
	}
	if req.Active != nil {
		service.Active = *req.Active
	}

	if err := s.repo.Update(ctx, service); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("service")
		}
		return nil, apperrors.Internal(err)
	}

	s.cache.Delete(activeListCacheKey)
	return service, nil
}

// Delete removes the catalog row only. Existing bookings keep their
// service_id; readers report the dangling reference instead of failing.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NotFound("service")
		}
		return apperrors.Internal(err)
	}

	s.cache.Delete(activeListCacheKey)
	return nil
}
