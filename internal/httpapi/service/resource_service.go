package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"shelfhub/internal/httpapi/models"
	"shelfhub/internal/httpapi/repository"

	"gorm.io/gorm"
)

// OccupancyCache caches the per-day occupancy grid for resources. A nil
// cache is valid and turns every lookup into a miss.
type OccupancyCache interface {
	GetDay(ctx context.Context, date time.Time) (map[int64][]int, bool)
	SetDay(ctx context.Context, date time.Time, grid map[int64][]int)
	InvalidateDay(ctx context.Context, date time.Time)
}

// ResourceService manages labs/resource rooms and their slot
// reservations. A slot reservation is immediately binding: there is no
// approval step, only creation (gated by role + slot uniqueness) and
// cancellation by the owner or an admin.
type ResourceService interface {
	ListResources(ctx context.Context, actor Identity) ([]models.Resource, error)
	CreateResource(ctx context.Context, actor Identity, resource *models.Resource) error
	UpdateResource(ctx context.Context, actor Identity, id int64, resource *models.Resource) error
	DeleteResource(ctx context.Context, actor Identity, id int64) error

	Reserve(ctx context.Context, actor Identity, resourceID int64, date time.Time, period int) (*models.ResourceReservation, error)
	CancelReservation(ctx context.Context, actor Identity, id int64) error
	ListMine(ctx context.Context, actor Identity) ([]models.ResourceReservation, error)
	DayGrid(ctx context.Context, actor Identity, date time.Time) (map[int64][]int, error)
}

type resourceService struct {
	repo     repository.ResourceRepository
	cache    OccupancyCache
	blackout []time.Weekday
}

func NewResourceService(repo repository.ResourceRepository, cache OccupancyCache, blackout []time.Weekday) ResourceService {
	return &resourceService{repo: repo, cache: cache, blackout: blackout}
}

func (s *resourceService) ListResources(ctx context.Context, actor Identity) ([]models.Resource, error) {
	if err := Require(actor, ResourceBookers); err != nil {
		return nil, err
	}
	return s.repo.GetAll(ctx)
}

func (s *resourceService) CreateResource(ctx context.Context, actor Identity, resource *models.Resource) error {
	if err := Require(actor, CatalogAdmins); err != nil {
		return err
	}
	if strings.TrimSpace(resource.Name) == "" {
		return ErrInvalidInput
	}
	if resource.Type != models.ResourceLab && resource.Type != models.ResourceRoom {
		return ErrInvalidInput
	}
	return s.repo.Create(ctx, resource)
}

func (s *resourceService) UpdateResource(ctx context.Context, actor Identity, id int64, resource *models.Resource) error {
	if err := Require(actor, CatalogAdmins); err != nil {
		return err
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrResourceNotFound
		}
		return err
	}
	resource.ID = existing.ID
	return s.repo.Update(ctx, resource)
}

func (s *resourceService) DeleteResource(ctx context.Context, actor Identity, id int64) error {
	if err := Require(actor, CatalogAdmins); err != nil {
		return err
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrResourceNotFound
		}
		return err
	}
	count, err := s.repo.CountReservations(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrResourceReserved
	}
	return s.repo.Delete(ctx, id)
}

// Reserve books one (resource, date, period) slot. The existence
// pre-check is advisory; the storage unique constraint is the
// authoritative guard, and a raced insert surfaces as ErrSlotTaken.
func (s *resourceService) Reserve(ctx context.Context, actor Identity, resourceID int64, date time.Time, period int) (*models.ResourceReservation, error) {
	if err := Require(actor, ResourceBookers); err != nil {
		return nil, err
	}
	if err := ValidPeriod(period); err != nil {
		return nil, err
	}
	if err := CheckReservationDate(date, time.Now(), s.blackout); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByID(ctx, resourceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}

	date = dateOnly(date)

	taken, err := s.repo.SlotTaken(ctx, resourceID, date, period)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSlotTaken
	}

	reservation := &models.ResourceReservation{
		UserID:          actor.UserID,
		ResourceID:      resourceID,
		ReservationDate: date,
		Period:          period,
	}
	if err := s.repo.CreateReservation(ctx, reservation); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return nil, ErrSlotTaken
		}
		return nil, err
	}

	if s.cache != nil {
		s.cache.InvalidateDay(ctx, date)
	}
	return reservation, nil
}

// CancelReservation deletes a slot reservation. Only the owner or an
// admin may cancel; a repeated cancel reports not found.
func (s *resourceService) CancelReservation(ctx context.Context, actor Identity, id int64) error {
	reservation, err := s.repo.FindReservationByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReservationNotFound
		}
		return err
	}

	if err := RequireOwnerOr(actor, reservation.UserID, Admins); err != nil {
		return err
	}

	ok, err := s.repo.DeleteReservation(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrReservationNotFound
	}

	if s.cache != nil {
		s.cache.InvalidateDay(ctx, reservation.ReservationDate)
	}
	return nil
}

func (s *resourceService) ListMine(ctx context.Context, actor Identity) ([]models.ResourceReservation, error) {
	if err := Require(actor, ResourceBookers); err != nil {
		return nil, err
	}
	return s.repo.ListReservationsByUser(ctx, actor.UserID)
}

// DayGrid returns occupancy for one day as resource id -> reserved
// periods, served from the cache when warm.
func (s *resourceService) DayGrid(ctx context.Context, actor Identity, date time.Time) (map[int64][]int, error) {
	if err := Require(actor, ResourceBookers); err != nil {
		return nil, err
	}

	date = dateOnly(date)

	if s.cache != nil {
		if grid, ok := s.cache.GetDay(ctx, date); ok {
			return grid, nil
		}
	}

	reservations, err := s.repo.ListReservationsByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	grid := make(map[int64][]int)
	for _, reservation := range reservations {
		grid[reservation.ResourceID] = append(grid[reservation.ResourceID], reservation.Period)
	}

	if s.cache != nil {
		s.cache.SetDay(ctx, date, grid)
	}
	return grid, nil
}

func dateOnly(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
