package repository

import (
	"context"
	"fmt"
	"time"

	"shelfhub/internal/httpapi/models"

	"gorm.io/gorm"
)

type ResourceRepository interface {
	GetAll(ctx context.Context) ([]models.Resource, error)
	FindByID(ctx context.Context, id int64) (*models.Resource, error)
	Create(ctx context.Context, resource *models.Resource) error
	Update(ctx context.Context, resource *models.Resource) error
	Delete(ctx context.Context, id int64) error
	CountReservations(ctx context.Context, resourceID int64) (int64, error)

	CreateReservation(ctx context.Context, reservation *models.ResourceReservation) error
	SlotTaken(ctx context.Context, resourceID int64, date time.Time, period int) (bool, error)
	FindReservationByID(ctx context.Context, id int64) (*models.ResourceReservation, error)
	DeleteReservation(ctx context.Context, id int64) (bool, error)
	ListReservationsByUser(ctx context.Context, userID string) ([]models.ResourceReservation, error)
	ListReservationsByDate(ctx context.Context, date time.Time) ([]models.ResourceReservation, error)
	CountReservationsByUser(ctx context.Context, userID string) (int64, error)
}

type resourceRepository struct {
	db *gorm.DB
}

func NewResourceRepository(db *gorm.DB) ResourceRepository {
	return &resourceRepository{db: db}
}

func (r *resourceRepository) GetAll(ctx context.Context) ([]models.Resource, error) {
	var list []models.Resource
	if err := r.db.WithContext(ctx).Order("name asc").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get resources: %w", err)
	}
	return list, nil
}

func (r *resourceRepository) FindByID(ctx context.Context, id int64) (*models.Resource, error) {
	var resource models.Resource
	if err := r.db.WithContext(ctx).First(&resource, id).Error; err != nil {
		return nil, err
	}
	return &resource, nil
}

func (r *resourceRepository) Create(ctx context.Context, resource *models.Resource) error {
	if err := r.db.WithContext(ctx).Create(resource).Error; err != nil {
		return fmt.Errorf("create resource: %w", err)
	}
	return nil
}

func (r *resourceRepository) Update(ctx context.Context, resource *models.Resource) error {
	if err := r.db.WithContext(ctx).Save(resource).Error; err != nil {
		return fmt.Errorf("update resource: %w", err)
	}
	return nil
}

func (r *resourceRepository) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&models.Resource{}, id).Error; err != nil {
		return fmt.Errorf("delete resource: %w", err)
	}
	return nil
}

func (r *resourceRepository) CountReservations(ctx context.Context, resourceID int64) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ResourceReservation{}).
		Where("resource_id = ?", resourceID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CreateReservation inserts a slot reservation. The unique index on
// (resource_id, reservation_date, period) rejects a concurrent insert
// for the same slot; that storage-level violation is reported as
// ErrSlotTaken, same as the advisory pre-check.
func (r *resourceRepository) CreateReservation(ctx context.Context, reservation *models.ResourceReservation) error {
	if err := r.db.WithContext(ctx).Create(reservation).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrSlotTaken
		}
		return fmt.Errorf("create resource reservation: %w", err)
	}
	return nil
}

func (r *resourceRepository) SlotTaken(ctx context.Context, resourceID int64, date time.Time, period int) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ResourceReservation{}).
		Where("resource_id = ? AND reservation_date = ? AND period = ?", resourceID, date, period).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *resourceRepository) FindReservationByID(ctx context.Context, id int64) (*models.ResourceReservation, error) {
	var reservation models.ResourceReservation
	if err := r.db.WithContext(ctx).Preload("Resource").First(&reservation, id).Error; err != nil {
		return nil, err
	}
	return &reservation, nil
}

// DeleteReservation removes a slot reservation. Returns false when the
// row is already gone so a repeated cancel surfaces as not found.
func (r *resourceRepository) DeleteReservation(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.ResourceReservation{}, id)
	if result.Error != nil {
		return false, fmt.Errorf("delete resource reservation: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *resourceRepository) ListReservationsByUser(ctx context.Context, userID string) ([]models.ResourceReservation, error) {
	var list []models.ResourceReservation
	if err := r.db.WithContext(ctx).
		Preload("Resource").
		Where("user_id = ?", userID).
		Order("reservation_date DESC, period ASC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list resource reservations: %w", err)
	}
	return list, nil
}

func (r *resourceRepository) ListReservationsByDate(ctx context.Context, date time.Time) ([]models.ResourceReservation, error) {
	var list []models.ResourceReservation
	if err := r.db.WithContext(ctx).
		Where("reservation_date = ?", date).
		Order("resource_id ASC, period ASC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list reservations by date: %w", err)
	}
	return list, nil
}

func (r *resourceRepository) CountReservationsByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ResourceReservation{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
