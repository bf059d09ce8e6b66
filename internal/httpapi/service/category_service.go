package service

import (
	"context"
	"errors"
	"strings"

	"shelfhub/internal/httpapi/models"
	"shelfhub/internal/httpapi/repository"

	"gorm.io/gorm"
)

type CategoryService interface {
	GetAll(ctx context.Context) ([]models.Category, error)
	Create(ctx context.Context, actor Identity, category *models.Category) error
	Update(ctx context.Context, actor Identity, id int64, category *models.Category) error
	Delete(ctx context.Context, actor Identity, id int64) error
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) GetAll(ctx context.Context) ([]models.Category, error) {
	return s.repo.GetAll(ctx)
}

func (s *categoryService) Create(ctx context.Context, actor Identity, category *models.Category) error {
	if err := Require(actor, CatalogAdmins); err != nil {
		return err
	}
	if strings.TrimSpace(category.Name) == "" {
		return ErrInvalidInput
	}
	category.Name = strings.TrimSpace(category.Name)
	return s.repo.Create(ctx, category)
}

func (s *categoryService) Update(ctx context.Context, actor Identity, id int64, category *models.Category) error {
	if err := Require(actor, CatalogAdmins); err != nil {
		return err
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	if strings.TrimSpace(category.Name) == "" {
		return ErrInvalidInput
	}
	category.ID = existing.ID
	category.Name = strings.TrimSpace(category.Name)
	return s.repo.Update(ctx, category)
}

// Delete refuses to remove a category that still has books.
func (s *categoryService) Delete(ctx context.Context, actor Identity, id int64) error {
	if err := Require(actor, CatalogAdmins); err != nil {
		return err
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	count, err := s.repo.CountBooks(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryHasBooks
	}
	return s.repo.Delete(ctx, id)
}
