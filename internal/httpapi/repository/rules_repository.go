package repository

import (
	"context"
	"errors"
	"fmt"

	"shelfhub/internal/httpapi/models"

	"gorm.io/gorm"
)

type RulesRepository interface {
	Get(ctx context.Context) (*models.BorrowingRules, error)
	Save(ctx context.Context, rules *models.BorrowingRules) error
	EnsureDefaults(ctx context.Context) (*models.BorrowingRules, error)
}

type rulesRepository struct {
	db *gorm.DB
}

func NewRulesRepository(db *gorm.DB) RulesRepository {
	return &rulesRepository{db: db}
}

func (r *rulesRepository) Get(ctx context.Context) (*models.BorrowingRules, error) {
	var rules models.BorrowingRules
	if err := r.db.WithContext(ctx).First(&rules).Error; err != nil {
		return nil, err
	}
	return &rules, nil
}

func (r *rulesRepository) Save(ctx context.Context, rules *models.BorrowingRules) error {
	if err := r.db.WithContext(ctx).Save(rules).Error; err != nil {
		return fmt.Errorf("save borrowing rules: %w", err)
	}
	return nil
}

// EnsureDefaults creates the singleton row with the stock limits
// (7 days, 3 books) when no row exists yet.
func (r *rulesRepository) EnsureDefaults(ctx context.Context) (*models.BorrowingRules, error) {
	rules, err := r.Get(ctx)
	if err == nil {
		return rules, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	rules = &models.BorrowingRules{MaxDays: models.DefaultMaxDays, MaxBooks: models.DefaultMaxBooks}
	if err := r.db.WithContext(ctx).Create(rules).Error; err != nil {
		return nil, fmt.Errorf("seed borrowing rules: %w", err)
	}
	return rules, nil
}
