package service

import (
	"context"

	"shelfhub/internal/httpapi/models"
	"shelfhub/internal/httpapi/repository"
)

type RulesService interface {
	Get(ctx context.Context) (*models.BorrowingRules, error)
	Update(ctx context.Context, actor Identity, maxDays, maxBooks int, rulesText *string) (*models.BorrowingRules, error)
}

type rulesService struct {
	repo repository.RulesRepository
}

func NewRulesService(repo repository.RulesRepository) RulesService {
	return &rulesService{repo: repo}
}

// Get returns the singleton rules row, creating it with defaults when
// the table is still empty.
func (s *rulesService) Get(ctx context.Context) (*models.BorrowingRules, error) {
	return s.repo.EnsureDefaults(ctx)
}

func (s *rulesService) Update(ctx context.Context, actor Identity, maxDays, maxBooks int, rulesText *string) (*models.BorrowingRules, error) {
	if err := Require(actor, CatalogAdmins); err != nil {
		return nil, err
	}
	if maxDays < 1 || maxBooks < 1 {
		return nil, ErrInvalidInput
	}

	rules, err := s.repo.EnsureDefaults(ctx)
	if err != nil {
		return nil, err
	}
	rules.MaxDays = maxDays
	rules.MaxBooks = maxBooks
	rules.RulesText = rulesText
	if err := s.repo.Save(ctx, rules); err != nil {
		return nil, err
	}
	return rules, nil
}
