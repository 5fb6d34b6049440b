package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/meridianhq/meridian-erp/modules/catalog/domain/entities/category"
	"github.com/meridianhq/meridian-erp/pkg/eventbus"
)

type CategoryService struct {
	repo      category.Repository
	publisher eventbus.EventBus
}

func NewCategoryService(repo category.Repository, publisher eventbus.EventBus) *CategoryService {
	return &CategoryService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *CategoryService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *CategoryService) GetAll(ctx context.Context) ([]category.Category, error) {
	return s.repo.GetAll(ctx)
}

func (s *CategoryService) GetByID(ctx context.Context, id uuid.UUID) (category.Category, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *CategoryService) GetByCode(ctx context.Context, code string) (category.Category, error) {
	return s.repo.GetByCode(ctx, code)
}

func (s *CategoryService) Save(ctx context.Context, data category.Category) (category.Category, error) {
	saved, created, err := s.repo.Upsert(ctx, data)
	if err != nil {
		return category.Category{}, err
	}
	if created {
		s.publisher.Publish("category.created", saved)
	} else {
		s.publisher.Publish("category.updated", saved)
	}
	return saved, nil
}
