package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/meridianhq/meridian-erp/modules/catalog/domain/entities/component"
	"github.com/meridianhq/meridian-erp/pkg/eventbus"
)

type ComponentService struct {
	repo      component.Repository
	publisher eventbus.EventBus
}

func NewComponentService(repo component.Repository, publisher eventbus.EventBus) *ComponentService {
	return &ComponentService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *ComponentService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *ComponentService) GetByID(ctx context.Context, id uuid.UUID) (component.Component, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ComponentService) GetByCode(ctx context.Context, code string) (component.Component, error) {
	return s.repo.GetByCode(ctx, code)
}

func (s *ComponentService) GetByProduct(ctx context.Context, productID uuid.UUID) ([]component.Component, error) {
	return s.repo.GetByProduct(ctx, productID)
}

func (s *ComponentService) Save(ctx context.Context, data component.Component) (component.Component, error) {
	saved, created, err := s.repo.Upsert(ctx, data)
	if err != nil {
		return component.Component{}, err
	}
	if created {
		s.publisher.Publish("component.created", saved)
	} else {
		s.publisher.Publish("component.updated", saved)
	}
	return saved, nil
}
