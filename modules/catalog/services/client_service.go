package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/meridianhq/meridian-erp/modules/catalog/domain/entities/client"
	"github.com/meridianhq/meridian-erp/pkg/eventbus"
)

type ClientService struct {
	repo      client.Repository
	publisher eventbus.EventBus
}

func NewClientService(repo client.Repository, publisher eventbus.EventBus) *ClientService {
	return &ClientService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *ClientService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *ClientService) GetPaginated(ctx context.Context, params *client.FindParams) ([]client.Client, error) {
	return s.repo.GetPaginated(ctx, params)
}

func (s *ClientService) GetByID(ctx context.Context, id uuid.UUID) (client.Client, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ClientService) GetByTaxCode(ctx context.Context, taxCode string) (client.Client, error) {
	return s.repo.GetByTaxCode(ctx, taxCode)
}

func (s *ClientService) Save(ctx context.Context, data client.Client) (client.Client, error) {
	saved, created, err := s.repo.Upsert(ctx, data)
	if err != nil {
		return client.Client{}, err
	}
	if created {
		s.publisher.Publish("client.created", saved)
	} else {
		s.publisher.Publish("client.updated", saved)
	}
	return saved, nil
}
