package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/meridianhq/meridian-erp/modules/catalog/domain/entities/product"
	"github.com/meridianhq/meridian-erp/pkg/eventbus"
)

type ProductService struct {
	repo      product.Repository
	publisher eventbus.EventBus
}

func NewProductService(repo product.Repository, publisher eventbus.EventBus) *ProductService {
	return &ProductService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *ProductService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *ProductService) GetPaginated(ctx context.Context, params *product.FindParams) ([]product.Product, error) {
	return s.repo.GetPaginated(ctx, params)
}

func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (product.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ProductService) GetBySKU(ctx context.Context, sku string) (product.Product, error) {
	return s.repo.GetBySKU(ctx, sku)
}

func (s *ProductService) Save(ctx context.Context, data product.Product) (product.Product, error) {
	saved, created, err := s.repo.Upsert(ctx, data)
	if err != nil {
		return product.Product{}, err
	}
	if created {
		s.publisher.Publish("product.created", saved)
	} else {
		s.publisher.Publish("product.updated", saved)
	}
	return saved, nil
}
