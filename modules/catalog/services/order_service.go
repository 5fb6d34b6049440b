package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/meridianhq/meridian-erp/modules/catalog/domain/entities/order"
	"github.com/meridianhq/meridian-erp/pkg/eventbus"
)

type OrderService struct {
	repo      order.Repository
	items     order.ItemRepository
	publisher eventbus.EventBus
}

func NewOrderService(repo order.Repository, items order.ItemRepository, publisher eventbus.EventBus) *OrderService {
	return &OrderService{
		repo:      repo,
		items:     items,
		publisher: publisher,
	}
}

func (s *OrderService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *OrderService) GetByID(ctx context.Context, id uuid.UUID) (order.Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *OrderService) GetByNumber(ctx context.Context, number string) (order.Order, error) {
	return s.repo.GetByNumber(ctx, number)
}

func (s *OrderService) Create(ctx context.Context, data order.Order) (order.Order, error) {
	created, err := s.repo.Create(ctx, data)
	if err != nil {
		return order.Order{}, err
	}
	s.publisher.Publish("order.created", created)
	return created, nil
}

func (s *OrderService) GetItems(ctx context.Context, orderID uuid.UUID) ([]order.Item, error) {
	return s.items.GetByOrder(ctx, orderID)
}

func (s *OrderService) SaveItem(ctx context.Context, data order.Item) (order.Item, error) {
	saved, created, err := s.items.Upsert(ctx, data)
	if err != nil {
		return order.Item{}, err
	}
	if created {
		s.publisher.Publish("order.item.created", saved)
	} else {
		s.publisher.Publish("order.item.updated", saved)
	}
	return saved, nil
}
