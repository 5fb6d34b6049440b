package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/meridianhq/meridian-erp/modules/catalog/domain/entities/contact"
	"github.com/meridianhq/meridian-erp/pkg/eventbus"
)

type ContactService struct {
	repo      contact.Repository
	publisher eventbus.EventBus
}

func NewContactService(repo contact.Repository, publisher eventbus.EventBus) *ContactService {
	return &ContactService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *ContactService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *ContactService) GetByID(ctx context.Context, id uuid.UUID) (contact.Contact, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ContactService) GetByEmail(ctx context.Context, email string) (contact.Contact, error) {
	return s.repo.GetByEmail(ctx, email)
}

func (s *ContactService) GetByClient(ctx context.Context, clientID uuid.UUID) ([]contact.Contact, error) {
	return s.repo.GetByClient(ctx, clientID)
}

func (s *ContactService) Save(ctx context.Context, data contact.Contact) (contact.Contact, error) {
	saved, created, err := s.repo.Upsert(ctx, data)
	if err != nil {
		return contact.Contact{}, err
	}
	if created {
		s.publisher.Publish("contact.created", saved)
	} else {
		s.publisher.Publish("contact.updated", saved)
	}
	return saved, nil
}
