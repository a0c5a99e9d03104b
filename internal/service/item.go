package service

import (
	"context"
	"fmt"

	"github.com/yizeng/gab/gin/gorm/inventory/internal/domain"
	"github.com/yizeng/gab/gin/gorm/inventory/internal/repository"
)

var (
	ErrItemNotFound  = repository.ErrItemNotFound
	ErrStoreFault    = repository.ErrStoreFault
	ErrInvalidItem   = domain.ErrInvalidItem
	ErrNegativeValue = domain.ErrNegativeValue
)

type ItemRepository interface {
	List(ctx context.Context) ([]domain.Item, error)
	FindByID(ctx context.Context, id uint) (domain.Item, error)
	Create(ctx context.Context, item domain.Item) (domain.Item, error)
	Replace(ctx context.Context, id uint, item domain.Item) (domain.Item, error)
	Delete(ctx context.Context, id uint) error
}

type ItemEventPublisher interface {
	Publish(event domain.ItemEvent)
}

type ItemService struct {
	repo   ItemRepository
	events ItemEventPublisher
}

// NewItemService builds the service; events may be nil when nobody listens for changes.
func NewItemService(repo ItemRepository, events ItemEventPublisher) *ItemService {
	return &ItemService{
		repo:   repo,
		events: events,
	}
}

func (s *ItemService) ListItems(ctx context.Context) ([]domain.Item, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.List -> %w", err)
	}

	return items, nil
}

func (s *ItemService) GetItem(ctx context.Context, id uint) (domain.Item, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Item{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return item, nil
}

func (s *ItemService) CreateItem(ctx context.Context, item domain.Item) (domain.Item, error) {
	if err := item.CheckNonNegative(); err != nil {
		return domain.Item{}, err
	}

	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return domain.Item{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	s.publish(domain.ItemCreated, created)

	return created, nil
}

func (s *ItemService) UpdateItem(ctx context.Context, id uint, item domain.Item) (domain.Item, error) {
	if err := item.CheckNonNegative(); err != nil {
		return domain.Item{}, err
	}

	updated, err := s.repo.Replace(ctx, id, item)
	if err != nil {
		return domain.Item{}, fmt.Errorf("s.repo.Replace -> %w", err)
	}

	s.publish(domain.ItemUpdated, updated)

	return updated, nil
}

// DeleteItem checks that the item exists before removing it and returns the removed record.
func (s *ItemService) DeleteItem(ctx context.Context, id uint) (domain.Item, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Item{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if err = s.repo.Delete(ctx, id); err != nil {
		return domain.Item{}, fmt.Errorf("s.repo.Delete -> %w", err)
	}

	s.publish(domain.ItemDeleted, item)

	return item, nil
}

func (s *ItemService) publish(eventType domain.ItemEventType, item domain.Item) {
	if s.events == nil {
		return
	}

	s.events.Publish(domain.ItemEvent{Type: eventType, Item: item})
}
