package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/yizeng/gab/gin/gorm/inventory/internal/domain"
	"github.com/yizeng/gab/gin/gorm/inventory/internal/repository/dao"
)

var (
	ErrItemNotFound = dao.ErrItemNotFound
	ErrStoreFault   = dao.ErrStoreFault
)

type ItemDAO interface {
	FindAll(ctx context.Context) ([]dao.Item, error)
	FindByID(ctx context.Context, id uint) (dao.Item, error)
	Insert(ctx context.Context, item dao.Item) (dao.Item, error)
	Update(ctx context.Context, id uint, item dao.Item) (dao.Item, error)
	Delete(ctx context.Context, id uint) error
}

type ItemRepository struct {
	dao ItemDAO
}

func NewItemRepository(dao ItemDAO) *ItemRepository {
	return &ItemRepository{
		dao: dao,
	}
}

func (r *ItemRepository) List(ctx context.Context) ([]domain.Item, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *ItemRepository) FindByID(ctx context.Context, id uint) (domain.Item, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Item{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *ItemRepository) Create(ctx context.Context, item domain.Item) (domain.Item, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(item))
	if err != nil {
		return domain.Item{}, fmt.Errorf("r.dao.Insert -> %w", r.translate(err))
	}

	return r.daoToDomain(created), nil
}

func (r *ItemRepository) Replace(ctx context.Context, id uint, item domain.Item) (domain.Item, error) {
	updated, err := r.dao.Update(ctx, id, r.domainToDao(item))
	if err != nil {
		return domain.Item{}, fmt.Errorf("r.dao.Update -> %w", r.translate(err))
	}

	return r.daoToDomain(updated), nil
}

func (r *ItemRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

// translate maps store-level CHECK violations onto the domain's negative value error.
func (r *ItemRepository) translate(err error) error {
	var cErr *dao.ConstraintError
	if !errors.As(err, &cErr) {
		return err
	}

	switch cErr.Constraint {
	case dao.ConstraintItemPrice:
		return &domain.NegativeValueError{Field: "price"}
	case dao.ConstraintItemQuantity:
		return &domain.NegativeValueError{Field: "quantity"}
	default:
		return fmt.Errorf("%w: %w", ErrStoreFault, err)
	}
}

func (r *ItemRepository) daoToDomain(i dao.Item) domain.Item {
	return domain.Item{
		ID:          i.ID,
		Name:        i.Name,
		Description: i.Description,
		Price:       i.Price,
		Quantity:    i.Quantity,
	}
}

func (r *ItemRepository) daosToDomain(items []dao.Item) []domain.Item {
	domainItems := make([]domain.Item, len(items))
	for i, item := range items {
		domainItems[i] = r.daoToDomain(item)
	}
	return domainItems
}

func (r *ItemRepository) domainToDao(i domain.Item) dao.Item {
	return dao.Item{
		ID:          i.ID,
		Name:        i.Name,
		Description: i.Description,
		Price:       i.Price,
		Quantity:    i.Quantity,
	}
}
