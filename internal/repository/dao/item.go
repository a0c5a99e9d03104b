package dao

import (
	"context"

	"gorm.io/gorm"
)

const (
	ConstraintItemPrice    = "chk_items_price"
	ConstraintItemQuantity = "chk_items_quantity"
)

type Item struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"index;not null"`
	Description string `gorm:"not null"`
	Price       int    `gorm:"not null;check:chk_items_price,price >= 0"`
	Quantity    int    `gorm:"not null;check:chk_items_quantity,quantity >= 0"`
}

func (Item) TableName() string {
	return "items"
}

type ItemDAO struct {
	db *gorm.DB
}

func NewItemDAO(db *gorm.DB) *ItemDAO {
	return &ItemDAO{
		db: db,
	}
}

func (d *ItemDAO) FindAll(ctx context.Context) ([]Item, error) {
	var items []Item

	result := d.db.WithContext(ctx).Order("id").Find(&items)
	if result.Error != nil {
		return nil, classifyError(result.Error)
	}

	return items, nil
}

func (d *ItemDAO) FindByID(ctx context.Context, id uint) (Item, error) {
	if id == 0 {
		return Item{}, ErrItemNotFound
	}

	var item Item

	result := d.db.WithContext(ctx).First(&item, id)
	if result.Error != nil {
		return Item{}, classifyError(result.Error)
	}

	return item, nil
}

// Insert ignores item.ID; the store assigns a fresh one.
func (d *ItemDAO) Insert(ctx context.Context, item Item) (Item, error) {
	item.ID = 0

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&item).Error
	})
	if err != nil {
		return Item{}, classifyError(err)
	}

	return item, nil
}

// Update overwrites every mutable column of row id and returns the stored row.
func (d *ItemDAO) Update(ctx context.Context, id uint, item Item) (Item, error) {
	// a zero primary key would turn the update into one without a WHERE clause
	if id == 0 {
		return Item{}, ErrItemNotFound
	}

	var updated Item

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Item{ID: id}).
			Select("name", "description", "price", "quantity").
			Updates(Item{
				Name:        item.Name,
				Description: item.Description,
				Price:       item.Price,
				Quantity:    item.Quantity,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrItemNotFound
		}

		return tx.First(&updated, id).Error
	})
	if err != nil {
		return Item{}, classifyError(err)
	}

	return updated, nil
}

func (d *ItemDAO) Delete(ctx context.Context, id uint) error {
	if id == 0 {
		return ErrItemNotFound
	}

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&Item{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrItemNotFound
		}

		return nil
	})

	return classifyError(err)
}
