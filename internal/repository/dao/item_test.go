package dao

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yizeng/gab/gin/gorm/inventory/internal/config"
	"github.com/yizeng/gab/gin/gorm/inventory/internal/db"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gormDB, err := db.Open(&config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		DSN:          filepath.Join(t.TempDir(), "items.db"),
		MaxIdleConns: 1,
	})
	require.NoError(t, err)
	require.NoError(t, InitTables(gormDB))

	t.Cleanup(func() {
		_ = db.Close(gormDB)
	})

	return gormDB
}

func countItems(t *testing.T, gormDB *gorm.DB) int64 {
	t.Helper()

	var n int64
	require.NoError(t, gormDB.Model(&Item{}).Count(&n).Error)
	return n
}

func TestItemDAO_InsertAndFind(t *testing.T) {
	ctx := context.Background()
	d := NewItemDAO(newTestDB(t))

	created, err := d.Insert(ctx, Item{ID: 42, Name: "Widget", Description: "A widget", Price: 10, Quantity: 5})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, created.ID, uint(1))
	assert.NotEqual(t, uint(42), created.ID, "the store assigns ids")

	found, err := d.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, found)

	second, err := d.Insert(ctx, Item{Name: "Gadget", Description: "", Price: 0, Quantity: 0})
	require.NoError(t, err)
	assert.NotEqual(t, created.ID, second.ID)

	all, err := d.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Item{created, second}, all)
}

func TestItemDAO_FindByID_NotFound(t *testing.T) {
	d := NewItemDAO(newTestDB(t))

	_, err := d.FindByID(context.Background(), 999)
	assert.ErrorIs(t, err, ErrItemNotFound)

	_, err = d.FindByID(context.Background(), 0)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestItemDAO_Insert_CheckConstraints(t *testing.T) {
	cases := map[string]struct {
		item           Item
		wantConstraint string
	}{
		"negative price":    {item: Item{Name: "Bad", Description: "x", Price: -1, Quantity: 5}, wantConstraint: "price"},
		"negative quantity": {item: Item{Name: "Bad", Description: "x", Price: 1, Quantity: -5}, wantConstraint: "quantity"},
	}

	for name, tt := range cases {
		t.Run(name, func(t *testing.T) {
			gormDB := newTestDB(t)
			d := NewItemDAO(gormDB)

			_, err := d.Insert(context.Background(), tt.item)

			var cErr *ConstraintError
			require.True(t, errors.As(err, &cErr), "got %v", err)
			assert.Contains(t, cErr.Constraint, tt.wantConstraint)
			assert.NotErrorIs(t, err, ErrStoreFault)
			assert.Zero(t, countItems(t, gormDB))
		})
	}
}

func TestItemDAO_Update(t *testing.T) {
	ctx := context.Background()
	gormDB := newTestDB(t)
	d := NewItemDAO(gormDB)

	created, err := d.Insert(ctx, Item{Name: "Widget", Description: "A widget", Price: 10, Quantity: 5})
	require.NoError(t, err)

	updated, err := d.Update(ctx, created.ID, Item{Name: "Widget v2", Description: "", Price: 0, Quantity: 0})
	require.NoError(t, err)
	assert.Equal(t, Item{ID: created.ID, Name: "Widget v2", Description: "", Price: 0, Quantity: 0}, updated)

	found, err := d.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, found)
}

func TestItemDAO_Update_NotFound(t *testing.T) {
	ctx := context.Background()
	gormDB := newTestDB(t)
	d := NewItemDAO(gormDB)

	created, err := d.Insert(ctx, Item{Name: "Widget", Description: "A widget", Price: 10, Quantity: 5})
	require.NoError(t, err)

	_, err = d.Update(ctx, 999, Item{Name: "Ghost", Description: "x", Price: 1, Quantity: 1})
	assert.ErrorIs(t, err, ErrItemNotFound)

	_, err = d.Update(ctx, 0, Item{Name: "Ghost", Description: "x", Price: 1, Quantity: 1})
	assert.ErrorIs(t, err, ErrItemNotFound)

	all, err := d.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Item{created}, all)
}

func TestItemDAO_Update_RollsBackOnConstraintViolation(t *testing.T) {
	ctx := context.Background()
	d := NewItemDAO(newTestDB(t))

	created, err := d.Insert(ctx, Item{Name: "Widget", Description: "A widget", Price: 10, Quantity: 5})
	require.NoError(t, err)

	_, err = d.Update(ctx, created.ID, Item{Name: "Changed", Description: "changed", Price: 3, Quantity: -1})
	var cErr *ConstraintError
	require.True(t, errors.As(err, &cErr), "got %v", err)

	found, err := d.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, found)
}

func TestItemDAO_Delete(t *testing.T) {
	ctx := context.Background()
	gormDB := newTestDB(t)
	d := NewItemDAO(gormDB)

	created, err := d.Insert(ctx, Item{Name: "Widget", Description: "A widget", Price: 10, Quantity: 5})
	require.NoError(t, err)

	require.NoError(t, d.Delete(ctx, created.ID))
	assert.ErrorIs(t, d.Delete(ctx, created.ID), ErrItemNotFound)

	_, err = d.FindByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrItemNotFound)
	assert.Zero(t, countItems(t, gormDB))
}

func TestItemDAO_StoreFault(t *testing.T) {
	ctx := context.Background()
	gormDB := newTestDB(t)
	d := NewItemDAO(gormDB)

	require.NoError(t, db.Close(gormDB))

	_, err := d.FindAll(ctx)
	assert.ErrorIs(t, err, ErrStoreFault)

	_, err = d.FindByID(ctx, 1)
	assert.ErrorIs(t, err, ErrStoreFault)

	_, err = d.Insert(ctx, Item{Name: "Widget", Description: "A widget", Price: 10, Quantity: 5})
	assert.ErrorIs(t, err, ErrStoreFault)

	assert.ErrorIs(t, d.Delete(ctx, 1), ErrStoreFault)
}

func TestClassifyError(t *testing.T) {
	assert.NoError(t, classifyError(nil))
	assert.ErrorIs(t, classifyError(gorm.ErrRecordNotFound), ErrItemNotFound)
	assert.ErrorIs(t, classifyError(ErrItemNotFound), ErrItemNotFound)

	err := classifyError(errors.New("connection reset"))
	assert.ErrorIs(t, err, ErrStoreFault)
	assert.Contains(t, err.Error(), "connection reset")
}
