package repository

import (
	"testing"

	"github.com/rushilbhatia3/FMS/internal/infra"
	"github.com/rushilbhatia3/FMS/internal/model"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a second connection would get its own empty :memory: database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, infra.Migrate(db))
	return db
}

// fixture is the minimal world most ledger tests need: one system with two
// shelves, one item on shelf A, one acting user.
type fixture struct {
	db     *gorm.DB
	system model.System
	shelfA model.Shelf
	shelfB model.Shelf
	item   model.Item
	actor  model.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{db: newTestDB(t)}

	f.system = model.System{Code: "1A"}
	require.NoError(t, f.db.Create(&f.system).Error)

	f.shelfA = model.Shelf{SystemID: f.system.ID, Label: "1A-1", LengthMM: 1000, WidthMM: 400, HeightMM: 300, Ordinal: 1}
	f.shelfB = model.Shelf{SystemID: f.system.ID, Label: "1A-2", LengthMM: 1000, WidthMM: 400, HeightMM: 300, Ordinal: 2}
	require.NoError(t, f.db.Create(&f.shelfA).Error)
	require.NoError(t, f.db.Create(&f.shelfB).Error)

	f.item = model.Item{SKU: "WIDGET-1", Name: "Widget", Unit: "units", ClearanceLevel: 1, ShelfID: f.shelfA.ID}
	require.NoError(t, f.db.Create(&f.item).Error)

	f.actor = model.User{Email: "worker@example.com", Name: "Worker", PasswordHash: "x", Role: model.RoleUser, Active: true}
	require.NoError(t, f.db.Create(&f.actor).Error)

	return f
}

func (f *fixture) movement(kind string, qty int, holder string) *model.Movement {
	m := &model.Movement{
		ItemID:  f.item.ID,
		Kind:    kind,
		Qty:     qty,
		ShelfID: f.shelfA.ID,
		ActorID: f.actor.ID,
	}
	if holder != "" {
		m.Holder = &holder
	}
	return m
}

func (f *fixture) itemQuantity(t *testing.T) int {
	t.Helper()
	var item model.Item
	require.NoError(t, f.db.First(&item, "id = ?", f.item.ID).Error)
	return item.Quantity
}

func (f *fixture) movementCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&model.Movement{}).Where("item_id = ?", f.item.ID).Count(&n).Error)
	return n
}

func (f *fixture) addItem(t *testing.T, sku, name string, clearance, qty int) model.Item {
	t.Helper()
	item := model.Item{SKU: sku, Name: name, Unit: "units", ClearanceLevel: clearance, ShelfID: f.shelfA.ID, Quantity: qty}
	require.NoError(t, f.db.Create(&item).Error)
	return item
}

func ptr[T any](v T) *T { return &v }
