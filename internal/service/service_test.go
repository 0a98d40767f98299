package service

import (
	"testing"

	"github.com/rushilbhatia3/FMS/internal/infra"
	"github.com/rushilbhatia3/FMS/internal/model"
	"github.com/rushilbhatia3/FMS/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testEnv wires the full service stack onto an in-memory database, seeded
// with one system, two shelves and one item on shelf A.
type testEnv struct {
	db *gorm.DB

	movementRepo repository.MovementRepository
	itemRepo     repository.ItemRepository
	shelfRepo    repository.ShelfRepository
	systemRepo   repository.SystemRepository

	movements MovementService
	items     ItemService
	status    StatusService

	admin Actor
	user  Actor // clearance capped at 2

	system model.System
	shelfA model.Shelf
	shelfB model.Shelf
	item   model.Item
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, infra.Migrate(db))

	e := &testEnv{
		db:           db,
		movementRepo: repository.NewMovementRepository(db),
		itemRepo:     repository.NewItemRepository(db),
		shelfRepo:    repository.NewShelfRepository(db),
		systemRepo:   repository.NewSystemRepository(db),
		admin:        Actor{ID: uuid.New(), Role: model.RoleAdmin},
		user:         Actor{ID: uuid.New(), Role: model.RoleUser, MaxClearance: intPtr(2)},
	}
	e.movements = NewMovementService(e.movementRepo, e.itemRepo, e.shelfRepo)
	e.items = NewItemService(e.itemRepo, e.shelfRepo, e.movementRepo)
	e.status = NewStatusService(e.movementRepo, e.itemRepo)

	e.system = model.System{Code: "1A"}
	require.NoError(t, db.Create(&e.system).Error)
	e.shelfA = model.Shelf{SystemID: e.system.ID, Label: "1A-1", LengthMM: 1000, WidthMM: 400, HeightMM: 300, Ordinal: 1}
	e.shelfB = model.Shelf{SystemID: e.system.ID, Label: "1A-2", LengthMM: 1000, WidthMM: 400, HeightMM: 300, Ordinal: 2}
	require.NoError(t, db.Create(&e.shelfA).Error)
	require.NoError(t, db.Create(&e.shelfB).Error)

	e.item = model.Item{SKU: "WIDGET-1", Name: "Widget", Unit: "units", ClearanceLevel: 1, ShelfID: e.shelfA.ID}
	require.NoError(t, db.Create(&e.item).Error)

	return e
}

func (e *testEnv) quantity(t *testing.T, id uuid.UUID) int {
	t.Helper()
	var item model.Item
	require.NoError(t, e.db.First(&item, "id = ?", id).Error)
	return item.Quantity
}

func (e *testEnv) ledgerCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&model.Movement{}).Count(&n).Error)
	return n
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func mustParseUUID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	require.NoError(t, err)
	return id
}
