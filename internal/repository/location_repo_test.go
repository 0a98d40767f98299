package repository

import (
	"context"
	"testing"

	"github.com/rushilbhatia3/FMS/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemArchiveCascades(t *testing.T) {
	f := newFixture(t)
	systems := NewSystemRepository(f.db)
	ctx := context.Background()

	// a second system that must stay untouched
	other := model.System{Code: "2B"}
	require.NoError(t, f.db.Create(&other).Error)
	otherShelf := model.Shelf{SystemID: other.ID, Label: "2B-1", LengthMM: 1, WidthMM: 1, HeightMM: 1}
	require.NoError(t, f.db.Create(&otherShelf).Error)

	require.NoError(t, systems.ArchiveCascade(ctx, f.system.ID))

	sys, err := systems.FindByID(ctx, f.system.ID)
	require.NoError(t, err)
	assert.True(t, sys.IsDeleted)

	var shelf model.Shelf
	require.NoError(t, f.db.First(&shelf, "id = ?", f.shelfA.ID).Error)
	assert.True(t, shelf.IsDeleted)

	var item model.Item
	require.NoError(t, f.db.First(&item, "id = ?", f.item.ID).Error)
	assert.True(t, item.IsDeleted)
	assert.NotNil(t, item.DeletedAt)

	var sibling model.Shelf
	require.NoError(t, f.db.First(&sibling, "id = ?", otherShelf.ID).Error)
	assert.False(t, sibling.IsDeleted)
}

func TestSystemRestoreDoesNotCascade(t *testing.T) {
	f := newFixture(t)
	systems := NewSystemRepository(f.db)
	ctx := context.Background()

	require.NoError(t, systems.ArchiveCascade(ctx, f.system.ID))
	require.NoError(t, systems.Restore(ctx, f.system.ID))

	sys, err := systems.FindByID(ctx, f.system.ID)
	require.NoError(t, err)
	assert.False(t, sys.IsDeleted)

	// shelves and items stay archived until restored explicitly
	var shelf model.Shelf
	require.NoError(t, f.db.First(&shelf, "id = ?", f.shelfA.ID).Error)
	assert.True(t, shelf.IsDeleted)

	var item model.Item
	require.NoError(t, f.db.First(&item, "id = ?", f.item.ID).Error)
	assert.True(t, item.IsDeleted)
}

func TestShelfArchiveCascadesToItems(t *testing.T) {
	f := newFixture(t)
	shelves := NewShelfRepository(f.db)
	ctx := context.Background()

	require.NoError(t, shelves.ArchiveCascade(ctx, f.shelfA.ID))

	var item model.Item
	require.NoError(t, f.db.First(&item, "id = ?", f.item.ID).Error)
	assert.True(t, item.IsDeleted)

	// sibling shelf is untouched
	shelf, err := shelves.FindByID(ctx, f.shelfB.ID)
	require.NoError(t, err)
	assert.False(t, shelf.IsDeleted)
}

func TestShelfFindByLabelAndItemCount(t *testing.T) {
	f := newFixture(t)
	shelves := NewShelfRepository(f.db)
	ctx := context.Background()

	shelf, err := shelves.FindByLabel(ctx, f.system.ID, "1A-2")
	require.NoError(t, err)
	assert.Equal(t, f.shelfB.ID, shelf.ID)

	_, err = shelves.FindByLabel(ctx, f.system.ID, "missing")
	require.Error(t, err)

	n, err := shelves.ItemCount(ctx, f.shelfA.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = shelves.ItemCount(ctx, f.shelfB.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

func TestShelfListOrderedByOrdinal(t *testing.T) {
	f := newFixture(t)
	shelves := NewShelfRepository(f.db)
	ctx := context.Background()

	list, err := shelves.List(ctx, &f.system.ID, false)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "1A-1", list[0].Label)
	assert.Equal(t, "1A-2", list[1].Label)
	require.NotNil(t, list[0].System)
	assert.Equal(t, "1A", list[0].System.Code)
}
