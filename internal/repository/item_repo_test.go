package repository

import (
	"context"
	"testing"

	"github.com/rushilbhatia3/FMS/internal/dto"
	"github.com/rushilbhatia3/FMS/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemListSearchAndSort(t *testing.T) {
	f := newFixture(t)
	repo := NewItemRepository(f.db)
	ctx := context.Background()

	f.addItem(t, "GADGET-1", "Gadget", 1, 3)
	f.addItem(t, "CABLE-9", "HDMI Cable", 2, 7)

	items, total, err := repo.List(ctx, dto.ItemFilter{Q: "gadg"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "GADGET-1", items[0].SKU)

	// case-insensitive match on sku too
	items, _, err = repo.List(ctx, dto.ItemFilter{Q: "cable-9"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "HDMI Cable", items[0].Name)

	items, _, err = repo.List(ctx, dto.ItemFilter{Sort: "quantity", Dir: "desc"})
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "CABLE-9", items[0].SKU)

	// unknown sort falls back to name asc
	items, _, err = repo.List(ctx, dto.ItemFilter{Sort: "nope"})
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Gadget", items[0].Name)
}

func TestItemListClearanceCeiling(t *testing.T) {
	f := newFixture(t)
	repo := NewItemRepository(f.db)
	ctx := context.Background()

	f.addItem(t, "SECRET-1", "Restricted Part", 4, 1)

	items, total, err := repo.List(ctx, dto.ItemFilter{MaxClearance: ptr(2)})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "WIDGET-1", items[0].SKU)

	items, total, err = repo.List(ctx, dto.ItemFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, items, 2)
}

func TestItemListStatusFilter(t *testing.T) {
	f := newFixture(t)
	items := NewItemRepository(f.db)
	movements := NewMovementRepository(f.db)
	ctx := context.Background()

	f.addItem(t, "GADGET-1", "Gadget", 1, 3)

	require.NoError(t, movements.Append(ctx, f.movement(model.KindReceive, 10, "")))
	require.NoError(t, movements.Append(ctx, f.movement(model.KindIssue, -4, "bob")))

	out, total, err := items.List(ctx, dto.ItemFilter{Status: "out"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, out, 1)
	assert.Equal(t, "WIDGET-1", out[0].SKU)

	avail, total, err := items.List(ctx, dto.ItemFilter{Status: "available"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, avail, 1)
	assert.Equal(t, "GADGET-1", avail[0].SKU)
}

func TestItemArchiveRestore(t *testing.T) {
	f := newFixture(t)
	repo := NewItemRepository(f.db)
	ctx := context.Background()

	require.NoError(t, repo.Archive(ctx, f.item.ID))

	item, err := repo.FindByID(ctx, f.item.ID)
	require.NoError(t, err)
	assert.True(t, item.IsDeleted)
	assert.NotNil(t, item.DeletedAt)

	// archived items disappear from the default listing
	items, total, err := repo.List(ctx, dto.ItemFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
	assert.Empty(t, items)

	items, _, err = repo.List(ctx, dto.ItemFilter{IncludeDeleted: true})
	require.NoError(t, err)
	assert.Len(t, items, 1)

	require.NoError(t, repo.Restore(ctx, f.item.ID))
	item, err = repo.FindByID(ctx, f.item.ID)
	require.NoError(t, err)
	assert.False(t, item.IsDeleted)
	assert.Nil(t, item.DeletedAt)
}

func TestItemStats(t *testing.T) {
	f := newFixture(t)
	items := NewItemRepository(f.db)
	movements := NewMovementRepository(f.db)
	ctx := context.Background()

	f.addItem(t, "GADGET-1", "Gadget", 3, 2)
	archived := f.addItem(t, "OLD-1", "Old Part", 1, 0)
	require.NoError(t, items.Archive(ctx, archived.ID))

	require.NoError(t, movements.Append(ctx, f.movement(model.KindReceive, 10, "")))
	require.NoError(t, movements.Append(ctx, f.movement(model.KindIssue, -4, "bob")))

	stats, err := items.Stats(ctx, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.Total)
	assert.EqualValues(t, 2, stats.Active)
	assert.EqualValues(t, 1, stats.Deleted)
	assert.EqualValues(t, 1, stats.CheckedOut)
	assert.EqualValues(t, 1, stats.Available)

	// a clearance ceiling shrinks every figure consistently
	stats, err = items.Stats(ctx, ptr(2))
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.Total)
	assert.EqualValues(t, 1, stats.Active)
	assert.EqualValues(t, 1, stats.CheckedOut)
	assert.EqualValues(t, 0, stats.Available)
}
