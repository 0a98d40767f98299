package service

import (
	"context"
	"testing"

	"github.com/rushilbhatia3/FMS/internal/dto"
	"github.com/rushilbhatia3/FMS/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemCreateDefaultsAndDuplicates(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	created, err := e.items.Create(ctx, e.admin, dto.CreateItemRequest{
		SKU: "GADGET-1", Name: "Gadget", ShelfID: e.shelfA.ID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, "units", created.Unit)
	assert.Equal(t, 1, created.ClearanceLevel)
	assert.Equal(t, 0, created.Quantity)
	assert.Equal(t, e.admin.ID.String(), created.AddedBy)
	assert.Equal(t, "1A-1", created.ShelfLabel)

	_, err = e.items.Create(ctx, e.admin, dto.CreateItemRequest{
		SKU: "GADGET-1", Name: "Another Gadget", ShelfID: e.shelfA.ID.String(),
	})
	require.Error(t, err)
	assert.True(t, IsConstraint(err))
}

func TestItemArchiveGuards(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	itemID := e.item.ID.String()
	shelfID := e.shelfA.ID.String()

	_, err := e.movements.Receive(ctx, e.admin, dto.ReceiveRequest{ItemID: itemID, ShelfID: shelfID, Qty: 5})
	require.NoError(t, err)
	_, err = e.movements.Issue(ctx, e.admin, dto.IssueRequest{ItemID: itemID, ShelfID: shelfID, Qty: 2, Holder: "alice"})
	require.NoError(t, err)

	// blocked while checked out
	err = e.items.Archive(ctx, e.admin, e.item.ID)
	require.Error(t, err)
	assert.True(t, IsConstraint(err))

	_, err = e.movements.Return(ctx, e.admin, dto.ReturnRequest{ItemID: itemID, ShelfID: shelfID, Qty: 2, Holder: strPtr("alice")})
	require.NoError(t, err)

	// still blocked while stock remains on the shelf
	err = e.items.Archive(ctx, e.admin, e.item.ID)
	require.Error(t, err)
	assert.True(t, IsConstraint(err))

	_, err = e.movements.Adjust(ctx, e.admin, dto.AdjustRequest{ItemID: itemID, ShelfID: shelfID, QtyDelta: -5, Note: "write-off"})
	require.NoError(t, err)

	require.NoError(t, e.items.Archive(ctx, e.admin, e.item.ID))

	restored, err := e.items.Restore(ctx, e.admin, e.item.ID)
	require.NoError(t, err)
	assert.False(t, restored.IsDeleted)
}

func TestItemClearanceInvisibility(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	restricted := model.Item{SKU: "SECRET-1", Name: "Restricted Part", Unit: "units", ClearanceLevel: 3, ShelfID: e.shelfA.ID}
	require.NoError(t, e.db.Create(&restricted).Error)

	_, err := e.items.Get(ctx, e.user, restricted.ID)
	require.ErrorIs(t, err, ErrNotFound)

	got, err := e.items.Get(ctx, e.admin, restricted.ID)
	require.NoError(t, err)
	assert.Equal(t, "SECRET-1", got.SKU)

	list, err := e.items.List(ctx, e.user, dto.ItemFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, list.Total)

	list, err = e.items.List(ctx, e.admin, dto.ItemFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, list.Total)
}

func TestItemUpdateMovesShelfAndClearsFields(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	updated, err := e.items.Update(ctx, e.admin, e.item.ID, dto.UpdateItemRequest{
		Name:    strPtr("Widget Mk2"),
		ShelfID: strPtr(e.shelfB.ID.String()),
		Tag:     strPtr("fasteners"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Widget Mk2", updated.Name)
	assert.Equal(t, e.shelfB.ID.String(), updated.ShelfID)
	assert.Equal(t, "1A-2", updated.ShelfLabel)
	require.NotNil(t, updated.Tag)
	assert.Equal(t, "fasteners", *updated.Tag)

	archivedShelf := e.shelfA
	require.NoError(t, e.db.Model(&model.Shelf{}).Where("id = ?", archivedShelf.ID).Update("is_deleted", true).Error)
	_, err = e.items.Update(ctx, e.admin, e.item.ID, dto.UpdateItemRequest{ShelfID: strPtr(archivedShelf.ID.String())})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}
