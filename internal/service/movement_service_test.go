package service

import (
	"context"
	"testing"

	"github.com/rushilbhatia3/FMS/internal/dto"
	"github.com/rushilbhatia3/FMS/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWidgetLifecycle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	itemID := e.item.ID.String()
	shelfID := e.shelfA.ID.String()

	_, err := e.movements.Receive(ctx, e.admin, dto.ReceiveRequest{ItemID: itemID, ShelfID: shelfID, Qty: 10})
	require.NoError(t, err)
	assert.Equal(t, 10, e.quantity(t, e.item.ID))

	issued, err := e.movements.Issue(ctx, e.admin, dto.IssueRequest{ItemID: itemID, ShelfID: shelfID, Qty: 4, Holder: "bob"})
	require.NoError(t, err)
	assert.Equal(t, -4, issued.Qty)
	assert.Equal(t, 6, e.quantity(t, e.item.ID))

	_, err = e.movements.Return(ctx, e.admin, dto.ReturnRequest{ItemID: itemID, ShelfID: shelfID, Qty: 4, Holder: strPtr("bob")})
	require.NoError(t, err)
	assert.Equal(t, 10, e.quantity(t, e.item.ID))

	_, err = e.movements.Adjust(ctx, e.admin, dto.AdjustRequest{ItemID: itemID, ShelfID: shelfID, QtyDelta: -2, Note: "damaged"})
	require.NoError(t, err)
	assert.Equal(t, 8, e.quantity(t, e.item.ID))

	// over-issue is refused with no side effects
	_, err = e.movements.Issue(ctx, e.admin, dto.IssueRequest{ItemID: itemID, ShelfID: shelfID, Qty: 20, Holder: "carol"})
	require.Error(t, err)
	assert.True(t, IsConstraint(err))
	assert.Equal(t, 8, e.quantity(t, e.item.ID))
	assert.EqualValues(t, 4, e.ledgerCount(t))
}

func TestIssueRequiresHolder(t *testing.T) {
	e := newEnv(t)
	_, err := e.movements.Issue(context.Background(), e.admin, dto.IssueRequest{
		ItemID: e.item.ID.String(), ShelfID: e.shelfA.ID.String(), Qty: 1,
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.EqualValues(t, 0, e.ledgerCount(t))
}

func TestReceiveRejectsNonPositiveQty(t *testing.T) {
	e := newEnv(t)
	_, err := e.movements.Receive(context.Background(), e.admin, dto.ReceiveRequest{
		ItemID: e.item.ID.String(), ShelfID: e.shelfA.ID.String(), Qty: 0,
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestAdjustRules(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	req := dto.AdjustRequest{ItemID: e.item.ID.String(), ShelfID: e.shelfA.ID.String(), QtyDelta: 1, Note: "count fix"}

	_, err := e.movements.Adjust(ctx, e.user, req)
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	bad := req
	bad.QtyDelta = 0
	_, err = e.movements.Adjust(ctx, e.admin, bad)
	assert.True(t, IsValidation(err))

	bad = req
	bad.Note = ""
	_, err = e.movements.Adjust(ctx, e.admin, bad)
	assert.True(t, IsValidation(err))

	_, err = e.movements.Adjust(ctx, e.admin, req)
	require.NoError(t, err)
	assert.Equal(t, 1, e.quantity(t, e.item.ID))
}

func TestReturnWithoutPriorIssueIsAccepted(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	// an unsolicited return still lands in the ledger and on the shelf
	_, err := e.movements.Return(ctx, e.admin, dto.ReturnRequest{
		ItemID: e.item.ID.String(), ShelfID: e.shelfA.ID.String(), Qty: 2, Holder: strPtr("alice"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, e.quantity(t, e.item.ID))

	// alice's net is positive, so she is not an outstanding holder
	nets, err := e.movementRepo.OutstandingByHolder(ctx, &e.item.ID, "", nil)
	require.NoError(t, err)
	assert.Empty(t, nets)
}

func TestTransferMovesStockAndHomeShelf(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.movements.Receive(ctx, e.admin, dto.ReceiveRequest{
		ItemID: e.item.ID.String(), ShelfID: e.shelfA.ID.String(), Qty: 5,
	})
	require.NoError(t, err)

	resp, err := e.movements.Transfer(ctx, e.admin, dto.TransferRequest{
		ItemID:      e.item.ID.String(),
		FromShelfID: e.shelfA.ID.String(),
		ToShelfID:   e.shelfB.ID.String(),
		Qty:         3,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Transferred)
	assert.NotEmpty(t, resp.XferKey)

	// total on hand is unchanged; the home shelf moved
	assert.Equal(t, 5, e.quantity(t, e.item.ID))
	var item model.Item
	require.NoError(t, e.db.First(&item, "id = ?", e.item.ID).Error)
	assert.Equal(t, e.shelfB.ID, item.ShelfID)

	// exactly two rows, debit then credit, sharing one key
	var rows []model.Movement
	require.NoError(t, e.db.Where("kind = ?", model.KindTransfer).Order("id").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, -3, rows[0].Qty)
	assert.Equal(t, e.shelfA.ID, rows[0].ShelfID)
	assert.Equal(t, 3, rows[1].Qty)
	assert.Equal(t, e.shelfB.ID, rows[1].ShelfID)
	require.NotNil(t, rows[0].XferKey)
	require.NotNil(t, rows[1].XferKey)
	assert.Equal(t, *rows[0].XferKey, *rows[1].XferKey)
	assert.Equal(t, resp.XferKey, rows[0].XferKey.String())
}

func TestTransferPreconditions(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.movements.Transfer(ctx, e.admin, dto.TransferRequest{
		ItemID:      e.item.ID.String(),
		FromShelfID: e.shelfA.ID.String(),
		ToShelfID:   e.shelfA.ID.String(),
		Qty:         1,
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	// empty shelf: nothing to move
	_, err = e.movements.Transfer(ctx, e.admin, dto.TransferRequest{
		ItemID:      e.item.ID.String(),
		FromShelfID: e.shelfA.ID.String(),
		ToShelfID:   e.shelfB.ID.String(),
		Qty:         1,
	})
	require.Error(t, err)
	assert.True(t, IsConstraint(err))
	assert.EqualValues(t, 0, e.ledgerCount(t))

	_, err = e.movements.Transfer(ctx, e.admin, dto.TransferRequest{
		ItemID:      e.item.ID.String(),
		FromShelfID: e.shelfA.ID.String(),
		ToShelfID:   uuid.New().String(),
		Qty:         1,
	})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCorrectKeepsSignAndReappliesDelta(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	received, err := e.movements.Receive(ctx, e.admin, dto.ReceiveRequest{
		ItemID: e.item.ID.String(), ShelfID: e.shelfA.ID.String(), Qty: 10,
	})
	require.NoError(t, err)

	_, err = e.movements.Correct(ctx, e.user, received.ID, 5)
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	// a receive cannot be corrected into a negative delta
	_, err = e.movements.Correct(ctx, e.admin, received.ID, -5)
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	got, err := e.movements.Correct(ctx, e.admin, received.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Qty)
	assert.Equal(t, 7, e.quantity(t, e.item.ID))
}

func TestRemoveIsAdminOnly(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	received, err := e.movements.Receive(ctx, e.admin, dto.ReceiveRequest{
		ItemID: e.item.ID.String(), ShelfID: e.shelfA.ID.String(), Qty: 3,
	})
	require.NoError(t, err)

	err = e.movements.Remove(ctx, e.user, received.ID)
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	require.NoError(t, e.movements.Remove(ctx, e.admin, received.ID))
	assert.Equal(t, 0, e.quantity(t, e.item.ID))
}

func TestClearanceHidesItemFromMovements(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	restricted := model.Item{SKU: "SECRET-1", Name: "Restricted Part", Unit: "units", ClearanceLevel: 3, ShelfID: e.shelfA.ID}
	require.NoError(t, e.db.Create(&restricted).Error)

	// capped callers get not-found, never forbidden
	_, err := e.movements.Receive(ctx, e.user, dto.ReceiveRequest{
		ItemID: restricted.ID.String(), ShelfID: e.shelfA.ID.String(), Qty: 1,
	})
	require.ErrorIs(t, err, ErrNotFound)

	_, err = e.movements.Receive(ctx, e.admin, dto.ReceiveRequest{
		ItemID: restricted.ID.String(), ShelfID: e.shelfA.ID.String(), Qty: 1,
	})
	require.NoError(t, err)
}

func TestGetFailsClosedWhenItemLookupErrors(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	recv, err := e.movements.Receive(ctx, e.admin, dto.ReceiveRequest{
		ItemID: e.item.ID.String(), ShelfID: e.shelfA.ID.String(), Qty: 5,
	})
	require.NoError(t, err)

	// Hard-delete the item row so the lookup errors. The movement must not
	// leak to a caller whose clearance could no longer be checked.
	require.NoError(t, e.db.Exec("DELETE FROM items WHERE id = ?", e.item.ID).Error)

	_, err = e.movements.Get(ctx, e.user, recv.ID)
	require.Error(t, err)
	var storageErr *StorageError
	assert.ErrorAs(t, err, &storageErr)
}

func TestMovementsRejectArchivedItemAndShelf(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	require.NoError(t, e.db.Model(&model.Shelf{}).Where("id = ?", e.shelfB.ID).Update("is_deleted", true).Error)
	_, err := e.movements.Receive(ctx, e.admin, dto.ReceiveRequest{
		ItemID: e.item.ID.String(), ShelfID: e.shelfB.ID.String(), Qty: 1,
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	require.NoError(t, e.itemRepo.Archive(ctx, e.item.ID))
	_, err = e.movements.Receive(ctx, e.admin, dto.ReceiveRequest{
		ItemID: e.item.ID.String(), ShelfID: e.shelfA.ID.String(), Qty: 1,
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestListScopesNonAdminByClearance(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	restricted := model.Item{SKU: "SECRET-1", Name: "Restricted Part", Unit: "units", ClearanceLevel: 4, ShelfID: e.shelfA.ID}
	require.NoError(t, e.db.Create(&restricted).Error)

	_, err := e.movements.Receive(ctx, e.admin, dto.ReceiveRequest{ItemID: e.item.ID.String(), ShelfID: e.shelfA.ID.String(), Qty: 2})
	require.NoError(t, err)
	_, err = e.movements.Receive(ctx, e.admin, dto.ReceiveRequest{ItemID: restricted.ID.String(), ShelfID: e.shelfA.ID.String(), Qty: 2})
	require.NoError(t, err)

	all, err := e.movements.List(ctx, e.admin, dto.MovementFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, all.Total)

	visible, err := e.movements.List(ctx, e.user, dto.MovementFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, visible.Total)
	require.Len(t, visible.Items, 1)
	assert.Equal(t, e.item.ID.String(), visible.Items[0].ItemID)
}
