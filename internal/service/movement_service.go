package service

import (
	"context"
	"errors"

	"github.com/rushilbhatia3/FMS/internal/dto"
	"github.com/rushilbhatia3/FMS/internal/model"
	"github.com/rushilbhatia3/FMS/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Actor is the authenticated caller as the services see it, decoupled from
// the transport-layer claims.
type Actor struct {
	ID   uuid.UUID
	Role string
	// MaxClearance is nil for admins and uncapped users.
	MaxClearance *int
}

func (a Actor) isAdmin() bool { return a.Role == model.RoleAdmin }

// MovementService admits movements into the ledger. Every write validates
// first (no side effects on the first violated rule), then appends rows and
// the cached-quantity delta in one transaction.
type MovementService interface {
	Receive(ctx context.Context, actor Actor, req dto.ReceiveRequest) (*dto.MovementResponse, error)
	Issue(ctx context.Context, actor Actor, req dto.IssueRequest) (*dto.MovementResponse, error)
	Return(ctx context.Context, actor Actor, req dto.ReturnRequest) (*dto.MovementResponse, error)
	Adjust(ctx context.Context, actor Actor, req dto.AdjustRequest) (*dto.MovementResponse, error)
	Transfer(ctx context.Context, actor Actor, req dto.TransferRequest) (*dto.TransferResponse, error)

	Correct(ctx context.Context, actor Actor, id int64, newQty int) (*dto.MovementResponse, error)
	Remove(ctx context.Context, actor Actor, id int64) error

	Get(ctx context.Context, actor Actor, id int64) (*dto.MovementResponse, error)
	List(ctx context.Context, actor Actor, f dto.MovementFilter) (*dto.MovementListResponse, error)
}

type movementService struct {
	movements repository.MovementRepository
	items     repository.ItemRepository
	shelves   repository.ShelfRepository
}

func NewMovementService(
	movements repository.MovementRepository,
	items repository.ItemRepository,
	shelves repository.ShelfRepository,
) MovementService {
	return &movementService{movements: movements, items: items, shelves: shelves}
}

// loadLive fetches the item and shelf for a write, enforcing liveness and the
// actor's clearance cap. Violations come back as typed errors before any row
// is written.
func (s *movementService) loadLive(ctx context.Context, actor Actor, itemID, shelfID string) (*model.Item, *model.Shelf, error) {
	iid, err := uuid.Parse(itemID)
	if err != nil {
		return nil, nil, invalid("item_id", "must be a uuid")
	}
	sid, err := uuid.Parse(shelfID)
	if err != nil {
		return nil, nil, invalid("shelf_id", "must be a uuid")
	}

	item, err := s.items.FindByID(ctx, iid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, NotFound("item")
		}
		return nil, nil, Storage("load item", err)
	}
	if item.IsDeleted {
		return nil, nil, invalid("item_id", "item is archived")
	}
	if err := s.checkClearance(actor, item); err != nil {
		return nil, nil, err
	}

	shelf, err := s.shelves.FindByID(ctx, sid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, NotFound("shelf")
		}
		return nil, nil, Storage("load shelf", err)
	}
	if shelf.IsDeleted {
		return nil, nil, invalid("shelf_id", "shelf is archived")
	}
	return item, shelf, nil
}

func (s *movementService) checkClearance(actor Actor, item *model.Item) error {
	if actor.isAdmin() || actor.MaxClearance == nil {
		return nil
	}
	// Items above the caller's clearance are invisible, not forbidden.
	if item.ClearanceLevel > *actor.MaxClearance {
		return NotFound("item")
	}
	return nil
}

func (s *movementService) Receive(ctx context.Context, actor Actor, req dto.ReceiveRequest) (*dto.MovementResponse, error) {
	if req.Qty <= 0 {
		return nil, invalid("qty", "must be positive")
	}
	item, shelf, err := s.loadLive(ctx, actor, req.ItemID, req.ShelfID)
	if err != nil {
		return nil, err
	}
	m := &model.Movement{
		ItemID:  item.ID,
		Kind:    model.KindReceive,
		Qty:     req.Qty,
		ShelfID: shelf.ID,
		ActorID: actor.ID,
		Note:    req.Note,
	}
	if err := s.append(ctx, m); err != nil {
		return nil, err
	}
	return s.enrich(m, item, shelf), nil
}

func (s *movementService) Issue(ctx context.Context, actor Actor, req dto.IssueRequest) (*dto.MovementResponse, error) {
	if req.Qty <= 0 {
		return nil, invalid("qty", "must be positive")
	}
	if req.Holder == "" {
		return nil, invalid("holder", "required for issue")
	}
	item, shelf, err := s.loadLive(ctx, actor, req.ItemID, req.ShelfID)
	if err != nil {
		return nil, err
	}
	holder := req.Holder
	m := &model.Movement{
		ItemID:  item.ID,
		Kind:    model.KindIssue,
		Qty:     -req.Qty,
		ShelfID: shelf.ID,
		Holder:  &holder,
		DueAt:   req.DueAt,
		ActorID: actor.ID,
		Note:    req.Note,
	}
	if err := s.append(ctx, m); err != nil {
		return nil, err
	}
	return s.enrich(m, item, shelf), nil
}

func (s *movementService) Return(ctx context.Context, actor Actor, req dto.ReturnRequest) (*dto.MovementResponse, error) {
	if req.Qty <= 0 {
		return nil, invalid("qty", "must be positive")
	}
	item, shelf, err := s.loadLive(ctx, actor, req.ItemID, req.ShelfID)
	if err != nil {
		return nil, err
	}
	m := &model.Movement{
		ItemID:  item.ID,
		Kind:    model.KindReturn,
		Qty:     req.Qty,
		ShelfID: shelf.ID,
		Holder:  req.Holder,
		ActorID: actor.ID,
		Note:    req.Note,
	}
	if err := s.append(ctx, m); err != nil {
		return nil, err
	}
	return s.enrich(m, item, shelf), nil
}

func (s *movementService) Adjust(ctx context.Context, actor Actor, req dto.AdjustRequest) (*dto.MovementResponse, error) {
	if !actor.isAdmin() {
		return nil, invalid("role", "adjust is admin-only")
	}
	if req.QtyDelta == 0 {
		return nil, invalid("qty_delta", "must be non-zero")
	}
	if req.Note == "" {
		return nil, invalid("note", "required for adjust")
	}
	item, shelf, err := s.loadLive(ctx, actor, req.ItemID, req.ShelfID)
	if err != nil {
		return nil, err
	}
	note := req.Note
	m := &model.Movement{
		ItemID:  item.ID,
		Kind:    model.KindAdjust,
		Qty:     req.QtyDelta,
		ShelfID: shelf.ID,
		ActorID: actor.ID,
		Note:    &note,
	}
	if err := s.append(ctx, m); err != nil {
		return nil, err
	}
	return s.enrich(m, item, shelf), nil
}

// Transfer writes the debit and credit rows as one batch sharing an xfer_key;
// the ledger store commits both or neither. The item's home shelf moves to
// the destination in the same transaction.
func (s *movementService) Transfer(ctx context.Context, actor Actor, req dto.TransferRequest) (*dto.TransferResponse, error) {
	if req.Qty <= 0 {
		return nil, invalid("qty", "must be positive")
	}
	if req.FromShelfID == req.ToShelfID {
		return nil, invalid("to_shelf_id", "source and destination are the same shelf")
	}
	item, from, err := s.loadLive(ctx, actor, req.ItemID, req.FromShelfID)
	if err != nil {
		return nil, err
	}
	toID, err := uuid.Parse(req.ToShelfID)
	if err != nil {
		return nil, invalid("to_shelf_id", "must be a uuid")
	}
	to, err := s.shelves.FindByID(ctx, toID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("shelf")
		}
		return nil, Storage("load shelf", err)
	}
	if to.IsDeleted {
		return nil, invalid("to_shelf_id", "shelf is archived")
	}
	if item.Quantity < req.Qty {
		return nil, &ConstraintViolation{Msg: "insufficient stock for transfer"}
	}

	key := uuid.New()
	debit := &model.Movement{
		ItemID:  item.ID,
		Kind:    model.KindTransfer,
		Qty:     -req.Qty,
		ShelfID: from.ID,
		ActorID: actor.ID,
		Note:    req.Note,
		XferKey: &key,
	}
	credit := &model.Movement{
		ItemID:  item.ID,
		Kind:    model.KindTransfer,
		Qty:     req.Qty,
		ShelfID: to.ID,
		ActorID: actor.ID,
		Note:    req.Note,
		XferKey: &key,
	}

	err = s.movements.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.movements.AppendTx(tx, debit, credit); err != nil {
			return err
		}
		return tx.Model(&model.Item{}).
			Where("id = ?", item.ID).
			Update("shelf_id", to.ID).Error
	})
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientStock) {
			return nil, &ConstraintViolation{Msg: "insufficient stock for transfer"}
		}
		return nil, Storage("transfer", err)
	}

	return &dto.TransferResponse{
		FromMovementID: debit.ID,
		ToMovementID:   credit.ID,
		XferKey:        key.String(),
		Transferred:    req.Qty,
	}, nil
}

func (s *movementService) Correct(ctx context.Context, actor Actor, id int64, newQty int) (*dto.MovementResponse, error) {
	if !actor.isAdmin() {
		return nil, invalid("role", "correction is admin-only")
	}
	if newQty == 0 {
		return nil, invalid("qty", "must be non-zero")
	}
	m, err := s.movements.FindByID(ctx, id)
	if err != nil {
		return nil, NotFound("movement")
	}
	// A correction must not flip the movement's sign: the kind determines it.
	if (m.Qty > 0) != (newQty > 0) {
		return nil, invalid("qty", "sign must match the movement kind")
	}
	if err := s.movements.Correct(ctx, id, newQty); err != nil {
		if errors.Is(err, repository.ErrInsufficientStock) {
			return nil, &ConstraintViolation{Msg: "correction would drive stock negative"}
		}
		return nil, Storage("correct movement", err)
	}
	m, err = s.movements.FindByID(ctx, id)
	if err != nil {
		return nil, Storage("reload movement", err)
	}
	return movementToResponse(m), nil
}

func (s *movementService) Remove(ctx context.Context, actor Actor, id int64) error {
	if !actor.isAdmin() {
		return invalid("role", "removal is admin-only")
	}
	if err := s.movements.Remove(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFound("movement")
		}
		if errors.Is(err, repository.ErrInsufficientStock) {
			return &ConstraintViolation{Msg: "removal would drive stock negative"}
		}
		return Storage("remove movement", err)
	}
	return nil
}

func (s *movementService) Get(ctx context.Context, actor Actor, id int64) (*dto.MovementResponse, error) {
	m, err := s.movements.FindByID(ctx, id)
	if err != nil {
		return nil, NotFound("movement")
	}
	item, err := s.items.FindByID(ctx, m.ItemID)
	if err != nil {
		return nil, Storage("load movement item", err)
	}
	if err := s.checkClearance(actor, item); err != nil {
		return nil, NotFound("movement")
	}
	return movementToResponse(m), nil
}

func (s *movementService) List(ctx context.Context, actor Actor, f dto.MovementFilter) (*dto.MovementListResponse, error) {
	if !actor.isAdmin() {
		f.MaxClearance = actor.MaxClearance
	}
	movs, total, err := s.movements.List(ctx, f)
	if err != nil {
		return nil, Storage("list movements", err)
	}
	page := f.Page
	if page < 1 {
		page = 1
	}
	size := f.PageSize
	if size < 1 || size > 1000 {
		size = 100
	}
	resp := &dto.MovementListResponse{
		Items:    make([]dto.MovementResponse, len(movs)),
		Page:     page,
		PageSize: size,
		Total:    total,
	}
	for i := range movs {
		resp.Items[i] = *movementToResponse(&movs[i])
	}
	return resp, nil
}

func (s *movementService) append(ctx context.Context, movs ...*model.Movement) error {
	if err := s.movements.Append(ctx, movs...); err != nil {
		if errors.Is(err, repository.ErrInsufficientStock) {
			return &ConstraintViolation{Msg: "insufficient stock"}
		}
		return Storage("append movement", err)
	}
	return nil
}

func (s *movementService) enrich(m *model.Movement, item *model.Item, shelf *model.Shelf) *dto.MovementResponse {
	resp := movementToResponse(m)
	resp.ItemSKU = item.SKU
	resp.ItemName = item.Name
	resp.ShelfLabel = shelf.Label
	return resp
}

func movementToResponse(m *model.Movement) *dto.MovementResponse {
	resp := &dto.MovementResponse{
		ID:        m.ID,
		ItemID:    m.ItemID.String(),
		Kind:      m.Kind,
		Qty:       m.Qty,
		ShelfID:   m.ShelfID.String(),
		Holder:    m.Holder,
		DueAt:     m.DueAt,
		ActorID:   m.ActorID.String(),
		Note:      m.Note,
		Timestamp: m.Timestamp,
	}
	if m.XferKey != nil {
		k := m.XferKey.String()
		resp.XferKey = &k
	}
	if m.Item != nil {
		resp.ItemSKU = m.Item.SKU
		resp.ItemName = m.Item.Name
	}
	if m.Shelf != nil {
		resp.ShelfLabel = m.Shelf.Label
	}
	return resp
}
