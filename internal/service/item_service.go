package service

import (
	"context"
	"errors"
	"time"

	"github.com/rushilbhatia3/FMS/internal/dto"
	"github.com/rushilbhatia3/FMS/internal/model"
	"github.com/rushilbhatia3/FMS/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ItemService interface {
	Create(ctx context.Context, actor Actor, req dto.CreateItemRequest) (*dto.ItemResponse, error)
	Get(ctx context.Context, actor Actor, id uuid.UUID) (*dto.ItemResponse, error)
	List(ctx context.Context, actor Actor, f dto.ItemFilter) (*dto.ItemListResponse, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, req dto.UpdateItemRequest) (*dto.ItemResponse, error)
	// Archive soft-deletes; blocked while the item is checked out or holds stock.
	Archive(ctx context.Context, actor Actor, id uuid.UUID) error
	Restore(ctx context.Context, actor Actor, id uuid.UUID) (*dto.ItemResponse, error)
	Stats(ctx context.Context, actor Actor) (*dto.ItemStatsResponse, error)
}

type itemService struct {
	items     repository.ItemRepository
	shelves   repository.ShelfRepository
	movements repository.MovementRepository
}

func NewItemService(
	items repository.ItemRepository,
	shelves repository.ShelfRepository,
	movements repository.MovementRepository,
) ItemService {
	return &itemService{items: items, shelves: shelves, movements: movements}
}

func (s *itemService) Create(ctx context.Context, actor Actor, req dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if _, err := s.items.FindBySKU(ctx, req.SKU); err == nil {
		return nil, &ConstraintViolation{Msg: "sku already exists"}
	}

	shelfID, err := uuid.Parse(req.ShelfID)
	if err != nil {
		return nil, invalid("shelf_id", "must be a uuid")
	}
	shelf, err := s.shelves.FindByID(ctx, shelfID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("shelf")
		}
		return nil, Storage("load shelf", err)
	}
	if shelf.IsDeleted {
		return nil, invalid("shelf_id", "shelf is archived")
	}

	unit := req.Unit
	if unit == "" {
		unit = "units"
	}
	clearance := req.ClearanceLevel
	if clearance == 0 {
		clearance = 1
	}
	item := &model.Item{
		SKU:            req.SKU,
		Name:           req.Name,
		Unit:           unit,
		ClearanceLevel: clearance,
		ShelfID:        shelf.ID,
		Tag:            req.Tag,
		Note:           req.Note,
		AddedBy:        actor.ID.String(),
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, Storage("create item", err)
	}
	item.Shelf = shelf
	resp := itemToResponse(item)
	return &resp, nil
}

func (s *itemService) Get(ctx context.Context, actor Actor, id uuid.UUID) (*dto.ItemResponse, error) {
	item, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	resp := itemToResponse(item)
	return &resp, nil
}

func (s *itemService) List(ctx context.Context, actor Actor, f dto.ItemFilter) (*dto.ItemListResponse, error) {
	if !actor.isAdmin() {
		f.MaxClearance = actor.MaxClearance
	}
	items, total, err := s.items.List(ctx, f)
	if err != nil {
		return nil, Storage("list items", err)
	}
	page := f.Page
	if page < 1 {
		page = 1
	}
	size := f.PageSize
	if size < 1 || size > 500 {
		size = 50
	}
	resp := &dto.ItemListResponse{
		Items:    make([]dto.ItemResponse, len(items)),
		Page:     page,
		PageSize: size,
		Total:    total,
	}
	for i := range items {
		resp.Items[i] = itemToResponse(&items[i])
	}
	return resp, nil
}

func (s *itemService) Update(ctx context.Context, actor Actor, id uuid.UUID, req dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Unit != nil {
		item.Unit = *req.Unit
	}
	if req.ClearanceLevel != nil {
		item.ClearanceLevel = *req.ClearanceLevel
	}
	if req.ShelfID != nil {
		shelfID, err := uuid.Parse(*req.ShelfID)
		if err != nil {
			return nil, invalid("shelf_id", "must be a uuid")
		}
		shelf, err := s.shelves.FindByID(ctx, shelfID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, NotFound("shelf")
			}
			return nil, Storage("load shelf", err)
		}
		if shelf.IsDeleted {
			return nil, invalid("shelf_id", "shelf is archived")
		}
		item.ShelfID = shelf.ID
		item.Shelf = shelf
	}
	if req.Tag != nil {
		item.Tag = req.Tag
	}
	if req.Note != nil {
		item.Note = req.Note
	}
	if err := s.items.Update(ctx, item); err != nil {
		return nil, Storage("update item", err)
	}
	resp := itemToResponse(item)
	return &resp, nil
}

func (s *itemService) Archive(ctx context.Context, actor Actor, id uuid.UUID) error {
	item, err := s.load(ctx, actor, id)
	if err != nil {
		return err
	}
	out, err := s.movements.IsCheckedOut(s.movements.DB().WithContext(ctx), item.ID)
	if err != nil {
		return Storage("checkout scan", err)
	}
	if out {
		return &ConstraintViolation{Msg: "item is currently checked out"}
	}
	if item.Quantity != 0 {
		return &ConstraintViolation{Msg: "item still holds stock; adjust to zero first"}
	}
	return Storage("archive item", s.items.Archive(ctx, item.ID))
}

func (s *itemService) Restore(ctx context.Context, actor Actor, id uuid.UUID) (*dto.ItemResponse, error) {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, NotFound("item")
	}
	if err := s.checkClearance(actor, item); err != nil {
		return nil, err
	}
	if err := s.items.Restore(ctx, item.ID); err != nil {
		return nil, Storage("restore item", err)
	}
	item.IsDeleted = false
	item.DeletedAt = nil
	resp := itemToResponse(item)
	return &resp, nil
}

func (s *itemService) Stats(ctx context.Context, actor Actor) (*dto.ItemStatsResponse, error) {
	var ceiling *int
	if !actor.isAdmin() {
		ceiling = actor.MaxClearance
	}
	stats, err := s.items.Stats(ctx, ceiling)
	if err != nil {
		return nil, Storage("item stats", err)
	}
	return &dto.ItemStatsResponse{
		ActiveCount:   stats.Active,
		ArchivedCount: stats.Deleted,
		TotalCount:    stats.Total,
	}, nil
}

func (s *itemService) load(ctx context.Context, actor Actor, id uuid.UUID) (*model.Item, error) {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("item")
		}
		return nil, Storage("load item", err)
	}
	if err := s.checkClearance(actor, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *itemService) checkClearance(actor Actor, item *model.Item) error {
	if actor.isAdmin() || actor.MaxClearance == nil {
		return nil
	}
	if item.ClearanceLevel > *actor.MaxClearance {
		return NotFound("item")
	}
	return nil
}

func itemToResponse(item *model.Item) dto.ItemResponse {
	resp := dto.ItemResponse{
		ID:             item.ID.String(),
		SKU:            item.SKU,
		Name:           item.Name,
		Unit:           item.Unit,
		ClearanceLevel: item.ClearanceLevel,
		Quantity:       item.Quantity,
		ShelfID:        item.ShelfID.String(),
		Tag:            item.Tag,
		Note:           item.Note,
		AddedBy:        item.AddedBy,
		IsDeleted:      item.IsDeleted,
		CreatedAt:      item.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:      item.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if item.Shelf != nil {
		resp.ShelfLabel = item.Shelf.Label
		if item.Shelf.System != nil {
			resp.SystemCode = item.Shelf.System.Code
		}
	}
	return resp
}
