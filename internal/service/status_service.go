package service

import (
	"context"
	"errors"

	"github.com/rushilbhatia3/FMS/internal/dto"
	"github.com/rushilbhatia3/FMS/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StatusService is the read model over the ledger. Everything here is
// recomputed from movement rows on each call; nothing is cached beyond the
// item quantity the ledger store already maintains.
type StatusService interface {
	ItemStatus(ctx context.Context, actor Actor, itemID uuid.UUID) (*dto.ItemStatusResponse, error)
	CurrentOutByHolder(ctx context.Context, actor Actor, holder string) ([]dto.HolderPosition, error)
	Overdue(ctx context.Context, actor Actor, holder string) ([]dto.OverdueIssue, error)
	StatsSummary(ctx context.Context, actor Actor) (*dto.StatsSummaryResponse, error)
}

type statusService struct {
	movements repository.MovementRepository
	items     repository.ItemRepository
}

func NewStatusService(movements repository.MovementRepository, items repository.ItemRepository) StatusService {
	return &statusService{movements: movements, items: items}
}

func (s *statusService) ItemStatus(ctx context.Context, actor Actor, itemID uuid.UUID) (*dto.ItemStatusResponse, error) {
	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("item")
		}
		return nil, Storage("load item", err)
	}
	if cl := clearanceCap(actor); cl != nil && item.ClearanceLevel > *cl {
		return nil, NotFound("item")
	}

	nets, err := s.movements.OutstandingByHolder(ctx, &itemID, "", nil)
	if err != nil {
		return nil, Storage("holder positions", err)
	}
	ts, err := s.movements.Timestamps(ctx, itemID)
	if err != nil {
		return nil, Storage("movement timestamps", err)
	}

	resp := &dto.ItemStatusResponse{
		ItemID:         item.ID.String(),
		SKU:            item.SKU,
		Name:           item.Name,
		Unit:           item.Unit,
		ClearanceLevel: item.ClearanceLevel,
		Quantity:       item.Quantity,
		IsDeleted:      item.IsDeleted,
		IsOut:          len(nets) > 0,
		Holders:        holderPositions(nets),
		LastIssueTS:    ts.LastIssueTS,
		LastReturnTS:   ts.LastReturnTS,
		LastMovementTS: ts.LastMovementTS,
	}
	if item.Shelf != nil {
		resp.ShelfLabel = item.Shelf.Label
		if item.Shelf.System != nil {
			resp.SystemCode = item.Shelf.System.Code
		}
	}
	return resp, nil
}

func (s *statusService) CurrentOutByHolder(ctx context.Context, actor Actor, holder string) ([]dto.HolderPosition, error) {
	nets, err := s.movements.OutstandingByHolder(ctx, nil, holder, clearanceCap(actor))
	if err != nil {
		return nil, Storage("holder positions", err)
	}
	return holderPositions(nets), nil
}

func (s *statusService) Overdue(ctx context.Context, actor Actor, holder string) ([]dto.OverdueIssue, error) {
	rows, err := s.movements.OverdueIssues(ctx, false, holder, clearanceCap(actor))
	if err != nil {
		return nil, Storage("overdue scan", err)
	}
	resp := make([]dto.OverdueIssue, len(rows))
	for i, r := range rows {
		resp[i] = dto.OverdueIssue{
			MovementID: r.MovementID,
			ItemID:     r.ItemID.String(),
			ItemSKU:    r.ItemSKU,
			ItemName:   r.ItemName,
			Holder:     r.Holder,
			QtyOut:     -r.Qty,
			DueAt:      r.DueAt,
			ShelfLabel: r.ShelfLabel,
			SystemCode: r.SystemCode,
		}
	}
	return resp, nil
}

func (s *statusService) StatsSummary(ctx context.Context, actor Actor) (*dto.StatsSummaryResponse, error) {
	stats, err := s.items.Stats(ctx, clearanceCap(actor))
	if err != nil {
		return nil, Storage("stats summary", err)
	}
	return &dto.StatsSummaryResponse{
		TotalItems:      stats.Total,
		ActiveItems:     stats.Active,
		DeletedItems:    stats.Deleted,
		AvailableItems:  stats.Available,
		CheckedOutItems: stats.CheckedOut,
	}, nil
}

func clearanceCap(actor Actor) *int {
	if actor.isAdmin() {
		return nil
	}
	return actor.MaxClearance
}

// holderPositions flips negative nets into positive outstanding quantities.
// Holders whose net resolved to zero never show up here.
func holderPositions(nets []repository.HolderNet) []dto.HolderPosition {
	out := make([]dto.HolderPosition, 0, len(nets))
	for _, n := range nets {
		out = append(out, dto.HolderPosition{
			ItemID:   n.ItemID.String(),
			ItemSKU:  n.ItemSKU,
			ItemName: n.ItemName,
			Holder:   n.Holder,
			QtyOut:   -n.Net,
		})
	}
	return out
}
