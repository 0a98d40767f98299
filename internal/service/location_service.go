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

// LocationService manages the System × Shelf hierarchy. Archiving cascades
// downward (system → shelves → items) in one transaction; restore never
// cascades back up.
type LocationService interface {
	CreateSystem(ctx context.Context, req dto.CreateSystemRequest) (*dto.SystemResponse, error)
	ListSystems(ctx context.Context, includeDeleted bool) ([]dto.SystemResponse, error)
	GetSystem(ctx context.Context, id uuid.UUID) (*dto.SystemResponse, error)
	UpdateSystem(ctx context.Context, id uuid.UUID, req dto.CreateSystemRequest) (*dto.SystemResponse, error)
	ArchiveSystem(ctx context.Context, id uuid.UUID) error
	RestoreSystem(ctx context.Context, id uuid.UUID) (*dto.SystemResponse, error)

	CreateShelf(ctx context.Context, req dto.CreateShelfRequest) (*dto.ShelfResponse, error)
	ListShelves(ctx context.Context, f dto.ShelfFilter) ([]dto.ShelfResponse, error)
	GetShelf(ctx context.Context, id uuid.UUID) (*dto.ShelfResponse, error)
	UpdateShelf(ctx context.Context, id uuid.UUID, req dto.CreateShelfRequest) (*dto.ShelfResponse, error)
	ArchiveShelf(ctx context.Context, id uuid.UUID) error
	RestoreShelf(ctx context.Context, id uuid.UUID) (*dto.ShelfResponse, error)
}

type locationService struct {
	systems repository.SystemRepository
	shelves repository.ShelfRepository
}

func NewLocationService(systems repository.SystemRepository, shelves repository.ShelfRepository) LocationService {
	return &locationService{systems: systems, shelves: shelves}
}

func (s *locationService) CreateSystem(ctx context.Context, req dto.CreateSystemRequest) (*dto.SystemResponse, error) {
	if _, err := s.systems.FindByCode(ctx, req.Code); err == nil {
		return nil, &ConstraintViolation{Msg: "system code already exists"}
	}
	sys := &model.System{Code: req.Code, Notes: req.Notes}
	if err := s.systems.Create(ctx, sys); err != nil {
		return nil, Storage("create system", err)
	}
	resp := systemToResponse(sys)
	return &resp, nil
}

func (s *locationService) ListSystems(ctx context.Context, includeDeleted bool) ([]dto.SystemResponse, error) {
	systems, err := s.systems.List(ctx, includeDeleted)
	if err != nil {
		return nil, Storage("list systems", err)
	}
	resp := make([]dto.SystemResponse, len(systems))
	for i := range systems {
		resp[i] = systemToResponse(&systems[i])
	}
	return resp, nil
}

func (s *locationService) GetSystem(ctx context.Context, id uuid.UUID) (*dto.SystemResponse, error) {
	sys, err := s.systems.FindByID(ctx, id)
	if err != nil {
		return nil, NotFound("system")
	}
	resp := systemToResponse(sys)
	return &resp, nil
}

func (s *locationService) UpdateSystem(ctx context.Context, id uuid.UUID, req dto.CreateSystemRequest) (*dto.SystemResponse, error) {
	sys, err := s.systems.FindByID(ctx, id)
	if err != nil {
		return nil, NotFound("system")
	}
	if req.Code != sys.Code {
		if _, err := s.systems.FindByCode(ctx, req.Code); err == nil {
			return nil, &ConstraintViolation{Msg: "system code already exists"}
		}
		sys.Code = req.Code
	}
	sys.Notes = req.Notes
	if err := s.systems.Update(ctx, sys); err != nil {
		return nil, Storage("update system", err)
	}
	resp := systemToResponse(sys)
	return &resp, nil
}

func (s *locationService) ArchiveSystem(ctx context.Context, id uuid.UUID) error {
	if _, err := s.systems.FindByID(ctx, id); err != nil {
		return NotFound("system")
	}
	return Storage("archive system", s.systems.ArchiveCascade(ctx, id))
}

func (s *locationService) RestoreSystem(ctx context.Context, id uuid.UUID) (*dto.SystemResponse, error) {
	sys, err := s.systems.FindByID(ctx, id)
	if err != nil {
		return nil, NotFound("system")
	}
	if err := s.systems.Restore(ctx, id); err != nil {
		return nil, Storage("restore system", err)
	}
	sys.IsDeleted = false
	resp := systemToResponse(sys)
	return &resp, nil
}

func (s *locationService) CreateShelf(ctx context.Context, req dto.CreateShelfRequest) (*dto.ShelfResponse, error) {
	systemID, err := uuid.Parse(req.SystemID)
	if err != nil {
		return nil, invalid("system_id", "must be a uuid")
	}
	sys, err := s.systems.FindByID(ctx, systemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("system")
		}
		return nil, Storage("load system", err)
	}
	if sys.IsDeleted {
		return nil, invalid("system_id", "system is archived")
	}
	if _, err := s.shelves.FindByLabel(ctx, sys.ID, req.Label); err == nil {
		return nil, &ConstraintViolation{Msg: "shelf label already exists in this system"}
	}

	ordinal := req.Ordinal
	if ordinal == 0 {
		ordinal = 1
	}
	shelf := &model.Shelf{
		SystemID: sys.ID,
		Label:    req.Label,
		LengthMM: req.LengthMM,
		WidthMM:  req.WidthMM,
		HeightMM: req.HeightMM,
		Ordinal:  ordinal,
	}
	if err := s.shelves.Create(ctx, shelf); err != nil {
		return nil, Storage("create shelf", err)
	}
	shelf.System = sys
	resp := shelfToResponse(shelf)
	return &resp, nil
}

func (s *locationService) ListShelves(ctx context.Context, f dto.ShelfFilter) ([]dto.ShelfResponse, error) {
	var systemID *uuid.UUID
	if f.SystemID != "" {
		id, err := uuid.Parse(f.SystemID)
		if err != nil {
			return nil, invalid("system_id", "must be a uuid")
		}
		systemID = &id
	}
	shelves, err := s.shelves.List(ctx, systemID, f.IncludeDeleted)
	if err != nil {
		return nil, Storage("list shelves", err)
	}
	resp := make([]dto.ShelfResponse, len(shelves))
	for i := range shelves {
		resp[i] = shelfToResponse(&shelves[i])
	}
	return resp, nil
}

func (s *locationService) GetShelf(ctx context.Context, id uuid.UUID) (*dto.ShelfResponse, error) {
	shelf, err := s.shelves.FindByID(ctx, id)
	if err != nil {
		return nil, NotFound("shelf")
	}
	resp := shelfToResponse(shelf)
	return &resp, nil
}

func (s *locationService) UpdateShelf(ctx context.Context, id uuid.UUID, req dto.CreateShelfRequest) (*dto.ShelfResponse, error) {
	shelf, err := s.shelves.FindByID(ctx, id)
	if err != nil {
		return nil, NotFound("shelf")
	}
	if req.Label != shelf.Label {
		if _, err := s.shelves.FindByLabel(ctx, shelf.SystemID, req.Label); err == nil {
			return nil, &ConstraintViolation{Msg: "shelf label already exists in this system"}
		}
		shelf.Label = req.Label
	}
	shelf.LengthMM = req.LengthMM
	shelf.WidthMM = req.WidthMM
	shelf.HeightMM = req.HeightMM
	if req.Ordinal > 0 {
		shelf.Ordinal = req.Ordinal
	}
	if err := s.shelves.Update(ctx, shelf); err != nil {
		return nil, Storage("update shelf", err)
	}
	resp := shelfToResponse(shelf)
	return &resp, nil
}

func (s *locationService) ArchiveShelf(ctx context.Context, id uuid.UUID) error {
	if _, err := s.shelves.FindByID(ctx, id); err != nil {
		return NotFound("shelf")
	}
	return Storage("archive shelf", s.shelves.ArchiveCascade(ctx, id))
}

func (s *locationService) RestoreShelf(ctx context.Context, id uuid.UUID) (*dto.ShelfResponse, error) {
	shelf, err := s.shelves.FindByID(ctx, id)
	if err != nil {
		return nil, NotFound("shelf")
	}
	if shelf.System != nil && shelf.System.IsDeleted {
		return nil, &ConstraintViolation{Msg: "restore the parent system first"}
	}
	if err := s.shelves.Restore(ctx, id); err != nil {
		return nil, Storage("restore shelf", err)
	}
	shelf.IsDeleted = false
	resp := shelfToResponse(shelf)
	return &resp, nil
}

func systemToResponse(s *model.System) dto.SystemResponse {
	return dto.SystemResponse{
		ID:        s.ID.String(),
		Code:      s.Code,
		Notes:     s.Notes,
		IsDeleted: s.IsDeleted,
		CreatedAt: s.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: s.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func shelfToResponse(s *model.Shelf) dto.ShelfResponse {
	resp := dto.ShelfResponse{
		ID:        s.ID.String(),
		SystemID:  s.SystemID.String(),
		Label:     s.Label,
		LengthMM:  s.LengthMM,
		WidthMM:   s.WidthMM,
		HeightMM:  s.HeightMM,
		Ordinal:   s.Ordinal,
		IsDeleted: s.IsDeleted,
		CreatedAt: s.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: s.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if s.System != nil {
		resp.SystemCode = s.System.Code
	}
	return resp
}
