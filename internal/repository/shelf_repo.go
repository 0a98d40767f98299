package repository

import (
	"context"
	"time"

	"github.com/rushilbhatia3/FMS/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ShelfRepository interface {
	Create(ctx context.Context, shelf *model.Shelf) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Shelf, error)
	FindByLabel(ctx context.Context, systemID uuid.UUID, label string) (*model.Shelf, error)
	List(ctx context.Context, systemID *uuid.UUID, includeDeleted bool) ([]model.Shelf, error)
	Update(ctx context.Context, shelf *model.Shelf) error
	// ArchiveCascade soft-deletes the shelf and every item on it.
	ArchiveCascade(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) error
	// ItemCount counts live items on the shelf, used by the archive guard.
	ItemCount(ctx context.Context, id uuid.UUID) (int64, error)
	DB() *gorm.DB
}

type shelfRepo struct{ db *gorm.DB }

func NewShelfRepository(db *gorm.DB) ShelfRepository { return &shelfRepo{db: db} }

func (r *shelfRepo) DB() *gorm.DB { return r.db }

func (r *shelfRepo) Create(ctx context.Context, shelf *model.Shelf) error {
	return r.db.WithContext(ctx).Create(shelf).Error
}

func (r *shelfRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Shelf, error) {
	var shelf model.Shelf
	err := r.db.WithContext(ctx).Preload("System").First(&shelf, "id = ?", id).Error
	return &shelf, err
}

func (r *shelfRepo) FindByLabel(ctx context.Context, systemID uuid.UUID, label string) (*model.Shelf, error) {
	var shelf model.Shelf
	err := r.db.WithContext(ctx).
		First(&shelf, "system_id = ? AND label = ?", systemID, label).Error
	return &shelf, err
}

func (r *shelfRepo) List(ctx context.Context, systemID *uuid.UUID, includeDeleted bool) ([]model.Shelf, error) {
	q := r.db.WithContext(ctx).Preload("System").Order("ordinal, label")
	if systemID != nil {
		q = q.Where("system_id = ?", *systemID)
	}
	if !includeDeleted {
		q = q.Where("is_deleted = ?", false)
	}
	var shelves []model.Shelf
	err := q.Find(&shelves).Error
	return shelves, err
}

func (r *shelfRepo) Update(ctx context.Context, shelf *model.Shelf) error {
	return r.db.WithContext(ctx).Save(shelf).Error
}

func (r *shelfRepo) ArchiveCascade(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Shelf{}).
			Where("id = ?", id).
			Update("is_deleted", true).Error; err != nil {
			return err
		}
		now := time.Now().UTC()
		return tx.Model(&model.Item{}).
			Where("shelf_id = ?", id).
			Updates(map[string]interface{}{"is_deleted": true, "deleted_at": now}).Error
	})
}

func (r *shelfRepo) Restore(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Shelf{}).
		Where("id = ?", id).
		Update("is_deleted", false).Error
}

func (r *shelfRepo) ItemCount(ctx context.Context, id uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Item{}).
		Where("shelf_id = ? AND is_deleted = ?", id, false).
		Count(&n).Error
	return n, err
}
