package repository

import (
	"context"

	"github.com/rushilbhatia3/FMS/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SystemRepository interface {
	Create(ctx context.Context, sys *model.System) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.System, error)
	FindByCode(ctx context.Context, code string) (*model.System, error)
	List(ctx context.Context, includeDeleted bool) ([]model.System, error)
	Update(ctx context.Context, sys *model.System) error
	// ArchiveCascade soft-deletes the system, its shelves and every item on
	// them in one transaction.
	ArchiveCascade(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) error
	DB() *gorm.DB
}

type systemRepo struct{ db *gorm.DB }

func NewSystemRepository(db *gorm.DB) SystemRepository { return &systemRepo{db: db} }

func (r *systemRepo) DB() *gorm.DB { return r.db }

func (r *systemRepo) Create(ctx context.Context, sys *model.System) error {
	return r.db.WithContext(ctx).Create(sys).Error
}

func (r *systemRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.System, error) {
	var sys model.System
	err := r.db.WithContext(ctx).First(&sys, "id = ?", id).Error
	return &sys, err
}

func (r *systemRepo) FindByCode(ctx context.Context, code string) (*model.System, error) {
	var sys model.System
	err := r.db.WithContext(ctx).First(&sys, "code = ?", code).Error
	return &sys, err
}

func (r *systemRepo) List(ctx context.Context, includeDeleted bool) ([]model.System, error) {
	q := r.db.WithContext(ctx).Order("code")
	if !includeDeleted {
		q = q.Where("is_deleted = ?", false)
	}
	var systems []model.System
	err := q.Find(&systems).Error
	return systems, err
}

func (r *systemRepo) Update(ctx context.Context, sys *model.System) error {
	return r.db.WithContext(ctx).Save(sys).Error
}

func (r *systemRepo) ArchiveCascade(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.System{}).
			Where("id = ?", id).
			Update("is_deleted", true).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Shelf{}).
			Where("system_id = ?", id).
			Update("is_deleted", true).Error; err != nil {
			return err
		}
		return tx.Model(&model.Item{}).
			Where("shelf_id IN (?)", tx.Model(&model.Shelf{}).Select("id").Where("system_id = ?", id)).
			Updates(map[string]interface{}{"is_deleted": true, "deleted_at": gorm.Expr("CURRENT_TIMESTAMP")}).Error
	})
}

func (r *systemRepo) Restore(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.System{}).
		Where("id = ?", id).
		Update("is_deleted", false).Error
}
