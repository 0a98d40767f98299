package repository

import (
	"context"
	"strings"
	"time"

	"github.com/rushilbhatia3/FMS/internal/dto"
	"github.com/rushilbhatia3/FMS/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// itemSortColumns whitelists ORDER BY targets. Anything outside the map
// falls back to name.
var itemSortColumns = map[string]string{
	"name":       "items.name",
	"sku":        "items.sku",
	"quantity":   "items.quantity",
	"clearance":  "items.clearance_level",
	"created_at": "items.created_at",
	"updated_at": "items.updated_at",
	"shelf":      "shelves.label",
	"system":     "systems.code",
}

// outstandingExists matches items with at least one holder whose issue/return
// net is still negative.
const outstandingExists = "EXISTS (SELECT 1 FROM movements m WHERE m.item_id = items.id AND m.holder IS NOT NULL AND m.kind IN ('issue','return') GROUP BY m.holder HAVING SUM(m.qty) < 0)"

type ItemStats struct {
	Total      int64
	Active     int64
	Deleted    int64
	Available  int64
	CheckedOut int64
}

type ItemRepository interface {
	Create(ctx context.Context, item *model.Item) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error)
	FindBySKU(ctx context.Context, sku string) (*model.Item, error)
	List(ctx context.Context, f dto.ItemFilter) ([]model.Item, int64, error)
	// ListAll streams every item, archived included, for exports.
	ListAll(ctx context.Context) ([]model.Item, error)
	Update(ctx context.Context, item *model.Item) error
	Archive(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context, maxClearance *int) (*ItemStats, error)
	DB() *gorm.DB
}

type itemRepo struct{ db *gorm.DB }

func NewItemRepository(db *gorm.DB) ItemRepository { return &itemRepo{db: db} }

func (r *itemRepo) DB() *gorm.DB { return r.db }

func (r *itemRepo) Create(ctx context.Context, item *model.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *itemRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	var item model.Item
	err := r.db.WithContext(ctx).
		Preload("Shelf").Preload("Shelf.System").
		First(&item, "id = ?", id).Error
	return &item, err
}

func (r *itemRepo) FindBySKU(ctx context.Context, sku string) (*model.Item, error) {
	var item model.Item
	err := r.db.WithContext(ctx).First(&item, "sku = ?", sku).Error
	return &item, err
}

func (r *itemRepo) List(ctx context.Context, f dto.ItemFilter) ([]model.Item, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Item{}).
		Joins("LEFT JOIN shelves ON shelves.id = items.shelf_id").
		Joins("LEFT JOIN systems ON systems.id = shelves.system_id")

	if !f.IncludeDeleted {
		q = q.Where("items.is_deleted = ?", false)
	}
	if f.MaxClearance != nil {
		q = q.Where("items.clearance_level <= ?", *f.MaxClearance)
	}
	if s := strings.TrimSpace(f.Q); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where(
			"LOWER(items.name) LIKE ? OR LOWER(items.sku) LIKE ? OR LOWER(items.tag) LIKE ? OR LOWER(items.note) LIKE ?",
			like, like, like, like)
	}
	switch f.Status {
	case "out":
		q = q.Where(outstandingExists)
	case "available":
		q = q.Where("NOT " + outstandingExists)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	col, ok := itemSortColumns[f.Sort]
	if !ok {
		col = "items.name"
	}
	dir := "ASC"
	if strings.EqualFold(f.Dir, "desc") {
		dir = "DESC"
	}

	page := f.Page
	size := f.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 500 {
		size = 50
	}

	var items []model.Item
	err := q.Preload("Shelf").Preload("Shelf.System").
		Order(col + " " + dir).
		Offset((page - 1) * size).Limit(size).
		Find(&items).Error
	return items, total, err
}

func (r *itemRepo) ListAll(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	err := r.db.WithContext(ctx).
		Preload("Shelf").Preload("Shelf.System").
		Order("sku").
		Find(&items).Error
	return items, err
}

func (r *itemRepo) Update(ctx context.Context, item *model.Item) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *itemRepo) Archive(ctx context.Context, id uuid.UUID) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).Model(&model.Item{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_deleted": true, "deleted_at": now}).Error
}

func (r *itemRepo) Restore(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Item{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_deleted": false, "deleted_at": nil}).Error
}

func (r *itemRepo) Stats(ctx context.Context, maxClearance *int) (*ItemStats, error) {
	base := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&model.Item{})
		if maxClearance != nil {
			q = q.Where("clearance_level <= ?", *maxClearance)
		}
		return q
	}

	var s ItemStats
	if err := base().Count(&s.Total).Error; err != nil {
		return nil, err
	}
	if err := base().Where("is_deleted = ?", false).Count(&s.Active).Error; err != nil {
		return nil, err
	}
	s.Deleted = s.Total - s.Active
	if err := base().Where("is_deleted = ?", false).Where(outstandingExists).Count(&s.CheckedOut).Error; err != nil {
		return nil, err
	}
	s.Available = s.Active - s.CheckedOut
	return &s, nil
}
