package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rushilbhatia3/FMS/internal/dto"
	"github.com/rushilbhatia3/FMS/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrInsufficientStock is returned when applying a movement delta would drive
// an item's cached quantity negative. It is raised inside the transaction, at
// commit time, so a concurrent writer that drained the stock first cannot be
// raced past.
var ErrInsufficientStock = errors.New("insufficient stock")

// HolderNet is one (item, holder) aggregate over issue/return rows.
// Net < 0 means the holder still has -Net units out.
type HolderNet struct {
	ItemID   uuid.UUID
	ItemSKU  string
	ItemName string
	Holder   string
	Net      int
}

// ItemTimestamps carries the per-item movement timestamps for the status view.
type ItemTimestamps struct {
	LastMovementTS *time.Time
	LastIssueTS    *time.Time
	LastReturnTS   *time.Time
}

// OverdueRow is one unreturned issue past its due date.
type OverdueRow struct {
	MovementID int64
	ItemID     uuid.UUID
	ItemSKU    string
	ItemName   string
	Holder     string
	Qty        int // signed (negative)
	DueAt      time.Time
	ShelfLabel string
	SystemCode string
}

// MovementRepository is the ledger store: durable append-mostly movement rows
// plus the cached item quantity, mutated only together.
type MovementRepository interface {
	// Append writes every row and folds each signed qty into the owning
	// item's cached quantity inside one transaction. Multi-row batches are
	// the transfer primitive: either all rows land or none do.
	Append(ctx context.Context, movs ...*model.Movement) error
	// AppendTx is Append inside a caller-owned transaction.
	AppendTx(tx *gorm.DB, movs ...*model.Movement) error

	// Correct / Remove are administrative paths: they reverse the old delta's
	// effect on the cached quantity and apply the new one (or zero) atomically.
	Correct(ctx context.Context, id int64, newQty int) error
	Remove(ctx context.Context, id int64) error

	FindByID(ctx context.Context, id int64) (*model.Movement, error)
	List(ctx context.Context, f dto.MovementFilter) ([]model.Movement, int64, error)
	// ListAll streams the full ledger oldest-first, for exports.
	ListAll(ctx context.Context) ([]model.Movement, error)

	// Read-side aggregates for the status projector.
	OutstandingByHolder(ctx context.Context, itemID *uuid.UUID, holder string, maxClearance *int) ([]HolderNet, error)
	Timestamps(ctx context.Context, itemID uuid.UUID) (*ItemTimestamps, error)
	IsCheckedOut(tx *gorm.DB, itemID uuid.UUID) (bool, error)

	// Overdue scan for the reminder worker and /status/overdue.
	OverdueIssues(ctx context.Context, onlyUnnotified bool, holder string, maxClearance *int) ([]OverdueRow, error)
	MarkNotified(ctx context.Context, movementIDs []int64) error

	// DB exposes the handle so services can open wider transactions.
	DB() *gorm.DB
}

type movementRepo struct{ db *gorm.DB }

func NewMovementRepository(db *gorm.DB) MovementRepository { return &movementRepo{db: db} }

func (r *movementRepo) DB() *gorm.DB { return r.db }

func (r *movementRepo) Append(ctx context.Context, movs ...*model.Movement) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.AppendTx(tx, movs...)
	})
}

func (r *movementRepo) AppendTx(tx *gorm.DB, movs ...*model.Movement) error {
	for _, m := range movs {
		if err := tx.Create(m).Error; err != nil {
			return err
		}
		if err := applyDelta(tx, m.ItemID, m.Qty); err != nil {
			return err
		}
	}
	return nil
}

// applyDelta folds a signed delta into the item's cached quantity. The WHERE
// guard re-checks non-negativity against the authoritative value: under
// concurrent writers the row lock serialises the updates, and the loser of
// the race gets zero affected rows, failing the whole transaction.
func applyDelta(tx *gorm.DB, itemID uuid.UUID, delta int) error {
	res := tx.Model(&model.Item{}).
		Where("id = ? AND quantity + ? >= 0", itemID, delta).
		Update("quantity", gorm.Expr("quantity + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

func (r *movementRepo) Correct(ctx context.Context, id int64, newQty int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m model.Movement
		if err := tx.First(&m, id).Error; err != nil {
			return err
		}
		if diff := newQty - m.Qty; diff != 0 {
			if err := applyDelta(tx, m.ItemID, diff); err != nil {
				return err
			}
		}
		return tx.Model(&model.Movement{}).Where("id = ?", id).Update("qty", newQty).Error
	})
}

func (r *movementRepo) Remove(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m model.Movement
		if err := tx.First(&m, id).Error; err != nil {
			return err
		}
		if err := applyDelta(tx, m.ItemID, -m.Qty); err != nil {
			return err
		}
		return tx.Delete(&model.Movement{}, id).Error
	})
}

func (r *movementRepo) FindByID(ctx context.Context, id int64) (*model.Movement, error) {
	var m model.Movement
	err := r.db.WithContext(ctx).First(&m, id).Error
	return &m, err
}

func (r *movementRepo) List(ctx context.Context, f dto.MovementFilter) ([]model.Movement, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Movement{}).
		Joins("JOIN items ON items.id = movements.item_id")

	if f.ItemID != nil {
		q = q.Where("movements.item_id = ?", *f.ItemID)
	}
	if f.Kind != "" {
		q = q.Where("movements.kind = ?", f.Kind)
	}
	if f.Holder != "" {
		q = q.Where("movements.holder = ?", f.Holder)
	}
	if f.ShelfID != nil {
		q = q.Where("movements.shelf_id = ?", *f.ShelfID)
	}
	if f.From != nil {
		q = q.Where("movements.timestamp >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("movements.timestamp < ?", *f.To)
	}
	if f.MaxClearance != nil {
		q = q.Where("items.clearance_level <= ?", *f.MaxClearance)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := f.Page
	size := f.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 1000 {
		size = 100
	}

	var movs []model.Movement
	err := q.Preload("Item").Preload("Shelf").
		Order("movements.timestamp DESC, movements.id DESC").
		Offset((page - 1) * size).Limit(size).
		Find(&movs).Error
	return movs, total, err
}

func (r *movementRepo) ListAll(ctx context.Context) ([]model.Movement, error) {
	var movs []model.Movement
	err := r.db.WithContext(ctx).
		Preload("Item").Preload("Shelf").
		Order("id").
		Find(&movs).Error
	return movs, err
}

const holderKinds = "('issue','return')"

func (r *movementRepo) OutstandingByHolder(ctx context.Context, itemID *uuid.UUID, holder string, maxClearance *int) ([]HolderNet, error) {
	q := r.db.WithContext(ctx).Table("movements").
		Select("movements.item_id AS item_id, items.sku AS item_sku, items.name AS item_name, movements.holder AS holder, SUM(movements.qty) AS net").
		Joins("JOIN items ON items.id = movements.item_id").
		Where("movements.kind IN "+holderKinds).
		Where("movements.holder IS NOT NULL").
		Group("movements.item_id, items.sku, items.name, movements.holder").
		Having("SUM(movements.qty) < 0")

	if itemID != nil {
		q = q.Where("movements.item_id = ?", *itemID)
	}
	if holder != "" {
		q = q.Where("movements.holder = ?", holder)
	}
	if maxClearance != nil {
		q = q.Where("items.clearance_level <= ?", *maxClearance)
	}

	var rows []HolderNet
	err := q.Order("item_name, holder").Scan(&rows).Error
	return rows, err
}

// Aggregate expressions lose the column type, so drivers hand the values
// back as text. Scan into strings and parse so the query behaves the same
// on sqlite and postgres.
type rawTimestamps struct {
	LastMovementTS sql.NullString
	LastIssueTS    sql.NullString
	LastReturnTS   sql.NullString
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
}

func parseAggregateTS(v sql.NullString) *time.Time {
	if !v.Valid || v.String == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, v.String); err == nil {
			return &t
		}
	}
	return nil
}

func (r *movementRepo) Timestamps(ctx context.Context, itemID uuid.UUID) (*ItemTimestamps, error) {
	var raw rawTimestamps
	err := r.db.WithContext(ctx).Table("movements").
		Select(
			"MAX(timestamp) AS last_movement_ts, " +
				"MAX(CASE WHEN kind = 'issue' THEN timestamp END) AS last_issue_ts, " +
				"MAX(CASE WHEN kind = 'return' THEN timestamp END) AS last_return_ts").
		Where("item_id = ?", itemID).
		Scan(&raw).Error
	if err != nil {
		return nil, err
	}
	return &ItemTimestamps{
		LastMovementTS: parseAggregateTS(raw.LastMovementTS),
		LastIssueTS:    parseAggregateTS(raw.LastIssueTS),
		LastReturnTS:   parseAggregateTS(raw.LastReturnTS),
	}, nil
}

// IsCheckedOut reports whether any holder still has outstanding quantity for
// the item. Runs on the given handle so archive guards can share a transaction.
func (r *movementRepo) IsCheckedOut(tx *gorm.DB, itemID uuid.UUID) (bool, error) {
	var n int64
	err := tx.Table("movements").
		Where("item_id = ? AND kind IN "+holderKinds+" AND holder IS NOT NULL", itemID).
		Group("holder").
		Having("SUM(qty) < 0").
		Count(&n).Error
	return n > 0, err
}

func (r *movementRepo) OverdueIssues(ctx context.Context, onlyUnnotified bool, holder string, maxClearance *int) ([]OverdueRow, error) {
	// An issue row is overdue when its due date has passed and the holder's
	// net over issue/return rows for that item is still negative.
	q := r.db.WithContext(ctx).Table("movements").
		Select("movements.id AS movement_id, movements.item_id AS item_id, items.sku AS item_sku, items.name AS item_name, "+
			"movements.holder AS holder, movements.qty AS qty, movements.due_at AS due_at, "+
			"shelves.label AS shelf_label, systems.code AS system_code").
		Joins("JOIN items ON items.id = movements.item_id").
		Joins("LEFT JOIN shelves ON shelves.id = movements.shelf_id").
		Joins("LEFT JOIN systems ON systems.id = shelves.system_id").
		Where("movements.kind = ?", model.KindIssue).
		Where("movements.due_at IS NOT NULL AND movements.due_at < ?", time.Now().UTC()).
		Where("(SELECT COALESCE(SUM(r.qty), 0) FROM movements r WHERE r.item_id = movements.item_id AND r.holder = movements.holder AND r.kind IN " + holderKinds + ") < 0")

	if onlyUnnotified {
		q = q.Where("movements.notified_at IS NULL")
	}
	if holder != "" {
		q = q.Where("movements.holder = ?", holder)
	}
	if maxClearance != nil {
		q = q.Where("items.clearance_level <= ?", *maxClearance)
	}

	var rows []OverdueRow
	err := q.Order("movements.due_at ASC").Scan(&rows).Error
	return rows, err
}

func (r *movementRepo) MarkNotified(ctx context.Context, movementIDs []int64) error {
	if len(movementIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.Movement{}).
		Where("id IN ?", movementIDs).
		Update("notified_at", time.Now().UTC()).Error
}
