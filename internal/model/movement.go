package model

import (
	"time"

	"github.com/google/uuid"
)

// Movement kinds. Sign convention:
//
//	receive  = +qty
//	issue    = -qty (checkout; requires holder, optional due date)
//	return   = +qty (check-in; holder optional, records who brought it back)
//	adjust   = ±qty (admin-only, note required)
//	transfer = two rows sharing one XferKey: -qty at source, +qty at destination
const (
	KindReceive  = "receive"
	KindIssue    = "issue"
	KindReturn   = "return"
	KindAdjust   = "adjust"
	KindTransfer = "transfer"
)

// Movement is one immutable ledger row. The auto-increment id doubles as the
// insertion-order tie-breaker for newest-first listings.
type Movement struct {
	ID     int64     `gorm:"primaryKey;autoIncrement"`
	ItemID uuid.UUID `gorm:"type:uuid;not null;index:idx_mov_item_ts,priority:1"`
	Kind   string    `gorm:"type:varchar(10);not null;index"`
	// Qty is the signed delta applied to the item's cached quantity
	Qty     int       `gorm:"not null"`
	ShelfID uuid.UUID `gorm:"type:uuid;not null;index"`
	Holder  *string   `gorm:"index"`
	DueAt   *time.Time
	ActorID uuid.UUID `gorm:"type:uuid;not null"`
	Note    *string
	// XferKey links the debit and credit rows of one logical transfer
	XferKey *uuid.UUID `gorm:"type:uuid;index"`
	// NotifiedAt is set once the overdue reminder for this issue has been sent
	NotifiedAt *time.Time
	Timestamp  time.Time `gorm:"autoCreateTime;index:idx_mov_item_ts,priority:2"`

	Item  *Item  `gorm:"foreignKey:ItemID"`
	Shelf *Shelf `gorm:"foreignKey:ShelfID"`
}
