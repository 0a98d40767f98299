package dto

import (
	"time"

	"github.com/google/uuid"
)

type ReceiveRequest struct {
	ItemID  string  `json:"item_id" validate:"required,uuid"`
	ShelfID string  `json:"shelf_id" validate:"required,uuid"`
	Qty     int     `json:"qty" validate:"required,gt=0"`
	Note    *string `json:"note"`
}

type IssueRequest struct {
	ItemID  string     `json:"item_id" validate:"required,uuid"`
	ShelfID string     `json:"shelf_id" validate:"required,uuid"`
	Qty     int        `json:"qty" validate:"required,gt=0"`
	Holder  string     `json:"holder" validate:"required"`
	DueAt   *time.Time `json:"due_at"`
	Note    *string    `json:"note"`
}

type ReturnRequest struct {
	ItemID  string  `json:"item_id" validate:"required,uuid"`
	ShelfID string  `json:"shelf_id" validate:"required,uuid"`
	Qty     int     `json:"qty" validate:"required,gt=0"`
	Holder  *string `json:"holder"`
	Note    *string `json:"note"`
}

type AdjustRequest struct {
	ItemID  string `json:"item_id" validate:"required,uuid"`
	ShelfID string `json:"shelf_id" validate:"required,uuid"`
	// QtyDelta is signed; zero is rejected by the validator
	QtyDelta int    `json:"qty_delta" validate:"required"`
	Note     string `json:"note" validate:"required"`
}

type TransferRequest struct {
	ItemID      string  `json:"item_id" validate:"required,uuid"`
	FromShelfID string  `json:"from_shelf_id" validate:"required,uuid"`
	ToShelfID   string  `json:"to_shelf_id" validate:"required,uuid"`
	Qty         int     `json:"qty" validate:"required,gt=0"`
	Note        *string `json:"note"`
}

type CorrectMovementRequest struct {
	// Qty is the replacement signed delta
	Qty int `json:"qty" validate:"required"`
}

// MovementFilter is the typed query for the ledger scan. Nil/zero fields
// match everything; results are ordered timestamp DESC, id DESC.
type MovementFilter struct {
	ItemID   *uuid.UUID
	Kind     string
	Holder   string
	ShelfID  *uuid.UUID
	From     *time.Time // inclusive
	To       *time.Time // exclusive
	Page     int
	PageSize int
	// MaxClearance caps rows by the owning item's clearance; nil = unlimited
	MaxClearance *int
}

type MovementResponse struct {
	ID         int64      `json:"id"`
	ItemID     string     `json:"item_id"`
	Kind       string     `json:"kind"`
	Qty        int        `json:"qty"`
	ShelfID    string     `json:"shelf_id"`
	Holder     *string    `json:"holder"`
	DueAt      *time.Time `json:"due_at"`
	ActorID    string     `json:"actor_id"`
	Note       *string    `json:"note"`
	XferKey    *string    `json:"xfer_key,omitempty"`
	Timestamp  time.Time  `json:"timestamp"`
	ItemSKU    string     `json:"item_sku,omitempty"`
	ItemName   string     `json:"item_name,omitempty"`
	ShelfLabel string     `json:"shelf_label,omitempty"`
}

type MovementListResponse struct {
	Items    []MovementResponse `json:"items"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
	Total    int64              `json:"total"`
}

type TransferResponse struct {
	FromMovementID int64  `json:"from_movement_id"`
	ToMovementID   int64  `json:"to_movement_id"`
	XferKey        string `json:"xfer_key"`
	Transferred    int    `json:"transferred"`
}
