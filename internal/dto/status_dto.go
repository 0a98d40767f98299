package dto

import "time"

// HolderPosition is one holder's outstanding quantity for an item (derived
// from issue/return rows only; holders whose net resolves to zero drop out).
type HolderPosition struct {
	ItemID   string `json:"item_id"`
	ItemSKU  string `json:"item_sku,omitempty"`
	ItemName string `json:"item_name,omitempty"`
	Holder   string `json:"holder"`
	QtyOut   int    `json:"qty_out"`
}

type ItemStatusResponse struct {
	ItemID         string           `json:"item_id"`
	SKU            string           `json:"sku"`
	Name           string           `json:"name"`
	Unit           string           `json:"unit"`
	ClearanceLevel int              `json:"clearance_level"`
	Quantity       int              `json:"quantity"`
	IsDeleted      bool             `json:"is_deleted"`
	ShelfLabel     string           `json:"shelf_label,omitempty"`
	SystemCode     string           `json:"system_code,omitempty"`
	IsOut          bool             `json:"is_out"`
	Holders        []HolderPosition `json:"holders"`
	LastIssueTS    *time.Time       `json:"last_issue_ts"`
	LastReturnTS   *time.Time       `json:"last_return_ts"`
	LastMovementTS *time.Time       `json:"last_movement_ts"`
}

// OverdueIssue is one unreturned issue past its due date, for the reminder
// job and the /status/overdue endpoint.
type OverdueIssue struct {
	MovementID int64     `json:"movement_id"`
	ItemID     string    `json:"item_id"`
	ItemSKU    string    `json:"item_sku"`
	ItemName   string    `json:"item_name"`
	Holder     string    `json:"holder"`
	QtyOut     int       `json:"qty_out"`
	DueAt      time.Time `json:"due_at"`
	ShelfLabel string    `json:"shelf_label,omitempty"`
	SystemCode string    `json:"system_code,omitempty"`
}

type StatsSummaryResponse struct {
	TotalItems      int64 `json:"total_items"`
	ActiveItems     int64 `json:"active_items"`
	DeletedItems    int64 `json:"deleted_items"`
	AvailableItems  int64 `json:"available_items"`
	CheckedOutItems int64 `json:"checked_out_items"`
}
