package dto

type CreateItemRequest struct {
	SKU            string  `json:"sku" validate:"required"`
	Name           string  `json:"name" validate:"required"`
	Unit           string  `json:"unit"`
	ClearanceLevel int     `json:"clearance_level" validate:"omitempty,min=1,max=4"`
	ShelfID        string  `json:"shelf_id" validate:"required,uuid"`
	Tag            *string `json:"tag"`
	Note           *string `json:"note"`
}

type UpdateItemRequest struct {
	Name           *string `json:"name"`
	Unit           *string `json:"unit"`
	ClearanceLevel *int    `json:"clearance_level" validate:"omitempty,min=1,max=4"`
	ShelfID        *string `json:"shelf_id" validate:"omitempty,uuid"`
	Tag            *string `json:"tag"`
	Note           *string `json:"note"`
}

// ItemFilter drives the list endpoint. Absent fields match everything; Sort
// is checked against a whitelist in the repository.
type ItemFilter struct {
	Q              string `form:"q"`
	IncludeDeleted bool   `form:"include_deleted"`
	Status         string `form:"status" binding:"omitempty,oneof=out available"`
	Sort           string `form:"sort"`
	Dir            string `form:"dir" binding:"omitempty,oneof=asc desc"`
	Page           int    `form:"page"`
	PageSize       int    `form:"page_size"`
	// MaxClearance caps visible items for non-admin callers; nil = unlimited.
	// Set by the handler from the JWT claims, never from the query string.
	MaxClearance *int `form:"-"`
}

type ItemResponse struct {
	ID             string  `json:"id"`
	SKU            string  `json:"sku"`
	Name           string  `json:"name"`
	Unit           string  `json:"unit"`
	ClearanceLevel int     `json:"clearance_level"`
	Quantity       int     `json:"quantity"`
	ShelfID        string  `json:"shelf_id"`
	ShelfLabel     string  `json:"shelf_label,omitempty"`
	SystemCode     string  `json:"system_code,omitempty"`
	Tag            *string `json:"tag"`
	Note           *string `json:"note"`
	AddedBy        string  `json:"added_by"`
	IsDeleted      bool    `json:"is_deleted"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

type ItemListResponse struct {
	Items    []ItemResponse `json:"items"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
	Total    int64          `json:"total"`
}

type ItemStatsResponse struct {
	ActiveCount   int64 `json:"active_count"`
	ArchivedCount int64 `json:"archived_count"`
	TotalCount    int64 `json:"total_count"`
}
