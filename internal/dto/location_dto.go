package dto

type CreateSystemRequest struct {
	Code  string  `json:"code" validate:"required"`
	Notes *string `json:"notes"`
}

type SystemResponse struct {
	ID        string  `json:"id"`
	Code      string  `json:"code"`
	Notes     *string `json:"notes"`
	IsDeleted bool    `json:"is_deleted"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

type CreateShelfRequest struct {
	SystemID string `json:"system_id" validate:"required,uuid"`
	Label    string `json:"label" validate:"required"`
	LengthMM int    `json:"length_mm" validate:"required,gt=0"`
	WidthMM  int    `json:"width_mm" validate:"required,gt=0"`
	HeightMM int    `json:"height_mm" validate:"required,gt=0"`
	Ordinal  int    `json:"ordinal" validate:"omitempty,gte=1"`
}

type ShelfResponse struct {
	ID         string `json:"id"`
	SystemID   string `json:"system_id"`
	SystemCode string `json:"system_code,omitempty"`
	Label      string `json:"label"`
	LengthMM   int    `json:"length_mm"`
	WidthMM    int    `json:"width_mm"`
	HeightMM   int    `json:"height_mm"`
	Ordinal    int    `json:"ordinal"`
	IsDeleted  bool   `json:"is_deleted"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

// ShelfFilter selects shelves for listing; zero values match everything.
type ShelfFilter struct {
	SystemID       string `form:"system_id"`
	IncludeDeleted bool   `form:"include_deleted"`
}
