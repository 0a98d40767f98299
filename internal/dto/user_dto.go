package dto

type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=admin user"`
	Password string `json:"password" validate:"required,min=8"`
	// nil = unlimited clearance
	MaxClearanceLevel *int `json:"max_clearance_level" validate:"omitempty,min=1,max=4"`
}

type UpdateUserRequest struct {
	Name              string `json:"name"`
	Role              string `json:"role" validate:"omitempty,oneof=admin user"`
	Password          string `json:"password" validate:"omitempty,min=8"`
	MaxClearanceLevel *int   `json:"max_clearance_level" validate:"omitempty,min=1,max=4"`
	ClearUnlimited    bool   `json:"clear_unlimited"` // explicit nulling of max_clearance_level
}

type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

type UserResponse struct {
	ID                string `json:"id"`
	Email             string `json:"email"`
	Name              string `json:"name"`
	Role              string `json:"role"`
	MaxClearanceLevel *int   `json:"max_clearance_level"`
	Active            bool   `json:"active"`
	CreatedAt         string `json:"created_at,omitempty"`
}
