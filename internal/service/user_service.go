package service

import (
	"context"

	"github.com/rushilbhatia3/FMS/internal/dto"
	"github.com/rushilbhatia3/FMS/internal/model"
	"github.com/rushilbhatia3/FMS/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

type UserService interface {
	Create(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error)
	List(ctx context.Context) ([]dto.UserResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateUserRequest) (*dto.UserResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error
	ResetPassword(ctx context.Context, id uuid.UUID, password string) error
}

type userService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) Create(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return nil, &ConstraintViolation{Msg: "email already registered"}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Email:             req.Email,
		Name:              req.Name,
		PasswordHash:      string(hash),
		Role:              req.Role,
		MaxClearanceLevel: req.MaxClearanceLevel,
		Active:            true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, Storage("create user", err)
	}
	resp := userToResponse(user)
	return &resp, nil
}

func (s *userService) List(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, Storage("list users", err)
	}
	resp := make([]dto.UserResponse, len(users))
	for i := range users {
		resp[i] = userToResponse(&users[i])
	}
	return resp, nil
}

func (s *userService) Get(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, NotFound("user")
	}
	resp := userToResponse(user)
	return &resp, nil
}

func (s *userService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, NotFound("user")
	}
	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Role != "" {
		user.Role = req.Role
	}
	if req.ClearUnlimited {
		user.MaxClearanceLevel = nil
	} else if req.MaxClearanceLevel != nil {
		user.MaxClearanceLevel = req.MaxClearanceLevel
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, Storage("update user", err)
	}
	resp := userToResponse(user)
	return &resp, nil
}

func (s *userService) Deactivate(ctx context.Context, id uuid.UUID) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return NotFound("user")
	}
	if user.IsAdmin() {
		n, err := s.repo.CountAdmins(ctx)
		if err != nil {
			return Storage("count admins", err)
		}
		if n <= 1 {
			return &ConstraintViolation{Msg: "cannot deactivate the last active admin"}
		}
	}
	user.Active = false
	return Storage("deactivate user", s.repo.Update(ctx, user))
}

func (s *userService) Reactivate(ctx context.Context, id uuid.UUID) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return NotFound("user")
	}
	user.Active = true
	return Storage("reactivate user", s.repo.Update(ctx, user))
}

func (s *userService) ResetPassword(ctx context.Context, id uuid.UUID, password string) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return NotFound("user")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	return Storage("reset password", s.repo.Update(ctx, user))
}
