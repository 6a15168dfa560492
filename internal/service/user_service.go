package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"bizdesk/internal/model"
	"bizdesk/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// --- DTOs ---

type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

type UpdateUserRequest struct {
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	Role   *string `json:"role"`
	Status *string `json:"status"`
}

// UserResponse is the outward user shape; it never carries the password.
type UserResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// --- Interface ---

type UserService interface {
	Create(ctx context.Context, req CreateUserRequest) (*UserResponse, error)
	List(ctx context.Context, page, limit int) ([]UserResponse, int64, error)
	GetByID(ctx context.Context, id int64) (*UserResponse, error)
	Update(ctx context.Context, id int64, req UpdateUserRequest) (*UserResponse, error)
	Delete(ctx context.Context, id int64) error
}

type userService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

// --- Implementation ---

func (s *userService) Create(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	name := strings.TrimSpace(req.Name)
	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if len(name) < 6 || len(name) > 25 {
		return nil, &ValidationError{Reason: "name must be between 6 and 25 characters"}
	}
	if len(username) < 6 || len(username) > 25 {
		return nil, &ValidationError{Reason: "username must be between 6 and 25 characters"}
	}
	if !emailRegex.MatchString(email) {
		return nil, &ValidationError{Reason: "invalid email address"}
	}
	if len(req.Password) < 6 {
		return nil, &ValidationError{Reason: "password must be at least 6 characters"}
	}
	if !model.ValidRole(req.Role) {
		return nil, &ValidationError{Reason: "role must be admin, sales, accounts, or purchase"}
	}

	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, errors.New("username already exists")
	}
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, errors.New("email already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	user := &model.StoreUser{
		Name:     name,
		Username: username,
		Email:    email,
		Password: string(hashed),
		Role:     req.Role,
		Status:   model.UserStatusActive,
	}
	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return toUserResponse(created), nil
}

func (s *userService) List(ctx context.Context, page, limit int) ([]UserResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	users, total, err := s.users.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch users: %w", err)
	}

	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *toUserResponse(&users[i]))
	}
	return responses, total, nil
}

func (s *userService) GetByID(ctx context.Context, id int64) (*UserResponse, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("user not found")
	}
	return toUserResponse(user), nil
}

func (s *userService) Update(ctx context.Context, id int64, req UpdateUserRequest) (*UserResponse, error) {
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return nil, errors.New("user not found")
	}

	patch := map[string]any{}
	if req.Name != nil {
		patch["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if !emailRegex.MatchString(email) {
			return nil, &ValidationError{Reason: "invalid email address"}
		}
		if existing, err := s.users.FindByEmail(ctx, email); err == nil && existing.ID != id {
			return nil, errors.New("email already exists")
		}
		patch["email"] = email
	}
	if req.Role != nil {
		if !model.ValidRole(*req.Role) {
			return nil, &ValidationError{Reason: "role must be admin, sales, accounts, or purchase"}
		}
		patch["role"] = *req.Role
	}
	if req.Status != nil {
		if *req.Status != model.UserStatusActive && *req.Status != model.UserStatusDisabled {
			return nil, &ValidationError{Reason: "status must be active or disabled"}
		}
		patch["status"] = *req.Status
	}
	if len(patch) == 0 {
		return nil, &ValidationError{Reason: "nothing to update"}
	}

	updated, err := s.users.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return toUserResponse(updated), nil
}

func (s *userService) Delete(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func toUserResponse(user *model.StoreUser) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		Status:    user.Status,
		CreatedAt: user.CreatedAt,
	}
}
