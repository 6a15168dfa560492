package repository

import (
	"context"

	"bizdesk/internal/model"
	"bizdesk/internal/postgrest"
)

type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*model.StoreUser, error)
	FindByUsername(ctx context.Context, username string) (*model.StoreUser, error)
	FindByEmail(ctx context.Context, email string) (*model.StoreUser, error)
	List(ctx context.Context, page, limit int) ([]model.StoreUser, int64, error)
	Create(ctx context.Context, user *model.StoreUser) (*model.StoreUser, error)
	Update(ctx context.Context, id int64, patch map[string]any) (*model.StoreUser, error)
	Delete(ctx context.Context, id int64) error
}

type userRepository struct {
	store *postgrest.Client
}

func NewUserRepository(store *postgrest.Client) UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) FindByID(ctx context.Context, id int64) (*model.StoreUser, error) {
	var user model.StoreUser
	if err := r.store.Get(ctx, "users", []postgrest.Filter{postgrest.Eq("id", id)}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.StoreUser, error) {
	var user model.StoreUser
	if err := r.store.Get(ctx, "users", []postgrest.Filter{postgrest.Eq("username", username)}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.StoreUser, error) {
	var user model.StoreUser
	if err := r.store.Get(ctx, "users", []postgrest.Filter{postgrest.Eq("email", email)}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, page, limit int) ([]model.StoreUser, int64, error) {
	opts := postgrest.ListOptions{Order: "created_at.desc"}
	if limit > 0 {
		opts.Offset = (page - 1) * limit
		opts.Limit = limit
	}
	var users []model.StoreUser
	total, err := r.store.List(ctx, "users", opts, &users)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *userRepository) Create(ctx context.Context, user *model.StoreUser) (*model.StoreUser, error) {
	var created model.StoreUser
	if err := r.store.Create(ctx, "users", user, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *userRepository) Update(ctx context.Context, id int64, patch map[string]any) (*model.StoreUser, error) {
	var updated model.StoreUser
	if err := r.store.Update(ctx, "users", []postgrest.Filter{postgrest.Eq("id", id)}, patch, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	return r.store.Delete(ctx, "users", []postgrest.Filter{postgrest.Eq("id", id)})
}
