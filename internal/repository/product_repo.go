package repository

import (
	"context"

	"bizdesk/internal/model"
	"bizdesk/internal/postgrest"
)

type ProductListFilter struct {
	Search string // partial match on name
	SKU    string
	Status string
	Page   int
	Limit  int
}

type ProductRepository interface {
	List(ctx context.Context, filter ProductListFilter) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id int64) (*model.Product, error)
	Create(ctx context.Context, product *model.Product) (*model.Product, error)
	Update(ctx context.Context, id int64, patch map[string]any) (*model.Product, error)
	Delete(ctx context.Context, id int64) error
}

type productRepository struct {
	store *postgrest.Client
}

func NewProductRepository(store *postgrest.Client) ProductRepository {
	return &productRepository{store: store}
}

func (r *productRepository) List(ctx context.Context, filter ProductListFilter) ([]model.Product, int64, error) {
	opts := postgrest.ListOptions{Order: "created_at.desc"}
	if filter.Search != "" {
		opts.Filters = append(opts.Filters, postgrest.ILike("name", filter.Search))
	}
	if filter.SKU != "" {
		opts.Filters = append(opts.Filters, postgrest.Eq("sku", filter.SKU))
	}
	if filter.Status != "" {
		opts.Filters = append(opts.Filters, postgrest.Eq("status", filter.Status))
	}
	if filter.Limit > 0 {
		opts.Offset = (filter.Page - 1) * filter.Limit
		opts.Limit = filter.Limit
	}

	var products []model.Product
	total, err := r.store.List(ctx, "products", opts, &products)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *productRepository) FindByID(ctx context.Context, id int64) (*model.Product, error) {
	var product model.Product
	if err := r.store.Get(ctx, "products", []postgrest.Filter{postgrest.Eq("id", id)}, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) (*model.Product, error) {
	var created model.Product
	if err := r.store.Create(ctx, "products", product, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *productRepository) Update(ctx context.Context, id int64, patch map[string]any) (*model.Product, error) {
	var updated model.Product
	if err := r.store.Update(ctx, "products", []postgrest.Filter{postgrest.Eq("id", id)}, patch, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *productRepository) Delete(ctx context.Context, id int64) error {
	return r.store.Delete(ctx, "products", []postgrest.Filter{postgrest.Eq("id", id)})
}
