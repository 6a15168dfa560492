package repository

import (
	"context"

	"bizdesk/internal/model"
	"bizdesk/internal/postgrest"
)

type VendorListFilter struct {
	Search string // partial match on name
	Status string
	Page   int
	Limit  int
}

type VendorRepository interface {
	List(ctx context.Context, filter VendorListFilter) ([]model.Vendor, int64, error)
	FindByID(ctx context.Context, id int64) (*model.Vendor, error)
	Create(ctx context.Context, vendor *model.Vendor) (*model.Vendor, error)
	Update(ctx context.Context, id int64, patch map[string]any) (*model.Vendor, error)
	Delete(ctx context.Context, id int64) error
}

type vendorRepository struct {
	store *postgrest.Client
}

func NewVendorRepository(store *postgrest.Client) VendorRepository {
	return &vendorRepository{store: store}
}

func (r *vendorRepository) List(ctx context.Context, filter VendorListFilter) ([]model.Vendor, int64, error) {
	opts := postgrest.ListOptions{Order: "created_at.desc"}
	if filter.Search != "" {
		opts.Filters = append(opts.Filters, postgrest.ILike("name", filter.Search))
	}
	if filter.Status != "" {
		opts.Filters = append(opts.Filters, postgrest.Eq("status", filter.Status))
	}
	if filter.Limit > 0 {
		opts.Offset = (filter.Page - 1) * filter.Limit
		opts.Limit = filter.Limit
	}

	var vendors []model.Vendor
	total, err := r.store.List(ctx, "vendors", opts, &vendors)
	if err != nil {
		return nil, 0, err
	}
	return vendors, total, nil
}

func (r *vendorRepository) FindByID(ctx context.Context, id int64) (*model.Vendor, error) {
	var vendor model.Vendor
	if err := r.store.Get(ctx, "vendors", []postgrest.Filter{postgrest.Eq("id", id)}, &vendor); err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (r *vendorRepository) Create(ctx context.Context, vendor *model.Vendor) (*model.Vendor, error) {
	var created model.Vendor
	if err := r.store.Create(ctx, "vendors", vendor, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *vendorRepository) Update(ctx context.Context, id int64, patch map[string]any) (*model.Vendor, error) {
	var updated model.Vendor
	if err := r.store.Update(ctx, "vendors", []postgrest.Filter{postgrest.Eq("id", id)}, patch, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *vendorRepository) Delete(ctx context.Context, id int64) error {
	return r.store.Delete(ctx, "vendors", []postgrest.Filter{postgrest.Eq("id", id)})
}
