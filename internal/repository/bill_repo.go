package repository

import (
	"context"

	"bizdesk/internal/model"
	"bizdesk/internal/postgrest"
)

type BillListFilter struct {
	Status   string
	VendorID int64
	FromDate string // inclusive, on bill_date
	ToDate   string // inclusive, on bill_date
	Page     int
	Limit    int
}

type BillRepository interface {
	Create(ctx context.Context, bill *model.VendorBill) (*model.VendorBill, error)
	FindByID(ctx context.Context, id int64) (*model.VendorBill, error)
	List(ctx context.Context, filter BillListFilter) ([]model.VendorBill, int64, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*model.VendorBill, error)
}

type billRepository struct {
	store *postgrest.Client
}

func NewBillRepository(store *postgrest.Client) BillRepository {
	return &billRepository{store: store}
}

func (r *billRepository) Create(ctx context.Context, bill *model.VendorBill) (*model.VendorBill, error) {
	var created model.VendorBill
	if err := r.store.Create(ctx, "vendor_bills", bill, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *billRepository) FindByID(ctx context.Context, id int64) (*model.VendorBill, error) {
	var bill model.VendorBill
	if err := r.store.Get(ctx, "vendor_bills", []postgrest.Filter{postgrest.Eq("id", id)}, &bill); err != nil {
		return nil, err
	}
	return &bill, nil
}

func (r *billRepository) List(ctx context.Context, filter BillListFilter) ([]model.VendorBill, int64, error) {
	opts := postgrest.ListOptions{Order: "created_at.desc"}
	if filter.Status != "" {
		opts.Filters = append(opts.Filters, postgrest.Eq("status", filter.Status))
	}
	if filter.VendorID > 0 {
		opts.Filters = append(opts.Filters, postgrest.Eq("vendor_id", filter.VendorID))
	}
	if filter.FromDate != "" {
		opts.Filters = append(opts.Filters, postgrest.Gte("bill_date", filter.FromDate))
	}
	if filter.ToDate != "" {
		opts.Filters = append(opts.Filters, postgrest.Lte("bill_date", filter.ToDate))
	}
	if filter.Limit > 0 {
		opts.Offset = (filter.Page - 1) * filter.Limit
		opts.Limit = filter.Limit
	}

	var bills []model.VendorBill
	total, err := r.store.List(ctx, "vendor_bills", opts, &bills)
	if err != nil {
		return nil, 0, err
	}
	return bills, total, nil
}

func (r *billRepository) UpdateStatus(ctx context.Context, id int64, status string) (*model.VendorBill, error) {
	var updated model.VendorBill
	patch := map[string]any{"status": status}
	if err := r.store.Update(ctx, "vendor_bills", []postgrest.Filter{postgrest.Eq("id", id)}, patch, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
