package repository

import (
	"context"
	"strconv"

	"bizdesk/internal/model"
	"bizdesk/internal/postgrest"
)

type OrderListFilter struct {
	Status   string
	VendorID int64
	FromDate string // inclusive, on created_at
	ToDate   string // inclusive, on created_at
	Sort     string // defaults to created_at.desc
	Page     int
	Limit    int
}

type OrderRepository interface {
	Create(ctx context.Context, order *model.PurchaseOrder) (*model.PurchaseOrder, error)
	FindByID(ctx context.Context, id int64) (*model.PurchaseOrder, error)
	List(ctx context.Context, filter OrderListFilter) ([]model.PurchaseOrder, int64, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*model.PurchaseOrder, error)
	CreateLine(ctx context.Context, line *model.PurchaseOrderLine) (*model.PurchaseOrderLine, error)
	ListLines(ctx context.Context, orderID int64) ([]model.PurchaseOrderLine, error)
}

type orderRepository struct {
	store *postgrest.Client
}

func NewOrderRepository(store *postgrest.Client) OrderRepository {
	return &orderRepository{store: store}
}

func (r *orderRepository) Create(ctx context.Context, order *model.PurchaseOrder) (*model.PurchaseOrder, error) {
	var created model.PurchaseOrder
	if err := r.store.Create(ctx, "purchase_orders", order, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *orderRepository) FindByID(ctx context.Context, id int64) (*model.PurchaseOrder, error) {
	var order model.PurchaseOrder
	if err := r.store.Get(ctx, "purchase_orders", []postgrest.Filter{postgrest.Eq("id", id)}, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) List(ctx context.Context, filter OrderListFilter) ([]model.PurchaseOrder, int64, error) {
	sort := filter.Sort
	if sort == "" {
		sort = "created_at.desc"
	}
	opts := postgrest.ListOptions{Order: sort}
	if filter.Status != "" {
		opts.Filters = append(opts.Filters, postgrest.Eq("status", filter.Status))
	}
	if filter.VendorID > 0 {
		opts.Filters = append(opts.Filters, postgrest.Eq("vendor_id", filter.VendorID))
	}
	if filter.FromDate != "" {
		opts.Filters = append(opts.Filters, postgrest.Gte("created_at", filter.FromDate))
	}
	if filter.ToDate != "" {
		opts.Filters = append(opts.Filters, postgrest.Lte("created_at", filter.ToDate))
	}
	if filter.Limit > 0 {
		opts.Offset = (filter.Page - 1) * filter.Limit
		opts.Limit = filter.Limit
	}

	var orders []model.PurchaseOrder
	total, err := r.store.List(ctx, "purchase_orders", opts, &orders)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id int64, status string) (*model.PurchaseOrder, error) {
	var updated model.PurchaseOrder
	patch := map[string]any{"status": status}
	if err := r.store.Update(ctx, "purchase_orders", []postgrest.Filter{postgrest.Eq("id", id)}, patch, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *orderRepository) CreateLine(ctx context.Context, line *model.PurchaseOrderLine) (*model.PurchaseOrderLine, error) {
	var created model.PurchaseOrderLine
	if err := r.store.Create(ctx, "purchase_order_lines", line, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *orderRepository) ListLines(ctx context.Context, orderID int64) ([]model.PurchaseOrderLine, error) {
	opts := postgrest.ListOptions{
		Filters: []postgrest.Filter{postgrest.Eq("purchase_order_id", strconv.FormatInt(orderID, 10))},
		Order:   "line_number.asc",
	}
	var lines []model.PurchaseOrderLine
	if _, err := r.store.List(ctx, "purchase_order_lines", opts, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}
