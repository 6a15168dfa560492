package repository

import (
	"context"

	"bizdesk/internal/model"
	"bizdesk/internal/postgrest"
)

type PaymentListFilter struct {
	VendorID     int64
	VendorBillID int64
	FromDate     string // inclusive, on payment_date
	ToDate       string // inclusive, on payment_date
	Page         int
	Limit        int
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) (*model.Payment, error)
	List(ctx context.Context, filter PaymentListFilter) ([]model.Payment, int64, error)
}

type paymentRepository struct {
	store *postgrest.Client
}

func NewPaymentRepository(store *postgrest.Client) PaymentRepository {
	return &paymentRepository{store: store}
}

func (r *paymentRepository) Create(ctx context.Context, payment *model.Payment) (*model.Payment, error) {
	var created model.Payment
	if err := r.store.Create(ctx, "payments", payment, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *paymentRepository) List(ctx context.Context, filter PaymentListFilter) ([]model.Payment, int64, error) {
	opts := postgrest.ListOptions{Order: "payment_date.desc"}
	if filter.VendorID > 0 {
		opts.Filters = append(opts.Filters, postgrest.Eq("vendor_id", filter.VendorID))
	}
	if filter.VendorBillID > 0 {
		opts.Filters = append(opts.Filters, postgrest.Eq("vendor_bill_id", filter.VendorBillID))
	}
	if filter.FromDate != "" {
		opts.Filters = append(opts.Filters, postgrest.Gte("payment_date", filter.FromDate))
	}
	if filter.ToDate != "" {
		opts.Filters = append(opts.Filters, postgrest.Lte("payment_date", filter.ToDate))
	}
	if filter.Limit > 0 {
		opts.Offset = (filter.Page - 1) * filter.Limit
		opts.Limit = filter.Limit
	}

	var payments []model.Payment
	total, err := r.store.List(ctx, "payments", opts, &payments)
	if err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}
