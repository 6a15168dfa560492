package service

import (
	"context"
	"fmt"
	"sort"

	"bizdesk/internal/model"
	"bizdesk/internal/repository"

	"github.com/shopspring/decimal"
)

// maxStatsRows bounds how many rows a dashboard aggregation pulls per
// collection. Amounts beyond it would need store-side aggregation, which
// the filter-query convention does not offer.
const maxStatsRows = 1000

type DashboardStats struct {
	Vendors         int64           `json:"vendors"`
	Products        int64           `json:"products"`
	Orders          int64           `json:"orders"`
	Users           int64           `json:"users"`
	PendingBills    int64           `json:"pending_bills"`
	TotalBillAmount decimal.Decimal `json:"total_bill_amount"`
	PaidBillAmount  decimal.Decimal `json:"paid_bill_amount"`
	TotalPayments   decimal.Decimal `json:"total_payments"`
	PaymentProgress float64         `json:"payment_progress"` // percent of billed amount already paid
}

// VendorOrderCount is one slice of the top-vendors chart.
type VendorOrderCount struct {
	VendorID int64  `json:"vendor_id"`
	Name     string `json:"name"`
	Orders   int64  `json:"orders"`
}

type DashboardService interface {
	Stats(ctx context.Context) (*DashboardStats, error)
	TopVendors(ctx context.Context, limit int) ([]VendorOrderCount, error)
}

type dashboardService struct {
	vendors  repository.VendorRepository
	products repository.ProductRepository
	orders   repository.OrderRepository
	bills    repository.BillRepository
	payments repository.PaymentRepository
	users    repository.UserRepository
}

func NewDashboardService(
	vendors repository.VendorRepository,
	products repository.ProductRepository,
	orders repository.OrderRepository,
	bills repository.BillRepository,
	payments repository.PaymentRepository,
	users repository.UserRepository,
) DashboardService {
	return &dashboardService{
		vendors:  vendors,
		products: products,
		orders:   orders,
		bills:    bills,
		payments: payments,
		users:    users,
	}
}

func (s *dashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{
		TotalBillAmount: decimal.Zero,
		PaidBillAmount:  decimal.Zero,
		TotalPayments:   decimal.Zero,
	}

	// Counts come from Content-Range totals; a Limit of 1 keeps the
	// payloads tiny.
	var err error
	if _, stats.Vendors, err = s.vendors.List(ctx, repository.VendorListFilter{Page: 1, Limit: 1}); err != nil {
		return nil, fmt.Errorf("failed to count vendors: %w", err)
	}
	if _, stats.Products, err = s.products.List(ctx, repository.ProductListFilter{Page: 1, Limit: 1}); err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	if _, stats.Orders, err = s.orders.List(ctx, repository.OrderListFilter{Page: 1, Limit: 1}); err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	if _, stats.Users, err = s.users.List(ctx, 1, 1); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	bills, _, err := s.bills.List(ctx, repository.BillListFilter{Page: 1, Limit: maxStatsRows})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bills: %w", err)
	}
	for _, bill := range bills {
		stats.TotalBillAmount = stats.TotalBillAmount.Add(bill.Amount)
		if bill.Status == model.BillStatusPaid {
			stats.PaidBillAmount = stats.PaidBillAmount.Add(bill.Amount)
		} else {
			stats.PendingBills++
		}
	}

	payments, _, err := s.payments.List(ctx, repository.PaymentListFilter{Page: 1, Limit: maxStatsRows})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payments: %w", err)
	}
	for _, payment := range payments {
		stats.TotalPayments = stats.TotalPayments.Add(payment.Amount)
	}

	if stats.TotalBillAmount.IsPositive() {
		progress, _ := stats.PaidBillAmount.Div(stats.TotalBillAmount).Mul(hundred).Float64()
		stats.PaymentProgress = progress
	}
	return stats, nil
}

func (s *dashboardService) TopVendors(ctx context.Context, limit int) ([]VendorOrderCount, error) {
	if limit <= 0 {
		limit = 5
	}

	orders, _, err := s.orders.List(ctx, repository.OrderListFilter{Page: 1, Limit: maxStatsRows})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}
	vendors, _, err := s.vendors.List(ctx, repository.VendorListFilter{Page: 1, Limit: maxStatsRows})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch vendors: %w", err)
	}

	counts := make(map[int64]int64, len(vendors))
	for _, order := range orders {
		counts[order.VendorID]++
	}

	result := make([]VendorOrderCount, 0, len(vendors))
	for _, vendor := range vendors {
		result = append(result, VendorOrderCount{
			VendorID: vendor.ID,
			Name:     vendor.Name,
			Orders:   counts[vendor.ID],
		})
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Orders > result[j].Orders })
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
