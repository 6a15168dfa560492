package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bizdesk/internal/model"
	"bizdesk/internal/repository"

	"github.com/shopspring/decimal"
)

type CreateBillRequest struct {
	BillNumber      string          `json:"bill_number"`
	VendorID        int64           `json:"vendor_id" binding:"required"`
	PurchaseOrderID *int64          `json:"purchase_order_id"`
	BillDate        string          `json:"bill_date"`
	DueDate         string          `json:"due_date"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
}

type BillService interface {
	Create(ctx context.Context, req CreateBillRequest) (*model.VendorBill, error)
	List(ctx context.Context, filter repository.BillListFilter) ([]model.VendorBill, int64, error)
	GetByID(ctx context.Context, id int64) (*model.VendorBill, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*model.VendorBill, error)
}

type billService struct {
	bills  repository.BillRepository
	events EventPublisher
	now    func() time.Time
}

func NewBillService(bills repository.BillRepository, events EventPublisher) BillService {
	return &billService{bills: bills, events: events, now: time.Now}
}

// Create records a manually entered vendor bill, as opposed to one derived
// from a purchase order.
func (s *billService) Create(ctx context.Context, req CreateBillRequest) (*model.VendorBill, error) {
	if req.VendorID == 0 {
		return nil, &ValidationError{Reason: "vendor_id is required"}
	}
	if !req.Amount.IsPositive() {
		return nil, &ValidationError{Reason: "amount must be greater than zero"}
	}

	now := s.now()
	billNumber := strings.TrimSpace(req.BillNumber)
	if billNumber == "" {
		billNumber = fmt.Sprintf("BILL-MAN-%d", now.UnixMilli())
	}
	billDate := req.BillDate
	if billDate == "" {
		billDate = now.Format("2006-01-02")
	}

	bill := &model.VendorBill{
		BillNumber:      billNumber,
		VendorID:        req.VendorID,
		PurchaseOrderID: req.PurchaseOrderID,
		BillDate:        billDate,
		DueDate:         req.DueDate,
		Amount:          req.Amount,
		Status:          model.BillStatusUnpaid,
		Description:     req.Description,
	}
	created, err := s.bills.Create(ctx, bill)
	if err != nil {
		return nil, fmt.Errorf("failed to create vendor bill: %w", err)
	}
	if s.events != nil {
		s.events.Publish("bill.created", created)
	}
	return created, nil
}

func (s *billService) List(ctx context.Context, filter repository.BillListFilter) ([]model.VendorBill, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Status != "" && !model.ValidBillStatus(filter.Status) {
		return nil, 0, &ValidationError{Reason: fmt.Sprintf("unknown bill status %q", filter.Status)}
	}
	bills, total, err := s.bills.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch vendor bills: %w", err)
	}
	return bills, total, nil
}

func (s *billService) GetByID(ctx context.Context, id int64) (*model.VendorBill, error) {
	bill, err := s.bills.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("vendor bill not found")
	}
	return bill, nil
}

// UpdateStatus moves a bill between Unpaid, Overdue and Paid. A paid bill
// is settled; it cannot move back.
func (s *billService) UpdateStatus(ctx context.Context, id int64, status string) (*model.VendorBill, error) {
	if !model.ValidBillStatus(status) {
		return nil, &ValidationError{Reason: fmt.Sprintf("unknown bill status %q", status)}
	}

	bill, err := s.bills.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("vendor bill not found")
	}
	if bill.Status == model.BillStatusPaid && status != model.BillStatusPaid {
		return nil, &ValidationError{Reason: "a paid bill cannot change status"}
	}
	if bill.Status == status {
		return bill, nil
	}

	updated, err := s.bills.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update bill status: %w", err)
	}
	if s.events != nil {
		s.events.Publish("bill.updated", updated)
	}
	return updated, nil
}
