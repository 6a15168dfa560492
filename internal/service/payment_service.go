package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"bizdesk/internal/model"
	"bizdesk/internal/repository"

	"github.com/shopspring/decimal"
)

type CreatePaymentRequest struct {
	VendorID     int64           `json:"vendor_id" binding:"required"`
	VendorBillID *int64          `json:"vendor_bill_id"`
	PaymentDate  string          `json:"payment_date"`
	Amount       decimal.Decimal `json:"amount"`
	Method       string          `json:"method"`
	Reference    string          `json:"reference"`
	Notes        string          `json:"notes"`
}

type PaymentService interface {
	Create(ctx context.Context, req CreatePaymentRequest) (*model.Payment, error)
	List(ctx context.Context, filter repository.PaymentListFilter) ([]model.Payment, int64, error)
}

type paymentService struct {
	payments repository.PaymentRepository
	bills    repository.BillRepository
	events   EventPublisher
	now      func() time.Time
}

func NewPaymentService(payments repository.PaymentRepository, bills repository.BillRepository, events EventPublisher) PaymentService {
	return &paymentService{payments: payments, bills: bills, events: events, now: time.Now}
}

// Create records a payment and, when it settles a linked bill in full,
// marks that bill Paid. The bill update is best-effort: a failure is
// logged and the payment stands.
func (s *paymentService) Create(ctx context.Context, req CreatePaymentRequest) (*model.Payment, error) {
	if req.VendorID == 0 {
		return nil, &ValidationError{Reason: "vendor_id is required"}
	}
	if !req.Amount.IsPositive() {
		return nil, &ValidationError{Reason: "amount must be greater than zero"}
	}

	now := s.now()
	paymentDate := req.PaymentDate
	if paymentDate == "" {
		paymentDate = now.Format("2006-01-02")
	}
	method := strings.TrimSpace(req.Method)
	if method == "" {
		method = model.PaymentMethodBank
	}

	payment := &model.Payment{
		PaymentNumber: fmt.Sprintf("PAY-%d", now.UnixMilli()),
		VendorID:      req.VendorID,
		VendorBillID:  req.VendorBillID,
		PaymentDate:   paymentDate,
		Amount:        req.Amount,
		Method:        method,
		Reference:     strings.TrimSpace(req.Reference),
		Notes:         strings.TrimSpace(req.Notes),
	}
	created, err := s.payments.Create(ctx, payment)
	if err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	if req.VendorBillID != nil {
		s.settleBill(ctx, *req.VendorBillID, req.Amount)
	}

	if s.events != nil {
		s.events.Publish("payment.recorded", created)
	}
	return created, nil
}

func (s *paymentService) settleBill(ctx context.Context, billID int64, paid decimal.Decimal) {
	bill, err := s.bills.FindByID(ctx, billID)
	if err != nil {
		log.Printf("payment recorded but linked bill %d not found: %v", billID, err)
		return
	}
	if bill.Status == model.BillStatusPaid || paid.LessThan(bill.Amount) {
		return
	}
	if _, err := s.bills.UpdateStatus(ctx, billID, model.BillStatusPaid); err != nil {
		log.Printf("payment recorded but bill %d could not be marked paid: %v", billID, err)
	}
}

func (s *paymentService) List(ctx context.Context, filter repository.PaymentListFilter) ([]model.Payment, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	payments, total, err := s.payments.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch payments: %w", err)
	}
	return payments, total, nil
}
