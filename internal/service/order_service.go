package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"bizdesk/internal/model"
	"bizdesk/internal/repository"

	"github.com/shopspring/decimal"
)

// EventPublisher broadcasts workflow events to connected clients.
type EventPublisher interface {
	Publish(eventType string, payload any)
}

// --- DTOs ---

// OrderLineInput accepts both line shapes seen in the wild: quantity/price
// and the legacy qty/unit_price pair. Normalization happens once, here at
// the workflow boundary; everything downstream sees PurchaseOrderLine.
type OrderLineInput struct {
	ProductID  int64            `json:"product_id"`
	Quantity   int64            `json:"quantity"`
	Qty        int64            `json:"qty"`
	Price      decimal.Decimal  `json:"price"`
	UnitPrice  decimal.Decimal  `json:"unit_price"`
	TaxPercent *decimal.Decimal `json:"tax_percent"`
	Total      decimal.Decimal  `json:"total"`
}

func (in OrderLineInput) normalize(defaultTax decimal.Decimal) model.PurchaseOrderLine {
	qty := in.Quantity
	if qty == 0 {
		qty = in.Qty
	}
	price := in.Price
	if price.IsZero() {
		price = in.UnitPrice
	}
	tax := defaultTax
	if in.TaxPercent != nil {
		tax = *in.TaxPercent
	}
	return model.PurchaseOrderLine{
		ProductID:  in.ProductID,
		Quantity:   qty,
		UnitPrice:  price,
		TaxPercent: tax,
		Total:      in.Total,
	}
}

type CreateOrderRequest struct {
	PONumber          string           `json:"po_number"`
	VendorID          int64            `json:"vendor_id" binding:"required"`
	PODate            string           `json:"po_date"`
	Reference         string           `json:"reference"`
	Status            string           `json:"status"`
	DefaultTaxPercent decimal.Decimal  `json:"default_tax_percent"`
	Lines             []OrderLineInput `json:"lines"`
}

// CreatedOrder is the workflow result: the created order, the lines that
// were committed, and the derived bill when derivation succeeded.
type CreatedOrder struct {
	Order model.PurchaseOrder       `json:"order"`
	Lines []model.PurchaseOrderLine `json:"lines"`
	Bill  *model.VendorBill         `json:"bill,omitempty"`
}

// --- Interface ---

type OrderService interface {
	CreatePurchaseOrderWithLines(ctx context.Context, req CreateOrderRequest) (*CreatedOrder, error)
	GenerateVendorBillFromPO(ctx context.Context, po *model.PurchaseOrder, lines []model.PurchaseOrderLine) (*model.VendorBill, error)
	ListOrders(ctx context.Context, filter repository.OrderListFilter) ([]model.PurchaseOrder, int64, error)
	GetOrder(ctx context.Context, id int64) (*model.PurchaseOrder, []model.PurchaseOrderLine, error)
	PreviewTotals(lines []OrderLineInput, defaultTaxPercent decimal.Decimal) OrderTotals
}

type orderService struct {
	orders repository.OrderRepository
	bills  repository.BillRepository
	events EventPublisher
	now    func() time.Time
}

func NewOrderService(orders repository.OrderRepository, bills repository.BillRepository, events EventPublisher) OrderService {
	return &orderService{
		orders: orders,
		bills:  bills,
		events: events,
		now:    time.Now,
	}
}

// --- Implementation ---

// CreatePurchaseOrderWithLines runs the multi-step creation sequence:
// order, then each line in order, then — for Confirmed/Converted orders —
// a derived vendor bill. The sequence is best-effort and non-transactional:
// a line failure leaves the order and earlier lines in place, and a
// derivation failure never fails the workflow.
func (s *orderService) CreatePurchaseOrderWithLines(ctx context.Context, req CreateOrderRequest) (*CreatedOrder, error) {
	if req.VendorID == 0 {
		return nil, &ValidationError{Reason: "vendor_id is required"}
	}
	status := req.Status
	if status == "" {
		status = model.OrderStatusDraft
	}
	if !model.ValidOrderStatus(status) {
		return nil, &ValidationError{Reason: fmt.Sprintf("unknown order status %q", status)}
	}

	// Lines without a product or a positive quantity are dropped before
	// anything is submitted. Zero survivors means nothing gets written.
	var lines []model.PurchaseOrderLine
	for _, in := range req.Lines {
		line := in.normalize(req.DefaultTaxPercent)
		if line.ProductID <= 0 || line.Quantity <= 0 {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return nil, &ValidationError{Reason: "no valid line items: each line requires product_id and quantity > 0"}
	}

	amounts := make([]LineAmounts, len(lines))
	for i, line := range lines {
		taxPct := line.TaxPercent
		amounts[i] = LineAmounts{
			Quantity:   decimal.NewFromInt(line.Quantity),
			UnitPrice:  line.UnitPrice,
			TaxPercent: &taxPct,
		}
	}
	totals := ComputeOrderTotals(amounts, req.DefaultTaxPercent)

	order := &model.PurchaseOrder{
		PONumber:    req.PONumber,
		VendorID:    req.VendorID,
		PODate:      req.PODate,
		Reference:   req.Reference,
		Status:      status,
		TotalAmount: totals.Total,
	}

	created, err := s.orders.Create(ctx, order)
	if err != nil {
		return nil, &WorkflowError{Step: StepCreateOrder, Index: -1, Err: err}
	}
	if created.ID == 0 {
		return nil, &WorkflowError{Step: StepCreateOrder, Index: -1, Err: errors.New("store returned no order id")}
	}

	// Lines go out strictly in sequence so line_number assignment stays
	// deterministic and a failure pinpoints exactly what was committed.
	createdLines := make([]model.PurchaseOrderLine, 0, len(lines))
	for i := range lines {
		line := lines[i]
		line.PurchaseOrderID = created.ID
		line.LineNumber = i + 1
		line.Total = ComputeLineTotal(line.Quantity, line.UnitPrice, line.TaxPercent)

		committed, err := s.orders.CreateLine(ctx, &line)
		if err != nil {
			return nil, &WorkflowError{
				Step:         StepCreateLine,
				Index:        i,
				Order:        created,
				LinesCreated: i,
				Err:          err,
			}
		}
		createdLines = append(createdLines, *committed)
	}

	result := &CreatedOrder{Order: *created, Lines: createdLines}

	if status == model.OrderStatusConfirmed || status == model.OrderStatusConverted {
		bill, err := s.GenerateVendorBillFromPO(ctx, created, createdLines)
		if err != nil {
			// Derivation is best-effort: the order and its lines stand.
			log.Printf("vendor bill derivation failed for order %d: %v", created.ID, err)
		} else {
			result.Bill = bill
			s.publish("bill.derived", bill)
		}
	}

	s.publish("order.created", result.Order)
	return result, nil
}

// GenerateVendorBillFromPO derives an Unpaid vendor bill from the order,
// its amount fixed from the line totals at this moment. The bill number
// gets a time-derived suffix to reduce accidental collision; uniqueness is
// the store's concern.
func (s *orderService) GenerateVendorBillFromPO(ctx context.Context, po *model.PurchaseOrder, lines []model.PurchaseOrderLine) (*model.VendorBill, error) {
	total := decimal.Zero
	for _, line := range lines {
		if !line.Total.IsZero() {
			total = total.Add(line.Total)
			continue
		}
		total = total.Add(ComputeLineTotal(line.Quantity, line.UnitPrice, line.TaxPercent))
	}

	ref := po.PONumber
	if ref == "" {
		ref = strconv.FormatInt(po.ID, 10)
	}

	now := s.now()
	bill := &model.VendorBill{
		BillNumber:      fmt.Sprintf("BILL-%s-%04d", ref, now.UnixMilli()%10000),
		VendorID:        po.VendorID,
		PurchaseOrderID: &po.ID,
		BillDate:        now.Format("2006-01-02"),
		Amount:          total,
		Status:          model.BillStatusUnpaid,
		Description:     fmt.Sprintf("Bill generated from Purchase Order %s", ref),
	}

	created, err := s.bills.Create(ctx, bill)
	if err != nil {
		return nil, &DerivationError{Err: err}
	}
	return created, nil
}

func (s *orderService) ListOrders(ctx context.Context, filter repository.OrderListFilter) ([]model.PurchaseOrder, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Status != "" && !model.ValidOrderStatus(filter.Status) {
		return nil, 0, &ValidationError{Reason: fmt.Sprintf("unknown order status %q", filter.Status)}
	}

	orders, total, err := s.orders.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch purchase orders: %w", err)
	}
	return orders, total, nil
}

func (s *orderService) GetOrder(ctx context.Context, id int64) (*model.PurchaseOrder, []model.PurchaseOrderLine, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("purchase order not found: %w", err)
	}
	lines, err := s.orders.ListLines(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch order lines: %w", err)
	}
	return order, lines, nil
}

// PreviewTotals computes totals for unsaved form lines.
func (s *orderService) PreviewTotals(lines []OrderLineInput, defaultTaxPercent decimal.Decimal) OrderTotals {
	amounts := make([]LineAmounts, 0, len(lines))
	for _, in := range lines {
		line := in.normalize(defaultTaxPercent)
		taxPct := line.TaxPercent
		amounts = append(amounts, LineAmounts{
			Quantity:   decimal.NewFromInt(line.Quantity),
			UnitPrice:  line.UnitPrice,
			TaxPercent: &taxPct,
		})
	}
	return ComputeOrderTotals(amounts, defaultTaxPercent)
}

func (s *orderService) publish(eventType string, payload any) {
	if s.events != nil {
		s.events.Publish(eventType, payload)
	}
}
