package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"bizdesk/internal/model"
	"bizdesk/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes ---

type fakeOrderRepo struct {
	nextID      int64
	orders      []model.PurchaseOrder
	lines       []model.PurchaseOrderLine
	failOrder   error
	failLineAt  int // 1-based count of the CreateLine call that fails; 0 means never
	lineCalls   int
	createCalls int
}

func (f *fakeOrderRepo) Create(ctx context.Context, order *model.PurchaseOrder) (*model.PurchaseOrder, error) {
	f.createCalls++
	if f.failOrder != nil {
		return nil, f.failOrder
	}
	f.nextID++
	created := *order
	created.ID = f.nextID
	f.orders = append(f.orders, created)
	return &created, nil
}

func (f *fakeOrderRepo) CreateLine(ctx context.Context, line *model.PurchaseOrderLine) (*model.PurchaseOrderLine, error) {
	f.lineCalls++
	if f.failLineAt > 0 && f.lineCalls == f.failLineAt {
		return nil, errors.New("store rejected line")
	}
	f.nextID++
	created := *line
	created.ID = f.nextID
	f.lines = append(f.lines, created)
	return &created, nil
}

func (f *fakeOrderRepo) FindByID(ctx context.Context, id int64) (*model.PurchaseOrder, error) {
	for i := range f.orders {
		if f.orders[i].ID == id {
			return &f.orders[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeOrderRepo) List(ctx context.Context, filter repository.OrderListFilter) ([]model.PurchaseOrder, int64, error) {
	return f.orders, int64(len(f.orders)), nil
}

func (f *fakeOrderRepo) UpdateStatus(ctx context.Context, id int64, status string) (*model.PurchaseOrder, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeOrderRepo) ListLines(ctx context.Context, orderID int64) ([]model.PurchaseOrderLine, error) {
	var out []model.PurchaseOrderLine
	for _, line := range f.lines {
		if line.PurchaseOrderID == orderID {
			out = append(out, line)
		}
	}
	return out, nil
}

type fakeBillRepo struct {
	nextID   int64
	bills    []model.VendorBill
	failNext error
}

func (f *fakeBillRepo) Create(ctx context.Context, bill *model.VendorBill) (*model.VendorBill, error) {
	if f.failNext != nil {
		return nil, f.failNext
	}
	f.nextID++
	created := *bill
	created.ID = f.nextID
	f.bills = append(f.bills, created)
	return &created, nil
}

func (f *fakeBillRepo) FindByID(ctx context.Context, id int64) (*model.VendorBill, error) {
	for i := range f.bills {
		if f.bills[i].ID == id {
			return &f.bills[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeBillRepo) List(ctx context.Context, filter repository.BillListFilter) ([]model.VendorBill, int64, error) {
	return f.bills, int64(len(f.bills)), nil
}

func (f *fakeBillRepo) UpdateStatus(ctx context.Context, id int64, status string) (*model.VendorBill, error) {
	for i := range f.bills {
		if f.bills[i].ID == id {
			f.bills[i].Status = status
			return &f.bills[i], nil
		}
	}
	return nil, errors.New("not found")
}

type recordingPublisher struct {
	events []string
}

func (p *recordingPublisher) Publish(eventType string, payload any) {
	p.events = append(p.events, eventType)
}

func newTestOrderService(orders *fakeOrderRepo, bills *fakeBillRepo, events EventPublisher) OrderService {
	svc := NewOrderService(orders, bills, events).(*orderService)
	svc.now = func() time.Time { return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC) }
	return svc
}

// --- tests ---

func TestCreatePurchaseOrderWithLines(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid lines are dropped and survivors numbered in sequence", func(t *testing.T) {
		orders := &fakeOrderRepo{}
		bills := &fakeBillRepo{}
		svc := newTestOrderService(orders, bills, nil)

		created, err := svc.CreatePurchaseOrderWithLines(ctx, CreateOrderRequest{
			VendorID: 7,
			Lines: []OrderLineInput{
				{ProductID: 1, Quantity: 2, Price: dec("100")},
				{ProductID: 0, Quantity: 5, Price: dec("10")}, // no product: dropped
				{ProductID: 2, Qty: 1, UnitPrice: dec("50")}, // legacy shape
				{ProductID: 3, Quantity: 0},                  // no quantity: dropped
				{ProductID: 4, Quantity: 3, Price: dec("20")},
			},
		})
		require.NoError(t, err)

		require.Len(t, created.Lines, 3)
		assert.Equal(t, 3, orders.lineCalls)
		for i, line := range created.Lines {
			assert.Equal(t, i+1, line.LineNumber)
			assert.Equal(t, created.Order.ID, line.PurchaseOrderID)
		}
		assert.Equal(t, int64(2), created.Lines[1].ProductID)
		assert.True(t, dec("50").Equal(created.Lines[1].UnitPrice))
		assert.Nil(t, created.Bill, "draft orders get no derived bill")
	})

	t.Run("zero valid lines fails before any write", func(t *testing.T) {
		orders := &fakeOrderRepo{}
		svc := newTestOrderService(orders, &fakeBillRepo{}, nil)

		_, err := svc.CreatePurchaseOrderWithLines(ctx, CreateOrderRequest{
			VendorID: 7,
			Lines:    []OrderLineInput{{ProductID: 0, Quantity: 1}, {ProductID: 5, Quantity: 0}},
		})

		var validation *ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Equal(t, 0, orders.createCalls, "no order must be submitted")
		assert.Equal(t, 0, orders.lineCalls)
	})

	t.Run("missing vendor fails validation", func(t *testing.T) {
		svc := newTestOrderService(&fakeOrderRepo{}, &fakeBillRepo{}, nil)
		_, err := svc.CreatePurchaseOrderWithLines(ctx, CreateOrderRequest{
			Lines: []OrderLineInput{{ProductID: 1, Quantity: 1}},
		})
		var validation *ValidationError
		assert.ErrorAs(t, err, &validation)
	})

	t.Run("line failure reports index and committed count", func(t *testing.T) {
		orders := &fakeOrderRepo{failLineAt: 2}
		svc := newTestOrderService(orders, &fakeBillRepo{}, nil)

		_, err := svc.CreatePurchaseOrderWithLines(ctx, CreateOrderRequest{
			VendorID: 7,
			Lines: []OrderLineInput{
				{ProductID: 1, Quantity: 1, Price: dec("10")},
				{ProductID: 2, Quantity: 1, Price: dec("20")},
				{ProductID: 3, Quantity: 1, Price: dec("30")},
			},
		})

		var wf *WorkflowError
		require.ErrorAs(t, err, &wf)
		assert.Equal(t, StepCreateLine, wf.Step)
		assert.Equal(t, 1, wf.Index, "second line has 0-based index 1")
		assert.Equal(t, 1, wf.LinesCreated)
		assert.True(t, wf.Partial())
		require.NotNil(t, wf.Order)
		assert.Len(t, orders.lines, 1, "first line stays committed")
	})

	t.Run("order failure carries no partial state", func(t *testing.T) {
		orders := &fakeOrderRepo{failOrder: errors.New("store down")}
		svc := newTestOrderService(orders, &fakeBillRepo{}, nil)

		_, err := svc.CreatePurchaseOrderWithLines(ctx, CreateOrderRequest{
			VendorID: 7,
			Lines:    []OrderLineInput{{ProductID: 1, Quantity: 1}},
		})

		var wf *WorkflowError
		require.ErrorAs(t, err, &wf)
		assert.Equal(t, StepCreateOrder, wf.Step)
		assert.Equal(t, -1, wf.Index)
		assert.False(t, wf.Partial())
	})

	t.Run("confirmed order derives an unpaid bill summing line totals", func(t *testing.T) {
		orders := &fakeOrderRepo{}
		bills := &fakeBillRepo{}
		events := &recordingPublisher{}
		svc := newTestOrderService(orders, bills, events)

		created, err := svc.CreatePurchaseOrderWithLines(ctx, CreateOrderRequest{
			PONumber: "PO-1001",
			VendorID: 7,
			Status:   model.OrderStatusConfirmed,
			Lines: []OrderLineInput{
				{ProductID: 1, Quantity: 2, Price: dec("100"), TaxPercent: decPtr("10")}, // 220
				{ProductID: 2, Quantity: 1, Price: dec("50")},                            // 50
			},
		})
		require.NoError(t, err)

		require.NotNil(t, created.Bill)
		assert.Equal(t, model.BillStatusUnpaid, created.Bill.Status)
		assert.True(t, dec("270").Equal(created.Bill.Amount), "amount %s", created.Bill.Amount)
		assert.Contains(t, created.Bill.BillNumber, "BILL-PO-1001-")
		require.NotNil(t, created.Bill.PurchaseOrderID)
		assert.Equal(t, created.Order.ID, *created.Bill.PurchaseOrderID)
		assert.Contains(t, events.events, "bill.derived")
		assert.Contains(t, events.events, "order.created")
	})

	t.Run("bill derivation failure never fails the workflow", func(t *testing.T) {
		orders := &fakeOrderRepo{}
		bills := &fakeBillRepo{failNext: errors.New("store rejected bill")}
		svc := newTestOrderService(orders, bills, nil)

		created, err := svc.CreatePurchaseOrderWithLines(ctx, CreateOrderRequest{
			VendorID: 7,
			Status:   model.OrderStatusConfirmed,
			Lines:    []OrderLineInput{{ProductID: 1, Quantity: 1, Price: dec("10")}},
		})

		require.NoError(t, err)
		assert.Nil(t, created.Bill)
		require.Len(t, created.Lines, 1)
	})
}

func TestGenerateVendorBillFromPO(t *testing.T) {
	ctx := context.Background()

	t.Run("falls back to order id when po number is empty", func(t *testing.T) {
		bills := &fakeBillRepo{}
		svc := newTestOrderService(&fakeOrderRepo{}, bills, nil)

		po := &model.PurchaseOrder{ID: 42, VendorID: 7}
		bill, err := svc.GenerateVendorBillFromPO(ctx, po, []model.PurchaseOrderLine{
			{Quantity: 1, UnitPrice: dec("80"), TaxPercent: dec("6")},
		})
		require.NoError(t, err)
		assert.Contains(t, bill.BillNumber, "BILL-42-")
		assert.True(t, dec("84.8").Equal(bill.Amount), "amount %s", bill.Amount)
	})

	t.Run("prefers precomputed line totals", func(t *testing.T) {
		bills := &fakeBillRepo{}
		svc := newTestOrderService(&fakeOrderRepo{}, bills, nil)

		po := &model.PurchaseOrder{ID: 9, PONumber: "PO-9", VendorID: 7}
		bill, err := svc.GenerateVendorBillFromPO(ctx, po, []model.PurchaseOrderLine{
			{Quantity: 2, UnitPrice: dec("100"), TaxPercent: dec("10"), Total: dec("220")},
			{Quantity: 1, UnitPrice: dec("999"), Total: dec("1")}, // total wins over recompute
		})
		require.NoError(t, err)
		assert.True(t, dec("221").Equal(bill.Amount), "amount %s", bill.Amount)
	})

	t.Run("store failure surfaces as derivation error", func(t *testing.T) {
		bills := &fakeBillRepo{failNext: errors.New("boom")}
		svc := newTestOrderService(&fakeOrderRepo{}, bills, nil)

		_, err := svc.GenerateVendorBillFromPO(ctx, &model.PurchaseOrder{ID: 1, VendorID: 7}, nil)
		var derivation *DerivationError
		assert.ErrorAs(t, err, &derivation)
	})
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}
