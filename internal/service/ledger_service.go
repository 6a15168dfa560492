package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"bizdesk/internal/model"
	"bizdesk/internal/repository"

	"github.com/shopspring/decimal"
)

// maxLedgerRows bounds how many bills/payments a single ledger pulls.
const maxLedgerRows = 1000

// LedgerEntry is one row of a vendor ledger: bills credit the payable
// balance, payments debit it.
type LedgerEntry struct {
	Date        string          `json:"date"`
	Particulars string          `json:"particulars"`
	VoucherNo   string          `json:"voucher_no"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
}

type VendorLedger struct {
	VendorID    int64           `json:"vendor_id"`
	FromDate    string          `json:"from_date"`
	ToDate      string          `json:"to_date"`
	Entries     []LedgerEntry   `json:"entries"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
	Closing     decimal.Decimal `json:"closing"`
}

// TrialBalanceRow is one derived account line of the trial balance view.
type TrialBalanceRow struct {
	Account string          `json:"account"`
	Debit   decimal.Decimal `json:"debit"`
	Credit  decimal.Decimal `json:"credit"`
}

type TrialBalance struct {
	AsOnDate    string            `json:"as_on_date"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"total_debit"`
	TotalCredit decimal.Decimal   `json:"total_credit"`
}

type LedgerService interface {
	VendorLedger(ctx context.Context, vendorID int64, fromDate, toDate string) (*VendorLedger, error)
	TrialBalance(ctx context.Context, asOnDate string) (*TrialBalance, error)
}

type ledgerService struct {
	bills    repository.BillRepository
	payments repository.PaymentRepository
}

func NewLedgerService(bills repository.BillRepository, payments repository.PaymentRepository) LedgerService {
	return &ledgerService{bills: bills, payments: payments}
}

// VendorLedger builds the payable ledger for one vendor from its bills and
// payments, sorted by date with a running balance.
func (s *ledgerService) VendorLedger(ctx context.Context, vendorID int64, fromDate, toDate string) (*VendorLedger, error) {
	if vendorID <= 0 {
		return nil, errors.New("vendor id is required")
	}

	bills, _, err := s.bills.List(ctx, repository.BillListFilter{
		VendorID: vendorID,
		FromDate: fromDate,
		ToDate:   toDate,
		Page:     1,
		Limit:    maxLedgerRows,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bills: %w", err)
	}

	payments, _, err := s.payments.List(ctx, repository.PaymentListFilter{
		VendorID: vendorID,
		FromDate: fromDate,
		ToDate:   toDate,
		Page:     1,
		Limit:    maxLedgerRows,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payments: %w", err)
	}

	entries := make([]LedgerEntry, 0, len(bills)+len(payments))
	for _, bill := range bills {
		entries = append(entries, LedgerEntry{
			Date:        bill.BillDate,
			Particulars: fmt.Sprintf("Vendor Bill %s", bill.BillNumber),
			VoucherNo:   bill.BillNumber,
			Credit:      bill.Amount,
			Debit:       decimal.Zero,
		})
	}
	for _, payment := range payments {
		entries = append(entries, LedgerEntry{
			Date:        payment.PaymentDate,
			Particulars: fmt.Sprintf("Payment %s (%s)", payment.PaymentNumber, payment.Method),
			VoucherNo:   payment.PaymentNumber,
			Debit:       payment.Amount,
			Credit:      decimal.Zero,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Date != entries[j].Date {
			return entries[i].Date < entries[j].Date
		}
		return entries[i].VoucherNo < entries[j].VoucherNo
	})

	ledger := &VendorLedger{
		VendorID:    vendorID,
		FromDate:    fromDate,
		ToDate:      toDate,
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
		Closing:     decimal.Zero,
	}
	balance := decimal.Zero
	for i := range entries {
		balance = balance.Add(entries[i].Credit).Sub(entries[i].Debit)
		entries[i].Balance = balance
		ledger.TotalDebit = ledger.TotalDebit.Add(entries[i].Debit)
		ledger.TotalCredit = ledger.TotalCredit.Add(entries[i].Credit)
	}
	ledger.Entries = entries
	ledger.Closing = balance
	return ledger, nil
}

// TrialBalance summarizes purchases, payments and outstanding payables as
// derived accounts. It is a reporting view over the store, not a
// double-entry book.
func (s *ledgerService) TrialBalance(ctx context.Context, asOnDate string) (*TrialBalance, error) {
	bills, _, err := s.bills.List(ctx, repository.BillListFilter{
		ToDate: asOnDate,
		Page:   1,
		Limit:  maxLedgerRows,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bills: %w", err)
	}
	payments, _, err := s.payments.List(ctx, repository.PaymentListFilter{
		ToDate: asOnDate,
		Page:   1,
		Limit:  maxLedgerRows,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payments: %w", err)
	}

	purchases := decimal.Zero
	outstanding := decimal.Zero
	for _, bill := range bills {
		purchases = purchases.Add(bill.Amount)
		if bill.Status != model.BillStatusPaid {
			outstanding = outstanding.Add(bill.Amount)
		}
	}
	paid := decimal.Zero
	for _, payment := range payments {
		paid = paid.Add(payment.Amount)
	}

	rows := []TrialBalanceRow{
		{Account: "Purchases", Debit: purchases, Credit: decimal.Zero},
		{Account: "Cash/Bank", Debit: decimal.Zero, Credit: paid},
		{Account: "Accounts Payable", Debit: decimal.Zero, Credit: outstanding},
	}

	tb := &TrialBalance{AsOnDate: asOnDate, Rows: rows, TotalDebit: decimal.Zero, TotalCredit: decimal.Zero}
	for _, row := range rows {
		tb.TotalDebit = tb.TotalDebit.Add(row.Debit)
		tb.TotalCredit = tb.TotalCredit.Add(row.Credit)
	}
	return tb, nil
}
