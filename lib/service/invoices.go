package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/invoicesme/invoicehub.go/common"
	"github.com/invoicesme/invoicehub.go/db/models"
	"github.com/uptrace/bun"
)

type CreateInvoiceParams struct {
	Seller            string
	FaceValue         int64
	FundingGoal       int64
	DueDate           time.Time
	Title             string
	DocumentReference string
}

// CreateInvoice stores a new invoice in Pending and mints the full share
// supply (equal to the funding goal) to the seller. The funding goal must be
// a discount to the face value, otherwise the pro-rata distribution could pay
// out more than was deposited.
func (svc *InvoiceHubService) CreateInvoice(ctx context.Context, params CreateInvoiceParams) (*models.Invoice, error) {
	verified, err := svc.IsVerifiedSeller(ctx, params.Seller)
	if err != nil {
		return nil, err
	}
	if !verified {
		return nil, ErrSellerNotVerified
	}
	if params.FundingGoal <= 0 || params.FundingGoal >= params.FaceValue {
		return nil, ErrInvalidFundingGoal
	}

	invoice := &models.Invoice{
		Seller:            params.Seller,
		Title:             params.Title,
		DocumentReference: params.DocumentReference,
		FaceValue:         params.FaceValue,
		FundingGoal:       params.FundingGoal,
		Status:            common.InvoiceStatusPending,
	}
	if !params.DueDate.IsZero() {
		invoice.DueDate = bun.NullTime{Time: params.DueDate}
	}

	err = svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(invoice).Exec(ctx); err != nil {
			return err
		}
		holding := &models.ShareHolding{
			InvoiceID: invoice.ID,
			Holder:    params.Seller,
			Balance:   params.FundingGoal,
		}
		if _, err := tx.NewInsert().Model(holding).Exec(ctx); err != nil {
			return err
		}
		entry := &models.LedgerEntry{
			InvoiceID:    invoice.ID,
			EntryType:    common.EntryTypeMint,
			CreditHolder: params.Seller,
			Amount:       params.FundingGoal,
		}
		_, err := tx.NewInsert().Model(entry).Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	svc.publishEvent(models.InvoiceEvent{Type: common.EventTypeInvoiceCreated, Invoice: *invoice})
	return invoice, nil
}

func (svc *InvoiceHubService) FindInvoice(ctx context.Context, invoiceID int64) (*models.Invoice, error) {
	return svc.findInvoice(ctx, svc.DB, invoiceID)
}

// Invoices lists invoices, newest first, optionally filtered by status
// and/or seller. A limit of zero or less returns everything, which internal
// feeds rely on; the HTTP surface always passes a limit.
func (svc *InvoiceHubService) Invoices(ctx context.Context, status, seller string, limit, offset int) ([]models.Invoice, error) {
	invoices := []models.Invoice{}
	query := svc.DB.NewSelect().Model(&invoices)
	if status != "" {
		query.Where("status = ?", status)
	}
	if seller != "" {
		query.Where("seller = ?", seller)
	}
	query.OrderExpr("id DESC")
	if limit > 0 {
		query.Limit(limit).Offset(offset)
	}
	err := query.Scan(ctx)
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

// InvoicesByInvestor lists the invoices in which the address currently holds
// a nonzero share balance.
func (svc *InvoiceHubService) InvoicesByInvestor(ctx context.Context, investor string) ([]models.Invoice, error) {
	invoices := []models.Invoice{}
	err := svc.DB.NewSelect().Model(&invoices).
		Join("JOIN share_holdings AS holding ON holding.invoice_id = invoice.id").
		Where("holding.holder = ? AND holding.balance > 0", investor).
		OrderExpr("invoice.id DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

type PortfolioEntry struct {
	Invoice      models.Invoice `json:"invoice"`
	ShareBalance int64          `json:"share_balance"`
}

// Portfolio returns the address's holdings together with the invoices they
// are claims on.
func (svc *InvoiceHubService) Portfolio(ctx context.Context, holder string) ([]PortfolioEntry, error) {
	holdings := []models.ShareHolding{}
	err := svc.DB.NewSelect().Model(&holdings).
		Relation("Invoice").
		Where("share_holding.holder = ? AND share_holding.balance > 0", holder).
		OrderExpr("share_holding.invoice_id DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]PortfolioEntry, len(holdings))
	for i, holding := range holdings {
		entries[i] = PortfolioEntry{
			Invoice:      *holding.Invoice,
			ShareBalance: holding.Balance,
		}
	}
	return entries, nil
}
