package service

import (
	"context"
	"database/sql"

	"github.com/invoicesme/invoicehub.go/common"
	"github.com/invoicesme/invoicehub.go/db/models"
	"github.com/uptrace/bun"
)

// ShareBalance returns the holder's current share balance for an invoice.
// Holders with no row have a balance of zero.
func (svc *InvoiceHubService) ShareBalance(ctx context.Context, invoiceID int64, holder string) (int64, error) {
	holding, err := svc.holdingFor(ctx, svc.DB, invoiceID, holder)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, err
	}
	return holding.Balance, nil
}

func (svc *InvoiceHubService) holdingFor(ctx context.Context, db bun.IDB, invoiceID int64, holder string) (*models.ShareHolding, error) {
	var holding models.ShareHolding
	err := db.NewSelect().Model(&holding).Where("invoice_id = ? AND holder = ?", invoiceID, holder).Limit(1).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &holding, nil
}

func (svc *InvoiceHubService) creditShares(ctx context.Context, db bun.IDB, invoiceID int64, holder string, amount int64) error {
	holding := &models.ShareHolding{
		InvoiceID: invoiceID,
		Holder:    holder,
		Balance:   amount,
	}
	_, err := db.NewInsert().Model(holding).
		On("CONFLICT (invoice_id, holder) DO UPDATE").
		Set("balance = balance + EXCLUDED.balance").
		Exec(ctx)
	return err
}

func (svc *InvoiceHubService) outstandingShares(ctx context.Context, db bun.IDB, invoiceID int64) (int64, error) {
	var outstanding int64
	err := db.NewSelect().Model((*models.ShareHolding)(nil)).
		ColumnExpr("coalesce(sum(balance), 0)").
		Where("invoice_id = ?", invoiceID).
		Scan(ctx, &outstanding)
	return outstanding, err
}

// BurnedShares is the total supply removed through claims for one invoice.
func (svc *InvoiceHubService) BurnedShares(ctx context.Context, invoiceID int64) (int64, error) {
	var burned int64
	err := svc.DB.NewSelect().Model((*models.LedgerEntry)(nil)).
		ColumnExpr("coalesce(sum(amount), 0)").
		Where("invoice_id = ? AND entry_type = ?", invoiceID, common.EntryTypeBurn).
		Scan(ctx, &burned)
	return burned, err
}

func (svc *InvoiceHubService) LedgerEntriesFor(ctx context.Context, invoiceID int64) ([]models.LedgerEntry, error) {
	entries := []models.LedgerEntry{}
	err := svc.DB.NewSelect().Model(&entries).Where("invoice_id = ?", invoiceID).Order("id ASC").Scan(ctx)
	return entries, err
}
