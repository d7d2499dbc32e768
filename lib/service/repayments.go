package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/invoicesme/invoicehub.go/common"
	"github.com/invoicesme/invoicehub.go/db/models"
	"github.com/uptrace/bun"
)

// Repay pulls the lump-sum repayment from the treasury account into custody
// and unlocks claims. The invoice must be fully funded.
func (svc *InvoiceHubService) Repay(ctx context.Context, from string, invoiceID int64, amount int64) (*models.Invoice, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	unlock := svc.lockInvoice(invoiceID)

	var invoice *models.Invoice
	err := svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var err error
		invoice, err = svc.findInvoice(ctx, tx, invoiceID)
		if err != nil {
			return err
		}
		if invoice.Status != common.InvoiceStatusFunded {
			return ErrInvalidInvoiceState
		}
		invoice.RepaymentAmount = amount
		invoice.Status = common.InvoiceStatusRepaid
		if _, err = tx.NewUpdate().Model(invoice).WherePK().Exec(ctx); err != nil {
			return err
		}
		if err = svc.TokenClient.TransferFrom(ctx, svc.Config.CustodyAccount, from, svc.Config.CustodyAccount, amount); err != nil {
			return fmt.Errorf("%w: %v", ErrInsufficientFunds, err)
		}
		return nil
	})
	unlock()
	if err != nil {
		return nil, err
	}

	svc.publishEvent(models.InvoiceEvent{Type: common.EventTypeInvoiceRepaid, Invoice: *invoice, Amount: amount})
	return invoice, nil
}

// Claim burns the holder's shares for their pro-rata portion of the
// repayment. The balance is zeroed before anything is paid out, so a second
// claim finds nothing to claim no matter how the payout call behaves.
// Integer division rounds each payout down; the residual dust stays in
// custody.
func (svc *InvoiceHubService) Claim(ctx context.Context, holder string, invoiceID int64) (int64, *models.Invoice, error) {
	unlock := svc.lockInvoice(invoiceID)

	var invoice *models.Invoice
	var payout int64
	closed := false
	err := svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var err error
		invoice, err = svc.findInvoice(ctx, tx, invoiceID)
		if err != nil {
			return err
		}
		if invoice.Status != common.InvoiceStatusRepaid {
			return ErrInvalidInvoiceState
		}

		holding, err := svc.holdingFor(ctx, tx, invoiceID, holder)
		if err != nil {
			if err == sql.ErrNoRows {
				return ErrNothingToClaim
			}
			return err
		}
		if holding.Balance == 0 {
			return ErrNothingToClaim
		}

		burned := holding.Balance
		holding.Balance = 0
		if _, err = tx.NewUpdate().Model(holding).WherePK().Exec(ctx); err != nil {
			return err
		}
		entry := &models.LedgerEntry{
			InvoiceID:   invoiceID,
			EntryType:   common.EntryTypeBurn,
			DebitHolder: holder,
			Amount:      burned,
		}
		if _, err = tx.NewInsert().Model(entry).Exec(ctx); err != nil {
			return err
		}

		payout = burned * invoice.RepaymentAmount / invoice.FundingGoal

		outstanding, err := svc.outstandingShares(ctx, tx, invoiceID)
		if err != nil {
			return err
		}
		if outstanding == 0 {
			invoice.Status = common.InvoiceStatusClosed
			closed = true
			if _, err = tx.NewUpdate().Model(invoice).WherePK().Exec(ctx); err != nil {
				return err
			}
		}

		if err = svc.TokenClient.Transfer(ctx, svc.Config.CustodyAccount, holder, payout); err != nil {
			return fmt.Errorf("%w: %v", ErrInsufficientFunds, err)
		}
		return nil
	})
	unlock()
	if err != nil {
		return 0, nil, err
	}

	svc.publishEvent(models.InvoiceEvent{Type: common.EventTypeFundsClaimed, Invoice: *invoice, Holder: holder, Amount: payout})
	if closed {
		svc.publishEvent(models.InvoiceEvent{Type: common.EventTypeInvoiceClosed, Invoice: *invoice})
	}
	return payout, invoice, nil
}
