package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/invoicesme/invoicehub.go/common"
	"github.com/invoicesme/invoicehub.go/db/models"
	"github.com/uptrace/bun"
)

// Invest moves the investor's capital to the seller and the matching amount
// of shares from the seller to the investor, in one atomic unit. An amount
// above the remaining funding room is rejected, never clamped: the remaining
// room is public, so an investor racing for the last portion can request it
// exactly.
func (svc *InvoiceHubService) Invest(ctx context.Context, investor string, invoiceID int64, amount int64) (*models.Invoice, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	unlock := svc.lockInvoice(invoiceID)

	var invoice *models.Invoice
	goalReached := false
	err := svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var err error
		invoice, err = svc.findInvoice(ctx, tx, invoiceID)
		if err != nil {
			return err
		}
		if invoice.Status != common.InvoiceStatusListed {
			return ErrInvalidInvoiceState
		}
		if amount > invoice.RemainingFunding() {
			return ErrFundingRoomExceeded
		}

		sellerHolding, err := svc.holdingFor(ctx, tx, invoiceID, invoice.Seller)
		if err != nil {
			return err
		}
		// conservation keeps the seller's unsold shares equal to the
		// remaining funding room
		if sellerHolding.Balance < amount {
			return fmt.Errorf("%w: seller holds %d shares, %d requested", ErrShareSupplyMismatch, sellerHolding.Balance, amount)
		}

		sellerHolding.Balance -= amount
		if _, err = tx.NewUpdate().Model(sellerHolding).WherePK().Exec(ctx); err != nil {
			return err
		}
		if err = svc.creditShares(ctx, tx, invoiceID, investor, amount); err != nil {
			return err
		}
		entry := &models.LedgerEntry{
			InvoiceID:    invoiceID,
			EntryType:    common.EntryTypeTransfer,
			DebitHolder:  invoice.Seller,
			CreditHolder: investor,
			Amount:       amount,
		}
		if _, err = tx.NewInsert().Model(entry).Exec(ctx); err != nil {
			return err
		}

		invoice.FundedAmount += amount
		if invoice.FundedAmount == invoice.FundingGoal {
			invoice.Status = common.InvoiceStatusFunded
			goalReached = true
		}
		if _, err = tx.NewUpdate().Model(invoice).WherePK().Exec(ctx); err != nil {
			return err
		}

		// the payment settles last so a failed transfer can never leave the
		// share ledger half-applied
		if err = svc.TokenClient.TransferFrom(ctx, svc.Config.CustodyAccount, investor, invoice.Seller, amount); err != nil {
			return fmt.Errorf("%w: %v", ErrInsufficientFunds, err)
		}
		return nil
	})
	// the lock only guards the check-then-act sequence; a stalled event
	// subscriber must not keep the invoice wedged
	unlock()
	if err != nil {
		return nil, err
	}

	svc.publishEvent(models.InvoiceEvent{Type: common.EventTypeInvestmentMade, Invoice: *invoice, Holder: investor, Amount: amount})
	if goalReached {
		svc.publishEvent(models.InvoiceEvent{Type: common.EventTypeInvoiceFunded, Invoice: *invoice})
	}
	return invoice, nil
}
