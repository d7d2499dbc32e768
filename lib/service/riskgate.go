package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/invoicesme/invoicehub.go/common"
	"github.com/invoicesme/invoicehub.go/db/models"
	"github.com/invoicesme/invoicehub.go/risk"
	"github.com/uptrace/bun"
)

// SubmitRiskScore applies an externally computed score to a Pending invoice.
// Scores at or below the listing threshold list the invoice right away,
// anything above it goes to manual review. This is the only place the score
// is ever written.
func (svc *InvoiceHubService) SubmitRiskScore(ctx context.Context, invoiceID int64, score int64) (*models.Invoice, error) {
	unlock := svc.lockInvoice(invoiceID)

	var invoice *models.Invoice
	var eventType string
	err := svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var err error
		invoice, err = svc.findInvoice(ctx, tx, invoiceID)
		if err != nil {
			return err
		}
		if invoice.Status != common.InvoiceStatusPending {
			return ErrInvalidInvoiceState
		}
		invoice.RiskScore = sql.NullInt64{Int64: score, Valid: true}
		if score <= svc.Config.ListingThreshold {
			invoice.Status = common.InvoiceStatusListed
			eventType = common.EventTypeInvoiceListed
		} else {
			invoice.Status = common.InvoiceStatusManualReview
			eventType = common.EventTypeInvoiceNeedsReview
		}
		_, err = tx.NewUpdate().Model(invoice).WherePK().Exec(ctx)
		return err
	})
	unlock()
	if err != nil {
		return nil, err
	}

	svc.publishEvent(models.InvoiceEvent{Type: eventType, Invoice: *invoice, Amount: score})
	return invoice, nil
}

// ApproveForListing is the administrator override that moves an invoice out
// of manual review. No re-scoring happens.
func (svc *InvoiceHubService) ApproveForListing(ctx context.Context, invoiceID int64) (*models.Invoice, error) {
	unlock := svc.lockInvoice(invoiceID)

	var invoice *models.Invoice
	err := svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var err error
		invoice, err = svc.findInvoice(ctx, tx, invoiceID)
		if err != nil {
			return err
		}
		if invoice.Status != common.InvoiceStatusManualReview {
			return ErrInvalidInvoiceState
		}
		invoice.Status = common.InvoiceStatusListed
		_, err = tx.NewUpdate().Model(invoice).WherePK().Exec(ctx)
		return err
	})
	unlock()
	if err != nil {
		return nil, err
	}

	svc.publishEvent(models.InvoiceEvent{Type: common.EventTypeInvoiceListed, Invoice: *invoice})
	return invoice, nil
}

// CheckRiskScore asks the scoring agent for a score and submits the result.
// The agent call happens outside the ledger transaction, SubmitRiskScore
// re-checks the invoice state afterwards.
func (svc *InvoiceHubService) CheckRiskScore(ctx context.Context, invoiceID int64, country, industry string) (*models.Invoice, *risk.ScoreResult, error) {
	invoice, err := svc.FindInvoice(ctx, invoiceID)
	if err != nil {
		return nil, nil, err
	}
	if invoice.Status != common.InvoiceStatusPending {
		return nil, nil, ErrInvalidInvoiceState
	}

	result, err := svc.RiskClient.Score(ctx, risk.ScoreRequest{
		Wallet:       invoice.Seller,
		Country:      country,
		Amount:       invoice.FundingGoal,
		Industry:     industry,
		DaysUntilDue: risk.DaysUntilDue(invoice.DueDate.Time, time.Now()),
	})
	if err != nil {
		return nil, nil, err
	}

	invoice, err = svc.SubmitRiskScore(ctx, invoiceID, result.RiskScore)
	if err != nil {
		return nil, nil, err
	}
	return invoice, result, nil
}
