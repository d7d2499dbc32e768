package service

import (
	"context"
	"database/sql"
	"sync"

	"github.com/invoicesme/invoicehub.go/db/models"
	"github.com/invoicesme/invoicehub.go/rabbitmq"
	"github.com/invoicesme/invoicehub.go/risk"
	"github.com/invoicesme/invoicehub.go/token"
	"github.com/uptrace/bun"
	"github.com/ziflex/lecho/v3"
)

type InvoiceHubService struct {
	Config         *Config
	DB             *bun.DB
	Logger         *lecho.Logger
	TokenClient    token.Client
	RiskClient     risk.ScoreClientWrapper
	InvoicePubSub  *Pubsub
	RabbitMQClient rabbitmq.Client

	invoiceLocks sync.Map // invoice id -> *sync.Mutex
}

// lockInvoice serializes all mutating operations on one invoice so a
// precondition check and the mutation it guards are never interleaved with
// another writer. Operations on different invoices stay independent.
func (svc *InvoiceHubService) lockInvoice(invoiceID int64) func() {
	v, _ := svc.invoiceLocks.LoadOrStore(invoiceID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (svc *InvoiceHubService) publishEvent(event models.InvoiceEvent) {
	svc.Logger.Infof("Publishing event %s invoice_id:%v", event.Type, event.Invoice.ID)
	svc.InvoicePubSub.Publish(event.Type, event)
}

func (svc *InvoiceHubService) findInvoice(ctx context.Context, db bun.IDB, invoiceID int64) (*models.Invoice, error) {
	var invoice models.Invoice
	err := db.NewSelect().Model(&invoice).Where("id = ?", invoiceID).Limit(1).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	return &invoice, nil
}
