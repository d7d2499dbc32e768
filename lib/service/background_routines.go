package service

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/invoicesme/invoicehub.go/common"
	"github.com/invoicesme/invoicehub.go/db/models"
)

// StartRiskCheckRoutine periodically scores Pending invoices through the
// external agent. The routine only drives the RiskGate, a manual score
// submission through the admin surface wins any race because the gate
// re-checks the invoice state.
func (svc *InvoiceHubService) StartRiskCheckRoutine(ctx context.Context) error {
	interval := time.Duration(svc.Config.RiskPollInterval) * time.Second
	svc.Logger.Infof("Starting risk check routine with interval %v", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			// uncapped so old pending invoices are never starved
			pending, err := svc.Invoices(ctx, common.InvoiceStatusPending, "", 0, 0)
			if err != nil {
				svc.Logger.Error(err)
				continue
			}
			for _, invoice := range pending {
				if _, _, err := svc.CheckRiskScore(ctx, invoice.ID, "", ""); err != nil {
					svc.Logger.Errorf("Risk check failed for invoice %d: %v", invoice.ID, err)
				}
			}
		}
	}
}

// SubscribeInvoiceEvents feeds the rabbitmq publisher.
func (svc *InvoiceHubService) SubscribeInvoiceEvents() (chan models.InvoiceEvent, error) {
	events := make(chan models.InvoiceEvent)
	svc.InvoicePubSub.Subscribe(EventTypeAll, events)
	return events, nil
}

func (svc *InvoiceHubService) EncodeInvoiceEvent(ctx context.Context, w io.Writer, event models.InvoiceEvent) error {
	return json.NewEncoder(w).Encode(event)
}
