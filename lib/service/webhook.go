package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/invoicesme/invoicehub.go/db/models"
)

// a hung webhook endpoint must not stall the event subscription forever
var webhookHTTPClient = &http.Client{Timeout: 30 * time.Second}

func (svc *InvoiceHubService) StartWebhookSubscription(ctx context.Context, url string) {

	svc.Logger.Infof("Starting webhook subscription with webhook url %s", url)
	events := make(chan models.InvoiceEvent)
	subID := svc.InvoicePubSub.Subscribe(EventTypeAll, events)
	defer svc.InvoicePubSub.Unsubscribe(subID, EventTypeAll)
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-events:
			svc.postToWebhook(event, url)
		}
	}
}

func (svc *InvoiceHubService) postToWebhook(event models.InvoiceEvent, url string) {

	payload := new(bytes.Buffer)
	err := json.NewEncoder(payload).Encode(event)
	if err != nil {
		svc.Logger.Error(err)
		return
	}

	resp, err := webhookHTTPClient.Post(url, "application/json", payload)
	if err != nil {
		svc.Logger.Error(err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, err := io.ReadAll(resp.Body)
		if err != nil {
			svc.Logger.Error(err)
		}
		svc.Logger.Errorf("Webhook status code was %d, body: %s", resp.StatusCode, msg)
	}
}
