package rabbitmq

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/invoicesme/invoicehub.go/db/models"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/ziflex/lecho/v3"
)

// bufPool is a classic buffer pool pattern that allows more clever reuse of
// heap memory. Instead of allocating new memory every time we need to encode
// an event we reuse buffers from this pool.
var bufPool = sync.Pool{
	New: func() interface{} { return new(bytes.Buffer) },
}

const (
	contentTypeJSON  = "application/json"
	defaultHeartbeat = 10 * time.Second
	defaultLocale    = "en_US"
)

type (
	SubscribeToEventsFunc = func() (chan models.InvoiceEvent, error)
	EncodeEventFunc       = func(ctx context.Context, w io.Writer, event models.InvoiceEvent) error
)

type Client interface {
	StartPublishEvents(ctx context.Context, subscribe SubscribeToEventsFunc, encoder EncodeEventFunc) error
	// Close will close all connections to rabbitmq
	Close() error
}

type DefaultClient struct {
	conn           *amqp.Connection
	publishChannel *amqp.Channel
	uri            string

	logger *lecho.Logger

	invoiceExchange string
}

type ClientOption = func(client *DefaultClient)

func WithInvoiceExchange(exchange string) ClientOption {
	return func(client *DefaultClient) {
		client.invoiceExchange = exchange
	}
}

func WithLogger(logger *lecho.Logger) ClientOption {
	return func(client *DefaultClient) {
		client.logger = logger
	}
}

// Dial sets up a connection to rabbitmq with a channel ready to publish
func Dial(uri string, options ...ClientOption) (Client, error) {
	client := &DefaultClient{
		uri:             uri,
		invoiceExchange: "invoicehub_invoice",
	}
	for _, opt := range options {
		opt(client)
	}

	err := client.connect()
	if err != nil {
		return nil, err
	}

	return client, nil
}

func (client *DefaultClient) connect() error {
	conn, err := amqp.DialConfig(client.uri, amqp.Config{
		Heartbeat: defaultHeartbeat,
		Locale:    defaultLocale,
		Dial:      amqp.DefaultDial(time.Second * 3),
	})
	if err != nil {
		return err
	}

	publishChannel, err := conn.Channel()
	if err != nil {
		return err
	}

	client.conn = conn
	client.publishChannel = publishChannel

	return nil
}

func (client *DefaultClient) Close() error {
	return client.conn.Close()
}

// StartPublishEvents publishes every invoice event on the configured topic
// exchange with a routing key derived from the event type, reconnecting with
// exponential backoff when the connection drops.
func (client *DefaultClient) StartPublishEvents(ctx context.Context, subscribe SubscribeToEventsFunc, encoder EncodeEventFunc) error {
	err := client.publishChannel.ExchangeDeclare(
		client.invoiceExchange,
		// topic is a type of exchange that allows routing messages to
		// different queues based on the routing key
		"topic",
		// Durable and Non-Auto-Deleted exchanges will survive server
		// restarts and remain declared when there are no remaining bindings.
		true,
		false,
		// Non-Internal exchanges accept direct publishings
		false,
		// Nowait: We set this to false as we want to wait for a server
		// response to check whether the exchange was created successfully
		false,
		nil,
	)
	if err != nil {
		return err
	}

	events, err := subscribe()
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return context.Canceled
		case event := <-events:
			err := client.publishEvent(ctx, event, encoder)
			if err != nil {
				if client.conn.IsClosed() {
					reconnectBackoff := backoff.NewExponentialBackOff()
					reconnectBackoff.MaxInterval = time.Second * 10
					reconnectBackoff.MaxElapsedTime = time.Minute
					if client.logger != nil {
						client.logger.Info("amqp: trying to reconnect...")
					}
					if err = backoff.Retry(client.connect, reconnectBackoff); err != nil {
						return err
					}
					err = client.publishEvent(ctx, event, encoder)
				}
				if err != nil && client.logger != nil {
					client.logger.Errorf("Error publishing invoice event: %v", err)
				}
			}
		}
	}
}

func (client *DefaultClient) publishEvent(ctx context.Context, event models.InvoiceEvent, encoder EncodeEventFunc) error {
	payload := bufPool.Get().(*bytes.Buffer)
	payload.Reset()
	defer bufPool.Put(payload)

	err := encoder(ctx, payload, event)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("invoice.%s", event.Type)
	return client.publishChannel.PublishWithContext(ctx,
		client.invoiceExchange,
		key,
		false,
		false,
		amqp.Publishing{
			ContentType: contentTypeJSON,
			Body:        payload.Bytes(),
		},
	)
}
