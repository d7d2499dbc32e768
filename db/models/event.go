package models

// InvoiceEvent : Invoice Event Model
//
// Published on the in-process pubsub whenever an invoice changes state and
// forwarded to the configured webhook and rabbitmq exchange.
type InvoiceEvent struct {
	Type    string  `json:"type"`
	Invoice Invoice `json:"invoice"`
	Holder  string  `json:"holder,omitempty"`
	Amount  int64   `json:"amount,omitempty"`
}
