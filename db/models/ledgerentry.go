package models

import (
	"time"
)

// LedgerEntry : Share Ledger Entry Model
//
// Immutable audit trail of share movements. Mints have no debit holder,
// burns have no credit holder.
type LedgerEntry struct {
	ID           int64     `json:"id" bun:",pk,autoincrement"`
	InvoiceID    int64     `json:"invoice_id" bun:",notnull"`
	Invoice      *Invoice  `json:"-" bun:"rel:belongs-to,join:invoice_id=id"`
	EntryType    string    `json:"entry_type" bun:",notnull"`
	DebitHolder  string    `json:"debit_holder" bun:",nullzero"`
	CreditHolder string    `json:"credit_holder" bun:",nullzero"`
	Amount       int64     `json:"amount" bun:",notnull"`
	CreatedAt    time.Time `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
}
