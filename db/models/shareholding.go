package models

// ShareHolding : Share Holding Model
//
// Current share balance of a holder for one invoice. Balances are
// non-negative; for every invoice the sum of all balances plus the amount
// burned through claims equals the funding goal.
type ShareHolding struct {
	ID        int64    `json:"id" bun:",pk,autoincrement"`
	InvoiceID int64    `json:"invoice_id" bun:",notnull,unique:holding_invoice_holder"`
	Invoice   *Invoice `json:"-" bun:"rel:belongs-to,join:invoice_id=id"`
	Holder    string   `json:"holder" bun:",notnull,unique:holding_invoice_holder"`
	Balance   int64    `json:"balance" bun:",notnull,default:0"`
}
