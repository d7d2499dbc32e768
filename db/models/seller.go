package models

import (
	"time"
)

// VerifiedSeller : Verified Seller Model
//
// Membership in this table is what allows an address to originate invoices.
// There is no revocation path, the registry is append-only.
type VerifiedSeller struct {
	ID        int64     `json:"id" bun:",pk,autoincrement"`
	Address   string    `json:"address" bun:",unique,notnull"`
	CreatedAt time.Time `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
}
