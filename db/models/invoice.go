package models

import (
	"context"
	"database/sql"
	"time"

	"github.com/uptrace/bun"
)

// Invoice : Invoice Model
//
// An invoice is created once and then mutated in place through its Status,
// RiskScore, FundedAmount and RepaymentAmount fields. Rows are never deleted
// so the full history stays auditable.
type Invoice struct {
	ID                int64         `json:"id" bun:",pk,autoincrement"`
	Seller            string        `json:"seller" bun:",notnull"`
	Title             string        `json:"title" bun:",nullzero"`
	DocumentReference string        `json:"document_reference" bun:",notnull"`
	FaceValue         int64         `json:"face_value" bun:",notnull"`
	FundingGoal       int64         `json:"funding_goal" bun:",notnull"`
	DueDate           bun.NullTime  `json:"due_date" bun:",nullzero"`
	RiskScore         sql.NullInt64 `json:"risk_score" bun:",nullzero"`
	FundedAmount      int64         `json:"funded_amount" bun:",notnull,default:0"`
	RepaymentAmount   int64         `json:"repayment_amount" bun:",notnull,default:0"`
	Status            string        `json:"status" bun:",notnull,default:'pending'"`
	CreatedAt         time.Time     `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt         bun.NullTime  `json:"updated_at"`
}

func (i *Invoice) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.UpdateQuery:
		i.UpdatedAt = bun.NullTime{Time: time.Now()}
	}
	return nil
}

// RemainingFunding is the amount that can still be invested before the
// funding goal is reached.
func (i *Invoice) RemainingFunding() int64 {
	return i.FundingGoal - i.FundedAmount
}

var _ bun.BeforeAppendModelHook = (*Invoice)(nil)
