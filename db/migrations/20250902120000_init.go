package migrations

import (
	"context"

	"github.com/invoicesme/invoicehub.go/db/models"
	"github.com/uptrace/bun"
)

/* Since this init will reflect the latest model fields when run on a fresh db
make sure that when you add/remove columns in subsequent migrations
IfNotExists/IfExists is used, otherwise it's going to result in errors. */
func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {

		if _, err := db.NewCreateTable().Model((*models.Invoice)(nil)).Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateTable().Model((*models.VerifiedSeller)(nil)).Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateTable().Model((*models.ShareHolding)(nil)).Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateTable().Model((*models.LedgerEntry)(nil)).Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateIndex().Model((*models.ShareHolding)(nil)).Index("share_holdings_holder_idx").Column("holder").Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateIndex().Model((*models.LedgerEntry)(nil)).Index("ledger_entries_invoice_id_idx").Column("invoice_id").Exec(ctx); err != nil {
			return err
		}

		return nil
	}, nil)
}
