package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {

		if db.Dialect().Name().String() != "pg" {
			fmt.Printf("\033[1;31m%s\033[0m", "You are not using PostgreSQL. DB level checks can not be enabled!\n")
			return nil
		}
		sql := `
			-- share balances can never go negative
				alter table share_holdings
				ADD CONSTRAINT check_balance_non_negative
				CHECK (balance >= 0);

			-- funding is monotonic and capped by the goal
				alter table invoices
				ADD CONSTRAINT check_funded_within_goal
				CHECK (funded_amount >= 0 AND funded_amount <= funding_goal);

			-- the goal is a discount to face value
				alter table invoices
				ADD CONSTRAINT check_goal_below_face_value
				CHECK (funding_goal > 0 AND funding_goal < face_value);
		`
		if _, err := db.Exec(sql); err != nil {
			return err
		}
		return nil
	}, nil)
}
