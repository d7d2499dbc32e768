// Package token abstracts the payment currency the marketplace settles in.
// The ledger only relies on the fungible balance/transfer/allowance
// primitives and on transfers being all-or-nothing.
package token

import (
	"context"
	"errors"
)

var (
	ErrInsufficientBalance   = errors.New("token: insufficient balance")
	ErrInsufficientAllowance = errors.New("token: insufficient allowance")
)

type Client interface {
	BalanceOf(ctx context.Context, account string) (int64, error)
	// Transfer moves amount from the caller's own account.
	Transfer(ctx context.Context, from, to string, amount int64) error
	// TransferFrom moves amount out of from's account on behalf of spender,
	// consuming spender's allowance.
	TransferFrom(ctx context.Context, spender, from, to string, amount int64) error
	Approve(ctx context.Context, owner, spender string, amount int64) error
}
