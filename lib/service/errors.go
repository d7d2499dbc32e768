package service

import (
	"errors"
)

var (
	ErrSellerNotVerified   = errors.New("seller is not verified")
	ErrInvoiceNotFound     = errors.New("invoice not found")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInvalidFundingGoal  = errors.New("funding goal must be positive and below face value")
	ErrInvalidInvoiceState = errors.New("invoice is not in the required state")
	ErrFundingRoomExceeded = errors.New("amount exceeds the remaining funding room")
	// ErrShareSupplyMismatch signals a conservation breach: the seller's
	// unsold shares no longer match the remaining funding room.
	ErrShareSupplyMismatch = errors.New("seller holding does not cover the requested shares")
	ErrInsufficientFunds   = errors.New("payment transfer failed")
	ErrNothingToClaim      = errors.New("holder has no shares to claim")
)
