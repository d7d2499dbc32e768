package common

const (
	InvoiceStatusPending      = "pending"
	InvoiceStatusManualReview = "manual_review"
	InvoiceStatusListed       = "listed"
	InvoiceStatusFunded       = "funded"
	InvoiceStatusRepaid       = "repaid"
	InvoiceStatusClosed       = "closed"

	EntryTypeMint     = "mint"
	EntryTypeTransfer = "transfer"
	EntryTypeBurn     = "burn"

	EventTypeInvoiceCreated     = "invoice_created"
	EventTypeInvoiceListed      = "invoice_listed"
	EventTypeInvoiceNeedsReview = "invoice_needs_review"
	EventTypeInvestmentMade     = "investment_made"
	EventTypeInvoiceFunded      = "invoice_funded"
	EventTypeInvoiceRepaid      = "invoice_repaid"
	EventTypeFundsClaimed       = "funds_claimed"
	EventTypeInvoiceClosed      = "invoice_closed"
	EventTypeSellerVerified     = "seller_verified"
)
