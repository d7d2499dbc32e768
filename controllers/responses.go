package controllers

import (
	"errors"
	"time"

	"github.com/invoicesme/invoicehub.go/db/models"
	"github.com/invoicesme/invoicehub.go/lib/responses"
	"github.com/invoicesme/invoicehub.go/lib/service"
	"github.com/labstack/echo/v4"
)

// Invoice is the public projection of an invoice record.
type Invoice struct {
	ID                int64     `json:"id"`
	Seller            string    `json:"seller"`
	Title             string    `json:"title"`
	DocumentReference string    `json:"document_reference"`
	FaceValue         int64     `json:"face_value"`
	FundingGoal       int64     `json:"funding_goal"`
	DueDate           time.Time `json:"due_date,omitempty"`
	RiskScore         *int64    `json:"risk_score,omitempty"`
	FundedAmount      int64     `json:"funded_amount"`
	RemainingFunding  int64     `json:"remaining_funding"`
	RepaymentAmount   int64     `json:"repayment_amount"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
}

func newInvoiceResponse(invoice *models.Invoice) Invoice {
	response := Invoice{
		ID:                invoice.ID,
		Seller:            invoice.Seller,
		Title:             invoice.Title,
		DocumentReference: invoice.DocumentReference,
		FaceValue:         invoice.FaceValue,
		FundingGoal:       invoice.FundingGoal,
		DueDate:           invoice.DueDate.Time,
		FundedAmount:      invoice.FundedAmount,
		RemainingFunding:  invoice.RemainingFunding(),
		RepaymentAmount:   invoice.RepaymentAmount,
		Status:            invoice.Status,
		CreatedAt:         invoice.CreatedAt,
	}
	if invoice.RiskScore.Valid {
		score := invoice.RiskScore.Int64
		response.RiskScore = &score
	}
	return response
}

// writeErrorResponse translates a service error to the matching entry of the
// response catalogue.
func writeErrorResponse(c echo.Context, err error) error {
	var response responses.ErrorResponse
	switch {
	case errors.Is(err, service.ErrSellerNotVerified):
		response = responses.SellerNotVerifiedError
	case errors.Is(err, service.ErrInvoiceNotFound):
		response = responses.InvoiceNotFoundError
	case errors.Is(err, service.ErrInvalidInvoiceState):
		response = responses.InvalidInvoiceStateError
	case errors.Is(err, service.ErrFundingRoomExceeded):
		response = responses.FundingRoomExceededError
	case errors.Is(err, service.ErrInsufficientFunds):
		response = responses.NotEnoughBalanceError
	case errors.Is(err, service.ErrNothingToClaim):
		response = responses.NothingToClaimError
	case errors.Is(err, service.ErrInvalidAmount), errors.Is(err, service.ErrInvalidFundingGoal):
		response = responses.BadArgumentsError
	default:
		response = responses.GeneralServerError
	}
	return c.JSON(response.HttpStatusCode, response)
}
