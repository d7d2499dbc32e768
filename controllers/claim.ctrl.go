package controllers

import (
	"net/http"
	"strconv"

	"github.com/invoicesme/invoicehub.go/lib/responses"
	"github.com/invoicesme/invoicehub.go/lib/service"
	"github.com/labstack/echo/v4"
)

// ClaimController : Repayment claim controller struct
type ClaimController struct {
	svc *service.InvoiceHubService
}

func NewClaimController(svc *service.InvoiceHubService) *ClaimController {
	return &ClaimController{svc: svc}
}

type ClaimRequestBody struct {
	Holder string `json:"holder" validate:"required"`
}

type ClaimResponseBody struct {
	Invoice Invoice `json:"invoice"`
	Payout  int64   `json:"payout"`
}

// Claim burns the holder's shares for their pro-rata part of the repayment.
func (controller *ClaimController) Claim(c echo.Context) error {
	invoiceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	var body ClaimRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load claim request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	payout, invoice, err := controller.svc.Claim(c.Request().Context(), body.Holder, invoiceID)
	if err != nil {
		c.Logger().Errorf("Failed claim by %s on invoice %d: %v", body.Holder, invoiceID, err)
		return writeErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, &ClaimResponseBody{
		Invoice: newInvoiceResponse(invoice),
		Payout:  payout,
	})
}
