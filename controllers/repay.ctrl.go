package controllers

import (
	"net/http"
	"strconv"

	"github.com/invoicesme/invoicehub.go/lib/responses"
	"github.com/invoicesme/invoicehub.go/lib/service"
	"github.com/labstack/echo/v4"
)

// RepayController : Repayment controller struct
type RepayController struct {
	svc *service.InvoiceHubService
}

func NewRepayController(svc *service.InvoiceHubService) *RepayController {
	return &RepayController{svc: svc}
}

type RepayRequestBody struct {
	From   string `json:"from" validate:"required"`
	Amount int64  `json:"amount" validate:"required,gt=0"`
}

// Repay deposits the lump-sum repayment for a funded invoice.
func (controller *RepayController) Repay(c echo.Context) error {
	invoiceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	var body RepayRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load repay request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	invoice, err := controller.svc.Repay(c.Request().Context(), body.From, invoiceID, body.Amount)
	if err != nil {
		c.Logger().Errorf("Failed repayment of %d for invoice %d: %v", body.Amount, invoiceID, err)
		return writeErrorResponse(c, err)
	}

	response := newInvoiceResponse(invoice)
	return c.JSON(http.StatusOK, &response)
}
