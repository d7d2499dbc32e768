package controllers

import (
	"net/http"
	"strconv"

	"github.com/invoicesme/invoicehub.go/lib/responses"
	"github.com/invoicesme/invoicehub.go/lib/service"
	"github.com/labstack/echo/v4"
)

// InvestController : Investment controller struct
type InvestController struct {
	svc *service.InvoiceHubService
}

func NewInvestController(svc *service.InvoiceHubService) *InvestController {
	return &InvestController{svc: svc}
}

type InvestRequestBody struct {
	Investor string `json:"investor" validate:"required"`
	Amount   int64  `json:"amount" validate:"required,gt=0"`
}

type InvestResponseBody struct {
	Invoice      Invoice `json:"invoice"`
	ShareBalance int64   `json:"share_balance"`
}

// Invest buys shares in a listed invoice.
func (controller *InvestController) Invest(c echo.Context) error {
	invoiceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	var body InvestRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load invest request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	invoice, err := controller.svc.Invest(c.Request().Context(), body.Investor, invoiceID, body.Amount)
	if err != nil {
		c.Logger().Errorf("Failed investment of %d in invoice %d: %v", body.Amount, invoiceID, err)
		return writeErrorResponse(c, err)
	}

	balance, err := controller.svc.ShareBalance(c.Request().Context(), invoiceID, body.Investor)
	if err != nil {
		return writeErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, &InvestResponseBody{
		Invoice:      newInvoiceResponse(invoice),
		ShareBalance: balance,
	})
}
