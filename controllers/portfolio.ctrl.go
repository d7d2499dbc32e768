package controllers

import (
	"net/http"

	"github.com/invoicesme/invoicehub.go/lib/service"
	"github.com/labstack/echo/v4"
)

// PortfolioController : Investor portfolio controller struct
type PortfolioController struct {
	svc *service.InvoiceHubService
}

func NewPortfolioController(svc *service.InvoiceHubService) *PortfolioController {
	return &PortfolioController{svc: svc}
}

type PortfolioEntry struct {
	Invoice      Invoice `json:"invoice"`
	ShareBalance int64   `json:"share_balance"`
}

type PortfolioResponseBody struct {
	Holdings []PortfolioEntry `json:"holdings"`
}

// Portfolio returns all invoices the address currently holds shares in.
func (controller *PortfolioController) Portfolio(c echo.Context) error {
	holder := c.Param("address")

	entries, err := controller.svc.Portfolio(c.Request().Context(), holder)
	if err != nil {
		return writeErrorResponse(c, err)
	}

	response := make([]PortfolioEntry, len(entries))
	for i, entry := range entries {
		entry := entry
		response[i] = PortfolioEntry{
			Invoice:      newInvoiceResponse(&entry.Invoice),
			ShareBalance: entry.ShareBalance,
		}
	}
	return c.JSON(http.StatusOK, &PortfolioResponseBody{Holdings: response})
}
