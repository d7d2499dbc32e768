package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/invoicesme/invoicehub.go/common"
	"github.com/invoicesme/invoicehub.go/lib/responses"
	"github.com/invoicesme/invoicehub.go/lib/service"
	"github.com/labstack/echo/v4"
)

// InvoiceController : Invoice controller struct
type InvoiceController struct {
	svc *service.InvoiceHubService
}

func NewInvoiceController(svc *service.InvoiceHubService) *InvoiceController {
	return &InvoiceController{svc: svc}
}

type CreateInvoiceRequestBody struct {
	Seller            string    `json:"seller" validate:"required"`
	FaceValue         int64     `json:"face_value" validate:"required,gt=0"`
	FundingGoal       int64     `json:"funding_goal" validate:"required,gt=0"`
	DueDate           time.Time `json:"due_date"`
	Title             string    `json:"title"`
	DocumentReference string    `json:"document_reference" validate:"required"`
}

type GetInvoicesResponseBody struct {
	Invoices []Invoice `json:"invoices"`
}

const maxInvoicePageSize = 100

// paginationParams reads ?limit= and ?offset=, defaulting and capping the
// page size so a public query can never sweep the whole table.
func paginationParams(c echo.Context) (limit, offset int) {
	limit = maxInvoicePageSize
	if raw := c.QueryParam("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed < maxInvoicePageSize {
			limit = parsed
		}
	}
	if raw := c.QueryParam("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			offset = parsed
		}
	}
	return limit, offset
}

// CreateInvoice stores a new invoice for a verified seller and mints its
// share supply.
func (controller *InvoiceController) CreateInvoice(c echo.Context) error {
	var body CreateInvoiceRequestBody

	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load create invoice request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		c.Logger().Errorf("Invalid create invoice request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	invoice, err := controller.svc.CreateInvoice(c.Request().Context(), service.CreateInvoiceParams{
		Seller:            body.Seller,
		FaceValue:         body.FaceValue,
		FundingGoal:       body.FundingGoal,
		DueDate:           body.DueDate,
		Title:             body.Title,
		DocumentReference: body.DocumentReference,
	})
	if err != nil {
		c.Logger().Errorf("Failed to create invoice: %v", err)
		return writeErrorResponse(c, err)
	}

	response := newInvoiceResponse(invoice)
	return c.JSON(http.StatusOK, &response)
}

// GetInvoice returns one invoice by id.
func (controller *InvoiceController) GetInvoice(c echo.Context) error {
	invoiceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	invoice, err := controller.svc.FindInvoice(c.Request().Context(), invoiceID)
	if err != nil {
		return writeErrorResponse(c, err)
	}

	response := newInvoiceResponse(invoice)
	return c.JSON(http.StatusOK, &response)
}

// GetInvoices lists invoices, optionally filtered by ?status= and ?seller=,
// paginated with ?limit= and ?offset=.
func (controller *InvoiceController) GetInvoices(c echo.Context) error {
	limit, offset := paginationParams(c)
	invoices, err := controller.svc.Invoices(c.Request().Context(), c.QueryParam("status"), c.QueryParam("seller"), limit, offset)
	if err != nil {
		return writeErrorResponse(c, err)
	}

	response := make([]Invoice, len(invoices))
	for i, invoice := range invoices {
		invoice := invoice
		response[i] = newInvoiceResponse(&invoice)
	}
	return c.JSON(http.StatusOK, &GetInvoicesResponseBody{Invoices: response})
}

// GetListedInvoices is the marketplace view: invoices open for investment
// with their remaining funding room.
func (controller *InvoiceController) GetListedInvoices(c echo.Context) error {
	limit, offset := paginationParams(c)
	invoices, err := controller.svc.Invoices(c.Request().Context(), common.InvoiceStatusListed, "", limit, offset)
	if err != nil {
		return writeErrorResponse(c, err)
	}

	response := make([]Invoice, len(invoices))
	for i, invoice := range invoices {
		invoice := invoice
		response[i] = newInvoiceResponse(&invoice)
	}
	return c.JSON(http.StatusOK, &GetInvoicesResponseBody{Invoices: response})
}
