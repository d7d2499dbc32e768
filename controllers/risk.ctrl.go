package controllers

import (
	"net/http"
	"strconv"

	"github.com/invoicesme/invoicehub.go/lib/responses"
	"github.com/invoicesme/invoicehub.go/lib/service"
	"github.com/labstack/echo/v4"
)

// RiskController : Risk gate controller struct
type RiskController struct {
	svc *service.InvoiceHubService
}

func NewRiskController(svc *service.InvoiceHubService) *RiskController {
	return &RiskController{svc: svc}
}

type SubmitRiskScoreRequestBody struct {
	Score int64 `json:"score" validate:"gte=0,lte=100"`
}

type RiskCheckRequestBody struct {
	Country  string `json:"country"`
	Industry string `json:"industry"`
}

type RiskCheckResponseBody struct {
	Invoice   Invoice `json:"invoice"`
	RiskScore int64   `json:"risk_score"`
	RiskLevel string  `json:"risk_level"`
	Message   string  `json:"message"`
}

// SubmitRiskScore applies an oracle-supplied score to a Pending invoice.
func (controller *RiskController) SubmitRiskScore(c echo.Context) error {
	invoiceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	var body SubmitRiskScoreRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load risk score request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	invoice, err := controller.svc.SubmitRiskScore(c.Request().Context(), invoiceID, body.Score)
	if err != nil {
		c.Logger().Errorf("Failed to submit risk score for invoice %d: %v", invoiceID, err)
		return writeErrorResponse(c, err)
	}

	response := newInvoiceResponse(invoice)
	return c.JSON(http.StatusOK, &response)
}

// ApproveForListing moves an invoice out of manual review.
func (controller *RiskController) ApproveForListing(c echo.Context) error {
	invoiceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	invoice, err := controller.svc.ApproveForListing(c.Request().Context(), invoiceID)
	if err != nil {
		c.Logger().Errorf("Failed to approve invoice %d for listing: %v", invoiceID, err)
		return writeErrorResponse(c, err)
	}

	response := newInvoiceResponse(invoice)
	return c.JSON(http.StatusOK, &response)
}

// RiskCheck fetches a score from the external agent and submits it in one
// call.
func (controller *RiskController) RiskCheck(c echo.Context) error {
	invoiceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	var body RiskCheckRequestBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	invoice, result, err := controller.svc.CheckRiskScore(c.Request().Context(), invoiceID, body.Country, body.Industry)
	if err != nil {
		c.Logger().Errorf("Risk check failed for invoice %d: %v", invoiceID, err)
		return writeErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, &RiskCheckResponseBody{
		Invoice:   newInvoiceResponse(invoice),
		RiskScore: result.RiskScore,
		RiskLevel: result.RiskLevel,
		Message:   result.Message,
	})
}
