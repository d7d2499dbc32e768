package controllers

import (
	"net/http"

	"github.com/invoicesme/invoicehub.go/lib/responses"
	"github.com/invoicesme/invoicehub.go/lib/service"
	"github.com/labstack/echo/v4"
)

// SellerController : Seller registry controller struct
type SellerController struct {
	svc *service.InvoiceHubService
}

func NewSellerController(svc *service.InvoiceHubService) *SellerController {
	return &SellerController{svc: svc}
}

type AddSellerRequestBody struct {
	Address string `json:"address" validate:"required"`
}

type SellerResponseBody struct {
	Address  string `json:"address"`
	Verified bool   `json:"verified"`
}

// AddSeller puts an address on the verified seller allow-list. Idempotent.
func (controller *SellerController) AddSeller(c echo.Context) error {
	var body AddSellerRequestBody

	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load add seller request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	seller, err := controller.svc.AddVerifiedSeller(c.Request().Context(), body.Address)
	if err != nil {
		c.Logger().Errorf("Failed to add verified seller: %v", err)
		return writeErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, &SellerResponseBody{
		Address:  seller.Address,
		Verified: true,
	})
}

// GetSeller is a pure verification lookup.
func (controller *SellerController) GetSeller(c echo.Context) error {
	address := c.Param("address")

	verified, err := controller.svc.IsVerifiedSeller(c.Request().Context(), address)
	if err != nil {
		return writeErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, &SellerResponseBody{
		Address:  address,
		Verified: verified,
	})
}
