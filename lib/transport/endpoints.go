package transport

import (
	"net/http"

	"github.com/invoicesme/invoicehub.go/controllers"
	"github.com/invoicesme/invoicehub.go/lib/service"
	"github.com/invoicesme/invoicehub.go/lib/tokens"
	"github.com/labstack/echo/v4"
)

func RegisterEndpoints(e *echo.Echo, svc *service.InvoiceHubService) {
	logMw := CreateLoggingMiddleware(svc.Logger)
	strictRateLimitMw := CreateRateLimitMiddleware(svc.Config.StrictRateLimit, svc.Config.BurstRateLimit)
	cacheClient := CreateCacheClient()

	e.GET("/health", controllers.NewHealthController().Check)

	invoiceCtrl := controllers.NewInvoiceController(svc)
	e.POST("/v2/invoices", invoiceCtrl.CreateInvoice, logMw, strictRateLimitMw)
	e.GET("/v2/invoices", invoiceCtrl.GetInvoices, logMw)
	e.GET("/v2/invoices/listed", invoiceCtrl.GetListedInvoices, logMw, cacheClient.Middleware())
	e.GET("/v2/invoices/:id", invoiceCtrl.GetInvoice, logMw)

	investCtrl := controllers.NewInvestController(svc)
	e.POST("/v2/invoices/:id/invest", investCtrl.Invest, logMw, strictRateLimitMw)

	claimCtrl := controllers.NewClaimController(svc)
	e.POST("/v2/invoices/:id/claim", claimCtrl.Claim, logMw, strictRateLimitMw)

	portfolioCtrl := controllers.NewPortfolioController(svc)
	e.GET("/v2/portfolio/:address", portfolioCtrl.Portfolio, logMw)

	sellerCtrl := controllers.NewSellerController(svc)
	e.GET("/v2/sellers/:address", sellerCtrl.GetSeller, logMw)

	// Admin surface. Without ADMIN_TOKEN configured the middleware is a
	// passthrough, which is only acceptable for local development.
	admin := e.Group("/v2/admin", logMw, tokens.AdminTokenMiddleware(svc.Config.AdminToken))
	admin.POST("/sellers", sellerCtrl.AddSeller)

	riskCtrl := controllers.NewRiskController(svc)
	admin.POST("/invoices/:id/risk-score", riskCtrl.SubmitRiskScore)
	admin.POST("/invoices/:id/approve", riskCtrl.ApproveForListing)
	admin.POST("/invoices/:id/risk-check", riskCtrl.RiskCheck)

	repayCtrl := controllers.NewRepayController(svc)
	admin.POST("/invoices/:id/repay", repayCtrl.Repay)
}

// RegisterRootRedirect points the root path at the marketplace listing.
func RegisterRootRedirect(e *echo.Echo) {
	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/v2/invoices/listed")
	})
}
