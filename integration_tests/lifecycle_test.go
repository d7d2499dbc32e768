package integration_tests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invoicesme/invoicehub.go/common"
	"github.com/invoicesme/invoicehub.go/controllers"
	"github.com/invoicesme/invoicehub.go/lib"
	"github.com/invoicesme/invoicehub.go/lib/responses"
	"github.com/invoicesme/invoicehub.go/lib/service"
	"github.com/invoicesme/invoicehub.go/token"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type LifecycleTestSuite struct {
	TestSuite
	service     *service.InvoiceHubService
	tokenClient *token.MemoryClient
}

func (suite *LifecycleTestSuite) SetupSuite() {
	svc, tokenClient, err := InvoiceHubTestServiceInit("lifecycle", &mockRiskClient{})
	if err != nil {
		log.Fatalf("Error initializing test service: %v", err)
	}
	suite.service = svc
	suite.tokenClient = tokenClient

	e := echo.New()
	e.HTTPErrorHandler = responses.HTTPErrorHandler
	e.Validator = &lib.CustomValidator{Validator: validator.New()}
	suite.echo = e

	invoiceCtrl := controllers.NewInvoiceController(svc)
	suite.echo.POST("/v2/invoices", invoiceCtrl.CreateInvoice)
	suite.echo.GET("/v2/invoices", invoiceCtrl.GetInvoices)
	suite.echo.GET("/v2/invoices/:id", invoiceCtrl.GetInvoice)
	suite.echo.GET("/v2/invoices/listed", invoiceCtrl.GetListedInvoices)
	suite.echo.POST("/v2/invoices/:id/invest", controllers.NewInvestController(svc).Invest)
	suite.echo.POST("/v2/invoices/:id/claim", controllers.NewClaimController(svc).Claim)
	suite.echo.GET("/v2/portfolio/:address", controllers.NewPortfolioController(svc).Portfolio)
	sellerCtrl := controllers.NewSellerController(svc)
	suite.echo.POST("/v2/admin/sellers", sellerCtrl.AddSeller)
	suite.echo.GET("/v2/sellers/:address", sellerCtrl.GetSeller)
	riskCtrl := controllers.NewRiskController(svc)
	suite.echo.POST("/v2/admin/invoices/:id/risk-score", riskCtrl.SubmitRiskScore)
	suite.echo.POST("/v2/admin/invoices/:id/repay", controllers.NewRepayController(svc).Repay)
}

func (suite *LifecycleTestSuite) TearDownTest() {
	assert.NoError(suite.T(), clearAllTables(suite.service))
}

func (suite *LifecycleTestSuite) postJSON(path string, body interface{}) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	var buf bytes.Buffer
	assert.NoError(suite.T(), json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	suite.echo.ServeHTTP(rec, req)
	return rec
}

func (suite *LifecycleTestSuite) TestFullLifecycle() {
	// verify the seller
	rec := suite.postJSON("/v2/admin/sellers", &controllers.AddSellerRequestBody{Address: testSellerAddress})
	assert.Equal(suite.T(), http.StatusOK, rec.Code)

	// originate a 1000 invoice with a 950 funding goal
	rec = suite.postJSON("/v2/invoices", &controllers.CreateInvoiceRequestBody{
		Seller:            testSellerAddress,
		FaceValue:         1000,
		FundingGoal:       950,
		DueDate:           time.Now().Add(60 * 24 * time.Hour),
		Title:             "Q3 component shipment",
		DocumentReference: "doc-123",
	})
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	invoiceResponse := &controllers.Invoice{}
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(invoiceResponse))
	assert.Equal(suite.T(), common.InvoiceStatusPending, invoiceResponse.Status)
	invoiceID := invoiceResponse.ID

	// the full share supply starts with the seller
	sellerShares, err := suite.service.ShareBalance(context.Background(), invoiceID, testSellerAddress)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(950), sellerShares)

	// a low risk score lists the invoice
	rec = suite.postJSON(fmt.Sprintf("/v2/admin/invoices/%d/risk-score", invoiceID), &controllers.SubmitRiskScoreRequestBody{Score: 30})
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(invoiceResponse))
	assert.Equal(suite.T(), common.InvoiceStatusListed, invoiceResponse.Status)

	// fund the investors and let custody spend on their behalf
	suite.tokenClient.Mint(testInvestorAddress, 500)
	suite.tokenClient.Mint(testInvestor2Address, 450)
	assert.NoError(suite.T(), suite.tokenClient.Approve(context.Background(), testInvestorAddress, suite.service.Config.CustodyAccount, 500))
	assert.NoError(suite.T(), suite.tokenClient.Approve(context.Background(), testInvestor2Address, suite.service.Config.CustodyAccount, 450))

	// first investment leaves funding room
	rec = suite.postJSON(fmt.Sprintf("/v2/invoices/%d/invest", invoiceID), &controllers.InvestRequestBody{Investor: testInvestorAddress, Amount: 500})
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	investResponse := &controllers.InvestResponseBody{}
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(investResponse))
	assert.Equal(suite.T(), common.InvoiceStatusListed, investResponse.Invoice.Status)
	assert.Equal(suite.T(), int64(450), investResponse.Invoice.RemainingFunding)
	assert.Equal(suite.T(), int64(500), investResponse.ShareBalance)

	// second investment fills the goal exactly
	rec = suite.postJSON(fmt.Sprintf("/v2/invoices/%d/invest", invoiceID), &controllers.InvestRequestBody{Investor: testInvestor2Address, Amount: 450})
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(investResponse))
	assert.Equal(suite.T(), common.InvoiceStatusFunded, investResponse.Invoice.Status)
	assert.Equal(suite.T(), int64(0), investResponse.Invoice.RemainingFunding)

	// the seller received the invested capital
	sellerFunds, err := suite.tokenClient.BalanceOf(context.Background(), testSellerAddress)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(950), sellerFunds)

	// debtor repays the face value into custody
	suite.tokenClient.Mint(testTreasuryAddress, 1000)
	assert.NoError(suite.T(), suite.tokenClient.Approve(context.Background(), testTreasuryAddress, suite.service.Config.CustodyAccount, 1000))
	rec = suite.postJSON(fmt.Sprintf("/v2/admin/invoices/%d/repay", invoiceID), &controllers.RepayRequestBody{From: testTreasuryAddress, Amount: 1000})
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(invoiceResponse))
	assert.Equal(suite.T(), common.InvoiceStatusRepaid, invoiceResponse.Status)

	// both investors claim their pro-rata payout
	rec = suite.postJSON(fmt.Sprintf("/v2/invoices/%d/claim", invoiceID), &controllers.ClaimRequestBody{Holder: testInvestorAddress})
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	claimResponse := &controllers.ClaimResponseBody{}
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(claimResponse))
	// 500 * 1000 / 950 = 526, rounded down
	assert.Equal(suite.T(), int64(526), claimResponse.Payout)
	assert.Equal(suite.T(), common.InvoiceStatusRepaid, claimResponse.Invoice.Status)

	rec = suite.postJSON(fmt.Sprintf("/v2/invoices/%d/claim", invoiceID), &controllers.ClaimRequestBody{Holder: testInvestor2Address})
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(claimResponse))
	// 450 * 1000 / 950 = 473, rounded down
	assert.Equal(suite.T(), int64(473), claimResponse.Payout)
	// all shares burned, the invoice closes
	assert.Equal(suite.T(), common.InvoiceStatusClosed, claimResponse.Invoice.Status)

	// the rounding residue stays in custody
	custodyFunds, err := suite.tokenClient.BalanceOf(context.Background(), suite.service.Config.CustodyAccount)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1), custodyFunds)
}

func (suite *LifecycleTestSuite) TestPortfolioAndMarketplace() {
	invoiceID, err := createListedInvoice(suite.service, 1000, 900)
	assert.NoError(suite.T(), err)

	suite.tokenClient.Mint(testInvestorAddress, 300)
	assert.NoError(suite.T(), suite.tokenClient.Approve(context.Background(), testInvestorAddress, suite.service.Config.CustodyAccount, 300))
	_, err = suite.service.Invest(context.Background(), testInvestorAddress, invoiceID, 300)
	assert.NoError(suite.T(), err)

	// marketplace shows the invoice with its remaining room
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v2/invoices/listed", nil)
	suite.echo.ServeHTTP(rec, req)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	listed := &controllers.GetInvoicesResponseBody{}
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(listed))
	assert.Equal(suite.T(), 1, len(listed.Invoices))
	assert.Equal(suite.T(), int64(600), listed.Invoices[0].RemainingFunding)

	// the investor's portfolio shows the holding
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, fmt.Sprintf("/v2/portfolio/%s", testInvestorAddress), nil)
	suite.echo.ServeHTTP(rec, req)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	portfolio := &controllers.PortfolioResponseBody{}
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(portfolio))
	assert.Equal(suite.T(), 1, len(portfolio.Holdings))
	assert.Equal(suite.T(), int64(300), portfolio.Holdings[0].ShareBalance)
	assert.Equal(suite.T(), invoiceID, portfolio.Holdings[0].Invoice.ID)

	// verification lookup works for both kinds of address
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, fmt.Sprintf("/v2/sellers/%s", testSellerAddress), nil)
	suite.echo.ServeHTTP(rec, req)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	seller := &controllers.SellerResponseBody{}
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(seller))
	assert.True(suite.T(), seller.Verified)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/v2/sellers/unknown-address", nil)
	suite.echo.ServeHTTP(rec, req)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(seller))
	assert.False(suite.T(), seller.Verified)
}

func (suite *LifecycleTestSuite) TestCreateInvoiceRequiresVerifiedSeller() {
	rec := suite.postJSON("/v2/invoices", &controllers.CreateInvoiceRequestBody{
		Seller:            "unverified-seller",
		FaceValue:         1000,
		FundingGoal:       950,
		DocumentReference: "doc-456",
	})
	assert.Equal(suite.T(), http.StatusUnauthorized, rec.Code)
	errorResponse := &responses.ErrorResponse{}
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(errorResponse))
	assert.Equal(suite.T(), responses.SellerNotVerifiedError.Message, errorResponse.Message)
}

func (suite *LifecycleTestSuite) TestCreateInvoiceRejectsBadFundingGoal() {
	_, err := suite.service.AddVerifiedSeller(context.Background(), testSellerAddress)
	assert.NoError(suite.T(), err)

	// goal above the face value would pay out more than was deposited
	rec := suite.postJSON("/v2/invoices", &controllers.CreateInvoiceRequestBody{
		Seller:            testSellerAddress,
		FaceValue:         1000,
		FundingGoal:       1000,
		DocumentReference: "doc-789",
	})
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
}

func (suite *LifecycleTestSuite) TestInvoiceListingPagination() {
	ctx := context.Background()
	_, err := suite.service.AddVerifiedSeller(ctx, testSellerAddress)
	assert.NoError(suite.T(), err)
	for i := 0; i < 3; i++ {
		_, err = suite.service.CreateInvoice(ctx, service.CreateInvoiceParams{
			Seller:            testSellerAddress,
			FaceValue:         1000,
			FundingGoal:       900,
			Title:             fmt.Sprintf("shipment %d", i),
			DocumentReference: fmt.Sprintf("doc-%d", i),
		})
		assert.NoError(suite.T(), err)
	}

	// a non-positive limit returns everything, the risk poll feed depends
	// on never being truncated
	all, err := suite.service.Invoices(ctx, "", "", 0, 0)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 3, len(all))
	assert.Equal(suite.T(), "shipment 2", all[0].Title)

	page, err := suite.service.Invoices(ctx, "", "", 2, 0)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 2, len(page))
	assert.Equal(suite.T(), "shipment 2", page[0].Title)
	assert.Equal(suite.T(), "shipment 1", page[1].Title)

	page, err = suite.service.Invoices(ctx, "", "", 2, 2)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, len(page))
	assert.Equal(suite.T(), "shipment 0", page[0].Title)

	// the HTTP surface passes the page through
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v2/invoices?limit=2&offset=1", nil)
	suite.echo.ServeHTTP(rec, req)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	listed := &controllers.GetInvoicesResponseBody{}
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(listed))
	assert.Equal(suite.T(), 2, len(listed.Invoices))
	assert.Equal(suite.T(), "shipment 1", listed.Invoices[0].Title)
	assert.Equal(suite.T(), "shipment 0", listed.Invoices[1].Title)
}

func TestLifecycleTestSuite(t *testing.T) {
	suite.Run(t, new(LifecycleTestSuite))
}
