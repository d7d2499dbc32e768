package integration_tests

import (
	"context"
	"log"
	"testing"

	"github.com/invoicesme/invoicehub.go/common"
	"github.com/invoicesme/invoicehub.go/lib/service"
	"github.com/invoicesme/invoicehub.go/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type ClaimTestSuite struct {
	suite.Suite
	service     *service.InvoiceHubService
	tokenClient *token.MemoryClient
}

func (suite *ClaimTestSuite) SetupSuite() {
	svc, tokenClient, err := InvoiceHubTestServiceInit("claim", &mockRiskClient{})
	if err != nil {
		log.Fatalf("Error initializing test service: %v", err)
	}
	suite.service = svc
	suite.tokenClient = tokenClient
}

func (suite *ClaimTestSuite) TearDownTest() {
	assert.NoError(suite.T(), clearAllTables(suite.service))
}

// createRepaidInvoice funds an invoice with two investors and repays it.
func (suite *ClaimTestSuite) createRepaidInvoice(faceValue, fundingGoal, aliceAmount, repayment int64) int64 {
	ctx := context.Background()
	invoiceID, err := createListedInvoice(suite.service, faceValue, fundingGoal)
	assert.NoError(suite.T(), err)

	custody := suite.service.Config.CustodyAccount
	suite.tokenClient.Mint(testInvestorAddress, aliceAmount)
	assert.NoError(suite.T(), suite.tokenClient.Approve(ctx, testInvestorAddress, custody, aliceAmount))
	bobAmount := fundingGoal - aliceAmount
	suite.tokenClient.Mint(testInvestor2Address, bobAmount)
	assert.NoError(suite.T(), suite.tokenClient.Approve(ctx, testInvestor2Address, custody, bobAmount))

	_, err = suite.service.Invest(ctx, testInvestorAddress, invoiceID, aliceAmount)
	assert.NoError(suite.T(), err)
	invoice, err := suite.service.Invest(ctx, testInvestor2Address, invoiceID, bobAmount)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), common.InvoiceStatusFunded, invoice.Status)

	suite.tokenClient.Mint(testTreasuryAddress, repayment)
	assert.NoError(suite.T(), suite.tokenClient.Approve(ctx, testTreasuryAddress, custody, repayment))
	invoice, err = suite.service.Repay(ctx, testTreasuryAddress, invoiceID, repayment)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), common.InvoiceStatusRepaid, invoice.Status)

	return invoiceID
}

func (suite *ClaimTestSuite) TestRepayRequiresFundedState() {
	ctx := context.Background()
	invoiceID, err := createListedInvoice(suite.service, 1000, 900)
	assert.NoError(suite.T(), err)

	suite.tokenClient.Mint(testTreasuryAddress, 1000)
	assert.NoError(suite.T(), suite.tokenClient.Approve(ctx, testTreasuryAddress, suite.service.Config.CustodyAccount, 1000))
	_, err = suite.service.Repay(ctx, testTreasuryAddress, invoiceID, 1000)
	assert.ErrorIs(suite.T(), err, service.ErrInvalidInvoiceState)
}

func (suite *ClaimTestSuite) TestClaimTwiceFindsNothing() {
	invoiceID := suite.createRepaidInvoice(1000, 900, 600, 1000)
	ctx := context.Background()

	payout, _, err := suite.service.Claim(ctx, testInvestorAddress, invoiceID)
	assert.NoError(suite.T(), err)
	// 600 * 1000 / 900 = 666, rounded down
	assert.Equal(suite.T(), int64(666), payout)

	// the shares were burned with the first claim
	_, _, err = suite.service.Claim(ctx, testInvestorAddress, invoiceID)
	assert.ErrorIs(suite.T(), err, service.ErrNothingToClaim)

	// the failed second claim paid nothing
	balance, err := suite.tokenClient.BalanceOf(ctx, testInvestorAddress)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(666), balance)
}

func (suite *ClaimTestSuite) TestClaimWithoutHoldingFindsNothing() {
	invoiceID := suite.createRepaidInvoice(1000, 900, 600, 1000)

	_, _, err := suite.service.Claim(context.Background(), "some-stranger", invoiceID)
	assert.ErrorIs(suite.T(), err, service.ErrNothingToClaim)
}

func (suite *ClaimTestSuite) TestClaimRequiresRepaidState() {
	invoiceID, err := createListedInvoice(suite.service, 1000, 900)
	assert.NoError(suite.T(), err)

	_, _, err = suite.service.Claim(context.Background(), testInvestorAddress, invoiceID)
	assert.ErrorIs(suite.T(), err, service.ErrInvalidInvoiceState)
}

func (suite *ClaimTestSuite) TestSellerHasNothingToClaimAfterFullFunding() {
	// full funding moves every share to the investors
	invoiceID := suite.createRepaidInvoice(1000, 900, 600, 1000)

	_, _, err := suite.service.Claim(context.Background(), testSellerAddress, invoiceID)
	assert.ErrorIs(suite.T(), err, service.ErrNothingToClaim)
}

func (suite *ClaimTestSuite) TestPayoutsNeverExceedRepayment() {
	invoiceID := suite.createRepaidInvoice(1000, 950, 500, 1000)
	ctx := context.Background()
	custodyBefore, err := suite.tokenClient.BalanceOf(ctx, suite.service.Config.CustodyAccount)
	assert.NoError(suite.T(), err)

	alicePayout, _, err := suite.service.Claim(ctx, testInvestorAddress, invoiceID)
	assert.NoError(suite.T(), err)
	bobPayout, invoice, err := suite.service.Claim(ctx, testInvestor2Address, invoiceID)
	assert.NoError(suite.T(), err)

	// floor division keeps the payout sum at or below the deposit, the
	// difference stays in custody
	assert.Equal(suite.T(), int64(526), alicePayout)
	assert.Equal(suite.T(), int64(473), bobPayout)
	assert.True(suite.T(), alicePayout+bobPayout <= 1000)
	assert.Equal(suite.T(), common.InvoiceStatusClosed, invoice.Status)

	// of the 1000 deposit sitting in custody before the claims, exactly the
	// dust is left behind
	custodyAfter, err := suite.tokenClient.BalanceOf(ctx, suite.service.Config.CustodyAccount)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1), 1000+custodyAfter-custodyBefore)
}

func (suite *ClaimTestSuite) TestLedgerTrailCoversFullLifecycle() {
	invoiceID := suite.createRepaidInvoice(1000, 900, 600, 1000)
	ctx := context.Background()

	_, _, err := suite.service.Claim(ctx, testInvestorAddress, invoiceID)
	assert.NoError(suite.T(), err)
	_, _, err = suite.service.Claim(ctx, testInvestor2Address, invoiceID)
	assert.NoError(suite.T(), err)

	entries, err := suite.service.LedgerEntriesFor(ctx, invoiceID)
	assert.NoError(suite.T(), err)
	// mint, two transfers, two burns
	assert.Equal(suite.T(), 5, len(entries))
	assert.Equal(suite.T(), common.EntryTypeMint, entries[0].EntryType)
	assert.Equal(suite.T(), common.EntryTypeTransfer, entries[1].EntryType)
	assert.Equal(suite.T(), common.EntryTypeTransfer, entries[2].EntryType)
	assert.Equal(suite.T(), common.EntryTypeBurn, entries[3].EntryType)
	assert.Equal(suite.T(), common.EntryTypeBurn, entries[4].EntryType)

	burned, err := suite.service.BurnedShares(ctx, invoiceID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(900), burned)
}

func TestClaimTestSuite(t *testing.T) {
	suite.Run(t, new(ClaimTestSuite))
}
