package integration_tests

import (
	"context"
	"fmt"
	"time"

	"github.com/invoicesme/invoicehub.go/db"
	"github.com/invoicesme/invoicehub.go/db/migrations"
	"github.com/invoicesme/invoicehub.go/lib"
	"github.com/invoicesme/invoicehub.go/lib/service"
	"github.com/invoicesme/invoicehub.go/risk"
	"github.com/invoicesme/invoicehub.go/token"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
	"github.com/uptrace/bun/migrate"
)

const (
	testSellerAddress    = "seller-acme-gmbh"
	testInvestorAddress  = "investor-alice"
	testInvestor2Address = "investor-bob"
	testTreasuryAddress  = "treasury"
)

// InvoiceHubTestServiceInit spins up a service against a named in-memory
// sqlite database. Each suite passes its own name so suites never share
// tables.
func InvoiceHubTestServiceInit(dbName string, riskClient risk.ScoreClientWrapper) (svc *service.InvoiceHubService, tokenClient *token.MemoryClient, err error) {
	c := &service.Config{
		DatabaseUri:      fmt.Sprintf("file:%s?mode=memory&cache=shared", dbName),
		ListingThreshold: 40,
		CustodyAccount:   "test-custody",
	}

	dbConn, err := db.Open(c)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	ctx := context.Background()
	migrator := migrate.NewMigrator(dbConn, migrations.Migrations)
	err = migrator.Init(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to init migrations: %w", err)
	}
	_, err = migrator.Migrate(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to migrate: %w", err)
	}

	logger := lib.Logger(c.LogFilePath)
	tokenClient = token.NewMemoryClient()
	svc = &service.InvoiceHubService{
		Config:      c,
		DB:          dbConn,
		Logger:      logger,
		TokenClient: tokenClient,
		RiskClient:  riskClient,
	}

	svc.InvoicePubSub = service.NewPubsub()
	return svc, tokenClient, nil
}

func clearTable(svc *service.InvoiceHubService, tableName string) error {
	_, err := svc.DB.Exec(fmt.Sprintf("DELETE FROM %s", tableName))
	return err
}

func clearAllTables(svc *service.InvoiceHubService) error {
	for _, table := range []string{"ledger_entries", "share_holdings", "invoices", "verified_sellers"} {
		if err := clearTable(svc, table); err != nil {
			return err
		}
	}
	return nil
}

// createListedInvoice puts a fresh invoice through verification and scoring
// so investment tests can start from Listed.
func createListedInvoice(svc *service.InvoiceHubService, faceValue, fundingGoal int64) (int64, error) {
	ctx := context.Background()
	if _, err := svc.AddVerifiedSeller(ctx, testSellerAddress); err != nil {
		return 0, err
	}
	invoice, err := svc.CreateInvoice(ctx, service.CreateInvoiceParams{
		Seller:      testSellerAddress,
		FaceValue:   faceValue,
		FundingGoal: fundingGoal,
		DueDate:     time.Now().Add(45 * 24 * time.Hour),
		Title:       "Q3 component shipment",
	})
	if err != nil {
		return 0, err
	}
	if _, err = svc.SubmitRiskScore(ctx, invoice.ID, 25); err != nil {
		return 0, err
	}
	return invoice.ID, nil
}

type TestSuite struct {
	suite.Suite
	echo *echo.Echo
}

type mockRiskClient struct {
	result *risk.ScoreResult
	err    error

	lastRequest risk.ScoreRequest
}

func (m *mockRiskClient) Score(ctx context.Context, req risk.ScoreRequest) (*risk.ScoreResult, error) {
	m.lastRequest = req
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}
