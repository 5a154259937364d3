package interfaces

import (
	"context"
	"time"

	"github.com/dansutton/folio/internal/models"
)

// CreateHoldingRequest carries the fields for opening a new position.
type CreateHoldingRequest struct {
	Name          string
	Ticker        string
	AssetClass    string
	Type          string
	Shares        float64
	PurchasePrice float64
	CurrentPrice  float64
	PurchaseDate  time.Time
	AccountID     string
	Currency      string
	Sector        string
	Region        string
	Notes         string
	DividendYield float64
}

// UpdateHoldingRequest patches descriptive and derived holding fields.
// Nil pointers leave the stored value untouched.
type UpdateHoldingRequest struct {
	Name          *string
	Ticker        *string
	AssetClass    *string
	Type          *string
	CurrentPrice  *float64
	Currency      *string
	Sector        *string
	Region        *string
	Notes         *string
	DividendYield *float64
}

// RecordTransactionRequest carries one ledger event. Shares/Price are
// required for buy/sell; Amount is required for dividend.
type RecordTransactionRequest struct {
	Type   string
	Shares *float64
	Price  *float64
	Amount *float64
	Date   time.Time
	Notes  string
}

// PerformanceRange bounds the monthly performance series. Zero values fall
// back to the trailing 12 months through the current month.
type PerformanceRange struct {
	From time.Time
	To   time.Time
}

// InvestmentService is the investment ledger and portfolio analytics engine.
type InvestmentService interface {
	// Holdings
	CreateHolding(ctx context.Context, userID string, req CreateHoldingRequest) (*models.HoldingView, error)
	GetHolding(ctx context.Context, userID, holdingID string) (*models.HoldingView, error)
	UpdateHolding(ctx context.Context, userID, holdingID string, req UpdateHoldingRequest) (*models.HoldingView, error)
	DeleteHolding(ctx context.Context, userID, holdingID string) error
	ListHoldings(ctx context.Context, userID string, q HoldingQuery) ([]*models.HoldingView, error)

	// Ledger
	RecordTransaction(ctx context.Context, userID, holdingID string, req RecordTransactionRequest) (*models.InvestmentTransaction, error)
	DeleteTransaction(ctx context.Context, userID, holdingID, txID string) error
	ListTransactions(ctx context.Context, userID, holdingID string) ([]*models.InvestmentTransaction, error)

	// Analytics
	GetReturns(ctx context.Context, userID, holdingID string) (*models.InvestmentReturns, error)
	GetSummary(ctx context.Context, userID string) (*models.PortfolioSummary, error)
	GetAllocation(ctx context.Context, userID string) ([]models.AllocationBucket, error)
	GetPerformance(ctx context.Context, userID string, r PerformanceRange) ([]models.PerformancePoint, error)
	RenderPerformanceChart(ctx context.Context, userID string, r PerformanceRange) ([]byte, error)
}
