// Package models defines data structures for Folio
package models

import (
	"time"
)

// AssetClass buckets a holding for allocation reporting.
type AssetClass string

const (
	AssetClassStocks       AssetClass = "stocks"
	AssetClassBonds        AssetClass = "bonds"
	AssetClassCash         AssetClass = "cash"
	AssetClassAlternatives AssetClass = "alternatives"
	AssetClassRealEstate   AssetClass = "real_estate"
	AssetClassOther        AssetClass = "other"
)

// ValidAssetClass reports whether s is a known asset class.
func ValidAssetClass(s string) bool {
	switch AssetClass(s) {
	case AssetClassStocks, AssetClassBonds, AssetClassCash,
		AssetClassAlternatives, AssetClassRealEstate, AssetClassOther:
		return true
	}
	return false
}

// InvestmentType classifies the instrument held.
type InvestmentType string

const (
	InvestmentTypeStock      InvestmentType = "individual_stock"
	InvestmentTypeETF        InvestmentType = "etf"
	InvestmentTypeMutualFund InvestmentType = "mutual_fund"
	InvestmentTypeBond       InvestmentType = "bond"
	InvestmentTypeCrypto     InvestmentType = "crypto"
	InvestmentTypeOptions    InvestmentType = "options"
	InvestmentTypeREIT       InvestmentType = "reit"
	InvestmentTypeOther      InvestmentType = "other"
)

// ValidInvestmentType reports whether s is a known instrument type.
func ValidInvestmentType(s string) bool {
	switch InvestmentType(s) {
	case InvestmentTypeStock, InvestmentTypeETF, InvestmentTypeMutualFund,
		InvestmentTypeBond, InvestmentTypeCrypto, InvestmentTypeOptions,
		InvestmentTypeREIT, InvestmentTypeOther:
		return true
	}
	return false
}

// TransactionType is the closed set of ledger event types.
type TransactionType string

const (
	TransactionTypeBuy      TransactionType = "buy"
	TransactionTypeSell     TransactionType = "sell"
	TransactionTypeDividend TransactionType = "dividend"
)

// ValidTransactionType reports whether s is a known transaction type.
func ValidTransactionType(s string) bool {
	switch TransactionType(s) {
	case TransactionTypeBuy, TransactionTypeSell, TransactionTypeDividend:
		return true
	}
	return false
}

// Holding represents one investment position. Shares and AverageCost are
// cached aggregates of the holding's transaction history, maintained
// incrementally by the ledger coordinator on every mutation.
type Holding struct {
	ID            string         `json:"id"`
	UserID        string         `json:"user_id"`
	AccountID     string         `json:"account_id,omitempty"`
	Name          string         `json:"name"`
	Ticker        string         `json:"ticker,omitempty"`
	AssetClass    AssetClass     `json:"asset_class"`
	Type          InvestmentType `json:"type"`
	Shares        float64        `json:"shares"`
	AverageCost   float64        `json:"average_cost"`
	CurrentPrice  float64        `json:"current_price"`
	PurchaseDate  time.Time      `json:"purchase_date"`
	Currency      string         `json:"currency"`
	Sector        string         `json:"sector,omitempty"`
	Region        string         `json:"region,omitempty"`
	Notes         string         `json:"notes,omitempty"`
	DividendYield float64        `json:"dividend_yield,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	ModifiedAt    time.Time      `json:"modified_at"`
}

// CurrentValue returns shares × current price.
func (h *Holding) CurrentValue() float64 {
	return h.Shares * h.CurrentPrice
}

// TotalInvested returns the cost basis of the currently-held shares.
func (h *Holding) TotalInvested() float64 {
	return h.Shares * h.AverageCost
}

// InvestmentTransaction is one ledger entry for a holding. Immutable once
// created; rows are only ever appended or deleted.
type InvestmentTransaction struct {
	ID        string          `json:"id"`
	HoldingID string          `json:"holding_id"`
	UserID    string          `json:"user_id"`
	Type      TransactionType `json:"type"`
	Shares    float64         `json:"shares,omitempty"`
	Price     float64         `json:"price,omitempty"`
	Amount    float64         `json:"amount"`
	Date      time.Time       `json:"date"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// HoldingView is the client representation of a holding with derived fields
// computed fresh on every read, never persisted.
type HoldingView struct {
	Holding
	CurrentValue    float64 `json:"current_value"`
	TotalInvested   float64 `json:"total_invested"`
	GainLoss        float64 `json:"gain_loss"`
	GainLossPercent float64 `json:"gain_loss_percent"`
}

// InvestmentReturns is the per-holding returns breakdown.
type InvestmentReturns struct {
	HoldingID               string  `json:"holding_id"`
	CurrentValue            float64 `json:"current_value"`
	TotalInvested           float64 `json:"total_invested"`
	UnrealizedGainLoss      float64 `json:"unrealized_gain_loss"`
	UnrealizedReturnPercent float64 `json:"unrealized_return_percent"`
	RealizedGainLoss        float64 `json:"realized_gain_loss"`
	DividendIncome          float64 `json:"dividend_income"`
	TotalReturn             float64 `json:"total_return"`
	TotalReturnPercent      float64 `json:"total_return_percent"`
}

// PortfolioSummary aggregates all of a user's holdings.
// DayChange and period returns are 0 until a price-history source exists.
type PortfolioSummary struct {
	TotalValue         float64 `json:"total_value"`
	TotalInvested      float64 `json:"total_invested"`
	TotalGainLoss      float64 `json:"total_gain_loss"`
	TotalReturnPercent float64 `json:"total_return_percent"`
	NumberOfHoldings   int     `json:"number_of_holdings"`
	DayChange          float64 `json:"day_change"`
	DayChangePercent   float64 `json:"day_change_percent"`
}

// AllocationBucket is one asset-class slice of the portfolio.
type AllocationBucket struct {
	AssetClass AssetClass `json:"asset_class"`
	Value      float64    `json:"value"`
	Percentage float64    `json:"percentage"`
}

// PerformancePoint is one month-end sample of portfolio value. Every month
// is priced with today's prices and share counts until a price-history
// source exists.
type PerformancePoint struct {
	Month string  `json:"month"` // "2006-01"
	Value float64 `json:"value"`
}
