// Package costbasis implements the weighted-average cost engine for
// investment positions. All functions are pure: they take the current
// (shares, average cost) pair and one ledger event, and derive the next pair.
package costbasis

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/dansutton/folio/internal/models"
)

// ErrInsufficientShares signals a sell of more shares than currently held.
var ErrInsufficientShares = errors.New("insufficient shares")

// Position is the cached aggregate state of a holding.
type Position struct {
	Shares      float64
	AverageCost float64
}

// Round2 rounds to 2 decimal places (cent granularity), half away from zero.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// ApplyBuy blends a purchase into the weighted average cost.
func ApplyBuy(p Position, shares, price float64) Position {
	newShares := p.Shares + shares
	if newShares <= 0 {
		return Position{Shares: newShares, AverageCost: 0}
	}
	newAvg := Round2((p.Shares*p.AverageCost + shares*price) / newShares)
	return Position{Shares: newShares, AverageCost: newAvg}
}

// ApplySell reduces the share count. The average cost of the remaining
// shares is unchanged; selling never alters the cost basis per share.
func ApplySell(p Position, shares float64) (Position, error) {
	if shares > p.Shares {
		return p, ErrInsufficientShares
	}
	return Position{Shares: p.Shares - shares, AverageCost: p.AverageCost}, nil
}

// ReverseBuy backs a purchase out of the position. The average is recomputed
// from the current snapshot, not from the state before that specific buy.
// If other transactions intervened, the result approximates the pre-buy
// state rather than restoring it exactly.
func ReverseBuy(p Position, shares, price float64) Position {
	remaining := p.Shares - shares
	if remaining <= 0 {
		return Position{Shares: 0, AverageCost: 0}
	}
	unitCost := price
	if unitCost <= 0 {
		unitCost = p.AverageCost
	}
	newAvg := Round2((p.Shares*p.AverageCost - shares*unitCost) / remaining)
	return Position{Shares: remaining, AverageCost: newAvg}
}

// ReverseSell restores sold shares at the unchanged average cost.
func ReverseSell(p Position, shares float64) Position {
	return Position{Shares: p.Shares + shares, AverageCost: p.AverageCost}
}

// Apply derives the next position from one incoming transaction.
// Dividends never touch shares or average cost.
func Apply(p Position, txType models.TransactionType, shares, price float64) (Position, error) {
	switch txType {
	case models.TransactionTypeBuy:
		return ApplyBuy(p, shares, price), nil
	case models.TransactionTypeSell:
		return ApplySell(p, shares)
	default:
		return p, nil
	}
}

// Reverse derives the next position from deleting a previously recorded
// transaction.
func Reverse(p Position, txType models.TransactionType, shares, price float64) Position {
	switch txType {
	case models.TransactionTypeBuy:
		return ReverseBuy(p, shares, price)
	case models.TransactionTypeSell:
		return ReverseSell(p, shares)
	default:
		return p
	}
}
