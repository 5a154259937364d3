package investment

import (
	"context"

	"github.com/dansutton/folio/internal/costbasis"
	"github.com/dansutton/folio/internal/models"
)

// GetReturns computes the per-holding returns breakdown.
//
// Realized gain/loss prices every historical sell at the holding's current
// average cost, not the average in effect when the sale happened. That is
// faithful to the weighted-average model but is not lot accounting.
func (s *Service) GetReturns(ctx context.Context, userID, holdingID string) (*models.InvestmentReturns, error) {
	holding, err := s.storage.HoldingStore().Get(ctx, userID, holdingID)
	if err != nil {
		return nil, err
	}

	txs, err := s.storage.TransactionStore().ListByHolding(ctx, userID, holdingID)
	if err != nil {
		return nil, err
	}

	currentValue := holding.CurrentValue()
	totalInvested := holding.TotalInvested()
	unrealized := currentValue - totalInvested

	unrealizedPct := 0.0
	if totalInvested != 0 {
		unrealizedPct = costbasis.Round2(unrealized / totalInvested * 100)
	}

	var realized, dividends float64
	for _, tx := range txs {
		switch tx.Type {
		case models.TransactionTypeSell:
			realized += tx.Amount - tx.Shares*holding.AverageCost
		case models.TransactionTypeDividend:
			dividends += tx.Amount
		}
	}

	totalReturn := unrealized + realized + dividends
	totalReturnPct := 0.0
	if totalInvested != 0 {
		totalReturnPct = costbasis.Round2(totalReturn / totalInvested * 100)
	}

	return &models.InvestmentReturns{
		HoldingID:               holding.ID,
		CurrentValue:            costbasis.Round2(currentValue),
		TotalInvested:           costbasis.Round2(totalInvested),
		UnrealizedGainLoss:      costbasis.Round2(unrealized),
		UnrealizedReturnPercent: unrealizedPct,
		RealizedGainLoss:        costbasis.Round2(realized),
		DividendIncome:          costbasis.Round2(dividends),
		TotalReturn:             costbasis.Round2(totalReturn),
		TotalReturnPercent:      totalReturnPct,
	}, nil
}
