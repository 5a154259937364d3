package investment

import (
	"context"
	"sort"
	"time"

	"github.com/dansutton/folio/internal/costbasis"
	"github.com/dansutton/folio/internal/interfaces"
	"github.com/dansutton/folio/internal/models"
)

// GetSummary aggregates value and cost across all of the user's holdings.
// Day-change and period returns stay 0 until a price-history source exists.
func (s *Service) GetSummary(ctx context.Context, userID string) (*models.PortfolioSummary, error) {
	holdings, err := s.storage.HoldingStore().List(ctx, userID, interfaces.HoldingQuery{})
	if err != nil {
		return nil, err
	}

	var totalValue, totalInvested float64
	for _, h := range holdings {
		totalValue += h.CurrentValue()
		totalInvested += h.TotalInvested()
	}

	gainLoss := totalValue - totalInvested
	returnPct := 0.0
	if totalInvested != 0 {
		returnPct = costbasis.Round2(gainLoss / totalInvested * 100)
	}

	return &models.PortfolioSummary{
		TotalValue:         costbasis.Round2(totalValue),
		TotalInvested:      costbasis.Round2(totalInvested),
		TotalGainLoss:      costbasis.Round2(gainLoss),
		TotalReturnPercent: returnPct,
		NumberOfHoldings:   len(holdings),
	}, nil
}

// GetAllocation buckets holdings by asset class, sorted descending by value.
// After rounding, any residual is added to the largest bucket so the
// percentages always sum to exactly 100.
func (s *Service) GetAllocation(ctx context.Context, userID string) ([]models.AllocationBucket, error) {
	holdings, err := s.storage.HoldingStore().List(ctx, userID, interfaces.HoldingQuery{})
	if err != nil {
		return nil, err
	}

	values := make(map[models.AssetClass]float64)
	var totalValue float64
	for _, h := range holdings {
		v := h.CurrentValue()
		values[h.AssetClass] += v
		totalValue += v
	}

	buckets := make([]models.AllocationBucket, 0, len(values))
	for class, value := range values {
		pct := 0.0
		if totalValue != 0 {
			pct = costbasis.Round2(value / totalValue * 100)
		}
		buckets = append(buckets, models.AllocationBucket{
			AssetClass: class,
			Value:      costbasis.Round2(value),
			Percentage: pct,
		})
	}

	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Value != buckets[j].Value {
			return buckets[i].Value > buckets[j].Value
		}
		return buckets[i].AssetClass < buckets[j].AssetClass
	})

	// Rounding drift correction: fold the residual into the largest bucket.
	if len(buckets) > 0 && totalValue != 0 {
		var sum float64
		for _, b := range buckets {
			sum += b.Percentage
		}
		if residual := costbasis.Round2(100 - sum); residual != 0 {
			buckets[0].Percentage = costbasis.Round2(buckets[0].Percentage + residual)
		}
	}

	return buckets, nil
}

// GetPerformance returns the month-end portfolio value series. A holding
// contributes to every month whose end is on or after its purchase date.
//
// Every point is priced with today's share count and current price. Until a
// price-history source exists this yields a flat step series per holding.
func (s *Service) GetPerformance(ctx context.Context, userID string, r interfaces.PerformanceRange) ([]models.PerformancePoint, error) {
	holdings, err := s.storage.HoldingStore().List(ctx, userID, interfaces.HoldingQuery{})
	if err != nil {
		return nil, err
	}

	from, to := resolveRange(r, time.Now())

	var points []models.PerformancePoint
	for month := from; !month.After(to); month = month.AddDate(0, 1, 0) {
		monthEnd := month.AddDate(0, 1, 0).Add(-time.Nanosecond)

		var value float64
		for _, h := range holdings {
			if !h.PurchaseDate.After(monthEnd) {
				value += h.CurrentValue()
			}
		}

		points = append(points, models.PerformancePoint{
			Month: month.Format("2006-01"),
			Value: costbasis.Round2(value),
		})
	}

	return points, nil
}

// resolveRange normalizes a performance range to first-of-month boundaries,
// defaulting to the trailing 12 months through the current month.
func resolveRange(r interfaces.PerformanceRange, now time.Time) (from, to time.Time) {
	to = r.To
	if to.IsZero() {
		to = now
	}
	to = time.Date(to.Year(), to.Month(), 1, 0, 0, 0, 0, time.UTC)

	from = r.From
	if from.IsZero() {
		from = to.AddDate(0, -11, 0)
	} else {
		from = time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
	}

	if from.After(to) {
		from = to
	}
	return from, to
}
