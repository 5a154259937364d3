// Package investment implements the investment ledger and portfolio
// analytics engine: holding lifecycle, the transaction ledger coordinator,
// per-holding returns, and cross-holding aggregates.
package investment

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dansutton/folio/internal/common"
	"github.com/dansutton/folio/internal/costbasis"
	"github.com/dansutton/folio/internal/interfaces"
	"github.com/dansutton/folio/internal/models"
)

// ValidationError reports required transaction fields missing for a type.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// Service implements interfaces.InvestmentService.
type Service struct {
	storage interfaces.StorageManager
	logger  *common.Logger

	// Per-holding mutation locks. Without them two concurrent transaction
	// writes against one holding can both read the pre-mutation aggregates
	// and silently overwrite each other; serializing per holding closes
	// that lost-update race.
	locks sync.Map // holding ID -> *sync.Mutex
}

// NewService creates a new investment service.
func NewService(storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

func (s *Service) lockHolding(holdingID string) func() {
	v, _ := s.locks.LoadOrStore(holdingID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// CreateHolding opens a new position. The opening purchase is captured
// directly on the holding as shares at the purchase price.
func (s *Service) CreateHolding(ctx context.Context, userID string, req interfaces.CreateHoldingRequest) (*models.HoldingView, error) {
	var missing []string
	if req.Name == "" {
		missing = append(missing, "name")
	}
	if req.AssetClass == "" {
		missing = append(missing, "assetClass")
	} else if !models.ValidAssetClass(req.AssetClass) {
		return nil, &ValidationError{Fields: []string{"assetClass"}}
	}
	if req.Type == "" {
		missing = append(missing, "type")
	} else if !models.ValidInvestmentType(req.Type) {
		return nil, &ValidationError{Fields: []string{"type"}}
	}
	if req.Currency == "" {
		missing = append(missing, "currency")
	}
	if req.Shares < 0 || req.PurchasePrice < 0 {
		return nil, &ValidationError{Fields: []string{"shares"}}
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Fields: missing}
	}

	now := time.Now()
	purchaseDate := req.PurchaseDate
	if purchaseDate.IsZero() {
		purchaseDate = now
	}

	holding := &models.Holding{
		ID:            uuid.New().String(),
		UserID:        userID,
		AccountID:     req.AccountID,
		Name:          req.Name,
		Ticker:        req.Ticker,
		AssetClass:    models.AssetClass(req.AssetClass),
		Type:          models.InvestmentType(req.Type),
		Shares:        req.Shares,
		AverageCost:   costbasis.Round2(req.PurchasePrice),
		CurrentPrice:  req.CurrentPrice,
		PurchaseDate:  purchaseDate,
		Currency:      req.Currency,
		Sector:        req.Sector,
		Region:        req.Region,
		Notes:         req.Notes,
		DividendYield: req.DividendYield,
		CreatedAt:     now,
		ModifiedAt:    now,
	}

	if err := s.storage.HoldingStore().Put(ctx, holding); err != nil {
		return nil, fmt.Errorf("failed to create holding: %w", err)
	}

	s.logger.Info().
		Str("holding_id", holding.ID).
		Str("user_id", userID).
		Str("name", holding.Name).
		Msg("Holding created")

	return holdingView(holding), nil
}

// GetHolding returns one holding with derived fields computed on read.
func (s *Service) GetHolding(ctx context.Context, userID, holdingID string) (*models.HoldingView, error) {
	holding, err := s.storage.HoldingStore().Get(ctx, userID, holdingID)
	if err != nil {
		return nil, err
	}
	return holdingView(holding), nil
}

// UpdateHolding patches descriptive/derived fields; nil request fields are
// left untouched. Shares and average cost are never editable here; they
// change only through the ledger.
func (s *Service) UpdateHolding(ctx context.Context, userID, holdingID string, req interfaces.UpdateHoldingRequest) (*models.HoldingView, error) {
	unlock := s.lockHolding(holdingID)
	defer unlock()

	holding, err := s.storage.HoldingStore().Get(ctx, userID, holdingID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		holding.Name = *req.Name
	}
	if req.Ticker != nil {
		holding.Ticker = *req.Ticker
	}
	if req.AssetClass != nil {
		if !models.ValidAssetClass(*req.AssetClass) {
			return nil, &ValidationError{Fields: []string{"assetClass"}}
		}
		holding.AssetClass = models.AssetClass(*req.AssetClass)
	}
	if req.Type != nil {
		if !models.ValidInvestmentType(*req.Type) {
			return nil, &ValidationError{Fields: []string{"type"}}
		}
		holding.Type = models.InvestmentType(*req.Type)
	}
	if req.CurrentPrice != nil {
		holding.CurrentPrice = *req.CurrentPrice
	}
	if req.Currency != nil {
		holding.Currency = *req.Currency
	}
	if req.Sector != nil {
		holding.Sector = *req.Sector
	}
	if req.Region != nil {
		holding.Region = *req.Region
	}
	if req.Notes != nil {
		holding.Notes = *req.Notes
	}
	if req.DividendYield != nil {
		holding.DividendYield = *req.DividendYield
	}
	holding.ModifiedAt = time.Now()

	if err := s.storage.HoldingStore().Put(ctx, holding); err != nil {
		return nil, fmt.Errorf("failed to update holding: %w", err)
	}

	return holdingView(holding), nil
}

// DeleteHolding removes a holding and every transaction belonging to it.
// The ledger rows go first; a holding-row failure afterwards is surfaced
// but the deleted transactions are not restored.
func (s *Service) DeleteHolding(ctx context.Context, userID, holdingID string) error {
	unlock := s.lockHolding(holdingID)
	defer unlock()

	if _, err := s.storage.HoldingStore().Get(ctx, userID, holdingID); err != nil {
		return err
	}

	count, err := s.storage.TransactionStore().DeleteByHolding(ctx, userID, holdingID)
	if err != nil {
		return fmt.Errorf("failed to cascade delete transactions: %w", err)
	}

	if err := s.storage.HoldingStore().Delete(ctx, userID, holdingID); err != nil {
		return fmt.Errorf("failed to delete holding after removing %d transactions: %w", count, err)
	}

	s.logger.Info().
		Str("holding_id", holdingID).
		Str("user_id", userID).
		Int("transactions_removed", count).
		Msg("Holding deleted")

	return nil
}

// ListHoldings returns the user's holdings with derived fields.
func (s *Service) ListHoldings(ctx context.Context, userID string, q interfaces.HoldingQuery) ([]*models.HoldingView, error) {
	holdings, err := s.storage.HoldingStore().List(ctx, userID, q)
	if err != nil {
		return nil, err
	}

	views := make([]*models.HoldingView, 0, len(holdings))
	for _, h := range holdings {
		views = append(views, holdingView(h))
	}
	return views, nil
}

// holdingView computes the client representation. Derived fields are never
// persisted.
func holdingView(h *models.Holding) *models.HoldingView {
	value := h.CurrentValue()
	invested := h.TotalInvested()
	gainLoss := costbasis.Round2(value - invested)

	pct := 0.0
	if invested != 0 {
		pct = costbasis.Round2(gainLoss / invested * 100)
	}

	return &models.HoldingView{
		Holding:         *h,
		CurrentValue:    costbasis.Round2(value),
		TotalInvested:   costbasis.Round2(invested),
		GainLoss:        gainLoss,
		GainLossPercent: pct,
	}
}

// Compile-time check
var _ interfaces.InvestmentService = (*Service)(nil)
