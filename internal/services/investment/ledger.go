package investment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dansutton/folio/internal/costbasis"
	"github.com/dansutton/folio/internal/interfaces"
	"github.com/dansutton/folio/internal/models"
)

// ErrInsufficientShares signals a sell of more shares than the holding's
// current cached share count.
var ErrInsufficientShares = costbasis.ErrInsufficientShares

// ErrDeleteFailed signals that a transaction row vanished between being
// read and being deleted, after its reversal was already applied.
var ErrDeleteFailed = errors.New("transaction delete affected no rows")

// RecordTransaction appends one ledger event and incrementally updates the
// holding's cached (shares, averageCost) aggregates.
//
// The two writes are separate store calls, not one atomic transaction: a
// holding-update failure after the ledger append leaves the row in place.
// The first error aborts the remaining steps; nothing is rolled back.
func (s *Service) RecordTransaction(ctx context.Context, userID, holdingID string, req interfaces.RecordTransactionRequest) (*models.InvestmentTransaction, error) {
	unlock := s.lockHolding(holdingID)
	defer unlock()

	holding, err := s.storage.HoldingStore().Get(ctx, userID, holdingID)
	if err != nil {
		return nil, err
	}

	if !models.ValidTransactionType(req.Type) {
		return nil, &ValidationError{Fields: []string{"type"}}
	}
	txType := models.TransactionType(req.Type)

	var shares, price, amount float64
	switch txType {
	case models.TransactionTypeDividend:
		if req.Amount == nil || *req.Amount <= 0 {
			return nil, &ValidationError{Fields: []string{"amount"}}
		}
		amount = *req.Amount
	default: // buy, sell
		var missing []string
		if req.Shares == nil || *req.Shares <= 0 {
			missing = append(missing, "shares")
		}
		if req.Price == nil || *req.Price <= 0 {
			missing = append(missing, "price")
		}
		if len(missing) > 0 {
			return nil, &ValidationError{Fields: missing}
		}
		shares = *req.Shares
		price = *req.Price
		amount = shares * price
	}

	// Sell is checked against the holding's current cached shares, not
	// re-derived from the ledger.
	pos := costbasis.Position{Shares: holding.Shares, AverageCost: holding.AverageCost}
	newPos, err := costbasis.Apply(pos, txType, shares, price)
	if err != nil {
		return nil, err
	}

	date := req.Date
	if date.IsZero() {
		date = time.Now()
	}

	tx := &models.InvestmentTransaction{
		ID:        uuid.New().String(),
		HoldingID: holdingID,
		UserID:    userID,
		Type:      txType,
		Shares:    shares,
		Price:     price,
		Amount:    amount,
		Date:      date,
		Notes:     req.Notes,
		CreatedAt: time.Now(),
	}

	if err := s.storage.TransactionStore().Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to append transaction: %w", err)
	}

	holding.Shares = newPos.Shares
	holding.AverageCost = newPos.AverageCost
	holding.ModifiedAt = time.Now()

	if err := s.storage.HoldingStore().Put(ctx, holding); err != nil {
		// The ledger row is already committed; report, don't unwind.
		s.logger.Error().Err(err).
			Str("holding_id", holdingID).
			Str("transaction_id", tx.ID).
			Msg("Holding aggregate update failed after ledger append")
		return nil, fmt.Errorf("failed to update holding aggregates: %w", err)
	}

	s.logger.Info().
		Str("holding_id", holdingID).
		Str("transaction_id", tx.ID).
		Str("type", string(txType)).
		Float64("shares", shares).
		Float64("amount", amount).
		Msg("Transaction recorded")

	return tx, nil
}

// DeleteTransaction reverses a ledger event's effect on the holding and
// removes the row. Reversal of a buy recomputes the average from the
// holding's current snapshot, so with intervening activity the result is an
// approximation of the pre-buy state, not an exact restoration.
func (s *Service) DeleteTransaction(ctx context.Context, userID, holdingID, txID string) error {
	unlock := s.lockHolding(holdingID)
	defer unlock()

	holding, err := s.storage.HoldingStore().Get(ctx, userID, holdingID)
	if err != nil {
		return err
	}

	tx, err := s.storage.TransactionStore().Get(ctx, userID, txID)
	if err != nil {
		return err
	}
	if tx.HoldingID != holdingID {
		return interfaces.ErrTransactionNotFound
	}

	pos := costbasis.Position{Shares: holding.Shares, AverageCost: holding.AverageCost}
	newPos := costbasis.Reverse(pos, tx.Type, tx.Shares, tx.Price)

	holding.Shares = newPos.Shares
	holding.AverageCost = newPos.AverageCost
	holding.ModifiedAt = time.Now()

	if err := s.storage.HoldingStore().Put(ctx, holding); err != nil {
		return fmt.Errorf("failed to persist reversed aggregates: %w", err)
	}

	count, err := s.storage.TransactionStore().Delete(ctx, userID, txID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if count != 1 {
		return ErrDeleteFailed
	}

	s.logger.Info().
		Str("holding_id", holdingID).
		Str("transaction_id", txID).
		Str("type", string(tx.Type)).
		Msg("Transaction deleted")

	return nil
}

// ListTransactions returns the holding's ledger, newest first.
func (s *Service) ListTransactions(ctx context.Context, userID, holdingID string) ([]*models.InvestmentTransaction, error) {
	if _, err := s.storage.HoldingStore().Get(ctx, userID, holdingID); err != nil {
		return nil, err
	}
	return s.storage.TransactionStore().ListByHolding(ctx, userID, holdingID)
}
