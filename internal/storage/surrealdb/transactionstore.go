package surrealdb

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/dansutton/folio/internal/common"
	"github.com/dansutton/folio/internal/interfaces"
	"github.com/dansutton/folio/internal/models"
)

// TransactionStore persists the investment ledger in the `investment_tx` table.
type TransactionStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewTransactionStore(db *surrealdb.DB, logger *common.Logger) *TransactionStore {
	return &TransactionStore{
		db:     db,
		logger: logger,
	}
}

func (s *TransactionStore) Get(ctx context.Context, userID, txID string) (*models.InvestmentTransaction, error) {
	tx, err := surrealdb.Select[models.InvestmentTransaction](ctx, s.db, surrealmodels.NewRecordID("investment_tx", txID))
	if err != nil {
		if isNotFoundError(err) {
			return nil, interfaces.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to select transaction: %w", err)
	}
	if tx == nil || tx.ID == "" || tx.UserID != userID {
		return nil, interfaces.ErrTransactionNotFound
	}
	return tx, nil
}

func (s *TransactionStore) Create(ctx context.Context, tx *models.InvestmentTransaction) error {
	sql := "CREATE type::record('investment_tx', $id) CONTENT $tx"
	vars := map[string]any{"id": tx.ID, "tx": tx}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]models.InvestmentTransaction](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to create transaction after retries: %w", lastErr)
}

func (s *TransactionStore) Delete(ctx context.Context, userID, txID string) (int, error) {
	sql := "DELETE investment_tx WHERE id = type::record('investment_tx', $id) AND user_id = $user_id RETURN BEFORE"
	vars := map[string]any{"id": txID, "user_id": userID}

	results, err := surrealdb.Query[[]models.InvestmentTransaction](ctx, s.db, sql, vars)
	if err != nil {
		return 0, fmt.Errorf("failed to delete transaction: %w", err)
	}

	count := 0
	if results != nil && len(*results) > 0 {
		count = len((*results)[0].Result)
	}
	return count, nil
}

func (s *TransactionStore) ListByHolding(ctx context.Context, userID, holdingID string) ([]*models.InvestmentTransaction, error) {
	sql := "SELECT * FROM investment_tx WHERE user_id = $user_id AND holding_id = $holding_id ORDER BY date DESC"
	vars := map[string]any{
		"user_id":    userID,
		"holding_id": holdingID,
	}

	results, err := surrealdb.Query[[]models.InvestmentTransaction](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	if results != nil && len(*results) > 0 {
		var mapped []*models.InvestmentTransaction
		for i := range (*results)[0].Result {
			mapped = append(mapped, &(*results)[0].Result[i])
		}
		return mapped, nil
	}
	return nil, nil
}

func (s *TransactionStore) DeleteByHolding(ctx context.Context, userID, holdingID string) (int, error) {
	sql := "DELETE investment_tx WHERE user_id = $user_id AND holding_id = $holding_id RETURN BEFORE"
	vars := map[string]any{
		"user_id":    userID,
		"holding_id": holdingID,
	}

	results, err := surrealdb.Query[[]models.InvestmentTransaction](ctx, s.db, sql, vars)
	if err != nil {
		return 0, fmt.Errorf("failed to cascade delete transactions: %w", err)
	}

	count := 0
	if results != nil && len(*results) > 0 {
		count = len((*results)[0].Result)
	}
	return count, nil
}

// Compile-time check
var _ interfaces.TransactionStore = (*TransactionStore)(nil)
