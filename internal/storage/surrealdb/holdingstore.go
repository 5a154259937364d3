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

// HoldingStore persists investment positions in the `holding` table.
type HoldingStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewHoldingStore(db *surrealdb.DB, logger *common.Logger) *HoldingStore {
	return &HoldingStore{
		db:     db,
		logger: logger,
	}
}

func (s *HoldingStore) Get(ctx context.Context, userID, holdingID string) (*models.Holding, error) {
	holding, err := surrealdb.Select[models.Holding](ctx, s.db, surrealmodels.NewRecordID("holding", holdingID))
	if err != nil {
		if isNotFoundError(err) {
			return nil, interfaces.ErrHoldingNotFound
		}
		return nil, fmt.Errorf("failed to select holding: %w", err)
	}
	// Ownership check doubles as the not-found check: a holding belonging to
	// another user is indistinguishable from an absent one.
	if holding == nil || holding.ID == "" || holding.UserID != userID {
		return nil, interfaces.ErrHoldingNotFound
	}
	return holding, nil
}

func (s *HoldingStore) Put(ctx context.Context, holding *models.Holding) error {
	sql := "UPSERT type::record('holding', $id) CONTENT $holding"
	vars := map[string]any{"id": holding.ID, "holding": holding}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]models.Holding](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to put holding after retries: %w", lastErr)
}

func (s *HoldingStore) Delete(ctx context.Context, userID, holdingID string) error {
	// Ownership check before the row delete
	if _, err := s.Get(ctx, userID, holdingID); err != nil {
		return err
	}

	_, err := surrealdb.Delete[models.Holding](ctx, s.db, surrealmodels.NewRecordID("holding", holdingID))
	if err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete holding: %w", err)
	}
	return nil
}

func (s *HoldingStore) List(ctx context.Context, userID string, q interfaces.HoldingQuery) ([]*models.Holding, error) {
	sql := "SELECT * FROM holding WHERE user_id = $user_id"
	vars := map[string]any{"user_id": userID}

	if q.AssetClass != "" {
		sql += " AND asset_class = $asset_class"
		vars["asset_class"] = q.AssetClass
	}
	if q.Type != "" {
		sql += " AND type = $type"
		vars["type"] = q.Type
	}

	switch q.SortBy {
	case "name":
		sql += " ORDER BY name ASC"
	case "gain_loss":
		sql += " ORDER BY (shares * current_price - shares * average_cost) DESC"
	default:
		sql += " ORDER BY (shares * current_price) DESC"
	}

	if q.Limit > 0 {
		sql += fmt.Sprintf(" LIMIT %d", q.Limit)
	}
	if q.Offset > 0 {
		sql += fmt.Sprintf(" START %d", q.Offset)
	}

	results, err := surrealdb.Query[[]models.Holding](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list holdings: %w", err)
	}

	if results != nil && len(*results) > 0 {
		var mapped []*models.Holding
		for i := range (*results)[0].Result {
			mapped = append(mapped, &(*results)[0].Result[i])
		}
		return mapped, nil
	}
	return nil, nil
}

// Compile-time check
var _ interfaces.HoldingStore = (*HoldingStore)(nil)
