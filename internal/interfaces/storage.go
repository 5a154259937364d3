// Package interfaces defines service contracts for Folio
package interfaces

import (
	"context"
	"errors"

	"github.com/dansutton/folio/internal/models"
)

// Store-level sentinel errors shared by every StorageManager implementation.
// "Not found" covers both absence and ownership by a different user. The
// two cases are deliberately indistinguishable to callers.
var (
	ErrHoldingNotFound     = errors.New("holding not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrUserNotFound        = errors.New("user not found")
)

// StorageManager coordinates all storage backends
type StorageManager interface {
	InternalStore() InternalStore
	HoldingStore() HoldingStore
	TransactionStore() TransactionStore

	// Lifecycle
	Close() error
}

// InternalStore manages user accounts and system-level KV.
type InternalStore interface {
	GetUser(ctx context.Context, userID string) (*models.InternalUser, error)
	GetUserByEmail(ctx context.Context, email string) (*models.InternalUser, error)
	SaveUser(ctx context.Context, user *models.InternalUser) error
	DeleteUser(ctx context.Context, userID string) error

	GetSystemKV(ctx context.Context, key string) (string, error)
	SetSystemKV(ctx context.Context, key, value string) error

	Close() error
}

// HoldingQuery configures filtering, sorting and pagination for holding lists.
type HoldingQuery struct {
	AssetClass string // filter by asset class, empty matches all
	Type       string // filter by instrument type, empty matches all
	SortBy     string // "value" (default), "name", "gain_loss"
	Limit      int    // 0 means no limit
	Offset     int
}

// HoldingStore persists investment positions. All operations are scoped to
// the owning user; a holding is never visible to another user.
type HoldingStore interface {
	Get(ctx context.Context, userID, holdingID string) (*models.Holding, error)
	Put(ctx context.Context, holding *models.Holding) error
	Delete(ctx context.Context, userID, holdingID string) error
	List(ctx context.Context, userID string, q HoldingQuery) ([]*models.Holding, error)
}

// TransactionStore persists the append/delete-able investment ledger.
type TransactionStore interface {
	Get(ctx context.Context, userID, txID string) (*models.InvestmentTransaction, error)
	Create(ctx context.Context, tx *models.InvestmentTransaction) error
	// Delete removes one row and returns the number of rows affected, so the
	// caller can detect a row that vanished between read and delete.
	Delete(ctx context.Context, userID, txID string) (int, error)
	ListByHolding(ctx context.Context, userID, holdingID string) ([]*models.InvestmentTransaction, error)
	// DeleteByHolding removes every transaction of a holding (cascade) and
	// returns the number of rows removed.
	DeleteByHolding(ctx context.Context, userID, holdingID string) (int, error)
}
