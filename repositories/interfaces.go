package repositories

import (
	"context"
	"errors"

	"github.com/upb/coffee-shop/models"
)

var (
	// ErrNotFound is returned when a row does not exist
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a unique constraint is violated
	ErrDuplicate = errors.New("duplicate record")
)

// TransactionManager manages database transactions
type TransactionManager interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) (Transaction, error)
}

// Transaction represents a database transaction
type Transaction interface {
	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Context returns the transaction context
	Context() context.Context
}

// DrinkRepository handles drink data operations
type DrinkRepository interface {
	// List returns every drink ordered by id
	List(ctx context.Context) ([]*models.Drink, error)

	// GetByIDForUpdate retrieves a drink and locks its row for the rest of
	// the surrounding transaction, ErrNotFound if absent
	GetByIDForUpdate(ctx context.Context, id int64) (*models.Drink, error)

	// Create inserts drink and sets its ID, ErrDuplicate on a title clash
	Create(ctx context.Context, drink *models.Drink) error

	// Update overwrites title and recipe
	Update(ctx context.Context, drink *models.Drink) error

	// Delete removes a drink by id, ErrNotFound if absent
	Delete(ctx context.Context, id int64) error
}

// Repositories holds all repository instances
type Repositories struct {
	Drinks DrinkRepository
}
