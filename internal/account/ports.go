package account

import (
	"context"
)

// Repository defines the contract for account storage.
//
// CreateWithProfile inserts the member profile and the account as one unit;
// when either insert fails, neither row persists.
type Repository interface {
	Create(ctx context.Context, a *Account) error
	CreateWithProfile(ctx context.Context, a *Account, profileName, profileEmail string) error
	GetByID(ctx context.Context, id int64) (Account, error)
	GetByUsername(ctx context.Context, username string) (Account, error)
}
