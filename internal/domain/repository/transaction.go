package repository

import "context"

// TransactionManager defines the interface for managing database transactions.
// This allows the use case layer to handle transactions without depending on a specific DB driver like GORM.
type TransactionManager interface {
	// Execute runs a function within a database transaction.
	// If the function returns an error, the transaction is rolled back. Otherwise, it's committed.
	// All repository operations obtained from the factory use the same database transaction,
	// so multi-step cascades (account delete, cafe delete) cannot leave orphaned rows.
	Execute(ctx context.Context, fn func(txRepoFactory RepositoryFactory) error) error
}

// RepositoryFactory provides repository instances bound to a specific transaction.
type RepositoryFactory interface {
	// AccountRepo returns an AccountRepository bound to the current transaction.
	AccountRepo() AccountRepository

	// CafeRepo returns a CafeRepository bound to the current transaction.
	CafeRepo() CafeRepository

	// RatingRepo returns a RatingRepository bound to the current transaction.
	RatingRepo() RatingRepository

	// FavoriteRepo returns a FavoriteRepository bound to the current transaction.
	FavoriteRepo() FavoriteRepository

	// RefreshTokenRepo returns a RefreshTokenRepository bound to the current transaction.
	RefreshTokenRepo() RefreshTokenRepository

	// ResetTokenRepo returns a ResetTokenRepository bound to the current transaction.
	ResetTokenRepo() ResetTokenRepository
}
