package loan

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("loan not found")

// Repository is read-only: loan records are written by the sales screen in
// another service, this one only aggregates them.
type Repository interface {
	FindOutstandingByShop(ctx context.Context, shopID int64) ([]*Loan, error)

	FindOutstandingByCustomerName(ctx context.Context, shopID int64, customerName string) ([]*Loan, error)

	// FindOrphanedByShop returns outstanding loans whose customer name
	// matches no current customer of the shop.
	FindOrphanedByShop(ctx context.Context, shopID int64) ([]*Loan, error)

	// ShopIDsWithOutstandingLoans feeds the nightly orphan scan.
	ShopIDsWithOutstandingLoans(ctx context.Context) ([]int64, error)
}
