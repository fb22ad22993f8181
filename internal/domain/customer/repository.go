package customer

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("customer not found")

	ErrUpdateConflict = errors.New("update conflict detected")
)

type CustomerRepository interface {
	Save(ctx context.Context, customer *Customer) error

	FindByID(ctx context.Context, shopID, customerID int64) (*Customer, error)

	FindAll(ctx context.Context, shopID int64) ([]*Customer, error)

	Delete(ctx context.Context, shopID, customerID int64) error
}
