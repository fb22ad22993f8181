package loan

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (_m *MockRepository) FindOutstandingByShop(ctx context.Context, shopID int64) ([]*Loan, error) {
	ret := _m.Called(ctx, shopID)

	var r0 []*Loan
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*Loan)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) FindOutstandingByCustomerName(ctx context.Context, shopID int64, customerName string) ([]*Loan, error) {
	ret := _m.Called(ctx, shopID, customerName)

	var r0 []*Loan
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*Loan)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) FindOrphanedByShop(ctx context.Context, shopID int64) ([]*Loan, error) {
	ret := _m.Called(ctx, shopID)

	var r0 []*Loan
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*Loan)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) ShopIDsWithOutstandingLoans(ctx context.Context) ([]int64, error) {
	ret := _m.Called(ctx)

	var r0 []int64
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]int64)
	}
	return r0, ret.Error(1)
}
