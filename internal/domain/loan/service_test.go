package loan

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupLoanServiceTest(t *testing.T) (*MockRepository, LoanService) {
	t.Helper()
	mockRepo := new(MockRepository)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return mockRepo, NewLoanService(mockRepo, logger)
}

func TestOutstandingForCustomer_Success(t *testing.T) {
	mockRepo, svc := setupLoanServiceTest(t)
	ctx := context.Background()
	loans := []*Loan{
		{ID: 1, ShopID: 7, CustomerName: "Siti Rahma", Amount: "100.00", Status: StatusOutstanding},
		{ID: 2, ShopID: 7, CustomerName: "siti rahma", Amount: "25.50", Status: StatusOutstanding},
	}

	mockRepo.On("FindOutstandingByCustomerName", ctx, int64(7), "Siti Rahma").Return(loans, nil).Once()

	got, summary, err := svc.OutstandingForCustomer(ctx, 7, "  Siti Rahma  ")

	assert.NoError(t, err)
	assert.Equal(t, loans, got)
	assert.Equal(t, 2, summary.Count)
	assert.Equal(t, "125.50", summary.Total.StringFixed(2))
	mockRepo.AssertExpectations(t)
}

func TestOutstandingForCustomer_UnparsableAmountCountsAsZero(t *testing.T) {
	mockRepo, svc := setupLoanServiceTest(t)
	ctx := context.Background()

	mockRepo.On("FindOutstandingByCustomerName", ctx, int64(7), "Budi").Return([]*Loan{
		{ID: 1, ShopID: 7, CustomerName: "Budi", Amount: "80"},
		{ID: 2, ShopID: 7, CustomerName: "Budi", Amount: "belum dibayar"},
	}, nil).Once()

	_, summary, err := svc.OutstandingForCustomer(ctx, 7, "Budi")

	assert.NoError(t, err)
	assert.Equal(t, 2, summary.Count)
	assert.Equal(t, "80.00", summary.Total.StringFixed(2))
}

func TestOutstandingForCustomer_EmptyNameRejected(t *testing.T) {
	mockRepo, svc := setupLoanServiceTest(t)

	_, _, err := svc.OutstandingForCustomer(context.Background(), 7, "   ")

	assert.Error(t, err)
	mockRepo.AssertNotCalled(t, "FindOutstandingByCustomerName", mock.Anything, mock.Anything, mock.Anything)
}

func TestOutstandingForCustomer_RepositoryError(t *testing.T) {
	mockRepo, svc := setupLoanServiceTest(t)
	ctx := context.Background()
	dbErr := errors.New("connection reset")

	mockRepo.On("FindOutstandingByCustomerName", ctx, int64(7), "Budi").Return(nil, dbErr).Once()

	_, _, err := svc.OutstandingForCustomer(ctx, 7, "Budi")

	assert.ErrorIs(t, err, dbErr)
}

func TestShopSummary_GroupsByLowercaseName(t *testing.T) {
	mockRepo, svc := setupLoanServiceTest(t)
	ctx := context.Background()

	mockRepo.On("FindOutstandingByShop", ctx, int64(7)).Return([]*Loan{
		{ID: 1, ShopID: 7, CustomerName: "Siti Rahma", Amount: "100"},
		{ID: 2, ShopID: 7, CustomerName: "SITI RAHMA ", Amount: "50"},
		{ID: 3, ShopID: 7, CustomerName: "Budi", Amount: "30"},
	}, nil).Once()

	summaries, err := svc.ShopSummary(ctx, 7)

	assert.NoError(t, err)
	assert.Len(t, summaries, 2)
	assert.Equal(t, 2, summaries["siti rahma"].Count)
	assert.Equal(t, "150.00", summaries["siti rahma"].Total.StringFixed(2))
	assert.Equal(t, 1, summaries["budi"].Count)
	assert.Equal(t, "30.00", summaries["budi"].Total.StringFixed(2))
}

func TestShopSummary_Empty(t *testing.T) {
	mockRepo, svc := setupLoanServiceTest(t)
	ctx := context.Background()

	mockRepo.On("FindOutstandingByShop", ctx, int64(7)).Return([]*Loan{}, nil).Once()

	summaries, err := svc.ShopSummary(ctx, 7)

	assert.NoError(t, err)
	assert.Empty(t, summaries)
}
