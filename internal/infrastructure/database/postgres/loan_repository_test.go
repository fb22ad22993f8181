package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"

	"pos-customer-service/internal/domain/loan"
	"pos-customer-service/internal/pkg/apperrors"
)

var loanColumnNames = []string{"id", "shop_id", "customer_name", "amount", "recorded_at", "transaction_ref", "status"}

func setupLoanRepo(t *testing.T) (context.Context, *LoanRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to open a stub database connection: %v", err)
	}

	ctx := context.Background()
	repo := NewLoanRepository(mockPool, logger)

	return ctx, repo, mockPool
}

func TestFindOutstandingByShopWhenSuccess(t *testing.T) {
	ctx, repo, mockPool := setupLoanRepo(t)
	defer mockPool.Close()

	recordedAt := time.Date(2026, 2, 1, 14, 30, 0, 0, time.UTC)
	mockPool.ExpectQuery(regexp.QuoteMeta("FROM loans")).
		WithArgs(int64(7), loan.StatusOutstanding).
		WillReturnRows(pgxmock.NewRows(loanColumnNames).
			AddRow(int64(1), int64(7), "Siti Rahma", "150.00", recordedAt, "TRX-001", loan.StatusOutstanding).
			AddRow(int64(2), int64(7), "Budi", "30", recordedAt, "TRX-002", loan.StatusOutstanding))

	loans, err := repo.FindOutstandingByShop(ctx, 7)

	assert.NoError(t, err)
	assert.Len(t, loans, 2)
	assert.Equal(t, "Siti Rahma", loans[0].CustomerName)
	assert.Equal(t, "150.00", loans[0].Amount)
	assert.Equal(t, loan.StatusOutstanding, loans[0].Status)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestFindOutstandingByShopWhenQueryFails(t *testing.T) {
	ctx, repo, mockPool := setupLoanRepo(t)
	defer mockPool.Close()

	mockPool.ExpectQuery(regexp.QuoteMeta("FROM loans")).
		WithArgs(int64(7), loan.StatusOutstanding).
		WillReturnError(errors.New("connection refused"))

	loans, err := repo.FindOutstandingByShop(ctx, 7)

	assert.ErrorIs(t, err, apperrors.ErrDatabase)
	assert.Nil(t, loans)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestFindOutstandingByCustomerNameWhenSuccess(t *testing.T) {
	ctx, repo, mockPool := setupLoanRepo(t)
	defer mockPool.Close()

	recordedAt := time.Date(2026, 2, 1, 14, 30, 0, 0, time.UTC)
	mockPool.ExpectQuery(regexp.QuoteMeta("lower(customer_name) = lower($3)")).
		WithArgs(int64(7), loan.StatusOutstanding, "Siti Rahma").
		WillReturnRows(pgxmock.NewRows(loanColumnNames).
			AddRow(int64(1), int64(7), "siti rahma", "150.00", recordedAt, "TRX-001", loan.StatusOutstanding))

	loans, err := repo.FindOutstandingByCustomerName(ctx, 7, "Siti Rahma")

	assert.NoError(t, err)
	assert.Len(t, loans, 1)
	assert.Equal(t, "siti rahma", loans[0].CustomerName)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestFindOutstandingByCustomerNameWhenEmpty(t *testing.T) {
	ctx, repo, mockPool := setupLoanRepo(t)
	defer mockPool.Close()

	mockPool.ExpectQuery(regexp.QuoteMeta("lower(customer_name) = lower($3)")).
		WithArgs(int64(7), loan.StatusOutstanding, "Nobody").
		WillReturnRows(pgxmock.NewRows(loanColumnNames))

	loans, err := repo.FindOutstandingByCustomerName(ctx, 7, "Nobody")

	assert.NoError(t, err)
	assert.Empty(t, loans)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestFindOrphanedByShopWhenSuccess(t *testing.T) {
	ctx, repo, mockPool := setupLoanRepo(t)
	defer mockPool.Close()

	recordedAt := time.Date(2026, 2, 1, 14, 30, 0, 0, time.UTC)
	mockPool.ExpectQuery(regexp.QuoteMeta("NOT EXISTS")).
		WithArgs(int64(7), loan.StatusOutstanding).
		WillReturnRows(pgxmock.NewRows(loanColumnNames).
			AddRow(int64(3), int64(7), "Old Name", "99.99", recordedAt, "TRX-003", loan.StatusOutstanding))

	loans, err := repo.FindOrphanedByShop(ctx, 7)

	assert.NoError(t, err)
	assert.Len(t, loans, 1)
	assert.Equal(t, "Old Name", loans[0].CustomerName)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestShopIDsWithOutstandingLoansWhenSuccess(t *testing.T) {
	ctx, repo, mockPool := setupLoanRepo(t)
	defer mockPool.Close()

	query := `SELECT DISTINCT shop_id FROM loans WHERE status = $1 ORDER BY shop_id`

	mockPool.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(loan.StatusOutstanding).
		WillReturnRows(pgxmock.NewRows([]string{"shop_id"}).
			AddRow(int64(3)).
			AddRow(int64(7)))

	shopIDs, err := repo.ShopIDsWithOutstandingLoans(ctx)

	assert.NoError(t, err)
	assert.Equal(t, []int64{3, 7}, shopIDs)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestShopIDsWithOutstandingLoansWhenQueryFails(t *testing.T) {
	ctx, repo, mockPool := setupLoanRepo(t)
	defer mockPool.Close()

	mockPool.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT shop_id")).
		WithArgs(loan.StatusOutstanding).
		WillReturnError(errors.New("connection refused"))

	shopIDs, err := repo.ShopIDsWithOutstandingLoans(ctx)

	assert.ErrorIs(t, err, apperrors.ErrDatabase)
	assert.Nil(t, shopIDs)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}
