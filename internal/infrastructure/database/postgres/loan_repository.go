package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"pos-customer-service/internal/domain/loan"
	"pos-customer-service/internal/infrastructure/monitoring"
	"pos-customer-service/internal/pkg/apperrors"
)

type LoanRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ loan.Repository = (*LoanRepository)(nil)

func NewLoanRepository(db DBPool, logger *slog.Logger) *LoanRepository {
	if db == nil {
		panic("DBPool cannot be nil for LoanRepository")
	}
	return &LoanRepository{db: db, logger: logger.With("component", "LoanRepository")}
}

const loanColumns = `id, shop_id, customer_name, amount, recorded_at, transaction_ref, status`

func (r *LoanRepository) FindOutstandingByShop(ctx context.Context, shopID int64) ([]*loan.Loan, error) {
	logCtx := r.logger.With(slog.Int64("shopID", shopID))
	logCtx.DebugContext(ctx, "Attempting to find outstanding loans for shop")
	start := time.Now()

	query := `
        SELECT ` + loanColumns + `
        FROM loans
        WHERE shop_id = $1 AND status = $2
        ORDER BY recorded_at DESC`

	rows, err := r.db.Query(ctx, query, shopID, loan.StatusOutstanding)
	monitoring.ObserveDBQuery("loan_find_outstanding_by_shop", start, err)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to query outstanding loans", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to query outstanding loans: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	return r.scanLoans(ctx, rows)
}

func (r *LoanRepository) FindOutstandingByCustomerName(ctx context.Context, shopID int64, customerName string) ([]*loan.Loan, error) {
	logCtx := r.logger.With(slog.Int64("shopID", shopID), slog.String("customerName", customerName))
	logCtx.DebugContext(ctx, "Attempting to find outstanding loans by customer name")
	start := time.Now()

	// The association is by name, case-insensitively. There is no foreign
	// key to join on.
	query := `
        SELECT ` + loanColumns + `
        FROM loans
        WHERE shop_id = $1 AND status = $2 AND lower(customer_name) = lower($3)
        ORDER BY recorded_at DESC`

	rows, err := r.db.Query(ctx, query, shopID, loan.StatusOutstanding, customerName)
	monitoring.ObserveDBQuery("loan_find_outstanding_by_customer_name", start, err)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to query loans by customer name", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to query loans by customer name: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	return r.scanLoans(ctx, rows)
}

func (r *LoanRepository) FindOrphanedByShop(ctx context.Context, shopID int64) ([]*loan.Loan, error) {
	logCtx := r.logger.With(slog.Int64("shopID", shopID))
	logCtx.DebugContext(ctx, "Attempting to find orphaned loans for shop")
	start := time.Now()

	query := `
        SELECT ` + loanColumns + `
        FROM loans l
        WHERE l.shop_id = $1 AND l.status = $2
          AND NOT EXISTS (
            SELECT 1 FROM customers c
            WHERE c.shop_id = l.shop_id AND lower(c.name) = lower(l.customer_name)
          )
        ORDER BY l.recorded_at DESC`

	rows, err := r.db.Query(ctx, query, shopID, loan.StatusOutstanding)
	monitoring.ObserveDBQuery("loan_find_orphaned_by_shop", start, err)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to query orphaned loans", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to query orphaned loans: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	return r.scanLoans(ctx, rows)
}

func (r *LoanRepository) ShopIDsWithOutstandingLoans(ctx context.Context) ([]int64, error) {
	r.logger.DebugContext(ctx, "Attempting to list shops with outstanding loans")
	start := time.Now()

	query := `SELECT DISTINCT shop_id FROM loans WHERE status = $1 ORDER BY shop_id`

	rows, err := r.db.Query(ctx, query, loan.StatusOutstanding)
	monitoring.ObserveDBQuery("loan_shop_ids_with_outstanding", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query shops with outstanding loans", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to query shops with outstanding loans: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	shopIDs := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan shop ID row", slog.Any("error", err))
			return nil, fmt.Errorf("%w: failed to scan shop ID row: %w", apperrors.ErrDatabase, err)
		}
		shopIDs = append(shopIDs, id)
	}
	if err := rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating shop ID rows", slog.Any("error", err))
		return nil, fmt.Errorf("%w: error iterating shop ID rows: %w", apperrors.ErrDatabase, err)
	}

	r.logger.DebugContext(ctx, "Finished listing shops with outstanding loans", slog.Int("count", len(shopIDs)))
	return shopIDs, nil
}

type pgxRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func (r *LoanRepository) scanLoans(ctx context.Context, rows pgxRows) ([]*loan.Loan, error) {
	loans := make([]*loan.Loan, 0)
	for rows.Next() {
		var l loan.Loan
		err := rows.Scan(
			&l.ID,
			&l.ShopID,
			&l.CustomerName,
			&l.Amount,
			&l.RecordedAt,
			&l.TransactionRef,
			&l.Status,
		)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan loan row", slog.Any("error", err))
			return nil, fmt.Errorf("%w: failed to scan loan row: %w", apperrors.ErrDatabase, err)
		}
		loans = append(loans, &l)
	}

	if err := rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating loan rows", slog.Any("error", err))
		return nil, fmt.Errorf("%w: error iterating loan rows: %w", apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "Finished finding loans", slog.Int("count", len(loans)))
	return loans, nil
}
