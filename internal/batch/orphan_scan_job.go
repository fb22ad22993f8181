package batch

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"pos-customer-service/internal/domain/loan"
	"pos-customer-service/internal/infrastructure/monitoring"

	"golang.org/x/time/rate"
)

// OrphanScanJob finds outstanding loans whose customer name no longer
// matches any customer. Loans are associated by name instead of ID, so a
// rename or delete silently detaches them; this job keeps the drift visible
// without changing write semantics.
type OrphanScanJob struct {
	loanRepo loan.Repository
	limiter  *rate.Limiter
	logger   *slog.Logger
}

func NewOrphanScanJob(loanRepo loan.Repository, shopsPerSecond float64, logger *slog.Logger) *OrphanScanJob {
	if loanRepo == nil || logger == nil {
		panic("OrphanScanJob dependencies cannot be nil")
	}
	if shopsPerSecond <= 0 {
		shopsPerSecond = 5
	}
	return &OrphanScanJob{
		loanRepo: loanRepo,
		limiter:  rate.NewLimiter(rate.Limit(shopsPerSecond), 1),
		logger:   logger.With("job", "OrphanScan"),
	}
}

func (j *OrphanScanJob) Run(ctx context.Context) error {
	startTime := time.Now()
	j.logger.InfoContext(ctx, "Starting orphaned loan scan job.")

	shopIDs, err := j.loanRepo.ShopIDsWithOutstandingLoans(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to list shops with outstanding loans, aborting job.", slog.Any("error", err))
		return fmt.Errorf("cannot run job, failed to list shops: %w", err)
	}
	j.logger.InfoContext(ctx, "Fetched shops with outstanding loans.", slog.Int("count", len(shopIDs)))

	if len(shopIDs) == 0 {
		j.logger.InfoContext(ctx, "No shops with outstanding loans to scan.")
		j.logger.InfoContext(ctx, "Orphaned loan scan job finished.", slog.Duration("duration", time.Since(startTime)))
		return nil
	}

	var scannedShops, orphanedTotal, errorCount int

	for _, shopID := range shopIDs {
		// Pace the scan so a large tenant list cannot saturate the pool.
		if err := j.limiter.Wait(ctx); err != nil {
			j.logger.WarnContext(ctx, "Orphan scan interrupted while waiting for limiter", slog.Any("error", err))
			break
		}

		logCtx := j.logger.With(slog.Int64("shopID", shopID))
		orphans, scanErr := j.loanRepo.FindOrphanedByShop(ctx, shopID)
		if scanErr != nil {
			logCtx.ErrorContext(ctx, "Failed to scan shop for orphaned loans", slog.Any("error", scanErr))
			errorCount++
			continue
		}
		scannedShops++

		monitoring.Business.OrphanedLoans.WithLabelValues(strconv.FormatInt(shopID, 10)).Set(float64(len(orphans)))
		if len(orphans) == 0 {
			continue
		}
		orphanedTotal += len(orphans)

		for _, orphan := range orphans {
			logCtx.WarnContext(ctx, "Outstanding loan matches no current customer",
				slog.Int64("loanID", orphan.ID),
				slog.String("customerName", orphan.CustomerName),
				slog.String("amount", orphan.Amount),
				slog.String("transactionRef", orphan.TransactionRef))
		}
	}

	j.logger.InfoContext(ctx, "Orphaned loan scan job finished.",
		slog.Int("scannedShops", scannedShops),
		slog.Int("orphanedLoans", orphanedTotal),
		slog.Int("errors", errorCount),
		slog.Duration("duration", time.Since(startTime)))

	if errorCount > 0 {
		return fmt.Errorf("orphan scan completed with %d shop scan errors", errorCount)
	}
	return nil
}
