package loan

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

type LoanService interface {
	// OutstandingForCustomer returns a customer's outstanding loan records
	// together with their count-and-total summary.
	OutstandingForCustomer(ctx context.Context, shopID int64, customerName string) ([]*Loan, Summary, error)

	// ShopSummary aggregates every outstanding loan of a shop into a map
	// keyed by lowercase customer name. The list screen uses it to render
	// per-row loan badges with a single call.
	ShopSummary(ctx context.Context, shopID int64) (map[string]Summary, error)
}

var _ LoanService = (*loanService)(nil)

type loanService struct {
	repo   Repository
	logger *slog.Logger
}

func NewLoanService(repo Repository, logger *slog.Logger) LoanService {
	if repo == nil {
		panic("loan repository cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewLoanService, using default stderr handler")
	}
	return &loanService{
		repo:   repo,
		logger: logger.With(slog.String("component", "loanService")),
	}
}

func (s *loanService) OutstandingForCustomer(ctx context.Context, shopID int64, customerName string) ([]*Loan, Summary, error) {
	logCtx := s.logger.With(slog.Int64("shopID", shopID), slog.String("customerName", customerName))
	logCtx.InfoContext(ctx, "Attempting to aggregate outstanding loans for customer")

	customerName = strings.TrimSpace(customerName)
	if customerName == "" {
		logCtx.WarnContext(ctx, "Validation failed: customer name is empty")
		return nil, Summary{}, fmt.Errorf("customer name cannot be empty")
	}

	loans, err := s.repo.FindOutstandingByCustomerName(ctx, shopID, customerName)
	if err != nil {
		logCtx.ErrorContext(ctx, "Repository error finding loans by customer name", slog.Any("error", err))
		return nil, Summary{}, fmt.Errorf("failed to find loans for customer %q: %w", customerName, err)
	}

	summary := s.summarize(ctx, loans)
	logCtx.InfoContext(ctx, "Aggregated outstanding loans for customer",
		slog.Int("count", summary.Count), slog.String("total", summary.Total.StringFixed(2)))
	return loans, summary, nil
}

func (s *loanService) ShopSummary(ctx context.Context, shopID int64) (map[string]Summary, error) {
	logCtx := s.logger.With(slog.Int64("shopID", shopID))
	logCtx.InfoContext(ctx, "Attempting to aggregate outstanding loans for shop")

	loans, err := s.repo.FindOutstandingByShop(ctx, shopID)
	if err != nil {
		logCtx.ErrorContext(ctx, "Repository error listing outstanding loans", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list outstanding loans for shop %d: %w", shopID, err)
	}

	// Keyed by lowercase name to mirror the case-insensitive association.
	summaries := make(map[string]Summary)
	for _, l := range loans {
		key := strings.ToLower(strings.TrimSpace(l.CustomerName))
		entry := summaries[key]
		entry.Count++
		amt, ok := l.ParsedAmount()
		if !ok {
			logCtx.WarnContext(ctx, "Loan amount did not parse, counting as zero",
				slog.Int64("loanID", l.ID), slog.String("transactionRef", l.TransactionRef), slog.String("amount", l.Amount))
		}
		entry.Total = entry.Total.Add(amt)
		summaries[key] = entry
	}

	logCtx.InfoContext(ctx, "Aggregated outstanding loans for shop",
		slog.Int("loanCount", len(loans)), slog.Int("customerCount", len(summaries)))
	return summaries, nil
}

func (s *loanService) summarize(ctx context.Context, loans []*Loan) Summary {
	summary := Summarize(loans)
	for _, l := range loans {
		if _, ok := l.ParsedAmount(); !ok {
			s.logger.WarnContext(ctx, "Loan amount did not parse, counting as zero",
				slog.Int64("loanID", l.ID), slog.String("transactionRef", l.TransactionRef), slog.String("amount", l.Amount))
		}
	}
	return summary
}
