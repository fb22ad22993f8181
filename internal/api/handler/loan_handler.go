package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"pos-customer-service/internal/api/handler/dto"
	"pos-customer-service/internal/domain/customer"
	"pos-customer-service/internal/domain/loan"
	"pos-customer-service/internal/pkg/apperrors"
)

type LoanHandler struct {
	loanService     loan.LoanService
	customerService customer.CustomerService
	logger          *slog.Logger
}

func NewLoanHandler(ls loan.LoanService, cs customer.CustomerService, l *slog.Logger) *LoanHandler {
	if ls == nil || cs == nil {
		panic("loan and customer services cannot be nil")
	}
	return &LoanHandler{
		loanService:     ls,
		customerService: cs,
		logger:          l.With("component", "LoanHandler"),
	}
}

// GetCustomerLoans handles GET /shops/{shopID}/customers/{customerID}/loans
// @Summary Outstanding loans for a customer
// @Description Returns the customer's outstanding loan records, matched by case-insensitive name equality, with their count and total.
// @Tags Loans
// @Produce json
// @Param shopID path int true "Shop ID" Minimum(1)
// @Param customerID path int true "Customer ID" Minimum(1)
// @Success 200 {object} dto.CustomerLoansResponse "Outstanding loans and summary"
// @Failure 400 {object} dto.ErrorResponse "Invalid shop or customer ID format"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /shops/{shopID}/customers/{customerID}/loans [get]
// @Security BearerAuth
func (h *LoanHandler) GetCustomerLoans(w http.ResponseWriter, r *http.Request) {
	shopID, customerID, err := getShopAndCustomerID(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get IDs from URL", slog.Any("error", err))
		respondError(w, err)
		return
	}

	// Resolve the customer first: loans are matched by name, and the
	// screen asks for a customer's loans by ID.
	domainCustomer, err := h.customerService.GetCustomer(r.Context(), shopID, customerID)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, customer.ErrNotFound) && !errors.Is(err, apperrors.ErrNotFound) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Failed to resolve customer for loan lookup", slog.Any("error", err))
		respondError(w, err)
		return
	}

	loans, summary, err := h.loanService.OutstandingForCustomer(r.Context(), shopID, domainCustomer.Name)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to aggregate customer loans", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := dto.NewCustomerLoansResponse(loans, summary)
	h.logger.InfoContext(r.Context(), "Customer loans retrieved successfully",
		slog.Int64("customerID", customerID), slog.Int("count", summary.Count))
	respondJSON(w, http.StatusOK, resp)
}

// GetShopLoanSummary handles GET /shops/{shopID}/loans/summary
// @Summary Per-customer loan summary for a shop
// @Description Aggregates all outstanding loans of the shop into a map keyed by lowercase customer name, each entry holding count and total.
// @Tags Loans
// @Produce json
// @Param shopID path int true "Shop ID" Minimum(1)
// @Success 200 {object} dto.ShopLoanSummaryResponse "Per-customer summaries"
// @Failure 400 {object} dto.ErrorResponse "Invalid shop ID format"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /shops/{shopID}/loans/summary [get]
// @Security BearerAuth
func (h *LoanHandler) GetShopLoanSummary(w http.ResponseWriter, r *http.Request) {
	shopID, err := getShopIDFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get shop ID from URL", slog.Any("error", err))
		respondError(w, err)
		return
	}

	summaries, err := h.loanService.ShopSummary(r.Context(), shopID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to aggregate shop loans", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := dto.NewShopLoanSummaryResponse(summaries)
	h.logger.InfoContext(r.Context(), "Shop loan summary retrieved successfully",
		slog.Int64("shopID", shopID), slog.Int("customers", len(resp.Customers)))
	respondJSON(w, http.StatusOK, resp)
}
