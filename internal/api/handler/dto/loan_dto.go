package dto

import (
	"strconv"
	"time"

	"pos-customer-service/internal/domain/loan"
)

type LoanResponse struct {
	ID             string    `json:"id"`
	CustomerName   string    `json:"customerName"`
	Amount         string    `json:"amount"`
	RecordedAt     time.Time `json:"recordedAt"`
	TransactionRef string    `json:"transactionRef,omitempty"`
	Status         string    `json:"status"`
}

func NewLoanResponse(l *loan.Loan) LoanResponse {
	if l == nil {
		return LoanResponse{}
	}
	return LoanResponse{
		ID:             strconv.FormatInt(l.ID, 10),
		CustomerName:   l.CustomerName,
		Amount:         l.Amount,
		RecordedAt:     l.RecordedAt,
		TransactionRef: l.TransactionRef,
		Status:         string(l.Status),
	}
}

type LoanSummaryResponse struct {
	Count int    `json:"count"`
	Total string `json:"total"`
}

func NewLoanSummaryResponse(s loan.Summary) LoanSummaryResponse {
	return LoanSummaryResponse{
		Count: s.Count,
		Total: s.Total.StringFixed(2),
	}
}

// CustomerLoansResponse backs GET /shops/{shopID}/customers/{customerID}/loans.
type CustomerLoansResponse struct {
	Loans   []LoanResponse      `json:"loans"`
	Summary LoanSummaryResponse `json:"summary"`
}

func NewCustomerLoansResponse(loans []*loan.Loan, summary loan.Summary) CustomerLoansResponse {
	resp := CustomerLoansResponse{
		Loans:   make([]LoanResponse, len(loans)),
		Summary: NewLoanSummaryResponse(summary),
	}
	for i, l := range loans {
		resp.Loans[i] = NewLoanResponse(l)
	}
	return resp
}

// ShopLoanSummaryResponse maps lowercase customer names to their summary.
type ShopLoanSummaryResponse struct {
	Customers map[string]LoanSummaryResponse `json:"customers"`
}

func NewShopLoanSummaryResponse(summaries map[string]loan.Summary) ShopLoanSummaryResponse {
	resp := ShopLoanSummaryResponse{Customers: make(map[string]LoanSummaryResponse, len(summaries))}
	for name, s := range summaries {
		resp.Customers[name] = NewLoanSummaryResponse(s)
	}
	return resp
}
