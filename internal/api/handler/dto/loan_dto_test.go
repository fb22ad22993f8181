package dto

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"pos-customer-service/internal/domain/loan"
)

func TestNewLoanSummaryResponse(t *testing.T) {
	s := loan.Summary{Count: 3, Total: decimal.RequireFromString("150.5")}

	resp := NewLoanSummaryResponse(s)

	assert.Equal(t, 3, resp.Count)
	assert.Equal(t, "150.50", resp.Total, "totals render with two decimal places")
}

func TestNewLoanSummaryResponseZero(t *testing.T) {
	resp := NewLoanSummaryResponse(loan.Summary{})

	assert.Equal(t, 0, resp.Count)
	assert.Equal(t, "0.00", resp.Total)
}

func TestNewCustomerLoansResponse(t *testing.T) {
	loans := []*loan.Loan{
		{ID: 1, CustomerName: "Siti Rahma", Amount: "100.50", Status: loan.StatusOutstanding},
		{ID: 2, CustomerName: "siti rahma", Amount: "50", Status: loan.StatusOutstanding},
	}
	summary := loan.Summary{Count: 2, Total: decimal.RequireFromString("150.50")}

	resp := NewCustomerLoansResponse(loans, summary)

	assert.Len(t, resp.Loans, 2)
	assert.Equal(t, "1", resp.Loans[0].ID)
	assert.Equal(t, "outstanding", resp.Loans[0].Status)
	assert.Equal(t, "150.50", resp.Summary.Total)
}

func TestNewShopLoanSummaryResponse(t *testing.T) {
	summaries := map[string]loan.Summary{
		"budi": {Count: 1, Total: decimal.RequireFromString("30")},
	}

	resp := NewShopLoanSummaryResponse(summaries)

	assert.Len(t, resp.Customers, 1)
	assert.Equal(t, "30.00", resp.Customers["budi"].Total)
}
