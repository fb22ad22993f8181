package loan

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type LoanStatus string

const (
	// StatusOutstanding is the status loan records are written with at the
	// till; it is the only status this service aggregates.
	StatusOutstanding LoanStatus = "outstanding"
	StatusSettled     LoanStatus = "settled"
)

// Loan is a credit record captured against a sale. It references its
// customer by name, not by ID; the match is case-insensitive string
// equality, so renaming a customer detaches its historical loans.
type Loan struct {
	ID             int64      `json:"id"`
	ShopID         int64      `json:"shopId"`
	CustomerName   string     `json:"customerName"`
	Amount         string     `json:"amount"`
	RecordedAt     time.Time  `json:"recordedAt"`
	TransactionRef string     `json:"transactionRef"`
	Status         LoanStatus `json:"status"`
}

// ParsedAmount returns the loan amount as a decimal, and whether the raw
// string parsed. Amounts are free-form text as captured at the point of
// sale; records that fail to parse count as zero in sums.
func (l *Loan) ParsedAmount() (decimal.Decimal, bool) {
	amt, err := decimal.NewFromString(strings.TrimSpace(l.Amount))
	if err != nil {
		return decimal.Zero, false
	}
	return amt, true
}

// MatchesCustomer reports whether this loan is associated with the given
// customer name.
func (l *Loan) MatchesCustomer(name string) bool {
	return strings.EqualFold(strings.TrimSpace(l.CustomerName), strings.TrimSpace(name))
}

// Summary is the aggregate a customer row displays: how many outstanding
// loans the customer has and their total value.
type Summary struct {
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// Summarize folds a slice of loans into a Summary. Unparsable amounts
// contribute zero to the total but still count.
func Summarize(loans []*Loan) Summary {
	s := Summary{Total: decimal.Zero}
	for _, l := range loans {
		s.Count++
		if amt, ok := l.ParsedAmount(); ok {
			s.Total = s.Total.Add(amt)
		}
	}
	return s
}
